// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package transaction

import (
	"time"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/network"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/keys"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/proto"
)

// DefaultAutoRenewPeriod is roughly three months.
const DefaultAutoRenewPeriod = 90 * 24 * time.Hour

// AccountCreateData creates an account.
type AccountCreateData struct {
	// Key must sign to spend from the account. A nil key creates an
	// account that cannot be used until its key is set.
	Key *keys.PublicKey

	InitialBalance      hedera.Hbar
	ReceiverSigRequired bool
	AutoRenewPeriod     time.Duration
	Memo                string
}

type AccountCreateTransaction = Transaction[*AccountCreateData]

// NewAccountCreateTransaction returns a transaction that creates an account
// controlled by the key.
func NewAccountCreateTransaction(key keys.PublicKey) *AccountCreateTransaction {
	return New(&AccountCreateData{Key: &key, AutoRenewPeriod: DefaultAutoRenewPeriod})
}

var _ Data = (*AccountCreateData)(nil)

func (*AccountCreateData) Method() string                          { return network.MethodCryptoCreateAccount }
func (*AccountCreateData) DefaultMaxTransactionFee() hedera.Hbar   { return defaultMaxTransactionFee }
func (*AccountCreateData) ValidateChecksums(hedera.LedgerID) error { return nil }

func (d *AccountCreateData) Copy() Data {
	c := *d
	if d.Key != nil {
		key := *d.Key
		c.Key = &key
	}
	return &c
}

func (d *AccountCreateData) TransactionData(ChunkInfo) proto.TransactionData {
	body := &proto.CryptoCreateTransactionBody{
		InitialBalance:      uint64(d.InitialBalance.AsTinybars()),
		ReceiverSigRequired: d.ReceiverSigRequired,
		Memo:                d.Memo,
	}
	if d.Key != nil {
		body.Key = proto.NewKey(*d.Key)
	}
	if d.AutoRenewPeriod != 0 {
		body.AutoRenewPeriod = proto.NewDuration(d.AutoRenewPeriod)
	}
	return body
}

func accountCreateFromBody(body *proto.CryptoCreateTransactionBody) (*AccountCreateData, error) {
	d := &AccountCreateData{
		InitialBalance:      hedera.Tinybars(int64(body.InitialBalance)),
		ReceiverSigRequired: body.ReceiverSigRequired,
		Memo:                body.Memo,
	}
	if body.AutoRenewPeriod != nil {
		d.AutoRenewPeriod = body.AutoRenewPeriod.Duration()
	}
	if body.Key == nil {
		return d, nil
	}

	raw := body.Key.Ed25519
	if raw == nil {
		raw = body.Key.ECDSASecp256k1
	}
	key, err := keys.PublicKeyFromBytes(raw)
	if err != nil {
		return nil, errors.EncodingError.WithFormat("decode account key: %w", err)
	}
	d.Key = &key
	return d, nil
}
