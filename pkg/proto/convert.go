// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package proto

import (
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/keys"
)

func NewEntityID(id hedera.EntityID) *EntityID {
	return &EntityID{ShardNum: int64(id.Shard), RealmNum: int64(id.Realm), Num: int64(id.Num)}
}

func NewAccountID(id hedera.AccountID) *AccountID { return NewEntityID(id.EntityID) }

func (m *EntityID) EntityID() hedera.EntityID {
	return hedera.EntityID{Shard: uint64(m.ShardNum), Realm: uint64(m.RealmNum), Num: uint64(m.Num)}
}

func (m *EntityID) AccountID() hedera.AccountID { return hedera.AccountID{EntityID: m.EntityID()} }
func (m *EntityID) TopicID() hedera.TopicID     { return hedera.TopicID{EntityID: m.EntityID()} }
func (m *EntityID) FileID() hedera.FileID       { return hedera.FileID{EntityID: m.EntityID()} }

func NewTransactionID(id hedera.TransactionID) *TransactionID {
	m := &TransactionID{
		TransactionValidStart: NewTimestamp(id.ValidStart),
		AccountID:             NewAccountID(id.AccountID),
		Scheduled:             id.Scheduled,
	}
	if id.Nonce != nil {
		m.Nonce = *id.Nonce
	}
	return m
}

// TransactionID converts the wire transaction ID. It fails if the account or
// valid start is missing.
func (m *TransactionID) TransactionID() (hedera.TransactionID, error) {
	if m.AccountID == nil || m.TransactionValidStart == nil {
		return hedera.TransactionID{}, errors.EncodingError.With("transaction ID is missing the account or valid start")
	}
	id := hedera.TransactionID{
		AccountID:  m.AccountID.AccountID(),
		ValidStart: m.TransactionValidStart.Time(),
		Scheduled:  m.Scheduled,
	}
	if m.Nonce != 0 {
		n := m.Nonce
		id.Nonce = &n
	}
	return id, nil
}

// NewSignaturePair returns the signature pair for a signature made by the key.
func NewSignaturePair(key keys.PublicKey, signature []byte) *SignaturePair {
	p := &SignaturePair{PubKeyPrefix: key.Bytes()}
	switch key.Type() {
	case keys.ECDSASecp256k1:
		p.ECDSASecp256k1 = signature
	default:
		p.Ed25519 = signature
	}
	return p
}

func NewKey(key keys.PublicKey) *Key {
	switch key.Type() {
	case keys.ECDSASecp256k1:
		return &Key{ECDSASecp256k1: key.Bytes()}
	default:
		return &Key{Ed25519: key.Bytes()}
	}
}
