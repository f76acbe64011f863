// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package query

import (
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/network"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/proto"
)

// AccountBalanceData asks for the hbar balance of an account. The query is
// free.
type AccountBalanceData struct {
	AccountID hedera.AccountID
}

type AccountBalanceQuery = Query[*AccountBalanceData, hedera.AccountBalance]

// NewAccountBalanceQuery returns a query for the balance of the account.
func NewAccountBalanceQuery(id hedera.AccountID) *AccountBalanceQuery {
	return New[*AccountBalanceData, hedera.AccountBalance](&AccountBalanceData{AccountID: id})
}

var _ Data[hedera.AccountBalance] = (*AccountBalanceData)(nil)

func (*AccountBalanceData) Method() string                               { return network.MethodCryptoGetBalance }
func (*AccountBalanceData) IsPaymentRequired() bool                      { return false }
func (*AccountBalanceData) TransactionID() *hedera.TransactionID         { return nil }
func (*AccountBalanceData) ShouldRetryPrecheck(hedera.ResponseCode) bool { return false }
func (*AccountBalanceData) ShouldRetry(*proto.Response) bool             { return false }

func (d *AccountBalanceData) ValidateChecksums(ledger hedera.LedgerID) error {
	return d.AccountID.ValidateChecksum(ledger)
}

func (d *AccountBalanceData) QueryData(header *proto.QueryHeader) proto.QueryData {
	return &proto.CryptoGetAccountBalanceQuery{
		Header:    header,
		AccountID: proto.NewAccountID(d.AccountID),
	}
}

func (d *AccountBalanceData) MakeResponse(resp *proto.Response) (hedera.AccountBalance, error) {
	balance, ok := resp.Data.(*proto.CryptoGetAccountBalanceResponse)
	if !ok {
		return hedera.AccountBalance{}, errors.EncodingError.WithFormat("expected a balance response, got %T", resp.Data)
	}

	r := hedera.AccountBalance{AccountID: d.AccountID, Hbars: hedera.Tinybars(int64(balance.Balance))}
	if balance.AccountID != nil {
		r.AccountID = balance.AccountID.AccountID()
	}
	return r, nil
}
