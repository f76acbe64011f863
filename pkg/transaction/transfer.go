// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package transaction

import (
	"golang.org/x/exp/slices"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/network"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/proto"
)

// Transfer moves hbars into (positive) or out of (negative) an account.
type Transfer struct {
	AccountID  hedera.AccountID
	Amount     hedera.Hbar
	IsApproval bool
}

// TransferData moves hbars between accounts. The amounts must sum to zero.
type TransferData struct {
	Transfers []Transfer
}

type TransferTransaction = Transaction[*TransferData]

func NewTransferTransaction() *TransferTransaction {
	return New(new(TransferData))
}

var _ Data = (*TransferData)(nil)

// AddHbarTransfer adds a transfer to the data.
func (d *TransferData) AddHbarTransfer(id hedera.AccountID, amount hedera.Hbar) *TransferData {
	d.Transfers = append(d.Transfers, Transfer{AccountID: id, Amount: amount})
	return d
}

func (*TransferData) Method() string                        { return network.MethodCryptoTransfer }
func (*TransferData) DefaultMaxTransactionFee() hedera.Hbar { return defaultMaxTransactionFee }

func (d *TransferData) Copy() Data {
	return &TransferData{Transfers: slices.Clone(d.Transfers)}
}

func (d *TransferData) ValidateChecksums(ledger hedera.LedgerID) error {
	for _, t := range d.Transfers {
		err := t.AccountID.ValidateChecksum(ledger)
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *TransferData) TransactionData(ChunkInfo) proto.TransactionData {
	list := new(proto.TransferList)
	for _, t := range d.Transfers {
		list.AccountAmounts = append(list.AccountAmounts, &proto.AccountAmount{
			AccountID:  proto.NewAccountID(t.AccountID),
			Amount:     t.Amount.AsTinybars(),
			IsApproval: t.IsApproval,
		})
	}
	return &proto.CryptoTransferTransactionBody{Transfers: list}
}

func transferFromBody(body *proto.CryptoTransferTransactionBody) *TransferData {
	d := new(TransferData)
	if body.Transfers == nil {
		return d
	}
	for _, aa := range body.Transfers.AccountAmounts {
		t := Transfer{Amount: hedera.Tinybars(aa.Amount), IsApproval: aa.IsApproval}
		if aa.AccountID != nil {
			t.AccountID = aa.AccountID.AccountID()
		}
		d.Transfers = append(d.Transfers, t)
	}
	return d
}
