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

// TransactionReceiptData asks for the receipt of a transaction. The query is
// free. Until the transaction reaches consensus the node answers with
// RECEIPT_NOT_FOUND or a receipt with the status UNKNOWN, and the query backs
// off and tries again.
type TransactionReceiptData struct {
	ID                hedera.TransactionID
	IncludeChildren   bool
	IncludeDuplicates bool

	// ValidateStatus fails the query with a [hedera.ReceiptStatusError] if
	// the receipt's status is not SUCCESS.
	ValidateStatus bool
}

type TransactionReceiptQuery = Query[*TransactionReceiptData, hedera.TransactionReceipt]

// NewTransactionReceiptQuery returns a query for the receipt of the
// transaction.
func NewTransactionReceiptQuery(id hedera.TransactionID) *TransactionReceiptQuery {
	return New[*TransactionReceiptData, hedera.TransactionReceipt](&TransactionReceiptData{ID: id})
}

var _ Data[hedera.TransactionReceipt] = (*TransactionReceiptData)(nil)

func (*TransactionReceiptData) Method() string          { return network.MethodGetTransactionReceipts }
func (*TransactionReceiptData) IsPaymentRequired() bool { return false }

func (d *TransactionReceiptData) TransactionID() *hedera.TransactionID { return &d.ID }

func (d *TransactionReceiptData) ValidateChecksums(ledger hedera.LedgerID) error {
	return d.ID.AccountID.ValidateChecksum(ledger)
}

func (d *TransactionReceiptData) QueryData(header *proto.QueryHeader) proto.QueryData {
	return &proto.TransactionGetReceiptQuery{
		Header:               header,
		TransactionID:        proto.NewTransactionID(d.ID),
		IncludeDuplicates:    d.IncludeDuplicates,
		IncludeChildReceipts: d.IncludeChildren,
	}
}

func (*TransactionReceiptData) ShouldRetryPrecheck(status hedera.ResponseCode) bool {
	switch status {
	case hedera.ResponseCodeReceiptNotFound,
		hedera.ResponseCodeRecordNotFound:
		return true
	}
	return false
}

func (*TransactionReceiptData) ShouldRetry(resp *proto.Response) bool {
	r, ok := resp.Data.(*proto.TransactionGetReceiptResponse)
	if !ok || r.Receipt == nil {
		return false
	}
	return hedera.ResponseCode(r.Receipt.Status) == hedera.ResponseCodeUnknown
}

func (d *TransactionReceiptData) MakeResponse(resp *proto.Response) (hedera.TransactionReceipt, error) {
	r, ok := resp.Data.(*proto.TransactionGetReceiptResponse)
	if !ok {
		return hedera.TransactionReceipt{}, errors.EncodingError.WithFormat("expected a receipt response, got %T", resp.Data)
	}
	if r.Receipt == nil {
		return hedera.TransactionReceipt{}, errors.EncodingError.With("response is missing the receipt")
	}

	receipt, err := makeReceipt(r.Receipt, &d.ID)
	if err != nil {
		return hedera.TransactionReceipt{}, err
	}

	for _, m := range r.DuplicateTransactionReceipts {
		dup, err := makeReceipt(m, &d.ID)
		if err != nil {
			return hedera.TransactionReceipt{}, err
		}
		receipt.Duplicates = append(receipt.Duplicates, dup)
	}

	for _, m := range r.ChildTransactionReceipts {
		child, err := makeReceipt(m, nil)
		if err != nil {
			return hedera.TransactionReceipt{}, err
		}
		receipt.Children = append(receipt.Children, child)
	}

	err = receipt.ValidateStatus(d.ValidateStatus)
	if err != nil {
		return hedera.TransactionReceipt{}, err
	}
	return receipt, nil
}

func makeReceipt(m *proto.TransactionReceipt, txid *hedera.TransactionID) (hedera.TransactionReceipt, error) {
	status, ok := hedera.ResponseCodeFromInt32(m.Status)
	if !ok {
		return hedera.TransactionReceipt{}, errors.ResponseStatusUnrecognized.WithFormat("receipt has unrecognized status %d", m.Status)
	}

	r := hedera.TransactionReceipt{
		TransactionID:           txid,
		Status:                  status,
		TopicSequenceNumber:     m.TopicSequenceNumber,
		TopicRunningHash:        m.TopicRunningHash,
		TopicRunningHashVersion: m.TopicRunningHashVersion,
	}
	if m.AccountID != nil {
		id := m.AccountID.AccountID()
		r.AccountID = &id
	}
	if m.FileID != nil {
		id := m.FileID.FileID()
		r.FileID = &id
	}
	if m.TopicID != nil {
		id := m.TopicID.TopicID()
		r.TopicID = &id
	}
	if m.ScheduledTransactionID != nil {
		id, err := m.ScheduledTransactionID.TransactionID()
		if err != nil {
			return hedera.TransactionReceipt{}, err
		}
		r.ScheduledTransactionID = &id
	}
	return r, nil
}
