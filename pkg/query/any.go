// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package query

import (
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/proto"
)

// AnyVariant is implemented by the data of every kind of query.
type AnyVariant interface {
	Method() string
	IsPaymentRequired() bool
	QueryData(header *proto.QueryHeader) proto.QueryData
	TransactionID() *hedera.TransactionID
	ValidateChecksums(ledger hedera.LedgerID) error
	ShouldRetryPrecheck(status hedera.ResponseCode) bool
	ShouldRetry(response *proto.Response) bool

	makeAnyResponse(response *proto.Response) (AnyResponse, error)
}

// AnyData is the data of a query of any kind.
type AnyData struct {
	AnyVariant
}

// AnyResponse is the answer to a query of any kind. Exactly one field is set.
type AnyResponse struct {
	AccountBalance     *hedera.AccountBalance
	TransactionReceipt *hedera.TransactionReceipt
}

type AnyQuery = Query[*AnyData, AnyResponse]

// NewAnyQuery returns a query for the variant.
func NewAnyQuery(v AnyVariant) *AnyQuery {
	return New[*AnyData, AnyResponse](&AnyData{v})
}

var _ Data[AnyResponse] = (*AnyData)(nil)

func (d *AnyData) MakeResponse(resp *proto.Response) (AnyResponse, error) {
	return d.makeAnyResponse(resp)
}

func (d *AccountBalanceData) makeAnyResponse(resp *proto.Response) (AnyResponse, error) {
	r, err := d.MakeResponse(resp)
	if err != nil {
		return AnyResponse{}, err
	}
	return AnyResponse{AccountBalance: &r}, nil
}

func (d *TransactionReceiptData) makeAnyResponse(resp *proto.Response) (AnyResponse, error) {
	r, err := d.MakeResponse(resp)
	if err != nil {
		return AnyResponse{}, err
	}
	return AnyResponse{TransactionReceipt: &r}, nil
}

// ParseAnyQuery decodes an encoded query. The kind is determined by which
// payload the query carries.
func ParseAnyQuery(b []byte) (*AnyQuery, error) {
	var q proto.Query
	err := q.UnmarshalBinary(b)
	if err != nil {
		return nil, errors.EncodingError.WithFormat("decode query: %w", err)
	}

	switch data := q.Data.(type) {
	case *proto.CryptoGetAccountBalanceQuery:
		if data.AccountID == nil {
			return nil, errors.EncodingError.With("balance query is missing the account ID")
		}
		return NewAnyQuery(&AccountBalanceData{AccountID: data.AccountID.AccountID()}), nil

	case *proto.TransactionGetReceiptQuery:
		if data.TransactionID == nil {
			return nil, errors.EncodingError.With("receipt query is missing the transaction ID")
		}
		id, err := data.TransactionID.TransactionID()
		if err != nil {
			return nil, err
		}
		return NewAnyQuery(&TransactionReceiptData{
			ID:                id,
			IncludeChildren:   data.IncludeChildReceipts,
			IncludeDuplicates: data.IncludeDuplicates,
		}), nil

	case nil:
		return nil, errors.EncodingError.With("query has no payload")
	default:
		return nil, errors.EncodingError.WithFormat("unsupported query %T", data)
	}
}

// ToBytes encodes the query without a payment.
func (d *AnyData) ToBytes() []byte {
	return proto.Marshal(&proto.Query{Data: d.QueryData(&proto.QueryHeader{ResponseType: proto.AnswerOnly})})
}
