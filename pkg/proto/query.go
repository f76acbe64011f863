// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package proto

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
)

// ResponseType selects whether a query returns its answer or its cost.
type ResponseType int32

const (
	AnswerOnly       ResponseType = 0
	AnswerStateProof ResponseType = 1
	CostAnswer       ResponseType = 2
)

type QueryHeader struct {
	Payment      *Transaction
	ResponseType ResponseType
}

func (m *QueryHeader) appendTo(b []byte) []byte {
	e := encoder{b}
	putMessage(&e, 1, m.Payment)
	e.int32(2, int32(m.ResponseType))
	return e.b
}

func (m *QueryHeader) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *QueryHeader) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		var err error
		switch f.Num {
		case 1:
			m.Payment, err = decodeMessage[Transaction](f)
		case 2:
			m.ResponseType = ResponseType(f.Int32())
		}
		return err
	})
}

type ResponseHeader struct {
	NodeTransactionPrecheckCode int32
	ResponseType                ResponseType
	Cost                        uint64
}

func (m *ResponseHeader) appendTo(b []byte) []byte {
	e := encoder{b}
	e.int32(1, m.NodeTransactionPrecheckCode)
	e.int32(2, int32(m.ResponseType))
	e.uint64(3, m.Cost)
	return e.b
}

func (m *ResponseHeader) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *ResponseHeader) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		switch f.Num {
		case 1:
			m.NodeTransactionPrecheckCode = f.Int32()
		case 2:
			m.ResponseType = ResponseType(f.Int32())
		case 3:
			m.Cost = f.Varint
		}
		return nil
	})
}

const (
	FieldCryptoGetAccountBalance protowire.Number = 7
	FieldTransactionGetReceipt   protowire.Number = 14
)

// QueryData is one of the kind-specific payloads of a query. Every payload
// carries a header as field 1.
type QueryData interface {
	appender
	UnmarshalBinary([]byte) error
	QueryField() protowire.Number
	QueryHeader() *QueryHeader
	SetQueryHeader(*QueryHeader)
}

type Query struct {
	Data QueryData
}

func newQueryData(num protowire.Number) QueryData {
	switch num {
	case FieldCryptoGetAccountBalance:
		return new(CryptoGetAccountBalanceQuery)
	case FieldTransactionGetReceipt:
		return new(TransactionGetReceiptQuery)
	}
	return nil
}

func (m *Query) appendTo(b []byte) []byte {
	e := encoder{b}
	if m.Data != nil {
		putMessage(&e, m.Data.QueryField(), m.Data)
	}
	return e.b
}

func (m *Query) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *Query) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		data := newQueryData(f.Num)
		if data == nil {
			return nil
		}
		if f.Type != protowire.BytesType {
			return errors.EncodingError.WithFormat("field %d: expected a message", f.Num)
		}
		m.Data = data
		return data.UnmarshalBinary(f.Bytes)
	})
}

type CryptoGetAccountBalanceQuery struct {
	Header    *QueryHeader
	AccountID *AccountID
}

func (m *CryptoGetAccountBalanceQuery) QueryField() protowire.Number {
	return FieldCryptoGetAccountBalance
}

func (m *CryptoGetAccountBalanceQuery) QueryHeader() *QueryHeader     { return m.Header }
func (m *CryptoGetAccountBalanceQuery) SetQueryHeader(h *QueryHeader) { m.Header = h }

func (m *CryptoGetAccountBalanceQuery) appendTo(b []byte) []byte {
	e := encoder{b}
	putMessage(&e, 1, m.Header)
	putMessage(&e, 2, m.AccountID)
	return e.b
}

func (m *CryptoGetAccountBalanceQuery) MarshalBinary() ([]byte, error) {
	return m.appendTo(nil), nil
}

func (m *CryptoGetAccountBalanceQuery) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		var err error
		switch f.Num {
		case 1:
			m.Header, err = decodeMessage[QueryHeader](f)
		case 2:
			m.AccountID, err = decodeMessage[AccountID](f)
		}
		return err
	})
}

type TransactionGetReceiptQuery struct {
	Header               *QueryHeader
	TransactionID        *TransactionID
	IncludeDuplicates    bool
	IncludeChildReceipts bool
}

func (m *TransactionGetReceiptQuery) QueryField() protowire.Number {
	return FieldTransactionGetReceipt
}

func (m *TransactionGetReceiptQuery) QueryHeader() *QueryHeader     { return m.Header }
func (m *TransactionGetReceiptQuery) SetQueryHeader(h *QueryHeader) { m.Header = h }

func (m *TransactionGetReceiptQuery) appendTo(b []byte) []byte {
	e := encoder{b}
	putMessage(&e, 1, m.Header)
	putMessage(&e, 2, m.TransactionID)
	e.bool(3, m.IncludeDuplicates)
	e.bool(4, m.IncludeChildReceipts)
	return e.b
}

func (m *TransactionGetReceiptQuery) MarshalBinary() ([]byte, error) {
	return m.appendTo(nil), nil
}

func (m *TransactionGetReceiptQuery) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		var err error
		switch f.Num {
		case 1:
			m.Header, err = decodeMessage[QueryHeader](f)
		case 2:
			m.TransactionID, err = decodeMessage[TransactionID](f)
		case 3:
			m.IncludeDuplicates = f.Bool()
		case 4:
			m.IncludeChildReceipts = f.Bool()
		}
		return err
	})
}
