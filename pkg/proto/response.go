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

// ResponseData is one of the kind-specific payloads of a query response.
// Every payload carries a header as field 1.
type ResponseData interface {
	appender
	UnmarshalBinary([]byte) error
	ResponseField() protowire.Number
	ResponseHeader() *ResponseHeader
}

type Response struct {
	Data ResponseData
}

func newResponseData(num protowire.Number) ResponseData {
	switch num {
	case FieldCryptoGetAccountBalance:
		return new(CryptoGetAccountBalanceResponse)
	case FieldTransactionGetReceipt:
		return new(TransactionGetReceiptResponse)
	}
	return nil
}

// Header returns the response header, or nil.
func (m *Response) Header() *ResponseHeader {
	if m.Data == nil {
		return nil
	}
	return m.Data.ResponseHeader()
}

func (m *Response) appendTo(b []byte) []byte {
	e := encoder{b}
	if m.Data != nil {
		putMessage(&e, m.Data.ResponseField(), m.Data)
	}
	return e.b
}

func (m *Response) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *Response) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		data := newResponseData(f.Num)
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

type CryptoGetAccountBalanceResponse struct {
	Header    *ResponseHeader
	AccountID *AccountID
	Balance   uint64
}

func (m *CryptoGetAccountBalanceResponse) ResponseField() protowire.Number {
	return FieldCryptoGetAccountBalance
}

func (m *CryptoGetAccountBalanceResponse) ResponseHeader() *ResponseHeader { return m.Header }

func (m *CryptoGetAccountBalanceResponse) appendTo(b []byte) []byte {
	e := encoder{b}
	putMessage(&e, 1, m.Header)
	putMessage(&e, 2, m.AccountID)
	e.uint64(3, m.Balance)
	return e.b
}

func (m *CryptoGetAccountBalanceResponse) MarshalBinary() ([]byte, error) {
	return m.appendTo(nil), nil
}

func (m *CryptoGetAccountBalanceResponse) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		var err error
		switch f.Num {
		case 1:
			m.Header, err = decodeMessage[ResponseHeader](f)
		case 2:
			m.AccountID, err = decodeMessage[AccountID](f)
		case 3:
			m.Balance = f.Varint
		}
		return err
	})
}

type TransactionReceipt struct {
	Status                  int32
	AccountID               *AccountID
	FileID                  *FileID
	TopicID                 *TopicID
	TopicSequenceNumber     uint64
	TopicRunningHash        []byte
	TopicRunningHashVersion uint64
	ScheduledTransactionID  *TransactionID
}

func (m *TransactionReceipt) appendTo(b []byte) []byte {
	e := encoder{b}
	e.int32(1, m.Status)
	putMessage(&e, 2, m.AccountID)
	putMessage(&e, 3, m.FileID)
	putMessage(&e, 6, m.TopicID)
	e.uint64(7, m.TopicSequenceNumber)
	e.bytes(8, m.TopicRunningHash)
	e.uint64(9, m.TopicRunningHashVersion)
	putMessage(&e, 13, m.ScheduledTransactionID)
	return e.b
}

func (m *TransactionReceipt) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *TransactionReceipt) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		var err error
		switch f.Num {
		case 1:
			m.Status = f.Int32()
		case 2:
			m.AccountID, err = decodeMessage[AccountID](f)
		case 3:
			m.FileID, err = decodeMessage[FileID](f)
		case 6:
			m.TopicID, err = decodeMessage[TopicID](f)
		case 7:
			m.TopicSequenceNumber = f.Varint
		case 8:
			m.TopicRunningHash = f.BytesCopy()
		case 9:
			m.TopicRunningHashVersion = f.Varint
		case 13:
			m.ScheduledTransactionID, err = decodeMessage[TransactionID](f)
		}
		return err
	})
}

type TransactionGetReceiptResponse struct {
	Header                       *ResponseHeader
	Receipt                      *TransactionReceipt
	DuplicateTransactionReceipts []*TransactionReceipt
	ChildTransactionReceipts     []*TransactionReceipt
}

func (m *TransactionGetReceiptResponse) ResponseField() protowire.Number {
	return FieldTransactionGetReceipt
}

func (m *TransactionGetReceiptResponse) ResponseHeader() *ResponseHeader { return m.Header }

func (m *TransactionGetReceiptResponse) appendTo(b []byte) []byte {
	e := encoder{b}
	putMessage(&e, 1, m.Header)
	putMessage(&e, 2, m.Receipt)
	for _, r := range m.DuplicateTransactionReceipts {
		putMessage(&e, 4, r)
	}
	for _, r := range m.ChildTransactionReceipts {
		putMessage(&e, 5, r)
	}
	return e.b
}

func (m *TransactionGetReceiptResponse) MarshalBinary() ([]byte, error) {
	return m.appendTo(nil), nil
}

func (m *TransactionGetReceiptResponse) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		var err error
		var r *TransactionReceipt
		switch f.Num {
		case 1:
			m.Header, err = decodeMessage[ResponseHeader](f)
		case 2:
			m.Receipt, err = decodeMessage[TransactionReceipt](f)
		case 4:
			r, err = decodeMessage[TransactionReceipt](f)
			if err == nil {
				m.DuplicateTransactionReceipts = append(m.DuplicateTransactionReceipts, r)
			}
		case 5:
			r, err = decodeMessage[TransactionReceipt](f)
			if err == nil {
				m.ChildTransactionReceipts = append(m.ChildTransactionReceipts, r)
			}
		}
		return err
	})
}
