// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package proto

import (
	"bytes"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
)

type TransactionBody struct {
	TransactionID            *TransactionID
	NodeAccountID            *AccountID
	TransactionFee           uint64
	TransactionValidDuration *Duration
	Memo                     string

	// Data is the kind-specific payload.
	Data TransactionData
}

// TransactionData is one of the kind-specific payloads of a transaction body.
type TransactionData interface {
	appender
	UnmarshalBinary([]byte) error

	// BodyField returns the field number of the payload within the body.
	BodyField() protowire.Number
}

const (
	FieldCryptoCreateAccount    protowire.Number = 11
	FieldCryptoTransfer         protowire.Number = 14
	FieldFileAppend             protowire.Number = 16
	FieldConsensusSubmitMessage protowire.Number = 27
)

func newTransactionData(num protowire.Number) TransactionData {
	switch num {
	case FieldCryptoCreateAccount:
		return new(CryptoCreateTransactionBody)
	case FieldCryptoTransfer:
		return new(CryptoTransferTransactionBody)
	case FieldFileAppend:
		return new(FileAppendTransactionBody)
	case FieldConsensusSubmitMessage:
		return new(ConsensusSubmitMessageTransactionBody)
	}
	return nil
}

func (m *TransactionBody) appendTo(b []byte) []byte {
	e := encoder{b}
	putMessage(&e, 1, m.TransactionID)
	putMessage(&e, 2, m.NodeAccountID)
	e.uint64(3, m.TransactionFee)
	putMessage(&e, 4, m.TransactionValidDuration)
	e.string(6, m.Memo)
	if m.Data != nil {
		putMessage(&e, m.Data.BodyField(), m.Data)
	}
	return e.b
}

func (m *TransactionBody) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *TransactionBody) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		var err error
		switch f.Num {
		case 1:
			m.TransactionID, err = decodeMessage[TransactionID](f)
		case 2:
			m.NodeAccountID, err = decodeMessage[AccountID](f)
		case 3:
			m.TransactionFee = f.Varint
		case 4:
			m.TransactionValidDuration, err = decodeMessage[Duration](f)
		case 6:
			m.Memo = f.String()
		default:
			data := newTransactionData(f.Num)
			if data == nil {
				return nil
			}
			if f.Type != protowire.BytesType {
				return errors.EncodingError.WithFormat("field %d: expected a message", f.Num)
			}
			err = data.UnmarshalBinary(f.Bytes)
			m.Data = data
		}
		return err
	})
}

type AccountAmount struct {
	AccountID  *AccountID
	Amount     int64
	IsApproval bool
}

func (m *AccountAmount) appendTo(b []byte) []byte {
	e := encoder{b}
	putMessage(&e, 1, m.AccountID)
	e.sint64(2, m.Amount)
	e.bool(3, m.IsApproval)
	return e.b
}

func (m *AccountAmount) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *AccountAmount) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		var err error
		switch f.Num {
		case 1:
			m.AccountID, err = decodeMessage[AccountID](f)
		case 2:
			m.Amount = f.Sint64()
		case 3:
			m.IsApproval = f.Bool()
		}
		return err
	})
}

type TransferList struct {
	AccountAmounts []*AccountAmount
}

func (m *TransferList) appendTo(b []byte) []byte {
	e := encoder{b}
	for _, a := range m.AccountAmounts {
		putMessage(&e, 1, a)
	}
	return e.b
}

func (m *TransferList) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *TransferList) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		if f.Num != 1 {
			return nil
		}
		a, err := decodeMessage[AccountAmount](f)
		if err != nil {
			return err
		}
		m.AccountAmounts = append(m.AccountAmounts, a)
		return nil
	})
}

type CryptoTransferTransactionBody struct {
	Transfers *TransferList
}

func (m *CryptoTransferTransactionBody) BodyField() protowire.Number { return FieldCryptoTransfer }

func (m *CryptoTransferTransactionBody) appendTo(b []byte) []byte {
	e := encoder{b}
	putMessage(&e, 1, m.Transfers)
	return e.b
}

func (m *CryptoTransferTransactionBody) MarshalBinary() ([]byte, error) {
	return m.appendTo(nil), nil
}

func (m *CryptoTransferTransactionBody) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		var err error
		if f.Num == 1 {
			m.Transfers, err = decodeMessage[TransferList](f)
		}
		return err
	})
}

type CryptoCreateTransactionBody struct {
	Key                 *Key
	InitialBalance      uint64
	ReceiverSigRequired bool
	AutoRenewPeriod     *Duration
	Memo                string
}

func (m *CryptoCreateTransactionBody) BodyField() protowire.Number {
	return FieldCryptoCreateAccount
}

func (m *CryptoCreateTransactionBody) appendTo(b []byte) []byte {
	e := encoder{b}
	putMessage(&e, 1, m.Key)
	e.uint64(2, m.InitialBalance)
	e.bool(8, m.ReceiverSigRequired)
	putMessage(&e, 9, m.AutoRenewPeriod)
	e.string(13, m.Memo)
	return e.b
}

func (m *CryptoCreateTransactionBody) MarshalBinary() ([]byte, error) {
	return m.appendTo(nil), nil
}

func (m *CryptoCreateTransactionBody) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		var err error
		switch f.Num {
		case 1:
			m.Key, err = decodeMessage[Key](f)
		case 2:
			m.InitialBalance = f.Varint
		case 8:
			m.ReceiverSigRequired = f.Bool()
		case 9:
			m.AutoRenewPeriod, err = decodeMessage[Duration](f)
		case 13:
			m.Memo = f.String()
		}
		return err
	})
}

type FileAppendTransactionBody struct {
	FileID   *FileID
	Contents []byte
}

func (m *FileAppendTransactionBody) BodyField() protowire.Number { return FieldFileAppend }

func (m *FileAppendTransactionBody) appendTo(b []byte) []byte {
	e := encoder{b}
	putMessage(&e, 2, m.FileID)
	e.bytes(4, m.Contents)
	return e.b
}

func (m *FileAppendTransactionBody) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *FileAppendTransactionBody) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		var err error
		switch f.Num {
		case 2:
			m.FileID, err = decodeMessage[FileID](f)
		case 4:
			m.Contents = f.BytesCopy()
		}
		return err
	})
}

type ConsensusMessageChunkInfo struct {
	InitialTransactionID *TransactionID
	Total                int32
	Number               int32
}

func (m *ConsensusMessageChunkInfo) appendTo(b []byte) []byte {
	e := encoder{b}
	putMessage(&e, 1, m.InitialTransactionID)
	e.int32(2, m.Total)
	e.int32(3, m.Number)
	return e.b
}

func (m *ConsensusMessageChunkInfo) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *ConsensusMessageChunkInfo) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		var err error
		switch f.Num {
		case 1:
			m.InitialTransactionID, err = decodeMessage[TransactionID](f)
		case 2:
			m.Total = f.Int32()
		case 3:
			m.Number = f.Int32()
		}
		return err
	})
}

type ConsensusSubmitMessageTransactionBody struct {
	TopicID   *TopicID
	Message   []byte
	ChunkInfo *ConsensusMessageChunkInfo
}

func (m *ConsensusSubmitMessageTransactionBody) BodyField() protowire.Number {
	return FieldConsensusSubmitMessage
}

func (m *ConsensusSubmitMessageTransactionBody) appendTo(b []byte) []byte {
	e := encoder{b}
	putMessage(&e, 1, m.TopicID)
	e.bytes(2, m.Message)
	putMessage(&e, 3, m.ChunkInfo)
	return e.b
}

func (m *ConsensusSubmitMessageTransactionBody) MarshalBinary() ([]byte, error) {
	return m.appendTo(nil), nil
}

func (m *ConsensusSubmitMessageTransactionBody) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		var err error
		switch f.Num {
		case 1:
			m.TopicID, err = decodeMessage[TopicID](f)
		case 2:
			m.Message = f.BytesCopy()
		case 3:
			m.ChunkInfo, err = decodeMessage[ConsensusMessageChunkInfo](f)
		}
		return err
	})
}

// BodiesEqual compares two transaction bodies, ignoring the transaction ID and
// node account ID, which differ for every chunk and node. For chunked kinds
// the per-chunk payload (topic message and chunk info, or file contents) is
// also ignored.
func BodiesEqual(a, b *TransactionBody) bool {
	if a.TransactionFee != b.TransactionFee || a.Memo != b.Memo {
		return false
	}
	if (a.TransactionValidDuration == nil) != (b.TransactionValidDuration == nil) {
		return false
	}
	if a.TransactionValidDuration != nil && *a.TransactionValidDuration != *b.TransactionValidDuration {
		return false
	}
	if a.Data == nil || b.Data == nil {
		return a.Data == nil && b.Data == nil
	}
	if a.Data.BodyField() != b.Data.BodyField() {
		return false
	}

	switch x := a.Data.(type) {
	case *ConsensusSubmitMessageTransactionBody:
		y := b.Data.(*ConsensusSubmitMessageTransactionBody)
		return x.TopicID.Equal(y.TopicID)

	case *FileAppendTransactionBody:
		y := b.Data.(*FileAppendTransactionBody)
		return x.FileID.Equal(y.FileID)

	default:
		return bytes.Equal(Marshal(a.Data), Marshal(b.Data))
	}
}
