// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package proto

import (
	"time"
)

type Timestamp struct {
	Seconds int64
	Nanos   int32
}

func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

func (m *Timestamp) Time() time.Time { return time.Unix(m.Seconds, int64(m.Nanos)).UTC() }

func (m *Timestamp) appendTo(b []byte) []byte {
	e := encoder{b}
	e.int64(1, m.Seconds)
	e.int32(2, m.Nanos)
	return e.b
}

func (m *Timestamp) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *Timestamp) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		switch f.Num {
		case 1:
			m.Seconds = f.Int64()
		case 2:
			m.Nanos = f.Int32()
		}
		return nil
	})
}

type Duration struct {
	Seconds int64
}

func NewDuration(d time.Duration) *Duration { return &Duration{Seconds: int64(d / time.Second)} }

func (m *Duration) Duration() time.Duration { return time.Duration(m.Seconds) * time.Second }

func (m *Duration) appendTo(b []byte) []byte {
	e := encoder{b}
	e.int64(1, m.Seconds)
	return e.b
}

func (m *Duration) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *Duration) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		if f.Num == 1 {
			m.Seconds = f.Int64()
		}
		return nil
	})
}

// EntityID is the wire form shared by AccountID, FileID, and TopicID, which
// all number their fields shard = 1, realm = 2, num = 3.
type EntityID struct {
	ShardNum int64
	RealmNum int64
	Num      int64
}

func (m *EntityID) appendTo(b []byte) []byte {
	e := encoder{b}
	e.int64(1, m.ShardNum)
	e.int64(2, m.RealmNum)
	e.int64(3, m.Num)
	return e.b
}

func (m *EntityID) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *EntityID) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		switch f.Num {
		case 1:
			m.ShardNum = f.Int64()
		case 2:
			m.RealmNum = f.Int64()
		case 3:
			m.Num = f.Int64()
		}
		return nil
	})
}

// Equal returns true if both IDs are nil or both are equal.
func (m *EntityID) Equal(o *EntityID) bool {
	if m == nil || o == nil {
		return m == o
	}
	return *m == *o
}

type (
	AccountID = EntityID
	FileID    = EntityID
	TopicID   = EntityID
)

type TransactionID struct {
	TransactionValidStart *Timestamp
	AccountID             *AccountID
	Scheduled             bool
	Nonce                 int32
}

func (m *TransactionID) appendTo(b []byte) []byte {
	e := encoder{b}
	putMessage(&e, 1, m.TransactionValidStart)
	putMessage(&e, 2, m.AccountID)
	e.bool(3, m.Scheduled)
	e.int32(4, m.Nonce)
	return e.b
}

func (m *TransactionID) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *TransactionID) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		var err error
		switch f.Num {
		case 1:
			m.TransactionValidStart, err = decodeMessage[Timestamp](f)
		case 2:
			m.AccountID, err = decodeMessage[AccountID](f)
		case 3:
			m.Scheduled = f.Bool()
		case 4:
			m.Nonce = f.Int32()
		}
		return err
	})
}

// Equal returns true if both IDs are nil or both are equal.
func (m *TransactionID) Equal(o *TransactionID) bool {
	if m == nil || o == nil {
		return m == o
	}
	if (m.TransactionValidStart == nil) != (o.TransactionValidStart == nil) {
		return false
	}
	if m.TransactionValidStart != nil && *m.TransactionValidStart != *o.TransactionValidStart {
		return false
	}
	return m.AccountID.Equal(o.AccountID) &&
		m.Scheduled == o.Scheduled &&
		m.Nonce == o.Nonce
}

// Key is a public key. Only the simple key kinds are modeled.
type Key struct {
	Ed25519        []byte
	ECDSASecp256k1 []byte
}

func (m *Key) appendTo(b []byte) []byte {
	e := encoder{b}
	e.bytes(2, m.Ed25519)
	e.bytes(7, m.ECDSASecp256k1)
	return e.b
}

func (m *Key) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *Key) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		switch f.Num {
		case 2:
			m.Ed25519 = f.BytesCopy()
		case 7:
			m.ECDSASecp256k1 = f.BytesCopy()
		}
		return nil
	})
}
