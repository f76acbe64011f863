// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package proto

type SignaturePair struct {
	PubKeyPrefix   []byte
	Ed25519        []byte
	ECDSASecp256k1 []byte
}

func (m *SignaturePair) appendTo(b []byte) []byte {
	e := encoder{b}
	e.bytes(1, m.PubKeyPrefix)
	e.bytes(3, m.Ed25519)
	e.bytes(6, m.ECDSASecp256k1)
	return e.b
}

func (m *SignaturePair) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *SignaturePair) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		switch f.Num {
		case 1:
			m.PubKeyPrefix = f.BytesCopy()
		case 3:
			m.Ed25519 = f.BytesCopy()
		case 6:
			m.ECDSASecp256k1 = f.BytesCopy()
		}
		return nil
	})
}

type SignatureMap struct {
	SigPair []*SignaturePair
}

func (m *SignatureMap) appendTo(b []byte) []byte {
	e := encoder{b}
	for _, p := range m.SigPair {
		putMessage(&e, 1, p)
	}
	return e.b
}

func (m *SignatureMap) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *SignatureMap) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		if f.Num != 1 {
			return nil
		}
		p, err := decodeMessage[SignaturePair](f)
		if err != nil {
			return err
		}
		m.SigPair = append(m.SigPair, p)
		return nil
	})
}

// Copy returns a copy of the signature map. The signature bytes are shared.
func (m *SignatureMap) Copy() *SignatureMap {
	if m == nil {
		return nil
	}
	n := &SignatureMap{SigPair: make([]*SignaturePair, len(m.SigPair))}
	copy(n.SigPair, m.SigPair)
	return n
}

type SignedTransaction struct {
	BodyBytes []byte
	SigMap    *SignatureMap
}

func (m *SignedTransaction) appendTo(b []byte) []byte {
	e := encoder{b}
	e.bytes(1, m.BodyBytes)
	putMessage(&e, 2, m.SigMap)
	return e.b
}

func (m *SignedTransaction) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *SignedTransaction) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		var err error
		switch f.Num {
		case 1:
			m.BodyBytes = f.BytesCopy()
		case 2:
			m.SigMap, err = decodeMessage[SignatureMap](f)
		}
		return err
	})
}

// Transaction is the envelope sent to a node. Only the signed transaction
// bytes form is supported; the deprecated body and signature fields are
// ignored.
type Transaction struct {
	SignedTransactionBytes []byte
}

func (m *Transaction) appendTo(b []byte) []byte {
	e := encoder{b}
	e.bytes(5, m.SignedTransactionBytes)
	return e.b
}

func (m *Transaction) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *Transaction) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		if f.Num == 5 {
			m.SignedTransactionBytes = f.BytesCopy()
		}
		return nil
	})
}

// TransactionList is the serialized form of a multi-node, multi-chunk
// transaction.
type TransactionList struct {
	TransactionList []*Transaction
}

func (m *TransactionList) appendTo(b []byte) []byte {
	e := encoder{b}
	for _, tx := range m.TransactionList {
		putMessage(&e, 1, tx)
	}
	return e.b
}

func (m *TransactionList) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *TransactionList) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		if f.Num != 1 {
			return nil
		}
		tx, err := decodeMessage[Transaction](f)
		if err != nil {
			return err
		}
		m.TransactionList = append(m.TransactionList, tx)
		return nil
	})
}

type TransactionResponse struct {
	NodeTransactionPrecheckCode int32
	Cost                        uint64
}

func (m *TransactionResponse) appendTo(b []byte) []byte {
	e := encoder{b}
	e.int32(1, m.NodeTransactionPrecheckCode)
	e.uint64(2, m.Cost)
	return e.b
}

func (m *TransactionResponse) MarshalBinary() ([]byte, error) { return m.appendTo(nil), nil }

func (m *TransactionResponse) UnmarshalBinary(b []byte) error {
	return decode(b, func(f *field) error {
		switch f.Num {
		case 1:
			m.NodeTransactionPrecheckCode = f.Int32()
		case 2:
			m.Cost = f.Varint
		}
		return nil
	})
}
