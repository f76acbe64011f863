// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package proto implements the protobuf wire format of the ledger messages
// used by the client. Only the fields the client reads or writes are modeled;
// unknown fields are skipped when decoding.
package proto

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
)

// Message is a wire message.
type Message interface {
	MarshalBinary() ([]byte, error)
	UnmarshalBinary([]byte) error
}

// appender appends the encoded form of a message to b.
type appender interface {
	appendTo(b []byte) []byte
}

// Marshal encodes a message. Encoding cannot fail, so Marshal returns only the
// bytes.
func Marshal(m appender) []byte {
	return m.appendTo(nil)
}

type encoder struct {
	b []byte
}

func (e *encoder) tag(num protowire.Number, typ protowire.Type) {
	e.b = protowire.AppendTag(e.b, num, typ)
}

func (e *encoder) uint64(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	e.tag(num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, v)
}

func (e *encoder) int64(num protowire.Number, v int64) { e.uint64(num, uint64(v)) }

func (e *encoder) int32(num protowire.Number, v int32) { e.uint64(num, uint64(int64(v))) }

func (e *encoder) sint64(num protowire.Number, v int64) {
	e.uint64(num, protowire.EncodeZigZag(v))
}

func (e *encoder) bool(num protowire.Number, v bool) {
	if v {
		e.uint64(num, 1)
	}
}

func (e *encoder) bytes(num protowire.Number, v []byte) {
	if len(v) == 0 {
		return
	}
	e.tag(num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, v)
}

func (e *encoder) string(num protowire.Number, v string) {
	if v == "" {
		return
	}
	e.tag(num, protowire.BytesType)
	e.b = protowire.AppendString(e.b, v)
}

// putMessage encodes a sub-message. A nil message is omitted; a non-nil
// message is encoded even when it is empty.
func putMessage[M interface {
	comparable
	appender
}](e *encoder, num protowire.Number, m M) {
	var zero M
	if m == zero {
		return
	}
	e.tag(num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, m.appendTo(nil))
}

// field is a single decoded field.
type field struct {
	Num    protowire.Number
	Type   protowire.Type
	Varint uint64
	Bytes  []byte
}

func (f *field) Int64() int64   { return int64(f.Varint) }
func (f *field) Int32() int32   { return int32(f.Varint) }
func (f *field) Bool() bool     { return f.Varint != 0 }
func (f *field) Sint64() int64  { return protowire.DecodeZigZag(f.Varint) }
func (f *field) String() string { return string(f.Bytes) }

// BytesCopy returns a copy of the field's bytes, so the decoded message does
// not alias the input buffer.
func (f *field) BytesCopy() []byte {
	if f.Bytes == nil {
		return nil
	}
	return append([]byte{}, f.Bytes...)
}

// decode calls fn for each field of the encoded message.
func decode(b []byte, fn func(f *field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.EncodingError.WithFormat("decode tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		f := &field{Num: num, Type: typ}
		switch typ {
		case protowire.VarintType:
			f.Varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.Bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return errors.EncodingError.WithFormat("decode field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]

		if typ != protowire.VarintType && typ != protowire.BytesType {
			continue
		}
		err := fn(f)
		if err != nil {
			return err
		}
	}
	return nil
}

// decodeMessage decodes a sub-message field into a new value.
func decodeMessage[T any, PT interface {
	*T
	UnmarshalBinary([]byte) error
}](f *field) (*T, error) {
	if f.Type != protowire.BytesType {
		return nil, errors.EncodingError.WithFormat("field %d: expected a message", f.Num)
	}
	v := PT(new(T))
	err := v.UnmarshalBinary(f.Bytes)
	if err != nil {
		return nil, errors.EncodingError.WithCauseAndFormat(err, "field %d", f.Num)
	}
	return v, nil
}
