// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package transaction

import (
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/proto"
)

// AnyVariant is one of the transaction kinds supported by [AnyData].
type AnyVariant interface {
	Data
	anyVariant()
}

func (*TransferData) anyVariant()           {}
func (*AccountCreateData) anyVariant()      {}
func (*TopicMessageSubmitData) anyVariant() {}
func (*FileAppendData) anyVariant()         {}

// AnyData is the data of a transaction of any kind. It forwards to the
// variant, including the chunking behavior of chunked kinds.
type AnyData struct {
	AnyVariant
}

// AnyTransaction is a transaction whose kind is only known at runtime, such
// as one decoded from bytes.
type AnyTransaction = Transaction[*AnyData]

var _ Chunked = (*AnyData)(nil)

// NewAnyTransaction returns a draft transaction of the variant.
func NewAnyTransaction(v AnyVariant) *AnyTransaction {
	return New(&AnyData{v})
}

// ChunkData returns the chunked payload of the variant, or nil if the
// variant does not chunk.
func (d *AnyData) ChunkData() *ChunkData {
	if c, ok := d.AnyVariant.(Chunked); ok {
		return c.ChunkData()
	}
	return nil
}

func (d *AnyData) Copy() Data {
	return &AnyData{d.AnyVariant.Copy().(AnyVariant)}
}

func (d *AnyData) WaitForReceipt() bool {
	c, ok := d.AnyVariant.(Chunked)
	return ok && c.WaitForReceipt()
}

// convert returns a transaction with the same state as t but different
// data.
func convert[D, E Data](t *Transaction[D], data E) *Transaction[E] {
	return &Transaction[E]{
		data:           data,
		nodeAccountIDs: t.nodeAccountIDs,
		validDuration:  t.validDuration,
		maxFee:         t.maxFee,
		memo:           t.memo,
		transactionID:  t.transactionID,
		regenerate:     t.regenerate,
		operator:       t.operator,
		frozen:         t.frozen,
		signers:        t.signers.Copy(),
		sources:        t.sources,
		err:            t.err,
	}
}

// Upcast converts a transaction of a known kind to an [AnyTransaction].
func Upcast[D AnyVariant](t *Transaction[D]) *AnyTransaction {
	return convert(t, &AnyData{t.data})
}

// Downcast converts an [AnyTransaction] to a transaction of kind D. Downcast
// fails if the transaction is of a different kind.
func Downcast[D AnyVariant](t *AnyTransaction) (*Transaction[D], error) {
	data, ok := t.data.AnyVariant.(D)
	if !ok {
		return nil, errors.BadRequest.WithFormat("cannot convert a %T transaction to %T", t.data.AnyVariant, data)
	}
	return convert(t, data), nil
}

// FromBytes decodes a transaction encoded by [Transaction.ToBytes]. A single
// encoded transaction is also accepted. The result is frozen and keeps the
// decoded signatures; more signatures can be added but the transaction IDs
// are fixed.
func FromBytes(b []byte) (*AnyTransaction, error) {
	list := new(proto.TransactionList)
	err := list.UnmarshalBinary(b)
	if err != nil {
		return nil, errors.EncodingError.WithFormat("decode transaction list: %w", err)
	}

	txns := list.TransactionList
	if len(txns) == 0 {
		tx := new(proto.Transaction)
		err = tx.UnmarshalBinary(b)
		if err != nil {
			return nil, errors.EncodingError.WithFormat("decode transaction: %w", err)
		}
		txns = []*proto.Transaction{tx}
	}

	sources, err := NewSources(txns)
	if err != nil {
		return nil, err
	}

	bodies := make([]*proto.TransactionBody, len(sources.signed))
	for i, signed := range sources.signed {
		body := new(proto.TransactionBody)
		err = body.UnmarshalBinary(signed.BodyBytes)
		if err != nil {
			return nil, errors.EncodingError.WithFormat("decode transaction body: %w", err)
		}
		if i > 0 && !proto.BodiesEqual(bodies[0], body) {
			return nil, errors.EncodingError.With("transaction parts are unexpectedly unequal")
		}
		bodies[i] = body
	}

	// The first body of each chunk carries the chunk's payload
	chunks := make([]proto.TransactionData, sources.Chunks())
	for i := range chunks {
		chunks[i] = bodies[i*len(sources.nodeIDs)].Data
	}

	variant, err := variantFromChunks(chunks)
	if err != nil {
		return nil, err
	}

	first := bodies[0]
	t := NewAnyTransaction(variant)
	t.nodeAccountIDs = sources.NodeIDs()
	txid := sources.TransactionID(0)
	t.transactionID = &txid
	t.memo = first.Memo
	if first.TransactionValidDuration != nil {
		d := first.TransactionValidDuration.Duration()
		t.validDuration = &d
	}
	fee := hedera.Tinybars(int64(first.TransactionFee))
	t.maxFee = &fee
	t.frozen = true
	t.sources = sources
	return t, nil
}

func variantFromChunks(chunks []proto.TransactionData) (AnyVariant, error) {
	switch first := chunks[0].(type) {
	case nil:
		return nil, errors.EncodingError.With("transaction body has no data")

	case *proto.CryptoTransferTransactionBody:
		if len(chunks) > 1 {
			return nil, errors.EncodingError.WithFormat("transfer cannot have %d chunks", len(chunks))
		}
		return transferFromBody(first), nil

	case *proto.CryptoCreateTransactionBody:
		if len(chunks) > 1 {
			return nil, errors.EncodingError.WithFormat("account create cannot have %d chunks", len(chunks))
		}
		return accountCreateFromBody(first)

	case *proto.ConsensusSubmitMessageTransactionBody:
		bodies, err := chunksAs[*proto.ConsensusSubmitMessageTransactionBody](chunks)
		if err != nil {
			return nil, err
		}
		return topicMessageFromBodies(bodies), nil

	case *proto.FileAppendTransactionBody:
		bodies, err := chunksAs[*proto.FileAppendTransactionBody](chunks)
		if err != nil {
			return nil, err
		}
		return fileAppendFromBodies(bodies), nil

	default:
		return nil, errors.EncodingError.WithFormat("unsupported transaction kind %T", first)
	}
}

func chunksAs[T proto.TransactionData](chunks []proto.TransactionData) ([]T, error) {
	bodies := make([]T, len(chunks))
	for i, chunk := range chunks {
		body, ok := chunk.(T)
		if !ok {
			return nil, errors.EncodingError.WithFormat("chunk %d is %T, not %T", i, chunk, body)
		}
		bodies[i] = body
	}
	return bodies, nil
}
