// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package transaction

import (
	"context"
	"time"

	"github.com/hashgraph/hedera-sdk-go-exec/internal/logging"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/network"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/execute"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/proto"
)

// Execute submits the transaction and returns the response of the first
// chunk. A transaction with more than one chunk is executed in full, as if
// by [Transaction.ExecuteAll].
func (t *Transaction[D]) Execute(ctx context.Context, c *client.Client) (Response, error) {
	return t.ExecuteWithTimeout(ctx, c, 0)
}

// ExecuteWithTimeout is [Transaction.Execute] with a timeout for each chunk.
// A zero timeout uses the client's request timeout.
func (t *Transaction[D]) ExecuteWithTimeout(ctx context.Context, c *client.Client, timeout time.Duration) (Response, error) {
	responses, err := t.ExecuteAllWithTimeout(ctx, c, timeout)
	if err != nil {
		return Response{}, err
	}
	return responses[0], nil
}

// ExecuteAll submits every chunk of the transaction, in order, and returns
// the response of each. Chunks are not sent concurrently. If the kind
// requires it, the receipt of each chunk is received before the next chunk
// is sent.
func (t *Transaction[D]) ExecuteAll(ctx context.Context, c *client.Client) ([]Response, error) {
	return t.ExecuteAllWithTimeout(ctx, c, 0)
}

// ExecuteAllWithTimeout is [Transaction.ExecuteAll] with a timeout for each
// chunk.
func (t *Transaction[D]) ExecuteAllWithTimeout(ctx context.Context, c *client.Client, timeout time.Duration) ([]Response, error) {
	if t.err != nil {
		return nil, t.err
	}
	err := t.FreezeWith(c)
	if err != nil {
		return nil, err
	}

	if t.sources != nil {
		// Signers added since the sources were built still need to sign
		sources, err := t.makeSources()
		if err != nil {
			return nil, err
		}
		t.sources = sources
		return t.executeSources(ctx, c, timeout, sources)
	}

	used := 1
	if chunks := chunksOf(t.data); chunks != nil {
		used = chunks.UsedChunks()
	}

	responses := make([]Response, 0, used)
	var initial *hedera.TransactionID
	for chunk := 0; chunk < used; chunk++ {
		req := &chunkRequest[D]{
			submitter: submitter{method: t.data.Method()},
			tx:        t,
			chunk:     chunk,
			total:     used,
			initial:   initial,
		}
		resp, err := execute.Execute(ctx, c.ExecuteConfig(timeout), req)
		if err != nil {
			return nil, err
		}
		err = t.afterChunk(ctx, c, resp)
		if err != nil {
			return nil, err
		}
		if chunk == 0 {
			id := resp.TransactionID
			initial = &id
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (t *Transaction[D]) executeSources(ctx context.Context, c *client.Client, timeout time.Duration, sources *Sources) ([]Response, error) {
	responses := make([]Response, 0, sources.Chunks())
	for chunk := 0; chunk < sources.Chunks(); chunk++ {
		req := &sourceRequest{
			submitter: submitter{method: t.data.Method()},
			sources:   sources,
			chunk:     chunk,
		}
		resp, err := execute.Execute(ctx, c.ExecuteConfig(timeout), req)
		if err != nil {
			return nil, err
		}
		err = t.afterChunk(ctx, c, resp)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (t *Transaction[D]) afterChunk(ctx context.Context, c *client.Client, resp Response) error {
	mChunks.WithLabelValues(t.data.Method()).Inc()
	c.Logger().DebugContext(ctx, "Chunk accepted", "module", "transaction",
		"method", t.data.Method(), "node", resp.NodeID, "id", resp.TransactionID,
		"hash", logging.AsHex(resp.Hash[:]))
	if !waitsForReceipt(t.data) {
		return nil
	}
	_, err := resp.GetReceipt(ctx, c)
	return err
}

// submitter is the part of the executable shared by dynamically built and
// prebuilt transactions.
type submitter struct {
	method string
}

func (*submitter) RequiresTransactionID() bool { return true }

func (s *submitter) Execute(ctx context.Context, ch network.Channel, req *execute.Request[Hash]) (*proto.TransactionResponse, error) {
	return execute.Invoke[proto.TransactionResponse](ctx, ch, req.Method, req.Payload)
}

func (*submitter) PrecheckStatus(resp *proto.TransactionResponse) (int32, error) {
	return resp.NodeTransactionPrecheckCode, nil
}

func (*submitter) ShouldRetryPrecheck(hedera.ResponseCode) bool { return false }
func (*submitter) ShouldRetry(*proto.TransactionResponse) bool  { return false }

func (*submitter) MakeResponse(_ *proto.TransactionResponse, hash Hash, node hedera.AccountID, txid *hedera.TransactionID) (Response, error) {
	if txid == nil {
		return Response{}, errors.InternalError.With("transaction executed without a transaction ID")
	}
	return Response{
		NodeID:         node,
		TransactionID:  *txid,
		Hash:           hash,
		ValidateStatus: true,
	}, nil
}

func (*submitter) MakePrecheckError(status hedera.ResponseCode, txid *hedera.TransactionID, resp *proto.TransactionResponse) error {
	err := &hedera.PrecheckError{Status: status, TransactionID: txid}
	if resp.Cost != 0 {
		cost := hedera.Tinybars(int64(resp.Cost))
		err.Cost = &cost
	}
	return err
}

func (s *submitter) request(signed *proto.SignedTransaction) *execute.Request[Hash] {
	b := proto.Marshal(signed)
	return &execute.Request[Hash]{
		Method:  s.method,
		Payload: proto.Marshal(&proto.Transaction{SignedTransactionBytes: b}),
		Context: HashOf(b),
	}
}

// chunkRequest builds and signs one chunk of a transaction for each node it
// is sent to.
type chunkRequest[D Data] struct {
	submitter
	tx    *Transaction[D]
	chunk int
	total int

	// initial is the ID of the first chunk, once it has been submitted.
	initial *hedera.TransactionID
}

func (r *chunkRequest[D]) NodeAccountIDs() []hedera.AccountID { return r.tx.nodeAccountIDs }
func (r *chunkRequest[D]) RegenerateTransactionID() *bool     { return r.tx.regenerate }

// TransactionID returns the explicit transaction ID for the first chunk. The
// other chunks always use generated IDs.
func (r *chunkRequest[D]) TransactionID() *hedera.TransactionID {
	if r.chunk == 0 {
		return r.tx.transactionID
	}
	return nil
}

func (r *chunkRequest[D]) OperatorAccountID() *hedera.AccountID {
	if r.tx.operator == nil {
		return nil
	}
	return &r.tx.operator.AccountID
}

func (r *chunkRequest[D]) ValidateChecksums(ledger hedera.LedgerID) error {
	return r.tx.validateChecksums(r.tx.nodeAccountIDs, ledger)
}

func (r *chunkRequest[D]) MakeRequest(txid *hedera.TransactionID, node hedera.AccountID) (*execute.Request[Hash], error) {
	if txid == nil {
		return nil, errors.NoPayerAccountOrTransactionID.With("a transaction ID or operator is required")
	}

	initial := *txid
	if r.initial != nil {
		initial = *r.initial
	}

	signed, err := r.tx.makeSigned(ChunkInfo{
		Current:              r.chunk,
		Total:                r.total,
		InitialTransactionID: initial,
		CurrentTransactionID: *txid,
		NodeAccountID:        node,
	})
	if err != nil {
		return nil, err
	}
	return r.request(signed), nil
}

// sourceRequest sends one chunk of prebuilt sources. The transaction IDs of
// the sources are fixed, so they are never regenerated.
type sourceRequest struct {
	submitter
	sources *Sources
	chunk   int
}

func (r *sourceRequest) NodeAccountIDs() []hedera.AccountID   { return r.sources.NodeIDs() }
func (r *sourceRequest) OperatorAccountID() *hedera.AccountID { return nil }

func (r *sourceRequest) TransactionID() *hedera.TransactionID {
	id := r.sources.TransactionID(r.chunk)
	return &id
}

func (r *sourceRequest) RegenerateTransactionID() *bool {
	regenerate := false
	return &regenerate
}

// ValidateChecksums does nothing since the node IDs of the sources come
// from the wire without checksums.
func (r *sourceRequest) ValidateChecksums(hedera.LedgerID) error { return nil }

func (r *sourceRequest) MakeRequest(_ *hedera.TransactionID, node hedera.AccountID) (*execute.Request[Hash], error) {
	i, ok := r.sources.NodeIndex(node)
	if !ok {
		return nil, errors.NodeAccountUnknown.WithFormat("transaction was not signed for node %v", node)
	}
	return r.request(r.sources.Signed(r.chunk, i)), nil
}
