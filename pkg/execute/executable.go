// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package execute

import (
	"context"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/network"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/proto"
)

// Request is an encoded request for a single node.
type Request[C any] struct {
	Method  string
	Payload []byte

	// Context is handed back to [Executable.MakeResponse] if the request
	// succeeds.
	Context C
}

// Executable is a request that can be submitted to the network. C is the
// per-node request context, W is the decoded wire response, and R is the
// result.
type Executable[C, W, R any] interface {
	// NodeAccountIDs returns the explicit nodes to submit to, or nil to let
	// the executor choose.
	NodeAccountIDs() []hedera.AccountID

	// TransactionID returns the explicit transaction ID, or nil.
	TransactionID() *hedera.TransactionID

	// RequiresTransactionID returns true if requests need a transaction ID.
	RequiresTransactionID() bool

	// RegenerateTransactionID returns whether an expired, generated
	// transaction ID may be replaced. Nil defers to the client.
	RegenerateTransactionID() *bool

	// OperatorAccountID returns the account used to generate transaction IDs,
	// or nil to use the client's operator.
	OperatorAccountID() *hedera.AccountID

	ValidateChecksums(ledger hedera.LedgerID) error

	// MakeRequest builds the request for a node.
	MakeRequest(txid *hedera.TransactionID, node hedera.AccountID) (*Request[C], error)

	// Execute sends the request over the channel and decodes the response.
	// Transport errors must be returned unwrapped.
	Execute(ctx context.Context, ch network.Channel, req *Request[C]) (W, error)

	// PrecheckStatus extracts the node's pre-check status.
	PrecheckStatus(response W) (int32, error)

	// ShouldRetryPrecheck returns true if the status warrants a backoff and
	// retry rather than failure.
	ShouldRetryPrecheck(status hedera.ResponseCode) bool

	// ShouldRetry returns true if an OK response warrants a backoff and
	// retry.
	ShouldRetry(response W) bool

	MakeResponse(response W, context C, node hedera.AccountID, txid *hedera.TransactionID) (R, error)
	MakePrecheckError(status hedera.ResponseCode, txid *hedera.TransactionID, response W) error
}

// Invoke sends an encoded request over the channel and decodes the response
// into a new M.
func Invoke[M any, PM interface {
	*M
	proto.Message
}](ctx context.Context, ch network.Channel, method string, payload []byte) (PM, error) {
	b, err := ch.Invoke(ctx, method, payload)
	if err != nil {
		return nil, err
	}

	v := PM(new(M))
	err = v.UnmarshalBinary(b)
	if err != nil {
		return nil, errors.EncodingError.WithFormat("decode %s response: %w", method, err)
	}
	return v, nil
}
