// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package query

import (
	"context"
	"time"

	"golang.org/x/exp/slices"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/execute"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/proto"
)

// DefaultMaxPayment is the most a query pays if neither the query nor the
// client sets a maximum.
var DefaultMaxPayment = hedera.NewHbar(1)

// Data is the kind-specific part of a query that produces an R.
type Data[R any] interface {
	// Method returns the gRPC method that answers the query.
	Method() string

	// IsPaymentRequired returns false for free queries.
	IsPaymentRequired() bool

	// QueryData returns the wire payload with the given header.
	QueryData(header *proto.QueryHeader) proto.QueryData

	// TransactionID returns the transaction the query is about, or nil.
	TransactionID() *hedera.TransactionID

	ValidateChecksums(ledger hedera.LedgerID) error
	ShouldRetryPrecheck(status hedera.ResponseCode) bool
	ShouldRetry(response *proto.Response) bool
	MakeResponse(response *proto.Response) (R, error)
}

// Query is a request for information from the network. Queries that are not
// free are paid for with a transfer from the client's operator to the node
// that answers.
type Query[D Data[R], R any] struct {
	Data D

	nodeAccountIDs     []hedera.AccountID
	payment            *hedera.Hbar
	maxPayment         *hedera.Hbar
	paymentTransaction *hedera.TransactionID
}

// New returns a query for the data.
func New[D Data[R], R any](data D) *Query[D, R] {
	return &Query[D, R]{Data: data}
}

func (q *Query[D, R]) NodeAccountIDs() []hedera.AccountID { return q.nodeAccountIDs }

// SetNodeAccountIDs sets the nodes the query may be sent to. Setting no
// nodes clears the list.
func (q *Query[D, R]) SetNodeAccountIDs(ids ...hedera.AccountID) *Query[D, R] {
	if len(ids) == 0 {
		q.nodeAccountIDs = nil
	} else {
		q.nodeAccountIDs = slices.Clone(ids)
	}
	return q
}

// SetPaymentAmount sets the payment explicitly, skipping the cost query.
func (q *Query[D, R]) SetPaymentAmount(amount hedera.Hbar) *Query[D, R] {
	q.payment = &amount
	return q
}

// SetMaxPaymentAmount sets the most the query will pay when the payment is
// determined by a cost query.
func (q *Query[D, R]) SetMaxPaymentAmount(amount hedera.Hbar) *Query[D, R] {
	q.maxPayment = &amount
	return q
}

// SetPaymentTransactionID sets the transaction ID of the payment.
func (q *Query[D, R]) SetPaymentTransactionID(id hedera.TransactionID) *Query[D, R] {
	q.paymentTransaction = &id
	return q
}

// Execute sends the query and returns the answer.
func (q *Query[D, R]) Execute(ctx context.Context, c *client.Client) (R, error) {
	return q.ExecuteWithTimeout(ctx, c, 0)
}

// ExecuteWithTimeout sends the query, giving up after the timeout. A zero
// timeout uses the client's request timeout.
func (q *Query[D, R]) ExecuteWithTimeout(ctx context.Context, c *client.Client, timeout time.Duration) (R, error) {
	var z R
	req := &answerRequest[D, R]{request[D, R]{query: q, responseType: proto.AnswerOnly}}
	if q.Data.IsPaymentRequired() {
		req.operator = c.Operator()
		if req.operator == nil {
			return z, errors.NoPayerAccountOrTransactionID.With("a paid query requires an operator")
		}

		amount, err := q.paymentAmount(ctx, c, timeout)
		if err != nil {
			return z, err
		}
		req.amount = amount
	}

	r, err := execute.Execute(ctx, c.ExecuteConfig(timeout), req)
	if err != nil {
		return z, err
	}
	if req.amount > 0 {
		mPayments.Add(float64(req.amount.AsTinybars()))
	}
	return r, nil
}

func (q *Query[D, R]) paymentAmount(ctx context.Context, c *client.Client, timeout time.Duration) (hedera.Hbar, error) {
	if q.payment != nil {
		return *q.payment, nil
	}

	cost, err := q.GetCostWithTimeout(ctx, c, timeout)
	if err != nil {
		return 0, err
	}

	limit := DefaultMaxPayment
	switch {
	case q.maxPayment != nil:
		limit = *q.maxPayment
	case c.DefaultMaxQueryPayment() != nil:
		limit = *c.DefaultMaxQueryPayment()
	}
	if cost > limit {
		return 0, errors.MaxQueryPaymentExceeded.WithFormat("query cost %v exceeds the maximum payment %v", cost, limit)
	}
	return cost, nil
}

// GetCost asks the network how much the query costs. Free queries cost
// nothing.
func (q *Query[D, R]) GetCost(ctx context.Context, c *client.Client) (hedera.Hbar, error) {
	return q.GetCostWithTimeout(ctx, c, 0)
}

func (q *Query[D, R]) GetCostWithTimeout(ctx context.Context, c *client.Client, timeout time.Duration) (hedera.Hbar, error) {
	if !q.Data.IsPaymentRequired() {
		return 0, nil
	}

	req := &costRequest[D, R]{request[D, R]{query: q, responseType: proto.CostAnswer}}
	req.operator = c.Operator()
	if req.operator == nil {
		return 0, errors.NoPayerAccountOrTransactionID.With("a paid query requires an operator")
	}
	return execute.Execute(ctx, c.ExecuteConfig(timeout), req)
}
