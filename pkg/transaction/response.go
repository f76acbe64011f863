// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package transaction

import (
	"context"
	"time"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/query"
)

// Response is a node's acceptance of a transaction. Acceptance means the node
// will submit the transaction, not that the transaction succeeded; use
// [Response.GetReceipt] to find out.
type Response struct {
	NodeID        hedera.AccountID
	TransactionID hedera.TransactionID
	Hash          Hash

	// ValidateStatus makes GetReceipt fail if the receipt's status is not
	// success. It is true by default.
	ValidateStatus bool
}

// SetValidateStatus sets whether GetReceipt fails on an unsuccessful status.
func (r *Response) SetValidateStatus(validate bool) *Response {
	r.ValidateStatus = validate
	return r
}

// GetReceiptQuery returns a query for the receipt of the transaction, sent to
// the node that accepted it.
func (r *Response) GetReceiptQuery() *query.TransactionReceiptQuery {
	q := query.NewTransactionReceiptQuery(r.TransactionID)
	q.Data.ValidateStatus = r.ValidateStatus
	return q.SetNodeAccountIDs(r.NodeID)
}

// GetReceipt waits for the receipt of the transaction.
func (r *Response) GetReceipt(ctx context.Context, c *client.Client) (hedera.TransactionReceipt, error) {
	return r.GetReceiptQuery().Execute(ctx, c)
}

// GetReceiptWithTimeout waits for the receipt of the transaction, giving up
// after the timeout.
func (r *Response) GetReceiptWithTimeout(ctx context.Context, c *client.Client, timeout time.Duration) (hedera.TransactionReceipt, error) {
	return r.GetReceiptQuery().ExecuteWithTimeout(ctx, c, timeout)
}
