// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package client

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/network"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/execute"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/proto"
)

// pingRequest asks a node for the balance of its own account. The query is
// free, so it needs neither a payment nor a transaction ID.
type pingRequest struct {
	node hedera.AccountID
}

var _ execute.Executable[struct{}, *proto.Response, struct{}] = pingRequest{}

func (p pingRequest) NodeAccountIDs() []hedera.AccountID         { return []hedera.AccountID{p.node} }
func (pingRequest) TransactionID() *hedera.TransactionID         { return nil }
func (pingRequest) RequiresTransactionID() bool                  { return false }
func (pingRequest) RegenerateTransactionID() *bool               { return nil }
func (pingRequest) OperatorAccountID() *hedera.AccountID         { return nil }
func (pingRequest) ShouldRetryPrecheck(hedera.ResponseCode) bool { return false }
func (pingRequest) ShouldRetry(*proto.Response) bool             { return false }

func (p pingRequest) ValidateChecksums(ledger hedera.LedgerID) error {
	return p.node.ValidateChecksum(ledger)
}

func (p pingRequest) MakeRequest(_ *hedera.TransactionID, node hedera.AccountID) (*execute.Request[struct{}], error) {
	query := &proto.Query{Data: &proto.CryptoGetAccountBalanceQuery{
		Header:    &proto.QueryHeader{ResponseType: proto.AnswerOnly},
		AccountID: proto.NewAccountID(node),
	}}
	return &execute.Request[struct{}]{
		Method:  network.MethodCryptoGetBalance,
		Payload: proto.Marshal(query),
	}, nil
}

func (pingRequest) Execute(ctx context.Context, ch network.Channel, req *execute.Request[struct{}]) (*proto.Response, error) {
	return execute.Invoke[proto.Response](ctx, ch, req.Method, req.Payload)
}

func (pingRequest) PrecheckStatus(resp *proto.Response) (int32, error) {
	header := resp.Header()
	if header == nil {
		return 0, errors.EncodingError.With("response is missing the header")
	}
	return header.NodeTransactionPrecheckCode, nil
}

func (pingRequest) MakeResponse(*proto.Response, struct{}, hedera.AccountID, *hedera.TransactionID) (struct{}, error) {
	return struct{}{}, nil
}

func (pingRequest) MakePrecheckError(status hedera.ResponseCode, _ *hedera.TransactionID, _ *proto.Response) error {
	return &hedera.PrecheckError{Status: status}
}

// Ping sends a ping to the node.
func (c *Client) Ping(ctx context.Context, node hedera.AccountID) error {
	return c.PingWithTimeout(ctx, node, 0)
}

// PingWithTimeout sends a ping to the node, giving up after the timeout. A
// zero timeout uses the client's request timeout.
func (c *Client) PingWithTimeout(ctx context.Context, node hedera.AccountID, timeout time.Duration) error {
	_, err := execute.Execute(ctx, c.ExecuteConfig(timeout), pingRequest{node})
	return err
}

// PingAll pings every node of the network concurrently and returns the first
// failure.
func (c *Client) PingAll(ctx context.Context) error {
	return c.PingAllWithTimeout(ctx, 0)
}

// PingAllWithTimeout pings every node of the network concurrently, giving up
// after the timeout.
func (c *Client) PingAllWithTimeout(ctx context.Context, timeout time.Duration) error {
	errg, ctx := errgroup.WithContext(ctx)
	for _, node := range c.network.Load().NodeIDs() {
		node := node
		errg.Go(func() error {
			return c.PingWithTimeout(ctx, node, timeout)
		})
	}
	return errg.Wait()
}

// pinger returns the function the executor uses to check nodes that have not
// been used recently. The ping shares the execution's node snapshot and retry
// settings.
func pinger(cfg execute.Config) func(context.Context, hedera.AccountID) error {
	cfg.Ping = nil
	cfg.Operator = nil
	return func(ctx context.Context, node hedera.AccountID) error {
		_, err := execute.Execute(ctx, &cfg, pingRequest{node})
		return err
	}
}
