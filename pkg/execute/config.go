// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package execute

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/network"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
)

const (
	DefaultMaxAttempts = 10
	DefaultMinBackoff  = 500 * time.Millisecond
	DefaultMaxBackoff  = 60 * time.Second
)

// Config is the environment a request executes in. It is normally built by
// the client.
type Config struct {
	// Nodes is the node table snapshot to use for the whole execution.
	Nodes *network.Nodes

	// Operator is the default account for generating transaction IDs.
	Operator *hedera.AccountID

	// RegenerateTransactionID is the default for requests that do not
	// specify whether expired transaction IDs may be regenerated.
	RegenerateTransactionID bool

	AutoValidateChecksums bool
	LedgerID              hedera.LedgerID

	// MaxAttempts bounds the number of attempts. Zero means unbounded, in
	// which case only the backoff's elapsed time limit applies.
	MaxAttempts int
	MinBackoff  time.Duration
	MaxBackoff  time.Duration

	// RequestTimeout bounds the time spent retrying. Zero uses the backoff
	// default of 15 minutes.
	RequestTimeout time.Duration

	// GRPCTimeout bounds each request to a single node. Zero means no bound.
	GRPCTimeout time.Duration

	// Ping checks that a node is alive before it is used, if the node has
	// not responded recently. Ping is not used when the request names
	// explicit nodes.
	Ping func(ctx context.Context, node hedera.AccountID) error

	// Sleep waits between attempts. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error

	// Clock is used to measure the elapsed time of the backoff. Defaults to
	// the system clock.
	Clock backoff.Clock

	Logger *slog.Logger
}

func (c *Config) newBackoff() *backoff.ExponentialBackOff {
	initial, ceiling := c.MinBackoff, c.MaxBackoff
	if initial <= 0 {
		initial = DefaultMinBackoff
	}
	if ceiling <= 0 {
		ceiling = DefaultMaxBackoff
	}
	if ceiling < initial {
		ceiling = initial
	}

	elapsed := c.RequestTimeout
	if elapsed <= 0 {
		elapsed = backoff.DefaultMaxElapsedTime
	}

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(initial),
		backoff.WithMaxInterval(ceiling),
		backoff.WithMaxElapsedTime(elapsed),
	)
	if c.Clock != nil {
		b.Clock = c.Clock
		b.Reset()
	}
	return b
}

func (c *Config) sleep(ctx context.Context, d time.Duration) error {
	if c.Sleep != nil {
		return c.Sleep(ctx, d)
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
