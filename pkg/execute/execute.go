// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package execute

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"google.golang.org/grpc/status"

	"github.com/hashgraph/hedera-sdk-go-exec/internal/logging"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/network"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
)

// step is what the executor does after trying a node or an attempt.
type step int

const (
	// stepDone returns the result.
	stepDone step = iota

	// stepFatal returns the error.
	stepFatal

	// stepNextNode tries the next node of the attempt, immediately.
	stepNextNode

	// stepRestart begins a new attempt immediately.
	stepRestart

	// stepBackoff begins a new attempt after a backoff.
	stepBackoff
)

func (s step) String() string {
	switch s {
	case stepDone:
		return "done"
	case stepFatal:
		return "fatal"
	case stepNextNode:
		return "next node"
	case stepRestart:
		return "restart"
	case stepBackoff:
		return "backoff"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

type executor[C, W, R any] struct {
	cfg    *Config
	exec   Executable[C, W, R]
	logger *slog.Logger

	// operator is set if the transaction ID may be regenerated.
	operator *hedera.AccountID

	txid     *hedera.TransactionID
	explicit []int
}

// Execute submits the request to the network, retrying and failing over
// between nodes until a node accepts it, the request is rejected, or the
// retry budget is exhausted.
func Execute[C, W, R any](ctx context.Context, cfg *Config, exec Executable[C, W, R]) (R, error) {
	x := &executor[C, W, R]{cfg: cfg, exec: exec}
	ctx = logging.With(ctx, "execution", uuid.New())
	x.logger = cfg.logger().With("module", "execute", "request", fmt.Sprintf("%T", exec))

	r, err := x.run(ctx)
	if err != nil {
		err = errors.UnknownError.Wrap(err)
		mExecutions.WithLabelValues(errors.Code(err).String()).Inc()
		return r, err
	}
	mExecutions.WithLabelValues("ok").Inc()
	return r, nil
}

func (x *executor[C, W, R]) run(ctx context.Context) (R, error) {
	var z R
	if x.cfg.Nodes == nil || x.cfg.Nodes.Len() == 0 {
		return z, errors.BadRequest.With("network has no nodes")
	}

	if x.cfg.AutoValidateChecksums {
		if x.cfg.LedgerID == nil {
			return z, errors.BadRequest.With("checksum validation is enabled but the ledger ID is not set")
		}
		err := x.exec.ValidateChecksums(x.cfg.LedgerID)
		if err != nil {
			return z, errors.UnknownError.Wrap(err)
		}
	}

	operator := x.exec.OperatorAccountID()
	if operator == nil {
		operator = x.cfg.Operator
	}

	explicitID := x.exec.TransactionID()
	if explicitID == nil {
		regenerate := x.cfg.RegenerateTransactionID
		if r := x.exec.RegenerateTransactionID(); r != nil {
			regenerate = *r
		}
		if regenerate {
			x.operator = operator
		}
	}

	if x.exec.RequiresTransactionID() {
		switch {
		case explicitID != nil:
			x.txid = explicitID
		case operator != nil:
			id := hedera.GenerateTransactionID(*operator)
			x.txid = &id
		default:
			return z, errors.NoPayerAccountOrTransactionID.With("a transaction ID or operator is required")
		}
	}

	if ids := x.exec.NodeAccountIDs(); len(ids) > 0 {
		indexes, err := x.cfg.Nodes.NodeIndexesForIDs(ids)
		if err != nil {
			return z, errors.UnknownError.Wrap(err)
		}
		x.explicit = indexes
	}

	bo := x.cfg.newBackoff()
	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return z, contextError(err, lastErr)
		}

		mAttempts.Inc()
		r, next, err := x.attempt(ctx)
		switch next {
		case stepDone:
			return r, nil
		case stepFatal:
			x.logger.ErrorContext(ctx, "Execution failed", "attempt", attempt, "error", err)
			return z, err
		}

		switch {
		case err != nil:
			lastErr = err
		case lastErr == nil:
			lastErr = errors.NodeUnavailable.With("no healthy nodes")
		}

		if x.cfg.MaxAttempts > 0 && attempt >= x.cfg.MaxAttempts {
			return z, exhausted(errors.MaxAttemptsExceeded, lastErr, fmt.Sprintf("exceeded %d attempts", attempt))
		}
		if next == stepRestart {
			continue
		}

		d := bo.NextBackOff()
		if d == backoff.Stop {
			return z, exhausted(errors.TimedOut, lastErr, fmt.Sprintf("timed out after %d attempts", attempt))
		}

		x.logger.WarnContext(ctx, "Backing off", "duration", d, "attempt", attempt, "error", lastErr)
		mBackoff.Observe(d.Seconds())
		err = x.cfg.sleep(ctx, d)
		if err != nil {
			return z, contextError(err, lastErr)
		}
	}
}

func exhausted(code errors.Status, lastErr error, message string) error {
	if lastErr == nil {
		return errors.InternalError.WithFormat("%s without recording an error", message)
	}
	return code.WithCauseAndFormat(lastErr, "%s: %v", message, lastErr)
}

func contextError(err, lastErr error) error {
	if lastErr != nil {
		return errors.TimedOut.WithCauseAndFormat(lastErr, "%v: %v", err, lastErr)
	}
	return errors.TimedOut.WithCauseAndFormat(err, "%v", err)
}

// sample returns the nodes to try in this attempt, in the order to try them.
func (x *executor[C, W, R]) sample() []int {
	nodes := x.cfg.Nodes
	if x.explicit == nil {
		return nodes.SampleHealthyNodeIndexes()
	}

	// Use every explicit node, healthy nodes first
	var healthy, unhealthy []int
	for _, i := range x.explicit {
		if nodes.IsNodeHealthy(i) {
			healthy = append(healthy, i)
		} else {
			unhealthy = append(unhealthy, i)
		}
	}
	rand.Shuffle(len(healthy), func(i, j int) { healthy[i], healthy[j] = healthy[j], healthy[i] })
	rand.Shuffle(len(unhealthy), func(i, j int) { unhealthy[i], unhealthy[j] = unhealthy[j], unhealthy[i] })
	return append(healthy, unhealthy...)
}

// attempt tries each sampled node until one succeeds or something other than
// a failover is required.
func (x *executor[C, W, R]) attempt(ctx context.Context) (R, step, error) {
	var z R
	indexes := x.sample()
	if len(indexes) == 0 {
		return z, stepBackoff, nil
	}

	var lastErr error
	nodes := x.cfg.Nodes
	for _, i := range indexes {
		node := nodes.NodeID(i)
		if x.explicit == nil && x.cfg.Ping != nil && !nodes.NodeRecentlyPinged(i) {
			err := x.cfg.Ping(ctx, node)
			if err != nil {
				x.logger.DebugContext(ctx, "Skipping node that failed to respond to a ping", "node", node, "error", err)
				continue
			}
		}

		r, next, err := x.single(ctx, i)
		switch next {
		case stepDone:
			x.logger.DebugContext(ctx, "Execution succeeded", "node", node)
			return r, next, nil
		case stepNextNode:
			x.logger.WarnContext(ctx, "Execution will continue", "node", node, "error", err)
			mFailovers.Inc()
			lastErr = err
		default:
			return z, next, err
		}
	}

	return z, stepBackoff, lastErr
}

// single tries one node.
func (x *executor[C, W, R]) single(ctx context.Context, i int) (R, step, error) {
	var z R
	nodes := x.cfg.Nodes
	node := nodes.NodeID(i)
	ctx = logging.With(ctx, "node", node)

	req, err := x.exec.MakeRequest(x.txid, node)
	if err != nil {
		return z, stepFatal, errors.UnknownError.Wrap(err)
	}

	ch, err := nodes.Channel(i)
	if err != nil {
		return z, stepFatal, errors.UnknownError.Wrap(err)
	}

	callCtx := ctx
	if x.cfg.GRPCTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, x.cfg.GRPCTimeout)
		defer cancel()
	}

	resp, err := x.exec.Execute(callCtx, ch, req)
	if err != nil {
		next, err := x.transportStep(ctx, callCtx, i, err)
		return z, next, err
	}

	// Anything that goes wrong from here on is the request's fault, not the
	// node's
	nodes.MarkNodeHealthy(i)

	raw, err := x.exec.PrecheckStatus(resp)
	if err != nil {
		return z, stepFatal, errors.UnknownError.Wrap(err)
	}
	code, ok := hedera.ResponseCodeFromInt32(raw)
	if !ok {
		return z, stepFatal, errors.ResponseStatusUnrecognized.WithFormat("node %v responded with unrecognized status %d", node, raw)
	}

	switch {
	case code == hedera.ResponseCodeOk && x.exec.ShouldRetry(resp):
		return z, stepBackoff, x.exec.MakePrecheckError(code, x.txid, resp)

	case code == hedera.ResponseCodeOk:
		r, err := x.exec.MakeResponse(resp, req.Context, node, x.txid)
		if err != nil {
			return z, stepFatal, errors.UnknownError.Wrap(err)
		}
		return r, stepDone, nil

	case code == hedera.ResponseCodeBusy,
		code == hedera.ResponseCodePlatformNotActive:
		return z, stepNextNode, x.exec.MakePrecheckError(code, x.txid, resp)

	case code == hedera.ResponseCodeTransactionExpired && x.operator != nil:
		err := x.exec.MakePrecheckError(code, x.txid, resp)
		id := hedera.GenerateTransactionID(*x.operator)
		x.logger.InfoContext(ctx, "Regenerating expired transaction ID", "old", x.txid, "new", id)
		x.txid = &id
		return z, stepRestart, err

	case x.exec.ShouldRetryPrecheck(code):
		return z, stepBackoff, x.exec.MakePrecheckError(code, x.txid, resp)

	default:
		return z, stepFatal, x.exec.MakePrecheckError(code, x.txid, resp)
	}
}

// transportStep classifies an error returned by [Executable.Execute].
func (x *executor[C, W, R]) transportStep(ctx, callCtx context.Context, i int, err error) (step, error) {
	nodes := x.cfg.Nodes
	switch {
	case ctx.Err() != nil:
		return stepFatal, contextError(ctx.Err(), err)

	case callCtx.Err() == context.DeadlineExceeded:
		// The per-request timeout expired
		return stepNextNode, errors.NodeUnavailable.WithCauseAndFormat(err, "request to node %v timed out after %v", nodes.NodeID(i), x.cfg.GRPCTimeout)
	}

	if _, ok := status.FromError(err); !ok {
		return stepFatal, errors.UnknownError.Wrap(err)
	}

	switch network.ClassifyError(err) {
	case network.ErrorNodeUnavailable:
		nodes.MarkNodeUnhealthy(i)
		return stepNextNode, network.WrapError(err)
	default:
		return stepFatal, network.WrapError(err)
	}
}
