// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package execute

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/network"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	mocks "github.com/hashgraph/hedera-sdk-go-exec/test/mocks/pkg/client/network"
)

const testMethod = "/test.Service/do"

type testResponse struct {
	status int32
}

type testResult struct {
	node hedera.AccountID
	txid *hedera.TransactionID
}

// testExec is an [Executable] whose responses are the decimal status codes
// returned by the channel.
type testExec struct {
	nodes         []hedera.AccountID
	txid          *hedera.TransactionID
	noTxID        bool
	regenerate    *bool
	retryPrecheck []hedera.ResponseCode
	retryResponse func(testResponse) bool
	checksumErr   error

	requests []*hedera.TransactionID
}

func (e *testExec) NodeAccountIDs() []hedera.AccountID           { return e.nodes }
func (e *testExec) TransactionID() *hedera.TransactionID         { return e.txid }
func (e *testExec) RequiresTransactionID() bool                  { return !e.noTxID }
func (e *testExec) RegenerateTransactionID() *bool               { return e.regenerate }
func (e *testExec) OperatorAccountID() *hedera.AccountID         { return nil }
func (e *testExec) ValidateChecksums(hedera.LedgerID) error      { return e.checksumErr }
func (e *testExec) PrecheckStatus(r testResponse) (int32, error) { return r.status, nil }
func (e *testExec) ShouldRetry(r testResponse) bool              { return e.retryResponse != nil && e.retryResponse(r) }
func (e *testExec) ShouldRetryPrecheck(code hedera.ResponseCode) bool {
	for _, c := range e.retryPrecheck {
		if c == code {
			return true
		}
	}
	return false
}

func (e *testExec) MakeRequest(txid *hedera.TransactionID, node hedera.AccountID) (*Request[hedera.AccountID], error) {
	e.requests = append(e.requests, txid)
	return &Request[hedera.AccountID]{Method: testMethod, Payload: []byte(node.String()), Context: node}, nil
}

func (e *testExec) Execute(ctx context.Context, ch network.Channel, req *Request[hedera.AccountID]) (testResponse, error) {
	b, err := ch.Invoke(ctx, req.Method, req.Payload)
	if err != nil {
		return testResponse{}, err
	}
	v, err := strconv.Atoi(string(b))
	if err != nil {
		return testResponse{}, err
	}
	return testResponse{int32(v)}, nil
}

func (e *testExec) MakeResponse(_ testResponse, node hedera.AccountID, _ hedera.AccountID, txid *hedera.TransactionID) (testResult, error) {
	return testResult{node: node, txid: txid}, nil
}

func (e *testExec) MakePrecheckError(code hedera.ResponseCode, txid *hedera.TransactionID, _ testResponse) error {
	return &hedera.PrecheckError{Status: code, TransactionID: txid}
}

type channelFunc func(ctx context.Context, method string, request []byte) ([]byte, error)

func (f channelFunc) Invoke(ctx context.Context, method string, request []byte) ([]byte, error) {
	return f(ctx, method, request)
}

// counter counts calls to the channels it wraps.
type counter struct{ calls int }

func (c *counter) wrap(ch network.Channel) network.Channel {
	return channelFunc(func(ctx context.Context, method string, request []byte) ([]byte, error) {
		c.calls++
		return ch.Invoke(ctx, method, request)
	})
}

// respond returns a channel that responds with each code in turn, repeating
// the last.
func respond(codes ...hedera.ResponseCode) network.Channel {
	var i int
	return channelFunc(func(context.Context, string, []byte) ([]byte, error) {
		code := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return []byte(strconv.Itoa(int(code))), nil
	})
}

func fail(code codes.Code) network.Channel {
	return channelFunc(func(context.Context, string, []byte) ([]byte, error) {
		return nil, status.Error(code, code.String())
	})
}

func testNodes(t *testing.T, channels ...network.Channel) *network.Nodes {
	t.Helper()
	var nodes []network.Node
	for i, ch := range channels {
		nodes = append(nodes, network.Node{AccountID: nodeID(i), Channel: ch})
	}
	n, err := network.New(nodes)
	require.NoError(t, err)
	return n.Load()
}

func nodeID(i int) hedera.AccountID { return hedera.NewAccountID(uint64(3 + i)) }

func testConfig(nodes *network.Nodes) (*Config, *[]time.Duration) {
	sleeps := new([]time.Duration)
	operator := hedera.NewAccountID(2)
	return &Config{
		Nodes:                   nodes,
		Operator:                &operator,
		RegenerateTransactionID: true,
		MaxAttempts:             DefaultMaxAttempts,
		Sleep: func(_ context.Context, d time.Duration) error {
			*sleeps = append(*sleeps, d)
			return nil
		},
	}, sleeps
}

func TestSuccess(t *testing.T) {
	cfg, sleeps := testConfig(testNodes(t, respond(hedera.ResponseCodeOk)))

	exec := new(testExec)
	r, err := Execute(context.Background(), cfg, exec)
	require.NoError(t, err)
	require.Equal(t, nodeID(0), r.node)
	require.NotNil(t, r.txid)
	require.Equal(t, *cfg.Operator, r.txid.AccountID)
	require.Empty(t, *sleeps)
	require.Equal(t, network.HealthHealthy, cfg.Nodes.Health(0))
}

func TestSampleSize(t *testing.T) {
	var c counter
	var channels []network.Channel
	for i := 0; i < 9; i++ {
		channels = append(channels, c.wrap(fail(codes.Unavailable)))
	}

	// No explicit nodes: one third of the healthy nodes
	cfg, _ := testConfig(testNodes(t, channels...))
	cfg.MaxAttempts = 1
	_, err := Execute(context.Background(), cfg, new(testExec))
	require.ErrorIs(t, err, errors.MaxAttemptsExceeded)
	require.Equal(t, 3, c.calls)

	// Explicit nodes: all of them, even if they are unhealthy
	c.calls = 0
	cfg, _ = testConfig(testNodes(t, channels...))
	cfg.MaxAttempts = 1
	for i := 0; i < 9; i++ {
		cfg.Nodes.MarkNodeUnhealthy(i)
	}
	exec := &testExec{nodes: []hedera.AccountID{nodeID(0), nodeID(2), nodeID(4), nodeID(6), nodeID(8)}}
	_, err = Execute(context.Background(), cfg, exec)
	require.ErrorIs(t, err, errors.MaxAttemptsExceeded)
	require.Equal(t, 5, c.calls)
}

func TestFailoverWithoutBackoff(t *testing.T) {
	var c counter
	cfg, sleeps := testConfig(testNodes(t, c.wrap(fail(codes.Unavailable)), c.wrap(respond(hedera.ResponseCodeOk))))

	// Healthy nodes are tried first, so this forces node 0 to be tried first
	cfg.Nodes.MarkNodeUnhealthy(1)

	exec := &testExec{nodes: []hedera.AccountID{nodeID(0), nodeID(1)}}
	r, err := Execute(context.Background(), cfg, exec)
	require.NoError(t, err)
	require.Equal(t, nodeID(1), r.node)
	require.Equal(t, 2, c.calls)
	require.Empty(t, *sleeps)
	require.Equal(t, network.HealthUnhealthy, cfg.Nodes.Health(0))
	require.Equal(t, network.HealthHealthy, cfg.Nodes.Health(1))
}

func TestBusyFailover(t *testing.T) {
	cfg, sleeps := testConfig(testNodes(t, respond(hedera.ResponseCodeBusy), respond(hedera.ResponseCodeOk)))
	cfg.Nodes.MarkNodeUnhealthy(1)

	exec := &testExec{nodes: []hedera.AccountID{nodeID(0), nodeID(1)}}
	r, err := Execute(context.Background(), cfg, exec)
	require.NoError(t, err)
	require.Equal(t, nodeID(1), r.node)
	require.Empty(t, *sleeps)

	// Busy is the node's problem but it did respond
	require.Equal(t, network.HealthHealthy, cfg.Nodes.Health(0))
}

func TestRegenerateExpiredTransactionID(t *testing.T) {
	cfg, sleeps := testConfig(testNodes(t, respond(hedera.ResponseCodeTransactionExpired, hedera.ResponseCodeOk)))

	exec := new(testExec)
	r, err := Execute(context.Background(), cfg, exec)
	require.NoError(t, err)
	require.Len(t, exec.requests, 2)
	require.False(t, exec.requests[0].Equal(*exec.requests[1]), "expected a new transaction ID")
	require.True(t, r.txid.Equal(*exec.requests[1]))
	require.Empty(t, *sleeps)
}

func TestExpiredExplicitTransactionID(t *testing.T) {
	cfg, _ := testConfig(testNodes(t, respond(hedera.ResponseCodeTransactionExpired, hedera.ResponseCodeOk)))

	txid := hedera.GenerateTransactionID(hedera.NewAccountID(1234))
	exec := &testExec{txid: &txid}
	_, err := Execute(context.Background(), cfg, exec)
	require.Error(t, err)
	require.Len(t, exec.requests, 1)

	var precheck *hedera.PrecheckError
	require.ErrorAs(t, err, &precheck)
	require.Equal(t, hedera.ResponseCodeTransactionExpired, precheck.Status)
	require.True(t, precheck.TransactionID.Equal(txid))
	require.ErrorIs(t, err, errors.PrecheckFailed)
}

func TestExpiredWithoutRegeneration(t *testing.T) {
	cfg, _ := testConfig(testNodes(t, respond(hedera.ResponseCodeTransactionExpired, hedera.ResponseCodeOk)))

	no := false
	exec := &testExec{regenerate: &no}
	_, err := Execute(context.Background(), cfg, exec)
	require.ErrorIs(t, err, errors.PrecheckFailed)
	require.Len(t, exec.requests, 1)
}

func TestMaxAttemptsExceeded(t *testing.T) {
	var c counter
	cfg, sleeps := testConfig(testNodes(t, c.wrap(respond(hedera.ResponseCodeBusy))))
	cfg.MaxAttempts = 3

	_, err := Execute(context.Background(), cfg, new(testExec))
	require.ErrorIs(t, err, errors.MaxAttemptsExceeded)
	require.Equal(t, 3, c.calls)
	require.Len(t, *sleeps, 2)

	var precheck *hedera.PrecheckError
	require.ErrorAs(t, err, &precheck)
	require.Equal(t, hedera.ResponseCodeBusy, precheck.Status)
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestTimedOut(t *testing.T) {
	cfg, _ := testConfig(testNodes(t, respond(hedera.ResponseCodeBusy)))
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg.Clock = clock
	cfg.MaxAttempts = 0
	cfg.MinBackoff = time.Second
	cfg.MaxBackoff = time.Second
	cfg.RequestTimeout = 3 * time.Second

	var slept int
	cfg.Sleep = func(_ context.Context, d time.Duration) error {
		slept++
		clock.now = clock.now.Add(d)
		return nil
	}

	_, err := Execute(context.Background(), cfg, new(testExec))
	require.ErrorIs(t, err, errors.TimedOut)
	require.NotZero(t, slept)
	require.LessOrEqual(t, slept, 6)

	var precheck *hedera.PrecheckError
	require.ErrorAs(t, err, &precheck)
}

func TestFatalTransportError(t *testing.T) {
	ch := mocks.NewChannel(t)
	ch.EXPECT().Invoke(mock.Anything, testMethod, mock.Anything).Return(nil, status.Error(codes.InvalidArgument, "bad request")).Once()
	cfg, sleeps := testConfig(testNodes(t, ch))

	_, err := Execute(context.Background(), cfg, new(testExec))
	require.ErrorIs(t, err, errors.TransportError)
	require.Empty(t, *sleeps)
}

func TestUnrecognizedStatus(t *testing.T) {
	cfg, _ := testConfig(testNodes(t, respond(hedera.ResponseCode(99999))))

	_, err := Execute(context.Background(), cfg, new(testExec))
	require.ErrorIs(t, err, errors.ResponseStatusUnrecognized)
	require.Equal(t, network.HealthHealthy, cfg.Nodes.Health(0))
}

func TestTerminalPrecheck(t *testing.T) {
	var c counter
	cfg, _ := testConfig(testNodes(t, c.wrap(respond(hedera.ResponseCodeInvalidSignature))))

	_, err := Execute(context.Background(), cfg, new(testExec))
	require.ErrorIs(t, err, errors.PrecheckFailed)
	require.Equal(t, 1, c.calls)
}

func TestRetryPrecheckBacksOff(t *testing.T) {
	cfg, sleeps := testConfig(testNodes(t, respond(hedera.ResponseCodeReceiptNotFound, hedera.ResponseCodeOk)))

	exec := &testExec{retryPrecheck: []hedera.ResponseCode{hedera.ResponseCodeReceiptNotFound}}
	_, err := Execute(context.Background(), cfg, exec)
	require.NoError(t, err)
	require.Len(t, *sleeps, 1)
}

func TestRetryResponseBacksOff(t *testing.T) {
	cfg, sleeps := testConfig(testNodes(t, respond(hedera.ResponseCodeOk)))

	var checks int
	exec := &testExec{retryResponse: func(testResponse) bool {
		checks++
		return checks < 3
	}}
	_, err := Execute(context.Background(), cfg, exec)
	require.NoError(t, err)
	require.Len(t, *sleeps, 2)
}

func TestMissingOperator(t *testing.T) {
	var c counter
	cfg, _ := testConfig(testNodes(t, c.wrap(respond(hedera.ResponseCodeOk))))
	cfg.Operator = nil

	_, err := Execute(context.Background(), cfg, new(testExec))
	require.ErrorIs(t, err, errors.NoPayerAccountOrTransactionID)
	require.Zero(t, c.calls)

	// Requests without transaction IDs do not need an operator
	r, err := Execute(context.Background(), cfg, &testExec{noTxID: true})
	require.NoError(t, err)
	require.Nil(t, r.txid)
}

func TestUnknownExplicitNode(t *testing.T) {
	cfg, _ := testConfig(testNodes(t, respond(hedera.ResponseCodeOk)))

	exec := &testExec{nodes: []hedera.AccountID{hedera.NewAccountID(99)}}
	_, err := Execute(context.Background(), cfg, exec)
	require.ErrorIs(t, err, errors.NodeAccountUnknown)
}

func TestChecksumValidation(t *testing.T) {
	var c counter
	cfg, _ := testConfig(testNodes(t, c.wrap(respond(hedera.ResponseCodeOk))))
	cfg.AutoValidateChecksums = true
	cfg.LedgerID = hedera.Testnet

	exec := &testExec{checksumErr: errors.BadEntityID.With("checksum mismatch")}
	_, err := Execute(context.Background(), cfg, exec)
	require.ErrorIs(t, err, errors.BadEntityID)
	require.Zero(t, c.calls)
}

func TestPingSkipsDeadNodes(t *testing.T) {
	var c counter
	cfg, _ := testConfig(testNodes(t, c.wrap(respond(hedera.ResponseCodeOk))))
	cfg.MaxAttempts = 2

	var pings int
	cfg.Ping = func(context.Context, hedera.AccountID) error {
		pings++
		return errors.NodeUnavailable.With("no response")
	}

	_, err := Execute(context.Background(), cfg, new(testExec))
	require.ErrorIs(t, err, errors.MaxAttemptsExceeded)
	require.ErrorIs(t, err, errors.NodeUnavailable)
	require.Equal(t, 2, pings)
	require.Zero(t, c.calls)

	// A node that answers the ping is used
	cfg.Ping = func(context.Context, hedera.AccountID) error { pings++; return nil }
	_, err = Execute(context.Background(), cfg, new(testExec))
	require.NoError(t, err)
	require.Equal(t, 3, pings)
	require.Equal(t, 1, c.calls)

	// And is not pinged again while it is healthy
	_, err = Execute(context.Background(), cfg, new(testExec))
	require.NoError(t, err)
	require.Equal(t, 3, pings)
}

func TestGRPCTimeout(t *testing.T) {
	hang := channelFunc(func(ctx context.Context, _ string, _ []byte) ([]byte, error) {
		<-ctx.Done()
		return nil, status.FromContextError(ctx.Err()).Err()
	})
	cfg, sleeps := testConfig(testNodes(t, hang, respond(hedera.ResponseCodeOk)))
	cfg.GRPCTimeout = 10 * time.Millisecond
	cfg.Nodes.MarkNodeUnhealthy(1)

	exec := &testExec{nodes: []hedera.AccountID{nodeID(0), nodeID(1)}}
	r, err := Execute(context.Background(), cfg, exec)
	require.NoError(t, err)
	require.Equal(t, nodeID(1), r.node)
	require.Empty(t, *sleeps)
}

func TestCanceled(t *testing.T) {
	cfg, _ := testConfig(testNodes(t, respond(hedera.ResponseCodeBusy)))
	ctx, cancel := context.WithCancel(context.Background())
	cfg.Sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	_, err := Execute(ctx, cfg, new(testExec))
	require.ErrorIs(t, err, errors.TimedOut)
}
