// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package client

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/exp/slices"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/network"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/signing"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/execute"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/keys"
)

// Operator is the account that pays for transactions and queries, and the
// signer that authorizes the payments.
type Operator struct {
	AccountID hedera.AccountID
	Signer    signing.Signer
}

// Client is a managed connection to a network. A Client is safe for
// concurrent use; changes to its settings do not affect requests that are
// already executing.
type Client struct {
	network *network.Network

	mu                    sync.RWMutex
	operator              *Operator
	mirrorNetwork         []string
	ledgerID              hedera.LedgerID
	autoValidateChecksums bool
	regenerate            bool
	maxTransactionFee     *hedera.Hbar
	maxQueryPayment       *hedera.Hbar
	maxAttempts           int
	minBackoff            time.Duration
	maxBackoff            time.Duration
	requestTimeout        time.Duration
	grpcTimeout           time.Duration
	logger                *slog.Logger
}

// New returns a client for the network.
func New(net *network.Network) *Client {
	return &Client{
		network:     net,
		regenerate:  true,
		maxAttempts: execute.DefaultMaxAttempts,
		minBackoff:  execute.DefaultMinBackoff,
		maxBackoff:  execute.DefaultMaxBackoff,
	}
}

// ForNetwork returns a client for a map of node address to node account ID.
func ForNetwork(addresses map[string]hedera.AccountID, opts ...network.Option) (*Client, error) {
	net, err := network.ForAddresses(addresses, opts...)
	if err != nil {
		return nil, err
	}
	return New(net), nil
}

// ForName returns a client for the mainnet, testnet, or previewnet.
func ForName(name string, opts ...network.Option) (*Client, error) {
	table, mirror, ledger, err := network.Named(name)
	if err != nil {
		return nil, err
	}

	nodes, err := network.StaticNodes(table)
	if err != nil {
		return nil, errors.InternalError.WithFormat("static %s nodes: %w", name, err)
	}

	net, err := network.New(nodes, opts...)
	if err != nil {
		return nil, err
	}

	c := New(net)
	c.mirrorNetwork = []string{mirror}
	c.ledgerID = ledger
	return c, nil
}

// ForMainnet returns a client for the mainnet.
func ForMainnet(opts ...network.Option) (*Client, error) { return ForName("mainnet", opts...) }

// ForTestnet returns a client for the testnet.
func ForTestnet(opts ...network.Option) (*Client, error) { return ForName("testnet", opts...) }

// ForPreviewnet returns a client for the previewnet.
func ForPreviewnet(opts ...network.Option) (*Client, error) { return ForName("previewnet", opts...) }

// Close closes the connections to the nodes.
func (c *Client) Close() error { return c.network.Close() }

// Nodes returns a snapshot of the node table.
func (c *Client) Nodes() *network.Nodes { return c.network.Load() }

// Network returns the map of node address to node account ID.
func (c *Client) Network() map[string]hedera.AccountID {
	nodes := c.network.Load()
	m := map[string]hedera.AccountID{}
	for i := 0; i < nodes.Len(); i++ {
		for _, addr := range nodes.Addresses(i) {
			s, err := network.HostPort(addr)
			if err != nil {
				s = addr.String()
			}
			m[s] = nodes.NodeID(i)
		}
	}
	return m
}

// SetNetwork replaces the nodes of the network. Health information of nodes
// that remain is kept.
func (c *Client) SetNetwork(addresses map[string]hedera.AccountID) error {
	nodes, err := network.NodesForAddresses(addresses)
	if err != nil {
		return err
	}
	return c.network.SetNodes(nodes)
}

// MirrorNetwork returns the addresses of the mirror nodes.
func (c *Client) MirrorNetwork() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.mirrorNetwork)
}

func (c *Client) SetMirrorNetwork(addresses []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mirrorNetwork = slices.Clone(addresses)
}

// SetOperator sets the operator to the account and private key.
func (c *Client) SetOperator(id hedera.AccountID, key keys.PrivateKey) {
	c.setOperator(&Operator{AccountID: id, Signer: signing.ForKey(key)})
}

// SetOperatorWith sets the operator to the account and a signing function,
// such as a hardware wallet.
func (c *Client) SetOperatorWith(id hedera.AccountID, key keys.PublicKey, sign func([]byte) ([]byte, error)) {
	c.setOperator(&Operator{AccountID: id, Signer: signing.Func{Key: key, SignFn: sign}})
}

func (c *Client) setOperator(op *Operator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.operator = op
}

// Operator returns the operator, or nil.
func (c *Client) Operator() *Operator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.operator
}

// OperatorAccountID returns the account ID of the operator, or nil.
func (c *Client) OperatorAccountID() *hedera.AccountID {
	op := c.Operator()
	if op == nil {
		return nil
	}
	id := op.AccountID
	return &id
}

// OperatorPublicKey returns the public key of the operator, or nil.
func (c *Client) OperatorPublicKey() *keys.PublicKey {
	op := c.Operator()
	if op == nil {
		return nil
	}
	key := op.Signer.PublicKey()
	return &key
}

func (c *Client) LedgerID() hedera.LedgerID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ledgerID
}

// SetLedgerID sets the ledger ID used to validate entity ID checksums.
func (c *Client) SetLedgerID(id hedera.LedgerID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ledgerID = id
}

func (c *Client) AutoValidateChecksums() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.autoValidateChecksums
}

// SetAutoValidateChecksums enables or disables validating the checksums of
// entity IDs against the ledger ID before requests are sent.
func (c *Client) SetAutoValidateChecksums(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoValidateChecksums = v
}

func (c *Client) DefaultRegenerateTransactionID() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.regenerate
}

// SetDefaultRegenerateTransactionID sets whether expired transaction IDs are
// regenerated by default. The default is true.
func (c *Client) SetDefaultRegenerateTransactionID(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regenerate = v
}

// DefaultMaxTransactionFee returns the default maximum transaction fee, or
// nil if each transaction kind's default applies.
func (c *Client) DefaultMaxTransactionFee() *hedera.Hbar {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxTransactionFee
}

func (c *Client) SetDefaultMaxTransactionFee(fee hedera.Hbar) error {
	if fee < 0 {
		return errors.BadRequest.WithFormat("negative transaction fee %v", fee)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxTransactionFee = &fee
	return nil
}

// DefaultMaxQueryPayment returns the default maximum query payment, or nil
// if each query kind's default applies.
func (c *Client) DefaultMaxQueryPayment() *hedera.Hbar {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxQueryPayment
}

func (c *Client) SetDefaultMaxQueryPayment(payment hedera.Hbar) error {
	if payment < 0 {
		return errors.BadRequest.WithFormat("negative query payment %v", payment)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxQueryPayment = &payment
	return nil
}

func (c *Client) MaxAttempts() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxAttempts
}

// SetMaxAttempts sets the number of attempts made before a request fails.
// The default is 10.
func (c *Client) SetMaxAttempts(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxAttempts = n
}

func (c *Client) MinBackoff() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.minBackoff
}

// SetMinBackoff sets the initial backoff between attempts. The default is
// 500ms.
func (c *Client) SetMinBackoff(d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > c.maxBackoff {
		return errors.BadRequest.WithFormat("minimum backoff %v is greater than the maximum %v", d, c.maxBackoff)
	}
	c.minBackoff = d
	return nil
}

func (c *Client) MaxBackoff() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxBackoff
}

// SetMaxBackoff sets the maximum backoff between attempts. The default is
// 60s.
func (c *Client) SetMaxBackoff(d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d < c.minBackoff {
		return errors.BadRequest.WithFormat("maximum backoff %v is less than the minimum %v", d, c.minBackoff)
	}
	c.maxBackoff = d
	return nil
}

func (c *Client) RequestTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.requestTimeout
}

// SetRequestTimeout bounds the total time spent on a request, including
// retries. Zero uses the default of 15 minutes.
func (c *Client) SetRequestTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestTimeout = d
}

func (c *Client) GRPCTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.grpcTimeout
}

// SetGRPCTimeout bounds the time spent on a single call to a node. A call
// that times out is retried on another node. Zero means no bound.
func (c *Client) SetGRPCTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.grpcTimeout = d
}

// SetNodeBackoff sets how long unhealthy nodes are avoided.
func (c *Client) SetNodeBackoff(b network.NodeBackoff) { c.network.SetNodeBackoff(b) }

// Logger returns the client's logger, or the default logger if none is set.
func (c *Client) Logger() *slog.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

func (c *Client) SetLogger(logger *slog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
}

// ExecuteConfig returns the configuration for executing a request with the
// client's current settings. A non-zero timeout overrides the client's
// request timeout.
func (c *Client) ExecuteConfig(timeout time.Duration) *execute.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if timeout <= 0 {
		timeout = c.requestTimeout
	}

	cfg := &execute.Config{
		Nodes:                   c.network.Load(),
		RegenerateTransactionID: c.regenerate,
		AutoValidateChecksums:   c.autoValidateChecksums,
		LedgerID:                c.ledgerID,
		MaxAttempts:             c.maxAttempts,
		MinBackoff:              c.minBackoff,
		MaxBackoff:              c.maxBackoff,
		RequestTimeout:          timeout,
		GRPCTimeout:             c.grpcTimeout,
		Logger:                  c.logger,
	}
	if c.operator != nil {
		id := c.operator.AccountID
		cfg.Operator = &id
	}
	cfg.Ping = pinger(*cfg)
	return cfg
}
