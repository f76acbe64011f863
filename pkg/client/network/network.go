// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package network

import (
	"cmp"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/multiformats/go-multiaddr"
	"golang.org/x/exp/slices"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
)

// Node describes one consensus node.
type Node struct {
	AccountID hedera.AccountID
	Addresses []multiaddr.Multiaddr

	// Channel is used instead of dialing Addresses, if set.
	Channel Channel
}

// Network is the set of consensus nodes known to a client. The node table can
// be replaced at any time; node health survives the replacement.
//
// Requests should call [Network.Load] once and use the returned [Nodes] for
// the duration of the request, so that node indexes remain stable.
type Network struct {
	current atomic.Pointer[Nodes]
	opts    *options
}

// Option configures a [Network].
type Option func(*options)

type options struct {
	mu      sync.RWMutex
	backoff NodeBackoff
	now     func() time.Time
	dial    func([]multiaddr.Multiaddr) (Channel, error)
}

// WithNodeBackoff sets the backoff for unhealthy nodes.
func WithNodeBackoff(b NodeBackoff) Option {
	return func(o *options) { o.backoff = b }
}

// WithClock sets the time source used for node health.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithDialer sets the function used to create channels for nodes that do not
// specify one.
func WithDialer(dial func([]multiaddr.Multiaddr) (Channel, error)) Option {
	return func(o *options) { o.dial = dial }
}

func dialGRPC(addrs []multiaddr.Multiaddr) (Channel, error) {
	ch, err := DialGRPC(addrs)
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// New returns a network of the given nodes.
func New(nodes []Node, opts ...Option) (*Network, error) {
	o := &options{
		backoff: DefaultNodeBackoff,
		now:     time.Now,
		dial:    dialGRPC,
	}
	for _, opt := range opts {
		opt(o)
	}

	n := &Network{opts: o}
	err := n.SetNodes(nodes)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ForAddresses returns a network from a map of address to node account ID.
// Addresses that map to the same account are grouped into a single node.
func ForAddresses(addresses map[string]hedera.AccountID, opts ...Option) (*Network, error) {
	nodes, err := NodesForAddresses(addresses)
	if err != nil {
		return nil, err
	}
	return New(nodes, opts...)
}

// NodesForAddresses groups a map of address to node account ID into nodes.
// The result is ordered by account ID.
func NodesForAddresses(addresses map[string]hedera.AccountID) ([]Node, error) {
	index := map[hedera.AccountID]int{}
	var nodes []Node
	for s, id := range addresses {
		addr, err := ParseAddress(s)
		if err != nil {
			return nil, err
		}

		id = id.WithoutChecksum()
		i, ok := index[id]
		if !ok {
			i = len(nodes)
			index[id] = i
			nodes = append(nodes, Node{AccountID: id})
		}
		nodes[i].Addresses = append(nodes[i].Addresses, addr)
	}

	slices.SortFunc(nodes, func(a, b Node) int { return a.AccountID.Compare(b.AccountID.EntityID) })
	for _, node := range nodes {
		slices.SortFunc(node.Addresses, func(a, b multiaddr.Multiaddr) int {
			return cmp.Compare(a.String(), b.String())
		})
	}
	return nodes, nil
}

// SetNodes replaces the node table. Nodes that were already known keep their
// health. Nodes with unchanged addresses keep their channel.
func (n *Network) SetNodes(nodes []Node) error {
	old := n.current.Load()
	next := &Nodes{
		opts:  n.opts,
		index: make(map[hedera.AccountID]int, len(nodes)),
		nodes: make([]*node, 0, len(nodes)),
	}

	for _, desc := range nodes {
		id := desc.AccountID.WithoutChecksum()
		if _, ok := next.index[id]; ok {
			return errors.BadRequest.WithFormat("duplicate node %v", id)
		}
		if desc.Channel == nil && len(desc.Addresses) == 0 {
			return errors.BadRequest.WithFormat("node %v has no addresses", id)
		}

		nd := &node{id: id, addrs: desc.Addresses}
		if i, ok := old.lookup(id); ok {
			prev := old.nodes[i]
			nd.health = prev.health
			if desc.Channel == nil && sameAddresses(prev.addrs, desc.Addresses) {
				nd.conn = prev.conn
			}
		}
		if nd.health == nil {
			nd.health = new(nodeHealth)
		}
		if nd.conn == nil {
			nd.conn = &connection{channel: desc.Channel}
		}

		next.index[id] = len(next.nodes)
		next.nodes = append(next.nodes, nd)
	}

	n.current.Store(next)
	return nil
}

// Load returns the current node table.
func (n *Network) Load() *Nodes {
	return n.current.Load()
}

// NodeBackoff returns the backoff for unhealthy nodes.
func (n *Network) NodeBackoff() NodeBackoff {
	n.opts.mu.RLock()
	defer n.opts.mu.RUnlock()
	return n.opts.backoff
}

// SetNodeBackoff sets the backoff for unhealthy nodes. It applies to the next
// failure of each node.
func (n *Network) SetNodeBackoff(b NodeBackoff) {
	n.opts.mu.Lock()
	defer n.opts.mu.Unlock()
	n.opts.backoff = b
}

// Close closes every channel the network dialed.
func (n *Network) Close() error {
	var errs []error
	for _, nd := range n.Load().nodes {
		c, ok := nd.conn.dialed()
		if !ok {
			continue
		}
		if closer, ok := c.(io.Closer); ok {
			errs = append(errs, closer.Close())
		}
	}
	return errors.Join(errs...)
}

// Nodes is an immutable snapshot of the node table. Node health is shared
// between snapshots and is safe for concurrent use.
type Nodes struct {
	opts  *options
	index map[hedera.AccountID]int
	nodes []*node
}

type node struct {
	id     hedera.AccountID
	addrs  []multiaddr.Multiaddr
	health *nodeHealth
	conn   *connection
}

type connection struct {
	once    sync.Once
	done    atomic.Bool
	channel Channel
	err     error
}

func (c *connection) get(dial func([]multiaddr.Multiaddr) (Channel, error), addrs []multiaddr.Multiaddr) (Channel, error) {
	c.once.Do(func() {
		defer c.done.Store(true)
		if c.channel != nil {
			return
		}
		mDial.Inc()
		c.channel, c.err = dial(addrs)
	})
	return c.channel, c.err
}

func (c *connection) dialed() (Channel, bool) {
	if !c.done.Load() || c.channel == nil || c.err != nil {
		return nil, false
	}
	return c.channel, true
}

func (n *Nodes) lookup(id hedera.AccountID) (int, bool) {
	if n == nil {
		return 0, false
	}
	i, ok := n.index[id.WithoutChecksum()]
	return i, ok
}

func (n *Nodes) now() time.Time {
	return n.opts.now()
}

// Len returns the number of nodes.
func (n *Nodes) Len() int { return len(n.nodes) }

// NodeID returns the account ID of the node at the given index.
func (n *Nodes) NodeID(i int) hedera.AccountID { return n.nodes[i].id }

// NodeIDs returns the account IDs of every node, in index order.
func (n *Nodes) NodeIDs() []hedera.AccountID {
	ids := make([]hedera.AccountID, len(n.nodes))
	for i, nd := range n.nodes {
		ids[i] = nd.id
	}
	return ids
}

// Addresses returns the addresses of the node at the given index.
func (n *Nodes) Addresses(i int) []multiaddr.Multiaddr { return n.nodes[i].addrs }

// NodeIndexesForIDs resolves node account IDs to indexes. Checksums are
// ignored.
func (n *Nodes) NodeIndexesForIDs(ids []hedera.AccountID) ([]int, error) {
	indexes := make([]int, 0, len(ids))
	for _, id := range ids {
		i, ok := n.lookup(id)
		if !ok {
			return nil, errors.NodeAccountUnknown.WithFormat("node account %v is not part of the network", id)
		}
		indexes = append(indexes, i)
	}
	return indexes, nil
}

// Channel returns the channel of the node at the given index, dialing it on
// first use.
func (n *Nodes) Channel(i int) (Channel, error) {
	nd := n.nodes[i]
	ch, err := nd.conn.get(n.opts.dial, nd.addrs)
	if err != nil {
		return nil, errors.UnknownError.WithFormat("node %v: %w", nd.id, err)
	}
	return ch, nil
}

// MarkNodeUnhealthy records a failed request to the node.
func (n *Nodes) MarkNodeUnhealthy(i int) {
	n.opts.mu.RLock()
	cfg := n.opts.backoff
	n.opts.mu.RUnlock()

	nd := n.nodes[i]
	wait, attempts := nd.health.markUnhealthy(cfg, n.now())
	mNodeUnhealthy.WithLabelValues(nd.id.String()).Inc()
	slog.Debug("Marked node unhealthy", "node", nd.id, "backoff", wait, "attempts", attempts, "module", "network")
}

// MarkNodeHealthy records a successful request to the node.
func (n *Nodes) MarkNodeHealthy(i int) {
	nd := n.nodes[i]
	nd.health.markHealthy(n.now())
	mNodeHealthy.WithLabelValues(nd.id.String()).Inc()
}

// Health returns the state of the node at the given index.
func (n *Nodes) Health(i int) HealthState {
	return n.nodes[i].health.snapshot()
}

// IsNodeHealthy returns false if the node is unhealthy and its backoff has
// not expired.
func (n *Nodes) IsNodeHealthy(i int) bool {
	return n.nodes[i].health.isHealthy(n.now())
}

// NodeRecentlyPinged returns true if the node has responded recently, in
// which case a request does not need to ping it first.
func (n *Nodes) NodeRecentlyPinged(i int) bool {
	return n.nodes[i].health.recentlyPinged(n.now())
}

// HealthyNodeIndexes returns the indexes of every healthy node.
func (n *Nodes) HealthyNodeIndexes() []int {
	now := n.now()
	var indexes []int
	for i, nd := range n.nodes {
		if nd.health.isHealthy(now) {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

// SampleSize returns the number of nodes a request samples out of count
// candidates: one third, rounded up.
func SampleSize(count int) int {
	return (count + 2) / 3
}

// SampleHealthyNodeIndexes returns a random third (rounded up) of the healthy
// nodes, or nil if no node is healthy.
func (n *Nodes) SampleHealthyNodeIndexes() []int {
	healthy := n.HealthyNodeIndexes()
	if len(healthy) == 0 {
		return nil
	}
	rand.Shuffle(len(healthy), func(i, j int) { healthy[i], healthy[j] = healthy[j], healthy[i] })
	return healthy[:SampleSize(len(healthy))]
}

// RandomNodeIDs returns a random third (rounded up) of the healthy nodes. If
// no node is healthy, it samples from every node.
func (n *Nodes) RandomNodeIDs() []hedera.AccountID {
	indexes := n.HealthyNodeIndexes()
	if len(indexes) == 0 {
		indexes = make([]int, len(n.nodes))
		for i := range indexes {
			indexes[i] = i
		}
	}

	rand.Shuffle(len(indexes), func(i, j int) { indexes[i], indexes[j] = indexes[j], indexes[i] })
	indexes = indexes[:SampleSize(len(indexes))]

	ids := make([]hedera.AccountID, len(indexes))
	for i, j := range indexes {
		ids[i] = n.nodes[j].id
	}
	return ids
}

func sameAddresses(a, b []multiaddr.Multiaddr) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		if !slices.ContainsFunc(b, x.Equal) {
			return false
		}
	}
	return true
}
