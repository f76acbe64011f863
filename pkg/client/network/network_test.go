// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package network

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
)

type channelFunc func(ctx context.Context, method string, request []byte) ([]byte, error)

func (f channelFunc) Invoke(ctx context.Context, method string, request []byte) ([]byte, error) {
	return f(ctx, method, request)
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
func newClock() *fakeClock                   { return &fakeClock{now: time.Unix(1700000000, 0)} }
func nopChannel() Channel                    { return channelFunc(nil) }
func testNode(num uint64) Node               { return Node{AccountID: hedera.NewAccountID(num), Channel: nopChannel()} }

func mustAddr(t *testing.T, s string) multiaddr.Multiaddr {
	t.Helper()
	addr, err := multiaddr.NewMultiaddr(s)
	require.NoError(t, err)
	return addr
}

func testNetwork(t *testing.T, clock *fakeClock, count int) *Network {
	t.Helper()
	var nodes []Node
	for i := 0; i < count; i++ {
		nodes = append(nodes, testNode(uint64(3+i)))
	}
	n, err := New(nodes, WithClock(clock.Now))
	require.NoError(t, err)
	return n
}

func TestNodeHealth(t *testing.T) {
	clock := newClock()
	nodes := testNetwork(t, clock, 1).Load()

	// Unused
	require.Equal(t, HealthUnused, nodes.Health(0))
	require.True(t, nodes.IsNodeHealthy(0))
	require.False(t, nodes.NodeRecentlyPinged(0))

	// Unhealthy for the initial backoff (with jitter)
	nodes.MarkNodeUnhealthy(0)
	require.Equal(t, HealthUnhealthy, nodes.Health(0))
	require.False(t, nodes.IsNodeHealthy(0))
	require.True(t, nodes.NodeRecentlyPinged(0))

	clock.Advance(time.Second)
	require.True(t, nodes.IsNodeHealthy(0))
	require.False(t, nodes.NodeRecentlyPinged(0))

	// Healthy until the ping window expires
	nodes.MarkNodeHealthy(0)
	require.Equal(t, HealthHealthy, nodes.Health(0))
	require.True(t, nodes.IsNodeHealthy(0))
	require.True(t, nodes.NodeRecentlyPinged(0))

	clock.Advance(RecentlyPingedWindow)
	require.True(t, nodes.IsNodeHealthy(0))
	require.False(t, nodes.NodeRecentlyPinged(0))
}

func TestNodeBackoffGrows(t *testing.T) {
	clock := newClock()
	h := new(nodeHealth)
	cfg := NodeBackoff{MinBackoff: time.Second, MaxBackoff: time.Minute}

	first, attempts := h.markUnhealthy(cfg, clock.now)
	require.Equal(t, 1, attempts)

	var last time.Duration
	for i := 0; i < 8; i++ {
		last, attempts = h.markUnhealthy(cfg, clock.now)
	}
	require.Equal(t, 9, attempts)
	require.Greater(t, last, first)
	require.LessOrEqual(t, last, time.Minute+time.Minute/2)

	// A healthy response resets the backoff
	h.markHealthy(clock.now)
	_, attempts = h.markUnhealthy(cfg, clock.now)
	require.Equal(t, 1, attempts)
}

func TestHealthyNodeIndexes(t *testing.T) {
	clock := newClock()
	nodes := testNetwork(t, clock, 4).Load()

	nodes.MarkNodeUnhealthy(1)
	nodes.MarkNodeUnhealthy(3)
	require.Equal(t, []int{0, 2}, nodes.HealthyNodeIndexes())

	clock.Advance(time.Second)
	require.Equal(t, []int{0, 1, 2, 3}, nodes.HealthyNodeIndexes())
}

func TestSampleSize(t *testing.T) {
	cases := map[int]int{1: 1, 2: 1, 3: 1, 4: 2, 6: 2, 7: 3, 9: 3, 10: 4, 29: 10}
	for count, expect := range cases {
		require.Equal(t, expect, SampleSize(count), "count %d", count)
	}
}

func TestSampleHealthyNodeIndexes(t *testing.T) {
	clock := newClock()
	nodes := testNetwork(t, clock, 9).Load()

	sample := nodes.SampleHealthyNodeIndexes()
	require.Len(t, sample, 3)
	seen := map[int]bool{}
	for _, i := range sample {
		require.False(t, seen[i], "duplicate index %d", i)
		seen[i] = true
	}

	for i := 0; i < 9; i++ {
		nodes.MarkNodeUnhealthy(i)
	}
	require.Empty(t, nodes.SampleHealthyNodeIndexes())
}

func TestRandomNodeIDsFallsBackToAll(t *testing.T) {
	clock := newClock()
	nodes := testNetwork(t, clock, 6).Load()
	for i := 0; i < 6; i++ {
		nodes.MarkNodeUnhealthy(i)
	}

	ids := nodes.RandomNodeIDs()
	require.Len(t, ids, 2)
	for _, id := range ids {
		_, ok := nodes.lookup(id)
		require.True(t, ok)
	}
}

func TestNodeIndexesForIDs(t *testing.T) {
	nodes := testNetwork(t, newClock(), 3).Load()

	withChecksum := hedera.NewAccountID(5)
	withChecksum.Checksum = "abcde"
	indexes, err := nodes.NodeIndexesForIDs([]hedera.AccountID{withChecksum, hedera.NewAccountID(3)})
	require.NoError(t, err)
	require.Equal(t, []int{2, 0}, indexes)

	_, err = nodes.NodeIndexesForIDs([]hedera.AccountID{hedera.NewAccountID(99)})
	require.ErrorIs(t, err, errors.NodeAccountUnknown)
}

func TestSetNodesKeepsHealth(t *testing.T) {
	clock := newClock()
	n := testNetwork(t, clock, 3)
	n.Load().MarkNodeUnhealthy(1)

	// Drop node 3, keep node 4
	require.NoError(t, n.SetNodes([]Node{testNode(4), testNode(7)}))
	nodes := n.Load()
	require.Equal(t, []hedera.AccountID{hedera.NewAccountID(4), hedera.NewAccountID(7)}, nodes.NodeIDs())
	require.Equal(t, HealthUnhealthy, nodes.Health(0))
	require.Equal(t, HealthUnused, nodes.Health(1))
}

func TestConcurrentHealth(t *testing.T) {
	var table []Node
	for i := 0; i < 6; i++ {
		table = append(table, testNode(uint64(3+i)))
	}
	n, err := New(table)
	require.NoError(t, err)

	var g errgroup.Group
	for w := 0; w < 8; w++ {
		g.Go(func() error {
			for i := 0; i < 200; i++ {
				nodes := n.Load()
				j := (w + i) % nodes.Len()
				if i%2 == 0 {
					nodes.MarkNodeUnhealthy(j)
				} else {
					nodes.MarkNodeHealthy(j)
				}
				for _, k := range nodes.SampleHealthyNodeIndexes() {
					if k < 0 || k >= nodes.Len() {
						return fmt.Errorf("sampled node %d of %d", k, nodes.Len())
					}
				}
				if len(nodes.RandomNodeIDs()) == 0 {
					return fmt.Errorf("no nodes sampled")
				}
				if w == 0 && i%20 == 0 {
					err := n.SetNodes(table)
					if err != nil {
						return err
					}
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// A node marked unhealthy by one request is skipped by the next, even
	// through a different snapshot of the table
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n.Load().Len(); i++ {
			n.Load().MarkNodeUnhealthy(i)
		}
	}()
	wg.Wait()
	require.Empty(t, n.Load().HealthyNodeIndexes())
	require.Nil(t, n.Load().SampleHealthyNodeIndexes())
}

func TestSetNodesRejectsDuplicates(t *testing.T) {
	n := testNetwork(t, newClock(), 1)
	err := n.SetNodes([]Node{testNode(3), testNode(3)})
	require.ErrorIs(t, err, errors.BadRequest)
}

func TestChannelDialsOnce(t *testing.T) {
	var dialed int
	dial := func(addrs []multiaddr.Multiaddr) (Channel, error) {
		dialed++
		return nopChannel(), nil
	}

	node := Node{AccountID: hedera.NewAccountID(3), Addresses: []multiaddr.Multiaddr{mustAddr(t, "/ip4/127.0.0.1/tcp/50211")}}
	n, err := New([]Node{node}, WithDialer(dial))
	require.NoError(t, err)

	nodes := n.Load()
	_, err = nodes.Channel(0)
	require.NoError(t, err)
	_, err = nodes.Channel(0)
	require.NoError(t, err)
	require.Equal(t, 1, dialed)

	// Same addresses, same connection
	require.NoError(t, n.SetNodes([]Node{node}))
	_, err = n.Load().Channel(0)
	require.NoError(t, err)
	require.Equal(t, 1, dialed)
}

func TestCloseAfterFailedDial(t *testing.T) {
	// No TCP port, so the gRPC dialer fails
	node := Node{AccountID: hedera.NewAccountID(3), Addresses: []multiaddr.Multiaddr{mustAddr(t, "/ip4/127.0.0.1/udp/50211")}}
	n, err := New([]Node{node})
	require.NoError(t, err)

	_, err = n.Load().Channel(0)
	require.ErrorIs(t, err, errors.BadRequest)
	require.NoError(t, n.Close())
}

func TestForAddresses(t *testing.T) {
	n, err := ForAddresses(map[string]hedera.AccountID{
		"127.0.0.1:50211":     hedera.NewAccountID(4),
		"127.0.0.2:50211":     hedera.NewAccountID(3),
		"node.example.com":    hedera.NewAccountID(3),
		"/ip4/10.0.0.1/tcp/1": hedera.NewAccountID(5),
	}, WithDialer(func([]multiaddr.Multiaddr) (Channel, error) { return nopChannel(), nil }))
	require.NoError(t, err)

	nodes := n.Load()
	require.Equal(t, []hedera.AccountID{hedera.NewAccountID(3), hedera.NewAccountID(4), hedera.NewAccountID(5)}, nodes.NodeIDs())
	require.Len(t, nodes.Addresses(0), 2)

	hp, err := HostPort(nodes.Addresses(2)[0])
	require.NoError(t, err)
	require.Equal(t, "10.0.0.1:1", hp)
}

func TestParseAddress(t *testing.T) {
	cases := map[string]string{
		"127.0.0.1:50211":           "/ip4/127.0.0.1/tcp/50211",
		"127.0.0.1":                 "/ip4/127.0.0.1/tcp/50211",
		"0.testnet.hedera.com":      "/dns/0.testnet.hedera.com/tcp/50211",
		"[::1]:5000":                "/ip6/::1/tcp/5000",
		"/dns4/example.com/tcp/443": "/dns4/example.com/tcp/443",
	}
	for input, expect := range cases {
		addr, err := ParseAddress(input)
		require.NoError(t, err, input)
		require.Equal(t, expect, addr.String(), input)
	}

	_, err := ParseAddress("host:port")
	require.ErrorIs(t, err, errors.ParseError)
}

func TestStaticNetworks(t *testing.T) {
	for _, name := range []string{"mainnet", "testnet", "previewnet"} {
		table, mirror, ledger, err := Named(name)
		require.NoError(t, err)
		require.NotEmpty(t, mirror)
		require.Equal(t, name, ledger.String())

		nodes, err := StaticNodes(table)
		require.NoError(t, err)
		require.Equal(t, uint64(3), nodes[0].AccountID.Num)
		for _, node := range nodes {
			require.NotEmpty(t, node.Addresses)
		}
	}

	_, _, _, err := Named("devnet")
	require.ErrorIs(t, err, errors.BadRequest)
}

func TestClassifyError(t *testing.T) {
	require.Equal(t, ErrorNodeUnavailable, ClassifyError(status.Error(codes.Unavailable, "")))
	require.Equal(t, ErrorNodeUnavailable, ClassifyError(status.Error(codes.ResourceExhausted, "")))
	require.Equal(t, ErrorFatal, ClassifyError(status.Error(codes.InvalidArgument, "")))
	require.Equal(t, ErrorFatal, ClassifyError(context.Canceled))

	require.ErrorIs(t, WrapError(status.Error(codes.Unavailable, "")), errors.NodeUnavailable)
	require.ErrorIs(t, WrapError(status.Error(codes.Internal, "")), errors.TransportError)
}

func TestRawCodec(t *testing.T) {
	c := rawCodec{}
	b, err := c.Marshal([]byte{1, 2})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, b)

	var out []byte
	require.NoError(t, c.Unmarshal([]byte{3}, &out))
	require.Equal(t, []byte{3}, out)

	_, err = c.Marshal("x")
	require.ErrorIs(t, err, errors.InternalError)
}
