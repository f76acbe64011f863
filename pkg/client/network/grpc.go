// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package network

import (
	"context"
	"fmt"

	"github.com/multiformats/go-multiaddr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/resolver"
	"google.golang.org/grpc/resolver/manual"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
)

// GRPCChannel is a [Channel] backed by a gRPC client connection. Requests
// are balanced across all of the node's addresses.
type GRPCChannel struct {
	conn *grpc.ClientConn
}

var _ Channel = (*GRPCChannel)(nil)

// DialGRPC creates a channel for the given node addresses. The connection is
// established lazily by gRPC.
func DialGRPC(addrs []multiaddr.Multiaddr) (*GRPCChannel, error) {
	if len(addrs) == 0 {
		return nil, errors.BadRequest.With("no addresses")
	}

	state := resolver.State{}
	var names []string
	for _, addr := range addrs {
		hp, err := HostPort(addr)
		if err != nil {
			return nil, err
		}
		names = append(names, hp)
		state.Addresses = append(state.Addresses, resolver.Address{Addr: hp})
	}

	r := manual.NewBuilderWithScheme("hedera")
	r.InitialState(state)

	conn, err := grpc.NewClient(
		fmt.Sprintf("%s:///%s", r.Scheme(), names[0]),
		grpc.WithResolvers(r),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultServiceConfig(`{"loadBalancingConfig":[{"round_robin":{}}]}`),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(rawCodec{})),
	)
	if err != nil {
		return nil, errors.TransportError.WithFormat("dial %v: %w", names, err)
	}
	return &GRPCChannel{conn: conn}, nil
}

// Invoke implements [Channel.Invoke].
func (c *GRPCChannel) Invoke(ctx context.Context, method string, request []byte) ([]byte, error) {
	var response []byte
	err := c.conn.Invoke(ctx, method, request, &response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Close closes the connection.
func (c *GRPCChannel) Close() error {
	return c.conn.Close()
}

// rawCodec passes pre-encoded messages through unchanged.
type rawCodec struct{}

func (rawCodec) Name() string { return "proto" }

func (rawCodec) Marshal(v any) ([]byte, error) {
	switch v := v.(type) {
	case []byte:
		return v, nil
	case *[]byte:
		return *v, nil
	}
	return nil, errors.InternalError.WithFormat("raw codec cannot marshal %T", v)
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	p, ok := v.(*[]byte)
	if !ok {
		return errors.InternalError.WithFormat("raw codec cannot unmarshal into %T", v)
	}
	*p = append((*p)[:0], data...)
	return nil
}
