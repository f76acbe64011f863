// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package network

import (
	"net"
	"strconv"
	"strings"

	"github.com/multiformats/go-multiaddr"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
)

// PlaintextPort is the port nodes serve unencrypted gRPC on.
const PlaintextPort = 50211

// ParseAddress parses a node address. It accepts a multiaddr, `host:port`, or
// a bare host (which gets [PlaintextPort]).
func ParseAddress(s string) (multiaddr.Multiaddr, error) {
	if strings.HasPrefix(s, "/") {
		addr, err := multiaddr.NewMultiaddr(s)
		if err != nil {
			return nil, errors.ParseError.WithFormat("invalid address %q: %w", s, err)
		}
		return addr, nil
	}

	host, port := s, PlaintextPort
	if h, p, err := net.SplitHostPort(s); err == nil {
		host = h
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, errors.ParseError.WithFormat("invalid address %q: bad port: %w", s, err)
		}
	}
	return hostAddress(host, port)
}

func hostAddress(host string, port int) (multiaddr.Multiaddr, error) {
	proto := "dns"
	if ip := net.ParseIP(host); ip != nil {
		proto = "ip6"
		if ip.To4() != nil {
			proto = "ip4"
		}
	}
	addr, err := multiaddr.NewMultiaddr("/" + proto + "/" + host + "/tcp/" + strconv.Itoa(port))
	if err != nil {
		return nil, errors.ParseError.WithFormat("invalid address %s:%d: %w", host, port, err)
	}
	return addr, nil
}

// HostPort returns the `host:port` form of a node address.
func HostPort(addr multiaddr.Multiaddr) (string, error) {
	var host string
	for _, code := range []int{multiaddr.P_IP4, multiaddr.P_IP6, multiaddr.P_DNS, multiaddr.P_DNS4, multiaddr.P_DNS6} {
		v, err := addr.ValueForProtocol(code)
		if err == nil {
			host = v
			break
		}
	}
	if host == "" {
		return "", errors.BadRequest.WithFormat("address %v has no host", addr)
	}

	port, err := addr.ValueForProtocol(multiaddr.P_TCP)
	if err != nil {
		return "", errors.BadRequest.WithFormat("address %v has no TCP port", addr)
	}
	return net.JoinHostPort(host, port), nil
}
