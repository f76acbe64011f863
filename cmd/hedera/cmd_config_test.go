// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client"
)

func TestFormatConfig(t *testing.T) {
	cfg := new(client.Config)
	cfg.Network.Name = "testnet"
	cfg.MaxAttempts = 5

	for _, format := range []string{"yaml", "json", "toml"} {
		t.Run(format, func(t *testing.T) {
			b, err := formatConfig(cfg, format)
			require.NoError(t, err)

			parsed, err := client.ParseConfig(format, b)
			require.NoError(t, err)
			require.Equal(t, "testnet", parsed.Network.Name)
			require.Equal(t, 5, parsed.MaxAttempts)
		})
	}

	_, err := formatConfig(cfg, "xml")
	require.Error(t, err)
}

func TestFormatConfigNodes(t *testing.T) {
	cfg := new(client.Config)
	cfg.Network.Nodes = map[string]string{"127.0.0.1:50211": "0.0.3"}

	b, err := formatConfig(cfg, "yaml")
	require.NoError(t, err)

	parsed, err := client.ParseConfig("yaml", b)
	require.NoError(t, err)
	require.Equal(t, cfg.Network.Nodes, parsed.Network.Nodes)
}
