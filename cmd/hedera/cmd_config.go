// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client"
)

var cmdConfig = &cobra.Command{
	Use:   "config",
	Short: "Print the effective client configuration",
	Args:  cobra.NoArgs,
	Run:   printConfig,
}

var flagConfig struct {
	Format  string
	ShowKey bool
}

func init() {
	cmdMain.AddCommand(cmdConfig)
	cmdConfig.Flags().StringVarP(&flagConfig.Format, "format", "f", "yaml", "Output format (yaml, json, or toml)")
	cmdConfig.Flags().BoolVar(&flagConfig.ShowKey, "show-key", false, "Include the operator's private key")
}

func printConfig(*cobra.Command, []string) {
	cfg := loadConfig()
	check(cfg.Validate())
	if cfg.Operator != nil && !flagConfig.ShowKey {
		op := *cfg.Operator
		op.PrivateKey = "<redacted>"
		cfg.Operator = &op
	}
	b, err := formatConfig(cfg, flagConfig.Format)
	check(err)
	_, _ = os.Stdout.Write(b)
}

func formatConfig(cfg *client.Config, format string) ([]byte, error) {
	switch format {
	case "yaml", "yml":
		return yaml.Marshal(cfg)

	case "json":
		b, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil

	case "toml":
		// Go through YAML so the network fields are encoded by their
		// marshallers
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, err
		}
		var m map[string]interface{}
		err = yaml.Unmarshal(b, &m)
		if err != nil {
			return nil, err
		}
		tree, err := toml.TreeFromMap(m)
		if err != nil {
			return nil, err
		}
		s, err := tree.ToTomlString()
		if err != nil {
			return nil, err
		}
		return []byte(s), nil

	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
