// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hashgraph/hedera-sdk-go-exec/internal/logging"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client"
)

var cmdMain = &cobra.Command{
	Use:   "hedera",
	Short: "Hedera network client",
	Run:   printUsageAndExit1,
}

var flagMain struct {
	Config      string
	Network     string
	OperatorID  string
	OperatorKey string
	LogLevel    string
	Timeout     time.Duration
}

// env reads settings from the command line and HEDERA_* variables, such as
// HEDERA_OPERATOR_ID for --operator-id.
var env = viper.NewWithOptions(viper.KeyDelimiter("|"))

func init() {
	flags := cmdMain.PersistentFlags()
	flags.StringVarP(&flagMain.Config, "config", "c", "", "Client configuration file (JSON, YAML, or TOML)")
	flags.StringVarP(&flagMain.Network, "network", "n", "testnet", "Network to connect to, if there is no configuration file")
	flags.StringVar(&flagMain.OperatorID, "operator-id", "", "Account that pays for transactions")
	flags.StringVar(&flagMain.OperatorKey, "operator-key", "", "Private key of the operator")
	flags.StringVar(&flagMain.LogLevel, "log-level", "error", "Log levels, such as 'info;execute=debug'")
	flags.DurationVarP(&flagMain.Timeout, "timeout", "t", 0, "Timeout for each request")

	env.SetEnvPrefix("HEDERA")
	env.AutomaticEnv()
	check(env.BindPFlag("config", flags.Lookup("config")))
	check(env.BindPFlag("network", flags.Lookup("network")))
	check(env.BindPFlag("operator-id", flags.Lookup("operator-id")))
	check(env.BindPFlag("operator-key", flags.Lookup("operator-key")))
	check(env.BindPFlag("log-level", flags.Lookup("log-level")))
	env.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

func main() {
	_ = cmdMain.Execute()
}

func printUsageAndExit1(cmd *cobra.Command, args []string) {
	_ = cmd.Usage()
	os.Exit(1)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, color.RedString("Error: ")+format+"\n", args...)
	os.Exit(1)
}

func check(err error) {
	if err != nil {
		fatalf("%v", err)
	}
}

func checkf(err error, format string, otherArgs ...interface{}) {
	if err != nil {
		fatalf(format+": %v", append(otherArgs, err)...)
	}
}

func newLogger() *slog.Logger {
	cfg, err := logging.ParseLevels(env.GetString("log-level"))
	checkf(err, "--log-level")
	h, err := logging.NewSlogHandler(cfg, logging.ConsoleSlogWriter(os.Stderr, !color.NoColor))
	check(err)
	return slog.New(h)
}

func loadConfig() *client.Config {
	if file := env.GetString("config"); file != "" {
		cfg, err := client.LoadConfig(file)
		check(err)
		return cfg
	}

	cfg := new(client.Config)
	cfg.Network.Name = env.GetString("network")
	id, key := env.GetString("operator-id"), env.GetString("operator-key")
	if id != "" || key != "" {
		cfg.Operator = &client.OperatorConfig{AccountID: id, PrivateKey: key}
	}
	return cfg
}

func newClient() *client.Client {
	c, err := client.FromConfig(loadConfig())
	check(err)
	c.SetLogger(newLogger())
	if flagMain.Timeout > 0 {
		c.SetRequestTimeout(flagMain.Timeout)
	}
	return c
}

func contextForMain() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
