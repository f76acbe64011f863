// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
)

var cmdPing = &cobra.Command{
	Use:   "ping [node account IDs...]",
	Short: "Check that nodes respond",
	Long:  "Check that nodes respond. With no arguments, every node of the network is checked.",
	Run:   ping,
}

var cmdPingAll = &cobra.Command{
	Use:   "ping-all",
	Short: "Check that every node responds, concurrently",
	Args:  cobra.NoArgs,
	Run:   pingAll,
}

func init() {
	cmdMain.AddCommand(cmdPing, cmdPingAll)
}

func pingAll(*cobra.Command, []string) {
	c := newClient()
	defer c.Close()

	ctx, cancel := contextForMain()
	defer cancel()

	start := time.Now()
	check(c.PingAll(ctx))
	fmt.Printf("%d nodes %s in %v\n", c.Nodes().Len(), color.GreenString("up"), time.Since(start).Round(time.Millisecond))
}

func ping(_ *cobra.Command, args []string) {
	c := newClient()
	defer c.Close()

	ctx, cancel := contextForMain()
	defer cancel()

	nodes := make([]hedera.AccountID, len(args))
	for i, arg := range args {
		id, err := hedera.ParseAccountID(arg)
		checkf(err, "node %q", arg)
		nodes[i] = id
	}
	if len(nodes) == 0 {
		for _, id := range c.Network() {
			nodes = append(nodes, id)
		}
	}

	var failed bool
	for _, node := range uniqueNodes(nodes) {
		start := time.Now()
		err := c.Ping(ctx, node)
		if err != nil {
			failed = true
			fmt.Printf("%v\t%s\t%v\n", node, color.RedString("down"), err)
			continue
		}
		fmt.Printf("%v\t%s\t%v\n", node, color.GreenString("up"), time.Since(start).Round(time.Millisecond))
	}
	if failed {
		fatalf("one or more nodes did not respond")
	}
}

func uniqueNodes(nodes []hedera.AccountID) []hedera.AccountID {
	seen := map[hedera.AccountID]bool{}
	var unique []hedera.AccountID
	for _, n := range nodes {
		if !seen[n] {
			seen[n] = true
			unique = append(unique, n)
		}
	}
	slices.SortFunc(unique, func(a, b hedera.AccountID) int { return a.Compare(b.EntityID) })
	return unique
}
