// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hashgraph/hedera-sdk-go-exec/cmd/internal"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/query"
)

var cmdBalance = &cobra.Command{
	Use:   "balance [account ID]",
	Short: "Get the balance of an account",
	Args:  cobra.ExactArgs(1),
	Run:   balance,
}

var cmdReceipt = &cobra.Command{
	Use:   "receipt [transaction ID]",
	Short: "Get the receipt of a transaction",
	Args:  cobra.ExactArgs(1),
	Run:   receipt,
}

var flagQuery struct {
	Nodes internal.AccountIDSliceFlag
}

func init() {
	cmdMain.AddCommand(cmdBalance, cmdReceipt)
	cmdBalance.Flags().Var(&flagQuery.Nodes, "node", "Send the query to these nodes")
	cmdReceipt.Flags().Var(&flagQuery.Nodes, "node", "Send the query to these nodes")
}

func balance(_ *cobra.Command, args []string) {
	id, err := hedera.ParseAccountID(args[0])
	checkf(err, "account")

	c := newClient()
	defer c.Close()

	ctx, cancel := contextForMain()
	defer cancel()

	q := query.NewAccountBalanceQuery(id)
	if len(flagQuery.Nodes) > 0 {
		q.SetNodeAccountIDs(flagQuery.Nodes...)
	}
	bal, err := q.Execute(ctx, c)
	check(err)

	fmt.Printf("%v\t%v (%s tinybars)\n", bal.AccountID, bal.Hbars, humanize.Comma(bal.Hbars.AsTinybars()))
}

func receipt(_ *cobra.Command, args []string) {
	id, err := hedera.ParseTransactionID(args[0])
	checkf(err, "transaction ID")

	c := newClient()
	defer c.Close()

	ctx, cancel := contextForMain()
	defer cancel()

	q := query.NewTransactionReceiptQuery(id)
	if len(flagQuery.Nodes) > 0 {
		q.SetNodeAccountIDs(flagQuery.Nodes...)
	}
	r, err := q.Execute(ctx, c)
	check(err)
	printReceipt(id, r)
}

func printReceipt(id hedera.TransactionID, r hedera.TransactionReceipt) {
	status := color.GreenString("%v", r.Status)
	if r.Status != hedera.ResponseCodeSuccess {
		status = color.RedString("%v", r.Status)
	}
	fmt.Printf("%v\t%s\n", id, status)

	switch {
	case r.AccountID != nil:
		fmt.Printf("  Account\t%v\n", r.AccountID)
	case r.FileID != nil:
		fmt.Printf("  File\t%v\n", r.FileID)
	case r.TopicID != nil:
		fmt.Printf("  Topic\t%v\n", r.TopicID)
	}
	if r.TopicSequenceNumber > 0 {
		fmt.Printf("  Sequence\t%s\n", humanize.Comma(int64(r.TopicSequenceNumber)))
	}
}
