// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hashgraph/hedera-sdk-go-exec/cmd/internal"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/transaction"
)

var cmdSubmitMessage = &cobra.Command{
	Use:   "submit-message [topic ID] [message]",
	Short: "Submit a message to a topic",
	Long:  "Submit a message to a topic. If the message is '-' or omitted, it is read from stdin. Large messages are split into chunks.",
	Args:  cobra.RangeArgs(1, 2),
	Run:   submitMessage,
}

var flagSubmit struct {
	Nodes     internal.AccountIDSliceFlag
	Memo      string
	MaxChunks int
	ChunkSize int
	Wait      bool
	Print     bool
}

func init() {
	cmdMain.AddCommand(cmdSubmitMessage)
	flags := cmdSubmitMessage.Flags()
	flags.Var(&flagSubmit.Nodes, "node", "Submit to these nodes")
	flags.StringVar(&flagSubmit.Memo, "memo", "", "Transaction memo")
	flags.IntVar(&flagSubmit.MaxChunks, "max-chunks", transaction.DefaultMaxChunks, "Maximum number of chunks")
	flags.IntVar(&flagSubmit.ChunkSize, "chunk-size", transaction.DefaultChunkSize, "Size of each chunk")
	flags.BoolVarP(&flagSubmit.Wait, "wait", "w", false, "Wait for the receipt of the last chunk")
	flags.BoolVar(&flagSubmit.Print, "print", false, "Print the signed transaction instead of submitting it")
}

func submitMessage(_ *cobra.Command, args []string) {
	topic, err := hedera.ParseTopicID(args[0])
	checkf(err, "topic")

	var message []byte
	if len(args) < 2 || args[1] == "-" {
		message, err = io.ReadAll(os.Stdin)
		checkf(err, "read message")
	} else {
		message = []byte(args[1])
	}

	c := newClient()
	defer c.Close()

	tx := transaction.NewTopicMessageSubmitTransaction(topic, message).
		SetMaxChunks(flagSubmit.MaxChunks).
		SetChunkSize(flagSubmit.ChunkSize).
		SetTransactionMemo(flagSubmit.Memo)
	if len(flagSubmit.Nodes) > 0 {
		tx.SetNodeAccountIDs(flagSubmit.Nodes...)
	}

	if flagSubmit.Print {
		check(tx.SignWithOperator(c))
		b, err := tx.ToBytes()
		check(err)
		fmt.Println(hex.EncodeToString(b))
		return
	}

	ctx, cancel := contextForMain()
	defer cancel()

	responses, err := tx.ExecuteAll(ctx, c)
	check(err)

	fmt.Printf("Submitted %s in %d chunk(s)\n", humanize.Bytes(uint64(len(message))), len(responses))
	for _, r := range responses {
		fmt.Printf("  %v\tnode %v\t%v\n", r.TransactionID, r.NodeID, r.Hash)
	}

	if !flagSubmit.Wait {
		return
	}
	last := responses[len(responses)-1]
	r, err := last.SetValidateStatus(false).GetReceipt(ctx, c)
	check(err)
	printReceipt(last.TransactionID, r)
}
