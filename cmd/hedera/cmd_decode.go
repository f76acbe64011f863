// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/transaction"
)

var cmdDecode = &cobra.Command{
	Use:   "decode [hex]",
	Short: "Decode a signed transaction",
	Long:  "Decode a hex-encoded signed transaction, such as the output of submit-message --print. If the argument is '-' or omitted, it is read from stdin.",
	Args:  cobra.MaximumNArgs(1),
	Run:   decode,
}

func init() {
	cmdMain.AddCommand(cmdDecode)
}

type decodedTransaction struct {
	Method        string            `yaml:"method"`
	TransactionID string            `yaml:"transactionId"`
	Nodes         []string          `yaml:"nodes"`
	Memo          string            `yaml:"memo,omitempty"`
	MaxFee        string            `yaml:"maxFee"`
	ValidDuration string            `yaml:"validDuration"`
	Chunks        int               `yaml:"chunks"`
	Signatures    map[string]int    `yaml:"signatures"`
	Hashes        map[string]string `yaml:"hashes"`
}

func decode(_ *cobra.Command, args []string) {
	var s string
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(os.Stdin)
		checkf(err, "read stdin")
		s = string(b)
	} else {
		s = args[0]
	}

	b, err := hex.DecodeString(strings.TrimSpace(s))
	checkf(err, "decode hex")

	tx, err := transaction.FromBytes(b)
	check(err)

	sources, err := tx.Sources()
	check(err)
	hashes, err := tx.TransactionHashPerNode()
	check(err)

	out := decodedTransaction{
		Method:        tx.Data().Method(),
		TransactionID: tx.TransactionID().String(),
		Memo:          tx.TransactionMemo(),
		MaxFee:        tx.MaxTransactionFee().String(),
		ValidDuration: tx.TransactionValidDuration().String(),
		Chunks:        sources.Chunks(),
		Signatures:    map[string]int{},
		Hashes:        map[string]string{},
	}
	for i, node := range sources.NodeIDs() {
		out.Nodes = append(out.Nodes, node.String())
		if sigs := sources.Signed(0, i).SigMap; sigs != nil {
			out.Signatures[node.String()] = len(sigs.SigPair)
		}
		out.Hashes[node.String()] = hashes[node].String()
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	check(enc.Encode(out))
}
