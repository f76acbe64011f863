// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package hedera

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
)

// LedgerID identifies a ledger (mainnet, testnet, previewnet, or another).
type LedgerID []byte

var (
	Mainnet    = LedgerID{0}
	Testnet    = LedgerID{1}
	Previewnet = LedgerID{2}
)

// ParseLedgerID parses a ledger name or a hex-encoded ledger ID.
func ParseLedgerID(s string) (LedgerID, error) {
	switch strings.ToLower(s) {
	case "mainnet":
		return Mainnet, nil
	case "testnet":
		return Testnet, nil
	case "previewnet":
		return Previewnet, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.ParseError.WithFormat("invalid ledger ID %q: %w", s, err)
	}
	return b, nil
}

// Equal returns true if the ledger IDs are the same.
func (l LedgerID) Equal(m LedgerID) bool { return bytes.Equal(l, m) }

func (l LedgerID) String() string {
	switch {
	case l.Equal(Mainnet):
		return "mainnet"
	case l.Equal(Testnet):
		return "testnet"
	case l.Equal(Previewnet):
		return "previewnet"
	}
	return hex.EncodeToString(l)
}
