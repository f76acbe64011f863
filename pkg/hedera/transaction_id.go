// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package hedera

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
)

// TransactionID identifies a transaction. Two transaction IDs are equal if
// all four fields are equal.
type TransactionID struct {
	AccountID  AccountID
	ValidStart time.Time
	Nonce      *int32
	Scheduled  bool
}

// GenerateTransactionID generates a transaction ID for the account. The valid
// start is backdated by a random 5 to 8 seconds so that nodes with a clock
// slightly behind ours do not reject it.
func GenerateTransactionID(account AccountID) TransactionID {
	jitter := 5*time.Second + rand.N(3*time.Second)
	return TransactionID{
		AccountID:  account,
		ValidStart: time.Now().Add(-jitter).UTC(),
	}
}

// Equal returns true if the transaction IDs are the same.
func (id TransactionID) Equal(o TransactionID) bool {
	if id.AccountID.WithoutChecksum() != o.AccountID.WithoutChecksum() ||
		!id.ValidStart.Equal(o.ValidStart) ||
		id.Scheduled != o.Scheduled {
		return false
	}
	switch {
	case id.Nonce == nil && o.Nonce == nil:
		return true
	case id.Nonce == nil || o.Nonce == nil:
		return false
	default:
		return *id.Nonce == *o.Nonce
	}
}

// Key returns a comparable representation of the transaction ID, suitable for
// use as a map key.
func (id TransactionID) Key() string { return id.String() }

func (id TransactionID) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v@%d.%09d", id.AccountID, id.ValidStart.Unix(), id.ValidStart.Nanosecond())
	if id.Scheduled {
		b.WriteString("?scheduled")
	}
	if id.Nonce != nil {
		fmt.Fprintf(&b, "/%d", *id.Nonce)
	}
	return b.String()
}

// ParseTransactionID parses `account@secs.nanos[?scheduled][/nonce]` or the
// mirror node form `account-secs-nanos`.
func ParseTransactionID(s string) (TransactionID, error) {
	var id TransactionID

	account, rest, ok := strings.Cut(s, "@")
	if !ok {
		return parseMirrorTransactionID(s)
	}

	var err error
	id.AccountID, err = ParseAccountID(account)
	if err != nil {
		return id, err
	}

	if before, nonce, ok := strings.Cut(rest, "/"); ok {
		n, err := strconv.ParseInt(nonce, 10, 32)
		if err != nil {
			return id, errors.ParseError.WithFormat("invalid transaction ID %q: bad nonce: %w", s, err)
		}
		n32 := int32(n)
		id.Nonce = &n32
		rest = before
	}

	if before, ok := strings.CutSuffix(rest, "?scheduled"); ok {
		id.Scheduled = true
		rest = before
	}

	secs, nanos, ok := strings.Cut(rest, ".")
	if !ok {
		return id, errors.ParseError.WithFormat("invalid transaction ID %q: expected secs.nanos", s)
	}
	id.ValidStart, err = parseTimestamp(secs, nanos)
	if err != nil {
		return id, errors.ParseError.WithFormat("invalid transaction ID %q: %w", s, err)
	}
	return id, nil
}

func parseMirrorTransactionID(s string) (TransactionID, error) {
	var id TransactionID
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return id, errors.ParseError.WithFormat("invalid transaction ID %q: expected account@secs.nanos or account-secs-nanos", s)
	}

	var err error
	id.AccountID, err = ParseAccountID(parts[0])
	if err != nil {
		return id, err
	}
	id.ValidStart, err = parseTimestamp(parts[1], parts[2])
	if err != nil {
		return id, errors.ParseError.WithFormat("invalid transaction ID %q: %w", s, err)
	}
	return id, nil
}

func parseTimestamp(secs, nanos string) (time.Time, error) {
	s, err := strconv.ParseInt(secs, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(s, n).UTC(), nil
}
