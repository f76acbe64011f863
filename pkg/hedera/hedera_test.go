// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package hedera

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
)

func TestChecksum(t *testing.T) {
	id := NewAccountID(123).EntityID
	require.Equal(t, "vfmkw", GenerateChecksum(id, Mainnet))
	require.Equal(t, "esxsf", GenerateChecksum(id, Testnet))
	require.Equal(t, "ogizo", GenerateChecksum(id, Previewnet))
	require.Equal(t, "0.0.123-esxsf", id.StringWithChecksum(Testnet))
}

func TestValidateChecksum(t *testing.T) {
	id, err := ParseAccountID("0.0.123-vfmkw")
	require.NoError(t, err)
	require.Equal(t, "vfmkw", id.Checksum)
	require.NoError(t, id.ValidateChecksum(Mainnet))

	err = id.ValidateChecksum(Testnet)
	require.ErrorIs(t, err, errors.BadEntityID)

	// Without a checksum, any ledger is fine
	require.NoError(t, id.WithoutChecksum().ValidateChecksum(Testnet))
	require.Equal(t, NewAccountID(123), id.WithoutChecksum())
}

func TestParseEntityID(t *testing.T) {
	cases := map[string]EntityID{
		"123":   {Num: 123},
		"1.2.3": {Shard: 1, Realm: 2, Num: 3},
	}
	for s, expected := range cases {
		id, err := ParseEntityID(s)
		require.NoError(t, err, s)
		require.Equal(t, expected, id, s)
	}

	for _, s := range []string{"", "1.2", "0.0.x", "0.0.1-ABCDE", "0.0.1-abc"} {
		_, err := ParseEntityID(s)
		require.ErrorIs(t, err, errors.ParseError, s)
	}
}

func TestEntityIDCompare(t *testing.T) {
	require.Negative(t, NewAccountID(3).Compare(NewAccountID(10).EntityID))
	require.Positive(t, EntityID{Shard: 1}.Compare(EntityID{Num: 99}))
	require.Zero(t, EntityID{Num: 5, Checksum: "abcde"}.Compare(EntityID{Num: 5}))
}

func TestTransactionIDString(t *testing.T) {
	nonce := int32(3)
	id := TransactionID{
		AccountID:  NewAccountID(1001),
		ValidStart: time.Unix(1700000000, 42).UTC(),
		Nonce:      &nonce,
		Scheduled:  true,
	}
	s := id.String()
	require.Equal(t, "0.0.1001@1700000000.000000042?scheduled/3", s)

	parsed, err := ParseTransactionID(s)
	require.NoError(t, err)
	require.True(t, id.Equal(parsed))
	require.Equal(t, id.Key(), parsed.Key())
}

func TestParseMirrorTransactionID(t *testing.T) {
	id, err := ParseTransactionID("0.0.1001-1700000000-42")
	require.NoError(t, err)
	require.Equal(t, "0.0.1001@1700000000.000000042", id.String())

	_, err = ParseTransactionID("0.0.1001@1700000000")
	require.ErrorIs(t, err, errors.ParseError)
}

func TestTransactionIDEqual(t *testing.T) {
	a := GenerateTransactionID(NewAccountID(1001))
	b := a
	require.True(t, a.Equal(b))

	nonce := int32(1)
	b.Nonce = &nonce
	require.False(t, a.Equal(b))

	b = a
	b.Scheduled = true
	require.False(t, a.Equal(b))

	// Checksums are not part of the identity
	b = a
	b.AccountID.Checksum = "esxsf"
	require.True(t, a.Equal(b))
}

func TestGenerateTransactionID(t *testing.T) {
	before := time.Now()
	id := GenerateTransactionID(NewAccountID(1001))
	after := time.Now()

	require.Equal(t, NewAccountID(1001), id.AccountID)
	require.False(t, id.ValidStart.After(after.Add(-5*time.Second)))
	require.False(t, id.ValidStart.Before(before.Add(-8*time.Second)))
}

func TestHbarString(t *testing.T) {
	require.Equal(t, "2 ℏ", NewHbar(2).String())
	require.Equal(t, "1.5 ℏ", Tinybars(150_000_000).String())
	require.Equal(t, "-0.00000001 ℏ", Tinybars(-1).String())
	require.Equal(t, int64(200_000_000), NewHbar(2).AsTinybars())
}

func TestLedgerID(t *testing.T) {
	for _, name := range []string{"mainnet", "testnet", "previewnet"} {
		id, err := ParseLedgerID(name)
		require.NoError(t, err)
		require.Equal(t, name, id.String())
	}

	id, err := ParseLedgerID("0a0b")
	require.NoError(t, err)
	require.Equal(t, LedgerID{10, 11}, id)
	require.Equal(t, "0a0b", id.String())

	_, err = ParseLedgerID("devnet")
	require.ErrorIs(t, err, errors.ParseError)
}

func TestReceiptValidateStatus(t *testing.T) {
	r := TransactionReceipt{Status: ResponseCodeSuccess}
	require.NoError(t, r.ValidateStatus(true))

	r.Status = ResponseCodeInvalidSignature
	require.NoError(t, r.ValidateStatus(false))

	err := errors.UnknownError.Wrap(r.ValidateStatus(true))
	require.ErrorIs(t, err, errors.ReceiptStatus)

	var target *ReceiptStatusError
	require.ErrorAs(t, err, &target)
	require.Equal(t, ResponseCodeInvalidSignature, target.Status)
}

func TestResponseCode(t *testing.T) {
	c, ok := ResponseCodeFromInt32(12)
	require.True(t, ok)
	require.Equal(t, "BUSY", c.String())

	_, ok = ResponseCodeFromInt32(-1)
	require.False(t, ok)
	require.Equal(t, "ResponseCode(-1)", ResponseCode(-1).String())

	c, ok = ResponseCodeByName("TRANSACTION_EXPIRED")
	require.True(t, ok)
	require.Equal(t, ResponseCodeTransactionExpired, c)
}
