// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package keys

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
)

func TestSignVerify(t *testing.T) {
	for _, generate := range []func() (PrivateKey, error){GenerateED25519, GenerateECDSA} {
		sk, err := generate()
		require.NoError(t, err)
		t.Run(sk.Type().String(), func(t *testing.T) {
			message := []byte("hello")
			sig, err := sk.Sign(message)
			require.NoError(t, err)

			pk := sk.PublicKey()
			require.True(t, pk.Verify(message, sig))
			require.False(t, pk.Verify([]byte("goodbye"), sig))

			other, err := generate()
			require.NoError(t, err)
			require.False(t, other.PublicKey().Verify(message, sig))
		})
	}
}

func TestPrivateKeyString(t *testing.T) {
	for _, generate := range []func() (PrivateKey, error){GenerateED25519, GenerateECDSA} {
		sk, err := generate()
		require.NoError(t, err)
		t.Run(sk.Type().String(), func(t *testing.T) {
			parsed, err := ParsePrivateKey(sk.String())
			require.NoError(t, err)
			require.Equal(t, sk.Type(), parsed.Type())
			require.Equal(t, sk.Bytes(), parsed.Bytes())
			require.True(t, sk.PublicKey().Equal(parsed.PublicKey()))
		})
	}
}

func TestPublicKeyString(t *testing.T) {
	for _, generate := range []func() (PrivateKey, error){GenerateED25519, GenerateECDSA} {
		sk, err := generate()
		require.NoError(t, err)
		pk := sk.PublicKey()
		t.Run(pk.Type().String(), func(t *testing.T) {
			parsed, err := ParsePublicKey(pk.String())
			require.NoError(t, err)
			require.True(t, pk.Equal(parsed))

			raw, err := PublicKeyFromBytes(pk.Bytes())
			require.NoError(t, err)
			require.True(t, pk.Equal(raw))
		})
	}
}

func TestED25519FromSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{1}, 32)
	a, err := ED25519FromSeed(seed)
	require.NoError(t, err)
	b, err := ParsePrivateKey("0x0101010101010101010101010101010101010101010101010101010101010101")
	require.NoError(t, err)
	require.True(t, a.PublicKey().Equal(b.PublicKey()))
	require.Equal(t, seed, a.Bytes())

	_, err = ED25519FromSeed(seed[:31])
	require.ErrorIs(t, err, errors.ParseError)
}

func TestParseInvalidKeys(t *testing.T) {
	_, err := ParsePrivateKey("not hex")
	require.ErrorIs(t, err, errors.ParseError)

	_, err = ParsePrivateKey("0102")
	require.ErrorIs(t, err, errors.ParseError)

	_, err = PublicKeyFromBytes(make([]byte, 20))
	require.ErrorIs(t, err, errors.ParseError)

	// 33 bytes that are not a point on the curve
	_, err = PublicKeyFromBytes(append([]byte{5}, make([]byte, 32)...))
	require.ErrorIs(t, err, errors.ParseError)
}

func TestKeyTypesDiffer(t *testing.T) {
	ed, err := GenerateED25519()
	require.NoError(t, err)
	ec, err := GenerateECDSA()
	require.NoError(t, err)
	require.False(t, ed.PublicKey().Equal(ec.PublicKey()))
	require.Len(t, ed.PublicKey().Bytes(), 32)
	require.Len(t, ec.PublicKey().Bytes(), 33)
}
