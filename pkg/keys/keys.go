// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package keys implements the ED25519 and ECDSA (secp256k1) keys used to sign
// transactions.
package keys

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"strings"

	eth "github.com/ethereum/go-ethereum/crypto"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
)

// KeyType is the signature algorithm of a key.
type KeyType int

const (
	ED25519 KeyType = iota + 1
	ECDSASecp256k1
)

func (t KeyType) String() string {
	switch t {
	case ED25519:
		return "ed25519"
	case ECDSASecp256k1:
		return "ecdsaSecp256k1"
	}
	return "unknown"
}

var (
	derPrefixED25519Private = mustHex("302e020100300506032b657004220420")
	derPrefixED25519Public  = mustHex("302a300506032b6570032100")
	derPrefixECDSAPrivate   = mustHex("3030020100300706052b8104000a04220420")
	derPrefixECDSAPublic    = mustHex("302d300706052b8104000a032200")
)

// PrivateKey is an ED25519 or ECDSA (secp256k1) private key.
type PrivateKey struct {
	typ KeyType
	ed  ed25519.PrivateKey
	ec  *ecdsa.PrivateKey
}

// GenerateED25519 generates a new ED25519 private key.
func GenerateED25519() (PrivateKey, error) {
	_, sk, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return PrivateKey{}, errors.InternalError.WithFormat("generate key: %w", err)
	}
	return PrivateKey{typ: ED25519, ed: sk}, nil
}

// GenerateECDSA generates a new ECDSA (secp256k1) private key.
func GenerateECDSA() (PrivateKey, error) {
	sk, err := eth.GenerateKey()
	if err != nil {
		return PrivateKey{}, errors.InternalError.WithFormat("generate key: %w", err)
	}
	return PrivateKey{typ: ECDSASecp256k1, ec: sk}, nil
}

// ED25519FromSeed returns the ED25519 private key for a 32 byte seed.
func ED25519FromSeed(seed []byte) (PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return PrivateKey{}, errors.ParseError.WithFormat("invalid ed25519 seed length %d", len(seed))
	}
	return PrivateKey{typ: ED25519, ed: ed25519.NewKeyFromSeed(seed)}, nil
}

// ECDSAFromBytes returns the ECDSA private key for a 32 byte scalar.
func ECDSAFromBytes(b []byte) (PrivateKey, error) {
	sk, err := eth.ToECDSA(b)
	if err != nil {
		return PrivateKey{}, errors.ParseError.WithFormat("invalid ecdsa key: %w", err)
	}
	return PrivateKey{typ: ECDSASecp256k1, ec: sk}, nil
}

// ParsePrivateKey parses a hex encoded private key. DER encoded keys are
// recognized by their prefix; raw 32 or 64 byte keys are assumed to be
// ED25519.
func ParsePrivateKey(s string) (PrivateKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return PrivateKey{}, errors.ParseError.WithFormat("invalid private key: %w", err)
	}

	switch {
	case bytes.HasPrefix(b, derPrefixED25519Private):
		return ED25519FromSeed(b[len(derPrefixED25519Private):])
	case bytes.HasPrefix(b, derPrefixECDSAPrivate):
		return ECDSAFromBytes(b[len(derPrefixECDSAPrivate):])
	case len(b) == ed25519.SeedSize:
		return ED25519FromSeed(b)
	case len(b) == ed25519.PrivateKeySize:
		return ED25519FromSeed(b[:ed25519.SeedSize])
	}
	return PrivateKey{}, errors.ParseError.WithFormat("invalid private key: unrecognized encoding of %d bytes", len(b))
}

// Type returns the algorithm of the key.
func (k PrivateKey) Type() KeyType { return k.typ }

// PublicKey returns the public key.
func (k PrivateKey) PublicKey() PublicKey {
	switch k.typ {
	case ED25519:
		return PublicKey{typ: ED25519, raw: k.ed.Public().(ed25519.PublicKey)}
	case ECDSASecp256k1:
		return PublicKey{typ: ECDSASecp256k1, raw: eth.CompressPubkey(&k.ec.PublicKey)}
	}
	return PublicKey{}
}

// Sign signs the message. ECDSA signatures are over the keccak256 hash of the
// message and are returned as r || s.
func (k PrivateKey) Sign(message []byte) ([]byte, error) {
	switch k.typ {
	case ED25519:
		return ed25519.Sign(k.ed, message), nil
	case ECDSASecp256k1:
		sig, err := eth.Sign(eth.Keccak256(message), k.ec)
		if err != nil {
			return nil, errors.InternalError.WithFormat("sign: %w", err)
		}
		return sig[:64], nil
	}
	return nil, errors.BadRequest.With("invalid private key")
}

// Bytes returns the raw key bytes (the seed for ED25519).
func (k PrivateKey) Bytes() []byte {
	switch k.typ {
	case ED25519:
		return k.ed.Seed()
	case ECDSASecp256k1:
		return eth.FromECDSA(k.ec)
	}
	return nil
}

// String returns the hex encoded DER form of the key.
func (k PrivateKey) String() string {
	switch k.typ {
	case ED25519:
		return hex.EncodeToString(append(append([]byte{}, derPrefixED25519Private...), k.Bytes()...))
	case ECDSASecp256k1:
		return hex.EncodeToString(append(append([]byte{}, derPrefixECDSAPrivate...), k.Bytes()...))
	}
	return ""
}

// PublicKey is an ED25519 or ECDSA (secp256k1) public key. ECDSA keys are
// stored compressed.
type PublicKey struct {
	typ KeyType
	raw []byte
}

// ParsePublicKey parses a hex encoded public key. DER encoded keys are
// recognized by their prefix; raw 32 byte keys are ED25519 and raw 33 byte
// keys are compressed ECDSA.
func ParsePublicKey(s string) (PublicKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return PublicKey{}, errors.ParseError.WithFormat("invalid public key: %w", err)
	}
	return PublicKeyFromBytes(b)
}

// PublicKeyFromBytes decodes a raw or DER encoded public key.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	switch {
	case bytes.HasPrefix(b, derPrefixED25519Public):
		b = b[len(derPrefixED25519Public):]
	case bytes.HasPrefix(b, derPrefixECDSAPublic):
		b = b[len(derPrefixECDSAPublic):]
	}

	switch len(b) {
	case ed25519.PublicKeySize:
		return PublicKey{typ: ED25519, raw: bytes.Clone(b)}, nil
	case 33:
		if _, err := eth.DecompressPubkey(b); err != nil {
			return PublicKey{}, errors.ParseError.WithFormat("invalid ecdsa public key: %w", err)
		}
		return PublicKey{typ: ECDSASecp256k1, raw: bytes.Clone(b)}, nil
	}
	return PublicKey{}, errors.ParseError.WithFormat("invalid public key: unrecognized encoding of %d bytes", len(b))
}

// Type returns the algorithm of the key.
func (k PublicKey) Type() KeyType { return k.typ }

// Bytes returns the raw key (compressed for ECDSA).
func (k PublicKey) Bytes() []byte { return k.raw }

// Equal returns true if the keys are the same.
func (k PublicKey) Equal(o PublicKey) bool {
	return k.typ == o.typ && bytes.Equal(k.raw, o.raw)
}

// Verify checks a signature produced by [PrivateKey.Sign].
func (k PublicKey) Verify(message, signature []byte) bool {
	switch k.typ {
	case ED25519:
		return ed25519.Verify(k.raw, message, signature)
	case ECDSASecp256k1:
		if len(signature) != 64 {
			return false
		}
		return eth.VerifySignature(k.raw, eth.Keccak256(message), signature)
	}
	return false
}

// String returns the hex encoded DER form of the key.
func (k PublicKey) String() string {
	switch k.typ {
	case ED25519:
		return hex.EncodeToString(append(append([]byte{}, derPrefixED25519Public...), k.raw...))
	case ECDSASecp256k1:
		return hex.EncodeToString(append(append([]byte{}, derPrefixECDSAPublic...), k.raw...))
	}
	return ""
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
