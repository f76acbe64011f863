// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package signing

import (
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/keys"
)

// A Signer produces signatures for a public key.
type Signer interface {
	PublicKey() keys.PublicKey
	Sign(message []byte) ([]byte, error)
}

// PrivateKey signs with a private key.
type PrivateKey struct {
	Key keys.PrivateKey
}

var _ Signer = PrivateKey{}

// ForKey returns a signer for the private key.
func ForKey(key keys.PrivateKey) Signer { return PrivateKey{Key: key} }

func (s PrivateKey) PublicKey() keys.PublicKey           { return s.Key.PublicKey() }
func (s PrivateKey) Sign(message []byte) ([]byte, error) { return s.Key.Sign(message) }

// Func signs with an arbitrary function, such as a hardware wallet or a
// remote signing service.
type Func struct {
	Key    keys.PublicKey
	SignFn func([]byte) ([]byte, error)
}

var _ Signer = Func{}

func (s Func) PublicKey() keys.PublicKey           { return s.Key }
func (s Func) Sign(message []byte) ([]byte, error) { return s.SignFn(message) }

// Set is an ordered list of signers with at most one signer per public key.
type Set []Signer

// Add appends the signer unless a signer with the same public key is already
// present. Add returns false if the signer was not added.
func (s *Set) Add(signer Signer) bool {
	if s.Has(signer.PublicKey()) {
		return false
	}
	*s = append(*s, signer)
	return true
}

// Has returns true if the set has a signer for the key.
func (s Set) Has(key keys.PublicKey) bool {
	for _, t := range s {
		if t.PublicKey().Equal(key) {
			return true
		}
	}
	return false
}

// Copy returns a copy of the set.
func (s Set) Copy() Set {
	if s == nil {
		return nil
	}
	t := make(Set, len(s))
	copy(t, s)
	return t
}
