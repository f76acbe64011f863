// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package transaction

import (
	"crypto/sha512"
	"encoding/hex"
)

// Hash is the SHA-384 hash of a signed transaction. Explorers and mirror
// nodes identify transactions by it.
type Hash [sha512.Size384]byte

// HashOf hashes encoded signed transaction bytes.
func HashOf(signedTransactionBytes []byte) Hash {
	return sha512.Sum384(signedTransactionBytes)
}

func (h Hash) String() string { return hex.EncodeToString(h[:]) }
