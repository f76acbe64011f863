// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package hedera

import (
	"fmt"
	"strings"
)

// Hbar is an amount of hbar, stored as tinybars.
type Hbar int64

// TinybarsPerHbar is the number of tinybars in one hbar.
const TinybarsPerHbar = 100_000_000

// NewHbar returns an amount of whole hbar.
func NewHbar(hbar int64) Hbar { return Hbar(hbar * TinybarsPerHbar) }

// Tinybars returns an amount of tinybars.
func Tinybars(tinybars int64) Hbar { return Hbar(tinybars) }

// AsTinybars returns the amount in tinybars.
func (h Hbar) AsTinybars() int64 { return int64(h) }

func (h Hbar) String() string {
	if h%TinybarsPerHbar == 0 {
		return fmt.Sprintf("%d ℏ", int64(h)/TinybarsPerHbar)
	}
	neg := h < 0
	if neg {
		h = -h
	}
	s := fmt.Sprintf("%d.%08d", int64(h)/TinybarsPerHbar, int64(h)%TinybarsPerHbar)
	s = strings.TrimRight(s, "0")
	if neg {
		s = "-" + s
	}
	return s + " ℏ"
}
