// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package hedera

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
)

// EntityID is the shard.realm.num triple shared by every ledger entity, plus
// the checksum it was parsed with, if any.
type EntityID struct {
	Shard    uint64
	Realm    uint64
	Num      uint64
	Checksum string
}

// ParseEntityID parses `num` or `shard.realm.num[-checksum]`.
func ParseEntityID(s string) (EntityID, error) {
	var id EntityID
	body, checksum, hasChecksum := strings.Cut(s, "-")
	if hasChecksum {
		if len(checksum) != 5 || strings.ToLower(checksum) != checksum {
			return id, errors.ParseError.WithFormat("invalid checksum %q: expected exactly 5 lowercase letters", checksum)
		}
		id.Checksum = checksum
	}

	parts := strings.Split(body, ".")
	switch len(parts) {
	case 1:
		num, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return id, errors.ParseError.WithFormat("invalid entity ID %q: %w", s, err)
		}
		id.Num = num
		return id, nil
	case 3:
	default:
		return id, errors.ParseError.WithFormat("invalid entity ID %q: expected shard.realm.num", s)
	}

	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return id, errors.ParseError.WithFormat("invalid entity ID %q: %w", s, err)
		}
		switch i {
		case 0:
			id.Shard = v
		case 1:
			id.Realm = v
		case 2:
			id.Num = v
		}
	}
	return id, nil
}

// Compare orders IDs by shard, realm, then number. The checksum is ignored.
func (id EntityID) Compare(o EntityID) int {
	if c := cmp.Compare(id.Shard, o.Shard); c != 0 {
		return c
	}
	if c := cmp.Compare(id.Realm, o.Realm); c != 0 {
		return c
	}
	return cmp.Compare(id.Num, o.Num)
}

func (id EntityID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Shard, id.Realm, id.Num)
}

// StringWithChecksum formats the ID with the checksum for the given ledger.
func (id EntityID) StringWithChecksum(ledger LedgerID) string {
	return id.String() + "-" + GenerateChecksum(id, ledger)
}

// WithoutChecksum returns the ID with the checksum cleared.
func (id EntityID) WithoutChecksum() EntityID {
	id.Checksum = ""
	return id
}

// ValidateChecksum returns an error if the ID was parsed with a checksum that
// does not belong to the given ledger. IDs without a checksum are valid.
func (id EntityID) ValidateChecksum(ledger LedgerID) error {
	if id.Checksum == "" {
		return nil
	}
	expected := GenerateChecksum(id, ledger)
	if expected != id.Checksum {
		return errors.BadEntityID.WithFormat("entity ID %v has checksum %s, expected %s for ledger %v", id, id.Checksum, expected, ledger)
	}
	return nil
}

// GenerateChecksum calculates the five letter checksum of the entity ID for
// the given ledger.
func GenerateChecksum(id EntityID, ledger LedgerID) string {
	const (
		p3     = 26 * 26 * 26
		p5     = 26 * 26 * 26 * 26 * 26
		m      = 1_000_003
		weight = 31
	)

	addr := id.String()

	// s is the weighted sum of all digits, with '.' counting as 10
	var s, sumEven, sumOdd uint64
	for i, c := range addr {
		d := uint64(10)
		if c != '.' {
			d = uint64(c - '0')
		}
		s = (weight*s + d) % p3
		if i%2 == 0 {
			sumEven = (sumEven + d) % 11
		} else {
			sumOdd = (sumOdd + d) % 11
		}
	}

	// sh is the hash of the ledger ID followed by six zero bytes
	var sh uint64
	for _, b := range append(append([]byte{}, ledger...), 0, 0, 0, 0, 0, 0) {
		sh = (weight*sh + uint64(b)) % p5
	}

	c := uint64(len(addr) % 5)
	c = c*11 + sumEven
	c = c*11 + sumOdd
	c = (c*p3 + s + sh) % p5
	c = (c * m) % p5

	var answer [5]byte
	for i := 4; i >= 0; i-- {
		answer[i] = 'a' + byte(c%26)
		c /= 26
	}
	return string(answer[:])
}

// AccountID identifies an account.
type AccountID struct{ EntityID }

// NewAccountID returns the account ID 0.0.num.
func NewAccountID(num uint64) AccountID {
	return AccountID{EntityID{Num: num}}
}

// ParseAccountID parses an account ID.
func ParseAccountID(s string) (AccountID, error) {
	id, err := ParseEntityID(s)
	return AccountID{id}, err
}

// WithoutChecksum returns the ID with the checksum cleared.
func (id AccountID) WithoutChecksum() AccountID {
	return AccountID{id.EntityID.WithoutChecksum()}
}

// TopicID identifies a consensus topic.
type TopicID struct{ EntityID }

// ParseTopicID parses a topic ID.
func ParseTopicID(s string) (TopicID, error) {
	id, err := ParseEntityID(s)
	return TopicID{id}, err
}

// FileID identifies a file.
type FileID struct{ EntityID }

// ParseFileID parses a file ID.
func ParseFileID(s string) (FileID, error) {
	id, err := ParseEntityID(s)
	return FileID{id}, err
}
