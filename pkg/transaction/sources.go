// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package transaction

import (
	"bytes"

	"golang.org/x/exp/slices"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/signing"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/proto"
)

// Sources is the signed wire form of a frozen transaction: one signed
// transaction per chunk and node, ordered by chunk and then by node. Every
// chunk has the same nodes in the same order. Sources is immutable; signing
// returns a new value.
type Sources struct {
	signed         []*proto.SignedTransaction
	transactionIDs []hedera.TransactionID
	nodeIDs        []hedera.AccountID
}

// SignOutcome reports whether signing produced new sources.
type SignOutcome int

const (
	// Unchanged means every signer had already signed, so the original
	// sources were returned.
	Unchanged SignOutcome = iota

	// Updated means signatures were added to a copy of the sources.
	Updated
)

func (o SignOutcome) String() string {
	if o == Updated {
		return "updated"
	}
	return "unchanged"
}

// NewSources builds sources from encoded transactions. The transactions must
// be grouped by chunk, each chunk must have a distinct transaction ID and the
// same nodes, and every transaction must carry signatures from the same keys.
func NewSources(transactions []*proto.Transaction) (*Sources, error) {
	if len(transactions) == 0 {
		return nil, errors.EncodingError.With("transaction list is empty")
	}

	s := new(Sources)
	s.signed = make([]*proto.SignedTransaction, len(transactions))
	for i, tx := range transactions {
		if len(tx.SignedTransactionBytes) == 0 {
			return nil, errors.EncodingError.With("transaction has no signed transaction bytes")
		}
		signed := new(proto.SignedTransaction)
		err := signed.UnmarshalBinary(tx.SignedTransactionBytes)
		if err != nil {
			return nil, errors.EncodingError.WithFormat("decode signed transaction: %w", err)
		}
		s.signed[i] = signed
	}

	// Signature order does not matter but the set of keys does
	first := signerPrefixes(s.signed[0])
	for _, signed := range s.signed[1:] {
		if !equalPrefixes(first, signerPrefixes(signed)) {
			return nil, errors.EncodingError.With("transaction has mismatched signatures")
		}
	}

	var chunkNodes []hedera.AccountID
	for i, signed := range s.signed {
		body := new(proto.TransactionBody)
		err := body.UnmarshalBinary(signed.BodyBytes)
		if err != nil {
			return nil, errors.EncodingError.WithFormat("decode transaction body: %w", err)
		}
		if body.TransactionID == nil || body.NodeAccountID == nil {
			return nil, errors.EncodingError.With("transaction body is missing the transaction ID or node account ID")
		}
		txid, err := body.TransactionID.TransactionID()
		if err != nil {
			return nil, err
		}
		node := body.NodeAccountID.AccountID()

		// A new transaction ID starts a new chunk
		if i == 0 || !txid.Equal(s.transactionIDs[len(s.transactionIDs)-1]) {
			for _, id := range s.transactionIDs {
				if id.Equal(txid) {
					return nil, errors.EncodingError.WithFormat("duplicate transaction ID %v between chunks", txid)
				}
			}
			if i > 0 {
				err = s.checkChunkNodes(chunkNodes)
				if err != nil {
					return nil, err
				}
			}
			s.transactionIDs = append(s.transactionIDs, txid)
			chunkNodes = chunkNodes[:0]
		}
		chunkNodes = append(chunkNodes, node)
	}
	err := s.checkChunkNodes(chunkNodes)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sources) checkChunkNodes(nodes []hedera.AccountID) error {
	if s.nodeIDs == nil {
		s.nodeIDs = append([]hedera.AccountID{}, nodes...)
		return nil
	}
	if len(nodes) != len(s.nodeIDs) {
		return errors.EncodingError.With("transaction list has inconsistent node account IDs")
	}
	for i, id := range nodes {
		if id.WithoutChecksum() != s.nodeIDs[i].WithoutChecksum() {
			return errors.EncodingError.With("transaction list has inconsistent node account IDs")
		}
	}
	return nil
}

func signerPrefixes(tx *proto.SignedTransaction) [][]byte {
	if tx.SigMap == nil {
		return nil
	}
	prefixes := make([][]byte, len(tx.SigMap.SigPair))
	for i, pair := range tx.SigMap.SigPair {
		prefixes[i] = pair.PubKeyPrefix
	}
	slices.SortFunc(prefixes, bytes.Compare)
	return prefixes
}

func equalPrefixes(a, b [][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// NodeIDs returns the nodes of each chunk.
func (s *Sources) NodeIDs() []hedera.AccountID { return s.nodeIDs }

// Chunks returns the number of chunks.
func (s *Sources) Chunks() int { return len(s.transactionIDs) }

// TransactionID returns the transaction ID of the chunk.
func (s *Sources) TransactionID(chunk int) hedera.TransactionID { return s.transactionIDs[chunk] }

// TransactionIDs returns the transaction ID of each chunk.
func (s *Sources) TransactionIDs() []hedera.TransactionID { return s.transactionIDs }

// SignedTransactions returns every signed transaction, ordered by chunk and
// then by node.
func (s *Sources) SignedTransactions() []*proto.SignedTransaction { return s.signed }

// Signed returns the signed transaction of the chunk for the node.
func (s *Sources) Signed(chunk, node int) *proto.SignedTransaction {
	return s.signed[chunk*len(s.nodeIDs)+node]
}

// NodeIndex returns the position of the node in the node list.
func (s *Sources) NodeIndex(id hedera.AccountID) (int, bool) {
	for i, n := range s.nodeIDs {
		if n.WithoutChecksum() == id.WithoutChecksum() {
			return i, true
		}
	}
	return 0, false
}

// Transactions encodes each signed transaction as a wire transaction.
func (s *Sources) Transactions() []*proto.Transaction {
	txns := make([]*proto.Transaction, len(s.signed))
	for i, signed := range s.signed {
		txns[i] = &proto.Transaction{SignedTransactionBytes: proto.Marshal(signed)}
	}
	return txns
}

// Hash returns the hash of the chunk's transaction for the node.
func (s *Sources) Hash(chunk, node int) Hash {
	return HashOf(proto.Marshal(s.Signed(chunk, node)))
}

// SignWith signs every transaction with each signer that has not already
// signed. The sources are not modified. If no signer is new, SignWith returns
// the same sources and [Unchanged]; otherwise it returns a copy with the new
// signatures and [Updated].
func (s *Sources) SignWith(signers ...signing.Signer) (*Sources, SignOutcome, error) {
	var signed []*proto.SignedTransaction
	for _, signer := range signers {
		current := s.signed
		if signed != nil {
			current = signed
		}
		if hasSigner(current[0], signer) {
			continue
		}

		// Copy on the first new signer
		if signed == nil {
			signed = make([]*proto.SignedTransaction, len(s.signed))
			for i, tx := range s.signed {
				signed[i] = &proto.SignedTransaction{BodyBytes: tx.BodyBytes, SigMap: tx.SigMap.Copy()}
			}
		}

		for _, tx := range signed {
			pair, err := signBody(signer, tx.BodyBytes)
			if err != nil {
				return nil, Unchanged, err
			}
			if tx.SigMap == nil {
				tx.SigMap = new(proto.SignatureMap)
			}
			tx.SigMap.SigPair = append(tx.SigMap.SigPair, pair)
		}
	}

	if signed == nil {
		return s, Unchanged, nil
	}
	return &Sources{
		signed:         signed,
		transactionIDs: s.transactionIDs,
		nodeIDs:        s.nodeIDs,
	}, Updated, nil
}

func hasSigner(tx *proto.SignedTransaction, signer signing.Signer) bool {
	if tx.SigMap == nil {
		return false
	}
	key := signer.PublicKey().Bytes()
	for _, pair := range tx.SigMap.SigPair {
		if len(pair.PubKeyPrefix) > 0 && bytes.HasPrefix(key, pair.PubKeyPrefix) {
			return true
		}
	}
	return false
}

func signBody(signer signing.Signer, body []byte) (*proto.SignaturePair, error) {
	sig, err := signer.Sign(body)
	if err != nil {
		return nil, errors.UnknownError.WithFormat("sign with %v: %w", signer.PublicKey(), err)
	}
	return proto.NewSignaturePair(signer.PublicKey(), sig), nil
}
