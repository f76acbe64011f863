// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package transaction

import (
	"time"

	"golang.org/x/exp/slices"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/signing"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/keys"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/proto"
)

// DefaultValidDuration is how long a transaction is valid for if the
// duration is not set.
const DefaultValidDuration = 120 * time.Second

var defaultMaxTransactionFee = hedera.NewHbar(2)

// Data is the kind-specific part of a transaction.
type Data interface {
	// Method returns the gRPC method that accepts the transaction.
	Method() string

	// DefaultMaxTransactionFee is the fee limit used when neither the
	// transaction nor the client sets one.
	DefaultMaxTransactionFee() hedera.Hbar

	ValidateChecksums(ledger hedera.LedgerID) error

	// TransactionData returns the body payload for the chunk.
	TransactionData(chunk ChunkInfo) proto.TransactionData

	// Copy returns a deep copy of the data. The copy must have the same
	// concrete type.
	Copy() Data
}

// Transaction is a transaction of kind D. A transaction is built by calling
// setters, then frozen, then signed and executed. Once frozen, setters fail
// with [errors.TransactionFrozen]; the failure is recorded and returned by
// [Transaction.Err], [Transaction.ToBytes], and [Transaction.Execute].
type Transaction[D Data] struct {
	data D

	nodeAccountIDs []hedera.AccountID
	validDuration  *time.Duration
	maxFee         *hedera.Hbar
	memo           string
	transactionID  *hedera.TransactionID
	regenerate     *bool

	// operator is captured when the transaction is frozen and generates the
	// IDs of the second and later chunks.
	operator *client.Operator

	frozen  bool
	signers signing.Set
	sources *Sources
	err     error
}

// New returns a draft transaction.
func New[D Data](data D) *Transaction[D] {
	return &Transaction[D]{data: data}
}

// Data returns a copy of the kind-specific data. Use [Transaction.Modify] to
// change it.
func (t *Transaction[D]) Data() D { return t.data.Copy().(D) }

// Err returns the first error recorded by a setter.
func (t *Transaction[D]) Err() error { return t.err }

func (t *Transaction[D]) IsFrozen() bool { return t.frozen }

func (t *Transaction[D]) fail(err error) {
	if t.err == nil {
		t.err = err
	}
}

// mutable records an error and returns false if the transaction is frozen.
func (t *Transaction[D]) mutable(field string) bool {
	if !t.frozen {
		return true
	}
	t.fail(errors.TransactionFrozen.WithFormat("cannot set %s: transaction is frozen", field))
	return false
}

// Modify calls fn to change the data, unless the transaction is frozen.
func (t *Transaction[D]) Modify(fn func(D)) *Transaction[D] {
	if t.mutable("data") {
		fn(t.data)
	}
	return t
}

// NodeAccountIDs returns the nodes the transaction may be submitted to. Nil
// means any node of the client's network.
func (t *Transaction[D]) NodeAccountIDs() []hedera.AccountID { return t.nodeAccountIDs }

// SetNodeAccountIDs sets the nodes the transaction may be submitted to.
// Setting no nodes clears the list.
func (t *Transaction[D]) SetNodeAccountIDs(ids ...hedera.AccountID) *Transaction[D] {
	if !t.mutable("node account IDs") {
		return t
	}
	if len(ids) == 0 {
		t.nodeAccountIDs = nil
	} else {
		t.nodeAccountIDs = slices.Clone(ids)
	}
	return t
}

// TransactionValidDuration returns how long the transaction is valid for
// after its valid start.
func (t *Transaction[D]) TransactionValidDuration() time.Duration {
	if t.validDuration == nil {
		return DefaultValidDuration
	}
	return *t.validDuration
}

func (t *Transaction[D]) SetTransactionValidDuration(d time.Duration) *Transaction[D] {
	if t.mutable("valid duration") {
		t.validDuration = &d
	}
	return t
}

// MaxTransactionFee returns the explicit fee limit, or nil.
func (t *Transaction[D]) MaxTransactionFee() *hedera.Hbar { return t.maxFee }

func (t *Transaction[D]) SetMaxTransactionFee(fee hedera.Hbar) *Transaction[D] {
	if t.mutable("max transaction fee") {
		t.maxFee = &fee
	}
	return t
}

// DefaultMaxTransactionFee returns the fee limit of the kind.
func (t *Transaction[D]) DefaultMaxTransactionFee() hedera.Hbar {
	return t.data.DefaultMaxTransactionFee()
}

func (t *Transaction[D]) TransactionMemo() string { return t.memo }

func (t *Transaction[D]) SetTransactionMemo(memo string) *Transaction[D] {
	if t.mutable("memo") {
		t.memo = memo
	}
	return t
}

// TransactionID returns the explicit transaction ID, or nil.
func (t *Transaction[D]) TransactionID() *hedera.TransactionID { return t.transactionID }

// SetTransactionID sets the transaction ID. An explicit ID is never
// regenerated.
func (t *Transaction[D]) SetTransactionID(id hedera.TransactionID) *Transaction[D] {
	if t.mutable("transaction ID") {
		t.transactionID = &id
	}
	return t
}

// RegenerateTransactionID returns whether an expired transaction ID is
// replaced, or nil to use the client's default.
func (t *Transaction[D]) RegenerateTransactionID() *bool { return t.regenerate }

func (t *Transaction[D]) SetRegenerateTransactionID(regenerate bool) *Transaction[D] {
	if t.mutable("regenerate transaction ID") {
		t.regenerate = &regenerate
	}
	return t
}

// MaxChunks returns the most chunks the payload may be split into, or zero
// if the kind does not chunk.
func (t *Transaction[D]) MaxChunks() int {
	if c := chunksOf(t.data); c != nil {
		return c.MaxChunks
	}
	return 0
}

func (t *Transaction[D]) SetMaxChunks(n int) *Transaction[D] {
	c := chunksOf(t.data)
	switch {
	case c == nil:
		t.fail(errors.BadRequest.WithFormat("%T is not chunked", t.data))
	case t.mutable("max chunks"):
		c.MaxChunks = n
	}
	return t
}

// ChunkSize returns the largest chunk, or zero if the kind does not chunk.
func (t *Transaction[D]) ChunkSize() int {
	if c := chunksOf(t.data); c != nil {
		return c.ChunkSize
	}
	return 0
}

// SetChunkSize sets the largest chunk. The size must not be zero.
func (t *Transaction[D]) SetChunkSize(size int) *Transaction[D] {
	c := chunksOf(t.data)
	switch {
	case c == nil:
		t.fail(errors.BadRequest.WithFormat("%T is not chunked", t.data))
	case size <= 0:
		t.fail(errors.BadChunkSize.WithFormat("invalid chunk size %d", size))
	case t.mutable("chunk size"):
		c.ChunkSize = size
	}
	return t
}

// Freeze freezes the transaction without a client. The node account IDs
// must have been set.
func (t *Transaction[D]) Freeze() error {
	return t.FreezeWith(nil)
}

// FreezeWith freezes the transaction, taking the nodes, fee limit, and
// operator from the client if they are not set. Freezing a frozen
// transaction does nothing, even if a setter has since failed.
func (t *Transaction[D]) FreezeWith(c *client.Client) error {
	if t.frozen {
		return nil
	}
	if t.err != nil {
		return t.err
	}

	nodes := t.nodeAccountIDs
	if len(nodes) == 0 {
		if c == nil {
			return errors.FreezeUnsetNodeAccountIDs.With("node account IDs must be set to freeze without a client")
		}
		nodes = c.Nodes().RandomNodeIDs()
		if len(nodes) == 0 {
			return errors.FreezeUnsetNodeAccountIDs.With("client network has no nodes")
		}
	}

	maxFee := t.maxFee
	var operator *client.Operator
	if c != nil {
		if maxFee == nil {
			maxFee = c.DefaultMaxTransactionFee()
		}
		operator = c.Operator()

		if c.AutoValidateChecksums() {
			ledger := c.LedgerID()
			if ledger == nil {
				return errors.BadRequest.With("checksum validation is enabled but the ledger ID is not set")
			}
			err := t.validateChecksums(nodes, ledger)
			if err != nil {
				return err
			}
		}
	}

	if chunks := chunksOf(t.data); chunks != nil {
		err := chunks.Validate()
		if err != nil {
			return err
		}
	}

	t.nodeAccountIDs = nodes
	t.maxFee = maxFee
	t.operator = operator
	t.data = t.data.Copy().(D)
	t.frozen = true
	return nil
}

func (t *Transaction[D]) validateChecksums(nodes []hedera.AccountID, ledger hedera.LedgerID) error {
	for _, id := range nodes {
		err := id.ValidateChecksum(ledger)
		if err != nil {
			return err
		}
	}
	if t.transactionID != nil {
		err := t.transactionID.AccountID.ValidateChecksum(ledger)
		if err != nil {
			return err
		}
	}
	return t.data.ValidateChecksums(ledger)
}

// Signers returns the signers that will sign the transaction.
func (t *Transaction[D]) Signers() signing.Set { return t.signers }

// Sign adds the key as a signer.
func (t *Transaction[D]) Sign(key keys.PrivateKey) *Transaction[D] {
	return t.SignWithSigner(signing.ForKey(key))
}

// SignWith adds a signer that signs with the function.
func (t *Transaction[D]) SignWith(key keys.PublicKey, sign func([]byte) ([]byte, error)) *Transaction[D] {
	return t.SignWithSigner(signing.Func{Key: key, SignFn: sign})
}

// SignWithSigner adds the signer, unless a signer with the same public key
// has already been added. Signing is allowed after the transaction is frozen.
func (t *Transaction[D]) SignWithSigner(signer signing.Signer) *Transaction[D] {
	t.signers.Add(signer)
	return t
}

// SignWithOperator freezes the transaction with the client and signs it with
// the client's operator.
func (t *Transaction[D]) SignWithOperator(c *client.Client) error {
	op := c.Operator()
	if op == nil {
		return errors.NoPayerAccountOrTransactionID.With("client has no operator")
	}

	err := t.FreezeWith(c)
	if err != nil {
		return err
	}

	t.signers.Add(op.Signer)
	t.operator = op
	return nil
}

// AddSignature adds a signature made elsewhere. The transaction must be
// frozen, have exactly one node, and have at most one chunk, since the
// signature covers exactly one body. Once a signature has been added the
// transaction ID can no longer be regenerated.
func (t *Transaction[D]) AddSignature(key keys.PublicKey, signature []byte) error {
	if !t.frozen {
		return errors.BadRequest.With("transaction must be frozen to add a signature")
	}
	if len(t.nodeAccountIDs) != 1 {
		return errors.BadRequest.WithFormat("cannot add a signature to a transaction with %d nodes", len(t.nodeAccountIDs))
	}
	if c := chunksOf(t.data); c != nil && c.UsedChunks() > 1 {
		return errors.BadRequest.WithFormat("cannot add a signature to a transaction with %d chunks", c.UsedChunks())
	}

	sources, err := t.makeSources()
	if err != nil {
		return err
	}

	signer := signing.Func{Key: key, SignFn: func([]byte) ([]byte, error) { return signature, nil }}
	sources, _, err = sources.SignWith(signer)
	if err != nil {
		return err
	}
	t.sources = sources
	return nil
}

// generateTransactionID generates a transaction ID from the operator
// captured when the transaction was frozen.
func (t *Transaction[D]) generateTransactionID() (hedera.TransactionID, error) {
	if t.operator == nil {
		return hedera.TransactionID{}, errors.NoPayerAccountOrTransactionID.With("a transaction ID or operator is required")
	}
	return hedera.GenerateTransactionID(t.operator.AccountID), nil
}

func (t *Transaction[D]) makeBody(chunk ChunkInfo) *proto.TransactionBody {
	fee := t.data.DefaultMaxTransactionFee()
	if t.maxFee != nil {
		fee = *t.maxFee
	}
	return &proto.TransactionBody{
		TransactionID:            proto.NewTransactionID(chunk.CurrentTransactionID),
		NodeAccountID:            proto.NewAccountID(chunk.NodeAccountID),
		TransactionFee:           uint64(fee.AsTinybars()),
		TransactionValidDuration: proto.NewDuration(t.TransactionValidDuration()),
		Memo:                     t.memo,
		Data:                     t.data.TransactionData(chunk),
	}
}

// bodySigners returns the signers plus the operator captured when the
// transaction was frozen.
func (t *Transaction[D]) bodySigners() signing.Set {
	if t.operator == nil || t.signers.Has(t.operator.Signer.PublicKey()) {
		return t.signers
	}
	signers := t.signers.Copy()
	signers.Add(t.operator.Signer)
	return signers
}

// makeSigned builds and signs the body for the chunk.
func (t *Transaction[D]) makeSigned(chunk ChunkInfo) (*proto.SignedTransaction, error) {
	signed := &proto.SignedTransaction{BodyBytes: proto.Marshal(t.makeBody(chunk))}
	for _, signer := range t.bodySigners() {
		pair, err := signBody(signer, signed.BodyBytes)
		if err != nil {
			return nil, err
		}
		if signed.SigMap == nil {
			signed.SigMap = new(proto.SignatureMap)
		}
		signed.SigMap.SigPair = append(signed.SigMap.SigPair, pair)
	}
	return signed, nil
}

// buildSources builds the signed body of every chunk for every node. The
// first chunk uses the explicit transaction ID if there is one and the other
// chunks use generated IDs.
func (t *Transaction[D]) buildSources() (*Sources, error) {
	initial := t.transactionID
	if initial == nil {
		id, err := t.generateTransactionID()
		if err != nil {
			return nil, err
		}
		initial = &id
	}

	used := 1
	if chunks := chunksOf(t.data); chunks != nil {
		err := chunks.Validate()
		if err != nil {
			return nil, err
		}
		used = chunks.UsedChunks()
	}

	s := &Sources{nodeIDs: slices.Clone(t.nodeAccountIDs)}
	for chunk := 0; chunk < used; chunk++ {
		current := *initial
		if chunk > 0 {
			id, err := t.generateTransactionID()
			if err != nil {
				return nil, err
			}
			current = id
		}
		s.transactionIDs = append(s.transactionIDs, current)

		for _, node := range t.nodeAccountIDs {
			signed, err := t.makeSigned(ChunkInfo{
				Current:              chunk,
				Total:                used,
				InitialTransactionID: *initial,
				CurrentTransactionID: current,
				NodeAccountID:        node,
			})
			if err != nil {
				return nil, err
			}
			s.signed = append(s.signed, signed)
		}
	}
	return s, nil
}

// makeSources returns the existing sources signed by any new signers, or
// builds new sources.
func (t *Transaction[D]) makeSources() (*Sources, error) {
	if t.sources == nil {
		return t.buildSources()
	}
	s, _, err := t.sources.SignWith(t.signers...)
	return s, err
}

// pinSources builds the sources if needed and keeps them, which fixes the
// transaction IDs.
func (t *Transaction[D]) pinSources() (*Sources, error) {
	if t.err != nil {
		return nil, t.err
	}
	if !t.frozen {
		return nil, errors.BadRequest.With("transaction must be frozen")
	}
	s, err := t.makeSources()
	if err != nil {
		return nil, err
	}
	t.sources = s
	return s, nil
}

// Sources returns the signed wire form of the transaction. The transaction
// must be frozen. Once built, the sources are kept, so the transaction IDs
// are fixed and will not be regenerated.
func (t *Transaction[D]) Sources() (*Sources, error) {
	return t.pinSources()
}

// ToBytes encodes the transaction as a transaction list. The transaction
// must be frozen.
func (t *Transaction[D]) ToBytes() ([]byte, error) {
	s, err := t.pinSources()
	if err != nil {
		return nil, err
	}
	return proto.Marshal(&proto.TransactionList{TransactionList: s.Transactions()}), nil
}

// TransactionHash returns the hash of the first chunk for the first node.
// The transaction ID will not be regenerated after this is called.
func (t *Transaction[D]) TransactionHash() (Hash, error) {
	s, err := t.pinSources()
	if err != nil {
		return Hash{}, err
	}
	return s.Hash(0, 0), nil
}

// TransactionHashPerNode returns the hash of the first chunk for each node.
// The transaction ID will not be regenerated after this is called.
func (t *Transaction[D]) TransactionHashPerNode() (map[hedera.AccountID]Hash, error) {
	s, err := t.pinSources()
	if err != nil {
		return nil, err
	}
	hashes := make(map[hedera.AccountID]Hash, len(s.nodeIDs))
	for i, node := range s.nodeIDs {
		hashes[node] = s.Hash(0, i)
	}
	return hashes, nil
}
