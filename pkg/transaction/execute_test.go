// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hashgraph/hedera-sdk-go-exec/internal/logging"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/network"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/keys"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/proto"
	mocks "github.com/hashgraph/hedera-sdk-go-exec/test/mocks/pkg/client/network"
)

type submission struct {
	node   hedera.AccountID
	method string
	signed *proto.SignedTransaction
	body   *proto.TransactionBody
}

// fakeNetwork records the transactions submitted to it and answers receipt
// queries with SUCCESS.
type fakeNetwork struct {
	submitted []*submission
	events    []string

	// precheck returns the status of the i'th submission. Nil means OK.
	precheck func(i int) hedera.ResponseCode
}

func (f *fakeNetwork) channel(t *testing.T, node hedera.AccountID) network.Channel {
	ch := mocks.NewChannel(t)
	ch.EXPECT().
		Invoke(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, method string, request []byte) ([]byte, error) {
			return f.handle(t, node, method, request), nil
		}).
		Maybe()
	return ch
}

func (f *fakeNetwork) handle(t *testing.T, node hedera.AccountID, method string, request []byte) []byte {
	if method == network.MethodGetTransactionReceipts {
		f.events = append(f.events, "receipt")
		return proto.Marshal(&proto.Response{Data: &proto.TransactionGetReceiptResponse{
			Header:  &proto.ResponseHeader{NodeTransactionPrecheckCode: int32(hedera.ResponseCodeOk)},
			Receipt: &proto.TransactionReceipt{Status: int32(hedera.ResponseCodeSuccess)},
		}})
	}

	tx := new(proto.Transaction)
	require.NoError(t, tx.UnmarshalBinary(request))
	signed := new(proto.SignedTransaction)
	require.NoError(t, signed.UnmarshalBinary(tx.SignedTransactionBytes))

	f.events = append(f.events, "submit")
	f.submitted = append(f.submitted, &submission{
		node:   node,
		method: method,
		signed: signed,
		body:   decodeBody(t, signed),
	})

	status := hedera.ResponseCodeOk
	if f.precheck != nil {
		status = f.precheck(len(f.submitted) - 1)
	}
	return proto.Marshal(&proto.TransactionResponse{NodeTransactionPrecheckCode: int32(status)})
}

// testClient returns a client for the nodes with an operator.
func testClient(t *testing.T, f *fakeNetwork, nodes ...hedera.AccountID) (*client.Client, keys.PrivateKey) {
	t.Helper()
	var table []network.Node
	for _, id := range nodes {
		table = append(table, network.Node{AccountID: id, Channel: f.channel(t, id)})
	}
	n, err := network.New(table)
	require.NoError(t, err)

	c := client.New(n)
	c.SetLogger(logging.NewTestLogger(t))
	require.NoError(t, c.SetMinBackoff(time.Millisecond))
	require.NoError(t, c.SetMaxBackoff(5*time.Millisecond))

	key := generateKey(t)
	c.SetOperator(payer, key)
	return c, key
}

func contextForTest(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestExecuteChunked(t *testing.T) {
	f := new(fakeNetwork)
	c, operator := testClient(t, f, node3)
	explicit := hedera.GenerateTransactionID(payer)

	tx := NewTopicMessageSubmitTransaction(topic, message(17)).
		SetChunkSize(8).
		SetMaxChunks(3).
		SetTransactionID(explicit)
	responses, err := tx.ExecuteAll(contextForTest(t), c)
	require.NoError(t, err)
	require.Len(t, responses, 3)
	require.Len(t, f.submitted, 3)

	// Topic messages do not wait for receipts
	require.Equal(t, []string{"submit", "submit", "submit"}, f.events)

	seen := map[string]bool{}
	for i, s := range f.submitted {
		require.Equal(t, network.MethodSubmitMessage, s.method)
		id := bodyTransactionID(t, s.body)
		require.True(t, id.Equal(responses[i].TransactionID))
		require.False(t, seen[id.Key()], "transaction IDs must be distinct")
		seen[id.Key()] = true

		submit := s.body.Data.(*proto.ConsensusSubmitMessageTransactionBody)
		initial, err := submit.ChunkInfo.InitialTransactionID.TransactionID()
		require.NoError(t, err)
		require.True(t, explicit.Equal(initial))
		require.Equal(t, int32(i+1), submit.ChunkInfo.Number)

		// The operator signs every chunk
		require.Len(t, s.signed.SigMap.SigPair, 1)
		require.True(t, operator.PublicKey().Verify(s.signed.BodyBytes, s.signed.SigMap.SigPair[0].Ed25519))
	}
	require.True(t, explicit.Equal(responses[0].TransactionID))
}

func TestExecuteReturnsFirstChunk(t *testing.T) {
	f := new(fakeNetwork)
	c, _ := testClient(t, f, node3)

	tx := NewTopicMessageSubmitTransaction(topic, message(20)).SetChunkSize(10)
	resp, err := tx.Execute(contextForTest(t), c)
	require.NoError(t, err)
	require.Len(t, f.submitted, 2)
	require.True(t, bodyTransactionID(t, f.submitted[0].body).Equal(resp.TransactionID))
}

func TestFileAppendWaitsForReceipts(t *testing.T) {
	f := new(fakeNetwork)
	c, _ := testClient(t, f, node3)

	tx := NewFileAppendTransaction(hedera.FileID{EntityID: hedera.EntityID{Num: 150}}, message(2*FileAppendChunkSize+1))
	responses, err := tx.ExecuteAll(contextForTest(t), c)
	require.NoError(t, err)
	require.Len(t, responses, 3)
	require.Equal(t, []string{"submit", "receipt", "submit", "receipt", "submit", "receipt"}, f.events)

	var contents []byte
	for _, s := range f.submitted {
		require.Equal(t, network.MethodFileAppend, s.method)
		contents = append(contents, s.body.Data.(*proto.FileAppendTransactionBody).Contents...)
	}
	require.Equal(t, message(2*FileAppendChunkSize+1), contents)
}

func TestExecuteFailsOverBusyNode(t *testing.T) {
	f := new(fakeNetwork)
	f.precheck = func(i int) hedera.ResponseCode {
		if i == 0 {
			return hedera.ResponseCodeBusy
		}
		return hedera.ResponseCodeOk
	}
	c, _ := testClient(t, f, node3, node4)

	tx := NewTransferTransaction().SetNodeAccountIDs(node3, node4)
	resp, err := tx.Execute(contextForTest(t), c)
	require.NoError(t, err)
	require.Len(t, f.submitted, 2)
	require.NotEqual(t, f.submitted[0].node, f.submitted[1].node)
	require.Equal(t, f.submitted[1].node, resp.NodeID)

	// Failing over does not change the transaction ID
	first := bodyTransactionID(t, f.submitted[0].body)
	require.True(t, first.Equal(bodyTransactionID(t, f.submitted[1].body)))

	// The hash is of the transaction the node accepted
	require.Equal(t, HashOf(proto.Marshal(f.submitted[1].signed)), resp.Hash)
}

func TestExecuteRegeneratesExpiredID(t *testing.T) {
	f := new(fakeNetwork)
	f.precheck = func(i int) hedera.ResponseCode {
		if i == 0 {
			return hedera.ResponseCodeTransactionExpired
		}
		return hedera.ResponseCodeOk
	}
	c, _ := testClient(t, f, node3)

	resp, err := NewTransferTransaction().Execute(contextForTest(t), c)
	require.NoError(t, err)
	require.Len(t, f.submitted, 2)

	first := bodyTransactionID(t, f.submitted[0].body)
	second := bodyTransactionID(t, f.submitted[1].body)
	require.False(t, first.Equal(second))
	require.True(t, second.Equal(resp.TransactionID))
}

func TestExecuteKeepsExplicitExpiredID(t *testing.T) {
	f := new(fakeNetwork)
	f.precheck = func(int) hedera.ResponseCode { return hedera.ResponseCodeTransactionExpired }
	c, _ := testClient(t, f, node3)

	txid := hedera.GenerateTransactionID(payer)
	_, err := NewTransferTransaction().SetTransactionID(txid).Execute(contextForTest(t), c)
	var precheck *hedera.PrecheckError
	require.ErrorAs(t, err, &precheck)
	require.Equal(t, hedera.ResponseCodeTransactionExpired, precheck.Status)
	require.True(t, txid.Equal(*precheck.TransactionID))
	require.Len(t, f.submitted, 1)
}

func TestExecuteDisabledRegeneration(t *testing.T) {
	f := new(fakeNetwork)
	f.precheck = func(int) hedera.ResponseCode { return hedera.ResponseCodeTransactionExpired }
	c, _ := testClient(t, f, node3)

	_, err := NewTransferTransaction().
		SetRegenerateTransactionID(false).
		Execute(contextForTest(t), c)
	var precheck *hedera.PrecheckError
	require.ErrorAs(t, err, &precheck)
	require.Len(t, f.submitted, 1)
}

func TestExecutePrecheckError(t *testing.T) {
	f := new(fakeNetwork)
	f.precheck = func(int) hedera.ResponseCode { return hedera.ResponseCodeInsufficientTxFee }
	c, _ := testClient(t, f, node3)

	_, err := NewTransferTransaction().Execute(contextForTest(t), c)
	var precheck *hedera.PrecheckError
	require.ErrorAs(t, err, &precheck)
	require.Equal(t, hedera.ResponseCodeInsufficientTxFee, precheck.Status)
	require.NotNil(t, precheck.TransactionID)
}

func TestExecuteDecodedTransaction(t *testing.T) {
	f := new(fakeNetwork)
	c, _ := testClient(t, f, node3, node4)
	key := generateKey(t)

	tx := NewTransferTransaction().
		SetNodeAccountIDs(node3, node4).
		SetTransactionID(hedera.GenerateTransactionID(payer)).
		Sign(key)
	require.NoError(t, tx.Freeze())
	b, err := tx.ToBytes()
	require.NoError(t, err)
	hashes, err := tx.TransactionHashPerNode()
	require.NoError(t, err)

	decoded, err := FromBytes(b)
	require.NoError(t, err)
	resp, err := decoded.Execute(contextForTest(t), c)
	require.NoError(t, err)
	require.Len(t, f.submitted, 1)

	// The prebuilt transaction is sent as is
	require.True(t, tx.TransactionID().Equal(resp.TransactionID))
	require.Equal(t, hashes[resp.NodeID], resp.Hash)
	require.True(t, tx.TransactionID().Equal(bodyTransactionID(t, f.submitted[0].body)))
}

func TestSignWithOperator(t *testing.T) {
	f := new(fakeNetwork)
	c, operator := testClient(t, f, node3)

	tx := NewTransferTransaction()
	require.NoError(t, tx.SignWithOperator(c))
	require.True(t, tx.IsFrozen())
	require.True(t, tx.Signers().Has(operator.PublicKey()))

	// A transaction ID is generated from the operator
	b, err := tx.ToBytes()
	require.NoError(t, err)
	decoded, err := FromBytes(b)
	require.NoError(t, err)
	require.Equal(t, payer, decoded.TransactionID().AccountID)
}

func TestReceiptFromResponse(t *testing.T) {
	f := new(fakeNetwork)
	c, _ := testClient(t, f, node3)

	resp, err := NewTransferTransaction().Execute(contextForTest(t), c)
	require.NoError(t, err)

	receipt, err := resp.GetReceipt(contextForTest(t), c)
	require.NoError(t, err)
	require.Equal(t, hedera.ResponseCodeSuccess, receipt.Status)

	q := resp.GetReceiptQuery()
	require.Equal(t, []hedera.AccountID{node3}, q.NodeAccountIDs())
	require.True(t, q.Data.ValidateStatus)
	require.False(t, resp.SetValidateStatus(false).GetReceiptQuery().Data.ValidateStatus)
}
