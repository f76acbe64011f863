// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package query

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/network"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/keys"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/proto"
)

type channelFunc func(ctx context.Context, method string, request []byte) ([]byte, error)

func (f channelFunc) Invoke(ctx context.Context, method string, request []byte) ([]byte, error) {
	return f(ctx, method, request)
}

// serve returns a channel that decodes each query and encodes the handler's
// response.
func serve(t *testing.T, handler func(method string, query proto.QueryData) proto.ResponseData) network.Channel {
	return channelFunc(func(_ context.Context, method string, request []byte) ([]byte, error) {
		var q proto.Query
		require.NoError(t, q.UnmarshalBinary(request))
		require.NotNil(t, q.Data)
		return proto.Marshal(&proto.Response{Data: handler(method, q.Data)}), nil
	})
}

func testClient(t *testing.T, ch network.Channel) *client.Client {
	t.Helper()
	n, err := network.New([]network.Node{{AccountID: node, Channel: ch}})
	require.NoError(t, err)
	c := client.New(n)
	require.NoError(t, c.SetMinBackoff(time.Millisecond))
	require.NoError(t, c.SetMaxBackoff(5*time.Millisecond))
	return c
}

var node = hedera.NewAccountID(3)

func header(code hedera.ResponseCode) *proto.ResponseHeader {
	return &proto.ResponseHeader{NodeTransactionPrecheckCode: int32(code)}
}

func TestAccountBalance(t *testing.T) {
	c := testClient(t, serve(t, func(method string, q proto.QueryData) proto.ResponseData {
		require.Equal(t, network.MethodCryptoGetBalance, method)
		balance := q.(*proto.CryptoGetAccountBalanceQuery)
		require.Nil(t, balance.Header.Payment)
		return &proto.CryptoGetAccountBalanceResponse{
			Header:    header(hedera.ResponseCodeOk),
			AccountID: balance.AccountID,
			Balance:   42,
		}
	}))

	r, err := NewAccountBalanceQuery(hedera.NewAccountID(1001)).
		SetNodeAccountIDs(node).
		Execute(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, hedera.NewAccountID(1001), r.AccountID)
	require.Equal(t, hedera.Tinybars(42), r.Hbars)

	// Free queries cost nothing and do not ask
	cost, err := NewAccountBalanceQuery(hedera.NewAccountID(1001)).GetCost(context.Background(), c)
	require.NoError(t, err)
	require.Zero(t, cost)
}

func TestReceiptRetry(t *testing.T) {
	txid := hedera.GenerateTransactionID(hedera.NewAccountID(1001))
	var calls int
	c := testClient(t, serve(t, func(method string, q proto.QueryData) proto.ResponseData {
		require.Equal(t, network.MethodGetTransactionReceipts, method)
		receipt := q.(*proto.TransactionGetReceiptQuery)
		id, err := receipt.TransactionID.TransactionID()
		require.NoError(t, err)
		require.True(t, txid.Equal(id))

		calls++
		switch calls {
		case 1:
			return &proto.TransactionGetReceiptResponse{Header: header(hedera.ResponseCodeReceiptNotFound)}
		case 2:
			return &proto.TransactionGetReceiptResponse{
				Header:  header(hedera.ResponseCodeOk),
				Receipt: &proto.TransactionReceipt{Status: int32(hedera.ResponseCodeUnknown)},
			}
		default:
			return &proto.TransactionGetReceiptResponse{
				Header: header(hedera.ResponseCodeOk),
				Receipt: &proto.TransactionReceipt{
					Status:  int32(hedera.ResponseCodeSuccess),
					TopicID: &proto.TopicID{Num: 77},
				},
			}
		}
	}))

	r, err := NewTransactionReceiptQuery(txid).
		SetNodeAccountIDs(node).
		Execute(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, hedera.ResponseCodeSuccess, r.Status)
	require.Equal(t, uint64(77), r.TopicID.Num)
	require.True(t, txid.Equal(*r.TransactionID))
}

func TestReceiptValidateStatus(t *testing.T) {
	c := testClient(t, serve(t, func(string, proto.QueryData) proto.ResponseData {
		return &proto.TransactionGetReceiptResponse{
			Header:  header(hedera.ResponseCodeOk),
			Receipt: &proto.TransactionReceipt{Status: int32(hedera.ResponseCodeInvalidSignature)},
		}
	}))

	q := NewTransactionReceiptQuery(hedera.GenerateTransactionID(hedera.NewAccountID(1001)))
	q.SetNodeAccountIDs(node)

	// Without validation the failed receipt is returned
	r, err := q.Execute(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, hedera.ResponseCodeInvalidSignature, r.Status)

	q.Data.ValidateStatus = true
	_, err = q.Execute(context.Background(), c)
	var status *hedera.ReceiptStatusError
	require.ErrorAs(t, err, &status)
	require.Equal(t, hedera.ResponseCodeInvalidSignature, status.Status)
}

// paidBalanceData is a balance query that must be paid for.
type paidBalanceData struct {
	AccountBalanceData
}

func (*paidBalanceData) IsPaymentRequired() bool { return true }

func newPaidQuery() *Query[*paidBalanceData, hedera.AccountBalance] {
	return New[*paidBalanceData, hedera.AccountBalance](&paidBalanceData{AccountBalanceData{AccountID: hedera.NewAccountID(1001)}})
}

// paidServer answers cost queries with the cost and checks the payment of
// answer queries.
func paidServer(t *testing.T, key keys.PrivateKey, cost uint64, answers *atomic.Int32) network.Channel {
	return serve(t, func(_ string, q proto.QueryData) proto.ResponseData {
		h := q.QueryHeader()
		require.NotNil(t, h.Payment)

		if h.ResponseType == proto.CostAnswer {
			return &proto.CryptoGetAccountBalanceResponse{Header: &proto.ResponseHeader{Cost: cost}}
		}
		answers.Add(1)

		var signed proto.SignedTransaction
		require.NoError(t, signed.UnmarshalBinary(h.Payment.SignedTransactionBytes))
		require.Len(t, signed.SigMap.SigPair, 1)
		require.True(t, key.PublicKey().Verify(signed.BodyBytes, signed.SigMap.SigPair[0].Ed25519))

		var body proto.TransactionBody
		require.NoError(t, body.UnmarshalBinary(signed.BodyBytes))
		require.Equal(t, node, body.NodeAccountID.AccountID())
		require.Equal(t, hedera.NewAccountID(1001), body.TransactionID.AccountID.AccountID())

		transfer := body.Data.(*proto.CryptoTransferTransactionBody)
		amounts := transfer.Transfers.AccountAmounts
		require.Len(t, amounts, 2)
		require.Equal(t, hedera.NewAccountID(1001), amounts[0].AccountID.AccountID())
		require.Equal(t, -int64(cost), amounts[0].Amount)
		require.Equal(t, node, amounts[1].AccountID.AccountID())
		require.Equal(t, int64(cost), amounts[1].Amount)

		return &proto.CryptoGetAccountBalanceResponse{Header: header(hedera.ResponseCodeOk), Balance: 1}
	})
}

func TestPaidQuery(t *testing.T) {
	key, err := keys.GenerateED25519()
	require.NoError(t, err)

	var answers atomic.Int32
	c := testClient(t, paidServer(t, key, 25, &answers))

	// A paid query needs an operator
	_, err = newPaidQuery().SetNodeAccountIDs(node).Execute(context.Background(), c)
	require.ErrorIs(t, err, errors.NoPayerAccountOrTransactionID)

	c.SetOperator(hedera.NewAccountID(1001), key)
	cost, err := newPaidQuery().SetNodeAccountIDs(node).GetCost(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, hedera.Tinybars(25), cost)

	r, err := newPaidQuery().SetNodeAccountIDs(node).Execute(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, hedera.Tinybars(1), r.Hbars)
	require.Equal(t, int32(1), answers.Load())
}

func TestMaxQueryPayment(t *testing.T) {
	key, err := keys.GenerateED25519()
	require.NoError(t, err)

	var answers atomic.Int32
	c := testClient(t, paidServer(t, key, 25, &answers))
	c.SetOperator(hedera.NewAccountID(1001), key)

	_, err = newPaidQuery().
		SetNodeAccountIDs(node).
		SetMaxPaymentAmount(hedera.Tinybars(10)).
		Execute(context.Background(), c)
	require.ErrorIs(t, err, errors.MaxQueryPaymentExceeded)

	require.NoError(t, c.SetDefaultMaxQueryPayment(hedera.Tinybars(20)))
	_, err = newPaidQuery().SetNodeAccountIDs(node).Execute(context.Background(), c)
	require.ErrorIs(t, err, errors.MaxQueryPaymentExceeded)
	require.Zero(t, answers.Load())

	// The query's own maximum takes precedence
	_, err = newPaidQuery().
		SetNodeAccountIDs(node).
		SetMaxPaymentAmount(hedera.Tinybars(30)).
		Execute(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, int32(1), answers.Load())
}

func TestExplicitPayment(t *testing.T) {
	key, err := keys.GenerateED25519()
	require.NoError(t, err)

	c := testClient(t, serve(t, func(_ string, q proto.QueryData) proto.ResponseData {
		require.Equal(t, proto.AnswerOnly, q.QueryHeader().ResponseType)
		return &proto.CryptoGetAccountBalanceResponse{
			Header: &proto.ResponseHeader{
				NodeTransactionPrecheckCode: int32(hedera.ResponseCodeInsufficientTxFee),
				Cost:                        40,
			},
		}
	}))
	c.SetOperator(hedera.NewAccountID(1001), key)

	_, err = newPaidQuery().
		SetNodeAccountIDs(node).
		SetPaymentAmount(hedera.Tinybars(5)).
		Execute(context.Background(), c)

	var precheck *hedera.PrecheckError
	require.ErrorAs(t, err, &precheck)
	require.Equal(t, hedera.ResponseCodeInsufficientTxFee, precheck.Status)
	require.Equal(t, hedera.Tinybars(40), *precheck.Cost)
	require.NotNil(t, precheck.TransactionID)
}

func TestAnyQuery(t *testing.T) {
	txid := hedera.GenerateTransactionID(hedera.NewAccountID(1001))
	b := NewAnyQuery(&TransactionReceiptData{ID: txid, IncludeChildren: true}).Data.ToBytes()

	q, err := ParseAnyQuery(b)
	require.NoError(t, err)
	receipt, ok := q.Data.AnyVariant.(*TransactionReceiptData)
	require.True(t, ok)
	require.True(t, txid.Equal(receipt.ID))
	require.True(t, receipt.IncludeChildren)
	require.False(t, receipt.IncludeDuplicates)

	b = NewAnyQuery(&AccountBalanceData{AccountID: hedera.NewAccountID(1001)}).Data.ToBytes()
	q, err = ParseAnyQuery(b)
	require.NoError(t, err)

	c := testClient(t, serve(t, func(string, proto.QueryData) proto.ResponseData {
		return &proto.CryptoGetAccountBalanceResponse{Header: header(hedera.ResponseCodeOk), Balance: 7}
	}))
	r, err := q.SetNodeAccountIDs(node).Execute(context.Background(), c)
	require.NoError(t, err)
	require.Nil(t, r.TransactionReceipt)
	require.Equal(t, hedera.Tinybars(7), r.AccountBalance.Hbars)

	_, err = ParseAnyQuery(nil)
	require.ErrorIs(t, err, errors.EncodingError)
}
