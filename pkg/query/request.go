// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package query

import (
	"context"
	"time"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/network"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/execute"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/proto"
)

// Payment transactions use fixed fee and duration settings.
const (
	paymentTransactionFee      = 100_000_000
	paymentTransactionDuration = 120 * time.Second
)

// request is the part of the executable shared by answer and cost requests.
type request[D Data[R], R any] struct {
	query        *Query[D, R]
	responseType proto.ResponseType
	operator     *client.Operator
	amount       hedera.Hbar
}

func (r *request[D, R]) NodeAccountIDs() []hedera.AccountID   { return r.query.nodeAccountIDs }
func (r *request[D, R]) RegenerateTransactionID() *bool       { return nil }
func (r *request[D, R]) OperatorAccountID() *hedera.AccountID { return nil }

// TransactionID returns the explicit payment transaction ID.
func (r *request[D, R]) TransactionID() *hedera.TransactionID { return r.query.paymentTransaction }

// RequiresTransactionID returns true if the query is paid, since the payment
// is a transaction.
func (r *request[D, R]) RequiresTransactionID() bool { return r.query.Data.IsPaymentRequired() }

func (r *request[D, R]) ValidateChecksums(ledger hedera.LedgerID) error {
	for _, id := range r.query.nodeAccountIDs {
		err := id.ValidateChecksum(ledger)
		if err != nil {
			return err
		}
	}
	return r.query.Data.ValidateChecksums(ledger)
}

func (r *request[D, R]) MakeRequest(txid *hedera.TransactionID, node hedera.AccountID) (*execute.Request[struct{}], error) {
	header := &proto.QueryHeader{ResponseType: r.responseType}
	if r.query.Data.IsPaymentRequired() {
		if txid == nil || r.operator == nil {
			return nil, errors.NoPayerAccountOrTransactionID.With("a paid query requires an operator")
		}
		payment, err := makePayment(r.operator, *txid, node, r.amount)
		if err != nil {
			return nil, err
		}
		header.Payment = payment
	}

	query := &proto.Query{Data: r.query.Data.QueryData(header)}
	return &execute.Request[struct{}]{
		Method:  r.query.Data.Method(),
		Payload: proto.Marshal(query),
	}, nil
}

func (r *request[D, R]) Execute(ctx context.Context, ch network.Channel, req *execute.Request[struct{}]) (*proto.Response, error) {
	return execute.Invoke[proto.Response](ctx, ch, req.Method, req.Payload)
}

func (r *request[D, R]) PrecheckStatus(resp *proto.Response) (int32, error) {
	header := resp.Header()
	if header == nil {
		return 0, errors.EncodingError.With("response is missing the header")
	}
	return header.NodeTransactionPrecheckCode, nil
}

func (r *request[D, R]) ShouldRetryPrecheck(status hedera.ResponseCode) bool {
	return r.query.Data.ShouldRetryPrecheck(status)
}

func (r *request[D, R]) MakePrecheckError(status hedera.ResponseCode, txid *hedera.TransactionID, resp *proto.Response) error {
	err := &hedera.PrecheckError{Status: status, TransactionID: txid}
	if id := r.query.Data.TransactionID(); id != nil {
		err.TransactionID = id
	}
	if header := resp.Header(); header != nil && header.Cost != 0 {
		cost := hedera.Tinybars(int64(header.Cost))
		err.Cost = &cost
	}
	return err
}

type answerRequest[D Data[R], R any] struct {
	request[D, R]
}

func (r *answerRequest[D, R]) ShouldRetry(resp *proto.Response) bool {
	return r.query.Data.ShouldRetry(resp)
}

func (r *answerRequest[D, R]) MakeResponse(resp *proto.Response, _ struct{}, _ hedera.AccountID, _ *hedera.TransactionID) (R, error) {
	return r.query.Data.MakeResponse(resp)
}

type costRequest[D Data[R], R any] struct {
	request[D, R]
}

func (r *costRequest[D, R]) ShouldRetry(*proto.Response) bool { return false }

func (r *costRequest[D, R]) MakeResponse(resp *proto.Response, _ struct{}, _ hedera.AccountID, _ *hedera.TransactionID) (hedera.Hbar, error) {
	header := resp.Header()
	if header == nil {
		return 0, errors.EncodingError.With("response is missing the header")
	}
	return hedera.Tinybars(int64(header.Cost)), nil
}

// makePayment builds and signs the transfer from the operator to the node
// that pays for a query.
func makePayment(op *client.Operator, txid hedera.TransactionID, node hedera.AccountID, amount hedera.Hbar) (*proto.Transaction, error) {
	body := &proto.TransactionBody{
		TransactionID:            proto.NewTransactionID(txid),
		NodeAccountID:            proto.NewAccountID(node),
		TransactionFee:           paymentTransactionFee,
		TransactionValidDuration: proto.NewDuration(paymentTransactionDuration),
		Data: &proto.CryptoTransferTransactionBody{
			Transfers: &proto.TransferList{AccountAmounts: []*proto.AccountAmount{
				{AccountID: proto.NewAccountID(op.AccountID), Amount: -amount.AsTinybars()},
				{AccountID: proto.NewAccountID(node), Amount: amount.AsTinybars()},
			}},
		},
	}

	bodyBytes := proto.Marshal(body)
	sig, err := op.Signer.Sign(bodyBytes)
	if err != nil {
		return nil, errors.UnknownError.WithFormat("sign query payment: %w", err)
	}

	signed := &proto.SignedTransaction{
		BodyBytes: bodyBytes,
		SigMap: &proto.SignatureMap{SigPair: []*proto.SignaturePair{
			proto.NewSignaturePair(op.Signer.PublicKey(), sig),
		}},
	}
	return &proto.Transaction{SignedTransactionBytes: proto.Marshal(signed)}, nil
}
