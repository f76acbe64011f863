// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package network

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
)

//go:generate go run github.com/vektra/mockery/v2

// A Channel sends an encoded request to a node and returns the encoded
// response. Transport failures are returned as gRPC status errors.
type Channel interface {
	Invoke(ctx context.Context, method string, request []byte) ([]byte, error)
}

// Method names of the node services.
const (
	MethodCryptoCreateAccount    = "/proto.CryptoService/createAccount"
	MethodCryptoTransfer         = "/proto.CryptoService/cryptoTransfer"
	MethodCryptoGetBalance       = "/proto.CryptoService/cryptoGetBalance"
	MethodGetTransactionReceipts = "/proto.CryptoService/getTransactionReceipts"
	MethodFileAppend             = "/proto.FileService/appendContent"
	MethodSubmitMessage          = "/proto.ConsensusService/submitMessage"
)

// ErrorClass is the retry classification of a transport error.
type ErrorClass int

const (
	// ErrorFatal errors fail the request immediately.
	ErrorFatal ErrorClass = iota

	// ErrorNodeUnavailable errors mark the node unhealthy; the request is
	// retried on another node.
	ErrorNodeUnavailable
)

// ClassifyError returns the retry class of a transport error.
func ClassifyError(err error) ErrorClass {
	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted:
		return ErrorNodeUnavailable
	default:
		return ErrorFatal
	}
}

// WrapError wraps a transport error with the status matching its class.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	switch ClassifyError(err) {
	case ErrorNodeUnavailable:
		return errors.NodeUnavailable.WithCauseAndFormat(err, "node unavailable: %v", err)
	default:
		return errors.TransportError.WithCauseAndFormat(err, "transport: %v", err)
	}
}
