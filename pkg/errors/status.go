// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package errors

import (
	"fmt"
	"strings"
)

// Status is a request status code.
type Status uint64

const (
	// OK means the request completed successfully.
	OK Status = 200

	// BadRequest means the request was malformed or invalid.
	BadRequest Status = 400
	// FreezeUnsetNodeAccountIDs means a transaction was frozen without a
	// client and without an explicit node list.
	FreezeUnsetNodeAccountIDs Status = 401
	// TransactionFrozen means a transaction was modified after it was frozen.
	TransactionFrozen Status = 402
	// MaxChunksExceeded means a chunked payload needs more chunks than allowed.
	MaxChunksExceeded Status = 403
	// BadChunkSize means the chunk size is zero.
	BadChunkSize Status = 404
	// BadEntityID means an entity ID checksum does not match the ledger.
	BadEntityID Status = 405
	// NodeAccountUnknown means a node account ID is not part of the network.
	NodeAccountUnknown Status = 406
	// NoPayerAccountOrTransactionID means a request needed a transaction ID
	// but had neither an explicit one nor an operator to generate one.
	NoPayerAccountOrTransactionID Status = 407
	// MaxQueryPaymentExceeded means the cost of a query exceeds the maximum
	// payment the caller is willing to make.
	MaxQueryPaymentExceeded Status = 408
	// SignatureVerify means a signature failed to verify.
	SignatureVerify Status = 409
	// ParseError means a value could not be parsed.
	ParseError Status = 410
	// EncodingError means a wire message could not be encoded or decoded.
	EncodingError Status = 411
	// ReceiptStatus means a receipt was returned with a failing status.
	ReceiptStatus Status = 412
	// PrecheckFailed means a node rejected the request during pre-check.
	PrecheckFailed Status = 413

	// InternalError means something went wrong that should not be possible.
	InternalError Status = 500
	// UnknownError means the cause of the error is not known.
	UnknownError Status = 501
	// TransportError means the request could not be delivered and should not
	// be retried.
	TransportError Status = 502
	// NodeUnavailable means the node could not serve the request right now.
	NodeUnavailable Status = 503
	// TimedOut means the retry budget was exhausted.
	TimedOut Status = 504
	// MaxAttemptsExceeded means the request was attempted the maximum number
	// of times without success.
	MaxAttemptsExceeded Status = 505
	// ResponseStatusUnrecognized means a node returned a status code the
	// client does not know.
	ResponseStatusUnrecognized Status = 506
)

var statusNames = map[Status]string{
	OK:                            "ok",
	BadRequest:                    "badRequest",
	FreezeUnsetNodeAccountIDs:     "freezeUnsetNodeAccountIds",
	TransactionFrozen:             "transactionFrozen",
	MaxChunksExceeded:             "maxChunksExceeded",
	BadChunkSize:                  "badChunkSize",
	BadEntityID:                   "badEntityId",
	NodeAccountUnknown:            "nodeAccountUnknown",
	NoPayerAccountOrTransactionID: "noPayerAccountOrTransactionId",
	MaxQueryPaymentExceeded:       "maxQueryPaymentExceeded",
	SignatureVerify:               "signatureVerify",
	ParseError:                    "parseError",
	EncodingError:                 "encodingError",
	ReceiptStatus:                 "receiptStatus",
	PrecheckFailed:                "precheckFailed",
	InternalError:                 "internalError",
	UnknownError:                  "unknownError",
	TransportError:                "transportError",
	NodeUnavailable:               "nodeUnavailable",
	TimedOut:                      "timedOut",
	MaxAttemptsExceeded:           "maxAttemptsExceeded",
	ResponseStatusUnrecognized:    "responseStatusUnrecognized",
}

// StatusByName returns the named Status.
func StatusByName(name string) (Status, bool) {
	for s, n := range statusNames {
		if strings.EqualFold(n, name) {
			return s, true
		}
	}
	return 0, false
}

// String returns the name of the Status.
func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Status:%d", s)
}

// Success returns true if the status represents success.
func (s Status) Success() bool { return s < 300 }

// IsKnownError returns true if the status is non-zero and not UnknownError.
func (s Status) IsKnownError() bool { return s != 0 && s != UnknownError }

// IsClientError returns true if the status is a client error. Client errors
// are raised before anything is sent to the network.
func (s Status) IsClientError() bool { return s >= 400 && s < 500 }

// IsServerError returns true if the status is a server or transport error.
func (s Status) IsServerError() bool { return s >= 500 }

// Error implements error.
func (s Status) Error() string { return s.String() }

// Skip skips N frames when locating the call site.
func (s Status) Skip(n int) Factory {
	return Factory{Skip: n, Code: s}
}

func (s Status) Wrap(err error) error {
	return s.Skip(1).Wrap(err)
}

func (s Status) With(v ...interface{}) *Error {
	return s.Skip(1).With(v...)
}

func (s Status) WithFormat(format string, args ...interface{}) *Error {
	return s.Skip(1).WithFormat(format, args...)
}

func (s Status) WithCauseAndFormat(cause error, format string, args ...interface{}) *Error {
	return s.Skip(1).WithCauseAndFormat(cause, format, args...)
}
