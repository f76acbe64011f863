// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package hedera

import "fmt"

// ResponseCode is a status code returned by a node, either as a pre-check
// result or as the status of a receipt.
type ResponseCode int32

const (
	ResponseCodeOk                            ResponseCode = 0
	ResponseCodeInvalidTransaction            ResponseCode = 1
	ResponseCodePayerAccountNotFound          ResponseCode = 2
	ResponseCodeInvalidNodeAccount            ResponseCode = 3
	ResponseCodeTransactionExpired            ResponseCode = 4
	ResponseCodeInvalidTransactionStart       ResponseCode = 5
	ResponseCodeInvalidTransactionDuration    ResponseCode = 6
	ResponseCodeInvalidSignature              ResponseCode = 7
	ResponseCodeMemoTooLong                   ResponseCode = 8
	ResponseCodeInsufficientTxFee             ResponseCode = 9
	ResponseCodeInsufficientPayerBalance      ResponseCode = 10
	ResponseCodeDuplicateTransaction          ResponseCode = 11
	ResponseCodeBusy                          ResponseCode = 12
	ResponseCodeNotSupported                  ResponseCode = 13
	ResponseCodeInvalidFileID                 ResponseCode = 14
	ResponseCodeInvalidAccountID              ResponseCode = 15
	ResponseCodeInvalidContractID             ResponseCode = 16
	ResponseCodeInvalidTransactionID          ResponseCode = 17
	ResponseCodeReceiptNotFound               ResponseCode = 18
	ResponseCodeRecordNotFound                ResponseCode = 19
	ResponseCodeInvalidSolidityID             ResponseCode = 20
	ResponseCodeUnknown                       ResponseCode = 21
	ResponseCodeSuccess                       ResponseCode = 22
	ResponseCodeFailInvalid                   ResponseCode = 23
	ResponseCodeFailFee                       ResponseCode = 24
	ResponseCodeFailBalance                   ResponseCode = 25
	ResponseCodeKeyRequired                   ResponseCode = 26
	ResponseCodeBadEncoding                   ResponseCode = 27
	ResponseCodeInsufficientAccountBalance    ResponseCode = 28
	ResponseCodeInvalidReceivingNodeAccount   ResponseCode = 35
	ResponseCodeMissingQueryHeader            ResponseCode = 36
	ResponseCodeInvalidQueryHeader            ResponseCode = 41
	ResponseCodeInvalidFeeSubmitted           ResponseCode = 42
	ResponseCodeInvalidPayerSignature         ResponseCode = 43
	ResponseCodeKeyNotProvided                ResponseCode = 44
	ResponseCodeInvalidAccountAmounts         ResponseCode = 48
	ResponseCodeEmptyTransactionBody          ResponseCode = 49
	ResponseCodeInvalidTransactionBody        ResponseCode = 50
	ResponseCodeTransactionOversize           ResponseCode = 64
	ResponseCodePlatformNotActive             ResponseCode = 67
	ResponseCodePlatformTransactionNotCreated ResponseCode = 69
	ResponseCodeAccountDeleted                ResponseCode = 72
	ResponseCodeFileDeleted                   ResponseCode = 73
	ResponseCodeInvalidTopicID                ResponseCode = 150
	ResponseCodeInvalidTopicMessage           ResponseCode = 158
	ResponseCodeTopicExpired                  ResponseCode = 162
	ResponseCodeInvalidChunkNumber            ResponseCode = 163
	ResponseCodeInvalidChunkTransactionID     ResponseCode = 164
)

var responseCodeNames = map[ResponseCode]string{
	ResponseCodeOk:                            "OK",
	ResponseCodeInvalidTransaction:            "INVALID_TRANSACTION",
	ResponseCodePayerAccountNotFound:          "PAYER_ACCOUNT_NOT_FOUND",
	ResponseCodeInvalidNodeAccount:            "INVALID_NODE_ACCOUNT",
	ResponseCodeTransactionExpired:            "TRANSACTION_EXPIRED",
	ResponseCodeInvalidTransactionStart:       "INVALID_TRANSACTION_START",
	ResponseCodeInvalidTransactionDuration:    "INVALID_TRANSACTION_DURATION",
	ResponseCodeInvalidSignature:              "INVALID_SIGNATURE",
	ResponseCodeMemoTooLong:                   "MEMO_TOO_LONG",
	ResponseCodeInsufficientTxFee:             "INSUFFICIENT_TX_FEE",
	ResponseCodeInsufficientPayerBalance:      "INSUFFICIENT_PAYER_BALANCE",
	ResponseCodeDuplicateTransaction:          "DUPLICATE_TRANSACTION",
	ResponseCodeBusy:                          "BUSY",
	ResponseCodeNotSupported:                  "NOT_SUPPORTED",
	ResponseCodeInvalidFileID:                 "INVALID_FILE_ID",
	ResponseCodeInvalidAccountID:              "INVALID_ACCOUNT_ID",
	ResponseCodeInvalidContractID:             "INVALID_CONTRACT_ID",
	ResponseCodeInvalidTransactionID:          "INVALID_TRANSACTION_ID",
	ResponseCodeReceiptNotFound:               "RECEIPT_NOT_FOUND",
	ResponseCodeRecordNotFound:                "RECORD_NOT_FOUND",
	ResponseCodeInvalidSolidityID:             "INVALID_SOLIDITY_ID",
	ResponseCodeUnknown:                       "UNKNOWN",
	ResponseCodeSuccess:                       "SUCCESS",
	ResponseCodeFailInvalid:                   "FAIL_INVALID",
	ResponseCodeFailFee:                       "FAIL_FEE",
	ResponseCodeFailBalance:                   "FAIL_BALANCE",
	ResponseCodeKeyRequired:                   "KEY_REQUIRED",
	ResponseCodeBadEncoding:                   "BAD_ENCODING",
	ResponseCodeInsufficientAccountBalance:    "INSUFFICIENT_ACCOUNT_BALANCE",
	ResponseCodeInvalidReceivingNodeAccount:   "INVALID_RECEIVING_NODE_ACCOUNT",
	ResponseCodeMissingQueryHeader:            "MISSING_QUERY_HEADER",
	ResponseCodeInvalidQueryHeader:            "INVALID_QUERY_HEADER",
	ResponseCodeInvalidFeeSubmitted:           "INVALID_FEE_SUBMITTED",
	ResponseCodeInvalidPayerSignature:         "INVALID_PAYER_SIGNATURE",
	ResponseCodeKeyNotProvided:                "KEY_NOT_PROVIDED",
	ResponseCodeInvalidAccountAmounts:         "INVALID_ACCOUNT_AMOUNTS",
	ResponseCodeEmptyTransactionBody:          "EMPTY_TRANSACTION_BODY",
	ResponseCodeInvalidTransactionBody:        "INVALID_TRANSACTION_BODY",
	ResponseCodeTransactionOversize:           "TRANSACTION_OVERSIZE",
	ResponseCodePlatformNotActive:             "PLATFORM_NOT_ACTIVE",
	ResponseCodePlatformTransactionNotCreated: "PLATFORM_TRANSACTION_NOT_CREATED",
	ResponseCodeAccountDeleted:                "ACCOUNT_DELETED",
	ResponseCodeFileDeleted:                   "FILE_DELETED",
	ResponseCodeInvalidTopicID:                "INVALID_TOPIC_ID",
	ResponseCodeInvalidTopicMessage:           "INVALID_TOPIC_MESSAGE",
	ResponseCodeTopicExpired:                  "TOPIC_EXPIRED",
	ResponseCodeInvalidChunkNumber:            "INVALID_CHUNK_NUMBER",
	ResponseCodeInvalidChunkTransactionID:     "INVALID_CHUNK_TRANSACTION_ID",
}

// ResponseCodeFromInt32 returns the response code for the wire value and
// whether it is a code this client recognizes.
func ResponseCodeFromInt32(v int32) (ResponseCode, bool) {
	c := ResponseCode(v)
	_, ok := responseCodeNames[c]
	return c, ok
}

// ResponseCodeByName returns the response code with the given name.
func ResponseCodeByName(name string) (ResponseCode, bool) {
	for c, n := range responseCodeNames {
		if n == name {
			return c, true
		}
	}
	return 0, false
}

func (c ResponseCode) String() string {
	if n, ok := responseCodeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("ResponseCode(%d)", int32(c))
}
