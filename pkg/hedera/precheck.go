// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package hedera

import (
	"fmt"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
)

// PrecheckError is returned when a node rejects a transaction or query before
// it reaches consensus.
type PrecheckError struct {
	Status        ResponseCode
	TransactionID *TransactionID

	// Cost is set when a query was rejected because of its payment.
	Cost *Hbar
}

var _ errors.Coder = (*PrecheckError)(nil)

func (e *PrecheckError) Error() string {
	switch {
	case e.TransactionID != nil:
		return fmt.Sprintf("transaction %v failed pre-check with status %v", e.TransactionID, e.Status)
	case e.Cost != nil:
		return fmt.Sprintf("query failed pre-check with status %v (cost %v)", e.Status, *e.Cost)
	default:
		return fmt.Sprintf("query failed pre-check with status %v", e.Status)
	}
}

func (e *PrecheckError) ErrorCode() errors.Status { return errors.PrecheckFailed }

// ReceiptStatusError is returned when a receipt was requested with status
// validation and its status is not SUCCESS.
type ReceiptStatusError struct {
	Status        ResponseCode
	TransactionID *TransactionID
}

var _ errors.Coder = (*ReceiptStatusError)(nil)

func (e *ReceiptStatusError) Error() string {
	if e.TransactionID == nil {
		return fmt.Sprintf("receipt has status %v", e.Status)
	}
	return fmt.Sprintf("receipt for transaction %v has status %v", e.TransactionID, e.Status)
}

func (e *ReceiptStatusError) ErrorCode() errors.Status { return errors.ReceiptStatus }
