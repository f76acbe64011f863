// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package hedera

// TransactionReceipt is the consensus outcome of a transaction.
type TransactionReceipt struct {
	TransactionID *TransactionID
	Status        ResponseCode

	// Entities created by the transaction
	AccountID *AccountID
	FileID    *FileID
	TopicID   *TopicID

	TopicSequenceNumber     uint64
	TopicRunningHash        []byte
	TopicRunningHashVersion uint64
	ScheduledTransactionID  *TransactionID

	Duplicates []TransactionReceipt
	Children   []TransactionReceipt
}

// ValidateStatus returns a [ReceiptStatusError] if validate is set and the
// status is not SUCCESS.
func (r *TransactionReceipt) ValidateStatus(validate bool) error {
	if validate && r.Status != ResponseCodeSuccess {
		return &ReceiptStatusError{Status: r.Status, TransactionID: r.TransactionID}
	}
	return nil
}

// AccountBalance is the balance of an account.
type AccountBalance struct {
	AccountID AccountID
	Hbars     Hbar
}
