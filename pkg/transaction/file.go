// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package transaction

import (
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/network"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/proto"
)

// FileAppendChunkSize is the default chunk size of file appends.
const FileAppendChunkSize = 4096

// FileAppendData appends contents to a file. Each chunk must reach
// consensus before the next is sent, since appends are applied in order.
type FileAppendData struct {
	FileID hedera.FileID
	Chunks ChunkData
}

type FileAppendTransaction = Transaction[*FileAppendData]

// NewFileAppendTransaction returns a transaction that appends the contents
// to the file.
func NewFileAppendTransaction(file hedera.FileID, contents []byte) *FileAppendTransaction {
	chunks := NewChunkData(contents)
	chunks.ChunkSize = FileAppendChunkSize
	return New(&FileAppendData{FileID: file, Chunks: chunks})
}

var _ Chunked = (*FileAppendData)(nil)

func (*FileAppendData) Method() string                        { return network.MethodFileAppend }
func (*FileAppendData) DefaultMaxTransactionFee() hedera.Hbar { return hedera.NewHbar(5) }
func (*FileAppendData) WaitForReceipt() bool                  { return true }
func (d *FileAppendData) ChunkData() *ChunkData               { return &d.Chunks }

func (d *FileAppendData) Copy() Data {
	return &FileAppendData{FileID: d.FileID, Chunks: d.Chunks.Copy()}
}

func (d *FileAppendData) ValidateChecksums(ledger hedera.LedgerID) error {
	return d.FileID.ValidateChecksum(ledger)
}

func (d *FileAppendData) TransactionData(chunk ChunkInfo) proto.TransactionData {
	return &proto.FileAppendTransactionBody{
		FileID:   proto.NewEntityID(d.FileID.EntityID),
		Contents: d.Chunks.Chunk(chunk.Current),
	}
}

func fileAppendFromBodies(bodies []*proto.FileAppendTransactionBody) *FileAppendData {
	d := new(FileAppendData)
	if bodies[0].FileID != nil {
		d.FileID = bodies[0].FileID.FileID()
	}
	chunks := make([][]byte, len(bodies))
	for i, body := range bodies {
		chunks[i] = body.Contents
	}
	d.Chunks = joinChunks(chunks)
	return d
}
