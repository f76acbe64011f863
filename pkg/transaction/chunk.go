// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package transaction

import (
	"bytes"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
)

// ChunkInfo describes the chunk and node a body is built for.
type ChunkInfo struct {
	Current int
	Total   int

	// InitialTransactionID is the ID of the first chunk. The network uses it
	// to reassemble the chunks.
	InitialTransactionID hedera.TransactionID

	// CurrentTransactionID is the ID of this chunk.
	CurrentTransactionID hedera.TransactionID

	NodeAccountID hedera.AccountID
}

// Chunking defaults.
const (
	DefaultMaxChunks = 20
	DefaultChunkSize = 1024
)

// ChunkData is a payload that is split into chunks when it is too large for
// a single transaction.
type ChunkData struct {
	// MaxChunks is the most chunks the payload may be split into.
	MaxChunks int

	// ChunkSize is the largest number of bytes in a chunk. It must not be
	// zero.
	ChunkSize int

	Data []byte
}

// NewChunkData returns chunk data with the default limits.
func NewChunkData(data []byte) ChunkData {
	return ChunkData{MaxChunks: DefaultMaxChunks, ChunkSize: DefaultChunkSize, Data: data}
}

// Copy returns a copy that does not share the payload.
func (c ChunkData) Copy() ChunkData {
	c.Data = bytes.Clone(c.Data)
	return c
}

// joinChunks rebuilds chunk data from decoded chunks. The maximum is the
// number of chunks and the chunk size is the largest chunk.
func joinChunks(chunks [][]byte) ChunkData {
	c := ChunkData{MaxChunks: len(chunks), ChunkSize: 1}
	for _, b := range chunks {
		if len(b) > c.ChunkSize {
			c.ChunkSize = len(b)
		}
		c.Data = append(c.Data, b...)
	}
	return c
}

// UsedChunks returns the number of chunks the data is split into. Empty data
// still uses one chunk.
func (c *ChunkData) UsedChunks() int {
	if len(c.Data) == 0 || c.ChunkSize <= 0 {
		return 1
	}
	return (len(c.Data) + c.ChunkSize - 1) / c.ChunkSize
}

// MaxMessageLen returns the largest payload that fits in the maximum number
// of chunks.
func (c *ChunkData) MaxMessageLen() int { return c.MaxChunks * c.ChunkSize }

// Chunk returns the part of the data carried by the i'th chunk.
func (c *ChunkData) Chunk(i int) []byte {
	if c.ChunkSize <= 0 {
		return c.Data
	}
	start := i * c.ChunkSize
	if start >= len(c.Data) {
		return nil
	}
	end := start + c.ChunkSize
	if end > len(c.Data) {
		end = len(c.Data)
	}
	return c.Data[start:end]
}

// Validate returns an error if the chunk size is zero or the data needs
// more than the maximum number of chunks.
func (c *ChunkData) Validate() error {
	if c.ChunkSize <= 0 {
		return errors.BadChunkSize.With("chunk size must not be zero")
	}
	if used := c.UsedChunks(); used > c.MaxChunks {
		return errors.MaxChunksExceeded.WithFormat("message of %d bytes requires %d chunks of %d bytes but the maximum is %d",
			len(c.Data), used, c.ChunkSize, c.MaxChunks)
	}
	return nil
}

// Chunked is implemented by kinds whose payload may be split into chunks.
type Chunked interface {
	Data

	// ChunkData returns the chunked payload, or nil if the kind does not
	// chunk.
	ChunkData() *ChunkData

	// WaitForReceipt returns true if each chunk's receipt must be received
	// before the next chunk is sent.
	WaitForReceipt() bool
}

// chunksOf returns the chunked payload of the data, or nil.
func chunksOf(d Data) *ChunkData {
	c, ok := d.(Chunked)
	if !ok {
		return nil
	}
	return c.ChunkData()
}

func waitsForReceipt(d Data) bool {
	c, ok := d.(Chunked)
	return ok && c.ChunkData() != nil && c.WaitForReceipt()
}
