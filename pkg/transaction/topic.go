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

// TopicMessageSubmitData submits a message to a consensus topic. A message
// larger than the chunk size is split into chunks, which the network
// reassembles using the ID of the first chunk.
type TopicMessageSubmitData struct {
	TopicID hedera.TopicID
	Chunks  ChunkData
}

type TopicMessageSubmitTransaction = Transaction[*TopicMessageSubmitData]

// NewTopicMessageSubmitTransaction returns a transaction that submits the
// message to the topic.
func NewTopicMessageSubmitTransaction(topic hedera.TopicID, message []byte) *TopicMessageSubmitTransaction {
	return New(&TopicMessageSubmitData{TopicID: topic, Chunks: NewChunkData(message)})
}

var _ Chunked = (*TopicMessageSubmitData)(nil)

func (*TopicMessageSubmitData) Method() string                        { return network.MethodSubmitMessage }
func (*TopicMessageSubmitData) DefaultMaxTransactionFee() hedera.Hbar { return defaultMaxTransactionFee }
func (*TopicMessageSubmitData) WaitForReceipt() bool                  { return false }
func (d *TopicMessageSubmitData) ChunkData() *ChunkData               { return &d.Chunks }

func (d *TopicMessageSubmitData) Copy() Data {
	return &TopicMessageSubmitData{TopicID: d.TopicID, Chunks: d.Chunks.Copy()}
}

func (d *TopicMessageSubmitData) ValidateChecksums(ledger hedera.LedgerID) error {
	return d.TopicID.ValidateChecksum(ledger)
}

func (d *TopicMessageSubmitData) TransactionData(chunk ChunkInfo) proto.TransactionData {
	body := &proto.ConsensusSubmitMessageTransactionBody{
		TopicID: proto.NewEntityID(d.TopicID.EntityID),
		Message: d.Chunks.Chunk(chunk.Current),
	}
	if chunk.Total > 1 {
		body.ChunkInfo = &proto.ConsensusMessageChunkInfo{
			InitialTransactionID: proto.NewTransactionID(chunk.InitialTransactionID),
			Total:                int32(chunk.Total),
			Number:               int32(chunk.Current + 1),
		}
	}
	return body
}

func topicMessageFromBodies(bodies []*proto.ConsensusSubmitMessageTransactionBody) *TopicMessageSubmitData {
	d := new(TopicMessageSubmitData)
	if bodies[0].TopicID != nil {
		d.TopicID = bodies[0].TopicID.TopicID()
	}
	chunks := make([][]byte, len(bodies))
	for i, body := range bodies {
		chunks[i] = body.Message
	}
	d.Chunks = joinChunks(chunks)
	return d
}
