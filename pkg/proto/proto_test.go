// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package proto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/keys"
)

func TestEntityIDEncoding(t *testing.T) {
	require.Equal(t, []byte{0x18, 0x03}, Marshal(NewAccountID(hedera.NewAccountID(3))))
	require.Equal(t, []byte{0x08, 0x01, 0x10, 0x02, 0x18, 0x03}, Marshal(&EntityID{ShardNum: 1, RealmNum: 2, Num: 3}))

	// An empty sub-message is still written
	b := Marshal(&TransactionBody{NodeAccountID: new(AccountID)})
	require.Equal(t, []byte{0x12, 0x00}, b)
}

func TestDecodeSkipsUnknownFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 99, protowire.VarintType)
	b = protowire.AppendVarint(b, 1234)
	b = protowire.AppendTag(b, 98, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 1)
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)

	id := new(EntityID)
	require.NoError(t, id.UnmarshalBinary(b))
	require.Equal(t, &EntityID{Num: 7}, id)

	// So is a body payload of a kind this package does not model
	b = protowire.AppendTag(nil, 99, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte{1, 2, 3})
	body := new(TransactionBody)
	require.NoError(t, body.UnmarshalBinary(b))
	require.Nil(t, body.Data)
}

func TestDecodeTruncated(t *testing.T) {
	b := Marshal(&SignedTransaction{BodyBytes: []byte("body")})
	err := new(SignedTransaction).UnmarshalBinary(b[:len(b)-1])
	require.ErrorIs(t, err, errors.EncodingError)

	// A sub-message field with a varint value
	b = protowire.AppendTag(nil, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, 1)
	err = new(TransactionBody).UnmarshalBinary(b)
	require.ErrorIs(t, err, errors.EncodingError)
}

func TestTransactionIDConversion(t *testing.T) {
	nonce := int32(4)
	id := hedera.TransactionID{
		AccountID:  hedera.NewAccountID(1001),
		ValidStart: time.Unix(1700000000, 5).UTC(),
		Nonce:      &nonce,
		Scheduled:  true,
	}

	decoded := new(TransactionID)
	require.NoError(t, decoded.UnmarshalBinary(Marshal(NewTransactionID(id))))
	require.True(t, decoded.Equal(NewTransactionID(id)))

	back, err := decoded.TransactionID()
	require.NoError(t, err)
	require.True(t, id.Equal(back))

	_, err = (&TransactionID{AccountID: NewAccountID(id.AccountID)}).TransactionID()
	require.ErrorIs(t, err, errors.EncodingError)
}

func TestBodiesEqual(t *testing.T) {
	txid := func(secs int64) *TransactionID {
		return NewTransactionID(hedera.TransactionID{AccountID: hedera.NewAccountID(1001), ValidStart: time.Unix(secs, 0)})
	}
	topic := func(num uint64, message string) *TransactionBody {
		return &TransactionBody{
			TransactionID:            txid(int64(num) + int64(len(message))),
			NodeAccountID:            NewAccountID(hedera.NewAccountID(3 + uint64(len(message)))),
			TransactionFee:           100,
			TransactionValidDuration: NewDuration(2 * time.Minute),
			Memo:                     "memo",
			Data: &ConsensusSubmitMessageTransactionBody{
				TopicID: NewEntityID(hedera.EntityID{Num: num}),
				Message: []byte(message),
			},
		}
	}

	require.True(t, BodiesEqual(topic(77, "a"), topic(77, "bc")))
	require.False(t, BodiesEqual(topic(77, "a"), topic(78, "a")))

	other := topic(77, "a")
	other.Memo = "other"
	require.False(t, BodiesEqual(topic(77, "a"), other))

	other = topic(77, "a")
	other.TransactionValidDuration = nil
	require.False(t, BodiesEqual(topic(77, "a"), other))

	transfer := func(amount int64) *TransactionBody {
		return &TransactionBody{Data: &CryptoTransferTransactionBody{Transfers: &TransferList{
			AccountAmounts: []*AccountAmount{{AccountID: NewAccountID(hedera.NewAccountID(2)), Amount: amount}},
		}}}
	}
	require.True(t, BodiesEqual(transfer(-5), transfer(-5)))
	require.False(t, BodiesEqual(transfer(-5), transfer(5)))
	require.False(t, BodiesEqual(transfer(5), topic(77, "a")))
	require.False(t, BodiesEqual(transfer(5), new(TransactionBody)))
}

func TestNewSignaturePair(t *testing.T) {
	ed, err := keys.GenerateED25519()
	require.NoError(t, err)
	p := NewSignaturePair(ed.PublicKey(), []byte("sig"))
	require.Equal(t, ed.PublicKey().Bytes(), p.PubKeyPrefix)
	require.Equal(t, []byte("sig"), p.Ed25519)
	require.Nil(t, p.ECDSASecp256k1)

	ec, err := keys.GenerateECDSA()
	require.NoError(t, err)
	p = NewSignaturePair(ec.PublicKey(), []byte("sig"))
	require.Equal(t, []byte("sig"), p.ECDSASecp256k1)
	require.Nil(t, p.Ed25519)
	require.Equal(t, &Key{ECDSASecp256k1: ec.PublicKey().Bytes()}, NewKey(ec.PublicKey()))
}

func TestDurationTruncates(t *testing.T) {
	require.Equal(t, 90*time.Second, NewDuration(90*time.Second+500*time.Millisecond).Duration())
}
