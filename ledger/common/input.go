// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"fmt"
	"math"
	"math/big"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/txreject/cbor"
	utxorpc "github.com/utxorpc/go-codegen/utxorpc/v1alpha/cardano"
)

// TransactionInput references an output of an earlier transaction
type TransactionInput struct {
	cbor.StructAsArray
	TxId        Blake2b256
	OutputIndex uint32
}

func NewTransactionInput(txId Blake2b256, outputIndex uint32) TransactionInput {
	return TransactionInput{
		TxId:        txId,
		OutputIndex: outputIndex,
	}
}

// DecodeTransactionInput reads a [tx_id, index] pair
func DecodeTransactionInput(d *cbor.StructDecoder) (TransactionInput, error) {
	var ret TransactionInput
	if _, err := d.ExpectCollection(2); err != nil {
		return ret, err
	}
	txId, err := d.ExpectBytes(Blake2b256Size)
	if err != nil {
		return ret, err
	}
	offset := d.Cursor().Position()
	index, err := d.ExpectUint()
	if err != nil {
		return ret, err
	}
	if index > math.MaxUint32 {
		return ret, &cbor.ShapeError{
			Expected: "output index",
			Got:      fmt.Sprintf("uint(%d)", index),
			Offset:   offset,
		}
	}
	ret.TxId = NewBlake2b256(txId)
	ret.OutputIndex = uint32(index)
	return ret, nil
}

func (i TransactionInput) Id() Blake2b256 {
	return i.TxId
}

func (i TransactionInput) Index() uint32 {
	return i.OutputIndex
}

func (i TransactionInput) Utxorpc() *utxorpc.TxInput {
	return &utxorpc.TxInput{
		TxHash:      i.TxId.Bytes(),
		OutputIndex: i.OutputIndex,
	}
}

func (i TransactionInput) ToPlutusData() data.PlutusData {
	return data.NewConstr(
		0,
		data.NewByteString(i.TxId.Bytes()),
		data.NewInteger(big.NewInt(int64(i.OutputIndex))),
	)
}

func (i TransactionInput) String() string {
	return fmt.Sprintf("%s#%d", i.TxId, i.OutputIndex)
}

func (i TransactionInput) MarshalJSON() ([]byte, error) {
	return []byte("\"" + i.String() + "\""), nil
}
