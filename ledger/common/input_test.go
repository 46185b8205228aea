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
	"encoding/json"
	"math/big"
	"testing"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/txreject/cbor"
	"github.com/blinklabs-io/txreject/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTxIdHex = "0faddf00919ef15d38ac07684199e69be95a003a15f757bf77701072b050c1f5"

func newTestDecoder(cborHex string) *cbor.StructDecoder {
	return cbor.NewStructDecoder(cbor.NewCursor(test.DecodeHexString(cborHex)))
}

func TestDecodeTransactionInput(t *testing.T) {
	d := newTestDecoder("825820" + testTxIdHex + "1903e8")
	input, err := DecodeTransactionInput(d)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Depth())
	assert.True(t, d.Cursor().EOF())
	assert.Equal(t, testTxIdHex, input.Id().String())
	assert.Equal(t, uint32(1000), input.Index())
	assert.Equal(t, testTxIdHex+"#1000", input.String())
}

func TestDecodeTransactionInputErrors(t *testing.T) {
	testDefs := []struct {
		name    string
		cborHex string
		depth   int
	}{
		{
			name:    "ShortHash",
			cborHex: "8242010200",
			depth:   1,
		},
		{
			name:    "IndexTooLarge",
			cborHex: "825820" + testTxIdHex + "1b0000000100000000",
			depth:   0,
		},
		{
			name:    "WrongLength",
			cborHex: "83" + "5820" + testTxIdHex + "0000",
			depth:   1,
		},
		{
			name:    "NotArray",
			cborHex: "00",
			depth:   0,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			d := newTestDecoder(testDef.cborHex)
			_, err := DecodeTransactionInput(d)
			var shapeErr *cbor.ShapeError
			require.ErrorAs(t, err, &shapeErr)
			assert.Equal(t, testDef.depth, d.Depth())
			require.NoError(t, d.Drain())
			assert.True(t, d.Cursor().EOF())
		})
	}
}

func TestTransactionInputConversions(t *testing.T) {
	txId := NewBlake2b256(test.DecodeHexString(testTxIdHex))
	input := NewTransactionInput(txId, 7)
	rpcInput := input.Utxorpc()
	assert.Equal(t, txId.Bytes(), rpcInput.TxHash)
	assert.Equal(t, uint32(7), rpcInput.OutputIndex)
	assert.Equal(
		t,
		data.NewConstr(
			0,
			data.NewByteString(txId.Bytes()),
			data.NewInteger(big.NewInt(7)),
		),
		input.ToPlutusData(),
	)
	jsonData, err := json.Marshal(input)
	require.NoError(t, err)
	assert.Equal(t, `"`+testTxIdHex+`#7"`, string(jsonData))
}
