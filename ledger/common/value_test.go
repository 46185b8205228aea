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
	"testing"

	"github.com/blinklabs-io/txreject/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValue(t *testing.T) {
	testDefs := []struct {
		name         string
		cborHex      string
		expectedCoin uint64
		expectedStr  string
	}{
		{
			name:         "Coin",
			cborHex:      "1a000f4240",
			expectedCoin: 1000000,
			expectedStr:  "1000000 lovelace",
		},
		{
			name:         "CoinAndAssets",
			cborHex:      "8201a1581c00000000000000000000000000000000000000000000000000000000a1416102",
			expectedCoin: 1,
			expectedStr:  "1 lovelace + [00000000000000000000000000000000000000000000000000000000.61=2]",
		},
		{
			name:         "EmptyAssets",
			cborHex:      "8205a0",
			expectedCoin: 5,
			expectedStr:  "5 lovelace",
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			d := newTestDecoder(testDef.cborHex)
			value, err := DecodeValue(d)
			require.NoError(t, err)
			assert.Equal(t, 0, d.Depth())
			assert.True(t, d.Cursor().EOF())
			assert.Equal(t, testDef.expectedCoin, value.Coin)
			assert.Equal(t, testDef.expectedStr, value.String())
		})
	}
}

func TestDecodeValueBadAssets(t *testing.T) {
	// [1, "x"]
	d := newTestDecoder("82016178")
	_, err := DecodeValue(d)
	require.Error(t, err)
	assert.Equal(t, 0, d.Depth())
	assert.True(t, d.Cursor().EOF())
}

func TestDecodeValueNegative(t *testing.T) {
	d := newTestDecoder("20")
	_, err := DecodeValue(d)
	require.ErrorIs(t, err, cbor.ErrUnexpectedShape)
}

func TestValueUnmarshalCBOR(t *testing.T) {
	var value Value
	require.NoError(t, value.UnmarshalCBOR([]byte{0x18, 0x64}))
	assert.Equal(t, uint64(100), value.Coin)
	jsonData, err := json.Marshal(value)
	require.NoError(t, err)
	assert.JSONEq(t, `{"coin":100}`, string(jsonData))
}
