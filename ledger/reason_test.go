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

package ledger

import (
	"testing"

	"github.com/blinklabs-io/txreject/internal/test"
	"github.com/blinklabs-io/txreject/ledger/common"
	"github.com/stretchr/testify/assert"
)

func TestFlattenFailure(t *testing.T) {
	keyHash := common.NewBlake2b224(test.DecodeHexString(testKeyHashHex))
	input := common.NewTransactionInput(common.Blake2b256{0x01}, 3)
	testDefs := []struct {
		name     string
		failure  LedgerPredFailure
		expected RejectReason
	}{
		{
			name:     "Nil",
			failure:  nil,
			expected: &UnknownReason{Description: "no failure"},
		},
		{
			name: "BadInputs",
			failure: &UtxowFailure{
				Err: &UtxoFailure{
					Err: &AlonzoInBabbageUtxoPredFailure{
						Err: &BadInputsUtxo{
							Inputs: []common.TransactionInput{input},
						},
					},
				},
			},
			expected: &BadInputs{Inputs: []common.TransactionInput{input}},
		},
		{
			name: "ValueNotConserved",
			failure: &UtxowFailure{
				Err: &UtxoFailure{
					Err: &AlonzoInBabbageUtxoPredFailure{
						Err: &ValueNotConservedUtxo{
							Consumed: common.Value{Coin: 5},
							Produced: common.Value{Coin: 7},
						},
					},
				},
			},
			expected: &ValueNotConserved{
				Consumed: common.Value{Coin: 5},
				Produced: common.Value{Coin: 7},
			},
		},
		{
			name: "MissingVKeyWitnesses",
			failure: &UtxowFailure{
				Err: &AlonzoInBabbageUtxowPredFailure{
					Err: &ShelleyInAlonzoUtxowPredFailure{
						Err: &MissingVKeyWitnessesUtxow{
							KeyHashes: []common.Blake2b224{keyHash},
						},
					},
				},
			},
			expected: &MissingKeyWitnesses{KeyHashes: []common.Blake2b224{keyHash}},
		},
		{
			name: "MissingRequiredSigners",
			failure: &UtxowFailure{
				Err: &AlonzoInBabbageUtxowPredFailure{
					Err: &MissingRequiredSignersUtxow{
						KeyHashes: []common.Blake2b224{keyHash},
					},
				},
			},
			expected: &MissingKeyWitnesses{KeyHashes: []common.Blake2b224{keyHash}},
		},
		{
			name: "MissingScriptWitnesses",
			failure: &UtxowFailure{
				Err: &AlonzoInBabbageUtxowPredFailure{
					Err: &ShelleyInAlonzoUtxowPredFailure{
						Err: &MissingScriptWitnessesUtxow{
							ScriptHashes: []common.Blake2b224{keyHash},
						},
					},
				},
			},
			expected: &MissingScriptWitnesses{
				ScriptHashes: []common.Blake2b224{keyHash},
			},
		},
		{
			name: "NamedLeaf",
			failure: &UtxowFailure{
				Err: &NamedUtxowFailure{
					NamedFailure{
						Tag:  UtxowFailureMalformedReferenceScripts,
						Name: "MalformedReferenceScripts",
					},
				},
			},
			expected: &UnknownReason{
				Description: "UtxowFailure (MalformedReferenceScripts)",
			},
		},
		{
			name: "Delegs",
			failure: &NamedLedgerFailure{
				NamedFailure{Tag: LedgerFailureDelegsFailure, Name: "DelegsFailure"},
			},
			expected: &UnknownReason{Description: "DelegsFailure"},
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			assert.Equal(t, testDef.expected, FlattenFailure(testDef.failure))
		})
	}
}

func TestRejectReasonString(t *testing.T) {
	keyHash := common.NewBlake2b224(test.DecodeHexString(testKeyHashHex))
	assert.Equal(
		t,
		"missing key witnesses: addr_vkh18wysld2ynwhd756z5j8wnj0vdt9un9tyr05j45slprrgvgxct6y",
		(&MissingKeyWitnesses{KeyHashes: []common.Blake2b224{keyHash}}).String(),
	)
	assert.Equal(
		t,
		"missing script witnesses: script18wysld2ynwhd756z5j8wnj0vdt9un9tyr05j45slprrgv5npk79",
		(&MissingScriptWitnesses{ScriptHashes: []common.Blake2b224{keyHash}}).String(),
	)
	assert.Equal(
		t,
		"value not conserved: consumed 5 lovelace, produced 7 lovelace",
		(&ValueNotConserved{
			Consumed: common.Value{Coin: 5},
			Produced: common.Value{Coin: 7},
		}).String(),
	)
	input := common.NewTransactionInput(common.Blake2b256{}, 1)
	assert.Equal(
		t,
		"inputs not found or already spent: "+input.String(),
		(&BadInputs{Inputs: []common.TransactionInput{input}}).String(),
	)
	assert.Equal(t, ReasonKindUnknown, (&UnknownReason{}).Kind())
}
