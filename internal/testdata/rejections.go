// Copyright 2026 Blink Labs Software
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

// Package testdata provides captured local-tx-submission rejection payloads for tests.
package testdata

import (
	_ "embed"
	"encoding/hex"
	"strings"
)

// Babbage rejection with ExtraRedeemers, three bare integers in place of failures,
// UtxosFailure, ValueNotConservedUtxo carrying a native token and BadInputsUtxo
//
//go:embed reject_value_not_conserved.hex
var RejectValueNotConservedHex string

// Babbage rejection from a script spend: ExtraneousScriptWitnessesUTXOW,
// NotAllowedSupplementalDatums, ExtraRedeemers, PPViewHashesDontMatch,
// ValueNotConservedUtxo, BadInputsUtxo, NoCollateralInputs, a 3-element
// IncorrectTotalCollateralField, InsufficientCollateral and OutsideValidityIntervalUTxO,
// with two bare integers between them
//
//go:embed reject_script_witnesses.hex
var RejectScriptWitnessesHex string

// Babbage rejection whose only failure uses tag 100 at the Alonzo UTXO layer
//
//go:embed reject_unsupported_tag.hex
var RejectUnsupportedTagHex string

// TestRejection describes a captured rejection and what decoding it should produce
type TestRejection struct {
	Name     string
	Cbor     []byte
	Failures int
	Skipped  int
}

// GetTestRejections returns the captured rejection payloads
func GetTestRejections() []TestRejection {
	return []TestRejection{
		{
			Name:     "ValueNotConserved",
			Cbor:     MustDecodeHex(RejectValueNotConservedHex),
			Failures: 4,
			Skipped:  3,
		},
		{
			Name:     "ScriptWitnesses",
			Cbor:     MustDecodeHex(RejectScriptWitnessesHex),
			Failures: 9,
			Skipped:  3,
		},
		{
			Name:     "UnsupportedTag",
			Cbor:     MustDecodeHex(RejectUnsupportedTagHex),
			Failures: 0,
			Skipped:  1,
		},
	}
}

// MustDecodeHex decodes a hex string to bytes, panicking on error.
func MustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		panic(err)
	}
	return b
}
