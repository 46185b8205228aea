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
	"errors"
	"fmt"
	"strings"

	"github.com/blinklabs-io/txreject/ledger/common"
)

const (
	keyHashBech32Prefix    = "addr_vkh"
	scriptHashBech32Prefix = "script"
)

type ReasonKind string

const (
	ReasonKindBadInputs              ReasonKind = "BadInputs"
	ReasonKindValueNotConserved      ReasonKind = "ValueNotConserved"
	ReasonKindMissingKeyWitnesses    ReasonKind = "MissingKeyWitnesses"
	ReasonKindMissingScriptWitnesses ReasonKind = "MissingScriptWitnesses"
	ReasonKindUnknown                ReasonKind = "Unknown"
)

// RejectReason is the application-facing summary of a single ledger failure
type RejectReason interface {
	fmt.Stringer
	Kind() ReasonKind
	isRejectReason()
}

type BadInputs struct {
	Inputs []common.TransactionInput `json:"inputs"`
}

func (*BadInputs) isRejectReason() {}

func (*BadInputs) Kind() ReasonKind {
	return ReasonKindBadInputs
}

func (r *BadInputs) String() string {
	inputs := make([]string, 0, len(r.Inputs))
	for _, input := range r.Inputs {
		inputs = append(inputs, input.String())
	}
	return "inputs not found or already spent: " + strings.Join(inputs, ", ")
}

type ValueNotConserved struct {
	Consumed common.Value `json:"consumed"`
	Produced common.Value `json:"produced"`
}

func (*ValueNotConserved) isRejectReason() {}

func (*ValueNotConserved) Kind() ReasonKind {
	return ReasonKindValueNotConserved
}

func (r *ValueNotConserved) String() string {
	return fmt.Sprintf(
		"value not conserved: consumed %s, produced %s",
		r.Consumed,
		r.Produced,
	)
}

type MissingKeyWitnesses struct {
	KeyHashes []common.Blake2b224 `json:"keyHashes"`
}

func (*MissingKeyWitnesses) isRejectReason() {}

func (*MissingKeyWitnesses) Kind() ReasonKind {
	return ReasonKindMissingKeyWitnesses
}

func (r *MissingKeyWitnesses) String() string {
	return "missing key witnesses: " + bech32Hashes(r.KeyHashes, keyHashBech32Prefix)
}

type MissingScriptWitnesses struct {
	ScriptHashes []common.Blake2b224 `json:"scriptHashes"`
}

func (*MissingScriptWitnesses) isRejectReason() {}

func (*MissingScriptWitnesses) Kind() ReasonKind {
	return ReasonKindMissingScriptWitnesses
}

func (r *MissingScriptWitnesses) String() string {
	return "missing script witnesses: " + bech32Hashes(r.ScriptHashes, scriptHashBech32Prefix)
}

// UnknownReason carries the description of a failure with no dedicated reason
type UnknownReason struct {
	Description string `json:"description"`
}

func (*UnknownReason) isRejectReason() {}

func (*UnknownReason) Kind() ReasonKind {
	return ReasonKindUnknown
}

func (r *UnknownReason) String() string {
	return r.Description
}

func bech32Hashes(hashes []common.Blake2b224, prefix string) string {
	ret := make([]string, 0, len(hashes))
	for _, hash := range hashes {
		ret = append(ret, hash.Bech32(prefix))
	}
	return strings.Join(ret, ", ")
}

// FlattenFailure maps a decoded failure to the reason it represents, looking through
// the wrapping layers. It never fails
func FlattenFailure(failure LedgerPredFailure) RejectReason {
	if failure == nil {
		return &UnknownReason{Description: "no failure"}
	}
	var badInputs *BadInputsUtxo
	if errors.As(failure, &badInputs) {
		return &BadInputs{Inputs: badInputs.Inputs}
	}
	var valueNotConserved *ValueNotConservedUtxo
	if errors.As(failure, &valueNotConserved) {
		return &ValueNotConserved{
			Consumed: valueNotConserved.Consumed,
			Produced: valueNotConserved.Produced,
		}
	}
	var missingVKeys *MissingVKeyWitnessesUtxow
	if errors.As(failure, &missingVKeys) {
		return &MissingKeyWitnesses{KeyHashes: missingVKeys.KeyHashes}
	}
	var missingSigners *MissingRequiredSignersUtxow
	if errors.As(failure, &missingSigners) {
		return &MissingKeyWitnesses{KeyHashes: missingSigners.KeyHashes}
	}
	var missingScripts *MissingScriptWitnessesUtxow
	if errors.As(failure, &missingScripts) {
		return &MissingScriptWitnesses{ScriptHashes: missingScripts.ScriptHashes}
	}
	return &UnknownReason{Description: failure.Error()}
}
