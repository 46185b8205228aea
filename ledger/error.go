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
	"bytes"
	"fmt"
	"strings"

	"github.com/blinklabs-io/txreject/cbor"
	"github.com/blinklabs-io/txreject/ledger/common"
)

const (
	LedgerFailureUtxowFailure  = 0
	LedgerFailureDelegsFailure = 1
)

// Babbage UTXOW rule failures
const (
	UtxowFailureAlonzoInBabbageUtxowPredFailure = 1
	UtxowFailureUtxoFailure                     = 2
	UtxowFailureMalformedScriptWitnesses        = 3
	UtxowFailureMalformedReferenceScripts       = 4
)

// Babbage UTXO rule failures
const (
	UtxoFailureAlonzoInBabbageUtxoPredFailure = 1
	UtxoFailureIncorrectTotalCollateralField  = 2
	UtxoFailureBabbageOutputTooSmallUtxo      = 3
	UtxoFailureBabbageNonDisjointRefInputs    = 4
)

// Alonzo UTXO rule failures, as inherited by Babbage
const (
	AlonzoUtxoFailureBadInputsUtxo               = 0
	AlonzoUtxoFailureOutsideValidityIntervalUtxo = 1
	AlonzoUtxoFailureMaxTxSizeUtxo               = 2
	AlonzoUtxoFailureInputSetEmptyUtxo           = 3
	AlonzoUtxoFailureFeeTooSmallUtxo             = 4
	AlonzoUtxoFailureValueNotConservedUtxo       = 5
	AlonzoUtxoFailureOutputTooSmallUtxo          = 6
	AlonzoUtxoFailureUtxosFailure                = 7
	AlonzoUtxoFailureWrongNetwork                = 8
	AlonzoUtxoFailureWrongNetworkWithdrawal      = 9
	AlonzoUtxoFailureOutputBootAddrAttrsTooBig   = 10
	AlonzoUtxoFailureTriesToForgeAda             = 11
	AlonzoUtxoFailureOutputTooBigUtxo            = 12
	AlonzoUtxoFailureInsufficientCollateral      = 13
	AlonzoUtxoFailureScriptsNotPaidUtxo          = 14
	AlonzoUtxoFailureExUnitsTooBigUtxo           = 15
	AlonzoUtxoFailureCollateralContainsNonAda    = 16
	AlonzoUtxoFailureWrongNetworkInTxBody        = 17
	AlonzoUtxoFailureOutsideForecast             = 18
	AlonzoUtxoFailureTooManyCollateralInputs     = 19
	AlonzoUtxoFailureNoCollateralInputs          = 20
)

// Alonzo UTXOW rule failures
const (
	AlonzoUtxowFailureShelleyInAlonzoUtxowPredFailure = 0
	AlonzoUtxowFailureMissingRedeemers                = 1
	AlonzoUtxowFailureMissingRequiredDatums           = 2
	AlonzoUtxowFailureNotAllowedSupplementalDatums    = 3
	AlonzoUtxowFailurePPViewHashesDontMatch           = 4
	AlonzoUtxowFailureMissingRequiredSigners          = 5
	AlonzoUtxowFailureUnspendableUtxoNoDatumHash      = 6
	AlonzoUtxowFailureExtraRedeemers                  = 7
)

// Shelley UTXOW rule failures
const (
	ShelleyUtxowFailureInvalidWitnessesUtxow           = 0
	ShelleyUtxowFailureMissingVKeyWitnessesUtxow       = 1
	ShelleyUtxowFailureMissingScriptWitnessesUtxow     = 2
	ShelleyUtxowFailureScriptWitnessNotValidatingUtxow = 3
	ShelleyUtxowFailureUtxoFailure                     = 4
	ShelleyUtxowFailureMIRInsufficientGenesisSigsUtxow = 5
	ShelleyUtxowFailureMissingTxBodyMetadataHash       = 6
	ShelleyUtxowFailureMissingTxMetadata               = 7
	ShelleyUtxowFailureConflictingMetadataHash         = 8
	ShelleyUtxowFailureInvalidMetadata                 = 9
	ShelleyUtxowFailureExtraneousScriptWitnessesUtxow  = 10
)

var ledgerFailureNames = map[uint8]string{
	LedgerFailureDelegsFailure: "DelegsFailure",
}

var utxowFailureNames = map[uint8]string{
	UtxowFailureMalformedScriptWitnesses:  "MalformedScriptWitnesses",
	UtxowFailureMalformedReferenceScripts: "MalformedReferenceScripts",
}

var utxoFailureNames = map[uint8]string{
	UtxoFailureIncorrectTotalCollateralField: "IncorrectTotalCollateralField",
	UtxoFailureBabbageOutputTooSmallUtxo:     "BabbageOutputTooSmallUTxO",
	UtxoFailureBabbageNonDisjointRefInputs:   "BabbageNonDisjointRefInputs",
}

var alonzoUtxoFailureNames = map[uint8]string{
	AlonzoUtxoFailureOutsideValidityIntervalUtxo: "OutsideValidityIntervalUTxO",
	AlonzoUtxoFailureMaxTxSizeUtxo:               "MaxTxSizeUTxO",
	AlonzoUtxoFailureInputSetEmptyUtxo:           "InputSetEmptyUTxO",
	AlonzoUtxoFailureFeeTooSmallUtxo:             "FeeTooSmallUTxO",
	AlonzoUtxoFailureOutputTooSmallUtxo:          "OutputTooSmallUTxO",
	AlonzoUtxoFailureUtxosFailure:                "UtxosFailure",
	AlonzoUtxoFailureWrongNetwork:                "WrongNetwork",
	AlonzoUtxoFailureWrongNetworkWithdrawal:      "WrongNetworkWithdrawal",
	AlonzoUtxoFailureOutputBootAddrAttrsTooBig:   "OutputBootAddrAttrsTooBig",
	AlonzoUtxoFailureTriesToForgeAda:             "TriesToForgeADA",
	AlonzoUtxoFailureOutputTooBigUtxo:            "OutputTooBigUTxO",
	AlonzoUtxoFailureInsufficientCollateral:      "InsufficientCollateral",
	AlonzoUtxoFailureScriptsNotPaidUtxo:          "ScriptsNotPaidUTxO",
	AlonzoUtxoFailureExUnitsTooBigUtxo:           "ExUnitsTooBigUTxO",
	AlonzoUtxoFailureCollateralContainsNonAda:    "CollateralContainsNonADA",
	AlonzoUtxoFailureWrongNetworkInTxBody:        "WrongNetworkInTxBody",
	AlonzoUtxoFailureOutsideForecast:             "OutsideForecast",
	AlonzoUtxoFailureTooManyCollateralInputs:     "TooManyCollateralInputs",
	AlonzoUtxoFailureNoCollateralInputs:          "NoCollateralInputs",
}

var alonzoUtxowFailureNames = map[uint8]string{
	AlonzoUtxowFailureMissingRedeemers:             "MissingRedeemers",
	AlonzoUtxowFailureMissingRequiredDatums:        "MissingRequiredDatums",
	AlonzoUtxowFailureNotAllowedSupplementalDatums: "NotAllowedSupplementalDatums",
	AlonzoUtxowFailurePPViewHashesDontMatch:        "PPViewHashesDontMatch",
	AlonzoUtxowFailureUnspendableUtxoNoDatumHash:   "UnspendableUTxONoDatumHash",
	AlonzoUtxowFailureExtraRedeemers:               "ExtraRedeemers",
}

var shelleyUtxowFailureNames = map[uint8]string{
	ShelleyUtxowFailureInvalidWitnessesUtxow:           "InvalidWitnessesUTXOW",
	ShelleyUtxowFailureScriptWitnessNotValidatingUtxow: "ScriptWitnessNotValidatingUTXOW",
	ShelleyUtxowFailureUtxoFailure:                     "UtxoFailure",
	ShelleyUtxowFailureMIRInsufficientGenesisSigsUtxow: "MIRInsufficientGenesisSigsUTXOW",
	ShelleyUtxowFailureMissingTxBodyMetadataHash:       "MissingTxBodyMetadataHash",
	ShelleyUtxowFailureMissingTxMetadata:               "MissingTxMetadata",
	ShelleyUtxowFailureConflictingMetadataHash:         "ConflictingMetadataHash",
	ShelleyUtxowFailureInvalidMetadata:                 "InvalidMetadata",
	ShelleyUtxowFailureExtraneousScriptWitnessesUtxow:  "ExtraneousScriptWitnessesUTXOW",
}

// Layer identifies one level of the rejection hierarchy
type Layer uint8

const (
	LayerLedger Layer = iota
	LayerUtxow
	LayerUtxo
	LayerAlonzoUtxo
	LayerAlonzoUtxow
	LayerShelleyUtxow
)

func (l Layer) String() string {
	switch l {
	case LayerLedger:
		return "ledger"
	case LayerUtxow:
		return "Babbage UTXOW"
	case LayerUtxo:
		return "Babbage UTXO"
	case LayerAlonzoUtxo:
		return "Alonzo UTXO"
	case LayerAlonzoUtxow:
		return "Alonzo UTXOW"
	case LayerShelleyUtxow:
		return "Shelley UTXOW"
	}
	return fmt.Sprintf("Layer(%d)", uint8(l))
}

// UnsupportedTagError is returned for a failure whose tag is not known at its layer.
// The failure has already been skipped when this is returned
type UnsupportedTagError struct {
	Layer Layer
	Tag   uint8
}

func (e *UnsupportedTagError) Error() string {
	return fmt.Sprintf("unsupported %s failure tag %d", e.Layer, e.Tag)
}

// LedgerPredFailure is a failure at the top of the rejection hierarchy
type LedgerPredFailure interface {
	error
	isLedgerPredFailure()
}

// UtxowPredFailure is a failure of the Babbage UTXOW rule
type UtxowPredFailure interface {
	error
	isUtxowPredFailure()
}

// UtxoPredFailure is a failure of the Babbage UTXO rule
type UtxoPredFailure interface {
	error
	isUtxoPredFailure()
}

// AlonzoUtxoPredFailure is a failure of the UTXO rule as defined in Alonzo
type AlonzoUtxoPredFailure interface {
	error
	isAlonzoUtxoPredFailure()
}

// AlonzoUtxowPredFailure is a failure of the UTXOW rule as defined in Alonzo
type AlonzoUtxowPredFailure interface {
	error
	isAlonzoUtxowPredFailure()
}

// ShelleyUtxowPredFailure is a failure of the UTXOW rule as defined in Shelley
type ShelleyUtxowPredFailure interface {
	error
	isShelleyUtxowPredFailure()
}

// NamedFailure is a failure that is identified by its tag only. Its payload is
// skipped, but the raw encoding is kept for diagnostics
type NamedFailure struct {
	Tag  uint8
	Name string
	Cbor []byte
}

func (e *NamedFailure) Error() string {
	return e.Name
}

type NamedLedgerFailure struct{ NamedFailure }

func (*NamedLedgerFailure) isLedgerPredFailure() {}

type NamedUtxowFailure struct{ NamedFailure }

func (*NamedUtxowFailure) isUtxowPredFailure() {}

type NamedUtxoFailure struct{ NamedFailure }

func (*NamedUtxoFailure) isUtxoPredFailure() {}

type NamedAlonzoUtxoFailure struct{ NamedFailure }

func (*NamedAlonzoUtxoFailure) isAlonzoUtxoPredFailure() {}

type NamedAlonzoUtxowFailure struct{ NamedFailure }

func (*NamedAlonzoUtxowFailure) isAlonzoUtxowPredFailure() {}

type NamedShelleyUtxowFailure struct{ NamedFailure }

func (*NamedShelleyUtxowFailure) isShelleyUtxowPredFailure() {}

type UtxowFailure struct {
	Err UtxowPredFailure
}

func (*UtxowFailure) isLedgerPredFailure() {}

func (e *UtxowFailure) Error() string {
	return fmt.Sprintf("UtxowFailure (%s)", e.Err)
}

func (e *UtxowFailure) Unwrap() error {
	return e.Err
}

type AlonzoInBabbageUtxowPredFailure struct {
	Err AlonzoUtxowPredFailure
}

func (*AlonzoInBabbageUtxowPredFailure) isUtxowPredFailure() {}

func (e *AlonzoInBabbageUtxowPredFailure) Error() string {
	return fmt.Sprintf("AlonzoInBabbageUtxowPredFailure (%s)", e.Err)
}

func (e *AlonzoInBabbageUtxowPredFailure) Unwrap() error {
	return e.Err
}

type UtxoFailure struct {
	Err UtxoPredFailure
}

func (*UtxoFailure) isUtxowPredFailure() {}

func (e *UtxoFailure) Error() string {
	return fmt.Sprintf("UtxoFailure (%s)", e.Err)
}

func (e *UtxoFailure) Unwrap() error {
	return e.Err
}

type AlonzoInBabbageUtxoPredFailure struct {
	Err AlonzoUtxoPredFailure
}

func (*AlonzoInBabbageUtxoPredFailure) isUtxoPredFailure() {}

func (e *AlonzoInBabbageUtxoPredFailure) Error() string {
	return fmt.Sprintf("AlonzoInBabbageUtxoPredFailure (%s)", e.Err)
}

func (e *AlonzoInBabbageUtxoPredFailure) Unwrap() error {
	return e.Err
}

type BadInputsUtxo struct {
	Inputs []common.TransactionInput
}

func (*BadInputsUtxo) isAlonzoUtxoPredFailure() {}

func (e *BadInputsUtxo) Error() string {
	var sb strings.Builder
	sb.WriteString("BadInputsUtxo ([")
	for idx, input := range e.Inputs {
		sb.WriteString(input.String())
		if idx < (len(e.Inputs) - 1) {
			sb.WriteString(", ")
		}
	}
	sb.WriteString("])")
	return sb.String()
}

type ValueNotConservedUtxo struct {
	Consumed common.Value
	Produced common.Value
}

func (*ValueNotConservedUtxo) isAlonzoUtxoPredFailure() {}

func (e *ValueNotConservedUtxo) Error() string {
	return fmt.Sprintf(
		"ValueNotConservedUtxo (Consumed %s, Produced %s)",
		e.Consumed,
		e.Produced,
	)
}

type ShelleyInAlonzoUtxowPredFailure struct {
	Err ShelleyUtxowPredFailure
}

func (*ShelleyInAlonzoUtxowPredFailure) isAlonzoUtxowPredFailure() {}

func (e *ShelleyInAlonzoUtxowPredFailure) Error() string {
	return fmt.Sprintf("ShelleyInAlonzoUtxowPredFailure (%s)", e.Err)
}

func (e *ShelleyInAlonzoUtxowPredFailure) Unwrap() error {
	return e.Err
}

type MissingRequiredSignersUtxow struct {
	KeyHashes []common.Blake2b224
}

func (*MissingRequiredSignersUtxow) isAlonzoUtxowPredFailure() {}

func (e *MissingRequiredSignersUtxow) Error() string {
	return "MissingRequiredSigners (" + joinHashes(e.KeyHashes) + ")"
}

type MissingVKeyWitnessesUtxow struct {
	KeyHashes []common.Blake2b224
}

func (*MissingVKeyWitnessesUtxow) isShelleyUtxowPredFailure() {}

func (e *MissingVKeyWitnessesUtxow) Error() string {
	return "MissingVKeyWitnessesUTXOW (" + joinHashes(e.KeyHashes) + ")"
}

type MissingScriptWitnessesUtxow struct {
	ScriptHashes []common.Blake2b224
}

func (*MissingScriptWitnessesUtxow) isShelleyUtxowPredFailure() {}

func (e *MissingScriptWitnessesUtxow) Error() string {
	return "MissingScriptWitnessesUTXOW (" + joinHashes(e.ScriptHashes) + ")"
}

func joinHashes(hashes []common.Blake2b224) string {
	var sb strings.Builder
	sb.WriteString("[")
	for idx, hash := range hashes {
		sb.WriteString(hash.String())
		if idx < (len(hashes) - 1) {
			sb.WriteString(", ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// variantHeader reads the [tag, ...] collection shared by every layer. It returns the
// tag, the collection length and the stack depth at which the collection is finished
func variantHeader(
	d *cbor.StructDecoder,
	allowed ...uint64,
) (uint8, uint64, int, error) {
	length, err := d.ExpectCollection(allowed...)
	if err != nil {
		return 0, length, 0, err
	}
	outer := d.Depth() - 1
	tag, err := d.ExpectSmallUnsigned()
	if err != nil {
		return 0, length, outer, err
	}
	return tag, length, outer, nil
}

// requireLength rejects a variant whose collection does not have the expected number of
// elements. The collection is left open for the caller to drain
func requireLength(d *cbor.StructDecoder, name string, length uint64, expected uint64) error {
	if length == expected {
		return nil
	}
	return &cbor.ShapeError{
		Expected: fmt.Sprintf("%s with %d elements", name, expected),
		Got:      fmt.Sprintf("array(%d)", length),
		Offset:   d.Cursor().Position(),
	}
}

// namedFailure skips the rest of a flat variant and captures its raw encoding
func namedFailure(
	d *cbor.StructDecoder,
	tag uint8,
	name string,
	start int,
	outer int,
) (NamedFailure, error) {
	if err := d.SkipTo(outer); err != nil {
		return NamedFailure{}, err
	}
	return NamedFailure{
		Tag:  tag,
		Name: name,
		Cbor: bytes.Clone(d.Cursor().Input()[start:d.Cursor().Position()]),
	}, nil
}

func unsupportedTag(d *cbor.StructDecoder, layer Layer, tag uint8) error {
	if err := d.Drain(); err != nil {
		return err
	}
	return &UnsupportedTagError{Layer: layer, Tag: tag}
}

func decodeLedgerPredFailure(d *cbor.StructDecoder) (LedgerPredFailure, error) {
	start := d.Cursor().Position()
	tag, _, outer, err := variantHeader(d, 2)
	if err != nil {
		return nil, err
	}
	if tag == LedgerFailureUtxowFailure {
		inner, err := decodeUtxowPredFailure(d)
		if err != nil {
			return nil, err
		}
		return &UtxowFailure{Err: inner}, d.SkipTo(outer)
	}
	if name, ok := ledgerFailureNames[tag]; ok {
		named, err := namedFailure(d, tag, name, start, outer)
		if err != nil {
			return nil, err
		}
		return &NamedLedgerFailure{named}, nil
	}
	return nil, unsupportedTag(d, LayerLedger, tag)
}

func decodeUtxowPredFailure(d *cbor.StructDecoder) (UtxowPredFailure, error) {
	start := d.Cursor().Position()
	tag, _, outer, err := variantHeader(d, 2)
	if err != nil {
		return nil, err
	}
	switch tag {
	case UtxowFailureAlonzoInBabbageUtxowPredFailure:
		inner, err := decodeAlonzoUtxowPredFailure(d)
		if err != nil {
			return nil, err
		}
		return &AlonzoInBabbageUtxowPredFailure{Err: inner}, d.SkipTo(outer)
	case UtxowFailureUtxoFailure:
		inner, err := decodeUtxoPredFailure(d)
		if err != nil {
			return nil, err
		}
		return &UtxoFailure{Err: inner}, d.SkipTo(outer)
	}
	if name, ok := utxowFailureNames[tag]; ok {
		named, err := namedFailure(d, tag, name, start, outer)
		if err != nil {
			return nil, err
		}
		return &NamedUtxowFailure{named}, nil
	}
	return nil, unsupportedTag(d, LayerUtxow, tag)
}

func decodeUtxoPredFailure(d *cbor.StructDecoder) (UtxoPredFailure, error) {
	start := d.Cursor().Position()
	tag, _, outer, err := variantHeader(d, 2)
	if err != nil {
		return nil, err
	}
	if tag == UtxoFailureAlonzoInBabbageUtxoPredFailure {
		inner, err := decodeAlonzoUtxoPredFailure(d)
		if err != nil {
			return nil, err
		}
		return &AlonzoInBabbageUtxoPredFailure{Err: inner}, d.SkipTo(outer)
	}
	if name, ok := utxoFailureNames[tag]; ok {
		named, err := namedFailure(d, tag, name, start, outer)
		if err != nil {
			return nil, err
		}
		return &NamedUtxoFailure{named}, nil
	}
	return nil, unsupportedTag(d, LayerUtxo, tag)
}

func decodeAlonzoUtxoPredFailure(d *cbor.StructDecoder) (AlonzoUtxoPredFailure, error) {
	start := d.Cursor().Position()
	tag, length, outer, err := variantHeader(d, 1, 2, 3)
	if err != nil {
		return nil, err
	}
	switch tag {
	case AlonzoUtxoFailureBadInputsUtxo:
		if err := requireLength(d, "BadInputsUtxo", length, 2); err != nil {
			return nil, err
		}
		ret := &BadInputsUtxo{}
		err := d.Sequence(func(int) error {
			input, err := common.DecodeTransactionInput(d)
			if err != nil {
				return err
			}
			ret.Inputs = append(ret.Inputs, input)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return ret, d.SkipTo(outer)
	case AlonzoUtxoFailureValueNotConservedUtxo:
		if err := requireLength(d, "ValueNotConservedUtxo", length, 3); err != nil {
			return nil, err
		}
		consumed, err := common.DecodeValue(d)
		if err != nil {
			return nil, err
		}
		produced, err := common.DecodeValue(d)
		if err != nil {
			return nil, err
		}
		return &ValueNotConservedUtxo{Consumed: consumed, Produced: produced}, d.SkipTo(outer)
	}
	if name, ok := alonzoUtxoFailureNames[tag]; ok {
		named, err := namedFailure(d, tag, name, start, outer)
		if err != nil {
			return nil, err
		}
		return &NamedAlonzoUtxoFailure{named}, nil
	}
	return nil, unsupportedTag(d, LayerAlonzoUtxo, tag)
}

func decodeAlonzoUtxowPredFailure(d *cbor.StructDecoder) (AlonzoUtxowPredFailure, error) {
	start := d.Cursor().Position()
	tag, length, outer, err := variantHeader(d, 1, 2, 3)
	if err != nil {
		return nil, err
	}
	switch tag {
	case AlonzoUtxowFailureShelleyInAlonzoUtxowPredFailure:
		if err := requireLength(d, "ShelleyInAlonzoUtxowPredFailure", length, 2); err != nil {
			return nil, err
		}
		inner, err := decodeShelleyUtxowPredFailure(d)
		if err != nil {
			return nil, err
		}
		return &ShelleyInAlonzoUtxowPredFailure{Err: inner}, d.SkipTo(outer)
	case AlonzoUtxowFailureMissingRequiredSigners:
		if err := requireLength(d, "MissingRequiredSigners", length, 2); err != nil {
			return nil, err
		}
		hashes, err := decodeHashes(d)
		if err != nil {
			return nil, err
		}
		return &MissingRequiredSignersUtxow{KeyHashes: hashes}, d.SkipTo(outer)
	}
	if name, ok := alonzoUtxowFailureNames[tag]; ok {
		named, err := namedFailure(d, tag, name, start, outer)
		if err != nil {
			return nil, err
		}
		return &NamedAlonzoUtxowFailure{named}, nil
	}
	return nil, unsupportedTag(d, LayerAlonzoUtxow, tag)
}

func decodeShelleyUtxowPredFailure(d *cbor.StructDecoder) (ShelleyUtxowPredFailure, error) {
	start := d.Cursor().Position()
	tag, length, outer, err := variantHeader(d, 1, 2, 3)
	if err != nil {
		return nil, err
	}
	switch tag {
	case ShelleyUtxowFailureMissingVKeyWitnessesUtxow:
		if err := requireLength(d, "MissingVKeyWitnessesUTXOW", length, 2); err != nil {
			return nil, err
		}
		hashes, err := decodeHashes(d)
		if err != nil {
			return nil, err
		}
		return &MissingVKeyWitnessesUtxow{KeyHashes: hashes}, d.SkipTo(outer)
	case ShelleyUtxowFailureMissingScriptWitnessesUtxow:
		if err := requireLength(d, "MissingScriptWitnessesUTXOW", length, 2); err != nil {
			return nil, err
		}
		hashes, err := decodeHashes(d)
		if err != nil {
			return nil, err
		}
		return &MissingScriptWitnessesUtxow{ScriptHashes: hashes}, d.SkipTo(outer)
	}
	if name, ok := shelleyUtxowFailureNames[tag]; ok {
		named, err := namedFailure(d, tag, name, start, outer)
		if err != nil {
			return nil, err
		}
		return &NamedShelleyUtxowFailure{named}, nil
	}
	return nil, unsupportedTag(d, LayerShelleyUtxow, tag)
}

// decodeHashes reads a (possibly tagged) set of 28-byte key or script hashes
func decodeHashes(d *cbor.StructDecoder) ([]common.Blake2b224, error) {
	var ret []common.Blake2b224
	err := d.Sequence(func(int) error {
		hash, err := d.ExpectBytes(common.Blake2b224Size)
		if err != nil {
			return err
		}
		ret = append(ret, common.NewBlake2b224(hash))
		return nil
	})
	return ret, err
}
