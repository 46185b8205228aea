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
	"log/slog"
	"strings"
	"testing"

	"github.com/blinklabs-io/txreject/cbor"
	"github.com/blinklabs-io/txreject/internal/test"
	"github.com/blinklabs-io/txreject/internal/testdata"
	"github.com/blinklabs-io/txreject/ledger/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeApplyTxErrorFixtures(t *testing.T) {
	for _, rejection := range testdata.GetTestRejections() {
		t.Run(rejection.Name, func(t *testing.T) {
			applyErr, err := DecodeApplyTxError(rejection.Cbor)
			require.NoError(t, err)
			assert.Equal(t, uint8(EraIdBabbage), applyErr.Era)
			assert.Len(t, applyErr.Failures, rejection.Failures)
			assert.Len(t, applyErr.Skipped, rejection.Skipped)
			assert.Len(t, applyErr.Reasons(), rejection.Failures)
			assert.Equal(t, len(rejection.Cbor), applyErr.BytesRead)
			for _, skipped := range applyErr.Skipped {
				assert.LessOrEqual(t, skipped.Drains, 1)
				assert.Equal(
					t,
					rejection.Cbor[skipped.Offset:skipped.Offset+len(skipped.Cbor)],
					skipped.Cbor,
				)
			}
		})
	}
}

func TestDecodeApplyTxErrorValueNotConserved(t *testing.T) {
	applyErr, err := DecodeApplyTxError(
		test.DecodeHexString(testdata.RejectValueNotConservedHex),
	)
	require.NoError(t, err)
	assert.False(t, applyErr.FullyDecoded())
	assert.Equal(
		t,
		"partially decoded: 4 failures, 3 entries unparsed",
		applyErr.Summary(),
	)
	// The bare integers between the failures
	for idx, skipped := range applyErr.Skipped {
		assert.Equal(t, idx+1, skipped.Index)
		assert.Equal(t, 16+idx, skipped.Offset)
		assert.Equal(t, 0, skipped.Drains)
		assert.ErrorIs(t, skipped.Err, cbor.ErrUnexpectedShape)
	}
	assert.Equal(t, []byte{0x01}, applyErr.Skipped[0].Cbor)
	assert.Equal(t, []byte{0x00}, applyErr.Skipped[1].Cbor)
	assert.Equal(t, []byte{0x02}, applyErr.Skipped[2].Cbor)

	assert.Equal(
		t,
		"UtxowFailure (AlonzoInBabbageUtxowPredFailure (ExtraRedeemers))",
		applyErr.Failures[0].Error(),
	)
	assert.Equal(
		t,
		"UtxowFailure (UtxoFailure (AlonzoInBabbageUtxoPredFailure (UtxosFailure)))",
		applyErr.Failures[1].Error(),
	)

	reasons := applyErr.Reasons()
	require.Len(t, reasons, 4)
	assert.Equal(t, ReasonKindUnknown, reasons[0].Kind())
	assert.Equal(t, ReasonKindUnknown, reasons[1].Kind())
	vnc, ok := reasons[2].(*ValueNotConserved)
	require.True(t, ok)
	assert.Equal(t, uint64(0), vnc.Consumed.Coin)
	assert.Equal(t, uint64(108400000), vnc.Produced.Coin)
	require.NotNil(t, vnc.Produced.Assets)
	policyId := common.NewBlake2b224(
		test.DecodeHexString("fd10da3e6a578708c877e14b6aaeda8dc3a36f666a346eec52a30b3a"),
	)
	assert.Equal(t, []common.Blake2b224{policyId}, vnc.Produced.Assets.Policies())
	assert.Equal(
		t,
		uint64(130000),
		vnc.Produced.Assets.Asset(policyId, []byte("testtoken")),
	)
	badInputs, ok := reasons[3].(*BadInputs)
	require.True(t, ok)
	require.Len(t, badInputs.Inputs, 3)
	expectedInputs := []string{
		"0faddf00919ef15d38ac07684199e69be95a003a15f757bf77701072b050c1f5#0",
		"5f85cf7db4713466bc8d9d32a84b5b6bfd2f34a76b5f8cf5a5cb04b4d6d6f038#0",
		"96eb39b8d909373c8275c611fae63792f5e3d0a67c1eee5b3afb91fdcddc8591#0",
	}
	for idx, input := range badInputs.Inputs {
		assert.Equal(t, expectedInputs[idx], input.String())
	}
}

func TestDecodeApplyTxErrorScriptWitnesses(t *testing.T) {
	applyErr, err := DecodeApplyTxError(
		test.DecodeHexString(testdata.RejectScriptWitnessesHex),
	)
	require.NoError(t, err)
	require.Len(t, applyErr.Failures, 9)
	require.Len(t, applyErr.Skipped, 3)
	assert.Equal(t, 3, applyErr.Skipped[0].Index)
	assert.Equal(t, 4, applyErr.Skipped[1].Index)
	// IncorrectTotalCollateralField encoded with three elements
	collateral := applyErr.Skipped[2]
	assert.Equal(t, 9, collateral.Index)
	assert.Equal(t, 1, collateral.Drains)
	assert.Equal(
		t,
		test.DecodeHexString("8200820283023a000f0f6d1a004944ce"),
		collateral.Cbor,
	)
	var shapeErr *cbor.ShapeError
	require.ErrorAs(t, collateral.Err, &shapeErr)
	assert.Equal(t, "array(3)", shapeErr.Got)

	expectedNames := []string{
		"UtxowFailure (AlonzoInBabbageUtxowPredFailure (ShelleyInAlonzoUtxowPredFailure (ExtraneousScriptWitnessesUTXOW)))",
		"UtxowFailure (AlonzoInBabbageUtxowPredFailure (NotAllowedSupplementalDatums))",
		"UtxowFailure (AlonzoInBabbageUtxowPredFailure (ExtraRedeemers))",
		"UtxowFailure (AlonzoInBabbageUtxowPredFailure (PPViewHashesDontMatch))",
	}
	for idx, name := range expectedNames {
		assert.Equal(t, name, applyErr.Failures[idx].Error())
	}
	expectedKinds := []ReasonKind{
		ReasonKindUnknown,
		ReasonKindUnknown,
		ReasonKindUnknown,
		ReasonKindUnknown,
		ReasonKindValueNotConserved,
		ReasonKindBadInputs,
		ReasonKindUnknown,
		ReasonKindUnknown,
		ReasonKindUnknown,
	}
	reasons := applyErr.Reasons()
	for idx, kind := range expectedKinds {
		assert.Equal(t, kind, reasons[idx].Kind(), "reason %d", idx)
	}
	vnc := reasons[4].(*ValueNotConserved)
	assert.Greater(t, vnc.Produced.Coin, vnc.Consumed.Coin)
	assert.Equal(t, uint64(6513029), vnc.Produced.Coin)
	assert.Equal(
		t,
		uint64(13600000000),
		vnc.Produced.Assets.Asset(
			common.NewBlake2b224(
				test.DecodeHexString("6f1a1f0c7ccf632cc9ff4b79687ed13ffe5b624cce288b364ebdce50"),
			),
			[]byte("AGIX"),
		),
	)
	badInputs := reasons[5].(*BadInputs)
	require.Len(t, badInputs.Inputs, 5)
	assert.Equal(
		t,
		"497fe6401e25733c073c01164c7f2a1a05de8c95e36580f9d1b0512370040def#2",
		badInputs.Inputs[0].String(),
	)
	assert.Equal(
		t,
		"UtxowFailure (UtxoFailure (AlonzoInBabbageUtxoPredFailure (NoCollateralInputs)))",
		reasons[6].String(),
	)
	assert.Equal(
		t,
		"UtxowFailure (UtxoFailure (AlonzoInBabbageUtxoPredFailure (OutsideValidityIntervalUTxO)))",
		reasons[8].String(),
	)
}

func TestDecodeApplyTxErrorUnsupportedTag(t *testing.T) {
	applyErr, err := DecodeApplyTxError(
		test.DecodeHexString(testdata.RejectUnsupportedTagHex),
	)
	require.NoError(t, err)
	assert.Empty(t, applyErr.Failures)
	require.Len(t, applyErr.Skipped, 1)
	var tagErr *UnsupportedTagError
	require.ErrorAs(t, applyErr.Skipped[0].Err, &tagErr)
	assert.Equal(t, LayerAlonzoUtxo, tagErr.Layer)
	assert.Equal(t, uint8(100), tagErr.Tag)
	assert.Equal(t, 1, applyErr.Skipped[0].Drains)
	assert.Equal(t, "ApplyTxError ([]) (1 entries unparsed)", applyErr.Error())
}

func TestDecodeApplyTxErrorEmpty(t *testing.T) {
	applyErr, err := DecodeApplyTxError(test.DecodeHexString("82028182059fff"))
	require.NoError(t, err)
	assert.True(t, applyErr.FullyDecoded())
	assert.Empty(t, applyErr.Failures)
	assert.Equal(t, "fully decoded: 0 failures", applyErr.Summary())
	assert.Equal(t, 7, applyErr.BytesRead)
}

func TestDecodeApplyTxErrorDefiniteList(t *testing.T) {
	applyErr, err := DecodeApplyTxError(
		test.DecodeHexString("820281820581" + "8200820282018114"),
	)
	require.NoError(t, err)
	require.Len(t, applyErr.Failures, 1)
	assert.True(t, applyErr.FullyDecoded())
	assert.Equal(t, 14, applyErr.BytesRead)
	assert.Equal(
		t,
		"ApplyTxError ([UtxowFailure (UtxoFailure (AlonzoInBabbageUtxoPredFailure (NoCollateralInputs)))])",
		applyErr.Error(),
	)
}

func TestDecodeApplyTxErrorMapEntry(t *testing.T) {
	// A map where a failure list is expected, followed by NoCollateralInputs
	applyErr, err := DecodeApplyTxError(
		test.DecodeHexString("82028182059f" + "a201020304" + "8200820282018114" + "ff"),
	)
	require.NoError(t, err)
	require.Len(t, applyErr.Failures, 1)
	require.Len(t, applyErr.Skipped, 1)
	skipped := applyErr.Skipped[0]
	assert.Equal(t, 0, skipped.Index)
	assert.Equal(t, 6, skipped.Offset)
	assert.Equal(t, test.DecodeHexString("a201020304"), skipped.Cbor)
	assert.ErrorIs(t, skipped.Err, cbor.ErrUnexpectedShape)
	var shapeErr *cbor.ShapeError
	require.ErrorAs(t, skipped.Err, &shapeErr)
	assert.Equal(t, "map", shapeErr.Got)
	assert.Equal(t, 20, applyErr.BytesRead)
	assert.Equal(
		t,
		"UtxowFailure (UtxoFailure (AlonzoInBabbageUtxoPredFailure (NoCollateralInputs)))",
		applyErr.Failures[0].Error(),
	)
}

func TestDecodeApplyTxErrorEnvelope(t *testing.T) {
	testDefs := []struct {
		name     string
		cborHex  string
		expected error
	}{
		{name: "AcceptTx", cborHex: "8101", expected: ErrNotRejection},
		{name: "WrongMessageType", cborHex: "820180", expected: ErrNotRejection},
		{name: "NotArray", cborHex: "a0", expected: ErrUnsupportedEnvelope},
		{name: "EmptyEraWrapper", cborHex: "820280", expected: ErrUnsupportedEnvelope},
		{name: "ShortEraError", cborHex: "8202818105", expected: ErrUnsupportedEnvelope},
		{name: "FailureListNotArray", cborHex: "82028182050a", expected: ErrUnsupportedEnvelope},
		{name: "Truncated", cborHex: "820281", expected: cbor.ErrIncomplete},
		{name: "Malformed", cborHex: "82028182059f1cff", expected: cbor.ErrMalformed},
		{name: "Desync", cborHex: "82028182059f8200ffff", expected: cbor.ErrStructuralDesync},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := DecodeApplyTxError(test.DecodeHexString(testDef.cborHex))
			assert.ErrorIs(t, err, testDef.expected)
		})
	}
}

func TestDecodeApplyTxErrorIncomplete(t *testing.T) {
	for _, rejection := range testdata.GetTestRejections() {
		t.Run(rejection.Name, func(t *testing.T) {
			for i := range len(rejection.Cbor) {
				_, err := DecodeApplyTxError(rejection.Cbor[:i])
				require.ErrorIs(t, err, cbor.ErrIncomplete, "prefix length %d", i)
			}
		})
	}
}

func TestDecodeApplyTxErrorLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(
		slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	_, err := DecodeApplyTxError(
		test.DecodeHexString(testdata.RejectValueNotConservedHex),
		WithLogger(logger),
	)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(buf.String(), "skipped rejection entry"))
	assert.NotContains(t, buf.String(), "level=WARN")

	buf.Reset()
	applyErr, err := DecodeApplyTxError(
		test.DecodeHexString("82028182069fff"),
		WithLogger(logger),
	)
	require.NoError(t, err)
	assert.Equal(t, uint8(EraIdConway), applyErr.Era)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "era=Conway")
}
