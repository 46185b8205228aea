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

package cbor_test

import (
	"encoding/hex"
	"testing"

	"github.com/blinklabs-io/txreject/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCursor(t *testing.T, cborHex string) *cbor.Cursor {
	t.Helper()
	data, err := hex.DecodeString(cborHex)
	require.NoError(t, err)
	return cbor.NewCursor(data)
}

func TestCursorDatatype(t *testing.T) {
	testDefs := []struct {
		cborHex string
		typ     cbor.Type
	}{
		{"00", cbor.TypeUint},
		{"20", cbor.TypeNegInt},
		{"4101", cbor.TypeBytes},
		{"5f", cbor.TypeBytesIndef},
		{"6161", cbor.TypeString},
		{"7f", cbor.TypeStringIndef},
		{"80", cbor.TypeArray},
		{"9f", cbor.TypeArrayIndef},
		{"a0", cbor.TypeMap},
		{"bf", cbor.TypeMapIndef},
		{"d818", cbor.TypeTag},
		{"f4", cbor.TypeBool},
		{"f5", cbor.TypeBool},
		{"f6", cbor.TypeNull},
		{"f7", cbor.TypeUndefined},
		{"f0", cbor.TypeSimple},
		{"f820", cbor.TypeSimple},
		{"f93c00", cbor.TypeFloat16},
		{"fa3fc00000", cbor.TypeFloat32},
		{"fb3ff8000000000000", cbor.TypeFloat64},
		{"ff", cbor.TypeBreak},
	}
	for _, testDef := range testDefs {
		c := newCursor(t, testDef.cborHex)
		typ, err := c.Datatype()
		require.NoError(t, err, "input %s", testDef.cborHex)
		assert.Equal(t, testDef.typ, typ, "input %s", testDef.cborHex)
		assert.Equal(t, 0, c.Position(), "Datatype must not consume input")
	}
}

func TestCursorUintWidths(t *testing.T) {
	testDefs := []struct {
		cborHex string
		value   uint64
	}{
		{"17", 23},
		{"1819", 25},
		{"190100", 256},
		{"1a00010000", 65536},
		{"1b0000000100000000", 4294967296},
	}
	for _, testDef := range testDefs {
		c := newCursor(t, testDef.cborHex)
		v, err := c.Uint()
		require.NoError(t, err)
		assert.Equal(t, testDef.value, v)
		assert.Equal(t, len(testDef.cborHex)/2, c.Position())
		assert.True(t, c.EOF())
	}
}

func TestCursorNarrowUint(t *testing.T) {
	c := newCursor(t, "190100")
	_, err := c.U8()
	assert.ErrorIs(t, err, cbor.ErrOverflow)
	assert.Equal(t, 0, c.Position())
	v, err := c.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(256), v)

	c = newCursor(t, "1a00010000")
	_, err = c.U16()
	assert.ErrorIs(t, err, cbor.ErrOverflow)
	v32, err := c.U32()
	require.NoError(t, err)
	assert.Equal(t, uint32(65536), v32)
}

func TestCursorSignedIntegers(t *testing.T) {
	c := newCursor(t, "20")
	n, err := c.NegInt()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	c = newCursor(t, "3863")
	i, err := c.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(-100), i)

	c = newCursor(t, "1864")
	i, err = c.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(100), i)

	c = newCursor(t, "1bffffffffffffffff")
	_, err = c.Int()
	assert.ErrorIs(t, err, cbor.ErrOverflow)
}

func TestCursorSimpleValues(t *testing.T) {
	c := newCursor(t, "f5f4f6f7f0f820")
	b, err := c.Bool()
	require.NoError(t, err)
	assert.True(t, b)
	b, err = c.Bool()
	require.NoError(t, err)
	assert.False(t, b)
	require.NoError(t, c.Null())
	require.NoError(t, c.Undefined())
	s, err := c.Simple()
	require.NoError(t, err)
	assert.Equal(t, uint8(16), s)
	s, err = c.Simple()
	require.NoError(t, err)
	assert.Equal(t, uint8(32), s)
	assert.True(t, c.EOF())
}

func TestCursorFloats(t *testing.T) {
	c := newCursor(t, "f93c00fa3fc00000fb3ff8000000000000")
	for _, expected := range []float64{1.0, 1.5, 1.5} {
		f, err := c.Float()
		require.NoError(t, err)
		assert.InDelta(t, expected, f, 0)
	}
}

func TestCursorStrings(t *testing.T) {
	c := newCursor(t, "43010203636162630a")
	b, err := c.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)
	s, err := c.Str()
	require.NoError(t, err)
	assert.Equal(t, "abc", s)
	_, err = c.Str()
	var typeErr *cbor.TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, cbor.TypeString, typeErr.Expected)
	assert.Equal(t, cbor.TypeUint, typeErr.Got)
	assert.Equal(t, 8, typeErr.Offset)
	assert.Equal(t, 8, c.Position())
}

func TestCursorCollections(t *testing.T) {
	c := newCursor(t, "839fa2bfd90102")
	n, indef, err := c.Array()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
	assert.False(t, indef)
	_, indef, err = c.Array()
	require.NoError(t, err)
	assert.True(t, indef)
	n, indef, err = c.Map()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
	assert.False(t, indef)
	_, indef, err = c.Map()
	require.NoError(t, err)
	assert.True(t, indef)
	tag, err := c.Tag()
	require.NoError(t, err)
	assert.Equal(t, uint64(cbor.CborTagSet), tag)
}

func TestCursorFailedReadDoesNotMove(t *testing.T) {
	c := newCursor(t, "01")
	_, err := c.Bytes()
	require.Error(t, err)
	assert.Equal(t, 0, c.Position())
	_, _, err = c.Array()
	require.Error(t, err)
	assert.Equal(t, 0, c.Position())
	require.Error(t, c.Break())
	assert.Equal(t, 0, c.Position())
}

func TestCursorIncomplete(t *testing.T) {
	for _, cborHex := range []string{"", "19", "1901", "1b00000000", "4301", "636162"} {
		c := newCursor(t, cborHex)
		_, err := c.NextToken()
		assert.ErrorIs(t, err, cbor.ErrIncomplete, "input %q", cborHex)
		assert.Equal(t, 0, c.Position())
	}
}

func TestCursorMalformed(t *testing.T) {
	// Reserved additional info values, and indefinite length where not allowed
	for _, cborHex := range []string{"1c", "3d", "5e", "1f", "3f", "df"} {
		c := newCursor(t, cborHex)
		_, err := c.Datatype()
		assert.ErrorIs(t, err, cbor.ErrMalformed, "input %s", cborHex)
	}
}

func TestCursorSkip(t *testing.T) {
	testDefs := []struct {
		cborHex string
		length  int
	}{
		// [1, [2, 3], {4: 5}]
		{"8301820203a10405", 8},
		// 24(h'00')
		{"d8184100", 4},
		// [_ 1, [_ ], "a"]
		{"9f019fff6161ff", 7},
		// (_ h'01', h'02')
		{"5f41014102ff", 6},
		// {_ 1: 2}
		{"bf0102ff", 4},
		// []
		{"80", 1},
	}
	for _, testDef := range testDefs {
		// Trailing item must be left alone
		c := newCursor(t, testDef.cborHex+"07")
		require.NoError(t, c.Skip(), "input %s", testDef.cborHex)
		assert.Equal(t, testDef.length, c.Position(), "input %s", testDef.cborHex)
		v, err := c.Uint()
		require.NoError(t, err)
		assert.Equal(t, uint64(7), v)
	}
}

func TestCursorSkipErrors(t *testing.T) {
	c := newCursor(t, "ff")
	assert.ErrorIs(t, c.Skip(), cbor.ErrMalformed)

	// Indefinite bytestring holding a non-bytestring chunk
	c = newCursor(t, "5f01ff")
	assert.ErrorIs(t, c.Skip(), cbor.ErrMalformed)

	c = newCursor(t, "830102")
	assert.ErrorIs(t, c.Skip(), cbor.ErrIncomplete)
	assert.Equal(t, 0, c.Position())
}

func TestCursorRawItem(t *testing.T) {
	c := newCursor(t, "8201820203f5")
	n, _, err := c.Array()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
	_, err = c.Uint()
	require.NoError(t, err)
	raw, err := c.RawItem()
	require.NoError(t, err)
	assert.Equal(t, "820203", hex.EncodeToString(raw))
	assert.False(t, c.AtBreak())
	b, err := c.Bool()
	require.NoError(t, err)
	assert.True(t, b)
}

func TestCursorProbe(t *testing.T) {
	c := newCursor(t, "0102")
	p := c.Probe()
	_, err := p.Uint()
	require.NoError(t, err)
	assert.Equal(t, 1, p.Position())
	assert.Equal(t, 0, c.Position())
	assert.Equal(t, 2, c.Remaining())
}
