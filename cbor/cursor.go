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

package cbor

import (
	"errors"
	"fmt"
	"math"

	"github.com/x448/float16"
)

// ErrOverflow is returned when an integer does not fit the requested width
var ErrOverflow = errors.New("cbor: integer overflow")

// Max nesting accepted by Skip before the input is treated as malformed
const maxSkipDepth = 1024

// Type identifies the kind of the next item in the input
type Type uint8

const (
	TypeUnknown Type = iota
	TypeBool
	TypeNull
	TypeUndefined
	TypeSimple
	TypeUint
	TypeNegInt
	TypeFloat16
	TypeFloat32
	TypeFloat64
	TypeBytes
	TypeBytesIndef
	TypeString
	TypeStringIndef
	TypeArray
	TypeArrayIndef
	TypeMap
	TypeMapIndef
	TypeTag
	TypeBreak
)

var typeNames = map[Type]string{
	TypeUnknown:     "unknown",
	TypeBool:        "bool",
	TypeNull:        "null",
	TypeUndefined:   "undefined",
	TypeSimple:      "simple",
	TypeUint:        "uint",
	TypeNegInt:      "negint",
	TypeFloat16:     "float16",
	TypeFloat32:     "float32",
	TypeFloat64:     "float64",
	TypeBytes:       "bytes",
	TypeBytesIndef:  "indefinite bytes",
	TypeString:      "string",
	TypeStringIndef: "indefinite string",
	TypeArray:       "array",
	TypeArrayIndef:  "indefinite array",
	TypeMap:         "map",
	TypeMapIndef:    "indefinite map",
	TypeTag:         "tag",
	TypeBreak:       "break",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// itemHeader is the decoded initial byte (plus argument) of an item
type itemHeader struct {
	typ  Type
	info uint8
	arg  uint64
	size int
}

// Cursor is a positional reader over a CBOR byte buffer. Reads either succeed and
// advance past the item, or fail and leave the position untouched. Byte and text
// strings returned by the cursor alias the underlying buffer
type Cursor struct {
	data []byte
	pos  int
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Probe returns an independent copy of the cursor at the same position. Reading from
// the probe does not move the original
func (c *Cursor) Probe() *Cursor {
	return &Cursor{data: c.data, pos: c.pos}
}

func (c *Cursor) Position() int {
	return c.pos
}

// SetPosition moves the cursor to an absolute offset within the buffer
func (c *Cursor) SetPosition(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(c.data) {
		pos = len(c.data)
	}
	c.pos = pos
}

// Remaining returns the number of unread bytes
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Input returns the whole underlying buffer
func (c *Cursor) Input() []byte {
	return c.data
}

// EOF returns true if there is nothing left to read
func (c *Cursor) EOF() bool {
	return c.pos >= len(c.data)
}

func (c *Cursor) header() (itemHeader, error) {
	pos := c.pos
	if pos >= len(c.data) {
		return itemHeader{}, fmt.Errorf("%w at offset %d", ErrIncomplete, pos)
	}
	initial := c.data[pos]
	major := initial & CborTypeMask
	info := initial & CborInfoMask
	h := itemHeader{info: info, size: 1}
	switch {
	case info < cborInfoUint8:
		h.arg = uint64(info)
	case info <= cborInfoUint64:
		// 1, 2, 4 or 8 bytes of big-endian argument follow
		argLen := 1 << (info - cborInfoUint8)
		if pos+1+argLen > len(c.data) {
			return itemHeader{}, fmt.Errorf("%w at offset %d", ErrIncomplete, pos)
		}
		for _, b := range c.data[pos+1 : pos+1+argLen] {
			h.arg = h.arg<<8 | uint64(b)
		}
		h.size += argLen
	case info == cborInfoIndefinite:
		switch major {
		case CborTypeByteString, CborTypeTextString, CborTypeArray, CborTypeMap, CborTypeSimple:
		default:
			return itemHeader{}, fmt.Errorf(
				"%w: indefinite length for major type %d at offset %d",
				ErrMalformed,
				major>>5,
				pos,
			)
		}
	default:
		return itemHeader{}, fmt.Errorf(
			"%w: reserved additional info %d at offset %d",
			ErrMalformed,
			info,
			pos,
		)
	}
	switch major {
	case CborTypeUint:
		h.typ = TypeUint
	case CborTypeNegInt:
		h.typ = TypeNegInt
	case CborTypeByteString:
		h.typ = TypeBytes
		if info == cborInfoIndefinite {
			h.typ = TypeBytesIndef
		}
	case CborTypeTextString:
		h.typ = TypeString
		if info == cborInfoIndefinite {
			h.typ = TypeStringIndef
		}
	case CborTypeArray:
		h.typ = TypeArray
		if info == cborInfoIndefinite {
			h.typ = TypeArrayIndef
		}
	case CborTypeMap:
		h.typ = TypeMap
		if info == cborInfoIndefinite {
			h.typ = TypeMapIndef
		}
	case CborTypeTag:
		h.typ = TypeTag
	case CborTypeSimple:
		switch info {
		case cborSimpleFalse, cborSimpleTrue:
			h.typ = TypeBool
		case cborSimpleNull:
			h.typ = TypeNull
		case cborSimpleUndefined:
			h.typ = TypeUndefined
		case cborInfoUint8:
			h.typ = TypeSimple
		case cborInfoUint16:
			h.typ = TypeFloat16
		case cborInfoUint32:
			h.typ = TypeFloat32
		case cborInfoUint64:
			h.typ = TypeFloat64
		case cborInfoIndefinite:
			h.typ = TypeBreak
		default:
			h.typ = TypeSimple
		}
	}
	return h, nil
}

// Datatype peeks at the type of the next item without consuming it
func (c *Cursor) Datatype() (Type, error) {
	h, err := c.header()
	if err != nil {
		return TypeUnknown, err
	}
	return h.typ, nil
}

// AtBreak returns true if the next item is the break marker closing an indefinite
// collection
func (c *Cursor) AtBreak() bool {
	t, err := c.Datatype()
	return err == nil && t == TypeBreak
}

func (c *Cursor) expect(types ...Type) (itemHeader, error) {
	h, err := c.header()
	if err != nil {
		return h, err
	}
	for _, t := range types {
		if h.typ == t {
			return h, nil
		}
	}
	return h, &TypeError{Expected: types[0], Got: h.typ, Offset: c.pos}
}

// Uint reads an unsigned integer of any width
func (c *Cursor) Uint() (uint64, error) {
	h, err := c.expect(TypeUint)
	if err != nil {
		return 0, err
	}
	c.pos += h.size
	return h.arg, nil
}

func (c *Cursor) uintMax(limit uint64) (uint64, error) {
	h, err := c.expect(TypeUint)
	if err != nil {
		return 0, err
	}
	if h.arg > limit {
		return 0, fmt.Errorf(
			"%w: %d exceeds %d at offset %d",
			ErrOverflow,
			h.arg,
			limit,
			c.pos,
		)
	}
	c.pos += h.size
	return h.arg, nil
}

func (c *Cursor) U8() (uint8, error) {
	v, err := c.uintMax(math.MaxUint8)
	return uint8(v), err // #nosec G115 -- bounded by uintMax
}

func (c *Cursor) U16() (uint16, error) {
	v, err := c.uintMax(math.MaxUint16)
	return uint16(v), err // #nosec G115 -- bounded by uintMax
}

func (c *Cursor) U32() (uint32, error) {
	v, err := c.uintMax(math.MaxUint32)
	return uint32(v), err // #nosec G115 -- bounded by uintMax
}

// NegInt reads a negative integer and returns n where the encoded value is -1-n
func (c *Cursor) NegInt() (uint64, error) {
	h, err := c.expect(TypeNegInt)
	if err != nil {
		return 0, err
	}
	c.pos += h.size
	return h.arg, nil
}

// Int reads a signed integer that fits into an int64
func (c *Cursor) Int() (int64, error) {
	h, err := c.expect(TypeUint, TypeNegInt)
	if err != nil {
		return 0, err
	}
	if h.arg > math.MaxInt64 {
		return 0, fmt.Errorf("%w: integer at offset %d does not fit int64", ErrOverflow, c.pos)
	}
	c.pos += h.size
	if h.typ == TypeNegInt {
		return -1 - int64(h.arg), nil // #nosec G115 -- checked above
	}
	return int64(h.arg), nil // #nosec G115 -- checked above
}

func (c *Cursor) Bool() (bool, error) {
	h, err := c.expect(TypeBool)
	if err != nil {
		return false, err
	}
	c.pos += h.size
	return h.info == cborSimpleTrue, nil
}

func (c *Cursor) Null() error {
	h, err := c.expect(TypeNull)
	if err != nil {
		return err
	}
	c.pos += h.size
	return nil
}

func (c *Cursor) Undefined() error {
	h, err := c.expect(TypeUndefined)
	if err != nil {
		return err
	}
	c.pos += h.size
	return nil
}

// Simple reads a simple value other than the ones with a dedicated type
func (c *Cursor) Simple() (uint8, error) {
	h, err := c.expect(TypeSimple)
	if err != nil {
		return 0, err
	}
	c.pos += h.size
	return uint8(h.arg), nil // #nosec G115 -- simple values are at most one byte
}

// Float reads a half, single or double precision float
func (c *Cursor) Float() (float64, error) {
	h, err := c.expect(TypeFloat64, TypeFloat32, TypeFloat16)
	if err != nil {
		return 0, err
	}
	c.pos += h.size
	switch h.typ {
	case TypeFloat16:
		return float64(float16.Frombits(uint16(h.arg)).Float32()), nil // #nosec G115
	case TypeFloat32:
		return float64(math.Float32frombits(uint32(h.arg))), nil // #nosec G115
	default:
		return math.Float64frombits(h.arg), nil
	}
}

// Tag reads a tag number. The tagged item follows as the next item
func (c *Cursor) Tag() (uint64, error) {
	h, err := c.expect(TypeTag)
	if err != nil {
		return 0, err
	}
	c.pos += h.size
	return h.arg, nil
}

func (c *Cursor) stringContent(h itemHeader) ([]byte, error) {
	start := c.pos + h.size
	if uint64(len(c.data)-start) < h.arg {
		return nil, fmt.Errorf(
			"%w: %s of length %d at offset %d",
			ErrIncomplete,
			h.typ,
			h.arg,
			c.pos,
		)
	}
	end := start + int(h.arg) // #nosec G115 -- bounded by the buffer length
	c.pos = end
	return c.data[start:end], nil
}

// Bytes reads a definite-length byte string
func (c *Cursor) Bytes() ([]byte, error) {
	h, err := c.expect(TypeBytes)
	if err != nil {
		return nil, err
	}
	return c.stringContent(h)
}

// Str reads a definite-length text string
func (c *Cursor) Str() (string, error) {
	h, err := c.expect(TypeString)
	if err != nil {
		return "", err
	}
	ret, err := c.stringContent(h)
	return string(ret), err
}

// Array reads an array header. It returns the number of items, or indef=true for an
// indefinite-length array
func (c *Cursor) Array() (length uint64, indef bool, err error) {
	h, err := c.expect(TypeArray, TypeArrayIndef)
	if err != nil {
		return 0, false, err
	}
	c.pos += h.size
	return h.arg, h.typ == TypeArrayIndef, nil
}

// Map reads a map header. It returns the number of key/value pairs, or indef=true for
// an indefinite-length map
func (c *Cursor) Map() (length uint64, indef bool, err error) {
	h, err := c.expect(TypeMap, TypeMapIndef)
	if err != nil {
		return 0, false, err
	}
	c.pos += h.size
	return h.arg, h.typ == TypeMapIndef, nil
}

// Break reads the break marker that closes an indefinite-length item
func (c *Cursor) Break() error {
	h, err := c.expect(TypeBreak)
	if err != nil {
		return err
	}
	c.pos += h.size
	return nil
}

// Skip consumes the next complete item, including all nested items
func (c *Cursor) Skip() error {
	p := c.Probe()
	if err := p.skip(0); err != nil {
		return err
	}
	c.pos = p.pos
	return nil
}

func (c *Cursor) skip(depth int) error {
	if depth > maxSkipDepth {
		return fmt.Errorf("%w: nesting deeper than %d at offset %d", ErrMalformed, maxSkipDepth, c.pos)
	}
	offset := c.pos
	tok, err := c.NextToken()
	if err != nil {
		return err
	}
	switch tok.Kind {
	case TokenTag:
		return c.skip(depth + 1)
	case TokenArray, TokenMap:
		items := tok.Value
		if tok.Kind == TokenMap {
			items = mapItems(tok.Value)
		}
		for range items {
			if err := c.skip(depth + 1); err != nil {
				return err
			}
		}
	case TokenBeginArray, TokenBeginMap:
		for !c.AtBreak() {
			if err := c.skip(depth + 1); err != nil {
				return err
			}
		}
		return c.Break()
	case TokenBeginBytes, TokenBeginString:
		chunkType := TypeBytes
		if tok.Kind == TokenBeginString {
			chunkType = TypeString
		}
		for !c.AtBreak() {
			h, err := c.expect(chunkType)
			if err != nil {
				if errors.Is(err, ErrIncomplete) {
					return err
				}
				return fmt.Errorf("%w: bad chunk in indefinite string: %w", ErrMalformed, err)
			}
			if _, err := c.stringContent(h); err != nil {
				return err
			}
		}
		return c.Break()
	case TokenBreak:
		return fmt.Errorf("%w: unexpected break at offset %d", ErrMalformed, offset)
	}
	return nil
}

// RawItem consumes the next complete item and returns its encoded bytes
func (c *Cursor) RawItem() ([]byte, error) {
	start := c.pos
	if err := c.Skip(); err != nil {
		return nil, err
	}
	return c.data[start:c.pos], nil
}

// mapItems converts a pair count into an item count
func mapItems(pairs uint64) uint64 {
	if pairs > math.MaxUint64/2 {
		return math.MaxUint64
	}
	return pairs * 2
}
