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
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// StructDecoder reads structured data from a Cursor while keeping a ScopeStack in step
// with every item it consumes. When decoding fails partway through a value, Drain
// consumes whatever is left of it so the cursor ends up at the next top-level item
type StructDecoder struct {
	cursor *Cursor
	stack  ScopeStack
	drains int
}

func NewStructDecoder(cursor *Cursor) *StructDecoder {
	return &StructDecoder{cursor: cursor}
}

func (d *StructDecoder) Cursor() *Cursor {
	return d.cursor
}

// Depth returns the number of unfinished collections
func (d *StructDecoder) Depth() int {
	return d.stack.Len()
}

// Stack returns a snapshot of the open scopes, bottom first
func (d *StructDecoder) Stack() []Scope {
	return d.stack.Scopes()
}

// Reset discards all open scopes
func (d *StructDecoder) Reset() {
	d.stack.Reset()
}

// Drains returns how many calls to Drain had input left to consume
func (d *StructDecoder) Drains() int {
	return d.drains
}

// nextTracked consumes one token, treating any tag numbers as a prefix of the token
// that follows them. It returns the stack depth after the parent collection was
// updated but before any scope opened by the token was pushed
func (d *StructDecoder) nextTracked() (Token, int, error) {
	p := d.cursor.Probe()
	offset := p.Position()
	tok, err := p.NextToken()
	for err == nil && tok.Kind == TokenTag {
		tok, err = p.NextToken()
	}
	if err != nil {
		return tok, 0, err
	}
	if tok.Kind == TokenBreak {
		top, ok := d.stack.Peek()
		if !ok || top.Kind != ScopeIndefinite {
			return tok, 0, fmt.Errorf(
				"%w: break at offset %d with open scopes %v",
				ErrStructuralDesync,
				offset,
				d.stack.Scopes(),
			)
		}
		d.stack.Pop()
		d.cursor.SetPosition(p.Position())
		return tok, d.stack.Len(), nil
	}
	d.cursor.SetPosition(p.Position())
	d.stack.consumeItem()
	depth := d.stack.Len()
	if scope, ok := tok.Scope(); ok {
		d.stack.Push(scope)
	}
	return tok, depth, nil
}

// SkipTo consumes items until no more than depth collections remain open
func (d *StructDecoder) SkipTo(depth int) error {
	for d.stack.Len() > depth {
		if _, _, err := d.nextTracked(); err != nil {
			return err
		}
	}
	return nil
}

// Drain consumes the rest of every open collection
func (d *StructDecoder) Drain() error {
	if d.stack.Empty() {
		return nil
	}
	d.drains++
	return d.SkipTo(0)
}

// SkipItem consumes exactly one item, including the contents of a collection. A break
// marker closing the innermost indefinite collection also counts as one item
func (d *StructDecoder) SkipItem() error {
	tok, depth, err := d.nextTracked()
	if err != nil {
		return err
	}
	if tok.Kind == TokenBreak {
		return nil
	}
	return d.SkipTo(depth)
}

func (d *StructDecoder) unexpected(expected string, t Type, offset int) error {
	if err := d.SkipItem(); err != nil {
		return err
	}
	return &ShapeError{
		Expected:   expected,
		Got:        t.String(),
		Offset:     offset,
		Unexpected: true,
	}
}

// ExpectCollection reads the header of a definite-length array and returns its length.
// The array's scope is pushed even when the length is not one of allowed, in which
// case a *ShapeError is returned and the contents are left for Drain. Any other item,
// maps included, is skipped and reported as ErrUnexpectedShape
func (d *StructDecoder) ExpectCollection(allowed ...uint64) (uint64, error) {
	offset := d.cursor.Position()
	t, err := d.cursor.Datatype()
	if err != nil {
		return 0, err
	}
	if t != TypeArray {
		return 0, d.unexpected(collectionName(allowed), t, offset)
	}
	length, _, err := d.cursor.Array()
	if err != nil {
		return 0, err
	}
	d.stack.consumeItem()
	if length > 0 {
		d.stack.Push(Definite(length))
	}
	if len(allowed) > 0 && !slices.Contains(allowed, length) {
		return length, &ShapeError{
			Expected: collectionName(allowed),
			Got:      fmt.Sprintf("%s(%d)", t, length),
			Offset:   offset,
		}
	}
	return length, nil
}

func collectionName(allowed []uint64) string {
	if len(allowed) == 0 {
		return "array"
	}
	lengths := make([]string, 0, len(allowed))
	for _, l := range allowed {
		lengths = append(lengths, strconv.FormatUint(l, 10))
	}
	return fmt.Sprintf("array(%s)", strings.Join(lengths, "|"))
}

// ExpectUint reads an unsigned integer. Any other item is skipped
func (d *StructDecoder) ExpectUint() (uint64, error) {
	offset := d.cursor.Position()
	t, err := d.cursor.Datatype()
	if err != nil {
		return 0, err
	}
	if t != TypeUint {
		return 0, d.unexpected("uint", t, offset)
	}
	ret, err := d.cursor.Uint()
	if err != nil {
		return 0, err
	}
	d.stack.consumeItem()
	return ret, nil
}

// ExpectSmallUnsigned reads an unsigned integer that fits in a byte, as used for
// variant tags. Any other item, including a larger integer, is skipped
func (d *StructDecoder) ExpectSmallUnsigned() (uint8, error) {
	offset := d.cursor.Position()
	t, err := d.cursor.Datatype()
	if err != nil {
		return 0, err
	}
	if t == TypeUint {
		p := d.cursor.Probe()
		if ret, err := p.U8(); err == nil {
			d.cursor.SetPosition(p.Position())
			d.stack.consumeItem()
			return ret, nil
		}
		if err := d.SkipItem(); err != nil {
			return 0, err
		}
		return 0, &ShapeError{
			Expected:   "small unsigned integer",
			Got:        "uint out of range",
			Offset:     offset,
			Unexpected: true,
		}
	}
	return 0, d.unexpected("small unsigned integer", t, offset)
}

// ExpectBytes reads a definite-length byte string. If sizes are given, the length must
// be one of them
func (d *StructDecoder) ExpectBytes(sizes ...int) ([]byte, error) {
	offset := d.cursor.Position()
	t, err := d.cursor.Datatype()
	if err != nil {
		return nil, err
	}
	if t != TypeBytes {
		return nil, d.unexpected("bytes", t, offset)
	}
	ret, err := d.cursor.Bytes()
	if err != nil {
		return nil, err
	}
	d.stack.consumeItem()
	if len(sizes) > 0 && !slices.Contains(sizes, len(ret)) {
		return nil, &ShapeError{
			Expected: fmt.Sprintf("bytes of length %v", sizes),
			Got:      fmt.Sprintf("bytes(%d)", len(ret)),
			Offset:   offset,
		}
	}
	return ret, nil
}

// ExpectRawItem consumes one complete item and returns its encoded bytes
func (d *StructDecoder) ExpectRawItem() ([]byte, error) {
	offset := d.cursor.Position()
	t, err := d.cursor.Datatype()
	if err != nil {
		return nil, err
	}
	if t == TypeBreak {
		return nil, d.unexpected("item", t, offset)
	}
	if err := d.SkipItem(); err != nil {
		return nil, err
	}
	return d.cursor.Input()[offset:d.cursor.Position()], nil
}

// Sequence calls fn once for each element of a definite or indefinite array. The array
// may be wrapped in the set tag (258). fn must consume exactly one item per call
func (d *StructDecoder) Sequence(fn func(idx int) error) error {
	p := d.cursor.Probe()
	if tag, err := p.Tag(); err == nil && tag == CborTagSet {
		d.cursor.SetPosition(p.Position())
	}
	offset := d.cursor.Position()
	t, err := d.cursor.Datatype()
	if err != nil {
		return err
	}
	switch t {
	case TypeArray:
		length, _, err := d.cursor.Array()
		if err != nil {
			return err
		}
		d.stack.consumeItem()
		if length == 0 {
			return nil
		}
		d.stack.Push(Definite(length))
		for idx := range length {
			if err := fn(int(idx)); err != nil { // #nosec G115
				return err
			}
		}
		return nil
	case TypeArrayIndef:
		if _, _, err := d.cursor.Array(); err != nil {
			return err
		}
		d.stack.consumeItem()
		d.stack.Push(Indefinite())
		for idx := 0; ; idx++ {
			t, err := d.cursor.Datatype()
			if err != nil {
				return err
			}
			if t == TypeBreak {
				_, _, err := d.nextTracked()
				return err
			}
			if err := fn(idx); err != nil {
				return err
			}
		}
	default:
		return d.unexpected("array", t, offset)
	}
}
