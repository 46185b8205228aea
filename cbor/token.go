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
	"encoding/hex"
	"fmt"
)

type TokenKind uint8

const (
	TokenUint TokenKind = iota
	TokenNegInt
	TokenBytes
	TokenString
	TokenArray
	TokenMap
	TokenTag
	TokenBool
	TokenNull
	TokenUndefined
	TokenSimple
	TokenFloat
	TokenBeginBytes
	TokenBeginString
	TokenBeginArray
	TokenBeginMap
	TokenBreak
)

// Token is a single lexical element of a CBOR stream. Collection headers are tokens of
// their own; their contents follow as further tokens
type Token struct {
	Kind TokenKind
	// Value holds the integer, tag number, simple value or collection length
	Value uint64
	Bytes []byte
	Bool  bool
	Float float64
}

// Scope returns the scope opened by the token, if it opens a non-empty collection
func (t Token) Scope() (Scope, bool) {
	switch t.Kind {
	case TokenArray:
		if t.Value == 0 {
			return Scope{}, false
		}
		return Definite(t.Value), true
	case TokenMap:
		if t.Value == 0 {
			return Scope{}, false
		}
		return Definite(mapItems(t.Value)), true
	case TokenBeginArray, TokenBeginMap, TokenBeginBytes, TokenBeginString:
		return Indefinite(), true
	}
	return Scope{}, false
}

func (t Token) String() string {
	switch t.Kind {
	case TokenUint:
		return fmt.Sprintf("uint(%d)", t.Value)
	case TokenNegInt:
		return fmt.Sprintf("negint(-1-%d)", t.Value)
	case TokenBytes:
		return fmt.Sprintf("bytes(h'%s')", hex.EncodeToString(t.Bytes))
	case TokenString:
		return fmt.Sprintf("string(%q)", string(t.Bytes))
	case TokenArray:
		return fmt.Sprintf("array(%d)", t.Value)
	case TokenMap:
		return fmt.Sprintf("map(%d)", t.Value)
	case TokenTag:
		return fmt.Sprintf("tag(%d)", t.Value)
	case TokenBool:
		return fmt.Sprintf("bool(%t)", t.Bool)
	case TokenNull:
		return "null"
	case TokenUndefined:
		return "undefined"
	case TokenSimple:
		return fmt.Sprintf("simple(%d)", t.Value)
	case TokenFloat:
		return fmt.Sprintf("float(%g)", t.Float)
	case TokenBeginBytes:
		return "bytes(_"
	case TokenBeginString:
		return "string(_"
	case TokenBeginArray:
		return "array(_"
	case TokenBeginMap:
		return "map(_"
	case TokenBreak:
		return "break"
	}
	return fmt.Sprintf("TokenKind(%d)", uint8(t.Kind))
}

// NextToken consumes a single token. For a definite collection only the header is
// consumed, and for a tag only the tag number
func (c *Cursor) NextToken() (Token, error) {
	h, err := c.header()
	if err != nil {
		return Token{}, err
	}
	switch h.typ {
	case TypeUint:
		c.pos += h.size
		return Token{Kind: TokenUint, Value: h.arg}, nil
	case TypeNegInt:
		c.pos += h.size
		return Token{Kind: TokenNegInt, Value: h.arg}, nil
	case TypeBytes, TypeString:
		data, err := c.stringContent(h)
		if err != nil {
			return Token{}, err
		}
		kind := TokenBytes
		if h.typ == TypeString {
			kind = TokenString
		}
		return Token{Kind: kind, Value: h.arg, Bytes: data}, nil
	case TypeArray:
		c.pos += h.size
		return Token{Kind: TokenArray, Value: h.arg}, nil
	case TypeMap:
		c.pos += h.size
		return Token{Kind: TokenMap, Value: h.arg}, nil
	case TypeTag:
		c.pos += h.size
		return Token{Kind: TokenTag, Value: h.arg}, nil
	case TypeBool:
		c.pos += h.size
		return Token{Kind: TokenBool, Bool: h.info == cborSimpleTrue}, nil
	case TypeNull:
		c.pos += h.size
		return Token{Kind: TokenNull}, nil
	case TypeUndefined:
		c.pos += h.size
		return Token{Kind: TokenUndefined}, nil
	case TypeSimple:
		c.pos += h.size
		return Token{Kind: TokenSimple, Value: h.arg}, nil
	case TypeFloat16, TypeFloat32, TypeFloat64:
		f, err := c.Float()
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TokenFloat, Float: f}, nil
	case TypeBytesIndef:
		c.pos += h.size
		return Token{Kind: TokenBeginBytes}, nil
	case TypeStringIndef:
		c.pos += h.size
		return Token{Kind: TokenBeginString}, nil
	case TypeArrayIndef:
		c.pos += h.size
		return Token{Kind: TokenBeginArray}, nil
	case TypeMapIndef:
		c.pos += h.size
		return Token{Kind: TokenBeginMap}, nil
	case TypeBreak:
		c.pos += h.size
		return Token{Kind: TokenBreak}, nil
	}
	return Token{}, fmt.Errorf("%w: unknown item at offset %d", ErrMalformed, c.pos)
}
