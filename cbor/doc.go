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

// Package cbor provides CBOR decoding utilities for Cardano node responses.
//
// # Navigation Guide
//
// Two decoding styles live side by side in this package.
//
// Reflection based, wrapping github.com/fxamacker/cbor/v2:
//   - Decode, Encode: one item to or from a Go value
//   - StructAsArray: embed to decode a struct from a CBOR array
//   - DecodeStoreCbor: embed to keep the original bytes of a value
//   - ByteString: bytestrings usable as map keys
//   - Diagnose: diagnostic notation for debugging
//
// Positional, for inputs whose shape is only partly known:
//   - Cursor: typed reads over a byte buffer that never move on failure
//   - Token: one lexical element (collection headers are tokens of their own)
//   - ScopeStack: the collections opened but not yet finished
//   - StructDecoder: typed reads that keep a ScopeStack in step
//
// # Recovering from unknown input
//
// A StructDecoder is used for one top-level item at a time:
//
//	d := cbor.NewStructDecoder(cursor)
//	if err := decodeThing(d); err != nil {
//	    if err := d.Drain(); err != nil {
//	        return err // incomplete or desynchronized
//	    }
//	    d.Reset()
//	}
//
// Drain consumes the unread remainder of every collection the failed decode opened,
// so the cursor is left at the start of the next item.
//
// # Errors
//
//  1. ErrIncomplete: the input stopped partway through an item; more bytes may help
//  2. ErrMalformed: the bytes are not valid CBOR
//  3. ErrUnexpectedShape, *ShapeError: valid CBOR of the wrong shape
//  4. ErrStructuralDesync: a break marker did not match the open scopes
package cbor
