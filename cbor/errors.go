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
	"io"
)

var (
	// ErrIncomplete means the input ended before the current item did. More bytes
	// from the transport may complete it
	ErrIncomplete = fmt.Errorf("cbor: incomplete input: %w", io.ErrUnexpectedEOF)
	// ErrMalformed means the input violates the CBOR item grammar
	ErrMalformed = errors.New("cbor: malformed input")
	// ErrUnexpectedShape means the next item was not a definite collection or scalar of
	// the kind the caller required
	ErrUnexpectedShape = errors.New("cbor: unexpected shape")
	// ErrStructuralDesync means the scope stack no longer matches the input. This is
	// never recoverable for the current buffer
	ErrStructuralDesync = errors.New("cbor: structural desynchronization")
)

// ShapeError describes an item that did not have the shape a decoder required. By the
// time it is returned the offending item has already been consumed and tracked
type ShapeError struct {
	Expected string
	Got      string
	Offset   int
	// Unexpected is set when the item was not even the right kind (for example a scalar
	// where a collection was required), as opposed to a collection of the wrong length
	Unexpected bool
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf(
		"cbor: shape mismatch at offset %d: expected %s, got %s",
		e.Offset,
		e.Expected,
		e.Got,
	)
}

func (e *ShapeError) Unwrap() error {
	if e.Unexpected {
		return ErrUnexpectedShape
	}
	return nil
}

// TypeError is returned by Cursor reads when the next item is of a different type
type TypeError struct {
	Expected Type
	Got      Type
	Offset   int
}

func (e *TypeError) Error() string {
	return fmt.Sprintf(
		"cbor: type mismatch at offset %d: expected %s, got %s",
		e.Offset,
		e.Expected,
		e.Got,
	)
}
