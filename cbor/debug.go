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
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
)

var (
	cachedDiagMode     _cbor.DiagMode
	cachedDiagModeErr  error
	cachedDiagModeOnce sync.Once
)

func getDiagMode() (_cbor.DiagMode, error) {
	cachedDiagModeOnce.Do(func() {
		opts := _cbor.DiagOptions{
			ByteStringEncoding: _cbor.ByteStringBase16Encoding,
			// Show the contents of tag 24 instead of opaque bytes
			ByteStringEmbeddedCBOR: true,
			MaxNestedLevels:        256,
		}
		cachedDiagMode, cachedDiagModeErr = opts.DiagMode()
	})
	return cachedDiagMode, cachedDiagModeErr
}

// Diagnose returns the extended diagnostic notation (RFC 8949 section 8) of the first
// item in data, along with any bytes that follow it
func Diagnose(data []byte) (string, []byte, error) {
	dm, err := getDiagMode()
	if err != nil {
		return "", nil, err
	}
	ret, rest, err := dm.DiagnoseFirst(data)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return "", nil, fmt.Errorf("%w: %w", ErrIncomplete, err)
		}
		return "", nil, err
	}
	return ret, rest, nil
}
