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
	"testing"

	"github.com/blinklabs-io/txreject/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnose(t *testing.T) {
	c := newCursor(t, "8301820203f5"+"07")
	diag, rest, err := cbor.Diagnose(c.Input())
	require.NoError(t, err)
	assert.Equal(t, "[1, [2, 3], true]", diag)
	assert.Equal(t, []byte{0x07}, rest)
}

func TestDiagnoseBytes(t *testing.T) {
	c := newCursor(t, "420102")
	diag, _, err := cbor.Diagnose(c.Input())
	require.NoError(t, err)
	assert.Equal(t, "h'0102'", diag)
}

func TestDiagnoseIncomplete(t *testing.T) {
	c := newCursor(t, "830102")
	_, _, err := cbor.Diagnose(c.Input())
	assert.ErrorIs(t, err, cbor.ErrIncomplete)
}
