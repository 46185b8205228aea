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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeStackConsumeItem(t *testing.T) {
	var s ScopeStack
	// No-op on an empty stack
	s.consumeItem()
	assert.True(t, s.Empty())

	s.Push(Indefinite())
	s.Push(Definite(2))
	s.consumeItem()
	assert.Equal(t, []Scope{Indefinite(), Definite(1)}, s.Scopes())
	// The last item of a definite scope pops it
	s.consumeItem()
	assert.Equal(t, []Scope{Indefinite()}, s.Scopes())
	// Indefinite scopes are only closed by a break
	s.consumeItem()
	s.consumeItem()
	assert.Equal(t, 1, s.Len())
}

func TestScopeStackPushPop(t *testing.T) {
	var s ScopeStack
	_, ok := s.Pop()
	assert.False(t, ok)
	_, ok = s.Peek()
	assert.False(t, ok)
	s.Push(Definite(3))
	s.Push(Indefinite())
	top, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, ScopeIndefinite, top.Kind)
	top, ok = s.Pop()
	assert.True(t, ok)
	assert.Equal(t, Indefinite(), top)
	assert.Equal(t, 1, s.Len())
	s.Reset()
	assert.True(t, s.Empty())
}

func TestScopeStackSnapshotIsCopy(t *testing.T) {
	var s ScopeStack
	s.Push(Definite(2))
	snapshot := s.Scopes()
	s.consumeItem()
	assert.Equal(t, Definite(2), snapshot[0])
}

func TestScopeString(t *testing.T) {
	assert.Equal(t, "Definite(3)", Definite(3).String())
	assert.Equal(t, "Indefinite", Indefinite().String())
}
