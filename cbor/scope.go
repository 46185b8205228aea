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
)

type ScopeKind uint8

const (
	ScopeDefinite ScopeKind = iota
	ScopeIndefinite
)

// Scope tracks one open collection. Definite scopes count the items still to be read;
// a definite map of n pairs opens a scope of 2n items
type Scope struct {
	Kind      ScopeKind
	Remaining uint64
}

func Definite(remaining uint64) Scope {
	return Scope{Kind: ScopeDefinite, Remaining: remaining}
}

func Indefinite() Scope {
	return Scope{Kind: ScopeIndefinite}
}

func (s Scope) String() string {
	if s.Kind == ScopeIndefinite {
		return "Indefinite"
	}
	return fmt.Sprintf("Definite(%d)", s.Remaining)
}

// ScopeStack is the stack of collections that have been opened but not yet finished.
// A definite scope is popped as soon as its last item starts, so an empty stack means
// the current top-level item is complete
type ScopeStack struct {
	scopes []Scope
}

func (s *ScopeStack) Push(scope Scope) {
	s.scopes = append(s.scopes, scope)
}

func (s *ScopeStack) Pop() (Scope, bool) {
	if len(s.scopes) == 0 {
		return Scope{}, false
	}
	ret := s.scopes[len(s.scopes)-1]
	s.scopes = s.scopes[:len(s.scopes)-1]
	return ret, true
}

func (s *ScopeStack) Peek() (Scope, bool) {
	if len(s.scopes) == 0 {
		return Scope{}, false
	}
	return s.scopes[len(s.scopes)-1], true
}

func (s *ScopeStack) Len() int {
	return len(s.scopes)
}

func (s *ScopeStack) Empty() bool {
	return len(s.scopes) == 0
}

func (s *ScopeStack) Reset() {
	s.scopes = s.scopes[:0]
}

// Scopes returns a copy of the stack, bottom first
func (s *ScopeStack) Scopes() []Scope {
	return slices.Clone(s.scopes)
}

// consumeItem records that one item of the innermost collection has been read
func (s *ScopeStack) consumeItem() {
	if len(s.scopes) == 0 {
		return
	}
	top := &s.scopes[len(s.scopes)-1]
	if top.Kind == ScopeIndefinite {
		return
	}
	if top.Remaining > 1 {
		top.Remaining--
		return
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
}
