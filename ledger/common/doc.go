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

// Package common provides the ledger types that rejection failures refer to.
//
// # Key Files by Purpose
//
//   - common.go: Blake2b hash types, MultiAsset and asset fingerprints
//   - input.go: TransactionInput
//   - value.go: Value (coin plus optional native tokens)
//
// # Common Patterns
//
// Types that appear inside a rejection are read with a cbor.StructDecoder so that a
// malformed item leaves the decoder's scope stack in a state that can be drained:
//
//	input, err := common.DecodeTransactionInput(d)
//
// Nested maps with no structural recovery needs (such as MultiAsset) are taken as a
// raw item and decoded with cbor.Decode.
package common
