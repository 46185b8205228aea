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

package ledger

// Era indexes as used by the hard fork combinator when tagging era-specific payloads
const (
	EraIdByron   = 0
	EraIdShelley = 1
	EraIdAllegra = 2
	EraIdMary    = 3
	EraIdAlonzo  = 4
	EraIdBabbage = 5
	EraIdConway  = 6
)

type Era struct {
	Id   uint8
	Name string
}

var eras = map[uint8]Era{
	EraIdByron: {
		Id:   EraIdByron,
		Name: "Byron",
	},
	EraIdShelley: {
		Id:   EraIdShelley,
		Name: "Shelley",
	},
	EraIdAllegra: {
		Id:   EraIdAllegra,
		Name: "Allegra",
	},
	EraIdMary: {
		Id:   EraIdMary,
		Name: "Mary",
	},
	EraIdAlonzo: {
		Id:   EraIdAlonzo,
		Name: "Alonzo",
	},
	EraIdBabbage: {
		Id:   EraIdBabbage,
		Name: "Babbage",
	},
	EraIdConway: {
		Id:   EraIdConway,
		Name: "Conway",
	},
}

// GetEraById returns the era with the given index, or nil if it is not known
func GetEraById(eraId uint8) *Era {
	era, ok := eras[eraId]
	if !ok {
		return nil
	}
	return &era
}

// EraName returns the name of the era, or a placeholder for unknown eras
func EraName(eraId uint8) string {
	if era := GetEraById(eraId); era != nil {
		return era.Name
	}
	return "Unknown"
}
