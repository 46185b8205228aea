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
	"github.com/blinklabs-io/txreject/cbor"
)

// An additional info of 31 marks an indefinite-length item
const indefinite = cbor.CborInfoMask

// indefLengthList encodes as an indefinite-length CBOR array
type indefLengthList []any

func (i indefLengthList) MarshalCBOR() ([]byte, error) {
	ret := []byte{cbor.CborTypeArray | indefinite}
	for _, item := range i {
		data, err := cbor.Encode(&item)
		if err != nil {
			return nil, err
		}
		ret = append(ret, data...)
	}
	return append(ret, cbor.CborBreak), nil
}

// indefLengthMap encodes as an indefinite-length CBOR map with pairs in the order given
type indefLengthMap [][2]any

func (i indefLengthMap) MarshalCBOR() ([]byte, error) {
	ret := []byte{cbor.CborTypeMap | indefinite}
	for _, pair := range i {
		for _, item := range pair {
			data, err := cbor.Encode(&item)
			if err != nil {
				return nil, err
			}
			ret = append(ret, data...)
		}
	}
	return append(ret, cbor.CborBreak), nil
}

// indefLengthByteString encodes as an indefinite-length CBOR bytestring made up of the
// provided chunks
type indefLengthByteString [][]byte

func (i indefLengthByteString) MarshalCBOR() ([]byte, error) {
	ret := []byte{cbor.CborTypeByteString | indefinite}
	for _, chunk := range i {
		data, err := cbor.Encode(chunk)
		if err != nil {
			return nil, err
		}
		ret = append(ret, data...)
	}
	return append(ret, cbor.CborBreak), nil
}
