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

package common

import (
	"encoding/json"
	"fmt"

	"github.com/blinklabs-io/txreject/cbor"
)

// Value is an amount of lovelace plus any native tokens. It is encoded either as a
// bare coin amount or as [coin, multiasset]
type Value struct {
	Coin   uint64
	Assets *MultiAsset
}

// DecodeValue reads a value in either of its encodings
func DecodeValue(d *cbor.StructDecoder) (Value, error) {
	var ret Value
	t, err := d.Cursor().Datatype()
	if err != nil {
		return ret, err
	}
	if t == cbor.TypeUint {
		ret.Coin, err = d.ExpectUint()
		return ret, err
	}
	if _, err := d.ExpectCollection(2); err != nil {
		return ret, err
	}
	if ret.Coin, err = d.ExpectUint(); err != nil {
		return ret, err
	}
	offset := d.Cursor().Position()
	rawAssets, err := d.ExpectRawItem()
	if err != nil {
		return ret, err
	}
	var assets MultiAsset
	if err := assets.UnmarshalCBOR(rawAssets); err != nil {
		return ret, fmt.Errorf("decode multiasset at offset %d: %w", offset, err)
	}
	ret.Assets = &assets
	return ret, nil
}

func (v *Value) UnmarshalCBOR(data []byte) error {
	d := cbor.NewStructDecoder(cbor.NewCursor(data))
	tmp, err := DecodeValue(d)
	if err != nil {
		return err
	}
	*v = tmp
	return nil
}

func (v Value) String() string {
	if v.Assets == nil || len(v.Assets.Policies()) == 0 {
		return fmt.Sprintf("%d lovelace", v.Coin)
	}
	return fmt.Sprintf("%d lovelace + %s", v.Coin, v.Assets)
}

func (v Value) MarshalJSON() ([]byte, error) {
	tmp := struct {
		Coin   uint64      `json:"coin"`
		Assets *MultiAsset `json:"assets,omitempty"`
	}{
		Coin:   v.Coin,
		Assets: v.Assets,
	}
	return json.Marshal(&tmp)
}
