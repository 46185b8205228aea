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
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/txreject/cbor"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

const (
	Blake2b256Size = 32
	Blake2b224Size = 28
	Blake2b160Size = 20
)

type Blake2b256 [Blake2b256Size]byte

func NewBlake2b256(data []byte) Blake2b256 {
	b := Blake2b256{}
	copy(b[:], data)
	return b
}

func (b Blake2b256) String() string {
	return hex.EncodeToString(b[:])
}

func (b Blake2b256) Bytes() []byte {
	return b[:]
}

func (b Blake2b256) ToPlutusData() data.PlutusData {
	return data.NewByteString(b[:])
}

func (b Blake2b256) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// Blake2b256Hash generates a Blake2b-256 hash from the provided data
func Blake2b256Hash(data []byte) Blake2b256 {
	tmpHash, err := blake2b.New(Blake2b256Size, nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error generating empty blake2b hash: %s",
				err,
			),
		)
	}
	tmpHash.Write(data)
	return Blake2b256(tmpHash.Sum(nil))
}

// Blake2b224 is used for key hashes, script hashes and policy IDs
type Blake2b224 [Blake2b224Size]byte

func NewBlake2b224(data []byte) Blake2b224 {
	b := Blake2b224{}
	copy(b[:], data)
	return b
}

func (b Blake2b224) String() string {
	return hex.EncodeToString(b[:])
}

func (b Blake2b224) Bytes() []byte {
	return b[:]
}

func (b Blake2b224) ToPlutusData() data.PlutusData {
	return data.NewByteString(b[:])
}

func (b Blake2b224) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// Bech32 encodes the hash with the given human-readable prefix, such as "addr_vkh"
func (b Blake2b224) Bech32(prefix string) string {
	return encodeBech32(prefix, b[:])
}

type Blake2b160 [Blake2b160Size]byte

func (b Blake2b160) Bytes() []byte {
	return b[:]
}

func encodeBech32(prefix string, payload []byte) string {
	// Convert data to base32 and encode as bech32
	convData, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		panic(
			fmt.Sprintf("unexpected error converting data to base32: %s", err),
		)
	}
	encoded, err := bech32.Encode(prefix, convData)
	if err != nil {
		panic(fmt.Sprintf("unexpected error encoding data as bech32: %s", err))
	}
	return encoded
}

// MultiAsset is the set of native tokens carried by a value, keyed by policy ID and
// asset name
type MultiAsset struct {
	data map[Blake2b224]map[cbor.ByteString]uint64
}

func NewMultiAsset(data map[Blake2b224]map[cbor.ByteString]uint64) MultiAsset {
	if data == nil {
		data = make(map[Blake2b224]map[cbor.ByteString]uint64)
	}
	return MultiAsset{data: data}
}

// multiAssetJson is a convenience type for marshaling MultiAsset to JSON
type multiAssetJson struct {
	Name        string `json:"name"`
	NameHex     string `json:"nameHex"`
	PolicyId    string `json:"policyId"`
	Fingerprint string `json:"fingerprint"`
	Amount      uint64 `json:"amount"`
}

func (m *MultiAsset) UnmarshalCBOR(data []byte) error {
	_, err := cbor.Decode(data, &(m.data))
	return err
}

func (m MultiAsset) MarshalJSON() ([]byte, error) {
	tmpAssets := make([]multiAssetJson, 0, len(m.data))
	for _, policyId := range m.Policies() {
		for _, assetName := range m.Assets(policyId) {
			tmpAssets = append(
				tmpAssets,
				multiAssetJson{
					Name:     string(assetName),
					NameHex:  hex.EncodeToString(assetName),
					Amount:   m.Asset(policyId, assetName),
					PolicyId: policyId.String(),
					Fingerprint: NewAssetFingerprint(
						policyId.Bytes(),
						assetName,
					).String(),
				},
			)
		}
	}
	return json.Marshal(&tmpAssets)
}

func (m *MultiAsset) ToPlutusData() data.PlutusData {
	tmpData := make([][2]data.PlutusData, 0, len(m.data))
	for _, policyId := range m.Policies() {
		assetNames := m.Assets(policyId)
		tmpPolicyData := make([][2]data.PlutusData, 0, len(assetNames))
		for _, assetName := range assetNames {
			amount := m.Asset(policyId, assetName)
			tmpPolicyData = append(
				tmpPolicyData,
				[2]data.PlutusData{
					data.NewByteString(assetName),
					data.NewInteger(new(big.Int).SetUint64(amount)),
				},
			)
		}
		tmpData = append(
			tmpData,
			[2]data.PlutusData{
				data.NewByteString(policyId.Bytes()),
				data.NewMap(tmpPolicyData),
			},
		)
	}
	return data.NewMap(tmpData)
}

// Policies returns the policy IDs in ascending byte order
func (m *MultiAsset) Policies() []Blake2b224 {
	ret := slices.Collect(maps.Keys(m.data))
	slices.SortFunc(
		ret,
		func(a, b Blake2b224) int { return bytes.Compare(a.Bytes(), b.Bytes()) },
	)
	return ret
}

// Assets returns the asset names under a policy in ascending byte order
func (m *MultiAsset) Assets(policyId Blake2b224) [][]byte {
	assets, ok := m.data[policyId]
	if !ok {
		return nil
	}
	ret := make([][]byte, 0, len(assets))
	for assetName := range assets {
		ret = append(ret, assetName.Bytes())
	}
	slices.SortFunc(ret, bytes.Compare)
	return ret
}

func (m *MultiAsset) Asset(policyId Blake2b224, assetName []byte) uint64 {
	policy, ok := m.data[policyId]
	if !ok {
		return 0
	}
	return policy[cbor.NewByteString(assetName)]
}

// String returns a stable representation of the form
// [<policyId>.<assetNameHex>=<amount>, ...]
func (m *MultiAsset) String() string {
	if m == nil || len(m.data) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	first := true
	for _, policyId := range m.Policies() {
		for _, assetName := range m.Assets(policyId) {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(policyId.String())
			b.WriteByte('.')
			b.WriteString(hex.EncodeToString(assetName))
			b.WriteByte('=')
			b.WriteString(strconv.FormatUint(m.Asset(policyId, assetName), 10))
		}
	}
	b.WriteByte(']')
	return b.String()
}

// AssetFingerprint identifies a native token per CIP-14
type AssetFingerprint struct {
	policyId  []byte
	assetName []byte
}

func NewAssetFingerprint(policyId []byte, assetName []byte) AssetFingerprint {
	return AssetFingerprint{
		policyId:  policyId,
		assetName: assetName,
	}
}

func (a AssetFingerprint) Hash() Blake2b160 {
	tmpHash, err := blake2b.New(Blake2b160Size, nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error creating empty blake2b hash: %s",
				err,
			),
		)
	}
	tmpHash.Write(a.policyId)
	tmpHash.Write(a.assetName)
	return Blake2b160(tmpHash.Sum(nil))
}

func (a AssetFingerprint) String() string {
	return encodeBech32("asset", a.Hash().Bytes())
}
