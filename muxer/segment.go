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

// Package muxer implements the segment framing used to carry mini-protocol messages
// over a single bearer
package muxer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

const (
	SegmentProtocolIdResponseFlag = 0x8000
	SegmentMaxPayloadLength       = 65535
	SegmentHeaderLength           = 8
)

var ErrPayloadTooLarge = errors.New("segment payload too large")

type SegmentHeader struct {
	Timestamp     uint32
	ProtocolId    uint16
	PayloadLength uint16
}

type Segment struct {
	SegmentHeader
	Payload []byte
}

func NewSegment(protocolId uint16, payload []byte, isResponse bool) *Segment {
	header := SegmentHeader{
		Timestamp:  uint32(time.Now().UnixNano() & 0xffffffff), // #nosec G115
		ProtocolId: protocolId,
	}
	if isResponse {
		header.ProtocolId = header.ProtocolId + SegmentProtocolIdResponseFlag
	}
	header.PayloadLength = uint16(len(payload)) // #nosec G115
	segment := &Segment{
		SegmentHeader: header,
		Payload:       payload,
	}
	return segment
}

func (s *SegmentHeader) IsRequest() bool {
	return (s.ProtocolId & SegmentProtocolIdResponseFlag) == 0
}

func (s *SegmentHeader) IsResponse() bool {
	return (s.ProtocolId & SegmentProtocolIdResponseFlag) > 0
}

func (s *SegmentHeader) GetProtocolId() uint16 {
	if s.ProtocolId >= SegmentProtocolIdResponseFlag {
		return s.ProtocolId - SegmentProtocolIdResponseFlag
	}
	return s.ProtocolId
}

// MarshalBinary returns the segment header followed by its payload
func (s *Segment) MarshalBinary() ([]byte, error) {
	if len(s.Payload) > SegmentMaxPayloadLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(s.Payload))
	}
	buf := bytes.NewBuffer(make([]byte, 0, SegmentHeaderLength+len(s.Payload)))
	if err := binary.Write(buf, binary.BigEndian, s.SegmentHeader); err != nil {
		return nil, err
	}
	buf.Write(s.Payload)
	return buf.Bytes(), nil
}

// ReadSegment reads a single segment from r
func ReadSegment(r io.Reader) (*Segment, error) {
	header := SegmentHeader{}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, err
	}
	segment := &Segment{
		SegmentHeader: header,
		Payload:       make([]byte, header.PayloadLength),
	}
	// We use ReadFull because it guarantees to read the expected number of bytes or
	// return an error
	if _, err := io.ReadFull(r, segment.Payload); err != nil {
		return nil, err
	}
	return segment, nil
}

// SplitPayload cuts a message payload into segments of at most maxLength bytes. A
// maxLength of zero or above the protocol limit uses the protocol limit
func SplitPayload(
	protocolId uint16,
	payload []byte,
	isResponse bool,
	maxLength int,
) []*Segment {
	if maxLength <= 0 || maxLength > SegmentMaxPayloadLength {
		maxLength = SegmentMaxPayloadLength
	}
	ret := make([]*Segment, 0, len(payload)/maxLength+1)
	for len(payload) > maxLength {
		ret = append(ret, NewSegment(protocolId, payload[:maxLength], isResponse))
		payload = payload[maxLength:]
	}
	return append(ret, NewSegment(protocolId, payload, isResponse))
}

// WriteSegments writes each segment to w in order
func WriteSegments(w io.Writer, segments []*Segment) error {
	for _, segment := range segments {
		data, err := segment.MarshalBinary()
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}
