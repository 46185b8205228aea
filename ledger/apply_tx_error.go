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

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blinklabs-io/txreject/cbor"
)

const rejectTxMessageType = 2

var (
	// ErrNotRejection is returned when the payload is not a transaction rejection
	ErrNotRejection = errors.New("payload is not a transaction rejection")
	// ErrUnsupportedEnvelope is returned when the rejection is not wrapped the way the
	// hard fork combinator wraps an era-specific error
	ErrUnsupportedEnvelope = errors.New("unsupported rejection envelope")
)

// SkippedEntry records a rejection entry that could not be decoded
type SkippedEntry struct {
	Index  int
	Offset int
	Cbor   []byte
	Err    error
	// Drains is the number of drains needed to get past the entry
	Drains int
}

// ApplyTxError is the decoded list of ledger failures from a rejected transaction.
// Entries that could not be decoded are kept in Skipped and do not prevent decoding
// the rest of the list
type ApplyTxError struct {
	Era       uint8
	Failures  []LedgerPredFailure
	Skipped   []SkippedEntry
	BytesRead int
}

func (e *ApplyTxError) FullyDecoded() bool {
	return len(e.Skipped) == 0
}

func (e *ApplyTxError) Summary() string {
	if e.FullyDecoded() {
		return fmt.Sprintf("fully decoded: %d failures", len(e.Failures))
	}
	return fmt.Sprintf(
		"partially decoded: %d failures, %d entries unparsed",
		len(e.Failures),
		len(e.Skipped),
	)
}

// Reasons flattens every decoded failure
func (e *ApplyTxError) Reasons() []RejectReason {
	ret := make([]RejectReason, 0, len(e.Failures))
	for _, failure := range e.Failures {
		ret = append(ret, FlattenFailure(failure))
	}
	return ret
}

func (e *ApplyTxError) Error() string {
	var sb strings.Builder
	sb.WriteString("ApplyTxError ([")
	for idx, failure := range e.Failures {
		sb.WriteString(failure.Error())
		if idx < (len(e.Failures) - 1) {
			sb.WriteString(", ")
		}
	}
	sb.WriteString("])")
	if len(e.Skipped) > 0 {
		fmt.Fprintf(&sb, " (%d entries unparsed)", len(e.Skipped))
	}
	return sb.String()
}

type decodeConfig struct {
	logger *slog.Logger
}

type DecodeOption func(*decodeConfig)

// WithLogger specifies the logger used to report skipped entries
func WithLogger(logger *slog.Logger) DecodeOption {
	return func(c *decodeConfig) {
		c.logger = logger
	}
}

// DecodeApplyTxError decodes the payload of a transaction rejection message:
// [2, [[era, [* failure]]]]. An error is returned only when the envelope itself is
// unusable, the input ends early or the structure can no longer be followed
func DecodeApplyTxError(data []byte, opts ...DecodeOption) (*ApplyTxError, error) {
	cfg := decodeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	c := cbor.NewCursor(data)
	era, err := decodeEnvelope(c)
	if err != nil {
		return nil, err
	}
	logger := cfg.logger.With("component", "ledger", "era", EraName(era))
	if era != EraIdBabbage {
		logger.Warn("rejection from an era without a dedicated decoder, using Babbage layout")
	}
	length, indef, err := c.Array()
	if err != nil {
		return nil, envelopeError(err, "failure list")
	}
	ret := &ApplyTxError{Era: era}
	d := cbor.NewStructDecoder(c)
	for idx := 0; ; idx++ {
		if indef {
			if c.AtBreak() {
				if err := c.Break(); err != nil {
					return nil, err
				}
				break
			}
			if c.EOF() {
				return nil, fmt.Errorf("failure list: %w", cbor.ErrIncomplete)
			}
		} else if uint64(idx) >= length { // #nosec G115
			break
		}
		offset := c.Position()
		drains := d.Drains()
		failure, err := decodeLedgerPredFailure(d)
		if err == nil {
			// Consume anything the decoder left of the entry
			err = d.Drain()
			if err == nil {
				d.Reset()
				ret.Failures = append(ret.Failures, failure)
				continue
			}
		}
		if isFatal(err) {
			return nil, fmt.Errorf("failure entry %d at offset %d: %w", idx, offset, err)
		}
		if drainErr := d.Drain(); drainErr != nil {
			return nil, fmt.Errorf(
				"failure entry %d at offset %d: %w",
				idx,
				offset,
				drainErr,
			)
		}
		d.Reset()
		skipped := SkippedEntry{
			Index:  idx,
			Offset: offset,
			Cbor:   bytes.Clone(data[offset:c.Position()]),
			Err:    err,
			Drains: d.Drains() - drains,
		}
		logger.Debug(
			"skipped rejection entry",
			"index", idx,
			"offset", offset,
			"error", err,
		)
		ret.Skipped = append(ret.Skipped, skipped)
	}
	ret.BytesRead = c.Position()
	return ret, nil
}

// decodeEnvelope reads everything up to the start of the failure list and returns the era
func decodeEnvelope(c *cbor.Cursor) (uint8, error) {
	length, indef, err := c.Array()
	if err != nil {
		return 0, envelopeError(err, "message")
	}
	if indef || length != 2 {
		return 0, ErrNotRejection
	}
	msgType, err := c.Uint()
	if err != nil {
		return 0, envelopeError(err, "message type")
	}
	if msgType != rejectTxMessageType {
		return 0, fmt.Errorf("%w: message type %d", ErrNotRejection, msgType)
	}
	length, indef, err = c.Array()
	if err != nil {
		return 0, envelopeError(err, "era wrapper")
	}
	if indef || length != 1 {
		return 0, fmt.Errorf("%w: era wrapper must have 1 element", ErrUnsupportedEnvelope)
	}
	length, indef, err = c.Array()
	if err != nil {
		return 0, envelopeError(err, "era error")
	}
	if indef || length != 2 {
		return 0, fmt.Errorf("%w: era error must have 2 elements", ErrUnsupportedEnvelope)
	}
	era, err := c.U8()
	if err != nil {
		return 0, envelopeError(err, "era")
	}
	return era, nil
}

func envelopeError(err error, what string) error {
	if errors.Is(err, cbor.ErrIncomplete) || errors.Is(err, cbor.ErrMalformed) {
		return fmt.Errorf("%s: %w", what, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrUnsupportedEnvelope, what, err)
}

func isFatal(err error) bool {
	return errors.Is(err, cbor.ErrIncomplete) ||
		errors.Is(err, cbor.ErrMalformed) ||
		errors.Is(err, cbor.ErrStructuralDesync)
}
