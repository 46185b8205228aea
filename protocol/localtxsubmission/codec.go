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

package localtxsubmission

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/txreject/cbor"
	"github.com/blinklabs-io/txreject/ledger"
	"github.com/blinklabs-io/txreject/protocol"
)

// MessageDecoder turns a byte stream into local-tx-submission messages. A reject that
// arrives split across several reads is decoded again from the start each time more
// input is available, until the whole payload is present. It is not safe for
// concurrent use
type MessageDecoder struct {
	config  *Config
	logger  *slog.Logger
	buf     []byte
	pending bool
}

func NewMessageDecoder(cfg *Config) *MessageDecoder {
	if cfg == nil {
		tmpCfg := NewConfig()
		cfg = &tmpCfg
	}
	d := &MessageDecoder{
		config: cfg,
		logger: cfg.Logger.With("component", "protocol", "protocol", ProtocolName),
	}
	return d
}

// Pending reports whether a reject has been started but not yet completed
func (d *MessageDecoder) Pending() bool {
	return d.pending
}

// Buffered returns the number of bytes held by Feed
func (d *MessageDecoder) Buffered() int {
	return len(d.buf)
}

// Reset discards any buffered input and pending state
func (d *MessageDecoder) Reset() {
	d.buf = nil
	d.pending = false
}

// Feed appends chunk to the internal buffer and returns the next complete message, if
// any. A nil message with a nil error means more input is needed. Bytes following the
// returned message are kept, so Feed(nil) can be called again to get further messages
func (d *MessageDecoder) Feed(chunk []byte) (protocol.Message, error) {
	d.buf = append(d.buf, chunk...)
	if len(d.buf) == 0 {
		return nil, nil
	}
	msg, n, err := d.DecodeMessage(d.buf)
	if err != nil {
		var incErr *IncompleteError
		if errors.As(err, &incErr) {
			return nil, nil
		}
		d.Reset()
		return nil, err
	}
	remaining := copy(d.buf, d.buf[n:])
	d.buf = d.buf[:remaining]
	return msg, nil
}

// DecodeMessage decodes one message from the start of data, which holds everything
// received so far for the current message. It returns the message and the number of
// bytes it occupied. When data ends before the message does, an *IncompleteError is
// returned
func (d *MessageDecoder) DecodeMessage(data []byte) (protocol.Message, int, error) {
	if d.pending {
		return d.decodeReject(data)
	}
	msgType, err := peekMessageType(data)
	if err != nil {
		return nil, 0, d.incomplete(data, err)
	}
	if msgType == MessageTypeRejectTx {
		return d.decodeReject(data)
	}
	raw, err := cbor.NewCursor(data).RawItem()
	if err != nil {
		return nil, 0, d.incomplete(data, err)
	}
	if err := d.checkSize(len(raw)); err != nil {
		return nil, 0, err
	}
	msg, err := NewMsgFromCbor(uint(msgType), raw)
	if err != nil {
		return nil, 0, err
	}
	return msg, len(raw), nil
}

func (d *MessageDecoder) decodeReject(data []byte) (protocol.Message, int, error) {
	rejection, err := ledger.DecodeApplyTxError(data, ledger.WithLogger(d.logger))
	if err != nil {
		if isIncomplete(err) {
			d.pending = true
			return nil, 0, d.incomplete(data, err)
		}
		d.pending = false
		d.logger.Debug(
			"reject reason not decoded, keeping raw reason",
			"error", err,
		)
		// Keep the reason as raw CBOR when the envelope is not one we know
		raw, rawErr := cbor.NewCursor(data).RawItem()
		if rawErr != nil {
			if isIncomplete(rawErr) {
				return nil, 0, d.incomplete(data, rawErr)
			}
			return nil, 0, fmt.Errorf("%s: %w", ProtocolName, err)
		}
		if err := d.checkSize(len(raw)); err != nil {
			return nil, 0, err
		}
		msg, err := NewMsgFromCbor(MessageTypeRejectTx, raw)
		if err != nil {
			return nil, 0, err
		}
		return msg, len(raw), nil
	}
	d.pending = false
	raw := data[:rejection.BytesRead]
	if err := d.checkSize(len(raw)); err != nil {
		return nil, 0, err
	}
	c := cbor.NewCursor(raw)
	if _, _, err := c.Array(); err != nil {
		return nil, 0, err
	}
	if _, err := c.Uint(); err != nil {
		return nil, 0, err
	}
	msg := NewMsgRejectTx(raw[c.Position():])
	msg.Rejection = rejection
	msg.SetCbor(raw)
	if !rejection.FullyDecoded() {
		d.logger.Debug(
			"reject decoded partially",
			"summary", rejection.Summary(),
		)
	}
	return msg, len(raw), nil
}

func (d *MessageDecoder) incomplete(data []byte, err error) error {
	if !isIncomplete(err) {
		return fmt.Errorf("%s: %w", ProtocolName, err)
	}
	if sizeErr := d.checkSize(len(data)); sizeErr != nil {
		d.pending = false
		return sizeErr
	}
	return &IncompleteError{
		Buffered: len(data),
		Err:      err,
	}
}

func (d *MessageDecoder) checkSize(size int) error {
	if d.config.MaxMessageSize > 0 && size > d.config.MaxMessageSize {
		return fmt.Errorf(
			"%w: %d bytes exceeds limit of %d",
			ErrMessageTooLarge,
			size,
			d.config.MaxMessageSize,
		)
	}
	return nil
}

// peekMessageType reads the message type from the start of a message without
// consuming anything
func peekMessageType(data []byte) (uint8, error) {
	c := cbor.NewCursor(data)
	if _, _, err := c.Array(); err != nil {
		return 0, err
	}
	return c.U8()
}
