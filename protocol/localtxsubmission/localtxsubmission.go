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

// Package localtxsubmission implements the Ouroboros local-tx-submission protocol
package localtxsubmission

import (
	"log/slog"
	"time"

	"github.com/blinklabs-io/txreject/muxer"
	"github.com/blinklabs-io/txreject/protocol"
)

// Protocol identifiers
const (
	ProtocolName        = "local-tx-submission"
	ProtocolId   uint16 = 6
)

// Default limits
const (
	DefaultMaxMessageSize = 1024 * 1024
	DefaultTimeout        = 30 * time.Second
)

var (
	stateIdle = protocol.NewState(1, "Idle")
	stateBusy = protocol.NewState(2, "Busy")
	stateDone = protocol.NewState(3, "Done")
)

// LocalTxSubmission protocol state machine
var StateMap = protocol.StateMap{
	stateIdle: protocol.StateMapEntry{
		Agency: protocol.AgencyClient,
		Transitions: []protocol.StateTransition{
			{
				MsgType:  MessageTypeSubmitTx,
				NewState: stateBusy,
			},
			{
				MsgType:  MessageTypeDone,
				NewState: stateDone,
			},
		},
	},
	stateBusy: protocol.StateMapEntry{
		Agency: protocol.AgencyServer,
		Transitions: []protocol.StateTransition{
			{
				MsgType:  MessageTypeAcceptTx,
				NewState: stateIdle,
			},
			{
				MsgType:  MessageTypeRejectTx,
				NewState: stateIdle,
			},
		},
	},
	stateDone: protocol.StateMapEntry{
		Agency: protocol.AgencyNone,
	},
}

// Config is used to configure the LocalTxSubmission protocol instance
type Config struct {
	Logger            *slog.Logger
	ProtocolId        uint16
	MaxMessageSize    int
	MaxSegmentPayload int
	Timeout           time.Duration
	SubmitTxFunc      SubmitTxFunc
}

// Callback function types
type SubmitTxFunc func(MsgSubmitTxTransaction) error

// LocalTxSubmissionOptionFunc represents a function used to modify the LocalTxSubmission protocol config
type LocalTxSubmissionOptionFunc func(*Config)

// NewConfig returns a new LocalTxSubmission config object with the provided options
func NewConfig(options ...LocalTxSubmissionOptionFunc) Config {
	c := Config{
		ProtocolId:        ProtocolId,
		MaxMessageSize:    DefaultMaxMessageSize,
		MaxSegmentPayload: muxer.SegmentMaxPayloadLength,
		Timeout:           DefaultTimeout,
	}
	// Apply provided options functions
	for _, option := range options {
		option(&c)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// WithLogger specifies the logger used for protocol events and decode diagnostics
func WithLogger(logger *slog.Logger) LocalTxSubmissionOptionFunc {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithProtocolId overrides the protocol ID carried in segment headers
func WithProtocolId(protocolId uint16) LocalTxSubmissionOptionFunc {
	return func(c *Config) {
		c.ProtocolId = protocolId
	}
}

// WithMaxMessageSize specifies how large a single message may grow while it is
// being reassembled
func WithMaxMessageSize(size int) LocalTxSubmissionOptionFunc {
	return func(c *Config) {
		c.MaxMessageSize = size
	}
}

// WithMaxSegmentPayload specifies the largest segment payload used when sending
func WithMaxSegmentPayload(size int) LocalTxSubmissionOptionFunc {
	return func(c *Config) {
		c.MaxSegmentPayload = size
	}
}

// WithTimeout specifies the timeout for a transaction submission when acting as a client
func WithTimeout(timeout time.Duration) LocalTxSubmissionOptionFunc {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithSubmitTxFunc specifies the SubmitTx callback function when acting as a server
func WithSubmitTxFunc(submitTxFunc SubmitTxFunc) LocalTxSubmissionOptionFunc {
	return func(c *Config) {
		c.SubmitTxFunc = submitTxFunc
	}
}
