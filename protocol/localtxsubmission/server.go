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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/blinklabs-io/txreject/cbor"
	"github.com/blinklabs-io/txreject/muxer"
	"github.com/blinklabs-io/txreject/protocol"
)

// Server answers transaction submissions on a transport carrying only this
// mini-protocol. It is mostly useful as a stand-in node
type Server struct {
	config    *Config
	logger    *slog.Logger
	transport io.ReadWriter
	decoder   *MessageDecoder
	state     protocol.State
}

func NewServer(transport io.ReadWriter, cfg *Config) *Server {
	if cfg == nil {
		tmpCfg := NewConfig()
		cfg = &tmpCfg
	}
	s := &Server{
		config:    cfg,
		transport: transport,
		decoder:   NewMessageDecoder(cfg),
		state:     stateIdle,
	}
	s.logger = cfg.Logger.With(
		"component", "protocol",
		"protocol", ProtocolName,
		"role", "server",
	)
	return s
}

// Serve handles messages until the client sends Done or the transport is closed. ctx is
// checked between messages. A SubmitTxFunc error of type TransactionRejectedError is sent to the client
// with its reason CBOR; any other error ends Serve
func (s *Server) Serve(ctx context.Context) error {
	if s.config.SubmitTxFunc == nil {
		return errors.New(
			"local-tx-submission server started but no SubmitTx callback function is defined",
		)
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg, err := s.receiveMessage()
		if err != nil {
			if errors.Is(err, protocol.ErrProtocolShuttingDown) {
				return nil
			}
			return err
		}
		switch msg.Type() {
		case MessageTypeSubmitTx:
			if err := s.handleSubmitTx(msg); err != nil {
				return err
			}
		case MessageTypeDone:
			s.logger.Debug("client done")
			return nil
		default:
			return fmt.Errorf(
				"%w: %s: received unexpected message type %d",
				protocol.ErrProtocolViolationInvalidMessage,
				ProtocolName,
				msg.Type(),
			)
		}
	}
}

func (s *Server) handleSubmitTx(msgGeneric protocol.Message) error {
	msg, ok := msgGeneric.(*MsgSubmitTx)
	if !ok {
		return fmt.Errorf("%s: unexpected message %T", ProtocolName, msgGeneric)
	}
	// Call the user callback function
	err := s.config.SubmitTxFunc(msg.Transaction)
	if err == nil {
		return s.sendMessage(NewMsgAcceptTx())
	}
	var rejectErr TransactionRejectedError
	var rejectErrPtr *TransactionRejectedError
	switch {
	case errors.As(err, &rejectErr):
	case errors.As(err, &rejectErrPtr):
		rejectErr = *rejectErrPtr
	default:
		return err
	}
	s.logger.Debug(
		"rejecting transaction",
		"error", rejectErr.Error(),
	)
	return s.sendMessage(NewMsgRejectTx(rejectErr.ReasonCbor))
}

func (s *Server) sendMessage(msg protocol.Message) error {
	if StateMap.Agency(s.state) != protocol.AgencyServer {
		return fmt.Errorf(
			"%w: %s: server cannot send in state %s",
			protocol.ErrProtocolViolationNoAgency,
			ProtocolName,
			s.state,
		)
	}
	newState, err := StateMap.Transition(s.state, msg)
	if err != nil {
		return err
	}
	data, err := cbor.Encode(msg)
	if err != nil {
		return fmt.Errorf("%s: encode error: %w", ProtocolName, err)
	}
	segments := muxer.SplitPayload(
		s.config.ProtocolId,
		data,
		true,
		s.config.MaxSegmentPayload,
	)
	if err := muxer.WriteSegments(s.transport, segments); err != nil {
		return err
	}
	s.state = newState
	return nil
}

func (s *Server) receiveMessage() (protocol.Message, error) {
	for {
		segment, err := muxer.ReadSegment(s.transport)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return nil, protocol.ErrProtocolShuttingDown
			}
			return nil, err
		}
		if segment.GetProtocolId() != s.config.ProtocolId {
			return nil, fmt.Errorf(
				"%w: %d",
				protocol.ErrProtocolViolationUnknownProtocol,
				segment.GetProtocolId(),
			)
		}
		msg, err := s.decoder.Feed(segment.Payload)
		if err != nil {
			return nil, err
		}
		if msg == nil {
			continue
		}
		newState, err := StateMap.Transition(s.state, msg)
		if err != nil {
			return nil, err
		}
		s.state = newState
		return msg, nil
	}
}
