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
	"sync"
	"time"

	"github.com/blinklabs-io/txreject/cbor"
	"github.com/blinklabs-io/txreject/muxer"
	"github.com/blinklabs-io/txreject/protocol"
)

// Client submits transactions over a transport carrying only this mini-protocol. Only
// one transaction is in flight at a time
type Client struct {
	config    *Config
	logger    *slog.Logger
	transport io.ReadWriter
	decoder   *MessageDecoder
	busyMutex sync.Mutex
	state     protocol.State
}

type readDeadliner interface {
	SetReadDeadline(time.Time) error
}

func NewClient(transport io.ReadWriter, cfg *Config) *Client {
	if cfg == nil {
		tmpCfg := NewConfig()
		cfg = &tmpCfg
	}
	c := &Client{
		config:    cfg,
		transport: transport,
		decoder:   NewMessageDecoder(cfg),
		state:     stateIdle,
	}
	c.logger = cfg.Logger.With(
		"component", "protocol",
		"protocol", ProtocolName,
		"role", "client",
	)
	return c
}

// SubmitTx sends a transaction and waits for the server's verdict. A rejection is
// returned as a TransactionRejectedError
func (c *Client) SubmitTx(ctx context.Context, eraId uint16, tx []byte) error {
	c.busyMutex.Lock()
	defer c.busyMutex.Unlock()
	msg := NewMsgSubmitTx(eraId, tx)
	if txHash, err := msg.TxHash(); err == nil {
		c.logger.Debug(
			"submitting transaction",
			"era_id", eraId,
			"tx_hash", txHash.String(),
		)
	}
	if err := c.sendMessage(msg); err != nil {
		return err
	}
	reply, err := c.receiveMessage(ctx)
	if err != nil {
		return err
	}
	switch m := reply.(type) {
	case *MsgAcceptTx:
		c.logger.Debug("transaction accepted")
		return nil
	case *MsgRejectTx:
		rejectErr := newTransactionRejectedError(m)
		if m.Rejection != nil {
			c.logger.Debug(
				"transaction rejected",
				"summary", m.Rejection.Summary(),
			)
		}
		return rejectErr
	default:
		return fmt.Errorf(
			"%w: %s: received unexpected message type %d",
			protocol.ErrProtocolViolationInvalidMessage,
			ProtocolName,
			reply.Type(),
		)
	}
}

// Done tells the server that no more transactions will be submitted
func (c *Client) Done() error {
	c.busyMutex.Lock()
	defer c.busyMutex.Unlock()
	return c.sendMessage(NewMsgDone())
}

func (c *Client) sendMessage(msg protocol.Message) error {
	if StateMap.Agency(c.state) != protocol.AgencyClient {
		return fmt.Errorf(
			"%w: %s: client cannot send in state %s",
			protocol.ErrProtocolViolationNoAgency,
			ProtocolName,
			c.state,
		)
	}
	newState, err := StateMap.Transition(c.state, msg)
	if err != nil {
		return err
	}
	data, err := cbor.Encode(msg)
	if err != nil {
		return fmt.Errorf("%s: encode error: %w", ProtocolName, err)
	}
	segments := muxer.SplitPayload(
		c.config.ProtocolId,
		data,
		false,
		c.config.MaxSegmentPayload,
	)
	if err := muxer.WriteSegments(c.transport, segments); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
			return protocol.ErrProtocolShuttingDown
		}
		return err
	}
	c.state = newState
	return nil
}

func (c *Client) receiveMessage(ctx context.Context) (protocol.Message, error) {
	if StateMap.Agency(c.state) != protocol.AgencyServer {
		return nil, fmt.Errorf(
			"%w: %s: no reply expected in state %s",
			protocol.ErrProtocolViolationNoAgency,
			ProtocolName,
			c.state,
		)
	}
	if dl, ok := c.transport.(readDeadliner); ok {
		deadline := time.Time{}
		if c.config.Timeout > 0 {
			deadline = time.Now().Add(c.config.Timeout)
		}
		if ctxDeadline, ok := ctx.Deadline(); ok &&
			(deadline.IsZero() || ctxDeadline.Before(deadline)) {
			deadline = ctxDeadline
		}
		if err := dl.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
		// Unblock a pending read when the context ends
		stop := context.AfterFunc(ctx, func() {
			_ = dl.SetReadDeadline(time.Now())
		})
		defer func() {
			stop()
			_ = dl.SetReadDeadline(time.Time{})
		}()
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		segment, err := muxer.ReadSegment(c.transport)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return nil, protocol.ErrProtocolShuttingDown
			}
			return nil, err
		}
		if segment.GetProtocolId() != c.config.ProtocolId {
			return nil, fmt.Errorf(
				"%w: %d",
				protocol.ErrProtocolViolationUnknownProtocol,
				segment.GetProtocolId(),
			)
		}
		msg, err := c.decoder.Feed(segment.Payload)
		if err != nil {
			return nil, err
		}
		if msg == nil {
			c.logger.Debug(
				"waiting for more data",
				"buffered", c.decoder.Buffered(),
				"pending_reject", c.decoder.Pending(),
			)
			continue
		}
		newState, err := StateMap.Transition(c.state, msg)
		if err != nil {
			return nil, err
		}
		c.state = newState
		return msg, nil
	}
}
