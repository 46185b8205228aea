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
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/txreject/cbor"
	"github.com/blinklabs-io/txreject/ledger"
	"github.com/blinklabs-io/txreject/ledger/common"
	"github.com/blinklabs-io/txreject/protocol"
)

// Message types
const (
	MessageTypeSubmitTx = 0
	MessageTypeAcceptTx = 1
	MessageTypeRejectTx = 2
	MessageTypeDone     = 3
)

// NewMsgFromCbor parses a LocalTxSubmission message from CBOR
func NewMsgFromCbor(msgType uint, data []byte) (protocol.Message, error) {
	var ret protocol.Message
	switch msgType {
	case MessageTypeSubmitTx:
		ret = &MsgSubmitTx{}
	case MessageTypeAcceptTx:
		ret = &MsgAcceptTx{}
	case MessageTypeRejectTx:
		ret = &MsgRejectTx{}
	case MessageTypeDone:
		ret = &MsgDone{}
	default:
		return nil, fmt.Errorf(
			"%w: %s: unknown message type %d",
			protocol.ErrProtocolViolationInvalidMessage,
			ProtocolName,
			msgType,
		)
	}
	if _, err := cbor.Decode(data, ret); err != nil {
		return nil, fmt.Errorf("%s: decode error: %w", ProtocolName, err)
	}
	// Store the raw message CBOR
	ret.SetCbor(data)
	return ret, nil
}

type MsgSubmitTx struct {
	protocol.MessageBase
	Transaction MsgSubmitTxTransaction
}

type MsgSubmitTxTransaction struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	EraId uint16
	Raw   cbor.WrappedCbor
}

func NewMsgSubmitTx(eraId uint16, tx []byte) *MsgSubmitTx {
	m := &MsgSubmitTx{
		MessageBase: protocol.MessageBase{
			MessageType: MessageTypeSubmitTx,
		},
		Transaction: MsgSubmitTxTransaction{
			EraId: eraId,
			Raw:   cbor.WrappedCbor(tx),
		},
	}
	return m
}

func (t *MsgSubmitTxTransaction) UnmarshalCBOR(data []byte) error {
	if err := cbor.DecodeGeneric(data, t); err != nil {
		return fmt.Errorf("transaction: %w", err)
	}
	t.SetCbor(data)
	return nil
}

// TxBytes returns the transaction carried in the wrapped CBOR tag
func (t MsgSubmitTxTransaction) TxBytes() []byte {
	return t.Raw.Bytes()
}

// TxHash returns the hash of the transaction body, which is the first element of the
// transaction
func (m *MsgSubmitTx) TxHash() (common.Blake2b256, error) {
	c := cbor.NewCursor(m.Transaction.TxBytes())
	if _, _, err := c.Array(); err != nil {
		return common.Blake2b256{}, fmt.Errorf("transaction: %w", err)
	}
	body, err := c.RawItem()
	if err != nil {
		return common.Blake2b256{}, fmt.Errorf("transaction body: %w", err)
	}
	return common.Blake2b256Hash(body), nil
}

type MsgAcceptTx struct {
	protocol.MessageBase
}

func NewMsgAcceptTx() *MsgAcceptTx {
	m := &MsgAcceptTx{
		MessageBase: protocol.MessageBase{
			MessageType: MessageTypeAcceptTx,
		},
	}
	return m
}

type MsgRejectTx struct {
	protocol.MessageBase
	// We use RawMessage here because the failure reason can be numerous different
	// structures, and we'll need to do further processing
	Reason cbor.RawMessage
	// Rejection is the decoded failure list, if the reason has the expected envelope
	Rejection *ledger.ApplyTxError `cbor:"-"`
}

func NewMsgRejectTx(reasonCbor []byte) *MsgRejectTx {
	m := &MsgRejectTx{
		MessageBase: protocol.MessageBase{
			MessageType: MessageTypeRejectTx,
		},
		Reason: cbor.RawMessage(reasonCbor),
	}
	return m
}

func (m *MsgRejectTx) UnmarshalCBOR(data []byte) error {
	type tMsgRejectTx MsgRejectTx
	var tmp tMsgRejectTx
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return err
	}
	*m = MsgRejectTx(tmp)
	// MessageDecoder logs era and skip details with its own logger
	rejection, err := ledger.DecodeApplyTxError(
		data,
		ledger.WithLogger(slog.New(slog.DiscardHandler)),
	)
	if err == nil {
		m.Rejection = rejection
	}
	return nil
}

type MsgDone struct {
	protocol.MessageBase
}

func NewMsgDone() *MsgDone {
	m := &MsgDone{
		MessageBase: protocol.MessageBase{
			MessageType: MessageTypeDone,
		},
	}
	return m
}
