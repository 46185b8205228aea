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

	"github.com/blinklabs-io/txreject/cbor"
	"github.com/blinklabs-io/txreject/ledger"
)

// ErrMessageTooLarge is returned when a message is still incomplete after reaching the
// configured size limit
var ErrMessageTooLarge = errors.New("message too large")

// IncompleteError is returned when the buffered data ends before the message does. It
// matches cbor.ErrIncomplete
type IncompleteError struct {
	Buffered int
	Err      error
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("incomplete message after %d bytes: %s", e.Buffered, e.Err)
}

func (e *IncompleteError) Unwrap() error {
	return e.Err
}

// TransactionRejectedError represents an explicit transaction rejection
type TransactionRejectedError struct {
	ReasonCbor []byte
	Reason     error
	Rejection  *ledger.ApplyTxError
}

func (e TransactionRejectedError) Error() string {
	if e.Reason != nil {
		return e.Reason.Error()
	} else {
		return fmt.Sprintf("transaction rejected: CBOR reason hex: %x", e.ReasonCbor)
	}
}

func (e TransactionRejectedError) Unwrap() error {
	return e.Reason
}

// Reasons returns the flattened rejection reasons, if the rejection could be decoded
func (e TransactionRejectedError) Reasons() []ledger.RejectReason {
	if e.Rejection == nil {
		return nil
	}
	return e.Rejection.Reasons()
}

// newTransactionRejectedError builds the error returned to callers from a reject message
func newTransactionRejectedError(msg *MsgRejectTx) TransactionRejectedError {
	ret := TransactionRejectedError{
		ReasonCbor: []byte(msg.Reason),
		Rejection:  msg.Rejection,
	}
	if msg.Rejection != nil {
		ret.Reason = msg.Rejection
	}
	return ret
}

func isIncomplete(err error) bool {
	return errors.Is(err, cbor.ErrIncomplete)
}
