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

package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/txreject/cbor"
	"github.com/blinklabs-io/txreject/ledger"
	"github.com/blinklabs-io/txreject/ledger/common"
	"github.com/spf13/cobra"
	utxorpc "github.com/utxorpc/go-codegen/utxorpc/v1alpha/cardano"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJson = "json"
	outputYaml = "yaml"
)

type decodeFlags struct {
	file    string
	diag    bool
	utxorpc bool
}

type decodeResult struct {
	Era       string          `json:"era"`
	EraId     uint8           `json:"eraId"`
	Summary   string          `json:"summary"`
	BytesRead int             `json:"bytesRead"`
	Failures  []string        `json:"failures"`
	Reasons   []reasonResult  `json:"reasons"`
	Skipped   []skippedResult `json:"skipped,omitempty"`
}

type reasonResult struct {
	Kind    ledger.ReasonKind   `json:"kind"`
	Message string              `json:"message"`
	Detail  ledger.RejectReason `json:"detail"`
	Utxorpc []*utxorpc.TxInput  `json:"utxorpc,omitempty"`
	Plutus  []string            `json:"plutus,omitempty"`
}

type skippedResult struct {
	Index  int    `json:"index"`
	Offset int    `json:"offset"`
	Cbor   string `json:"cbor"`
	Error  string `json:"error"`
	Diag   string `json:"diag,omitempty"`
}

func newDecodeCmd(globals *globalFlags) *cobra.Command {
	f := &decodeFlags{}
	cmd := &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode a rejection payload given as hex or read from a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(f, args)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), globals.debug)
			rejection, err := ledger.DecodeApplyTxError(data, ledger.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("decode rejection: %w", err)
			}
			result := newDecodeResult(rejection, f)
			return writeResult(cmd.OutOrStdout(), globals.outputFormat, result)
		},
	}
	cmd.Flags().StringVarP(
		&f.file,
		"file",
		"f",
		"",
		"read the payload from a file containing hex or raw CBOR",
	)
	cmd.Flags().BoolVar(
		&f.diag,
		"diag",
		false,
		"print CBOR diagnostic notation of skipped entries and Plutus data of decoded reasons",
	)
	cmd.Flags().BoolVar(
		&f.utxorpc,
		"utxorpc",
		false,
		"include missing inputs as UTxO RPC messages",
	)
	return cmd
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}),
	)
}

func readInput(f *decodeFlags, args []string) ([]byte, error) {
	switch {
	case f.file != "" && len(args) > 0:
		return nil, errors.New("specify either a hex argument or --file, not both")
	case len(args) > 0:
		data, err := decodeHex(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid hex argument: %w", err)
		}
		return data, nil
	case f.file != "":
		content, err := os.ReadFile(f.file)
		if err != nil {
			return nil, err
		}
		// Files may hold either hex text or the raw payload
		if data, err := decodeHex(string(content)); err == nil {
			return data, nil
		}
		return content, nil
	}
	return nil, errors.New("no payload given, pass a hex argument or --file")
}

func decodeHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return nil, errors.New("empty input")
	}
	return hex.DecodeString(s)
}

func newDecodeResult(rejection *ledger.ApplyTxError, f *decodeFlags) decodeResult {
	ret := decodeResult{
		Era:       ledger.EraName(rejection.Era),
		EraId:     rejection.Era,
		Summary:   rejection.Summary(),
		BytesRead: rejection.BytesRead,
		Failures:  make([]string, 0, len(rejection.Failures)),
		Reasons:   make([]reasonResult, 0, len(rejection.Failures)),
	}
	for _, failure := range rejection.Failures {
		ret.Failures = append(ret.Failures, failure.Error())
	}
	for _, reason := range rejection.Reasons() {
		result := reasonResult{
			Kind:    reason.Kind(),
			Message: reason.String(),
			Detail:  reason,
		}
		if f.utxorpc {
			result.Utxorpc = reasonUtxorpc(reason)
		}
		if f.diag {
			for _, pd := range reasonPlutusData(reason) {
				result.Plutus = append(result.Plutus, pd.String())
			}
		}
		ret.Reasons = append(ret.Reasons, result)
	}
	for _, entry := range rejection.Skipped {
		skipped := skippedResult{
			Index:  entry.Index,
			Offset: entry.Offset,
			Cbor:   hex.EncodeToString(entry.Cbor),
			Error:  entry.Err.Error(),
		}
		if f.diag {
			if notation, _, err := cbor.Diagnose(entry.Cbor); err == nil {
				skipped.Diag = notation
			} else {
				skipped.Diag = "<" + err.Error() + ">"
			}
		}
		ret.Skipped = append(ret.Skipped, skipped)
	}
	return ret
}

func reasonUtxorpc(reason ledger.RejectReason) []*utxorpc.TxInput {
	badInputs, ok := reason.(*ledger.BadInputs)
	if !ok {
		return nil
	}
	ret := make([]*utxorpc.TxInput, 0, len(badInputs.Inputs))
	for _, input := range badInputs.Inputs {
		ret = append(ret, input.Utxorpc())
	}
	return ret
}

func reasonPlutusData(reason ledger.RejectReason) []data.PlutusData {
	var ret []data.PlutusData
	switch r := reason.(type) {
	case *ledger.BadInputs:
		for _, input := range r.Inputs {
			ret = append(ret, input.ToPlutusData())
		}
	case *ledger.ValueNotConserved:
		for _, value := range []common.Value{r.Consumed, r.Produced} {
			if value.Assets != nil {
				ret = append(ret, value.Assets.ToPlutusData())
			}
		}
	}
	return ret
}

func writeResult(w io.Writer, outputFormat string, result decodeResult) error {
	switch strings.ToLower(outputFormat) {
	case outputText:
		return writeText(w, result)
	case outputJson:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case outputYaml:
		data, err := marshalYaml(result)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unknown output format %q", outputFormat)
}

// marshalYaml goes through JSON so the custom JSON forms of hashes and values are kept
func marshalYaml(v any) ([]byte, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var tmp any
	if err := yaml.Unmarshal(jsonData, &tmp); err != nil {
		return nil, err
	}
	return yaml.Marshal(tmp)
}

func writeText(w io.Writer, result decodeResult) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Era: %s (%d)\n", result.Era, result.EraId)
	fmt.Fprintf(&buf, "Status: %s\n", result.Summary)
	if len(result.Failures) > 0 {
		buf.WriteString("Failures:\n")
		for idx, failure := range result.Failures {
			fmt.Fprintf(&buf, "  %d. %s\n", idx+1, failure)
		}
		buf.WriteString("Reasons:\n")
		for _, reason := range result.Reasons {
			fmt.Fprintf(&buf, "  - [%s] %s\n", reason.Kind, reason.Message)
		}
	}
	if len(result.Skipped) > 0 {
		buf.WriteString("Skipped:\n")
		for _, entry := range result.Skipped {
			fmt.Fprintf(
				&buf,
				"  - entry %d at offset %d: %s\n",
				entry.Index,
				entry.Offset,
				entry.Error,
			)
			fmt.Fprintf(&buf, "    cbor: %s\n", entry.Cbor)
			if entry.Diag != "" {
				fmt.Fprintf(&buf, "    diag: %s\n", entry.Diag)
			}
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}
