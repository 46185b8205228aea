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
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	outputFormat string
	debug        bool
}

func newRootCmd() *cobra.Command {
	f := &globalFlags{}
	cmd := &cobra.Command{
		Use:   "tx-reject",
		Short: "Decode Cardano local-tx-submission rejections",
		Long: `tx-reject decodes the CBOR payload of a local-tx-submission RejectTx message
and prints the ledger failures it carries, along with any entries that could not be
decoded.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(
		&f.outputFormat,
		"output",
		"o",
		outputText,
		"output format: text, json, yaml",
	)
	cmd.PersistentFlags().BoolVar(
		&f.debug,
		"debug",
		false,
		"enable debug logging",
	)
	cmd.AddCommand(newDecodeCmd(f))
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
