// Copyright 2025 walteh LLC
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
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/walteh/notegrep/cmd/notegrep/commands"
	"github.com/walteh/notegrep/cmd/notegrep/opts"
)

func main() {
	ctx := context.Background()

	rootOpts := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "notegrep",
		Short: "Find and replace across a vault of notes",
		Long: `notegrep searches a directory of notes for literal or regex matches,
applies batched replacements with per-match approval, and can revert the
most recent batch of edits.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initRootOpts(cmd.Context(), rootOpts)
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewSearchCmd(rootOpts),
		commands.NewReplaceCmd(rootOpts),
		commands.NewUndoCmd(rootOpts),
	)

	if err := rootCmd.ExecuteContext(setupLogging(ctx)); err != nil {
		os.Exit(1)
	}
}
