// Copyright 2026 Depscout Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
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

	"github.com/depscout/depscout/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "depscout",
		Short: "Harvest the dependents listing of a GitHub repository",
		Long: `Depscout incrementally harvests GitHub's "used by" listing - the
paginated view of repositories depending on a project - into a deduplicated
JSON record store. A harvest interrupted by rate limiting keeps everything it
already persisted and can be resumed later from the exact page it stopped on.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	rootCmd.AddCommand(newHarvestCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}
