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
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/depscout/depscout/internal/config"
	"github.com/depscout/depscout/internal/crawl"
	"github.com/depscout/depscout/internal/dependents"
	deperrors "github.com/depscout/depscout/internal/errors"
	"github.com/depscout/depscout/internal/fetcher"
	"github.com/depscout/depscout/internal/github"
	"github.com/depscout/depscout/internal/metadata"
	"github.com/depscout/depscout/internal/output"
	"github.com/depscout/depscout/internal/store"
	"github.com/depscout/depscout/pkg/version"
)

// harvestCmd represents the harvest command
func newHarvestCommand() *cobra.Command {
	var (
		outFile    string
		resume     bool
		token      string
		ndjson     bool
		ndjsonOut  string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "harvest <owner>/<repo>",
		Short: "Harvest the dependents listing of a repository into a JSON store",
		Long: `Harvest the dependents listing of a GitHub repository into a JSON
record store.

The repository must be specified in the format: <owner>/<repo>
For example: gorilla/mux, sindresorhus/got

A fresh harvest starts the store over from the first listing page. With
--resume, the harvest continues from the page a previous run stopped on and
never re-stores records it already holds; resume is the expected recovery
after GitHub rate-limits a run.

A GitHub token (via --token or GITHUB_TOKEN) is optional. When present it is
used for a one-shot API check that the target repository exists before any
page is crawled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHarvest(cmd.Context(), args[0], harvestFlags{
				outFile:    outFile,
				resume:     resume,
				token:      token,
				ndjson:     ndjson,
				ndjsonOut:  ndjsonOut,
				configPath: configPath,
			})
		},
	}

	cmd.Flags().StringVar(&outFile, "out", "", "Destination store file, must end in .json (required)")
	cmd.Flags().BoolVar(&resume, "resume", false, "Resume an interrupted harvest from the store")
	cmd.Flags().StringVar(&token, "token", "", "GitHub token for the target preflight (overrides GITHUB_TOKEN)")
	cmd.Flags().BoolVar(&ndjson, "ndjson", false, "Mirror newly harvested records to stdout as NDJSON")
	cmd.Flags().StringVar(&ndjsonOut, "ndjson-out", "", "Mirror newly harvested records to this NDJSON file instead of stdout")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a depscout config file")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

type harvestFlags struct {
	outFile    string
	resume     bool
	token      string
	ndjson     bool
	ndjsonOut  string
	configPath string
}

// runHarvest executes the harvest command
func runHarvest(ctx context.Context, target string, flags harvestFlags) error {
	owner, repo, err := parseTarget(target)
	if err != nil {
		return err
	}
	if err := validateStorePath(flags.outFile); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Optional preflight: fail fast on a bad target instead of crawling an
	// error page. Skipped silently without a token.
	if token := getToken(flags.token, cfg.GitHub.TokenEnv); token != "" {
		client := github.NewRetryClient(github.NewGraphQLClient(token, cfg.GitHub.GraphQLEndpoint), nil)
		info, err := client.RepositoryInfo(ctx, owner, repo)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Target %s verified (%d stars)\n", info.NameWithOwner, info.Stars)
	}

	st := store.New(flags.outFile)
	f := fetcher.NewHTTP(fetcher.Options{
		UserAgent:         cfg.Harvest.UserAgent,
		Timeout:           cfg.RequestTimeout(),
		RequestsPerMinute: cfg.Harvest.RequestsPerMinute,
	})

	controller := crawl.New(f, st)
	controller.Tracker = metadata.New()
	controller.Progress = os.Stderr

	stream, err := newStreamWriter(flags)
	if err != nil {
		return err
	}
	if stream != nil {
		defer stream.Close()
		controller.Stream = stream
	}

	// Both entry states expect the fetcher positioned at the first listing
	// page; a resume whose last record carries a backward link repositions
	// itself from there.
	start := dependents.ListingURL(cfg.GitHub.BaseURL, owner, repo)
	fmt.Fprintf(os.Stderr, "Harvesting dependents of %s/%s...\n", owner, repo)
	if err := f.NavigateTo(ctx, start); err != nil {
		return err
	}

	var runErr error
	if flags.resume {
		runErr = controller.Resume(ctx)
	} else {
		runErr = controller.Run(ctx)
	}

	saveMetadata(controller, target, flags)

	if runErr != nil {
		if errors.Is(runErr, deperrors.ErrPageBlocked) {
			return fmt.Errorf("%w; progress so far is persisted in %s, re-run later with --resume", runErr, flags.outFile)
		}
		return runErr
	}

	fmt.Fprintf(os.Stderr, "Harvest complete, records persisted in %s\n", flags.outFile)
	return nil
}

// newStreamWriter builds the optional NDJSON mirror: a file when
// --ndjson-out names one, stdout with --ndjson, nil otherwise.
func newStreamWriter(flags harvestFlags) (*output.Writer, error) {
	if flags.ndjsonOut != "" {
		return output.NewFileWriter(flags.ndjsonOut)
	}
	if flags.ndjson {
		return output.NewWriter(os.Stdout), nil
	}
	return nil, nil
}

// saveMetadata writes the run summary next to the store file. Metadata is
// advisory and must never fail a harvest whose records are already
// persisted.
func saveMetadata(controller *crawl.Controller, target string, flags harvestFlags) {
	md := controller.Tracker.Generate(version.Version, metadata.HarvestParams{
		Target:    target,
		StoreFile: flags.outFile,
		Resume:    flags.resume,
	}, string(controller.State()))
	if err := metadata.Save(md, flags.outFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save harvest metadata: %v\n", err)
	}
}

// parseTarget parses an owner/repo string into owner and repo components
func parseTarget(target string) (owner, repo string, err error) {
	parts := strings.Split(target, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid target format. Expected: <owner>/<repo>, got: %s", target)
	}

	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])

	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid target format. Expected: <owner>/<repo>, got: %s", target)
	}

	return owner, repo, nil
}

// validateStorePath rejects destination paths that are not .json files
// before any crawling starts.
func validateStorePath(path string) error {
	if path == "" {
		return fmt.Errorf("store file path is required")
	}
	if !strings.HasSuffix(path, ".json") {
		return fmt.Errorf("store file must end in .json, got: %s", path)
	}
	return nil
}

// getToken returns the GitHub token from flag or environment variable
func getToken(flagToken, tokenEnv string) string {
	if flagToken != "" {
		return flagToken
	}
	return os.Getenv(tokenEnv)
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, deperrors.ErrPageBlocked) ||
		errors.Is(err, deperrors.ErrInvalidToken) ||
		errors.Is(err, deperrors.ErrRepoNotFound) ||
		errors.Is(err, deperrors.ErrRateLimit) {
		return 2 // Upstream refused us: blocked, throttled or bad credentials
	}

	if errors.Is(err, deperrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
