// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/ieee-cs-bmsit/soc-insights/internal/config"
	"github.com/ieee-cs-bmsit/soc-insights/internal/domain"
	"github.com/ieee-cs-bmsit/soc-insights/internal/gateway"
	"github.com/ieee-cs-bmsit/soc-insights/internal/usecase"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregates one user's contributions and outputs as JSON",
	Long: `Computes the pull request, commit and organization quality metrics for a
single GitHub user and prints the resulting report in JSON format. Runs
without the server or database; the GITHUB_TOKEN environment variable is
used for all API calls.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		user, _ := cmd.Flags().GetString("user")
		cfg, _ := config.LoadConfig()
		if cfg.GitHubToken == "" {
			fmt.Fprintln(os.Stderr, "Error: GITHUB_TOKEN environment variable is not set.")
			os.Exit(1)
		}

		limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestsPerSecond)
		githubGateway, err := gateway.NewGitHubGateway(cfg.GitHubToken, limiter, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		aggregator := usecase.NewAggregator(githubGateway, logger, cfg.DetailConcurrency)
		eventRepo := domain.RepoFilter{Owner: cfg.EventOrg, Name: cfg.EventRepo}

		prs, prData, err := aggregator.AggregatePullRequests(ctx, eventRepo, user)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to aggregate pull requests: %v\n", err)
			os.Exit(1)
		}
		commitStats, err := aggregator.AggregateCommits(ctx, eventRepo, user)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to aggregate commits: %v\n", err)
			os.Exit(1)
		}
		quality, err := aggregator.AggregateQuality(ctx, cfg.EventOrg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to aggregate quality metrics: %v\n", err)
			os.Exit(1)
		}

		report := domain.DashboardReport{
			PullRequests:    prs,
			PullRequestData: prData,
			CommitStats:     commitStats,
			QualityData:     quality,
		}

		// Marshal the results into a pretty-printed JSON string.
		jsonData, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal report to JSON: %v\n", err)
			os.Exit(1)
		}

		// Print the final JSON to standard output.
		fmt.Println(string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("user", "u", "", "Target GitHub user name (required)")
	reportCmd.MarkFlagRequired("user")
}
