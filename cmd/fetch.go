package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/naka-gawa/repodash/internal/dataset"
	"github.com/naka-gawa/repodash/internal/gateway"
	"github.com/naka-gawa/repodash/internal/usecase"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Build a dataset CSV from live GitHub data",
	Long: `Searches GitHub repositories, enriches each with pull request, issue and
contributor counts, and writes a CSV in the layout of the chosen dataset.
GITHUB_TOKEN (or REPODASH_GITHUB_TOKEN) raises the API rate limit.`,
	Example: `  repodash fetch -q "language:go stars:>1000" --limit 200 -d github -o github_dataset.csv`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		query, _ := cmd.Flags().GetString("query")
		limit, _ := cmd.Flags().GetInt("limit")
		ds, _ := cmd.Flags().GetString("dataset")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		if state.cfg.GitHubToken == "" {
			state.logger.Warn().Msg("no GitHub token set, requests are unauthenticated")
		}
		githubGateway, err := gateway.NewGitHubGateway(state.cfg.GitHubToken, state.logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		snapshotter := usecase.NewSnapshotter(githubGateway, state.logger)

		snap, err := snapshotter.Snapshot(cmd.Context(), usecase.SnapshotParams{
			Query:       query,
			Limit:       limit,
			Dataset:     ds,
			Concurrency: concurrency,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch repositories: %w", err)
		}

		var w io.Writer = cmd.OutOrStdout()
		if path, _ := cmd.Flags().GetString("out"); path != "" {
			file, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() {
				if cerr := file.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("failed to close output file: %w", cerr)
				}
			}()
			w = file
		}
		return dataset.WriteCSV(w, *snap)
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringP("query", "q", "", "GitHub repository search query (required)")
	fetchCmd.Flags().Int("limit", 100, "Maximum number of repositories (1-1000)")
	fetchCmd.Flags().StringP("dataset", "d", "github", "Layout to write: github or repository")
	fetchCmd.Flags().Int("concurrency", usecase.DefaultFetchConcurrency, "Repositories enriched in parallel (1-16)")
	fetchCmd.Flags().StringP("out", "o", "", "Write the CSV to this file instead of stdout")
	fetchCmd.MarkFlagRequired("query")
}
