// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/naka-gawa/repodash/internal/config"
	"github.com/naka-gawa/repodash/internal/dataset"
	"github.com/naka-gawa/repodash/internal/logger"
	"github.com/naka-gawa/repodash/internal/render"
	"github.com/naka-gawa/repodash/internal/usecase"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger zerolog.Logger
}

var state = &app{v: config.New(), logger: logger.Nop()}

var rootCmd = &cobra.Command{
	Use:   "repodash",
	Short: "Explore repository datasets by language, stars, forks and more.",
	Long: `repodash loads a GitHub dataset and a repository dataset (CSV) and
shows how a language is distributed across star, fork, pull request,
contributor or watcher groups, how it trends over time, how stars and forks
correlate, and which repositories rank highest. Results are printed as JSON,
tables or CSV, rendered as SVG/PNG charts, or served over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.BindFlags(state.v, cmd.Flags()); err != nil {
			return err
		}
		cfgFile, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(state.v, cfgFile)
		if err != nil {
			return err
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		state.cfg = cfg
		state.logger = logger.New(logger.Options{
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Verbose: verbose,
		})
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose/debug logging")
	pf.String("config", "", "Config file (yaml, toml or json)")
	pf.String("github-data", "github_dataset.csv", "Path to the GitHub dataset CSV")
	pf.String("repo-data", "repository_data.csv", "Path to the repository dataset CSV")
	pf.String("log-level", "warn", "Log level (trace, debug, info, warn, error, off)")
	pf.String("log-format", "console", "Log format (console or json)")
}

// newAnalyzer loads both datasets and wraps them in an Analyzer.
func newAnalyzer(cmd *cobra.Command) (*usecase.Analyzer, error) {
	loader := dataset.NewLoader(state.logger)
	ds, err := loader.LoadAll(cmd.Context(), state.cfg.GitHubData, state.cfg.RepoData)
	if err != nil {
		return nil, err
	}
	return usecase.NewAnalyzer(ds, state.logger), nil
}

// addOutputFlags registers --format and --out on c.
func addOutputFlags(c *cobra.Command, def render.Format, help string) {
	c.Flags().StringP("format", "f", string(def), "Output format: "+help)
	c.Flags().StringP("out", "o", "", "Write output to this file instead of stdout")
}

// output renders v in the --format of cmd to --out or stdout.
func output(cmd *cobra.Command, v any) (err error) {
	name, _ := cmd.Flags().GetString("format")
	f, err := render.ParseFormat(name)
	if err != nil {
		return err
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
	return render.Write(w, f, v)
}
