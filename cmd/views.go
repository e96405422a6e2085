package cmd

import (
	"github.com/naka-gawa/repodash/internal/domain"
	"github.com/naka-gawa/repodash/internal/render"
	"github.com/naka-gawa/repodash/internal/usecase"
	"github.com/spf13/cobra"
)

var distributionCmd = &cobra.Command{
	Use:   "distribution",
	Short: "Share of a language in each star/fork/... group",
	Long: `Splits the chosen metric into four equal-width groups and prints, for each
group, the percentage of repositories written in the chosen language.`,
	Example: "  repodash distribution -d github -m stars -l Python -f svg -o python.svg",
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, err := newAnalyzer(cmd)
		if err != nil {
			return err
		}
		ds, _ := cmd.Flags().GetString("dataset")
		metric, _ := cmd.Flags().GetString("metric")
		lang, _ := cmd.Flags().GetString("language")
		dist, err := analyzer.Distribution(usecase.DistributionParams{Dataset: ds, Metric: metric, Language: lang})
		if err != nil {
			return err
		}
		return output(cmd, dist)
	},
}

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Repositories of a language created per year",
	Long:  `Counts the repositories of the chosen language created in each year of the repository dataset.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, err := newAnalyzer(cmd)
		if err != nil {
			return err
		}
		ds, _ := cmd.Flags().GetString("dataset")
		lang, _ := cmd.Flags().GetString("language")
		trend, err := analyzer.Trend(usecase.TrendParams{Dataset: ds, Language: lang})
		if err != nil {
			return err
		}
		return output(cmd, trend)
	},
}

var correlationCmd = &cobra.Command{
	Use:   "correlation",
	Short: "Stars vs forks scatter and Pearson coefficient",
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, err := newAnalyzer(cmd)
		if err != nil {
			return err
		}
		ds, _ := cmd.Flags().GetString("dataset")
		corr, err := analyzer.Correlation(usecase.CorrelationParams{Dataset: ds})
		if err != nil {
			return err
		}
		return output(cmd, corr)
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Top N repositories by stars and by forks",
	Long: `Ranks repositories by a metric. Without --metric both the stars and the
forks rankings are printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, err := newAnalyzer(cmd)
		if err != nil {
			return err
		}
		ds, _ := cmd.Flags().GetString("dataset")
		n, _ := cmd.Flags().GetInt("top")
		metrics := []string{domain.ColumnStars, domain.ColumnForks}
		if m, _ := cmd.Flags().GetString("metric"); m != "" {
			metrics = []string{m}
		}

		rankings := make([]*domain.Ranking, 0, len(metrics))
		for _, m := range metrics {
			ranking, err := analyzer.Top(usecase.TopParams{Dataset: ds, Metric: m, N: n})
			if err != nil {
				return err
			}
			rankings = append(rankings, ranking)
		}
		if len(rankings) == 1 {
			return output(cmd, rankings[0])
		}
		return output(cmd, rankings)
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages of a dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, err := newAnalyzer(cmd)
		if err != nil {
			return err
		}
		ds, _ := cmd.Flags().GetString("dataset")
		langs, err := analyzer.Languages(ds)
		if err != nil {
			return err
		}
		return output(cmd, langs)
	},
}

var rawCmd = &cobra.Command{
	Use:   "raw",
	Short: "Show the loaded records of a dataset",
	Long: `Prints every record kept after dropping incomplete rows. With --summary
only the row counts and columns of both datasets are shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, err := newAnalyzer(cmd)
		if err != nil {
			return err
		}
		if summary, _ := cmd.Flags().GetBool("summary"); summary {
			return output(cmd, analyzer.Summaries())
		}
		name, _ := cmd.Flags().GetString("dataset")
		kind, err := domain.ParseKind(name)
		if err != nil {
			return err
		}
		ds, err := analyzer.Dataset(kind)
		if err != nil {
			return err
		}
		return output(cmd, render.RawData{Dataset: ds})
	},
}

func init() {
	for _, c := range []*cobra.Command{distributionCmd, trendCmd, correlationCmd, topCmd, languagesCmd, rawCmd} {
		rootCmd.AddCommand(c)
	}

	distributionCmd.Flags().StringP("dataset", "d", string(domain.KindGitHub), "Dataset: github or repository")
	distributionCmd.Flags().StringP("metric", "m", "stars", "Metric: stars, forks, pull_requests, contributors or watchers")
	distributionCmd.Flags().StringP("language", "l", "", "Language to show (required)")
	distributionCmd.MarkFlagRequired("language")
	addOutputFlags(distributionCmd, render.FormatJSON, "json, table, csv, svg or png")

	trendCmd.Flags().StringP("dataset", "d", string(domain.KindRepository), "Dataset with a created_at column")
	trendCmd.Flags().StringP("language", "l", "", "Language to show (required)")
	trendCmd.MarkFlagRequired("language")
	addOutputFlags(trendCmd, render.FormatJSON, "json, table, csv, svg or png")

	correlationCmd.Flags().StringP("dataset", "d", string(domain.KindGitHub), "Dataset: github or repository")
	addOutputFlags(correlationCmd, render.FormatJSON, "json, table, csv, svg or png")

	topCmd.Flags().StringP("dataset", "d", string(domain.KindGitHub), "Dataset: github or repository")
	topCmd.Flags().StringP("metric", "m", "", "Rank by this metric only")
	topCmd.Flags().IntP("top", "n", usecase.DefaultTopN, "Number of repositories (5-50)")
	addOutputFlags(topCmd, render.FormatTable, "json, table or csv")

	languagesCmd.Flags().StringP("dataset", "d", string(domain.KindGitHub), "Dataset: github or repository")
	addOutputFlags(languagesCmd, render.FormatTable, "json or table")

	rawCmd.Flags().StringP("dataset", "d", string(domain.KindGitHub), "Dataset: github or repository")
	rawCmd.Flags().Bool("summary", false, "Only summarize both datasets")
	addOutputFlags(rawCmd, render.FormatTable, "json, table or csv")
}
