package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/naka-gawa/repodash/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API over HTTP",
	Long: `Loads both datasets once and serves every view under /api/datasets/{dataset}/
as JSON, CSV or SVG/PNG charts until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		analyzer, err := newAnalyzer(cmd)
		if err != nil {
			return err
		}
		slow, _ := cmd.Flags().GetDuration("slow")
		srv := server.New(analyzer, server.Options{
			Addr:        state.cfg.ListenAddr,
			CORSOrigins: state.cfg.CORSOrigins,
			Slow:        slow,
		}, state.logger)
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen-addr", ":8080", "Address to listen on")
	serveCmd.Flags().StringSlice("cors-origins", []string{"http://localhost:3000"}, "Allowed CORS origins")
	serveCmd.Flags().Duration("slow", 2*time.Second, "Log requests at least this slow at warn level (0 disables)")
}
