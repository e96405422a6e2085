// Package server exposes the dashboard views over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/naka-gawa/repodash/internal/domain"
	"github.com/naka-gawa/repodash/internal/usecase"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Analyzer is the set of views the server serves.
type Analyzer interface {
	Distribution(p usecase.DistributionParams) (*domain.Distribution, error)
	Trend(p usecase.TrendParams) (*domain.Trend, error)
	Correlation(p usecase.CorrelationParams) (*domain.Correlation, error)
	Top(p usecase.TopParams) (*domain.Ranking, error)
	Languages(dataset string) ([]string, error)
	Dataset(kind domain.Kind) (*domain.Dataset, error)
	Summaries() []domain.DatasetSummary
}

// Options configures the server.
type Options struct {
	Addr        string
	CORSOrigins []string
	// Slow marks requests taking at least this long as warn in the access log; 0 disables.
	Slow time.Duration
}

// Server is a chi router behind a stdlib http.Server.
type Server struct {
	analyzer Analyzer
	logger   zerolog.Logger
	mux      *chi.Mux
	srv      *http.Server
}

// New creates a new Server instance with every route mounted.
func New(analyzer Analyzer, opt Options, logger zerolog.Logger) *Server {
	s := &Server{
		analyzer: analyzer,
		logger:   logger,
		mux:      chi.NewRouter(),
	}

	s.mux.Use(
		chimw.RealIP,
		chimw.RequestID,
		accessLog(logger, opt.Slow),
		chimw.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: opt.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		}),
	)
	s.routes()

	s.srv = &http.Server{
		Addr:              opt.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.mux.Get("/healthz", s.handleHealth)
	s.mux.Route("/api/datasets", func(r chi.Router) {
		r.Get("/", s.handleDatasets)
		r.Route("/{dataset}", func(r chi.Router) {
			r.Get("/languages", s.handleLanguages)
			r.Get("/distribution", s.handleDistribution)
			r.Get("/trend", s.handleTrend)
			r.Get("/correlation", s.handleCorrelation)
			r.Get("/top", s.handleTop)
			r.Get("/raw", s.handleRaw)
		})
	})
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		s.logger.Info().Str("addr", s.srv.Addr).Msg("http listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		s.logger.Info().Msg("http shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
