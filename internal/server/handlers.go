package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/naka-gawa/repodash/internal/domain"
	"github.com/naka-gawa/repodash/internal/render"
	"github.com/naka-gawa/repodash/internal/usecase"
)

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps an error to its response status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidParams),
		errors.Is(err, domain.ErrInvalidColumn),
		errors.Is(err, domain.ErrUnknownDataset),
		errors.Is(err, render.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDegenerateRange),
		errors.Is(err, domain.ErrEmptySelection):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	s.write(w, r, status, render.FormatJSON, errorBody{Error: err.Error()})
}

// write renders v into a buffer first so a rendering failure can still
// produce a clean error response.
func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, f render.Format, v any) {
	var buf bytes.Buffer
	if err := render.Write(&buf, f, v); err != nil {
		if f == render.FormatJSON {
			s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to encode response")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) format(r *http.Request) (render.Format, error) {
	return render.ParseFormat(r.URL.Query().Get("format"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.write(w, r, http.StatusOK, render.FormatJSON, map[string]string{"status": "ok"})
}

func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	s.write(w, r, http.StatusOK, render.FormatJSON, s.analyzer.Summaries())
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := s.analyzer.Languages(chi.URLParam(r, "dataset"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, render.FormatJSON, langs)
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	f, err := s.format(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	dist, err := s.analyzer.Distribution(usecase.DistributionParams{
		Dataset:  chi.URLParam(r, "dataset"),
		Metric:   q.Get("metric"),
		Language: q.Get("language"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, f, dist)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	f, err := s.format(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	trend, err := s.analyzer.Trend(usecase.TrendParams{
		Dataset:  chi.URLParam(r, "dataset"),
		Language: r.URL.Query().Get("language"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, f, trend)
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	f, err := s.format(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	corr, err := s.analyzer.Correlation(usecase.CorrelationParams{Dataset: chi.URLParam(r, "dataset")})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, f, corr)
}

// handleTop ranks by the metric query parameter, or by stars and forks
// when it is absent.
func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	f, err := s.format(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	n := usecase.DefaultTopN
	if raw := q.Get("n"); raw != "" {
		n, err = strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: n must be an integer", domain.ErrInvalidParams))
			return
		}
	}

	metrics := []string{domain.ColumnStars, domain.ColumnForks}
	if m := q.Get("metric"); m != "" {
		metrics = []string{m}
	}
	rankings := make([]*domain.Ranking, 0, len(metrics))
	for _, m := range metrics {
		ranking, err := s.analyzer.Top(usecase.TopParams{Dataset: chi.URLParam(r, "dataset"), Metric: m, N: n})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		rankings = append(rankings, ranking)
	}

	if len(rankings) == 1 {
		s.write(w, r, http.StatusOK, f, rankings[0])
		return
	}
	s.write(w, r, http.StatusOK, f, rankings)
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	f, err := s.format(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kind, err := domain.ParseKind(chi.URLParam(r, "dataset"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ds, err := s.analyzer.Dataset(kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, f, render.RawData{Dataset: ds})
}
