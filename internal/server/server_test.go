package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/naka-gawa/repodash/internal/dataset"
	"github.com/naka-gawa/repodash/internal/domain"
	"github.com/naka-gawa/repodash/internal/logger"
	"github.com/naka-gawa/repodash/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDatasets() dataset.Datasets {
	gh := domain.SchemaFor(domain.KindGitHub)
	repo := domain.SchemaFor(domain.KindRepository)
	at := func(year int) time.Time { return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC) }
	return dataset.Datasets{
		GitHub: &domain.Dataset{
			Kind:    domain.KindGitHub,
			Schema:  gh,
			Numeric: gh.Numeric,
			Records: []domain.Repository{
				{Name: "a", Language: "Go", Stars: 0, Forks: 5, PullRequests: 1, Contributors: 1},
				{Name: "b", Language: "Go", Stars: 10, Forks: 5, PullRequests: 2, Contributors: 2},
				{Name: "c", Language: "Rust", Stars: 20, Forks: 5, PullRequests: 3, Contributors: 3},
				{Name: "d", Language: "Go", Stars: 30, Forks: 5, PullRequests: 4, Contributors: 4},
				{Name: "e", Language: "Rust", Stars: 40, Forks: 5, PullRequests: 5, Contributors: 5},
			},
		},
		Repository: &domain.Dataset{
			Kind:         domain.KindRepository,
			Schema:       repo,
			Numeric:      repo.Numeric,
			HasCreatedAt: true,
			Records: []domain.Repository{
				{Name: "x", Language: "Go", Stars: 5, Forks: 1, Watchers: 3, CreatedAt: at(2019)},
				{Name: "y", Language: "C", Stars: 9, Forks: 4, Watchers: 2, CreatedAt: at(2021)},
				{Name: "z", Language: "Go", Stars: 1, Forks: 0, Watchers: 1, CreatedAt: at(2021)},
			},
		},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	analyzer := usecase.NewAnalyzer(testDatasets(), logger.Nop())
	srv := New(analyzer, Options{CORSOrigins: []string{"http://dash.local"}}, logger.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_Routes(t *testing.T) {
	testCases := []struct {
		name         string
		path         string
		expectedCode int
		contentType  string
	}{
		{name: "health", path: "/healthz", expectedCode: http.StatusOK, contentType: "application/json"},
		{name: "datasets", path: "/api/datasets", expectedCode: http.StatusOK, contentType: "application/json"},
		{name: "languages", path: "/api/datasets/github/languages", expectedCode: http.StatusOK, contentType: "application/json"},
		{name: "unknown dataset", path: "/api/datasets/gitlab/languages", expectedCode: http.StatusBadRequest},
		{name: "distribution json", path: "/api/datasets/github/distribution?metric=stars&language=Go", expectedCode: http.StatusOK, contentType: "application/json"},
		{name: "distribution svg", path: "/api/datasets/github/distribution?metric=stars&language=Go&format=svg", expectedCode: http.StatusOK, contentType: "image/svg+xml"},
		{name: "distribution csv", path: "/api/datasets/repo/distribution?metric=watchers&language=Go&format=csv", expectedCode: http.StatusOK, contentType: "text/csv; charset=utf-8"},
		{name: "degenerate range", path: "/api/datasets/github/distribution?metric=forks&language=Go", expectedCode: http.StatusUnprocessableEntity},
		{name: "no language", path: "/api/datasets/github/distribution?metric=stars", expectedCode: http.StatusUnprocessableEntity},
		{name: "language not in dataset", path: "/api/datasets/github/distribution?metric=stars&language=COBOL", expectedCode: http.StatusUnprocessableEntity},
		{name: "metric absent from dataset", path: "/api/datasets/github/distribution?metric=watchers&language=Go", expectedCode: http.StatusBadRequest},
		{name: "missing metric", path: "/api/datasets/github/distribution?language=Go", expectedCode: http.StatusBadRequest},
		{name: "unknown format", path: "/api/datasets/github/distribution?metric=stars&language=Go&format=pdf", expectedCode: http.StatusBadRequest},
		{name: "trend", path: "/api/datasets/repository/trend?language=Go", expectedCode: http.StatusOK, contentType: "application/json"},
		{name: "trend png", path: "/api/datasets/repository/trend?language=Go&format=png", expectedCode: http.StatusOK, contentType: "image/png"},
		{name: "trend without created_at", path: "/api/datasets/github/trend?language=Go", expectedCode: http.StatusBadRequest},
		{name: "correlation", path: "/api/datasets/repository/correlation", expectedCode: http.StatusOK, contentType: "application/json"},
		{name: "top defaults", path: "/api/datasets/github/top", expectedCode: http.StatusOK, contentType: "application/json"},
		{name: "top csv", path: "/api/datasets/github/top?metric=stars&n=5&format=csv", expectedCode: http.StatusOK, contentType: "text/csv; charset=utf-8"},
		{name: "top n too small", path: "/api/datasets/github/top?n=3", expectedCode: http.StatusBadRequest},
		{name: "top n not a number", path: "/api/datasets/github/top?n=ten", expectedCode: http.StatusBadRequest},
		{name: "top as chart", path: "/api/datasets/github/top?format=svg", expectedCode: http.StatusBadRequest},
		{name: "raw json", path: "/api/datasets/repository/raw", expectedCode: http.StatusOK, contentType: "application/json"},
		{name: "raw csv", path: "/api/datasets/gh/raw?format=csv", expectedCode: http.StatusOK, contentType: "text/csv; charset=utf-8"},
		{name: "raw unknown dataset", path: "/api/datasets/gitlab/raw", expectedCode: http.StatusBadRequest},
		{name: "raw as chart", path: "/api/datasets/github/raw?format=png", expectedCode: http.StatusBadRequest},
	}

	ts := newTestServer(t)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Act ---
			resp, err := http.Get(ts.URL + tc.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			// --- Assert ---
			assert.Equal(t, tc.expectedCode, resp.StatusCode)
			if tc.contentType != "" {
				assert.Equal(t, tc.contentType, resp.Header.Get("Content-Type"))
			}
			if tc.expectedCode >= http.StatusBadRequest {
				var body errorBody
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.NotEmpty(t, body.Error)
			}
		})
	}
}

func TestServer_DistributionBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/datasets/github/distribution?metric=stars&language=Go")
	require.NoError(t, err)
	defer resp.Body.Close()

	var dist domain.Distribution
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dist))
	assert.Equal(t, domain.Edges{0, 10, 20, 30, 40}, dist.Edges)
	assert.Equal(t, []domain.SeriesPoint{
		{Label: "Group 1: 0 - 10", Percentage: 100, Total: 2},
		{Label: "Group 2: 10 - 20", Percentage: 0, Total: 1},
		{Label: "Group 3: 20 - 30", Percentage: 100, Total: 1},
		{Label: "Group 4: 30 - 40", Percentage: 0, Total: 1},
	}, dist.Points)
}

func TestServer_TopBothMetrics(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/datasets/github/top")
	require.NoError(t, err)
	defer resp.Body.Close()

	var rankings []domain.Ranking
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rankings))
	require.Len(t, rankings, 2)
	assert.Equal(t, domain.ColumnStars, rankings[0].Metric)
	assert.Equal(t, "e", rankings[0].Rows[0].Name)
	assert.Equal(t, domain.ColumnForks, rankings[1].Metric)
	assert.Equal(t, "a", rankings[1].Rows[0].Name)
}

func TestServer_RawCSV(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/datasets/repository/raw?format=csv")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "name,primary_language,stars_count,forks_count,watchers,created_at\n"+
		"x,Go,5,1,3,2019-01-01\n"+
		"y,C,9,4,2,2021-01-01\n"+
		"z,Go,1,0,1,2021-01-01\n", string(body))
}

func TestServer_SingleYearTrendChart(t *testing.T) {
	sets := testDatasets()
	for i := range sets.Repository.Records {
		sets.Repository.Records[i].CreatedAt = time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	}
	srv := New(usecase.NewAnalyzer(sets, logger.Nop()), Options{}, logger.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	for _, format := range []string{"png", "svg"} {
		resp, err := http.Get(ts.URL + "/api/datasets/repository/trend?language=Go&format=" + format)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, format)
	}
}

func TestServer_EmptyDataset(t *testing.T) {
	sets := testDatasets()
	sets.GitHub.Records = []domain.Repository{}
	srv := New(usecase.NewAnalyzer(sets, logger.Nop()), Options{}, logger.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/api/datasets/github/top?metric=stars&format=csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "rank,name,stars_count,language\n", string(body))

	resp2, err := http.Get(ts.URL + "/api/datasets/github/distribution?metric=stars&language=Go")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp2.StatusCode)
}

func TestServer_CORS(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://dash.local")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://dash.local", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	analyzer := usecase.NewAnalyzer(testDatasets(), logger.Nop())
	srv := New(analyzer, Options{Addr: "127.0.0.1:0"}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.ErrInvalidColumn))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(domain.ErrDegenerateRange))
	assert.Equal(t, http.StatusInternalServerError, statusFor(context.Canceled))
}
