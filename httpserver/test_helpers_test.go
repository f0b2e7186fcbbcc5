package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"movieapi/auth"
	"movieapi/httpserver"
	"movieapi/movie"
	"movieapi/pkg/config"
)

const testAPIKey = "test-api-key"

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.Enabled = false
	return cfg
}

func testConfigWithAPIKey() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.Enabled = true
	cfg.Auth.APIKey = testAPIKey
	return cfg
}

// stubMovieService returns canned results so handler tests need no database.
type stubMovieService struct {
	result movie.PaginatedMovies
	single movie.Movie
	err    error

	lastQuery  string
	lastFilter movie.Filter
	lastPage   movie.Page
}

func (s *stubMovieService) GetMovies(_ context.Context, filter movie.Filter, page movie.Page) (movie.PaginatedMovies, error) {
	s.lastFilter = filter
	s.lastPage = page
	return s.result, s.err
}

func (s *stubMovieService) SearchMovies(_ context.Context, query string, filter movie.Filter, page movie.Page) (movie.PaginatedMovies, error) {
	s.lastQuery = query
	s.lastFilter = filter
	s.lastPage = page
	return s.result, s.err
}

func (s *stubMovieService) GetMovie(_ context.Context, movieID int) (movie.Movie, error) {
	if s.err != nil {
		return movie.Movie{}, s.err
	}
	return s.single, nil
}

// stubValidator accepts a single fixed token.
type stubValidator struct {
	accepted string
	claims   auth.Claims
}

func (v *stubValidator) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token == v.accepted {
		return v.claims, nil
	}
	return nil, auth.ErrInvalidToken
}

func makeRequest(server *httpserver.Server, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Result, out))
}

func intPtr(v int) *int {
	return &v
}
