package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// APIRoute answers requests whose query contains every key/value pair in Match.
// An empty Path matches any path. A zero Status means 200.
type APIRoute struct {
	Path   string
	Match  map[string]string
	Status int
	Body   string
}

// APIServer is a fake MediaWiki-style API. Routes are checked in order and requests that
// match none of them get an empty JSON object.
type APIServer struct {
	*httptest.Server

	mu       sync.Mutex
	routes   []APIRoute
	requests []url.Values
}

func NewAPIServer(t *testing.T, routes ...APIRoute) *APIServer {
	t.Helper()

	s := &APIServer{routes: routes}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *APIServer) serve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	s.mu.Lock()
	s.requests = append(s.requests, query)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	for _, route := range s.routes {
		if route.Path != "" && route.Path != r.URL.Path {
			continue
		}
		if !matches(query, route.Match) {
			continue
		}
		if route.Status != 0 {
			w.WriteHeader(route.Status)
		}
		_, _ = w.Write([]byte(route.Body))
		return
	}
	_, _ = w.Write([]byte(`{}`))
}

// Requests returns the query of every request received so far.
func (s *APIServer) Requests() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.requests...)
}

// Count returns how many received requests match.
func (s *APIServer) Count(match map[string]string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for _, query := range s.requests {
		if matches(query, match) {
			n++
		}
	}
	return n
}

func matches(query url.Values, match map[string]string) bool {
	for key, value := range match {
		if query.Get(key) != value {
			return false
		}
	}
	return true
}
