package sourcegraph_test

import (
	"codycli/internal/adapter/outbound/sourcegraph"
	"codycli/internal/port/outbound"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const testToken = "sgp_test_token"

var (
	_ outbound.RepositoryResolver = (*sourcegraph.Client)(nil)
	_ outbound.ContextSearcher    = (*sourcegraph.Client)(nil)
	_ outbound.ChatCompleter      = (*sourcegraph.Client)(nil)
	_ outbound.ModelLister        = (*sourcegraph.Client)(nil)
)

// recordedRequest is a request captured by a fake Sourcegraph server.
type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

func (r recordedRequest) decodeBody(t *testing.T) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(r.Body, &body))
	return body
}

// fakeSourcegraph serves canned responses per path and records every request.
type fakeSourcegraph struct {
	mu       sync.Mutex
	requests []recordedRequest
	handlers map[string]http.HandlerFunc
	server   *httptest.Server
}

func newFakeSourcegraph(t *testing.T) *fakeSourcegraph {
	t.Helper()
	f := &fakeSourcegraph{handlers: map[string]http.HandlerFunc{}}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		handler, ok := f.handlers[r.URL.Path]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeSourcegraph) handle(path string, handler http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = handler
}

func (f *fakeSourcegraph) respond(path string, status int, body string) {
	f.handle(path, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (f *fakeSourcegraph) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeSourcegraph) config() *sourcegraph.ClientConfig {
	return &sourcegraph.ClientConfig{
		GraphQLURL:        f.server.URL + "/.api/graphql",
		CompletionsURL:    f.server.URL + "/.api/completions/stream?api-version=1&client-name=jetbrains&client-version=6.0.0-SNAPSHOT",
		ModelsURL:         f.server.URL + "/.api/llm/models",
		AccessToken:       testToken,
		UserAgent:         "codycli/test",
		Model:             "gpt-4o",
		MaxTokensToSample: 4000,
		Temperature:       0.2,
		TopK:              -1,
		TopP:              -1,
	}
}

func (f *fakeSourcegraph) client(t *testing.T, opts ...sourcegraph.Option) *sourcegraph.Client {
	t.Helper()
	c, err := sourcegraph.NewClient(f.config(), opts...)
	require.NoError(t, err)
	return c
}
