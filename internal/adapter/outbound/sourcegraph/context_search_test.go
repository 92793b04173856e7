package sourcegraph_test

import (
	"codycli/internal/adapter/outbound/sourcegraph"
	"codycli/internal/domain/entity"
	"codycli/internal/domain/valueobject"
	"codycli/internal/port/outbound"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contextSearchBody = `{"data":{"getCodyContext":[
	{"blob":{"path":"agent/src/index.ts","url":"/github.com/sourcegraph/cody/-/blob/agent/src/index.ts",
		"repository":{"id":"UmVwb3NpdG9yeTox","name":"github.com/sourcegraph/cody"},
		"commit":{"oid":"abc123"}},
	 "startLine":10,"endLine":20,"chunkContent":"export function main() {}"},
	{},
	{"blob":{"path":"README.md","repository":{"id":"UmVwb3NpdG9yeTox","name":"github.com/sourcegraph/cody"}},
	 "startLine":0,"endLine":3,"chunkContent":"# Cody"}
]}}`

func TestSearchContext_Success(t *testing.T) {
	t.Parallel()

	fake := newFakeSourcegraph(t)
	fake.respond("/.api/graphql", http.StatusOK, contextSearchBody)
	c := fake.client(t)

	result, err := c.SearchContext(context.Background(), outbound.ContextSearchRequest{
		RepositoryIDs:    []string{"UmVwb3NpdG9yeTox"},
		Query:            "where is main?",
		CodeResultsCount: 10,
		TextResultsCount: 5,
	})

	require.NoError(t, err)
	assert.Equal(t, valueobject.OutcomeOK, result.Outcome)
	assert.Equal(t, []entity.ContextChunk{
		{
			Path:           "agent/src/index.ts",
			StartLine:      10,
			EndLine:        20,
			Content:        "export function main() {}",
			RepositoryID:   "UmVwb3NpdG9yeTox",
			RepositoryName: "github.com/sourcegraph/cody",
			CommitOID:      "abc123",
			URL:            "/github.com/sourcegraph/cody/-/blob/agent/src/index.ts",
		},
		{
			Path:           "README.md",
			StartLine:      0,
			EndLine:        3,
			Content:        "# Cody",
			RepositoryID:   "UmVwb3NpdG9yeTox",
			RepositoryName: "github.com/sourcegraph/cody",
		},
	}, result.Chunks)

	requests := fake.recorded()
	require.Len(t, requests, 1)
	body := requests[0].decodeBody(t)
	assert.Contains(t, body["query"], "getCodyContext(repos: $repos, query: $query")
	variables := body["variables"].(map[string]interface{})
	assert.Equal(t, []interface{}{"UmVwb3NpdG9yeTox"}, variables["repos"])
	assert.Equal(t, "where is main?", variables["query"])
	assert.InDelta(t, 10, variables["codeResultsCount"], 0)
	assert.InDelta(t, 5, variables["textResultsCount"], 0)
}

func TestSearchContext_NilRepositoriesSentAsEmptyArray(t *testing.T) {
	t.Parallel()

	fake := newFakeSourcegraph(t)
	fake.respond("/.api/graphql", http.StatusOK, `{"data":{"getCodyContext":[]}}`)
	c := fake.client(t)

	result, err := c.SearchContext(context.Background(), outbound.ContextSearchRequest{Query: "q"})

	require.NoError(t, err)
	assert.Empty(t, result.Chunks)

	variables := fake.recorded()[0].decodeBody(t)["variables"].(map[string]interface{})
	assert.Equal(t, []interface{}{}, variables["repos"])
}

func TestSearchContext_NonSuccessDegrades(t *testing.T) {
	t.Parallel()

	fake := newFakeSourcegraph(t)
	fake.respond("/.api/graphql", http.StatusServiceUnavailable, "down")
	c := fake.client(t)

	result, err := c.SearchContext(context.Background(), outbound.ContextSearchRequest{Query: "q"})

	require.NoError(t, err)
	assert.True(t, result.Outcome.IsDegraded())
	assert.Equal(t, http.StatusServiceUnavailable, result.StatusCode)
	assert.Empty(t, result.Chunks)
}

func TestSearchContext_MalformedResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "no data", body: `{}`},
		{name: "null getCodyContext", body: `{"data":{"getCodyContext":null}}`},
		{name: "missing chunkContent", body: `{"data":{"getCodyContext":[{"blob":{"path":"a.go"},"startLine":1,"endLine":2}]}}`},
		{name: "missing path", body: `{"data":{"getCodyContext":[{"blob":{},"startLine":1,"endLine":2,"chunkContent":"x"}]}}`},
		{name: "missing lines", body: `{"data":{"getCodyContext":[{"blob":{"path":"a.go"},"chunkContent":"x"}]}}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := newFakeSourcegraph(t)
			fake.respond("/.api/graphql", http.StatusOK, tt.body)
			c := fake.client(t)

			result, err := c.SearchContext(context.Background(), outbound.ContextSearchRequest{Query: "q"})

			require.ErrorIs(t, err, sourcegraph.ErrMalformedResponse)
			assert.Nil(t, result)
		})
	}
}
