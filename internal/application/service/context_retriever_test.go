package service

import (
	"codycli/internal/application/common"
	"codycli/internal/domain/entity"
	"codycli/internal/domain/valueobject"
	"codycli/internal/port/outbound"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testRetrieverConfig = ContextRetrieverConfig{
	CodeResultsCount: DefaultCodeResultsCount,
	TextResultsCount: DefaultTextResultsCount,
}

func TestContextRetriever_NoNamesMakesNoCalls(t *testing.T) {
	t.Parallel()

	resolver := &mockRepositoryResolver{}
	searcher := &mockContextSearcher{}
	retriever := NewContextRetriever(resolver, searcher, testRetrieverConfig)

	for _, names := range [][]string{nil, {}} {
		result, err := retriever.Retrieve(context.Background(), names, "what is cody?")

		require.NoError(t, err)
		assert.Empty(t, result.Text)
		assert.Equal(t, valueobject.OutcomeOK, result.Outcome)
	}

	resolver.AssertNotCalled(t, "ResolveRepositories", mock.Anything, mock.Anything)
	searcher.AssertNotCalled(t, "SearchContext", mock.Anything, mock.Anything)
}

func TestContextRetriever_ResolvesSearchesAndFormats(t *testing.T) {
	t.Parallel()

	names := []string{"github.com/sourcegraph/cody"}
	chunks := []entity.ContextChunk{
		{Path: "main.go", StartLine: 1, EndLine: 3, Content: "package main"},
	}

	resolver := &mockRepositoryResolver{}
	resolver.On("ResolveRepositories", mock.Anything, names).Return(&outbound.RepositoryResolution{
		IDs:     entity.RepositoryIDs{"github.com/sourcegraph/cody": "UmVwbzox"},
		Outcome: valueobject.OutcomeOK,
	}, nil)
	searcher := &mockContextSearcher{}
	searcher.On("SearchContext", mock.Anything, outbound.ContextSearchRequest{
		RepositoryIDs:    []string{"UmVwbzox"},
		Query:            "what does main do?",
		CodeResultsCount: 10,
		TextResultsCount: 5,
	}).Return(&outbound.ContextSearchResult{Chunks: chunks, Outcome: valueobject.OutcomeOK}, nil)

	retriever := NewContextRetriever(resolver, searcher, testRetrieverConfig)
	result, err := retriever.Retrieve(context.Background(), names, "what does main do?")

	require.NoError(t, err)
	assert.Equal(t, "<context>\n<item>\n<file>main.go:1-3</file>\n<chunk>package main</chunk>\n</item>\n</context>", result.Text)
	assert.Equal(t, valueobject.OutcomeOK, result.Outcome)
	assert.Equal(t, chunks, result.Chunks)
	assert.Equal(t, 1, result.RepositoryCount)
	resolver.AssertExpectations(t)
	searcher.AssertExpectations(t)
}

func TestContextRetriever_DegradedLookupStillSearches(t *testing.T) {
	t.Parallel()

	resolver := &mockRepositoryResolver{}
	resolver.On("ResolveRepositories", mock.Anything, []string{"a"}).Return(&outbound.RepositoryResolution{
		IDs:        entity.RepositoryIDs{},
		Outcome:    valueobject.OutcomeDegraded,
		StatusCode: 500,
	}, nil)
	searcher := &mockContextSearcher{}
	searcher.On("SearchContext", mock.Anything, mock.MatchedBy(func(r outbound.ContextSearchRequest) bool {
		return r.RepositoryIDs != nil && len(r.RepositoryIDs) == 0
	})).Return(&outbound.ContextSearchResult{Chunks: []entity.ContextChunk{}, Outcome: valueobject.OutcomeOK}, nil)

	retriever := NewContextRetriever(resolver, searcher, testRetrieverConfig)
	result, err := retriever.Retrieve(context.Background(), []string{"a"}, "q")

	require.NoError(t, err)
	assert.True(t, result.Outcome.IsDegraded())
	assert.Equal(t, 500, result.StatusCode)
	assert.Equal(t, "<context>\n</context>", result.Text)
	searcher.AssertExpectations(t)
}

func TestContextRetriever_DegradedSearchYieldsEmptyText(t *testing.T) {
	t.Parallel()

	resolver := &mockRepositoryResolver{}
	resolver.On("ResolveRepositories", mock.Anything, []string{"a"}).Return(&outbound.RepositoryResolution{
		IDs:     entity.RepositoryIDs{"a": "1"},
		Outcome: valueobject.OutcomeOK,
	}, nil)
	searcher := &mockContextSearcher{}
	searcher.On("SearchContext", mock.Anything, mock.Anything).Return(&outbound.ContextSearchResult{
		Outcome:    valueobject.OutcomeDegraded,
		StatusCode: 502,
	}, nil)

	retriever := NewContextRetriever(resolver, searcher, testRetrieverConfig)
	result, err := retriever.Retrieve(context.Background(), []string{"a"}, "q")

	require.NoError(t, err)
	assert.Empty(t, result.Text)
	assert.True(t, result.Outcome.IsDegraded())
	assert.Equal(t, 502, result.StatusCode)
}

func TestContextRetriever_PropagatesFatalErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")

	t.Run("lookup", func(t *testing.T) {
		t.Parallel()

		resolver := &mockRepositoryResolver{}
		resolver.On("ResolveRepositories", mock.Anything, mock.Anything).Return(nil, boom)
		searcher := &mockContextSearcher{}

		_, err := NewContextRetriever(resolver, searcher, testRetrieverConfig).Retrieve(context.Background(), []string{"a"}, "q")

		require.ErrorIs(t, err, boom)
		var serviceErr common.ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, common.OpResolveRepositories, serviceErr.Operation)
		searcher.AssertNotCalled(t, "SearchContext", mock.Anything, mock.Anything)
	})

	t.Run("search", func(t *testing.T) {
		t.Parallel()

		resolver := &mockRepositoryResolver{}
		resolver.On("ResolveRepositories", mock.Anything, mock.Anything).Return(&outbound.RepositoryResolution{
			IDs:     entity.RepositoryIDs{"a": "1"},
			Outcome: valueobject.OutcomeOK,
		}, nil)
		searcher := &mockContextSearcher{}
		searcher.On("SearchContext", mock.Anything, mock.Anything).Return(nil, boom)

		_, err := NewContextRetriever(resolver, searcher, testRetrieverConfig).Retrieve(context.Background(), []string{"a"}, "q")

		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), common.OpSearchContext)
	})
}

func TestNewContextRetriever_PanicsOnNil(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewContextRetriever(nil, &mockContextSearcher{}, testRetrieverConfig) })
	assert.Panics(t, func() { NewContextRetriever(&mockRepositoryResolver{}, nil, testRetrieverConfig) })
}
