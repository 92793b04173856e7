package service

import (
	"codycli/internal/application/common"
	"codycli/internal/application/common/slogger"
	"codycli/internal/domain/entity"
	domainservice "codycli/internal/domain/service"
	"codycli/internal/domain/valueobject"
	"codycli/internal/port/outbound"
	"context"
)

// Default result counts for the context search.
const (
	DefaultCodeResultsCount = 10
	DefaultTextResultsCount = 5
)

// RetrievedContext is the formatted context for a query plus how it was obtained.
type RetrievedContext struct {
	// Text is the formatted context block, or "" when no repositories were
	// requested or the search degraded.
	Text    string
	Outcome valueobject.Outcome
	// StatusCode is the HTTP status that caused degradation, if any.
	StatusCode      int
	Chunks          []entity.ContextChunk
	RepositoryCount int
}

// ContextRetrieverConfig tunes the context search.
type ContextRetrieverConfig struct {
	CodeResultsCount int
	TextResultsCount int
}

// ContextRetriever resolves repository names and fetches formatted context
// chunks for a query.
type ContextRetriever struct {
	resolver outbound.RepositoryResolver
	searcher outbound.ContextSearcher
	config   ContextRetrieverConfig
}

// NewContextRetriever creates a new ContextRetriever.
func NewContextRetriever(
	resolver outbound.RepositoryResolver,
	searcher outbound.ContextSearcher,
	config ContextRetrieverConfig,
) *ContextRetriever {
	if resolver == nil {
		panic("resolver cannot be nil")
	}
	if searcher == nil {
		panic("searcher cannot be nil")
	}
	return &ContextRetriever{
		resolver: resolver,
		searcher: searcher,
		config:   config,
	}
}

// Retrieve returns the formatted context for query across names. With no
// names it returns an empty result without touching the network. A
// non-success status from either call degrades the result instead of
// failing; a degraded lookup still runs the search with no repositories.
func (r *ContextRetriever) Retrieve(ctx context.Context, names []string, query string) (*RetrievedContext, error) {
	if len(names) == 0 {
		return &RetrievedContext{Outcome: valueobject.OutcomeOK}, nil
	}

	resolution, err := r.resolver.ResolveRepositories(ctx, names)
	if err != nil {
		return nil, common.WrapServiceError(common.OpResolveRepositories, err)
	}

	result := &RetrievedContext{
		Outcome:         resolution.Outcome,
		StatusCode:      resolution.StatusCode,
		RepositoryCount: len(resolution.IDs),
	}

	search, err := r.searcher.SearchContext(ctx, outbound.ContextSearchRequest{
		RepositoryIDs:    resolution.IDs.IDs(names),
		Query:            query,
		CodeResultsCount: r.config.CodeResultsCount,
		TextResultsCount: r.config.TextResultsCount,
	})
	if err != nil {
		return nil, common.WrapServiceError(common.OpSearchContext, err)
	}

	if search.Outcome.IsDegraded() {
		result.Outcome = valueobject.OutcomeDegraded
		result.StatusCode = search.StatusCode
		return result, nil
	}

	result.Chunks = search.Chunks
	result.Text = domainservice.FormatContext(search.Chunks)

	slogger.Debug(ctx, "Context retrieved", slogger.Fields{
		"repositories": result.RepositoryCount,
		"chunks":       len(result.Chunks),
		"outcome":      result.Outcome.String(),
	})

	return result, nil
}
