// Package outbound defines the outbound ports used to reach the Sourcegraph instance.
package outbound

import (
	"codycli/internal/domain/entity"
	"codycli/internal/domain/valueobject"
	"context"
)

// RepositoryResolver maps repository names to their GraphQL IDs.
type RepositoryResolver interface {
	// ResolveRepositories issues one lookup for names, which must not be empty.
	// A non-success HTTP status yields a degraded resolution and a nil error.
	ResolveRepositories(ctx context.Context, names []string) (*RepositoryResolution, error)
}

// ContextSearcher retrieves relevant chunks from resolved repositories.
type ContextSearcher interface {
	// SearchContext issues one context search. A non-success HTTP status yields
	// a degraded result and a nil error.
	SearchContext(ctx context.Context, request ContextSearchRequest) (*ContextSearchResult, error)
}

// ChatCompleter streams a completion for a prompt.
type ChatCompleter interface {
	// StreamCompletion returns the last completion snapshot received, or "" if
	// the stream carried none.
	StreamCompletion(ctx context.Context, prompt valueobject.Prompt, options CompletionOptions) (string, error)
}

// ModelLister lists the chat models offered by the instance.
type ModelLister interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// RepositoryResolution is the result of a repository lookup.
type RepositoryResolution struct {
	IDs        entity.RepositoryIDs
	Outcome    valueobject.Outcome
	StatusCode int
}

// ContextSearchRequest holds the parameters of a context search.
type ContextSearchRequest struct {
	RepositoryIDs    []string
	Query            string
	CodeResultsCount int
	TextResultsCount int
}

// ContextSearchResult is the result of a context search.
type ContextSearchResult struct {
	Chunks     []entity.ContextChunk
	Outcome    valueobject.Outcome
	StatusCode int
}

// CompletionOptions tunes a single completion request.
type CompletionOptions struct {
	// Model overrides the configured model when non-empty.
	Model string
	// OnEvent, when set, is called for every completion snapshot.
	OnEvent func(event StreamEvent)
}

// StreamEvent is one decoded data payload from the completions stream.
// Completion holds the full answer so far, not a delta.
type StreamEvent struct {
	Completion string `json:"completion"`
	StopReason string `json:"stopReason,omitempty"`
}

// ModelInfo describes a model offered by the instance.
type ModelInfo struct {
	ID      string `json:"id"`
	Object  string `json:"object,omitempty"`
	OwnedBy string `json:"owned_by,omitempty"`
	Created int64  `json:"created,omitempty"`
}
