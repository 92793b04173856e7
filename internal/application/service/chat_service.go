package service

import (
	"codycli/internal/application/common"
	"codycli/internal/application/common/slogger"
	"codycli/internal/application/dto"
	"codycli/internal/domain/valueobject"
	"codycli/internal/port/outbound"
	"context"
	"fmt"
)

// ContextProvider supplies formatted repository context for a query.
type ContextProvider interface {
	Retrieve(ctx context.Context, names []string, query string) (*RetrievedContext, error)
}

// ChatService answers a query with an optional context retrieval step
// followed by a single streamed completion.
type ChatService struct {
	contexts     ContextProvider
	completer    outbound.ChatCompleter
	defaultModel string
}

// NewChatService creates a new ChatService. defaultModel is reported in
// responses when a request does not override it.
func NewChatService(contexts ContextProvider, completer outbound.ChatCompleter, defaultModel string) *ChatService {
	if contexts == nil {
		panic("contexts cannot be nil")
	}
	if completer == nil {
		panic("completer cannot be nil")
	}
	return &ChatService{
		contexts:     contexts,
		completer:    completer,
		defaultModel: defaultModel,
	}
}

// Ask answers request.Query. The context template is used if and only if
// repository names were supplied, even when retrieval degraded to an empty
// context.
func (s *ChatService) Ask(ctx context.Context, request dto.AskRequest) (*dto.AskResponse, error) {
	if err := common.ValidateQuery(request.Query); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if err := common.ValidateRepositoryNames(request.RepositoryNames); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	retrieved, err := s.contexts.Retrieve(ctx, request.RepositoryNames, request.Query)
	if err != nil {
		return nil, err
	}

	var prompt valueobject.Prompt
	if len(request.RepositoryNames) > 0 {
		prompt = valueobject.NewContextPrompt(retrieved.Text, request.Query)
	} else {
		prompt = valueobject.NewQueryPrompt(request.Query)
	}

	options := outbound.CompletionOptions{Model: request.Model}
	if request.OnCompletion != nil {
		onCompletion := request.OnCompletion
		options.OnEvent = func(event outbound.StreamEvent) { onCompletion(event.Completion) }
	}

	answer, err := s.completer.StreamCompletion(ctx, prompt, options)
	if err != nil {
		return nil, common.WrapServiceError(common.OpStreamCompletion, err)
	}

	model := request.Model
	if model == "" {
		model = s.defaultModel
	}

	slogger.Info(ctx, "Query answered", slogger.Fields{
		"model":           model,
		"with_context":    prompt.HasContext(),
		"context_outcome": retrieved.Outcome.String(),
		"answer_length":   len(answer),
	})

	return &dto.AskResponse{
		Answer:  answer,
		Model:   model,
		Context: contextMetadata(request.RepositoryNames, retrieved),
	}, nil
}

func contextMetadata(names []string, retrieved *RetrievedContext) dto.ContextMetadata {
	metadata := dto.ContextMetadata{
		Requested:       len(names) > 0,
		RepositoryCount: retrieved.RepositoryCount,
		ChunkCount:      len(retrieved.Chunks),
	}
	if metadata.Requested {
		metadata.Outcome = retrieved.Outcome.String()
	}
	for _, chunk := range retrieved.Chunks {
		metadata.Files = append(metadata.Files, fmt.Sprintf("%s:%d-%d", chunk.Path, chunk.StartLine, chunk.EndLine))
	}
	return metadata
}

// ModelService lists the chat models offered by the instance.
type ModelService struct {
	lister outbound.ModelLister
}

// NewModelService creates a new ModelService.
func NewModelService(lister outbound.ModelLister) *ModelService {
	if lister == nil {
		panic("lister cannot be nil")
	}
	return &ModelService{lister: lister}
}

// ListModels returns every model the instance reports.
func (s *ModelService) ListModels(ctx context.Context) (*dto.ModelListResponse, error) {
	models, err := s.lister.ListModels(ctx)
	if err != nil {
		return nil, common.WrapServiceError(common.OpListModels, err)
	}
	if models == nil {
		models = []outbound.ModelInfo{}
	}
	return &dto.ModelListResponse{Models: models, Total: len(models)}, nil
}
