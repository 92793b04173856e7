package service

import (
	"codycli/internal/domain/valueobject"
	"codycli/internal/port/inbound"
	"codycli/internal/port/outbound"
	"context"

	"github.com/stretchr/testify/mock"
)

var (
	_ inbound.ChatService  = (*ChatService)(nil)
	_ inbound.ModelService = (*ModelService)(nil)
	_ ContextProvider      = (*ContextRetriever)(nil)
)

type mockRepositoryResolver struct {
	mock.Mock
}

func (m *mockRepositoryResolver) ResolveRepositories(
	ctx context.Context,
	names []string,
) (*outbound.RepositoryResolution, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.RepositoryResolution), args.Error(1)
}

type mockContextSearcher struct {
	mock.Mock
}

func (m *mockContextSearcher) SearchContext(
	ctx context.Context,
	request outbound.ContextSearchRequest,
) (*outbound.ContextSearchResult, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.ContextSearchResult), args.Error(1)
}

type mockChatCompleter struct {
	mock.Mock
}

func (m *mockChatCompleter) StreamCompletion(
	ctx context.Context,
	prompt valueobject.Prompt,
	options outbound.CompletionOptions,
) (string, error) {
	args := m.Called(ctx, prompt, options)
	if options.OnEvent != nil {
		if answer := args.String(0); answer != "" {
			options.OnEvent(outbound.StreamEvent{Completion: answer})
		}
	}
	return args.String(0), args.Error(1)
}

type mockContextProvider struct {
	mock.Mock
}

func (m *mockContextProvider) Retrieve(ctx context.Context, names []string, query string) (*RetrievedContext, error) {
	args := m.Called(ctx, names, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RetrievedContext), args.Error(1)
}

type mockModelLister struct {
	mock.Mock
}

func (m *mockModelLister) ListModels(ctx context.Context) ([]outbound.ModelInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]outbound.ModelInfo), args.Error(1)
}
