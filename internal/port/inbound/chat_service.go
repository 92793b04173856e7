// Package inbound defines the inbound ports (interfaces) for the application layer.
package inbound

import (
	"codycli/internal/application/dto"
	"context"
)

// ChatService answers a query, optionally enriched with repository context.
type ChatService interface {
	Ask(ctx context.Context, request dto.AskRequest) (*dto.AskResponse, error)
}

// ModelService lists available chat models.
type ModelService interface {
	ListModels(ctx context.Context) (*dto.ModelListResponse, error)
}
