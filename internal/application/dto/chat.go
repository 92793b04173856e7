package dto

import "codycli/internal/port/outbound"

// AskRequest represents a chat request from the command line.
type AskRequest struct {
	Query           string   `json:"query"`
	RepositoryNames []string `json:"repository_names,omitempty"`
	// Model overrides the configured model when non-empty.
	Model string `json:"model,omitempty"`
	// OnCompletion, when set, receives every completion snapshot while streaming.
	OnCompletion func(completion string) `json:"-"`
}

// AskResponse represents the answer and how the prompt was built.
type AskResponse struct {
	Answer  string          `json:"answer"`
	Model   string          `json:"model"`
	Context ContextMetadata `json:"context"`
}

// ContextMetadata describes the context retrieval step of a request.
type ContextMetadata struct {
	Requested       bool     `json:"requested"`
	Outcome         string   `json:"outcome,omitempty"`
	RepositoryCount int      `json:"repository_count"`
	ChunkCount      int      `json:"chunk_count"`
	Files           []string `json:"files,omitempty"`
}

// ModelListResponse represents the models offered by the instance.
type ModelListResponse struct {
	Models []outbound.ModelInfo `json:"models"`
	Total  int                  `json:"total"`
}
