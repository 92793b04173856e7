package sourcegraph

import (
	"codycli/internal/application/common/slogger"
	"codycli/internal/domain/valueobject"
	"codycli/internal/port/outbound"
	"context"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

const (
	speakerHuman     = "human"
	streamBufferSize = 4 << 10
)

type completionMessage struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

type completionRequest struct {
	MaxTokensToSample int                 `json:"maxTokensToSample"`
	Messages          []completionMessage `json:"messages"`
	Model             string              `json:"model"`
	Temperature       float64             `json:"temperature"`
	TopK              int                 `json:"topK"`
	TopP              int                 `json:"topP"`
	Stream            bool                `json:"stream"`
}

// StreamCompletion sends prompt as a single human message and consumes the
// streamed response. Each event carries the whole answer so far, so the
// result is the last completion received. A non-success status returns an
// *APIError.
func (c *Client) StreamCompletion(
	ctx context.Context,
	prompt valueobject.Prompt,
	options outbound.CompletionOptions,
) (string, error) {
	model := c.config.Model
	if options.Model != "" {
		model = options.Model
	}

	ctx, span := c.startSpan(ctx, operationStreamCompletion,
		attribute.String("completion.model", model),
		attribute.Bool("completion.with_context", prompt.HasContext()),
	)
	defer span.End()

	resp, err := c.send(ctx, operationStreamCompletion, http.MethodPost, c.config.CompletionsURL, completionRequest{
		MaxTokensToSample: c.config.MaxTokensToSample,
		Messages:          []completionMessage{{Speaker: speakerHuman, Text: prompt.String()}},
		Model:             model,
		Temperature:       c.config.Temperature,
		TopK:              c.config.TopK,
		TopP:              c.config.TopP,
		Stream:            true,
	})
	if err != nil {
		return "", failSpan(span, err)
	}
	defer closeBody(ctx, resp)

	if !isSuccess(resp.StatusCode) {
		return "", failSpan(span, &APIError{
			Operation:  operationStreamCompletion,
			StatusCode: resp.StatusCode,
			Body:       readErrorBody(resp),
		})
	}

	decoder := NewEventDecoder(options.OnEvent)
	_, err = io.CopyBuffer(decoder, resp.Body, make([]byte, streamBufferSize))
	c.metrics.RecordStreamEvents(ctx, decoder.Events(), decoder.Skipped())
	if err != nil {
		return "", failSpan(span, fmt.Errorf("reading completion stream: %w", err))
	}

	if msg := decoder.LastError(); msg != "" {
		slogger.Warn(ctx, "Completion stream reported an error", slogger.Field("stream_error", msg))
	}
	if decoder.Skipped() > 0 {
		slogger.Debug(ctx, "Skipped completion stream lines that were not JSON", slogger.Field("skipped", decoder.Skipped()))
	}
	if !decoder.Seen() {
		slogger.Info(ctx, "Completion stream carried no completion", slogger.Field("done", decoder.Done()))
	}

	span.SetAttributes(
		attribute.Int("completion.events", decoder.Events()),
		attribute.Int("completion.length", len(decoder.Completion())),
	)

	return decoder.Completion(), nil
}
