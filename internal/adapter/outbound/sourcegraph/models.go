package sourcegraph

import (
	"codycli/internal/port/outbound"
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

type modelsResponse struct {
	Data *[]outbound.ModelInfo `json:"data"`
}

// ListModels returns the models offered by the instance's LLM API.
func (c *Client) ListModels(ctx context.Context) ([]outbound.ModelInfo, error) {
	ctx, span := c.startSpan(ctx, operationListModels)
	defer span.End()

	if c.config.ModelsURL == "" {
		return nil, failSpan(span, ErrModelsUnavailable)
	}

	resp, err := c.send(ctx, operationListModels, http.MethodGet, c.config.ModelsURL, nil)
	if err != nil {
		return nil, failSpan(span, err)
	}
	defer closeBody(ctx, resp)

	if !isSuccess(resp.StatusCode) {
		return nil, failSpan(span, &APIError{
			Operation:  operationListModels,
			StatusCode: resp.StatusCode,
			Body:       readErrorBody(resp),
		})
	}

	var decoded modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, failSpan(span, malformed("decoding models response: %v", err))
	}
	if decoded.Data == nil {
		return nil, failSpan(span, malformed("models response has no data"))
	}

	span.SetAttributes(attribute.Int("models.count", len(*decoded.Data)))
	return *decoded.Data, nil
}
