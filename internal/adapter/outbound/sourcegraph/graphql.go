package sourcegraph

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

type graphQLRequest struct {
	Query     string      `json:"query"`
	Variables interface{} `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse[T any] struct {
	Data   *T             `json:"data"`
	Errors []graphQLError `json:"errors,omitempty"`
}

func (c *Client) postGraphQL(ctx context.Context, operation, query string, variables interface{}) (*http.Response, error) {
	return c.send(ctx, operation, http.MethodPost, c.config.GraphQLURL, graphQLRequest{
		Query:     query,
		Variables: variables,
	})
}

// decodeGraphQL decodes a GraphQL envelope and returns its data member, which
// must be present.
func decodeGraphQL[T any](body io.Reader) (*T, error) {
	var envelope graphQLResponse[T]
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return nil, malformed("decoding GraphQL response: %v", err)
	}

	if envelope.Data == nil {
		if len(envelope.Errors) > 0 {
			messages := make([]string, 0, len(envelope.Errors))
			for _, e := range envelope.Errors {
				messages = append(messages, e.Message)
			}
			return nil, malformed("GraphQL response has no data: %s", strings.Join(messages, "; "))
		}
		return nil, malformed("GraphQL response has no data")
	}

	return envelope.Data, nil
}
