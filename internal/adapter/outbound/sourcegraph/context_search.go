package sourcegraph

import (
	"codycli/internal/application/common/slogger"
	"codycli/internal/domain/entity"
	"codycli/internal/domain/valueobject"
	"codycli/internal/port/outbound"
	"context"

	"go.opentelemetry.io/otel/attribute"
)

const contextSearchQuery = `
query GetCodyContext($repos: [ID!]!, $query: String!, $codeResultsCount: Int!, $textResultsCount: Int!) {
    getCodyContext(repos: $repos, query: $query, codeResultsCount: $codeResultsCount, textResultsCount: $textResultsCount) {
        ...on FileChunkContext {
            blob {
                path
                repository {
                    id
                    name
                }
                commit {
                    oid
                }
                url
            }
            startLine
            endLine
            chunkContent
        }
    }
}`

type contextSearchData struct {
	GetCodyContext *[]*contextItem `json:"getCodyContext"`
}

// contextItem is one member of the getCodyContext union. Members that are not
// FileChunkContext decode with a nil Blob.
type contextItem struct {
	Blob *struct {
		Path       *string `json:"path"`
		URL        string  `json:"url"`
		Repository *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"repository"`
		Commit *struct {
			OID string `json:"oid"`
		} `json:"commit"`
	} `json:"blob"`
	StartLine    *int    `json:"startLine"`
	EndLine      *int    `json:"endLine"`
	ChunkContent *string `json:"chunkContent"`
}

func (item *contextItem) toChunk(index int) (entity.ContextChunk, error) {
	if item.Blob.Path == nil || item.StartLine == nil || item.EndLine == nil || item.ChunkContent == nil {
		return entity.ContextChunk{}, malformed("getCodyContext[%d] is missing path, line range or chunkContent", index)
	}

	chunk := entity.ContextChunk{
		Path:      *item.Blob.Path,
		StartLine: *item.StartLine,
		EndLine:   *item.EndLine,
		Content:   *item.ChunkContent,
		URL:       item.Blob.URL,
	}
	if item.Blob.Repository != nil {
		chunk.RepositoryID = item.Blob.Repository.ID
		chunk.RepositoryName = item.Blob.Repository.Name
	}
	if item.Blob.Commit != nil {
		chunk.CommitOID = item.Blob.Commit.OID
	}
	return chunk, nil
}

// SearchContext fetches code and text chunks relevant to the query across the
// given repository IDs.
func (c *Client) SearchContext(
	ctx context.Context,
	request outbound.ContextSearchRequest,
) (*outbound.ContextSearchResult, error) {
	ctx, span := c.startSpan(ctx, operationSearchContext,
		attribute.Int("repository.count", len(request.RepositoryIDs)),
		attribute.Int("context.code_results", request.CodeResultsCount),
		attribute.Int("context.text_results", request.TextResultsCount),
	)
	defer span.End()

	repos := request.RepositoryIDs
	if repos == nil {
		repos = []string{}
	}

	resp, err := c.postGraphQL(ctx, operationSearchContext, contextSearchQuery, map[string]interface{}{
		"repos":            repos,
		"query":            request.Query,
		"codeResultsCount": request.CodeResultsCount,
		"textResultsCount": request.TextResultsCount,
	})
	if err != nil {
		return nil, failSpan(span, err)
	}
	defer closeBody(ctx, resp)

	if !isSuccess(resp.StatusCode) {
		c.degrade(ctx, operationSearchContext, resp)
		return &outbound.ContextSearchResult{
			Outcome:    valueobject.OutcomeDegraded,
			StatusCode: resp.StatusCode,
		}, nil
	}

	data, err := decodeGraphQL[contextSearchData](resp.Body)
	if err != nil {
		return nil, failSpan(span, err)
	}
	if data.GetCodyContext == nil {
		return nil, failSpan(span, malformed("getCodyContext is not an array"))
	}

	items := *data.GetCodyContext
	chunks := make([]entity.ContextChunk, 0, len(items))
	skipped := 0
	for i, item := range items {
		if item == nil || item.Blob == nil {
			skipped++
			continue
		}
		chunk, err := item.toChunk(i)
		if err != nil {
			return nil, failSpan(span, err)
		}
		chunks = append(chunks, chunk)
	}

	if skipped > 0 {
		slogger.Debug(ctx, "Skipped context results that are not file chunks", slogger.Field("skipped", skipped))
	}
	span.SetAttributes(attribute.Int("context.chunks", len(chunks)))

	return &outbound.ContextSearchResult{
		Chunks:     chunks,
		Outcome:    valueobject.OutcomeOK,
		StatusCode: resp.StatusCode,
	}, nil
}
