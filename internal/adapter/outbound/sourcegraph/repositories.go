package sourcegraph

import (
	"codycli/internal/application/common/slogger"
	"codycli/internal/domain/entity"
	"codycli/internal/domain/valueobject"
	"codycli/internal/port/outbound"
	"context"

	"go.opentelemetry.io/otel/attribute"
)

const repositoriesQuery = `
query Repositories($names: [String!]!, $first: Int!) {
    repositories(names: $names, first: $first) {
        nodes {
            name
            id
        }
    }
}`

type repositoriesData struct {
	Repositories *struct {
		Nodes *[]*repositoryNode `json:"nodes"`
	} `json:"repositories"`
}

type repositoryNode struct {
	Name *string `json:"name"`
	ID   *string `json:"id"`
}

// ResolveRepositories looks up the GraphQL IDs of names with a single request
// bounded to len(names) results.
func (c *Client) ResolveRepositories(ctx context.Context, names []string) (*outbound.RepositoryResolution, error) {
	if len(names) == 0 {
		return nil, ErrNoRepositoryNames
	}

	ctx, span := c.startSpan(ctx, operationResolveRepositories, attribute.Int("repository.requested", len(names)))
	defer span.End()

	resp, err := c.postGraphQL(ctx, operationResolveRepositories, repositoriesQuery, map[string]interface{}{
		"names": names,
		"first": len(names),
	})
	if err != nil {
		return nil, failSpan(span, err)
	}
	defer closeBody(ctx, resp)

	if !isSuccess(resp.StatusCode) {
		c.degrade(ctx, operationResolveRepositories, resp)
		return &outbound.RepositoryResolution{
			IDs:        entity.RepositoryIDs{},
			Outcome:    valueobject.OutcomeDegraded,
			StatusCode: resp.StatusCode,
		}, nil
	}

	data, err := decodeGraphQL[repositoriesData](resp.Body)
	if err != nil {
		return nil, failSpan(span, err)
	}
	if data.Repositories == nil || data.Repositories.Nodes == nil {
		return nil, failSpan(span, malformed("missing repositories.nodes"))
	}

	ids := make(entity.RepositoryIDs, len(*data.Repositories.Nodes))
	for i, node := range *data.Repositories.Nodes {
		if node == nil || node.Name == nil || node.ID == nil {
			return nil, failSpan(span, malformed("repositories.nodes[%d] is missing name or id", i))
		}
		ids[*node.Name] = *node.ID
	}

	span.SetAttributes(attribute.Int("repository.resolved", len(ids)))
	if len(ids) < len(names) {
		slogger.Info(ctx, "Some repositories were not found", slogger.Fields2(
			"requested", len(names),
			"resolved", len(ids),
		))
	}

	return &outbound.RepositoryResolution{
		IDs:        ids,
		Outcome:    valueobject.OutcomeOK,
		StatusCode: resp.StatusCode,
	}, nil
}
