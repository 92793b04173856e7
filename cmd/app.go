package cmd

import (
	"codycli/internal/adapter/outbound/sourcegraph"
	"codycli/internal/application/common/slogger"
	"codycli/internal/application/common/telemetry"
	"codycli/internal/application/service"
	"codycli/internal/config"
	"codycli/internal/port/inbound"
	"codycli/internal/version"
	"context"
	"fmt"
)

const serviceName = "codycli"

// application wires the Sourcegraph client, its metrics and the services for
// one invocation.
type application struct {
	config    *config.Config
	telemetry *telemetry.Provider
	client    *sourcegraph.Client
}

func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	provider, err := telemetry.NewProvider(ctx, serviceName, version.GetVersion().Version)
	if err != nil {
		return nil, fmt.Errorf("creating meter provider: %w", err)
	}

	metrics, err := sourcegraph.NewRequestMetrics(provider.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("creating request metrics: %w", err)
	}

	sg, err := sourcegraph.NewClient(&sourcegraph.ClientConfig{
		GraphQLURL:        cfg.GraphQLURL(),
		CompletionsURL:    cfg.CompletionsURL(),
		ModelsURL:         cfg.ModelsURL(),
		AccessToken:       cfg.Sourcegraph.AccessToken,
		UserAgent:         version.UserAgent(),
		Model:             cfg.Chat.Model,
		MaxTokensToSample: cfg.Chat.MaxTokensToSample,
		Temperature:       cfg.Chat.Temperature,
		TopK:              cfg.Chat.TopK,
		TopP:              cfg.Chat.TopP,
		Timeout:           cfg.HTTP.Timeout,
	}, sourcegraph.WithMetrics(metrics))
	if err != nil {
		return nil, fmt.Errorf("creating Sourcegraph client: %w", err)
	}

	return &application{
		config:    cfg,
		telemetry: provider,
		client:    sg,
	}, nil
}

func (a *application) chatService() inbound.ChatService {
	retriever := service.NewContextRetriever(a.client, a.client, service.ContextRetrieverConfig{
		CodeResultsCount: a.config.Context.CodeResultsCount,
		TextResultsCount: a.config.Context.TextResultsCount,
	})
	return service.NewChatService(retriever, a.client, a.config.Chat.Model)
}

func (a *application) modelService() inbound.ModelService {
	return service.NewModelService(a.client)
}

// shutdown logs the collected request metrics at debug level and releases
// the meter provider.
func (a *application) shutdown(ctx context.Context) {
	points, err := a.telemetry.Snapshot(ctx)
	if err != nil {
		slogger.Debug(ctx, "Failed to collect metrics", slogger.Field("error", err.Error()))
	}
	for _, point := range points {
		slogger.Debug(ctx, "Metric", slogger.Fields{
			"name":       point.Name,
			"attributes": point.Attributes,
			"value":      point.Value,
			"count":      point.Count,
		})
	}

	if err := a.telemetry.Shutdown(ctx); err != nil {
		slogger.Debug(ctx, "Failed to shut down meter provider", slogger.Field("error", err.Error()))
	}
}
