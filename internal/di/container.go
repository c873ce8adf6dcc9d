// Package di wires every concrete collaborator -- config, logger, store,
// provider clients, the LLM invoker, the ingestion pipeline, the scheduler,
// and the compiled analysis graph -- into one Container, the single place
// that has to know how these pieces fit together.
package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/config"
	"github.com/aristath/bourseiq/internal/domain"
	"github.com/aristath/bourseiq/internal/events"
	"github.com/aristath/bourseiq/internal/llm"
	"github.com/aristath/bourseiq/internal/nodes"
	"github.com/aristath/bourseiq/internal/nodes/fundamental"
	"github.com/aristath/bourseiq/internal/nodes/social"
	"github.com/aristath/bourseiq/internal/nodes/technical"
	"github.com/aristath/bourseiq/internal/orchestrator"
	"github.com/aristath/bourseiq/internal/providers"
	"github.com/aristath/bourseiq/internal/scheduler"
	"github.com/aristath/bourseiq/internal/store"
	"github.com/aristath/bourseiq/internal/work"
	"github.com/aristath/bourseiq/internal/workflow"
	"github.com/aristath/bourseiq/pkg/logger"
)

// Container holds every long-lived collaborator the server and CLI
// entrypoints need. Fields are exported so cmd/server and cmd/cli can reach
// in directly rather than the container growing a parallel accessor per
// field.
type Container struct {
	Config *config.Config
	Log    zerolog.Logger

	DB          *store.DB
	Store       *store.Store
	Checkpoints *store.Checkpointer
	Backup      *store.Backup // nil when no backup bucket is configured

	Market providers.MarketClient
	Social providers.SocialClient
	Search providers.SearchClient

	Invoker *llm.Invoker

	Orchestrator *orchestrator.Orchestrator
	Events       *events.Manager

	WorkRegistry *work.Registry
	Processor    *work.Processor
	Scheduler    *scheduler.Scheduler

	Graph *workflow.Graph
}

// Wire constructs every collaborator and returns the assembled Container.
// The caller owns its lifetime: Close releases the database connection.
func Wire(ctx context.Context, cfg *config.Config) (*Container, error) {
	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Pretty:      cfg.DevMode,
		FilePath:    cfg.LogFilePath,
		MaxBytes:    cfg.LogMaxBytes,
		BackupCount: cfg.LogBackups,
	})

	db, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("di: open store: %w", err)
	}
	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("di: migrate store: %w", err)
	}

	documentStore := store.New(db, log)
	checkpoints := store.NewCheckpointer(db, log)

	backup, err := store.NewBackup(ctx, store.BackupConfig{
		Bucket:    cfg.BackupBucket,
		Region:    cfg.BackupRegion,
		Endpoint:  cfg.BackupEndpoint,
		AccessKey: cfg.BackupAccessKey,
		SecretKey: cfg.BackupSecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("di: configure backup: %w", err)
	}

	marketClient := providers.NewHTTPClient(providers.HTTPConfig{
		BaseURL: cfg.MarketDataBaseURL,
		Retry:   providers.DefaultRetryConfig(),
	}, log)
	socialClient := providers.NewHTTPClient(providers.HTTPConfig{
		BaseURL: cfg.SocialBaseURL,
		APIKey:  cfg.SearchAPIKey,
		Retry:   providers.DefaultRetryConfig(),
	}, log)
	searchClient := providers.NewHTTPClient(providers.HTTPConfig{
		BaseURL: cfg.SearchAPIBaseURL,
		APIKey:  cfg.SearchAPIKey,
		Retry:   providers.DefaultRetryConfig(),
	}, log)

	model := llm.NewHTTPModel(llm.HTTPModelConfig{
		BaseURL: cfg.LLMBaseURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
	})
	invoker := llm.NewInvoker(model)

	orch := orchestrator.New(marketClient, socialClient, searchClient, documentStore, log)
	orch.AllowMockFallback = cfg.DevMode

	bus := events.NewManager(log)

	registry := work.NewRegistry()
	registry.Register(ingestionWorkType(cfg, orch, log))
	processor := work.NewProcessor(registry, log)

	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.IngestCronSpec, scheduler.NewIngestionJob(processor)); err != nil {
		return nil, fmt.Errorf("di: schedule ingestion job: %w", err)
	}

	graph, err := buildGraph(orch, cfg.ProviderID, invoker, log)
	if err != nil {
		return nil, fmt.Errorf("di: compile analysis graph: %w", err)
	}

	return &Container{
		Config:       cfg,
		Log:          log,
		DB:           db,
		Store:        documentStore,
		Checkpoints:  checkpoints,
		Backup:       backup,
		Market:       marketClient,
		Social:       socialClient,
		Search:       searchClient,
		Invoker:      invoker,
		Orchestrator: orch,
		Events:       bus,
		WorkRegistry: registry,
		Processor:    processor,
		Scheduler:    sched,
		Graph:        graph,
	}, nil
}

// Close releases the database connection. The scheduler and any in-flight
// workflow runs are the caller's responsibility to stop first.
func (c *Container) Close() error {
	return c.DB.Close()
}

// ingestionWorkType builds the one registered work.WorkType: a sweep over
// cfg.TrackedSymbols, skipping any symbol whose document is still fresh per
// the store's freshness predicate.
func ingestionWorkType(cfg *config.Config, orch *orchestrator.Orchestrator, log zerolog.Logger) *work.WorkType {
	return &work.WorkType{
		ID: "ingestion_sweep",
		FindSubjects: func(ctx context.Context) ([]string, error) {
			var due []string
			for _, symbol := range cfg.TrackedSymbols {
				documentID := fmt.Sprintf("%s_%s", symbol, cfg.ProviderID)
				should, err := orch.ShouldRun(ctx, documentID)
				if err != nil {
					log.Warn().Err(err).Str("symbol", symbol).Msg("freshness check failed, skipping")
					continue
				}
				if should {
					due = append(due, symbol)
				}
			}
			return due, nil
		},
		Execute: func(ctx context.Context, symbol string) error {
			_, err := orch.Execute(ctx, domain.Symbol(symbol), cfg.ProviderID)
			return err
		},
	}
}
