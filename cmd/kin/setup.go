package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sandevgo/kinbot/internal/config"
	"github.com/sandevgo/kinbot/internal/metrics"
	"github.com/sandevgo/kinbot/internal/providers/llm"
	"github.com/sandevgo/kinbot/internal/service/agent"
	"github.com/sandevgo/kinbot/internal/service/command"
	"github.com/sandevgo/kinbot/internal/service/companion"
	"github.com/sandevgo/kinbot/internal/service/memory"
	"github.com/sandevgo/kinbot/internal/service/recap"
	"github.com/sandevgo/kinbot/internal/storage/sqlite"
	"github.com/sandevgo/kinbot/internal/transport/api"
	"github.com/sandevgo/kinbot/internal/transport/telegram"
	"github.com/sandevgo/kinbot/pkg/log"
	"github.com/sandevgo/kinbot/pkg/retry"
	"github.com/sandevgo/kinbot/pkg/srv"
)

// app holds the wiring shared by every command.
type app struct {
	cfg        *config.AppConfig
	db         *sql.DB
	companions *sqlite.CompanionsRepo
	messages   *sqlite.MessagesRepo
	memories   *sqlite.MemoriesRepo
	recaps     *sqlite.RecapsRepo
	registry   *prometheus.Registry
	metrics    *metrics.Metrics
	memory     *memory.Memory
	setup      *companion.Service
}

// newApp loads the environment and opens storage. Commands that talk to
// the model call withAI afterwards.
func newApp(ctx context.Context) (*app, error) {
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, fmt.Errorf("failed to init env: %w", err)
	}

	cfg := config.NewAppConfig(ctx)
	if err := os.MkdirAll(cfg.GetRuntimePath(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a := &app{
		cfg:        cfg,
		db:         db,
		companions: sqlite.NewCompanionsRepo(db),
		messages:   sqlite.NewMessagesRepo(db),
		memories:   sqlite.NewMemoriesRepo(db),
		recaps:     sqlite.NewRecapsRepo(db),
		registry:   registry,
		metrics:    metrics.NewMetrics(registry),
	}
	a.memory = memory.NewMemory(a.messages, a.memories)
	a.setup = companion.NewService(a.companions, a.memory)
	return a, nil
}

func (a *app) commands() *command.Router {
	return command.New(command.NewCommands(a.setup))
}

func (a *app) Close() error {
	return a.db.Close()
}

type aiServices struct {
	agent    *agent.Agent
	recapper *recap.Recapper
}

func (a *app) withAI(ctx context.Context) (*aiServices, error) {
	provider, err := llm.NewProvider(ctx, config.NewProviderConfig(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}

	return &aiServices{
		agent:    agent.NewAgent(a.companions, a.messages, a.memory, provider, config.NewEnvPolicy(), a.metrics),
		recapper: recap.NewRecapper(a.companions, a.messages, a.recaps, provider, a.metrics),
	}, nil
}

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// 1. Storage
	a, err := newApp(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize app")
	}
	services = append(services, srv.NewCleanup(a.Close))

	// 2. AI Provider, chat and recap pipelines
	ai, err := a.withAI(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize AI services")
	}

	// 3. Scheduled recap batch
	recapCfg := config.NewRecapConfig(ctx)
	if recapCfg.Enabled {
		job, err := recap.NewJob(ai.recapper, recapCfg.Schedule)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize recap job")
		}
		services = append(services, job)
	}

	// 4. Transports
	transports, err := initTransports(ctx, a, ai)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	return services
}

func initTransports(ctx context.Context, a *app, ai *aiServices) ([]srv.Service, error) {
	var services []srv.Service

	if a.cfg.EnableHTTP {
		httpCfg := config.NewHTTPConfig(ctx)
		httpCfg.ResolveWriteTimeout(config.NewProviderConfig(ctx).Timeout, retry.NewDefaultConfig().MaxRetries+1)
		services = append(services, api.NewServer(httpCfg, ai.agent, a.setup, ai.recapper, a.registry))
	}

	// Telegram Bot
	if a.cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, ai.agent, a.commands())
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
