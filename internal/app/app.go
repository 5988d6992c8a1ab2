// Package app wires configuration into a ready-to-serve HTTP handler.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"vinylchat/internal/catalog"
	"vinylchat/internal/config"
	"vinylchat/internal/handlers"
	apphttp "vinylchat/internal/http"
	"vinylchat/internal/llm"
	"vinylchat/internal/metrics"
	"vinylchat/internal/router"
	"vinylchat/internal/service"
	"vinylchat/internal/source"
	"vinylchat/internal/storage"
	"vinylchat/internal/tools"
	"vinylchat/web"
)

const metricsNamespace = "vinylchat"

// App holds the long-lived components shared across requests.
type App struct {
	Config      *config.Config
	Catalog     *catalog.Provider
	Tools       *tools.Registry
	ChatService service.ChatService
	Metrics     *metrics.Collector
	Handler     http.Handler

	db *sql.DB
}

// NewLogger builds the process logger from the configured level and format.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// New builds every component described by cfg. The catalog is not fetched
// until the first request needs it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	fetcher, err := source.New(ctx, source.Options{
		Bucket: cfg.DiscogsBucket,
		Key:    cfg.DiscogsKey,
		File:   cfg.DiscogsFile,
		Region: cfg.AWSRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create collection source: %w", err)
	}
	logger.Info("Collection source configured", "source", fetcher)

	collector := metrics.NewCollector(metricsNamespace)

	provider := catalog.NewProvider(fetcher,
		catalog.WithMaxAttempts(cfg.LoadMaxAttempts),
		catalog.WithLoadObserver(collector),
		catalog.WithLogger(logger),
	)

	registry := tools.NewRegistry(provider, tools.WithCallObserver(collector))

	a := &App{
		Config:  cfg,
		Catalog: provider,
		Tools:   registry,
		Metrics: collector,
	}

	opts := []service.Option{service.WithChatObserver(collector)}

	if cfg.UseLLM {
		client := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)
		opts = append(opts, service.WithToolSelector(llm.NewToolSelector(client, cfg.LLMModelName)))
		logger.Info("LLM tool selection enabled", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	}

	var history handlers.ChatHistory
	if cfg.DBPath != "" {
		db, err := storage.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := storage.Migrate(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		a.db = db
		repo := storage.NewChatLogRepo(db)
		opts = append(opts, service.WithChatLog(repo))
		history = repo
		logger.Info("Chat log enabled", "path", cfg.DBPath)
	}

	a.ChatService = service.NewChatService(router.New(), registry, opts...)

	a.Handler = apphttp.NewRouter(&apphttp.Deps{
		ChatService: a.ChatService,
		Catalog:     provider,
		History:     history,
		Reloader:    provider,
		Metrics:     collector,
		IndexHTML:   web.IndexHTML,
	})

	return a, nil
}

// Close releases the chat log database, if one was opened.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
