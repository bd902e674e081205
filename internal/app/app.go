package app

import (
	"context"
	"net/http"
	"os"
	"time"

	"kiarachat/internal/retention"
	"kiarachat/pkg/chat"
	"kiarachat/pkg/completion"
	"kiarachat/pkg/config"
	"kiarachat/pkg/logger"
	"kiarachat/pkg/store"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	store     *store.Store
	svc       *chat.Service
	hasAPIKey bool

	retentionStop context.CancelFunc
	srv           *http.Server
}

// New initializes resources that do not require a running context: the
// conversation store, legacy migration, the completion client and the chat
// service. A store that fails to open does not abort startup; the server
// runs degraded and chat sends still answer without persistence. Call Run
// to start the HTTP server and block until shutdown.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	st := store.New(eff.DBPath)
	if err := st.Open(); err != nil {
		logger.Warn("store_open_failed", "path", eff.DBPath, "error", err)
	} else if n, err := st.MigrateLegacy(); err != nil {
		logger.Error("legacy_migration_failed", "error", err)
	} else if n > 0 {
		logger.Info("legacy_migration_complete", "turns", n)
	}

	oa := eff.Config.OpenAI
	apiKey := oa.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		logger.Warn("openai_api_key_missing")
	}
	completer := completion.New(apiKey, oa.Model, completion.SamplingParams{
		Temperature:      oa.Temperature,
		MaxTokens:        oa.MaxTokens,
		PresencePenalty:  oa.PresencePenalty,
		FrequencyPenalty: oa.FrequencyPenalty,
	})

	window := chat.HistoryWindow{
		Span:  eff.Config.Chat.HistoryWindow.Duration(),
		Limit: eff.Config.Chat.HistoryLimit,
	}
	svc := chat.NewService(completer, st, window)

	a := &App{
		eff: eff, version: version, commit: commit, buildDate: buildDate,
		store: st, svc: svc, hasAPIKey: apiKey != "",
	}
	return a, nil
}

// Run starts the retention scheduler and the HTTP server, and blocks until
// ctx is canceled or a fatal server error occurs. Shutdown drains in-flight
// requests before the store is closed.
func (a *App) Run(ctx context.Context) error {
	a.printBanner()

	stop, err := retention.Start(ctx, a.eff.Config.Retention, a.store)
	if err != nil {
		if cerr := a.store.Close(); cerr != nil {
			logger.Warn("store_close_error", "error", cerr)
		}
		return err
	}
	a.retentionStop = stop

	errCh := a.startHTTP(ctx)

	select {
	case <-ctx.Done():
		a.shutdown()
		return nil
	case err := <-errCh:
		a.shutdown()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// shutdown stops the retention scheduler, drains the HTTP server and closes
// the store, in that order.
func (a *App) shutdown() {
	if a.retentionStop != nil {
		a.retentionStop()
	}
	if a.srv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(sctx); err != nil {
			logger.Warn("http_shutdown_error", "error", err)
		}
	}
	if err := a.store.Close(); err != nil {
		logger.Warn("store_close_error", "error", err)
	}
	logger.Info("server_stopped")
}
