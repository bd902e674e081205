package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"kiarachat/pkg/config"
	"kiarachat/pkg/logger"
	"kiarachat/pkg/store"
)

// Start starts the retention scheduler if enabled: on each cron tick it
// purges turns older than the configured period so the store stays bounded
// to roughly what history reads can ever replay. Returns a cancel func.
func Start(ctx context.Context, cfg config.RetentionConfig, st *store.Store) (context.CancelFunc, error) {
	if !cfg.Enabled {
		logger.Info("retention_disabled")
		return func() {}, nil
	}

	// map empty cron to default daily @02:00
	cronExpr := cfg.Cron
	if cronExpr == "" {
		cronExpr = "0 2 * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("retention_invalid_cron", "cron", cfg.Cron)
		return nil, fmt.Errorf("invalid retention cron expression: %s", cfg.Cron)
	}

	logger.Info("retention_enabled", "cron", cronExpr, "period", cfg.Period.Duration().String(), "dry_run", cfg.DryRun)
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, cfg, st, cronExpr)
	return cancel, nil
}

// runScheduler uses gronx to compute the next tick for the configured cron
// expression and sleeps until that time.
func runScheduler(ctx context.Context, cfg config.RetentionConfig, st *store.Store, cronExpr string) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("retention_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("retention_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
		case <-ctx.Done():
			logger.Info("retention_scheduler_stopping")
			return
		}

		if err := RunOnce(ctx, cfg, st); err != nil {
			logger.Error("retention_run_error", "error", err)
		}
	}
}

// RunOnce performs a single purge pass, deleting in batches until no turn
// older than the period remains.
func RunOnce(ctx context.Context, cfg config.RetentionConfig, st *store.Store) error {
	cutoff := time.Now().UTC().Add(-cfg.Period.Duration()).UnixMilli()
	total := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := st.PurgeOlderThan(cutoff, cfg.BatchSize, cfg.DryRun)
		if err != nil {
			return err
		}
		total += n
		if n == 0 || cfg.DryRun {
			break
		}
	}
	logger.Info("retention_run_complete", "purged", total, "dry_run", cfg.DryRun)
	return nil
}
