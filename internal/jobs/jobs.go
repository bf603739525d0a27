package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/services"
	"gorm.io/gorm"
)

// AirQuality ingests the current reading of every station.
func AirQuality(spec string, aq *services.AirQualityService) Job {
	return Job{
		Name:    models.CronjobAirQuality,
		Spec:    spec,
		Timeout: 10 * time.Minute,
		Run: func(ctx context.Context) error {
			_, err := aq.IngestCurrent(ctx)
			return err
		},
	}
}

// Predictions ingests the daily forecast of every station.
func Predictions(spec string, aq *services.AirQualityService) Job {
	return Job{
		Name:    models.CronjobPredictions,
		Spec:    spec,
		Timeout: 10 * time.Minute,
		Run: func(ctx context.Context) error {
			_, err := aq.IngestPredictions(ctx)
			return err
		},
	}
}

// Revalidation re-checks expired subscriptions with the App Store.
func Revalidation(spec string, subs *services.SubscriptionService) Job {
	return Job{
		Name:    models.CronjobRevalidation,
		Spec:    spec,
		Timeout: 30 * time.Minute,
		Run: func(ctx context.Context) error {
			_, err := subs.Revalidate(ctx)
			return err
		},
	}
}

// LogCleanup deletes system logs older than retention.
func LogCleanup(spec string, db *gorm.DB, retention time.Duration, cronjobs *services.CronjobService) Job {
	return Job{
		Name:    models.CronjobLogCleanup,
		Spec:    spec,
		Timeout: 5 * time.Minute,
		Run: func(ctx context.Context) error {
			deleted, err := logging.PurgeSystemLogs(ctx, db, time.Now().Add(-retention))
			payload := map[string]interface{}{"deleted": deleted, "retention": retention.String()}
			if err != nil {
				payload["error"] = err.Error()
			} else if deleted > 0 {
				slog.Info("log cleanup completed", "deleted", deleted)
			}
			cronjobs.Record(ctx, models.CronjobLogCleanup, err == nil, payload)
			return err
		},
	}
}

// Standard returns the production job set.
func Standard(cfg *config.Config, db *gorm.DB, aq *services.AirQualityService, subs *services.SubscriptionService, cronjobs *services.CronjobService) []Job {
	return []Job{
		AirQuality(cfg.CronAirQuality, aq),
		Predictions(cfg.CronPredictions, aq),
		Revalidation(cfg.CronRevalidate, subs),
		LogCleanup(cfg.CronLogCleanup, db, cfg.LogRetention, cronjobs),
	}
}
