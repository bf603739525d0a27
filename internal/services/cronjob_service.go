package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
)

type CronjobService struct {
	cronjobs store.CronjobStore
}

func NewCronjobService(cronjobs store.CronjobStore) *CronjobService {
	return &CronjobService{cronjobs: cronjobs}
}

func (s *CronjobService) Paginate(ctx context.Context, jobType string, p store.Page) (store.PageResult[models.Cronjob], error) {
	res, err := s.cronjobs.PaginateCronjobs(ctx, jobType, p.Normalize())
	if err != nil {
		return res, apperr.Internalf(err, "failed to list cronjobs")
	}
	return res, nil
}

// Record writes the audit row of one job execution. Failures to write are
// logged only, the job outcome stands.
func (s *CronjobService) Record(ctx context.Context, jobType string, success bool, payload interface{}) {
	recordCronjob(ctx, s.cronjobs, jobType, success, payload)
}

func recordCronjob(ctx context.Context, cronjobs store.CronjobStore, jobType string, success bool, payload interface{}) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	metrics.CronjobRuns.WithLabelValues(jobType, outcome).Inc()

	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte(`{}`)
	}
	if err := cronjobs.CreateCronjob(ctx, &models.Cronjob{
		Type:    jobType,
		Success: success,
		Payload: raw,
	}); err != nil {
		slog.Error("failed to write cronjob record", "type", jobType, "error", err)
	}
}
