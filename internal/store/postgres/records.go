package postgres

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

func (s *Store) CreateCronjob(ctx context.Context, job *models.Cronjob) error {
	return translate(s.conn(ctx).Create(job).Error, "create cronjob record")
}

func (s *Store) PaginateCronjobs(ctx context.Context, jobType string, p store.Page) (store.PageResult[models.Cronjob], error) {
	var jobs []models.Cronjob
	q := s.conn(ctx).Model(&models.Cronjob{})
	if jobType != "" {
		q = q.Where("type = ?", jobType)
	}
	res, err := paginate(q, p, &jobs)
	return res, translate(err, "paginate cronjobs")
}

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	return translate(s.conn(ctx).Create(n).Error, "create notification")
}

func (s *Store) MarkNotificationSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := s.conn(ctx).Model(&models.Notification{}).Where("id = ?", id).Updates(map[string]interface{}{
		"sent":    true,
		"sent_at": at,
	})
	if res.Error != nil {
		return translate(res.Error, "mark notification sent")
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) PaginateNotifications(ctx context.Context, topic string, p store.Page) (store.PageResult[models.Notification], error) {
	var items []models.Notification
	q := s.conn(ctx).Model(&models.Notification{})
	if topic != "" {
		q = q.Where("topic = ?", topic)
	}
	res, err := paginate(q, p, &items)
	return res, translate(err, "paginate notifications")
}

func (s *Store) SoftDeleteNotification(ctx context.Context, id uuid.UUID) error {
	res := s.conn(ctx).Delete(&models.Notification{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "delete notification")
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) UpsertReading(ctx context.Context, reading *models.AirQualityReading) error {
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "station_id"}, {Name: "measured_at"}},
		DoUpdates: clause.AssignmentColumns([]string{"aqi", "city", "dominant_pollutant", "updated_at"}),
	}).Create(reading).Error
	return translate(err, "upsert air quality reading")
}

func (s *Store) LatestReading(ctx context.Context, stationID string) (*models.AirQualityReading, error) {
	var reading models.AirQualityReading
	err := s.conn(ctx).Where("station_id = ?", stationID).Order("measured_at DESC").First(&reading).Error
	if err != nil {
		return nil, translate(err, "find air quality reading")
	}
	return &reading, nil
}

func (s *Store) UpsertPredictions(ctx context.Context, predictions []models.AirQualityPrediction) error {
	if len(predictions) == 0 {
		return nil
	}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "station_id"}, {Name: "pollutant"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"avg", "min", "max", "updated_at"}),
	}).Create(&predictions).Error
	return translate(err, "upsert air quality predictions")
}

func (s *Store) ListPredictions(ctx context.Context, stationID, fromDay string) ([]models.AirQualityPrediction, error) {
	var predictions []models.AirQualityPrediction
	err := s.conn(ctx).
		Where("station_id = ? AND day >= ?", stationID, fromDay).
		Order("day ASC, pollutant ASC").
		Find(&predictions).Error
	return predictions, translate(err, "list air quality predictions")
}

func (s *Store) ListRemoteConfig(ctx context.Context) ([]models.RemoteConfig, error) {
	var items []models.RemoteConfig
	err := s.conn(ctx).Order("key ASC").Find(&items).Error
	return items, translate(err, "list remote config")
}

func (s *Store) UpsertRemoteConfig(ctx context.Context, cfg *models.RemoteConfig) error {
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "type", "updated_at"}),
	}).Create(cfg).Error
	return translate(err, "upsert remote config")
}

func (s *Store) DeleteRemoteConfig(ctx context.Context, key string) error {
	res := s.conn(ctx).Where("key = ?", key).Delete(&models.RemoteConfig{})
	if res.Error != nil {
		return translate(res.Error, "delete remote config")
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
