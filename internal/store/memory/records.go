package memory

import (
	"context"
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/google/uuid"
)

func (s *Store) CreateCronjob(_ context.Context, job *models.Cronjob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&job.Base)
	s.cronjobs = append(s.cronjobs, *job)
	return nil
}

func (s *Store) PaginateCronjobs(_ context.Context, jobType string, p store.Page) (store.PageResult[models.Cronjob], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var jobs []models.Cronjob
	for _, j := range s.cronjobs {
		if jobType == "" || j.Type == jobType {
			jobs = append(jobs, j)
		}
	}
	return paginate(jobs, p, func(a, b models.Cronjob) bool { return byCreated(p.Sort)(a.Base, b.Base) }), nil
}

func (s *Store) CreateNotification(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&n.Base)
	s.notifications[n.ID] = *n
	return nil
}

func (s *Store) MarkNotificationSent(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok || n.IsDeleted != 0 {
		return store.ErrNotFound
	}
	n.Sent = true
	n.SentAt = &at
	s.notifications[id] = n
	return nil
}

func (s *Store) PaginateNotifications(_ context.Context, topic string, p store.Page) (store.PageResult[models.Notification], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []models.Notification
	for _, n := range s.notifications {
		if n.IsDeleted == 0 && (topic == "" || n.Topic == topic) {
			items = append(items, n)
		}
	}
	return paginate(items, p, func(a, b models.Notification) bool { return byCreated(p.Sort)(a.Base, b.Base) }), nil
}

func (s *Store) SoftDeleteNotification(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok || n.IsDeleted != 0 {
		return store.ErrNotFound
	}
	n.IsDeleted = 1
	s.notifications[id] = n
	return nil
}

func (s *Store) UpsertReading(_ context.Context, reading *models.AirQualityReading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.readings {
		if r.StationID == reading.StationID && r.MeasuredAt.Equal(reading.MeasuredAt) {
			reading.Base = r.Base
			reading.UpdatedAt = s.now()
			s.readings[i] = *reading
			return nil
		}
	}
	s.stamp(&reading.Base)
	s.readings = append(s.readings, *reading)
	return nil
}

func (s *Store) LatestReading(_ context.Context, stationID string) (*models.AirQualityReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.AirQualityReading
	for _, r := range s.readings {
		if r.StationID != stationID {
			continue
		}
		if latest == nil || r.MeasuredAt.After(latest.MeasuredAt) {
			candidate := r
			latest = &candidate
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}
	return latest, nil
}

func (s *Store) UpsertPredictions(_ context.Context, predictions []models.AirQualityPrediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

outer:
	for _, p := range predictions {
		for i, existing := range s.predictions {
			if existing.StationID == p.StationID && existing.Pollutant == p.Pollutant && existing.Day == p.Day {
				p.Base = existing.Base
				p.UpdatedAt = s.now()
				s.predictions[i] = p
				continue outer
			}
		}
		s.stamp(&p.Base)
		s.predictions = append(s.predictions, p)
	}
	return nil
}

func (s *Store) ListPredictions(_ context.Context, stationID, fromDay string) ([]models.AirQualityPrediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.AirQualityPrediction
	for _, p := range s.predictions {
		if p.StationID == stationID && p.Day >= fromDay {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day == out[j].Day {
			return out[i].Pollutant < out[j].Pollutant
		}
		return out[i].Day < out[j].Day
	})
	return out, nil
}

func (s *Store) ListRemoteConfig(_ context.Context) ([]models.RemoteConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.RemoteConfig, 0, len(s.remoteConfig))
	for _, c := range s.remoteConfig {
		items = append(items, c)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	return items, nil
}

func (s *Store) UpsertRemoteConfig(_ context.Context, cfg *models.RemoteConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.remoteConfig[cfg.Key]; ok {
		cfg.Base = existing.Base
		cfg.UpdatedAt = s.now()
	} else {
		s.stamp(&cfg.Base)
	}
	s.remoteConfig[cfg.Key] = *cfg
	return nil
}

func (s *Store) DeleteRemoteConfig(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.remoteConfig[key]; !ok {
		return store.ErrNotFound
	}
	delete(s.remoteConfig, key)
	return nil
}
