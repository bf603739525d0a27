package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/airquality"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/eligibility"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
)

var (
	ErrNoStation      = apperr.New(apperr.BadRequest, "no air quality station selected")
	ErrNoReading      = apperr.New(apperr.NotFound, "no air quality reading for station")
	ErrStationUnknown = apperr.New(apperr.BadRequest, "unknown air quality station")
)

type AirQualityService struct {
	readings store.AirQualityStore
	users    store.UserStore
	cronjobs store.CronjobStore
	provider airquality.Provider
	stations []string
	timeout  time.Duration
	now      func() time.Time
}

func NewAirQualityService(readings store.AirQualityStore, users store.UserStore, cronjobs store.CronjobStore, provider airquality.Provider, stations []string, timeout time.Duration) *AirQualityService {
	return &AirQualityService{
		readings: readings,
		users:    users,
		cronjobs: cronjobs,
		provider: provider,
		stations: stations,
		timeout:  timeout,
		now:      time.Now,
	}
}

type StationResult struct {
	StationID string `json:"station_id"`
	AQI       int    `json:"aqi,omitempty"`
	Users     int64  `json:"users_updated,omitempty"`
	Days      int    `json:"predictions,omitempty"`
	Error     string `json:"error,omitempty"`
}

// IngestReport is the payload of the ingestion audit records.
type IngestReport struct {
	Stations []StationResult `json:"stations"`
	Failed   int             `json:"failed"`
}

// stationsToPoll merges the configured stations with those users follow.
func (s *AirQualityService) stationsToPoll(ctx context.Context) ([]string, error) {
	followed, err := s.users.ListStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list followed stations: %w", err)
	}
	seen := map[string]struct{}{}
	var out []string
	for _, id := range append(append([]string{}, s.stations...), followed...) {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *AirQualityService) feed(ctx context.Context, stationID string) (*airquality.Feed, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.provider.Feed(ctx, stationID)
}

// IngestCurrent stores the latest reading of every station and copies its AQI
// onto the profiles of users following it.
func (s *AirQualityService) IngestCurrent(ctx context.Context) (*IngestReport, error) {
	return s.ingest(ctx, models.CronjobAirQuality, func(ctx context.Context, feed *airquality.Feed, res *StationResult) error {
		reading := &models.AirQualityReading{
			StationID:         feed.StationID,
			City:              feed.City,
			AQI:               feed.AQI,
			DominantPollutant: feed.DominantPollutant,
			MeasuredAt:        feed.MeasuredAt,
		}
		if err := s.readings.UpsertReading(ctx, reading); err != nil {
			return fmt.Errorf("failed to store reading: %w", err)
		}
		n, err := s.users.SetAQIByStation(ctx, feed.StationID, feed.AQI)
		if err != nil {
			return fmt.Errorf("failed to update user aqi: %w", err)
		}
		res.AQI = feed.AQI
		res.Users = n
		return nil
	})
}

// IngestPredictions stores the daily forecast of every station.
func (s *AirQualityService) IngestPredictions(ctx context.Context) (*IngestReport, error) {
	return s.ingest(ctx, models.CronjobPredictions, func(ctx context.Context, feed *airquality.Feed, res *StationResult) error {
		if len(feed.Forecast) == 0 {
			return nil
		}
		predictions := make([]models.AirQualityPrediction, 0, len(feed.Forecast))
		for _, f := range feed.Forecast {
			predictions = append(predictions, models.AirQualityPrediction{
				StationID: feed.StationID,
				Pollutant: f.Pollutant,
				Day:       f.Day,
				Avg:       f.Avg,
				Min:       f.Min,
				Max:       f.Max,
			})
		}
		if err := s.readings.UpsertPredictions(ctx, predictions); err != nil {
			return fmt.Errorf("failed to store predictions: %w", err)
		}
		res.Days = len(predictions)
		return nil
	})
}

func (s *AirQualityService) ingest(ctx context.Context, jobType string, apply func(context.Context, *airquality.Feed, *StationResult) error) (*IngestReport, error) {
	report := &IngestReport{Stations: []StationResult{}}

	stations, err := s.stationsToPoll(ctx)
	if err != nil {
		recordCronjob(ctx, s.cronjobs, jobType, false, map[string]string{"error": err.Error()})
		return report, err
	}

	for _, id := range stations {
		res := StationResult{StationID: id}
		feed, err := s.feed(ctx, id)
		if err == nil {
			err = apply(ctx, feed, &res)
		}
		if err != nil {
			res.Error = err.Error()
			report.Failed++
			slog.Warn("air quality ingestion failed", "job", jobType, "station_id", id, "error", err)
		}
		report.Stations = append(report.Stations, res)
	}

	recordCronjob(ctx, s.cronjobs, jobType, report.Failed == 0, report)
	slog.Info("air quality ingestion finished", "job", jobType, "stations", len(stations), "failed", report.Failed)
	return report, nil
}

func (s *AirQualityService) stationOf(ctx context.Context, p authctx.Principal) (string, error) {
	user, err := s.users.FindUserByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", apperr.Internalf(err, "failed to load user")
	}
	if user.StationID == "" {
		return "", ErrNoStation
	}
	return user.StationID, nil
}

// Current returns the latest stored reading of the caller's station, fetching
// it from the provider when nothing is stored yet.
func (s *AirQualityService) Current(ctx context.Context, p authctx.Principal) (*dto.AirQualityResponse, error) {
	stationID, err := s.stationOf(ctx, p)
	if err != nil {
		return nil, err
	}

	reading, err := s.readings.LatestReading(ctx, stationID)
	if errors.Is(err, store.ErrNotFound) {
		reading, err = s.fetchReading(ctx, stationID)
	}
	if err != nil {
		return nil, err
	}

	return &dto.AirQualityResponse{
		StationID:         reading.StationID,
		City:              reading.City,
		AQI:               reading.AQI,
		Category:          string(eligibility.CategoryForAQI(reading.AQI)),
		DominantPollutant: reading.DominantPollutant,
		MeasuredAt:        reading.MeasuredAt,
	}, nil
}

func (s *AirQualityService) fetchReading(ctx context.Context, stationID string) (*models.AirQualityReading, error) {
	feed, err := s.feed(ctx, stationID)
	switch {
	case errors.Is(err, airquality.ErrUnknownStation):
		return nil, ErrStationUnknown
	case errors.Is(err, airquality.ErrNoData):
		return nil, ErrNoReading
	case err != nil:
		return nil, apperr.Internalf(err, "failed to fetch air quality")
	}

	reading := &models.AirQualityReading{
		StationID:         stationID,
		City:              feed.City,
		AQI:               feed.AQI,
		DominantPollutant: feed.DominantPollutant,
		MeasuredAt:        feed.MeasuredAt,
	}
	if err := s.readings.UpsertReading(ctx, reading); err != nil {
		slog.Warn("failed to cache air quality reading", "station_id", stationID, "error", err)
	}
	return reading, nil
}

// Predictions lists the forecast of the caller's station from today on.
func (s *AirQualityService) Predictions(ctx context.Context, p authctx.Principal) ([]models.AirQualityPrediction, error) {
	stationID, err := s.stationOf(ctx, p)
	if err != nil {
		return nil, err
	}
	predictions, err := s.readings.ListPredictions(ctx, stationID, s.now().UTC().Format("2006-01-02"))
	if err != nil {
		return nil, apperr.Internalf(err, "failed to list predictions")
	}
	if predictions == nil {
		predictions = []models.AirQualityPrediction{}
	}
	return predictions, nil
}
