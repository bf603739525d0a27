package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/selector"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/google/uuid"
)

var (
	ErrAdvertisementNotFound = apperr.New(apperr.NotFound, "advertisement not found")
	ErrAdvertisementName     = apperr.New(apperr.Conflict, "advertisement name already in use")
	ErrNoAdvertisements      = apperr.New(apperr.NotFound, "no advertisements available")
)

type AdvertisementService struct {
	ads store.AdvertisementStore
	rng selector.Rand
}

func NewAdvertisementService(ads store.AdvertisementStore, rng selector.Rand) *AdvertisementService {
	if rng == nil {
		rng = selector.Default()
	}
	return &AdvertisementService{ads: ads, rng: rng}
}

func adPriority(ad models.Advertisement) int {
	return ad.Priority
}

// Random picks a live advertisement weighted by priority and counts a view.
func (s *AdvertisementService) Random(ctx context.Context) (*models.Advertisement, error) {
	ads, err := s.ads.ListAdvertisements(ctx)
	if err != nil {
		return nil, apperr.Internalf(err, "failed to list advertisements")
	}

	ad, ok := selector.Pick(ads, adPriority, s.rng)
	if !ok {
		return nil, ErrNoAdvertisements
	}

	if err := s.ads.IncrementViews(ctx, ad.ID); err != nil {
		// the ad is still served; the view is lost
		slog.Warn("failed to count advertisement view", "ad_id", ad.ID, "error", err)
	} else {
		ad.Views++
		metrics.AdViews.Inc()
	}
	return &ad, nil
}

func (s *AdvertisementService) Click(ctx context.Context, id uuid.UUID) error {
	err := s.ads.IncrementClicks(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrAdvertisementNotFound
	}
	if err != nil {
		return apperr.Internalf(err, "failed to record click")
	}
	metrics.AdClicks.Inc()
	return nil
}

func (s *AdvertisementService) Create(ctx context.Context, req *dto.CreateAdvertisementRequest) (*models.Advertisement, error) {
	ad := &models.Advertisement{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		WebLink:     req.WebLink,
		IOSLink:     req.IOSLink,
		AndroidLink: req.AndroidLink,
		Priority:    req.Priority,
	}
	if ad.Priority < models.MinAdPriority || ad.Priority > models.MaxAdPriority {
		return nil, apperr.BadRequestf("priority must be between %d and %d", models.MinAdPriority, models.MaxAdPriority)
	}

	if err := s.ads.CreateAdvertisement(ctx, ad); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrAdvertisementName
		}
		return nil, apperr.Internalf(err, "failed to create advertisement")
	}
	return ad, nil
}

func (s *AdvertisementService) Get(ctx context.Context, id uuid.UUID) (*models.Advertisement, error) {
	ad, err := s.ads.FindAdvertisement(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAdvertisementNotFound
	}
	if err != nil {
		return nil, apperr.Internalf(err, "failed to load advertisement")
	}
	return ad, nil
}

func (s *AdvertisementService) Paginate(ctx context.Context, p store.Page) (store.PageResult[models.Advertisement], error) {
	res, err := s.ads.PaginateAdvertisements(ctx, p.Normalize())
	if err != nil {
		return res, apperr.Internalf(err, "failed to list advertisements")
	}
	return res, nil
}

func (s *AdvertisementService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateAdvertisementRequest) (*models.Advertisement, error) {
	if req.Priority != nil && (*req.Priority < models.MinAdPriority || *req.Priority > models.MaxAdPriority) {
		return nil, apperr.BadRequestf("priority must be between %d and %d", models.MinAdPriority, models.MaxAdPriority)
	}

	ad, err := s.ads.UpdateAdvertisement(ctx, id, store.AdvertisementUpdate{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		WebLink:     req.WebLink,
		IOSLink:     req.IOSLink,
		AndroidLink: req.AndroidLink,
		Priority:    req.Priority,
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrAdvertisementNotFound
	case errors.Is(err, store.ErrConflict):
		return nil, ErrAdvertisementName
	case err != nil:
		return nil, apperr.Internalf(err, "failed to update advertisement")
	}
	return ad, nil
}

func (s *AdvertisementService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.ads.SoftDeleteAdvertisement(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrAdvertisementNotFound
	}
	if err != nil {
		return apperr.Internalf(err, "failed to delete advertisement")
	}
	return nil
}
