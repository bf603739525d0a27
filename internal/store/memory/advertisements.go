package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/google/uuid"
)

func (s *Store) adNameTaken(name string, except uuid.UUID) bool {
	for id, ad := range s.ads {
		if id != except && ad.IsDeleted == 0 && ad.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) liveAd(id uuid.UUID) (models.Advertisement, bool) {
	ad, ok := s.ads[id]
	if !ok || ad.IsDeleted != 0 {
		return models.Advertisement{}, false
	}
	return ad, true
}

func (s *Store) CreateAdvertisement(_ context.Context, ad *models.Advertisement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.adNameTaken(ad.Name, uuid.Nil) {
		return store.ErrConflict
	}
	s.stamp(&ad.Base)
	s.ads[ad.ID] = *ad
	return nil
}

func (s *Store) FindAdvertisement(_ context.Context, id uuid.UUID) (*models.Advertisement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ad, ok := s.liveAd(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &ad, nil
}

func (s *Store) FindAdvertisementByName(_ context.Context, name string) (*models.Advertisement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ad := range s.ads {
		if ad.IsDeleted == 0 && ad.Name == name {
			out := ad
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) liveAds() []models.Advertisement {
	var ads []models.Advertisement
	for _, ad := range s.ads {
		if ad.IsDeleted == 0 {
			ads = append(ads, ad)
		}
	}
	return ads
}

func (s *Store) ListAdvertisements(_ context.Context) ([]models.Advertisement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ads := s.liveAds()
	sort.SliceStable(ads, func(i, j int) bool { return ads[i].CreatedAt.Before(ads[j].CreatedAt) })
	return ads, nil
}

func (s *Store) PaginateAdvertisements(_ context.Context, p store.Page) (store.PageResult[models.Advertisement], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	less := func(a, b models.Advertisement) bool { return byCreated(p.Sort)(a.Base, b.Base) }
	switch p.Sort {
	case store.SortName:
		less = func(a, b models.Advertisement) bool { return strings.Compare(a.Name, b.Name) < 0 }
	case store.SortPriority:
		less = func(a, b models.Advertisement) bool {
			if a.Priority == b.Priority {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.Priority > b.Priority
		}
	}
	return paginate(s.liveAds(), p, less), nil
}

func (s *Store) UpdateAdvertisement(_ context.Context, id uuid.UUID, update store.AdvertisementUpdate) (*models.Advertisement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ad, ok := s.liveAd(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	update.Apply(&ad)
	if s.adNameTaken(ad.Name, id) {
		return nil, store.ErrConflict
	}
	ad.UpdatedAt = s.now()
	s.ads[id] = ad
	return &ad, nil
}

func (s *Store) SoftDeleteAdvertisement(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ad, ok := s.liveAd(id)
	if !ok {
		return store.ErrNotFound
	}
	ad.IsDeleted = 1
	s.ads[id] = ad
	return nil
}

func (s *Store) IncrementViews(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ad, ok := s.liveAd(id)
	if !ok {
		return store.ErrNotFound
	}
	ad.Views++
	s.ads[id] = ad
	return nil
}

func (s *Store) IncrementClicks(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ad, ok := s.liveAd(id)
	if !ok {
		return store.ErrNotFound
	}
	ad.Clicks++
	s.ads[id] = ad
	return nil
}
