// Package memory is an in-memory implementation of the store interfaces. It is
// safe for concurrent use and is intended for tests and local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Store struct {
	mu            sync.RWMutex
	clock         func() time.Time
	last          time.Time
	users         map[uuid.UUID]models.User
	tokens        map[string]models.RefreshToken
	content       map[uuid.UUID]models.Recommendation
	cards         map[uuid.UUID]models.Card
	ads           map[uuid.UUID]models.Advertisement
	subTypes      map[uuid.UUID]models.SubscriptionType
	subscriptions map[uuid.UUID]models.Subscription
	history       []models.SubscriptionHistoryEntry
	cronjobs      []models.Cronjob
	notifications map[uuid.UUID]models.Notification
	readings      []models.AirQualityReading
	predictions   []models.AirQualityPrediction
	remoteConfig  map[string]models.RemoteConfig
}

var _ store.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		clock:         func() time.Time { return time.Now().UTC() },
		users:         make(map[uuid.UUID]models.User),
		tokens:        make(map[string]models.RefreshToken),
		content:       make(map[uuid.UUID]models.Recommendation),
		cards:         make(map[uuid.UUID]models.Card),
		ads:           make(map[uuid.UUID]models.Advertisement),
		subTypes:      make(map[uuid.UUID]models.SubscriptionType),
		subscriptions: make(map[uuid.UUID]models.Subscription),
		notifications: make(map[uuid.UUID]models.Notification),
		remoteConfig:  make(map[string]models.RemoteConfig),
	}
}

// now returns strictly increasing timestamps so creation order is total.
// Callers hold the write lock.
func (s *Store) now() time.Time {
	t := s.clock()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// SetClock replaces the time source used for timestamps.
func (s *Store) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
	s.last = time.Time{}
}

// stamp assigns an id and creation timestamps to b.
func (s *Store) stamp(b *models.Base) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := s.now()
	b.CreatedAt = now
	b.UpdatedAt = now
}

func cloneStrings(in pq.StringArray) pq.StringArray {
	if in == nil {
		return nil
	}
	return append(pq.StringArray{}, in...)
}

func cloneUser(u models.User) models.User {
	u.Diseases = cloneStrings(u.Diseases)
	u.EnergySources = cloneStrings(u.EnergySources)
	u.ChildrenDiseases = cloneStrings(u.ChildrenDiseases)
	if u.CurrentSubscriptionID != nil {
		id := *u.CurrentSubscriptionID
		u.CurrentSubscriptionID = &id
	}
	u.CurrentSubscription = nil
	return u
}

func cloneRecommendation(r models.Recommendation) models.Recommendation {
	r.AgeBrackets = cloneStrings(r.AgeBrackets)
	r.Genders = cloneStrings(r.Genders)
	r.Diseases = cloneStrings(r.Diseases)
	r.EnergySources = cloneStrings(r.EnergySources)
	r.ChildrenDiseases = cloneStrings(r.ChildrenDiseases)
	r.Cards = nil
	return r
}

// paginate sorts a copy of items and slices out one page.
func paginate[T any](items []T, p store.Page, less func(a, b T) bool) store.PageResult[T] {
	p = p.Normalize()
	sorted := append([]T(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })

	total := int64(len(sorted))
	start := p.Offset()
	if start > len(sorted) {
		start = len(sorted)
	}
	end := start + p.Limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return store.NewPageResult(sorted[start:end], p, total)
}

func byCreated(sortKey string) func(a, b models.Base) bool {
	if sortKey == store.SortOldest {
		return func(a, b models.Base) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	return func(a, b models.Base) bool { return a.CreatedAt.After(b.CreatedAt) }
}

// Users ---------------------------------------------------------------------

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.IsDeleted == 0 && strings.EqualFold(existing.Email, user.Email) {
			return store.ErrConflict
		}
	}
	s.stamp(&user.Base)
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.AuthProvider == "" {
		user.AuthProvider = "email"
	}
	s.users[user.ID] = cloneUser(*user)
	return nil
}

func (s *Store) liveUser(id uuid.UUID) (models.User, bool) {
	u, ok := s.users[id]
	if !ok || u.IsDeleted != 0 {
		return models.User{}, false
	}
	return u, true
}

func (s *Store) FindUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.liveUser(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (s *Store) findUser(match func(models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.IsDeleted == 0 && match(u) {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.Email == email })
}

func (s *Store) FindUserByAppleID(_ context.Context, appleUserID string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.AppleUserID != nil && *u.AppleUserID == appleUserID })
}

func (s *Store) LinkAppleID(_ context.Context, id uuid.UUID, appleUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.liveUser(id)
	if !ok {
		return store.ErrNotFound
	}
	u.AppleUserID = &appleUserID
	u.AuthProvider = "apple"
	u.UpdatedAt = s.now()
	s.users[id] = u
	return nil
}

func (s *Store) UpdateProfile(_ context.Context, id uuid.UUID, update store.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.liveUser(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	update.Apply(&u)
	u.UpdatedAt = s.now()
	s.users[id] = u
	out := cloneUser(u)
	return &out, nil
}

func (s *Store) SoftDeleteUser(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.liveUser(id)
	if !ok {
		return store.ErrNotFound
	}
	u.IsDeleted = 1
	s.users[id] = u
	return nil
}

func (s *Store) ListStations(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]struct{}{}
	var stations []string
	for _, u := range s.users {
		if u.IsDeleted != 0 || u.StationID == "" {
			continue
		}
		if _, dup := seen[u.StationID]; !dup {
			seen[u.StationID] = struct{}{}
			stations = append(stations, u.StationID)
		}
	}
	sort.Strings(stations)
	return stations, nil
}

func (s *Store) SetAQIByStation(_ context.Context, stationID string, aqi int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, u := range s.users {
		if u.IsDeleted == 0 && u.StationID == stationID {
			u.CurrentAQI = aqi
			s.users[id] = u
			n++
		}
	}
	return n, nil
}

// Refresh tokens ------------------------------------------------------------

func (s *Store) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tokens[token.TokenHash]; exists {
		return store.ErrConflict
	}
	s.stamp(&token.Base)
	s.tokens[token.TokenHash] = *token
	return nil
}

func (s *Store) FindRefreshToken(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tokens[tokenHash]
	if !ok || t.Revoked {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (s *Store) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tokens[tokenHash]; ok {
		t.Revoked = true
		s.tokens[tokenHash] = t
	}
	return nil
}

func (s *Store) RevokeUserRefreshTokens(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for hash, t := range s.tokens {
		if t.UserID == userID {
			t.Revoked = true
			s.tokens[hash] = t
		}
	}
	return nil
}
