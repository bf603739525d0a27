package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/google/uuid"
)

func (s *Store) nameTaken(kind, name string, except uuid.UUID) bool {
	for id, r := range s.content {
		if id != except && r.IsDeleted == 0 && r.Kind == kind && r.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) liveContent(kind string, id uuid.UUID) (models.Recommendation, bool) {
	r, ok := s.content[id]
	if !ok || r.IsDeleted != 0 || r.Kind != kind {
		return models.Recommendation{}, false
	}
	return r, true
}

// withCards returns a copy of r carrying its live cards in position order.
func (s *Store) withCards(r models.Recommendation) models.Recommendation {
	out := cloneRecommendation(r)
	out.Cards = s.cardsOf(r.Kind, r.ID)
	return out
}

func (s *Store) cardsOf(kind string, ownerID uuid.UUID) []models.Card {
	cards := []models.Card{}
	for _, c := range s.cards {
		if c.IsDeleted == 0 && c.OwnerKind == kind && c.OwnerID == ownerID {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Position < cards[j].Position })
	return cards
}

func (s *Store) CreateRecommendation(_ context.Context, rec *models.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTaken(rec.Kind, rec.Name, uuid.Nil) {
		return store.ErrConflict
	}
	s.stamp(&rec.Base)
	s.content[rec.ID] = cloneRecommendation(*rec)
	return nil
}

func (s *Store) FindRecommendation(_ context.Context, kind string, id uuid.UUID) (*models.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.liveContent(kind, id)
	if !ok {
		return nil, store.ErrNotFound
	}
	out := s.withCards(r)
	return &out, nil
}

func (s *Store) FindRecommendationByName(_ context.Context, kind, name string) (*models.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.content {
		if r.IsDeleted == 0 && r.Kind == kind && r.Name == name {
			out := cloneRecommendation(r)
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) liveOfKind(kind string) []models.Recommendation {
	var out []models.Recommendation
	for _, r := range s.content {
		if r.IsDeleted == 0 && r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) ListRecommendations(_ context.Context, kind string) ([]models.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.liveOfKind(kind)
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].CreatedAt.Before(recs[j].CreatedAt) })
	out := make([]models.Recommendation, len(recs))
	for i, r := range recs {
		out[i] = s.withCards(r)
	}
	return out, nil
}

func (s *Store) PaginateRecommendations(_ context.Context, kind string, p store.Page) (store.PageResult[models.Recommendation], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	less := func(a, b models.Recommendation) bool { return byCreated(p.Sort)(a.Base, b.Base) }
	if p.Sort == store.SortName {
		less = func(a, b models.Recommendation) bool { return strings.Compare(a.Name, b.Name) < 0 }
	}
	res := paginate(s.liveOfKind(kind), p, less)
	for i := range res.Items {
		res.Items[i] = cloneRecommendation(res.Items[i])
	}
	return res, nil
}

func (s *Store) CountRecommendations(_ context.Context, kind string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.liveOfKind(kind))), nil
}

func (s *Store) UpdateRecommendation(_ context.Context, kind string, id uuid.UUID, update store.RecommendationUpdate) (*models.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.liveContent(kind, id)
	if !ok {
		return nil, store.ErrNotFound
	}
	update.Apply(&r)
	if s.nameTaken(kind, r.Name, id) {
		return nil, store.ErrConflict
	}
	r.UpdatedAt = s.now()
	s.content[id] = r
	out := s.withCards(r)
	return &out, nil
}

func (s *Store) SoftDeleteRecommendation(_ context.Context, kind string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.liveContent(kind, id)
	if !ok {
		return store.ErrNotFound
	}
	r.IsDeleted = 1
	s.content[id] = r
	for cid, c := range s.cards {
		if c.OwnerID == id {
			c.IsDeleted = 1
			s.cards[cid] = c
		}
	}
	return nil
}

func (s *Store) nextPosition(ownerID uuid.UUID) int {
	max := 0
	for _, c := range s.cards {
		if c.IsDeleted == 0 && c.OwnerID == ownerID && c.Position > max {
			max = c.Position
		}
	}
	return max + 1
}

func (s *Store) CreateCard(_ context.Context, kind string, ownerID uuid.UUID, card *models.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.liveContent(kind, ownerID); !ok {
		return store.ErrNotFound
	}
	s.stamp(&card.Base)
	card.OwnerKind = kind
	card.OwnerID = ownerID
	card.Position = s.nextPosition(ownerID)
	s.cards[card.ID] = *card
	return nil
}

func (s *Store) liveCard(id uuid.UUID) (models.Card, bool) {
	c, ok := s.cards[id]
	if !ok || c.IsDeleted != 0 {
		return models.Card{}, false
	}
	return c, true
}

func (s *Store) FindCard(_ context.Context, id uuid.UUID) (*models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.liveCard(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListCards(_ context.Context, kind string, ownerID uuid.UUID) ([]models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cardsOf(kind, ownerID), nil
}

func (s *Store) UpdateCard(_ context.Context, id uuid.UUID, update store.CardUpdate) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.liveCard(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	update.Apply(&c)
	c.UpdatedAt = s.now()
	s.cards[id] = c
	return &c, nil
}

func (s *Store) MoveCard(_ context.Context, id uuid.UUID, toKind string, toOwnerID uuid.UUID) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.liveContent(toKind, toOwnerID); !ok {
		return nil, store.ErrNotFound
	}
	c, ok := s.liveCard(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	c.OwnerKind = toKind
	c.OwnerID = toOwnerID
	c.Position = s.nextPosition(toOwnerID)
	c.UpdatedAt = s.now()
	s.cards[id] = c
	return &c, nil
}

func (s *Store) SoftDeleteCard(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.liveCard(id)
	if !ok {
		return store.ErrNotFound
	}
	c.IsDeleted = 1
	s.cards[id] = c
	return nil
}

func (s *Store) liveCards() []models.Card {
	var cards []models.Card
	for _, c := range s.cards {
		if c.IsDeleted == 0 {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].CreatedAt.Equal(cards[j].CreatedAt) {
			return cards[i].ID.String() < cards[j].ID.String()
		}
		return cards[i].CreatedAt.Before(cards[j].CreatedAt)
	})
	return cards
}

func (s *Store) CountCards(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.liveCards())), nil
}

func (s *Store) CardAt(_ context.Context, offset int) (*models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cards := s.liveCards()
	if offset < 0 || offset >= len(cards) {
		return nil, store.ErrNotFound
	}
	c := cards[offset]
	return &c, nil
}
