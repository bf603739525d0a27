package memory

import (
	"context"
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/google/uuid"
)

func (s *Store) CreateSubscriptionType(_ context.Context, st *models.SubscriptionType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.subTypes {
		if existing.ProductID == st.ProductID {
			return store.ErrConflict
		}
	}
	s.stamp(&st.Base)
	s.subTypes[st.ID] = *st
	return nil
}

func (s *Store) ListSubscriptionTypes(_ context.Context) ([]models.SubscriptionType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]models.SubscriptionType, 0, len(s.subTypes))
	for _, st := range s.subTypes {
		types = append(types, st)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].DurationDays < types[j].DurationDays })
	return types, nil
}

func (s *Store) FindSubscriptionTypeByProductID(_ context.Context, productID string) (*models.SubscriptionType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.subTypes {
		if st.ProductID == productID {
			out := st
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) withType(sub models.Subscription) models.Subscription {
	if st, ok := s.subTypes[sub.SubscriptionTypeID]; ok {
		sub.SubscriptionType = &st
	}
	return sub
}

func (s *Store) FindSubscription(_ context.Context, id uuid.UUID) (*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subscriptions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := s.withType(sub)
	return &out, nil
}

func (s *Store) FindLatestByOriginalTransactionID(_ context.Context, originalTransactionID string) (*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Subscription
	for _, sub := range s.subscriptions {
		if sub.OriginalTransactionID != originalTransactionID {
			continue
		}
		if latest == nil || sub.PurchaseDate.After(latest.PurchaseDate) {
			candidate := sub
			latest = &candidate
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}
	return latest, nil
}

func (s *Store) FindLatestByTransactionID(_ context.Context, transactionID string) (*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Subscription
	for _, sub := range s.subscriptions {
		if sub.TransactionID != transactionID && sub.OriginalTransactionID != transactionID {
			continue
		}
		if latest == nil || sub.PurchaseDate.After(latest.PurchaseDate) {
			candidate := sub
			latest = &candidate
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}
	return latest, nil
}

func (s *Store) Activate(_ context.Context, sub *models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.liveUser(sub.UserID)
	if !ok {
		return store.ErrNotFound
	}

	s.stamp(&sub.Base)
	stored := *sub
	stored.SubscriptionType = nil
	s.subscriptions[sub.ID] = stored

	id := sub.ID
	user.CurrentSubscriptionID = &id
	user.UpdatedAt = s.now()
	s.users[user.ID] = user

	seq := 0
	for _, e := range s.history {
		if e.UserID == sub.UserID && e.Sequence > seq {
			seq = e.Sequence
		}
	}
	entry := models.SubscriptionHistoryEntry{UserID: sub.UserID, SubscriptionID: sub.ID, Sequence: seq + 1}
	s.stamp(&entry.Base)
	s.history = append(s.history, entry)
	return nil
}

func (s *Store) MarkInactive(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscriptions[id]
	if !ok {
		return store.ErrNotFound
	}
	sub.IsActive = false
	sub.MarkedExpiredAt = &at
	sub.UpdatedAt = s.now()
	s.subscriptions[id] = sub
	return nil
}

func (s *Store) History(_ context.Context, userID uuid.UUID) ([]models.SubscriptionHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []models.SubscriptionHistoryEntry
	for _, e := range s.history {
		if e.UserID != userID {
			continue
		}
		if sub, ok := s.subscriptions[e.SubscriptionID]; ok {
			e.Subscription = &sub
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Sequence < entries[j].Sequence })
	return entries, nil
}

func (s *Store) ListExpiredCurrent(_ context.Context, now time.Time) ([]models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var subs []models.Subscription
	for _, u := range s.users {
		if u.IsDeleted != 0 || u.CurrentSubscriptionID == nil {
			continue
		}
		sub, ok := s.subscriptions[*u.CurrentSubscriptionID]
		if ok && sub.IsActive && sub.ExpirationDate.Before(now) {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ExpirationDate.Before(subs[j].ExpirationDate) })
	return subs, nil
}
