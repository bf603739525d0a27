// Package store declares the persistence interfaces used by the services.
// Every read filters out soft-deleted rows; implementations live in the
// postgres and memory subpackages.
package store

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("duplicate record")
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Sort keys accepted by Paginate.
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortName     = "name"
	SortPriority = "priority"
)

type Page struct {
	Page  int
	Limit int
	Sort  string
}

// Normalize clamps page and limit to their allowed ranges.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// OrderBy translates the sort key to an ORDER BY clause. Unknown keys fall
// back to newest first.
func (p Page) OrderBy() string {
	switch p.Sort {
	case SortOldest:
		return "created_at ASC"
	case SortName:
		return "name ASC"
	case SortPriority:
		return "priority DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

type PageResult[T any] struct {
	Items      []T   `json:"data"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

func NewPageResult[T any](items []T, p Page, total int64) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{
		Items:      items,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalCount: total,
		TotalPages: int(math.Ceil(float64(total) / float64(p.Limit))),
	}
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByAppleID(ctx context.Context, appleUserID string) (*models.User, error)
	LinkAppleID(ctx context.Context, id uuid.UUID, appleUserID string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*models.User, error)
	SoftDeleteUser(ctx context.Context, id uuid.UUID) error
	ListStations(ctx context.Context) ([]string, error)
	SetAQIByStation(ctx context.Context, stationID string, aqi int) (int64, error)
}

type RefreshTokenStore interface {
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeUserRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

// ContentStore persists base and informative recommendations and their cards.
type ContentStore interface {
	CreateRecommendation(ctx context.Context, rec *models.Recommendation) error
	FindRecommendation(ctx context.Context, kind string, id uuid.UUID) (*models.Recommendation, error)
	FindRecommendationByName(ctx context.Context, kind, name string) (*models.Recommendation, error)
	ListRecommendations(ctx context.Context, kind string) ([]models.Recommendation, error)
	PaginateRecommendations(ctx context.Context, kind string, p Page) (PageResult[models.Recommendation], error)
	CountRecommendations(ctx context.Context, kind string) (int64, error)
	UpdateRecommendation(ctx context.Context, kind string, id uuid.UUID, update RecommendationUpdate) (*models.Recommendation, error)
	// SoftDeleteRecommendation flags the item and all of its cards in one transaction.
	SoftDeleteRecommendation(ctx context.Context, kind string, id uuid.UUID) error

	// CreateCard appends card to the owner's list.
	CreateCard(ctx context.Context, kind string, ownerID uuid.UUID, card *models.Card) error
	FindCard(ctx context.Context, id uuid.UUID) (*models.Card, error)
	ListCards(ctx context.Context, kind string, ownerID uuid.UUID) ([]models.Card, error)
	UpdateCard(ctx context.Context, id uuid.UUID, update CardUpdate) (*models.Card, error)
	// MoveCard re-parents a card by rewriting its back-reference in one statement.
	MoveCard(ctx context.Context, id uuid.UUID, toKind string, toOwnerID uuid.UUID) (*models.Card, error)
	SoftDeleteCard(ctx context.Context, id uuid.UUID) error
	CountCards(ctx context.Context) (int64, error)
	// CardAt returns the live card at offset in creation order.
	CardAt(ctx context.Context, offset int) (*models.Card, error)
}

type AdvertisementStore interface {
	CreateAdvertisement(ctx context.Context, ad *models.Advertisement) error
	FindAdvertisement(ctx context.Context, id uuid.UUID) (*models.Advertisement, error)
	FindAdvertisementByName(ctx context.Context, name string) (*models.Advertisement, error)
	ListAdvertisements(ctx context.Context) ([]models.Advertisement, error)
	PaginateAdvertisements(ctx context.Context, p Page) (PageResult[models.Advertisement], error)
	UpdateAdvertisement(ctx context.Context, id uuid.UUID, update AdvertisementUpdate) (*models.Advertisement, error)
	SoftDeleteAdvertisement(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	IncrementClicks(ctx context.Context, id uuid.UUID) error
}

type SubscriptionStore interface {
	CreateSubscriptionType(ctx context.Context, st *models.SubscriptionType) error
	ListSubscriptionTypes(ctx context.Context) ([]models.SubscriptionType, error)
	FindSubscriptionTypeByProductID(ctx context.Context, productID string) (*models.SubscriptionType, error)

	FindSubscription(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	FindLatestByOriginalTransactionID(ctx context.Context, originalTransactionID string) (*models.Subscription, error)
	// FindLatestByTransactionID matches transactionID against both the
	// transaction and the original transaction columns.
	FindLatestByTransactionID(ctx context.Context, transactionID string) (*models.Subscription, error)
	// Activate stores sub, points its user at it and appends a history entry,
	// all in one transaction.
	Activate(ctx context.Context, sub *models.Subscription) error
	MarkInactive(ctx context.Context, id uuid.UUID, at time.Time) error
	History(ctx context.Context, userID uuid.UUID) ([]models.SubscriptionHistoryEntry, error)
	// ListExpiredCurrent returns active subscriptions that are some live user's
	// current subscription and expired before now.
	ListExpiredCurrent(ctx context.Context, now time.Time) ([]models.Subscription, error)
}

type CronjobStore interface {
	CreateCronjob(ctx context.Context, job *models.Cronjob) error
	PaginateCronjobs(ctx context.Context, jobType string, p Page) (PageResult[models.Cronjob], error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	MarkNotificationSent(ctx context.Context, id uuid.UUID, at time.Time) error
	PaginateNotifications(ctx context.Context, topic string, p Page) (PageResult[models.Notification], error)
	SoftDeleteNotification(ctx context.Context, id uuid.UUID) error
}

type AirQualityStore interface {
	UpsertReading(ctx context.Context, reading *models.AirQualityReading) error
	LatestReading(ctx context.Context, stationID string) (*models.AirQualityReading, error)
	UpsertPredictions(ctx context.Context, predictions []models.AirQualityPrediction) error
	ListPredictions(ctx context.Context, stationID, fromDay string) ([]models.AirQualityPrediction, error)
}

// RemoteConfigStore keeps the client configuration served at /api/config.
type RemoteConfigStore interface {
	ListRemoteConfig(ctx context.Context) ([]models.RemoteConfig, error)
	// UpsertRemoteConfig creates the key or replaces its value and type.
	UpsertRemoteConfig(ctx context.Context, cfg *models.RemoteConfig) error
	DeleteRemoteConfig(ctx context.Context, key string) error
}

// Store bundles every persistence interface.
type Store interface {
	UserStore
	RefreshTokenStore
	ContentStore
	AdvertisementStore
	SubscriptionStore
	CronjobStore
	NotificationStore
	AirQualityStore
	RemoteConfigStore
}
