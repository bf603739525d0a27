package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/receipt"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/google/uuid"
)

// Subscription states as seen by a user.
const (
	StateNone    = "NONE"
	StateActive  = "ACTIVE"
	StateExpired = "EXPIRED"
	StateLapsed  = "LAPSED"
)

const restoreFallbackDuration = 365 * 24 * time.Hour

var (
	ErrAlreadySubscribed     = apperr.New(apperr.Conflict, "already subscribed")
	ErrReceiptVerification   = apperr.New(apperr.BadRequest, "failed to verify receipt")
	ErrSubscriptionType      = apperr.New(apperr.NotFound, "subscription type not found")
	ErrSubscriptionTypeTaken = apperr.New(apperr.Conflict, "subscription type already exists for product")
	ErrNotificationAuth      = apperr.New(apperr.Unauthorized, "invalid notification password")
	ErrNotificationEmpty     = apperr.New(apperr.BadRequest, "notification carries no transactions")
)

type SubscriptionService struct {
	subs          store.SubscriptionStore
	users         store.UserStore
	cronjobs      store.CronjobStore
	verifier      receipt.Verifier
	timeout       time.Duration
	restoreVerify bool
	sharedSecret  string
	now           func() time.Time

	// serializes Revalidate runs; live requests are not blocked
	revalidateMu sync.Mutex
}

func NewSubscriptionService(subs store.SubscriptionStore, users store.UserStore, cronjobs store.CronjobStore, verifier receipt.Verifier, cfg *config.Config) *SubscriptionService {
	return &SubscriptionService{
		subs:          subs,
		users:         users,
		cronjobs:      cronjobs,
		verifier:      verifier,
		timeout:       cfg.ReceiptTimeout,
		restoreVerify: cfg.AppleRestoreVerify,
		sharedSecret:  cfg.AppleSharedSecret,
		now:           time.Now,
	}
}

func subscriptionState(sub *models.Subscription, now time.Time) string {
	switch {
	case sub == nil:
		return StateNone
	case !sub.IsActive:
		return StateLapsed
	case !now.Before(sub.ExpirationDate):
		return StateExpired
	default:
		return StateActive
	}
}

func (s *SubscriptionService) current(ctx context.Context, userID uuid.UUID) (*models.User, *models.Subscription, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, apperr.Internalf(err, "failed to load user")
	}
	if user.CurrentSubscriptionID == nil {
		return user, nil, nil
	}
	sub, err := s.subs.FindSubscription(ctx, *user.CurrentSubscriptionID)
	if errors.Is(err, store.ErrNotFound) {
		return user, nil, nil
	}
	if err != nil {
		return nil, nil, apperr.Internalf(err, "failed to load subscription")
	}
	return user, sub, nil
}

func (s *SubscriptionService) verify(ctx context.Context, receiptData, productID string) (*receipt.Result, error) {
	res, err := receipt.VerifyWithTimeout(ctx, s.verifier, receipt.Request{Receipt: receiptData, ProductID: productID}, s.timeout)
	if err == nil && res == nil {
		return nil, errors.New("verifier returned no result")
	}
	return res, err
}

func (s *SubscriptionService) typeFor(ctx context.Context, productID string) (*models.SubscriptionType, error) {
	st, err := s.subs.FindSubscriptionTypeByProductID(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSubscriptionType
	}
	if err != nil {
		return nil, apperr.Internalf(err, "failed to load subscription type")
	}
	return st, nil
}

func newSubscription(userID uuid.UUID, st *models.SubscriptionType, tx receipt.Transaction, receiptData string) *models.Subscription {
	expiration := tx.ExpirationDate
	if expiration.IsZero() {
		expiration = tx.PurchaseDate.AddDate(0, 0, st.DurationDays)
	}
	return &models.Subscription{
		UserID:                userID,
		SubscriptionTypeID:    st.ID,
		Platform:              models.PlatformApple,
		ProductID:             tx.ProductID,
		TransactionID:         tx.TransactionID,
		OriginalTransactionID: tx.OriginalTransactionID,
		Receipt:               receiptData,
		PurchaseDate:          tx.PurchaseDate,
		ExpirationDate:        expiration,
		IsActive:              true,
		SubscriptionType:      st,
	}
}

// CreateApple verifies an App Store receipt and makes the resulting
// subscription the user's current one.
func (s *SubscriptionService) CreateApple(ctx context.Context, userID uuid.UUID, req *dto.AppleSubscriptionRequest) (*models.Subscription, error) {
	_, current, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if subscriptionState(current, s.now()) == StateActive && current.ProductID == req.ProductID {
		return nil, ErrAlreadySubscribed
	}

	res, err := s.verify(ctx, req.Receipt, req.ProductID)
	if err != nil {
		slog.Warn("receipt verification failed", "user_id", userID, "product_id", req.ProductID, "error", err)
		return nil, ErrReceiptVerification.Wrap(err)
	}

	tx := res.Transaction
	if req.TransactionID != "" {
		if found, ok := res.Find(req.TransactionID); ok {
			tx = found
		} else {
			slog.Warn("transaction not in verified receipt, using latest",
				"user_id", userID, "transaction_id", req.TransactionID, "latest_transaction_id", tx.TransactionID)
		}
	}

	st, err := s.typeFor(ctx, tx.ProductID)
	if err != nil {
		return nil, err
	}

	stored := res.LatestReceipt
	if stored == "" {
		stored = req.Receipt
	}
	sub := newSubscription(userID, st, tx, stored)
	if err := s.subs.Activate(ctx, sub); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internalf(err, "failed to activate subscription")
	}

	slog.Info("subscription activated", "user_id", userID, "subscription_id", sub.ID, "product_id", sub.ProductID, "expires", sub.ExpirationDate)
	return sub, nil
}

// RestoreApple re-establishes a subscription from a transaction id. Unless
// restore verification is enabled, the receipt is not checked and the
// subscription runs for one year.
func (s *SubscriptionService) RestoreApple(ctx context.Context, userID uuid.UUID, req *dto.AppleRestoreRequest) (*models.Subscription, error) {
	_, current, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current != nil && current.IsActive && current.TransactionID == req.TransactionID {
		return current, nil
	}

	if s.restoreVerify && req.Receipt != "" {
		return s.CreateApple(ctx, userID, &dto.AppleSubscriptionRequest{
			Receipt:       req.Receipt,
			ProductID:     req.ProductID,
			TransactionID: req.TransactionID,
		})
	}

	st, err := s.typeFor(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	tx := receipt.Transaction{
		ProductID:             req.ProductID,
		TransactionID:         req.TransactionID,
		OriginalTransactionID: req.TransactionID,
		PurchaseDate:          now,
		ExpirationDate:        now.Add(restoreFallbackDuration),
	}
	stored := req.Receipt
	prior, err := s.subs.FindLatestByTransactionID(ctx, req.TransactionID)
	switch {
	case err == nil:
		if prior.OriginalTransactionID != "" {
			tx.OriginalTransactionID = prior.OriginalTransactionID
		}
		if stored == "" {
			stored = prior.Receipt
		}
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperr.Internalf(err, "failed to look up restored transaction")
	}

	sub := newSubscription(userID, st, tx, stored)
	if err := s.subs.Activate(ctx, sub); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internalf(err, "failed to restore subscription")
	}

	slog.Info("subscription restored", "user_id", userID, "subscription_id", sub.ID, "transaction_id", req.TransactionID)
	return sub, nil
}

func (s *SubscriptionService) Me(ctx context.Context, userID uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	_, current, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	state := subscriptionState(current, s.now())
	return &dto.SubscriptionStatusResponse{
		State:        state,
		IsActive:     state == StateActive,
		Subscription: current,
	}, nil
}

// IsActive reports whether the user currently holds an active subscription.
func (s *SubscriptionService) IsActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, current, err := s.current(ctx, userID)
	if err != nil {
		return false, err
	}
	return subscriptionState(current, s.now()) == StateActive, nil
}

func (s *SubscriptionService) History(ctx context.Context, userID uuid.UUID) ([]models.SubscriptionHistoryEntry, error) {
	entries, err := s.subs.History(ctx, userID)
	if err != nil {
		return nil, apperr.Internalf(err, "failed to load subscription history")
	}
	if entries == nil {
		entries = []models.SubscriptionHistoryEntry{}
	}
	return entries, nil
}

type RevalidationFailure struct {
	UserID         uuid.UUID `json:"user_id"`
	SubscriptionID uuid.UUID `json:"subscription_id"`
	Error          string    `json:"error"`
}

// RevalidationReport is the payload of the revalidation audit record.
type RevalidationReport struct {
	Checked  int                   `json:"checked"`
	Renewed  int                   `json:"renewed"`
	Lapsed   int                   `json:"lapsed"`
	Failed   int                   `json:"failed"`
	Failures []RevalidationFailure `json:"failures,omitempty"`
}

// Revalidate re-checks every expired current subscription with the store.
// A renewal appends a new subscription; anything else marks the subscription
// inactive. One Cronjob record is written per call.
func (s *SubscriptionService) Revalidate(ctx context.Context) (*RevalidationReport, error) {
	s.revalidateMu.Lock()
	defer s.revalidateMu.Unlock()

	report := &RevalidationReport{}
	now := s.now()

	expired, err := s.subs.ListExpiredCurrent(ctx, now)
	if err != nil {
		s.audit(ctx, report, fmt.Errorf("failed to list expired subscriptions: %w", err))
		return report, fmt.Errorf("failed to list expired subscriptions: %w", err)
	}

	for i := range expired {
		sub := expired[i]
		report.Checked++

		result, err := s.revalidateOne(ctx, &sub, now)
		metrics.SubscriptionsRevalidated.WithLabelValues(result).Inc()
		switch result {
		case "renewed":
			report.Renewed++
		case "lapsed":
			report.Lapsed++
		default:
			report.Failed++
			report.Failures = append(report.Failures, RevalidationFailure{
				UserID:         sub.UserID,
				SubscriptionID: sub.ID,
				Error:          err.Error(),
			})
			slog.Error("subscription revalidation failed", "user_id", sub.UserID, "subscription_id", sub.ID, "error", err)
		}
	}

	s.audit(ctx, report, nil)
	slog.Info("subscription revalidation finished", "checked", report.Checked, "renewed", report.Renewed, "lapsed", report.Lapsed, "failed", report.Failed)
	return report, nil
}

// revalidateOne never panics; a panic becomes a "failed" result.
func (s *SubscriptionService) revalidateOne(ctx context.Context, sub *models.Subscription, now time.Time) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = "failed"
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if sub.Receipt == "" {
		if err := s.subs.MarkInactive(ctx, sub.ID, now); err != nil {
			return "failed", err
		}
		return "lapsed", nil
	}

	res, err := s.verify(ctx, sub.Receipt, sub.ProductID)
	if err != nil && !errors.Is(err, receipt.ErrInvalidReceipt) {
		// transient; retried on the next run
		return "failed", err
	}

	if err == nil {
		if latest, ok := res.LatestFor(sub.OriginalTransactionID); ok &&
			latest.TransactionID != sub.TransactionID &&
			!latest.PurchaseDate.Before(sub.ExpirationDate) {
			if err := s.renew(ctx, sub, latest, res.LatestReceipt); err != nil {
				return "failed", err
			}
			return "renewed", nil
		}
	}

	if err := s.subs.MarkInactive(ctx, sub.ID, now); err != nil {
		return "failed", err
	}
	return "lapsed", nil
}

func (s *SubscriptionService) renew(ctx context.Context, prev *models.Subscription, tx receipt.Transaction, latestReceipt string) error {
	productID := tx.ProductID
	if productID == "" {
		productID = prev.ProductID
		tx.ProductID = productID
	}
	st, err := s.typeFor(ctx, productID)
	if err != nil {
		return err
	}
	if latestReceipt == "" {
		latestReceipt = prev.Receipt
	}

	next := newSubscription(prev.UserID, st, tx, latestReceipt)
	if err := s.subs.Activate(ctx, next); err != nil {
		return fmt.Errorf("failed to activate renewal: %w", err)
	}
	slog.Info("subscription renewed", "user_id", prev.UserID, "previous_id", prev.ID, "subscription_id", next.ID, "expires", next.ExpirationDate)
	return nil
}

func (s *SubscriptionService) audit(ctx context.Context, report *RevalidationReport, runErr error) {
	payload := map[string]interface{}{"report": report}
	if runErr != nil {
		payload["error"] = runErr.Error()
	}
	recordCronjob(ctx, s.cronjobs, models.CronjobRevalidation, runErr == nil && report.Failed == 0, payload)
}

// HandleAppleNotification applies an App Store server notification to the
// subscription sharing its original transaction id.
func (s *SubscriptionService) HandleAppleNotification(ctx context.Context, n *receipt.Notification) error {
	if s.sharedSecret == "" || subtle.ConstantTimeCompare([]byte(n.Password), []byte(s.sharedSecret)) != 1 {
		return ErrNotificationAuth
	}

	latest, ok := n.Latest()
	if !ok {
		return ErrNotificationEmpty
	}

	sub, err := s.subs.FindLatestByOriginalTransactionID(ctx, latest.OriginalTransactionID)
	if errors.Is(err, store.ErrNotFound) {
		slog.Warn("apple notification for unknown subscription", "type", n.Type, "original_transaction_id", latest.OriginalTransactionID)
		return nil
	}
	if err != nil {
		return apperr.Internalf(err, "failed to load subscription")
	}

	switch {
	case n.IsRenewal():
		if latest.TransactionID == sub.TransactionID {
			return nil
		}
		if latest.ProductID == "" {
			latest.ProductID = n.ProductID
		}
		if err := s.renew(ctx, sub, latest, n.LatestReceipt); err != nil {
			return apperr.Internalf(err, "failed to apply renewal")
		}
	case n.IsTermination():
		if !sub.IsActive {
			return nil
		}
		if err := s.subs.MarkInactive(ctx, sub.ID, s.now()); err != nil {
			return apperr.Internalf(err, "failed to mark subscription inactive")
		}
		slog.Info("subscription terminated by notification", "type", n.Type, "subscription_id", sub.ID, "user_id", sub.UserID)
	default:
		slog.Debug("apple notification ignored", "type", n.Type)
	}
	return nil
}

func (s *SubscriptionService) ListTypes(ctx context.Context) ([]models.SubscriptionType, error) {
	types, err := s.subs.ListSubscriptionTypes(ctx)
	if err != nil {
		return nil, apperr.Internalf(err, "failed to list subscription types")
	}
	return types, nil
}

func (s *SubscriptionService) CreateType(ctx context.Context, req *dto.CreateSubscriptionTypeRequest) (*models.SubscriptionType, error) {
	st := &models.SubscriptionType{
		Name:         req.Name,
		ProductID:    req.ProductID,
		DurationDays: req.DurationDays,
		DisplayPrice: req.DisplayPrice,
	}
	if err := s.subs.CreateSubscriptionType(ctx, st); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrSubscriptionTypeTaken
		}
		return nil, apperr.Internalf(err, "failed to create subscription type")
	}
	return st, nil
}
