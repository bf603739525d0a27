package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/push"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/google/uuid"
)

var (
	ErrNotificationNotFound = apperr.New(apperr.NotFound, "notification not found")
	ErrTopicSubscription    = apperr.New(apperr.BadRequest, "failed to update topic subscription")
)

type NotificationService struct {
	notifications store.NotificationStore
	dispatcher    push.Dispatcher
	timeout       time.Duration
	now           func() time.Time
}

func NewNotificationService(notifications store.NotificationStore, dispatcher push.Dispatcher, timeout time.Duration) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		dispatcher:    dispatcher,
		timeout:       timeout,
		now:           time.Now,
	}
}

func (s *NotificationService) Subscribe(ctx context.Context, req *dto.TopicRequest) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.dispatcher.SubscribeToTopic(ctx, []string{req.Token}, req.Topic); err != nil {
		slog.Warn("topic subscribe failed", "topic", req.Topic, "error", err)
		return ErrTopicSubscription.Wrap(err)
	}
	return nil
}

func (s *NotificationService) Unsubscribe(ctx context.Context, req *dto.TopicRequest) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.dispatcher.UnsubscribeFromTopic(ctx, []string{req.Token}, req.Topic); err != nil {
		slog.Warn("topic unsubscribe failed", "topic", req.Topic, "error", err)
		return ErrTopicSubscription.Wrap(err)
	}
	return nil
}

// Create persists the notification and sends it to its topic. A failed send
// leaves the record with sent=false.
func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) (*models.Notification, error) {
	data := req.Data
	if data == nil {
		data = map[string]string{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, apperr.Internalf(err, "failed to encode notification data")
	}

	n := &models.Notification{
		Title: req.Title,
		Body:  req.Body,
		Topic: req.Topic,
		Data:  raw,
	}
	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		return nil, apperr.Internalf(err, "failed to create notification")
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err = s.dispatcher.SendToTopic(sendCtx, n.Topic, push.Message{Title: n.Title, Body: n.Body, Data: data})
	metrics.PushSends.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		slog.Error("notification send failed", "notification_id", n.ID, "topic", n.Topic, "error", err)
		return n, nil
	}

	at := s.now()
	if err := s.notifications.MarkNotificationSent(ctx, n.ID, at); err != nil {
		slog.Error("failed to mark notification sent", "notification_id", n.ID, "error", err)
		return n, nil
	}
	n.Sent = true
	n.SentAt = &at
	return n, nil
}

func (s *NotificationService) Paginate(ctx context.Context, topic string, p store.Page) (store.PageResult[models.Notification], error) {
	res, err := s.notifications.PaginateNotifications(ctx, topic, p.Normalize())
	if err != nil {
		return res, apperr.Internalf(err, "failed to list notifications")
	}
	return res, nil
}

func (s *NotificationService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.notifications.SoftDeleteNotification(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotificationNotFound
	}
	if err != nil {
		return apperr.Internalf(err, "failed to delete notification")
	}
	return nil
}
