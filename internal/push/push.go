// Package push delivers topic notifications to mobile devices.
package push

import (
	"context"
	"errors"
	"log/slog"
)

var ErrNoTokens = errors.New("no registration tokens given")

type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Dispatcher manages topic membership and sends topic messages.
type Dispatcher interface {
	SubscribeToTopic(ctx context.Context, tokens []string, topic string) error
	UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) error
	// SendToTopic returns the provider's message id.
	SendToTopic(ctx context.Context, topic string, msg Message) (string, error)
}

// Noop logs instead of delivering. Used when no credentials are configured.
type Noop struct{}

func (Noop) SubscribeToTopic(_ context.Context, tokens []string, topic string) error {
	if len(tokens) == 0 {
		return ErrNoTokens
	}
	slog.Debug("push disabled, topic subscribe skipped", "topic", topic, "tokens", len(tokens))
	return nil
}

func (Noop) UnsubscribeFromTopic(_ context.Context, tokens []string, topic string) error {
	if len(tokens) == 0 {
		return ErrNoTokens
	}
	slog.Debug("push disabled, topic unsubscribe skipped", "topic", topic, "tokens", len(tokens))
	return nil
}

func (Noop) SendToTopic(_ context.Context, topic string, msg Message) (string, error) {
	slog.Info("push disabled, message not sent", "topic", topic, "title", msg.Title)
	return "", nil
}
