package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/fcm/v1"
	"google.golang.org/api/option"
)

const (
	fcmScope   = "https://www.googleapis.com/auth/firebase.messaging"
	iidBaseURL = "https://iid.googleapis.com"
)

type FCMConfig struct {
	ProjectID string
	// CredentialsFile is a service account JSON key.
	CredentialsFile string

	// Overrides for tests; zero values use Google's endpoints.
	HTTPClient  *http.Client
	FCMEndpoint string
	IIDBaseURL  string
}

// FCMDispatcher sends through the FCM HTTP v1 API and manages topics through
// the instance id batch endpoints.
type FCMDispatcher struct {
	svc        *fcm.Service
	httpClient *http.Client
	projectID  string
	iidBaseURL string
}

func NewFCMDispatcher(ctx context.Context, cfg FCMConfig) (*FCMDispatcher, error) {
	client := cfg.HTTPClient
	if client == nil {
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read service account file: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(b, fcmScope)
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
		client = jwtConfig.Client(ctx)
	}

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if cfg.FCMEndpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.FCMEndpoint))
	}
	svc, err := fcm.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create FCM service: %w", err)
	}

	iid := cfg.IIDBaseURL
	if iid == "" {
		iid = iidBaseURL
	}
	return &FCMDispatcher{
		svc:        svc,
		httpClient: client,
		projectID:  cfg.ProjectID,
		iidBaseURL: strings.TrimRight(iid, "/"),
	}, nil
}

func (d *FCMDispatcher) SendToTopic(ctx context.Context, topic string, msg Message) (string, error) {
	req := &fcm.SendMessageRequest{
		Message: &fcm.Message{
			Topic: topic,
			Notification: &fcm.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data: msg.Data,
		},
	}
	sent, err := d.svc.Projects.Messages.Send("projects/"+d.projectID, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send to topic %s: %w", topic, err)
	}
	return sent.Name, nil
}

func (d *FCMDispatcher) SubscribeToTopic(ctx context.Context, tokens []string, topic string) error {
	return d.batch(ctx, "batchAdd", tokens, topic)
}

func (d *FCMDispatcher) UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) error {
	return d.batch(ctx, "batchRemove", tokens, topic)
}

type batchRequest struct {
	To                 string   `json:"to"`
	RegistrationTokens []string `json:"registration_tokens"`
}

type batchResponse struct {
	Results []struct {
		Error string `json:"error,omitempty"`
	} `json:"results"`
}

// TokenError reports the tokens the provider rejected in a batch call.
type TokenError struct {
	Op     string
	Failed map[string]string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("%s rejected %d token(s)", e.Op, len(e.Failed))
}

func (d *FCMDispatcher) batch(ctx context.Context, op string, tokens []string, topic string) error {
	if len(tokens) == 0 {
		return ErrNoTokens
	}

	body, err := json.Marshal(batchRequest{To: "/topics/" + topic, RegistrationTokens: tokens})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.iidBaseURL+"/iid/v1:"+op, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token_auth", "true")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", op, resp.StatusCode)
	}

	var out batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}

	failed := map[string]string{}
	for i, r := range out.Results {
		if r.Error != "" && i < len(tokens) {
			failed[tokens[i]] = r.Error
		}
	}
	if len(failed) > 0 {
		return &TokenError{Op: op, Failed: failed}
	}
	return nil
}
