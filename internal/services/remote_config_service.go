package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
)

var (
	ErrConfigKeyNotFound = apperr.New(apperr.NotFound, "config key not found")
	ErrConfigValue       = apperr.New(apperr.BadRequest, "value does not match its type")
)

const (
	configString = "string"
	configBool   = "bool"
	configInt    = "int"
	configJSON   = "json"
)

type RemoteConfigService struct {
	configs store.RemoteConfigStore
}

func NewRemoteConfigService(configs store.RemoteConfigStore) *RemoteConfigService {
	return &RemoteConfigService{configs: configs}
}

// Values returns every key decoded according to its type. Values that no
// longer decode are served as raw strings.
func (s *RemoteConfigService) Values(ctx context.Context) (map[string]interface{}, error) {
	items, err := s.configs.ListRemoteConfig(ctx)
	if err != nil {
		return nil, apperr.Internalf(err, "failed to fetch configuration")
	}

	result := make(map[string]interface{}, len(items))
	for _, item := range items {
		value, err := decodeConfig(item.Type, item.Value)
		if err != nil {
			value = item.Value
		}
		result[item.Key] = value
	}
	return result, nil
}

func (s *RemoteConfigService) Set(ctx context.Context, key string, req *dto.SetConfigRequest) (*models.RemoteConfig, error) {
	if key == "" {
		return nil, apperr.BadRequestf("key is required")
	}
	typ := req.Type
	if typ == "" {
		typ = configString
	}
	if _, err := decodeConfig(typ, req.Value); err != nil {
		return nil, ErrConfigValue.Wrap(err)
	}

	cfg := &models.RemoteConfig{Key: key, Value: req.Value, Type: typ}
	if err := s.configs.UpsertRemoteConfig(ctx, cfg); err != nil {
		return nil, apperr.Internalf(err, "failed to update config")
	}
	return cfg, nil
}

func (s *RemoteConfigService) Delete(ctx context.Context, key string) error {
	err := s.configs.DeleteRemoteConfig(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrConfigKeyNotFound
	case err != nil:
		return apperr.Internalf(err, "failed to delete config")
	}
	return nil
}

// SeedDefaults creates the default keys that are missing. Existing values are
// never overwritten.
func (s *RemoteConfigService) SeedDefaults(ctx context.Context, appName string) error {
	items, err := s.configs.ListRemoteConfig(ctx)
	if err != nil {
		return err
	}
	existing := make(map[string]bool, len(items))
	for _, item := range items {
		existing[item.Key] = true
	}

	defaults := []models.RemoteConfig{
		{Key: "app_name", Value: appName, Type: configString},
		{Key: "default_language", Value: "en", Type: configString},
		{Key: "supported_languages", Value: "en,tr", Type: configString},
		{Key: "maintenance_mode", Value: "false", Type: configBool},
		{Key: "ads_enabled", Value: "true", Type: configBool},
		{Key: "announcement_title", Value: "", Type: configString},
		{Key: "announcement_message", Value: "", Type: configString},
	}
	for i := range defaults {
		if existing[defaults[i].Key] {
			continue
		}
		if err := s.configs.UpsertRemoteConfig(ctx, &defaults[i]); err != nil {
			return err
		}
	}
	return nil
}

func decodeConfig(typ, raw string) (interface{}, error) {
	switch typ {
	case configBool:
		return strconv.ParseBool(raw)
	case configInt:
		return strconv.Atoi(raw)
	case configJSON:
		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return raw, nil
	}
}
