package handlers

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileHandler_Update(t *testing.T) {
	env := newTestEnv(t)
	h := NewProfileHandler(services.NewProfileService(env.store, env.store))
	env.app.Get("/me/profile", env.jwt, h.Get)
	env.app.Put("/me/profile", env.jwt, h.Update)
	token, userID := env.register(t)

	status, body := env.do(t, fiber.MethodPut, "/me/profile", token, map[string]interface{}{"gender": "male", "is_pregnant": true})
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, body.Error)

	status, body = env.do(t, fiber.MethodPut, "/me/profile", token, map[string]interface{}{"age_bracket": "unknown"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "validation", body.Error.Code)

	status, _ = env.do(t, fiber.MethodPut, "/me/profile", token, map[string]interface{}{"gender": "female", "is_pregnant": true})
	require.Equal(t, fiber.StatusOK, status)

	status, body = env.do(t, fiber.MethodGet, "/me/profile", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var profile dto.ProfileResponse
	decodeData(t, body, &profile)
	assert.Equal(t, userID, profile.ID)
	assert.Equal(t, "female", profile.Gender)
	assert.True(t, profile.IsPregnant)
	assert.Equal(t, []string{}, profile.Diseases)
}

func TestRecommendationHandler_AdminLifecycle(t *testing.T) {
	env := newTestEnv(t)
	h := NewRecommendationHandler(services.NewRecommendationService(env.store, env.store, nil))
	env.app.Post("/admin/recommendations/:kind", h.Create)
	env.app.Get("/admin/recommendations/:kind", h.List)
	env.app.Get("/admin/recommendations/:kind/:id", h.Get)
	env.app.Delete("/admin/recommendations/:kind/:id", h.Delete)
	env.app.Post("/admin/recommendations/:kind/:id/cards", h.CreateCard)
	env.app.Get("/recommendations/base", env.jwt, h.EligibleBase)
	token, _ := env.register(t)

	status, body := env.do(t, fiber.MethodPost, "/admin/recommendations/base", "", map[string]interface{}{"name": "Ventilate"})
	require.Equal(t, fiber.StatusCreated, status)
	var rec models.Recommendation
	decodeData(t, body, &rec)
	assert.Equal(t, models.KindBase, rec.Kind)

	status, _ = env.do(t, fiber.MethodPost, "/admin/recommendations/base", "", map[string]interface{}{"name": "Ventilate"})
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = env.do(t, fiber.MethodPost, "/admin/recommendations/seasonal", "", map[string]interface{}{"name": "Ventilate"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = env.do(t, fiber.MethodPost, "/admin/recommendations/base/"+rec.ID.String()+"/cards", "", map[string]string{"title": "Open windows"})
	require.Equal(t, fiber.StatusCreated, status)

	status, body = env.do(t, fiber.MethodGet, "/recommendations/base", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var eligible []models.Recommendation
	decodeData(t, body, &eligible)
	require.Len(t, eligible, 1)
	assert.Equal(t, rec.ID, eligible[0].ID)

	status, body = env.do(t, fiber.MethodGet, "/admin/recommendations/base?limit=5", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var page store.PageResult[models.Recommendation]
	decodeData(t, body, &page)
	assert.Equal(t, int64(1), page.TotalCount)
	assert.Equal(t, 5, page.Limit)

	status, _ = env.do(t, fiber.MethodGet, "/admin/recommendations/base?limit=500", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = env.do(t, fiber.MethodDelete, "/admin/recommendations/base/"+rec.ID.String(), "", nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = env.do(t, fiber.MethodGet, "/admin/recommendations/base/"+rec.ID.String(), "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = env.do(t, fiber.MethodGet, "/admin/recommendations/base/not-a-uuid", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAdvertisementHandler_RandomAndClick(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdvertisementHandler(services.NewAdvertisementService(env.store, nil))
	env.app.Get("/ads/random", h.Random)
	env.app.Post("/ads/:id/click", h.Click)
	env.app.Post("/admin/advertisements", h.Create)

	status, _ := env.do(t, fiber.MethodGet, "/ads/random", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = env.do(t, fiber.MethodPost, "/admin/advertisements", "", map[string]interface{}{"name": "Purifier", "priority": 21})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := env.do(t, fiber.MethodPost, "/admin/advertisements", "", map[string]interface{}{"name": "Purifier", "priority": 3})
	require.Equal(t, fiber.StatusCreated, status)
	var ad models.Advertisement
	decodeData(t, body, &ad)

	status, body = env.do(t, fiber.MethodGet, "/ads/random", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var served models.Advertisement
	decodeData(t, body, &served)
	assert.Equal(t, ad.ID, served.ID)
	assert.Equal(t, int64(1), served.Views)

	status, _ = env.do(t, fiber.MethodPost, "/ads/"+ad.ID.String()+"/click", "", nil)
	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestRemoteConfigHandler(t *testing.T) {
	env := newTestEnv(t)
	h := NewRemoteConfigHandler(services.NewRemoteConfigService(env.store))
	env.app.Get("/config", h.GetConfig)
	env.app.Put("/admin/config/:key", h.SetConfigKey)
	env.app.Delete("/admin/config/:key", h.DeleteConfigKey)

	status, _ := env.do(t, fiber.MethodPut, "/admin/config/maintenance_mode", "", map[string]string{"value": "true", "type": "bool"})
	require.Equal(t, fiber.StatusOK, status)

	status, _ = env.do(t, fiber.MethodPut, "/admin/config/maintenance_mode", "", map[string]string{"value": "true", "type": "yaml"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := env.do(t, fiber.MethodGet, "/config", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"maintenance_mode":true}`, string(body.Data))

	status, _ = env.do(t, fiber.MethodDelete, "/admin/config/maintenance_mode", "", nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = env.do(t, fiber.MethodDelete, "/admin/config/maintenance_mode", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
