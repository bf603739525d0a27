package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything Setup mounts.
type Handlers struct {
	Auth           *handlers.AuthHandler
	Health         *handlers.HealthHandler
	Profile        *handlers.ProfileHandler
	Recommendation *handlers.RecommendationHandler
	Advertisement  *handlers.AdvertisementHandler
	Subscription   *handlers.SubscriptionHandler
	Notification   *handlers.NotificationHandler
	AirQuality     *handlers.AirQualityHandler
	Cronjob        *handlers.CronjobHandler
	Config         *handlers.RemoteConfigHandler
}

// Setup mounts every route. subs gates the air-quality endpoints on an
// active subscription.
func Setup(app *fiber.App, cfg *config.Config, users store.UserStore, subs middleware.ActiveChecker, h Handlers) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)
	api.Get("/config", h.Config.GetConfig)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/apple", h.Auth.AppleSignIn)

	// Webhooks authenticate with the shared secret in the payload (no JWT)
	api.Post("/webhooks/apple", h.Subscription.AppleNotification)

	// JWT middleware is applied per route so public routes stay public
	jwt := middleware.JWTProtected(cfg)

	api.Post("/auth/logout", jwt, h.Auth.Logout)
	api.Delete("/auth/account", jwt, h.Auth.DeleteAccount)

	api.Get("/me/profile", jwt, h.Profile.Get)
	api.Put("/me/profile", jwt, h.Profile.Update)

	api.Get("/recommendations/base", jwt, h.Recommendation.EligibleBase)
	api.Get("/recommendations/informative", jwt, h.Recommendation.EligibleInformative)
	api.Get("/recommendations/card", jwt, h.Recommendation.RandomCard)

	api.Get("/ads/random", jwt, h.Advertisement.Random)
	api.Post("/ads/:id/click", jwt, h.Advertisement.Click)

	api.Post("/subscriptions/apple", jwt, h.Subscription.CreateApple)
	api.Post("/subscriptions/apple/restore", jwt, h.Subscription.RestoreApple)
	api.Get("/subscriptions/me", jwt, h.Subscription.Me)
	api.Get("/subscriptions/history", jwt, h.Subscription.History)
	api.Get("/subscriptions/types", jwt, h.Subscription.ListTypes)

	api.Post("/notifications/topics/subscribe", jwt, h.Notification.Subscribe)
	api.Post("/notifications/topics/unsubscribe", jwt, h.Notification.Unsubscribe)
	api.Get("/notifications", jwt, h.Notification.List)

	subscribed := middleware.SubscriptionRequired(subs)
	api.Get("/air-quality/current", jwt, subscribed, h.AirQuality.Current)
	api.Get("/air-quality/predictions", jwt, subscribed, h.AirQuality.Predictions)

	admin := api.Group("/admin", middleware.AdminJWT(cfg), middleware.AdminRequired(users, cfg))

	recs := admin.Group("/recommendations/:kind")
	recs.Get("/", h.Recommendation.List)
	recs.Post("/", h.Recommendation.Create)
	recs.Get("/:id", h.Recommendation.Get)
	recs.Put("/:id", h.Recommendation.Update)
	recs.Delete("/:id", h.Recommendation.Delete)
	recs.Get("/:id/cards", h.Recommendation.ListCards)
	recs.Post("/:id/cards", h.Recommendation.CreateCard)

	admin.Put("/cards/:id", h.Recommendation.UpdateCard)
	admin.Post("/cards/:id/move", h.Recommendation.MoveCard)
	admin.Delete("/cards/:id", h.Recommendation.DeleteCard)

	admin.Get("/advertisements", h.Advertisement.List)
	admin.Post("/advertisements", h.Advertisement.Create)
	admin.Get("/advertisements/:id", h.Advertisement.Get)
	admin.Put("/advertisements/:id", h.Advertisement.Update)
	admin.Delete("/advertisements/:id", h.Advertisement.Delete)

	admin.Get("/subscription-types", h.Subscription.ListTypes)
	admin.Post("/subscription-types", h.Subscription.CreateType)
	admin.Post("/subscriptions/revalidate", h.Subscription.Revalidate)

	admin.Get("/notifications", h.Notification.List)
	admin.Post("/notifications", h.Notification.Create)
	admin.Delete("/notifications/:id", h.Notification.Delete)

	admin.Get("/cronjobs", h.Cronjob.List)
	admin.Post("/air-quality/ingest", h.AirQuality.Ingest)

	admin.Put("/config/:key", h.Config.SetConfigKey)
	admin.Delete("/config/:key", h.Config.DeleteConfigKey)
}
