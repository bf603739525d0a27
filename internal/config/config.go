package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/subosito/gotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Admin
	AdminEmails  string
	AdminUserIDs string
	AdminToken   string

	// Server
	Port        string
	CORSOrigins string
	AppEnv      string
	AppName     string

	// Apple
	AppleBundleID      string
	AppleSharedSecret  string
	AppleRestoreVerify bool
	ReceiptTimeout     time.Duration

	// Push (FCM)
	FCMProjectID       string
	FCMCredentialsFile string
	PushTimeout        time.Duration

	// Air quality provider (WAQI)
	WAQIToken         string
	WAQIBaseURL       string
	AQStations        []string
	AirQualityTimeout time.Duration

	// Scheduled jobs
	CronTimezone    string
	CronAirQuality  string
	CronRevalidate  string
	CronPredictions string
	CronLogCleanup  string
	LogRetention    time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory, when present, seeds variables that are not already set.
func Load() *Config {
	_ = gotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "airwell_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		AdminEmails:  getEnv("ADMIN_EMAILS", ""),
		AdminUserIDs: getEnv("ADMIN_USER_IDS", ""),
		AdminToken:   getEnv("ADMIN_TOKEN", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		AppEnv:      getEnv("APP_ENV", "production"),
		AppName:     getEnv("APP_NAME", "Airwell"),

		AppleBundleID:      getEnv("APPLE_BUNDLE_ID", ""),
		AppleSharedSecret:  getEnv("APPLE_SHARED_SECRET", ""),
		AppleRestoreVerify: parseBool(getEnv("APPLE_RESTORE_VERIFY", "false")),
		ReceiptTimeout:     parseDuration(getEnv("RECEIPT_TIMEOUT", "15s"), 15*time.Second),

		FCMProjectID:       getEnv("FCM_PROJECT_ID", ""),
		FCMCredentialsFile: getEnv("FCM_CREDENTIALS_FILE", ""),
		PushTimeout:        parseDuration(getEnv("PUSH_TIMEOUT", "10s"), 10*time.Second),

		WAQIToken:         getEnv("WAQI_TOKEN", ""),
		WAQIBaseURL:       getEnv("WAQI_BASE_URL", "https://api.waqi.info"),
		AQStations:        parseCSV(getEnv("AQ_STATIONS", "")),
		AirQualityTimeout: parseDuration(getEnv("AIRQUALITY_TIMEOUT", "20s"), 20*time.Second),

		CronTimezone:    getEnv("CRON_TIMEZONE", "UTC"),
		CronAirQuality:  getEnv("CRON_AIRQUALITY", "0 * * * *"),
		CronRevalidate:  getEnv("CRON_REVALIDATE", "0 20 * * *"),
		CronPredictions: getEnv("CRON_PREDICTIONS", "0 0 * * *"),
		CronLogCleanup:  getEnv("CRON_LOG_CLEANUP", "30 3 * * *"),
		LogRetention:    parseDuration(getEnv("LOG_RETENTION", "720h"), 30*24*time.Hour),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// PushEnabled reports whether FCM credentials are configured.
func (c *Config) PushEnabled() bool {
	return c.FCMProjectID != "" && c.FCMCredentialsFile != ""
}

func (c *Config) AdminEmailList() []string {
	return parseCSV(c.AdminEmails)
}

func (c *Config) AdminUserIDList() []string {
	return parseCSV(c.AdminUserIDs)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
