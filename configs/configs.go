// Package configs provides application configuration loaded from environment variables.
// All configuration is externalized via environment variables for 12-factor app compliance.
package configs

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all application configuration.
// Load it once at startup using AppLoad().
type AppConfig struct {
	// BotToken is the Telegram Bot API token. Required.
	BotToken string

	// DataDir is the directory holding the persisted JSON collections
	// (alerts.json, lang.json, accepted.json, p2p.json).
	DataDir string

	// NewsFeedURLs is a comma-separated list of RSS feeds behind the
	// news button. Empty means the built-in defaults.
	NewsFeedURLs string

	// Checker contains settings for the background alert checker.
	Checker CheckerConfig

	// Dashboard contains settings for the admin web console.
	Dashboard DashboardConfig

	// Coingecko contains CoinGecko API client settings.
	Coingecko CoingeckoConfig

	// NBU contains settings for the National Bank of Ukraine rate client.
	NBU NBUConfig
}

// CheckerConfig holds settings for the alert polling loop.
type CheckerConfig struct {
	// Interval is the fixed sleep between alert check cycles.
	Interval time.Duration

	// StartupDelay is the pause before the first cycle, giving the bot
	// a moment to come up before prices are fetched.
	StartupDelay time.Duration
}

// DashboardConfig holds settings for the admin console.
type DashboardConfig struct {
	// Host and Port the dashboard listens on.
	Host string
	Port string

	// User and Pass are the login credentials.
	User string
	Pass string

	// Secret signs the session cookie.
	Secret string
}

// CoingeckoConfig holds CoinGecko API client settings.
type CoingeckoConfig struct {
	// BaseURL of the CoinGecko v3 API. Overridable for tests.
	BaseURL string

	// RequestsPerSecond caps the request rate against the public API.
	RequestsPerSecond float64
}

// NBUConfig holds NBU statdirectory client settings.
type NBUConfig struct {
	// BaseURL of the NBU exchange endpoint. Overridable for tests.
	BaseURL string
}

// AppLoad loads all application configuration from environment variables.
// It attempts to load a .env file first (for local development).
// Call this once at application startup.
func AppLoad() *AppConfig {
	_ = godotenv.Load() // Ignore error - .env is optional

	return &AppConfig{
		BotToken:     getEnv("BOT_TOKEN", ""),
		DataDir:      getEnv("DATA_DIR", "data"),
		NewsFeedURLs: getEnv("NEWS_FEED_URLS", ""),
		Checker: CheckerConfig{
			Interval:     time.Duration(getEnvInt("CHECK_INTERVAL_SECONDS", 10)) * time.Second,
			StartupDelay: time.Duration(getEnvInt("CHECK_STARTUP_DELAY_SECONDS", 3)) * time.Second,
		},
		Dashboard: DashboardConfig{
			Host:   getEnv("DASHBOARD_HOST", "127.0.0.1"),
			Port:   getEnv("DASHBOARD_PORT", "8080"),
			User:   getEnv("DASHBOARD_USER", "admin"),
			Pass:   getEnv("DASHBOARD_PASS", "password"),
			Secret: getEnv("DASHBOARD_SECRET", "change-me"),
		},
		Coingecko: CoingeckoConfig{
			BaseURL:           getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
			RequestsPerSecond: getEnvFloat("COINGECKO_RPS", 0.5),
		},
		NBU: NBUConfig{
			BaseURL: getEnv("NBU_BASE_URL", "https://bank.gov.ua/NBUStatService/v1/statdirectory/exchange"),
		},
	}
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvFloat returns the environment variable as float64 or a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
