package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// WhatsApp Cloud API
	WhatsAppVerifyToken   string
	WhatsAppAccessToken   string
	WhatsAppPhoneNumberID string
	WhatsAppAPIVersion    string
	BotName               string

	// HubSpot CRM
	HubSpotToken       string
	HubSpotOwnerRef    string
	HubSpotPipelineID  string
	HubSpotDealStageID string

	// Sales owner
	OwnerName           string
	OwnerWhatsApp       string
	OwnerSchedulingLink string

	// Catalog
	CatalogCSVURL   string
	CatalogCacheTTL time.Duration
	TopK            int

	// Sales notifications (SMTP)
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	SalesEmails []string

	// Session store
	UseMemorySessions bool
	SessionTTL        time.Duration
	RedisAddr         string
	RedisPassword     string
	RedisTLS          bool

	// Input validation
	NameMinTokens    int
	RetryMaxAttempts int
	DefaultRegion    string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		WhatsAppVerifyToken:   getEnv("WA_VERIFY_TOKEN", ""),
		WhatsAppAccessToken:   getEnv("WA_ACCESS_TOKEN", ""),
		WhatsAppPhoneNumberID: getEnv("WA_PHONE_NUMBER_ID", ""),
		WhatsAppAPIVersion:    getEnv("WA_API_VERSION", "v23.0"),
		BotName:               getEnv("BOT_NAME", "Luna"),

		HubSpotToken:       getEnv("HUBSPOT_TOKEN", ""),
		HubSpotOwnerRef:    getEnv("HUBSPOT_OWNER_RAY", ""),
		HubSpotPipelineID:  getEnv("HUBSPOT_PIPELINE_ID", ""),
		HubSpotDealStageID: getEnv("HUBSPOT_DEALSTAGE_ID", ""),

		OwnerName:           getEnv("OWNER_GLOBAL_NAME", "Mr. Rey Kanvesky"),
		OwnerWhatsApp:       getEnv("OWNER_GLOBAL_WA", "+1 212 653 0000"),
		OwnerSchedulingLink: getEnv("CAL_RAY", "https://meetings.hubspot.com/ray-kanevsky"),

		CatalogCSVURL:   getEnv("GOOGLE_SHEET_CSV_URL", ""),
		CatalogCacheTTL: getEnvAsDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		TopK:            getEnvAsInt("TOP_K", 3),

		SMTPHost:    getEnv("SMTP_HOST", ""),
		SMTPPort:    getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:    getEnv("SMTP_USER", ""),
		SMTPPass:    getEnv("SMTP_PASS", ""),
		SalesEmails: getEnvAsList("SALES_EMAILS", "michel@two.travel"),

		UseMemorySessions: getEnvAsBool("USE_MEMORY_SESSIONS", false),
		SessionTTL:        getEnvAsDuration("SESSION_TTL", 72*time.Hour),
		RedisAddr:         getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisTLS:          getEnvAsBool("REDIS_TLS", false),

		NameMinTokens:    getEnvAsInt("NAME_MIN_TOKENS", 1),
		RetryMaxAttempts: getEnvAsInt("RETRY_MAX_ATTEMPTS", 1),
		DefaultRegion:    getEnv("DEFAULT_PHONE_REGION", "CO"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, dropping empty items.
func getEnvAsList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
