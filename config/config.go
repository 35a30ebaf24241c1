package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	APP_ENV    string
	PORT       string
	DB_DRIVER  string
	DB_URL     string
	JWT_SECRET string
	LOG_LEVEL  string

	APP_URL      string
	API_URL      string
	CORS_ORIGIN  string
	ADMIN_EMAILS []string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	STRIPE_SECRET_KEY     string
	STRIPE_WEBHOOK_SECRET string

	PAYMENTS_HOBBY_PRICE_ID     string
	PAYMENTS_PRO_PRICE_ID       string
	PAYMENTS_CREDITS10_PRICE_ID string

	REDIS_ADDR     string
	REDIS_PASSWORD string

	KAFKA_BROKERS []string
	KAFKA_TOPIC   string

	RESEND_API_KEY string
	MAIL_FROM      string
)

// LoadEnv reads .env (if present), an optional config file and the process
// environment. Environment variables always win over the file.
func LoadEnv(configFile string) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			log.Fatalf("Failed to read config file %s: %v", configFile, err)
		}
	}

	APP_ENV = v.GetString("APP_ENV")
	PORT = v.GetString("PORT")
	DB_DRIVER = v.GetString("DB_DRIVER")
	DB_URL = mustEnv(v, "DB_URL")
	JWT_SECRET = mustEnv(v, "JWT_SECRET")
	LOG_LEVEL = v.GetString("LOG_LEVEL")

	APP_URL = v.GetString("APP_URL")
	API_URL = v.GetString("API_URL")
	CORS_ORIGIN = v.GetString("CORS_ORIGIN")
	ADMIN_EMAILS = splitList(v.GetString("ADMIN_EMAILS"))

	// Google sign-in is optional; the routes answer 503 when unset.
	GOOGLE_CLIENT_ID = v.GetString("GOOGLE_CLIENT_ID")
	GOOGLE_CLIENT_SECRET = v.GetString("GOOGLE_CLIENT_SECRET")
	GOOGLE_REDIRECT_URL = v.GetString("GOOGLE_REDIRECT_URL")
	GOOGLE_FRONTEND_REDIRECT = v.GetString("GOOGLE_FRONTEND_REDIRECT")

	STRIPE_SECRET_KEY = v.GetString("STRIPE_SECRET_KEY")
	STRIPE_WEBHOOK_SECRET = v.GetString("STRIPE_WEBHOOK_SECRET")

	PAYMENTS_HOBBY_PRICE_ID = v.GetString("PAYMENTS_HOBBY_PRICE_ID")
	PAYMENTS_PRO_PRICE_ID = v.GetString("PAYMENTS_PRO_PRICE_ID")
	PAYMENTS_CREDITS10_PRICE_ID = v.GetString("PAYMENTS_CREDITS10_PRICE_ID")

	REDIS_ADDR = v.GetString("REDIS_ADDR")
	REDIS_PASSWORD = v.GetString("REDIS_PASSWORD")

	KAFKA_BROKERS = splitList(v.GetString("KAFKA_BROKERS"))
	KAFKA_TOPIC = v.GetString("KAFKA_TOPIC")

	RESEND_API_KEY = v.GetString("RESEND_API_KEY")
	MAIL_FROM = v.GetString("MAIL_FROM")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_URL", "http://localhost:5173")
	v.SetDefault("API_URL", "http://localhost:8080")
	v.SetDefault("CORS_ORIGIN", "http://localhost:5173")
	v.SetDefault("KAFKA_TOPIC", "saas-events")
	v.SetDefault("MAIL_FROM", "no-reply@localhost")
}

// IsAdminEmail reports whether email is listed in ADMIN_EMAILS.
func IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, e := range ADMIN_EMAILS {
		if strings.ToLower(e) == email {
			return true
		}
	}
	return false
}

func IsDevelopment() bool {
	return APP_ENV == "" || APP_ENV == "development"
}

func mustEnv(v *viper.Viper, key string) string {
	value := v.GetString(key)
	if value == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
