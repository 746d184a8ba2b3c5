package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	RedisURL            string
	ResendAPIKey        string // RESEND_API_KEY for transactional emails
	MailFrom            string // MAIL_FROM sender address (default notification@agence-skdigital.fr)
	DirectionEmail      string // mailbox for commission-due reminders
	CronSecret          string // shared secret for the /api/cron endpoints
	HealthAdminKey      string // key for /health/reset
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	AutoMigrate         bool // dev convenience; production schema lives in Supabase
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}

	return &Config{
		Env:                 env,
		Port:                port,
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		ResendAPIKey:        viper.GetString("RESEND_API_KEY"),
		MailFrom:            mailFrom(viper.GetString("MAIL_FROM")),
		DirectionEmail:      viper.GetString("DIRECTION_EMAIL"),
		CronSecret:          viper.GetString("CRON_SECRET"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		AutoMigrate:         strings.EqualFold(viper.GetString("AUTO_MIGRATE"), "true"),
	}, nil
}

func mailFrom(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "notification@agence-skdigital.fr"
	}
	return s
}
