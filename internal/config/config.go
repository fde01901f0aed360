package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Payment     PaymentConfig
	Jobs        JobsConfig
	Marketplace MarketplaceConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

type RedisConfig struct {
	URL      string
	Password string
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// PaymentConfig controls QR payment intents.
type PaymentConfig struct {
	QRExpiry       time.Duration
	VerifierAccept bool
}

type JobsConfig struct {
	SweepInterval time.Duration
}

type MarketplaceConfig struct {
	DailyListingLimit int
	RankingMinRatings int
}

var defaults = map[string]interface{}{
	"SERVER_PORT":             "8080",
	"SERVER_ENV":              "development",
	"DB_HOST":                 "localhost",
	"DB_PORT":                 5432,
	"DB_USER":                 "postgres",
	"DB_PASSWORD":             "postgres",
	"DB_NAME":                 "agromarket",
	"DB_SSLMODE":              "disable",
	"DB_AUTO_MIGRATE":         false,
	"REDIS_URL":               "redis://localhost:6379",
	"REDIS_PASSWORD":          "",
	"JWT_SECRET":              "change-this-in-production",
	"JWT_ACCESS_EXPIRY":       15 * time.Minute,
	"JWT_REFRESH_EXPIRY":      7 * 24 * time.Hour,
	"PAYMENT_QR_EXPIRY":       30 * time.Minute,
	"PAYMENT_VERIFIER_ACCEPT": true,
	"EXPIRY_SWEEP_INTERVAL":   30 * time.Second,
	"LISTING_DAILY_LIMIT":     5,
	"RANKING_MIN_RATINGS":     3,
}

// Load reads configuration from the environment. Malformed values fall back
// to their defaults.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	return &Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        getInt(v, "DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			URL:      v.GetString("REDIS_URL"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  getDuration(v, "JWT_ACCESS_EXPIRY"),
			RefreshExpiry: getDuration(v, "JWT_REFRESH_EXPIRY"),
		},
		Payment: PaymentConfig{
			QRExpiry:       getDuration(v, "PAYMENT_QR_EXPIRY"),
			VerifierAccept: getBool(v, "PAYMENT_VERIFIER_ACCEPT"),
		},
		Jobs: JobsConfig{
			SweepInterval: getDuration(v, "EXPIRY_SWEEP_INTERVAL"),
		},
		Marketplace: MarketplaceConfig{
			DailyListingLimit: getInt(v, "LISTING_DAILY_LIMIT"),
			RankingMinRatings: getInt(v, "RANKING_MIN_RATINGS"),
		},
	}
}

// IsProduction reports whether SERVER_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getInt(v *viper.Viper, key string) int {
	if n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key))); err == nil {
		return n
	}
	return defaults[key].(int)
}

func getBool(v *viper.Viper, key string) bool {
	if b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key))); err == nil {
		return b
	}
	return defaults[key].(bool)
}

func getDuration(v *viper.Viper, key string) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key))); err == nil && d > 0 {
		return d
	}
	return defaults[key].(time.Duration)
}
