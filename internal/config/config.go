package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	RedisURL string

	JWTSecret string
	JWTTTL    time.Duration

	StorageDriver    string
	S3Bucket         string
	S3Region         string
	S3AccessKey      string
	S3SecretKey      string
	PresignTTL       time.Duration
	CloudinaryURL    string
	CloudinaryFolder string

	SMTPHost  string
	SMTPPort  int
	EmailUser string
	EmailPass string
	EmailFrom string
	OTPTTL    time.Duration

	GoogleClientID       string
	GoogleClientSecret   string
	GoogleRedirectURL    string
	LinkedInClientID     string
	LinkedInClientSecret string
	LinkedInRedirectURL  string

	MeiliSearchHost string
	MeiliMasterKey  string

	AuthRateLimit int
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "4001"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		StorageDriver:    strings.ToLower(getEnv("STORAGE_DRIVER", "s3")),
		S3Bucket:         os.Getenv("S3_BUCKET"),
		S3Region:         getEnv("S3_REGION", getEnv("AWS_REGION", "us-east-2")),
		S3AccessKey:      os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:      os.Getenv("S3_SECRET_KEY"),
		CloudinaryURL:    os.Getenv("CLOUDINARY_URL"),
		CloudinaryFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "teachers_lounge"),

		SMTPHost:  getEnv("SMTP_HOST", ""),
		EmailUser: os.Getenv("EMAIL_USER"),
		EmailPass: os.Getenv("EMAIL_PASS"),
		EmailFrom: os.Getenv("EMAIL_FROM"),

		GoogleClientID:       os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:   os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:    getEnv("GOOGLE_REDIRECT_URL", "postmessage"),
		LinkedInClientID:     os.Getenv("LINKEDIN_CLIENT_ID"),
		LinkedInClientSecret: os.Getenv("LINKEDIN_CLIENT_SECRET"),
		LinkedInRedirectURL:  os.Getenv("LINKEDIN_REDIRECT_URL"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),
	}

	var err error
	cfg.JWTTTL, err = minutes(getEnv("JWT_TTL_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL_MINUTES: %w", err)
	}
	cfg.PresignTTL, err = parseDuration(getEnv("PRESIGN_TTL", "3600s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRESIGN_TTL: %w", err)
	}
	cfg.OTPTTL, err = parseDuration(getEnv("OTP_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP_TTL: %w", err)
	}
	cfg.SMTPPort, err = strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	cfg.AuthRateLimit, err = strconv.Atoi(getEnv("AUTH_RATE_LIMIT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_RATE_LIMIT: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}

func minutes(s string) (time.Duration, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Minute, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
