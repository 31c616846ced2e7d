package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env                string
	Port               string
	DatabaseURL        string
	JWTSecret          string
	JWTExpiresIn       time.Duration
	CorsAllowedOrigins []string
	PublicURL          string
	BodyLimit          int64
	LogLevel           string
	LogFormat          string

	RedisURL          string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	LoginRateLimit    int
	ContactRateLimit  int

	Media MediaConfig
}

type MediaConfig struct {
	Backend       string
	UploadDir     string
	MaxUploadSize int64

	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicURL    string
	S3UsePathStyle bool
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")
	cfg := Config{
		Env:                getEnv("ENV", "development"),
		Port:               port,
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTExpiresIn:       getDuration("JWT_EXPIRES_IN", 7*24*time.Hour),
		CorsAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PublicURL:          strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:"+port), "/"),
		BodyLimit:          getInt64("BODY_LIMIT", 1<<20),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),

		RedisURL:          getEnv("REDIS_URL", ""),
		RateLimitRequests: int(getInt64("RATE_LIMIT_REQUESTS", 100)),
		RateLimitWindow:   getDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		LoginRateLimit:    int(getInt64("LOGIN_RATE_LIMIT", 5)),
		ContactRateLimit:  int(getInt64("CONTACT_RATE_LIMIT", 5)),

		Media: MediaConfig{
			Backend:        strings.ToLower(getEnv("MEDIA_BACKEND", "disk")),
			UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
			MaxUploadSize:  getInt64("MAX_UPLOAD_SIZE", 10<<20),
			S3Bucket:       getEnv("S3_BUCKET", ""),
			S3Region:       getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:     getEnv("S3_ENDPOINT", ""),
			S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
			S3PublicURL:    strings.TrimRight(getEnv("S3_PUBLIC_URL", ""), "/"),
			S3UsePathStyle: getBool("S3_USE_PATH_STYLE", false),
		},
	}
	return cfg
}

// Validate reports the first missing or inconsistent setting.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.Media.Backend {
	case "disk":
	case "s3":
		if c.Media.S3Bucket == "" {
			return errors.New("S3_BUCKET is required when MEDIA_BACKEND=s3")
		}
	default:
		return errors.New("MEDIA_BACKEND must be disk or s3")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getInt64(key string, fallback int64) int64 {
	n, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
