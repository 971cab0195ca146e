package infra

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"

	defaultMaxUploadBytes = 10 << 20
)

// Config represents application configuration loaded from environment
// variables, optionally layered over a YAML file named by CONFIG_FILE.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	JWTSecret          string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	CORSAllowedOrigins []string
	MaxUploadBytes     int64

	StorageDriver string
	StoragePath   string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string

	JobSearchBaseURL string
	JobSearchAPIKey  string
	JobSearchTimeout time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	RabbitMQURL      string
	RabbitMQExchange string

	TelegramToken  string
	TelegramChatID int64

	GeoIPDBPath string

	AutoApplyDefault int
	AutoApplyMax     int
	WorkerInterval   time.Duration
}

// LoadConfig loads configuration and applies defaults where needed.
// Precedence: environment, then the CONFIG_FILE overlay, then defaults.
func LoadConfig() (*Config, error) {
	src, err := newConfigSource(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppEnv:             src.str("APP_ENV", "development"),
		Port:               src.str("PORT", "8080"),
		DatabaseURL:        src.str("DATABASE_URL", ""),
		JWTSecret:          src.str("JWT_SECRET", ""),
		HTTPReadTimeout:    time.Second * time.Duration(src.int("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(src.int("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:    time.Second * time.Duration(src.int("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		CORSAllowedOrigins: src.list("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		MaxUploadBytes:     int64(src.int("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),

		StorageDriver: strings.ToLower(src.str("STORAGE_DRIVER", StorageDriverLocal)),
		StoragePath:   src.str("STORAGE_PATH", "./uploads"),
		S3Bucket:      src.str("S3_BUCKET", ""),
		S3Region:      src.str("S3_REGION", "auto"),
		S3Endpoint:    src.str("S3_ENDPOINT", ""),
		S3AccessKey:   src.str("S3_ACCESS_KEY", ""),
		S3SecretKey:   src.str("S3_SECRET_KEY", ""),

		JobSearchBaseURL: src.str("JOB_SEARCH_BASE_URL", ""),
		JobSearchAPIKey:  src.str("JOB_SEARCH_API_KEY", ""),
		JobSearchTimeout: time.Second * time.Duration(src.int("JOB_SEARCH_TIMEOUT_SECONDS", 20)),

		SMTPHost:     src.str("SMTP_HOST", ""),
		SMTPPort:     src.int("SMTP_PORT", 587),
		SMTPUsername: src.str("SMTP_USERNAME", ""),
		SMTPPassword: src.str("SMTP_PASSWORD", ""),
		SMTPFrom:     src.str("SMTP_FROM", "noreply@jobpilot.local"),

		RabbitMQURL:      src.str("RABBITMQ_URL", ""),
		RabbitMQExchange: src.str("RABBITMQ_EXCHANGE", "applications"),

		TelegramToken:  src.str("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID: int64(src.int("TELEGRAM_CHAT_ID", 0)),

		GeoIPDBPath: src.str("GEOIP_DB_PATH", ""),

		AutoApplyDefault: src.int("AUTO_APPLY_DEFAULT", 10),
		AutoApplyMax:     src.int("AUTO_APPLY_MAX", 50),
		WorkerInterval:   time.Second * time.Duration(src.int("WORKER_INTERVAL_SECONDS", 3600)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	switch cfg.StorageDriver {
	case StorageDriverLocal:
	case StorageDriverS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.AutoApplyMax <= 0 {
		cfg.AutoApplyMax = 50
	}
	if cfg.AutoApplyDefault <= 0 || cfg.AutoApplyDefault > cfg.AutoApplyMax {
		cfg.AutoApplyDefault = min(10, cfg.AutoApplyMax)
	}

	return cfg, nil
}

// SMTPEnabled reports whether outbound mail should go through SMTP.
func (c *Config) SMTPEnabled() bool {
	return c != nil && c.SMTPHost != ""
}

// configSource resolves keys from the environment and the overlay file.
// Overlay keys are the lowercased variable names, e.g. `smtp_host`.
type configSource struct {
	file map[string]string
}

func newConfigSource(path string) (*configSource, error) {
	src := &configSource{file: map[string]string{}}
	path = strings.TrimSpace(path)
	if path == "" {
		return src, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	for k, v := range raw {
		key := strings.ToLower(strings.TrimSpace(k))
		switch val := v.(type) {
		case nil:
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprint(item))
			}
			src.file[key] = strings.Join(parts, ",")
		default:
			src.file[key] = fmt.Sprint(val)
		}
	}
	return src, nil
}

func (s *configSource) lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v, true
	}
	if v, ok := s.file[strings.ToLower(key)]; ok && v != "" {
		return v, true
	}
	return "", false
}

func (s *configSource) str(key, fallback string) string {
	if v, ok := s.lookup(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func (s *configSource) int(key string, fallback int) int {
	if v, ok := s.lookup(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func (s *configSource) list(key string, fallback []string) []string {
	v, ok := s.lookup(key)
	if !ok {
		return fallback
	}
	seen := map[string]struct{}{}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	sort.Strings(out)
	return out
}
