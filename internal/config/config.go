package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingSetting = errors.New("missing required setting")

const (
	PoolModePerCall = "per_call"
	PoolModePooled  = "pooled"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Log    LogConfig
	Auth   AuthConfig
	Digest DigestConfig
	SMTP   SMTPConfig
}

type ServerConfig struct {
	Port         string
	CertFile     string
	KeyFile      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// TLSEnabled reports whether both a certificate and a key were configured.
func (s ServerConfig) TLSEnabled() bool {
	return s.CertFile != "" && s.KeyFile != ""
}

type DBConfig struct {
	User            string
	Password        string
	Host            string
	Port            string
	Name            string
	PoolMode        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	DialTimeout     time.Duration
	AutoMigrate     bool
}

type LogConfig struct {
	Level string
	File  string
}

type AuthConfig struct {
	JWTSecret string
}

// Enabled reports whether bearer token auth guards the API.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

type DigestConfig struct {
	Enabled   bool
	Schedule  string
	Recipient string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Email    string
	Password string
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function and validates it.
func FromEnv(getenv func(string) string) (Config, error) {
	r := reader{getenv: getenv}

	cfg := Config{
		Server: ServerConfig{
			Port:         r.str("SERVER_PORT", ":8000"),
			CertFile:     r.str("CERT_FILE", ""),
			KeyFile:      r.str("KEY_FILE", ""),
			ReadTimeout:  r.duration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: r.duration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		DB: DBConfig{
			User:            r.required("DB_USER"),
			Password:        r.str("DB_PASSWORD", ""),
			Host:            r.required("DB_HOST"),
			Port:            r.str("DB_PORT", "3306"),
			Name:            r.required("DB_NAME"),
			PoolMode:        strings.ToLower(r.str("DB_POOL_MODE", PoolModePerCall)),
			MaxOpenConns:    r.integer("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    r.integer("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: r.duration("DB_CONN_MAX_LIFETIME", time.Hour),
			DialTimeout:     r.duration("DB_DIAL_TIMEOUT", 5*time.Second),
			AutoMigrate:     r.boolean("DB_AUTO_MIGRATE", false),
		},
		Log: LogConfig{
			Level: strings.ToLower(r.str("LOG_LEVEL", "info")),
			File:  r.str("LOG_FILE", "server.log"),
		},
		Auth: AuthConfig{
			JWTSecret: r.str("JWT_SECRET", ""),
		},
		Digest: DigestConfig{
			Enabled:   r.boolean("DIGEST_ENABLED", false),
			Schedule:  r.str("DIGEST_SCHEDULE", "0 7 * * 1"),
			Recipient: r.str("DIGEST_RECIPIENT", ""),
		},
		SMTP: SMTPConfig{
			Host:     r.str("SMTP_HOST", ""),
			Port:     r.integer("SMTP_PORT", 587),
			Email:    r.str("SMTP_EMAIL", ""),
			Password: r.str("SMTP_PASS", ""),
		},
	}

	switch cfg.DB.PoolMode {
	case PoolModePerCall, PoolModePooled:
	default:
		r.errs = append(r.errs, fmt.Errorf("DB_POOL_MODE: unknown mode %q", cfg.DB.PoolMode))
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		r.errs = append(r.errs, fmt.Errorf("LOG_LEVEL: unknown level %q", cfg.Log.Level))
	}

	if (cfg.Server.CertFile == "") != (cfg.Server.KeyFile == "") {
		r.errs = append(r.errs, errors.New("CERT_FILE and KEY_FILE must be set together"))
	}

	if err := errors.Join(r.errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type reader struct {
	getenv func(string) string
	errs   []error
}

func (r *reader) str(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *reader) required(key string) string {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, ErrMissingSetting))
	}
	return v
}

func (r *reader) integer(key string, def int) int {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (r *reader) boolean(key string, def bool) bool {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}
