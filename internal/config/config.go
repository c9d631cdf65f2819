package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/apperr"
	"github.com/joho/godotenv"
)

var (
	ErrMissingVAPIDKeys = apperr.Validation("VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY are required")
	ErrMissingJWTSecret = apperr.Validation("JWT_SECRET is required")
)

// Config is the server configuration read from the environment
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	HTTPAddr string

	LogLevel  string
	LogFormat string

	BoundaryTimezone string
	BoundaryHour     int
	OpenGroupID      string

	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
	PushTTL         time.Duration

	JWTSecret string

	// DiscordToken enables the announcement mirror when set
	DiscordToken string

	ReminderWindowStartHour int
	ReminderWindowEndHour   int
	ReminderInterval        time.Duration
	ReminderSweepEvery      time.Duration
	Milestones              []int

	DrinkRatePerMinute int
	DailyJobHour       int
}

// Load reads a .env file from the working directory, if there is one,
// and then the process environment. Variables already set in the
// environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only
func FromEnv() (*Config, error) {
	p := &parser{}
	cfg := &Config{
		RedisAddr:               getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		RedisDB:                 p.getInt("REDIS_DB", 0),
		HTTPAddr:                getEnv("HTTP_ADDR", ":8080"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "json"),
		BoundaryTimezone:        getEnv("BOUNDARY_TIMEZONE", "Europe/Prague"),
		BoundaryHour:            p.getInt("BOUNDARY_HOUR", 12),
		OpenGroupID:             getEnv("OPEN_GROUP_ID", "open"),
		VAPIDPublicKey:          getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey:         getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:            getEnv("VAPID_SUBJECT", ""),
		PushTTL:                 time.Duration(p.getInt("PUSH_TTL_SECONDS", 86400)) * time.Second,
		JWTSecret:               getEnv("JWT_SECRET", ""),
		DiscordToken:            getEnv("DISCORD_TOKEN", ""),
		ReminderWindowStartHour: p.getInt("REMINDER_WINDOW_START_HOUR", 10),
		ReminderWindowEndHour:   p.getInt("REMINDER_WINDOW_END_HOUR", 22),
		ReminderInterval:        p.getDuration("REMINDER_INTERVAL", 2*time.Hour),
		ReminderSweepEvery:      p.getDuration("REMINDER_SWEEP_EVERY", 15*time.Minute),
		Milestones:              p.getInts("MILESTONES", []int{5, 10, 15, 20, 25, 30}),
		DrinkRatePerMinute:      p.getInt("DRINK_RATE_PER_MINUTE", 30),
		DailyJobHour:            p.getInt("DAILY_JOB_HOUR", 6),
	}
	if p.err != nil {
		return nil, p.err
	}
	return cfg, nil
}

// ValidateServe checks the settings the serve command cannot run without
func (c *Config) ValidateServe() error {
	if c.VAPIDPublicKey == "" || c.VAPIDPrivateKey == "" {
		return ErrMissingVAPIDKeys
	}
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// parser keeps the first conversion error
type parser struct {
	err error
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = apperr.Wrap(apperr.KindValidation, "config", fmt.Errorf("invalid %s %q: %w", key, value, err))
	}
}

func (p *parser) getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value, err)
		return defaultValue
	}
	return n
}

func (p *parser) getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.fail(key, value, err)
		return defaultValue
	}
	return d
}

func (p *parser) getInts(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			p.fail(key, value, err)
			return defaultValue
		}
		out = append(out, n)
	}
	return out
}
