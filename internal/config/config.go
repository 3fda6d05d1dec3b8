package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pzaman/portfolio-backend-go/internal/risk"
)

// Config is the application configuration, read from the environment.
type Config struct {
	Port               string
	DBPath             string
	JWTSecret          string
	LogLevel           string
	LogFormat          string // text or json
	GinMode            string
	ProfilePath        string
	ScoringPath        string
	RateLimitPerMinute int
	MaxUploadBytes     int64

	Scoring Scoring
}

// Scoring tunes the risk calculator. It is read from the YAML file at ScoringPath.
type Scoring struct {
	Weights          risk.Weights    `yaml:"weights"`
	Thresholds       risk.Thresholds `yaml:"thresholds"`
	NeutralScore     float64         `yaml:"neutral_score"`
	Cache            bool            `yaml:"cache"`
	RefreshCron      string          `yaml:"refresh_cron"`
	AgeReferenceYear int             `yaml:"age_reference_year"` // 0 = current year
}

// DefaultScoring returns the calculator defaults.
func DefaultScoring() Scoring {
	return Scoring{
		Weights:      risk.DefaultWeights(),
		Thresholds:   risk.DefaultThresholds(),
		NeutralScore: risk.DefaultNeutralScore,
		Cache:        true,
		RefreshCron:  "@every 1h",
	}
}

// ReferenceYear returns the year ages are computed against.
func (s Scoring) ReferenceYear() int {
	if s.AgeReferenceYear > 0 {
		return s.AgeReferenceYear
	}
	return time.Now().Year()
}

// Validate checks weights, thresholds and the neutral score.
func (s Scoring) Validate() error {
	if err := s.Weights.Validate(); err != nil {
		return err
	}
	if err := s.Thresholds.Validate(); err != nil {
		return err
	}
	if s.NeutralScore < 0 || s.NeutralScore > 1 {
		return fmt.Errorf("neutral_score %v outside [0, 1]", s.NeutralScore)
	}
	return nil
}

// Load reads the configuration from the environment and the scoring file.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", ":8080"),
		DBPath:             getEnv("DB_PATH", "./data/portfolio.db"),
		JWTSecret:          getEnv("JWT_SECRET", "change-me-in-production"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		GinMode:            getEnv("GIN_MODE", "release"),
		ProfilePath:        getEnv("PROFILE_PATH", "./data/profile.yaml"),
		ScoringPath:        getEnv("SCORING_CONFIG", "./config/scoring.yaml"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_MB", 200)) << 20,
	}
	if !strings.Contains(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	scoring, err := LoadScoring(cfg.ScoringPath)
	if err != nil {
		return nil, err
	}
	cfg.Scoring = scoring
	return cfg, nil
}

// LoadScoring reads a scoring file over the defaults. A missing file yields the
// defaults.
func LoadScoring(path string) (Scoring, error) {
	s := DefaultScoring()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return Scoring{}, fmt.Errorf("read scoring config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scoring{}, fmt.Errorf("parse scoring config %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Scoring{}, fmt.Errorf("scoring config %s: %w", path, err)
	}
	return s, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
