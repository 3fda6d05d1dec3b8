package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pzaman/portfolio-backend-go/internal/risk"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SCORING_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, DefaultScoring(), cfg.Scoring)
}

func TestLoadPortWithoutColon(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SCORING_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Port)
}

func TestLoadScoringOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	content := `
thresholds:
  medium: 30
  high: 60
neutral_score: 0.4
cache: false
age_reference_year: 2022
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadScoring(path)
	require.NoError(t, err)
	assert.Equal(t, risk.Thresholds{Medium: 30, High: 60}, s.Thresholds)
	assert.Equal(t, 0.4, s.NeutralScore)
	assert.False(t, s.Cache)
	assert.Equal(t, 2022, s.ReferenceYear())
	assert.Equal(t, risk.DefaultWeights(), s.Weights)
	assert.Equal(t, "@every 1h", s.RefreshCron)
}

func TestLoadScoringRejectsInvalidWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weights:\n  hour: 0.9\n"), 0o644))

	_, err := LoadScoring(path)
	assert.Error(t, err)
}

func TestLoadScoringRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weights: [1, 2"), 0o644))

	_, err := LoadScoring(path)
	assert.Error(t, err)
}
