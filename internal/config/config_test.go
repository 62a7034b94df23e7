package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_WeightsSumToHundred(t *testing.T) {
	s := DefaultConfig().Scoring
	assert.Equal(t, 100.0, s.SkillWeight+s.AcademicWeight+s.ExperienceWeight+s.LocationWeight)
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PLACEMENT_ELIGIBILITY_THRESHOLD", "55")
	t.Setenv("PLACEMENT_DIVERSITY_BONUS", "12.5")
	t.Setenv("PLACEMENT_MATCH_LIMIT", "3")
	t.Setenv("PLACEMENT_STAGNATION_THRESHOLD", "48h")
	t.Setenv("PLACEMENT_QUEUE_SIZE", "500")
	t.Setenv("PLACEMENT_NOTIFY_QUEUE_SIZE", "16")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 55.0, cfg.Scoring.EligibilityThreshold)
	assert.Equal(t, 12.5, cfg.Scoring.DiversityBonus)
	assert.Equal(t, 3, cfg.MatchLimit)
	assert.Equal(t, 48*time.Hour, cfg.StagnationThreshold)
	assert.Equal(t, 500, cfg.Mirror.QueueSize)
	assert.Equal(t, 16, cfg.Notify.QueueSize, "notify queue is sized independently")
}

func TestLoadConfig_InvalidOverrideIgnored(t *testing.T) {
	t.Setenv("PLACEMENT_MATCH_LIMIT", "not-a-number")
	t.Setenv("PLACEMENT_SKILL_WEIGHT", "-4")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MatchLimit)
	assert.Equal(t, 45.0, cfg.Scoring.SkillWeight)
}

func TestLoadConfig_YAMLFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "placement.yaml")
	doc := `
scoring:
  skill_weight: 60
  eligibility_threshold: 30
match_limit: 5
stagnation_threshold: 72h
mirror:
  enabled: true
  db_path: /tmp/placement.db
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	t.Setenv("PLACEMENT_CONFIG", path)
	t.Setenv("PLACEMENT_MATCH_LIMIT", "8")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 60.0, cfg.Scoring.SkillWeight)
	assert.Equal(t, 25.0, cfg.Scoring.AcademicWeight, "unset keys keep defaults")
	assert.Equal(t, 30.0, cfg.Scoring.EligibilityThreshold)
	assert.Equal(t, 8, cfg.MatchLimit, "env wins over file")
	assert.Equal(t, 72*time.Hour, cfg.StagnationThreshold)
	assert.True(t, cfg.Mirror.Enabled)
	assert.Equal(t, "/tmp/placement.db", cfg.Mirror.DBPath)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Setenv("PLACEMENT_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scoring.EligibilityThreshold = 120
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Mirror.Enabled = true
	assert.Error(t, cfg.Validate(), "mirror needs a db path")
}

func TestValidate_QueueSizes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Notify.QueueSize = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Mirror.QueueSize = 0
	assert.Error(t, cfg.Validate())
}
