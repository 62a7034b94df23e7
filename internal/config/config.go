package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ScoringConfig holds the named matching weights. Sub-scores are scaled by
// their weight so the default weights sum to 100 before the diversity bonus.
type ScoringConfig struct {
	SkillWeight          float64 `yaml:"skill_weight"`
	AcademicWeight       float64 `yaml:"academic_weight"`
	ExperienceWeight     float64 `yaml:"experience_weight"`
	LocationWeight       float64 `yaml:"location_weight"`
	DiversityBonus       float64 `yaml:"diversity_bonus"`
	EligibilityThreshold float64 `yaml:"eligibility_threshold"`
}

type MirrorConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DBPath       string `yaml:"db_path"`
	QueueSize    int    `yaml:"queue_size"`
	QueueWorkers int    `yaml:"queue_workers"`
}

type NotifyConfig struct {
	RedisAddr    string `yaml:"redis_addr"`
	RedisChannel string `yaml:"redis_channel"`
	QueueSize    int    `yaml:"queue_size"`
}

type Config struct {
	Scoring             ScoringConfig `yaml:"scoring"`
	MatchLimit          int           `yaml:"match_limit"`
	StagnationThreshold time.Duration `yaml:"stagnation_threshold"`
	Mirror              MirrorConfig  `yaml:"mirror"`
	Notify              NotifyConfig  `yaml:"notify"`
	LogLevel            string        `yaml:"log_level"`
	LogFormat           string        `yaml:"log_format"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
// Mirror and notification outlets are disabled by default.
func DefaultConfig() Config {
	return Config{
		Scoring: ScoringConfig{
			SkillWeight:          45,
			AcademicWeight:       25,
			ExperienceWeight:     15,
			LocationWeight:       15,
			DiversityBonus:       10,
			EligibilityThreshold: 40,
		},
		MatchLimit:          10,
		StagnationThreshold: 7 * 24 * time.Hour,
		Mirror: MirrorConfig{
			Enabled:      false,
			DBPath:       "",
			QueueSize:    256,
			QueueWorkers: 1,
		},
		Notify: NotifyConfig{
			RedisChannel: "placement:notifications",
			QueueSize:    64,
		},
		LogLevel:  "info",
		LogFormat: "auto",
	}
}

// LoadConfig reads .env (if present), then the YAML file named by
// PLACEMENT_CONFIG (if set), then individual PLACEMENT_* environment
// variables, each layer overriding the previous one.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg := DefaultConfig()

	if path := os.Getenv("PLACEMENT_CONFIG"); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML document at path onto cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	envFloat("PLACEMENT_SKILL_WEIGHT", &cfg.Scoring.SkillWeight)
	envFloat("PLACEMENT_ACADEMIC_WEIGHT", &cfg.Scoring.AcademicWeight)
	envFloat("PLACEMENT_EXPERIENCE_WEIGHT", &cfg.Scoring.ExperienceWeight)
	envFloat("PLACEMENT_LOCATION_WEIGHT", &cfg.Scoring.LocationWeight)
	envFloat("PLACEMENT_DIVERSITY_BONUS", &cfg.Scoring.DiversityBonus)
	envFloat("PLACEMENT_ELIGIBILITY_THRESHOLD", &cfg.Scoring.EligibilityThreshold)

	if v := os.Getenv("PLACEMENT_MATCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MatchLimit = n
		}
	}
	if v := os.Getenv("PLACEMENT_STAGNATION_THRESHOLD"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.StagnationThreshold = d
		}
	}

	if v := os.Getenv("PLACEMENT_MIRROR_ENABLED"); v != "" {
		cfg.Mirror.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("PLACEMENT_DB"); v != "" {
		cfg.Mirror.DBPath = v
	}
	if v := os.Getenv("PLACEMENT_QUEUE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Mirror.QueueSize = n
		}
	}
	if v := os.Getenv("PLACEMENT_QUEUE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Mirror.QueueWorkers = n
		}
	}

	if v := os.Getenv("PLACEMENT_REDIS_ADDR"); v != "" {
		cfg.Notify.RedisAddr = v
	}
	if v := os.Getenv("PLACEMENT_REDIS_CHANNEL"); v != "" {
		cfg.Notify.RedisChannel = v
	}
	if v := os.Getenv("PLACEMENT_NOTIFY_QUEUE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Notify.QueueSize = n
		}
	}

	if v := os.Getenv("PLACEMENT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PLACEMENT_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

func envFloat(name string, dst *float64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
		*dst = f
	}
}

// Validate rejects weights that would break the [0,100] score contract.
func (c Config) Validate() error {
	s := c.Scoring
	for name, w := range map[string]float64{
		"skill_weight":      s.SkillWeight,
		"academic_weight":   s.AcademicWeight,
		"experience_weight": s.ExperienceWeight,
		"location_weight":   s.LocationWeight,
		"diversity_bonus":   s.DiversityBonus,
	} {
		if w < 0 {
			return fmt.Errorf("scoring.%s must not be negative (got %v)", name, w)
		}
	}
	if s.EligibilityThreshold < 0 || s.EligibilityThreshold > 100 {
		return fmt.Errorf("scoring.eligibility_threshold must be within 0..100 (got %v)", s.EligibilityThreshold)
	}
	if c.MatchLimit <= 0 {
		return fmt.Errorf("match_limit must be positive (got %d)", c.MatchLimit)
	}
	if c.Mirror.QueueSize <= 0 || c.Notify.QueueSize <= 0 {
		return fmt.Errorf("queue sizes must be positive (mirror %d, notify %d)", c.Mirror.QueueSize, c.Notify.QueueSize)
	}
	if c.Mirror.Enabled && c.Mirror.DBPath == "" {
		return fmt.Errorf("mirror.db_path is required when the mirror is enabled")
	}
	return nil
}
