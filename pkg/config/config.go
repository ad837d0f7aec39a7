// Package config loads and validates application configuration from YAML
// files with environment-variable overrides. It provides typed structs for
// the engine, logging, and metrics subsystems.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/ravikiranms/hybridsearch/pkg/errors"
)

// Config is the top-level application configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// EngineConfig controls the search engine's text pipeline, scoring mix,
// boosts, and caching. It is pass-by-value and immutable after the engine is
// constructed.
type EngineConfig struct {
	CaseSensitive    bool     `yaml:"caseSensitive"`
	NormalizeUnicode bool     `yaml:"normalizeUnicode"`
	RemoveAccents    bool     `yaml:"removeAccents"`
	StopWords        []string `yaml:"stopWords"`
	MinTermLength    int      `yaml:"minTermLength"`

	MaxResults int     `yaml:"maxResults"`
	MinScore   float64 `yaml:"minScore"`

	Weights ScorerWeights `yaml:"weights"`

	EnableTFIDF  bool `yaml:"enableTfidf"`
	EnablePhrase bool `yaml:"enablePhrase"`
	EnableFacets bool `yaml:"enableFacets"`

	BoostTitle          float64 `yaml:"boostTitle"`
	BoostExactMatch     float64 `yaml:"boostExactMatch"`
	BoostPrefixMatch    float64 `yaml:"boostPrefixMatch"`
	BoostSubstringMatch float64 `yaml:"boostSubstringMatch"`
	PhraseBonus         float64 `yaml:"phraseBonus"`

	EnableCache  bool `yaml:"enableCache"`
	CacheMaxSize int  `yaml:"cacheMaxSize"`

	SnippetLength int    `yaml:"snippetLength"`
	HighlightPre  string `yaml:"highlightPre"`
	HighlightPost string `yaml:"highlightPost"`

	// JaroWinklerPrefixScale is the Winkler prefix bonus scale p.
	JaroWinklerPrefixScale float64 `yaml:"jaroWinklerPrefixScale"`

	// MaxFuzzyExpand bounds the output of the run-length decode helper that
	// ships alongside the engine. It is not consulted on the query path.
	MaxFuzzyExpand int `yaml:"maxFuzzyExpand"`
}

// ScorerWeights is the fuzzy scoring mix. The three weights must each lie in
// [0,1]; Validate renormalizes them to sum to 1.
type ScorerWeights struct {
	EditDistance float64 `yaml:"editDistance"`
	JaroWinkler  float64 `yaml:"jaroWinkler"`
	NGram        float64 `yaml:"ngram"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultEngine returns the engine configuration used when the caller
// supplies nothing.
func DefaultEngine() EngineConfig {
	return defaultConfig().Engine
}

func defaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			CaseSensitive:    false,
			NormalizeUnicode: true,
			RemoveAccents:    true,
			MinTermLength:    2,
			MaxResults:       10,
			MinScore:         0,
			Weights: ScorerWeights{
				EditDistance: 0.4,
				JaroWinkler:  0.4,
				NGram:        0.2,
			},
			EnableTFIDF:            true,
			EnablePhrase:           true,
			EnableFacets:           true,
			BoostTitle:             0.5,
			BoostExactMatch:        1.5,
			BoostPrefixMatch:       1.2,
			BoostSubstringMatch:    1.1,
			PhraseBonus:            2.0,
			EnableCache:            true,
			CacheMaxSize:           100,
			SnippetLength:          150,
			HighlightPre:           "<mark>",
			HighlightPost:          "</mark>",
			JaroWinklerPrefixScale: 0.1,
			MaxFuzzyExpand:         10000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
	}
}

// Validate checks the scorer weights and renormalizes them to sum to 1. A
// weight outside [0,1], or a mix that sums to zero, cannot be repaired and
// fails with ErrInvalidConfig.
func (e *EngineConfig) Validate() error {
	weights := []float64{e.Weights.EditDistance, e.Weights.JaroWinkler, e.Weights.NGram}
	sum := 0.0
	for _, w := range weights {
		if w < 0 || w > 1 {
			return apperrors.Newf(apperrors.ErrInvalidConfig,
				"scorer weight %v outside [0,1]", w)
		}
		sum += w
	}
	if sum == 0 {
		return apperrors.New(apperrors.ErrInvalidConfig, "scorer weights sum to zero")
	}
	if sum != 1 {
		e.Weights.EditDistance /= sum
		e.Weights.JaroWinkler /= sum
		e.Weights.NGram /= sum
	}
	if e.MinTermLength < 1 {
		e.MinTermLength = 1
	}
	if e.MaxResults <= 0 {
		e.MaxResults = 10
	}
	if e.CacheMaxSize <= 0 {
		e.EnableCache = false
	}
	if e.SnippetLength <= 0 {
		e.SnippetLength = 150
	}
	if e.JaroWinklerPrefixScale <= 0 {
		e.JaroWinklerPrefixScale = 0.1
	}
	return nil
}

// applyEnvOverrides reads HS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("HS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("HS_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("HS_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
	if v := os.Getenv("HS_ENGINE_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.MaxResults = n
		}
	}
	if v := os.Getenv("HS_ENGINE_CACHE_MAX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.CacheMaxSize = n
		}
	}
	if v := os.Getenv("HS_ENGINE_STOP_WORDS"); v != "" {
		cfg.Engine.StopWords = strings.Split(v, ",")
	}
	if v := os.Getenv("HS_ENGINE_CASE_SENSITIVE"); v != "" {
		cfg.Engine.CaseSensitive = v == "true" || v == "1"
	}
}
