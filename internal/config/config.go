package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lcalzada-xor/wguard/internal/core/services/change"
	"github.com/lcalzada-xor/wguard/internal/core/services/threat"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "WGUARD_"

// Config holds all application configuration.
type Config struct {
	DataDir      string  `yaml:"data_dir"`
	StorePath    string  `yaml:"store_path"`
	MaxRecords   int     `yaml:"max_records"`
	OUICachePath string  `yaml:"oui_cache_path"`
	DBPath       string  `yaml:"db_path"`
	Latitude     float64 `yaml:"latitude"`
	Longitude    float64 `yaml:"longitude"`
	Debug        bool    `yaml:"debug"`
	Trace        bool    `yaml:"trace"`
	MetricsFile  string  `yaml:"metrics_file"`

	Threat ThreatSettings `yaml:"threat"`
	Change ChangeSettings `yaml:"change"`
}

// ThreatSettings mirrors the threat analyzer thresholds.
type ThreatSettings struct {
	SuspiciousKeywords   []string      `yaml:"suspicious_keywords"`
	RecencyWindow        time.Duration `yaml:"recency_window"`
	DeauthThreshold      int           `yaml:"deauth_threshold"`
	NearCloneMaxOctets   int           `yaml:"near_clone_max_octets"`
	MultiSSIDThreshold   int           `yaml:"multi_ssid_threshold"`
	BeaconFloodThreshold int           `yaml:"beacon_flood_threshold"`
	StrongSignalDBM      int           `yaml:"strong_signal_dbm"`
}

// ChangeSettings mirrors the change analyzer thresholds.
type ChangeSettings struct {
	SignalDeltaDBM          int     `yaml:"signal_delta_dbm"`
	FollowingDistanceMeters float64 `yaml:"following_distance_m"`
	MinScore                int     `yaml:"min_score"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	tc := threat.DefaultConfig()
	cc := change.DefaultConfig()
	return &Config{
		DataDir:    defaultDataDir(),
		MaxRecords: 50,
		Threat: ThreatSettings{
			SuspiciousKeywords:   tc.SuspiciousKeywords,
			RecencyWindow:        tc.RecencyWindow,
			DeauthThreshold:      tc.DeauthThreshold,
			NearCloneMaxOctets:   tc.NearCloneMaxOctets,
			MultiSSIDThreshold:   tc.MultiSSIDThreshold,
			BeaconFloodThreshold: tc.BeaconFloodThreshold,
			StrongSignalDBM:      tc.StrongSignalDBM,
		},
		Change: ChangeSettings{
			SignalDeltaDBM:          cc.SignalDeltaDBM,
			FollowingDistanceMeters: cc.FollowingDistanceMeters,
			MinScore:                cc.MinScore,
		},
	}
}

// Load builds the configuration from defaults, then environment variables, then the
// optional YAML file at path. Command-line flags are applied by the caller afterwards.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.applyEnv(os.LookupEnv)

	if path == "" {
		path = getEnv(os.LookupEnv, EnvPrefix+"CONFIG", "")
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) {
	c.DataDir = getEnv(lookup, EnvPrefix+"DATA_DIR", c.DataDir)
	c.StorePath = getEnv(lookup, EnvPrefix+"STORE", c.StorePath)
	c.MaxRecords = getEnvInt(lookup, EnvPrefix+"MAX_RECORDS", c.MaxRecords)
	c.OUICachePath = getEnv(lookup, EnvPrefix+"OUI_CACHE", c.OUICachePath)
	c.DBPath = getEnv(lookup, EnvPrefix+"DB", c.DBPath)
	c.Latitude = getEnvFloat(lookup, EnvPrefix+"LAT", c.Latitude)
	c.Longitude = getEnvFloat(lookup, EnvPrefix+"LNG", c.Longitude)
	c.Debug = getEnvBool(lookup, EnvPrefix+"DEBUG", c.Debug)
	c.Trace = getEnvBool(lookup, EnvPrefix+"TRACE", c.Trace)
	c.MetricsFile = getEnv(lookup, EnvPrefix+"METRICS_FILE", c.MetricsFile)

	if v, ok := lookup(EnvPrefix + "SUSPICIOUS_KEYWORDS"); ok {
		c.Threat.SuspiciousKeywords = parseList(v)
	}
	c.Threat.RecencyWindow = getEnvDuration(lookup, EnvPrefix+"RECENCY_WINDOW", c.Threat.RecencyWindow)
	c.Threat.DeauthThreshold = getEnvInt(lookup, EnvPrefix+"DEAUTH_THRESHOLD", c.Threat.DeauthThreshold)
	c.Threat.NearCloneMaxOctets = getEnvInt(lookup, EnvPrefix+"NEAR_CLONE_OCTETS", c.Threat.NearCloneMaxOctets)
	c.Threat.MultiSSIDThreshold = getEnvInt(lookup, EnvPrefix+"MULTI_SSID_THRESHOLD", c.Threat.MultiSSIDThreshold)
	c.Threat.BeaconFloodThreshold = getEnvInt(lookup, EnvPrefix+"BEACON_FLOOD_THRESHOLD", c.Threat.BeaconFloodThreshold)
	c.Threat.StrongSignalDBM = getEnvInt(lookup, EnvPrefix+"STRONG_SIGNAL_DBM", c.Threat.StrongSignalDBM)
	c.Change.SignalDeltaDBM = getEnvInt(lookup, EnvPrefix+"SIGNAL_DELTA_DBM", c.Change.SignalDeltaDBM)
	c.Change.FollowingDistanceMeters = getEnvFloat(lookup, EnvPrefix+"FOLLOWING_DISTANCE_M", c.Change.FollowingDistanceMeters)
	c.Change.MinScore = getEnvInt(lookup, EnvPrefix+"MIN_SCORE", c.Change.MinScore)
}

// mergeFile overlays the keys present in a YAML file. A missing file is an error
// because the path was given explicitly.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Resolve fills file locations that were left empty with paths under DataDir
// and creates DataDir.
func (c *Config) Resolve() error {
	if c.DataDir == "" {
		c.DataDir = "."
	}
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if c.StorePath == "" {
		c.StorePath = filepath.Join(c.DataDir, "scans.json")
	}
	if c.OUICachePath == "" {
		c.OUICachePath = filepath.Join(c.DataDir, "oui_cache.txt")
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "wguard.db")
	}
	return nil
}

// ThreatConfig converts the settings for the threat analyzer.
func (c *Config) ThreatConfig() threat.Config {
	return threat.Config{
		SuspiciousKeywords:   c.Threat.SuspiciousKeywords,
		RecencyWindow:        c.Threat.RecencyWindow,
		StrongSignalDBM:      c.Threat.StrongSignalDBM,
		MultiSSIDThreshold:   c.Threat.MultiSSIDThreshold,
		BeaconFloodThreshold: c.Threat.BeaconFloodThreshold,
		NearCloneMaxOctets:   c.Threat.NearCloneMaxOctets,
		DeauthThreshold:      c.Threat.DeauthThreshold,
	}
}

// ChangeConfig converts the settings for the change analyzer.
func (c *Config) ChangeConfig() change.Config {
	return change.Config{
		SignalDeltaDBM:          c.Change.SignalDeltaDBM,
		FollowingDistanceMeters: c.Change.FollowingDistanceMeters,
		MinScore:                c.Change.MinScore,
	}
}

// HasLocation reports whether a static position was configured.
func (c *Config) HasLocation() bool {
	return c.Latitude != 0 || c.Longitude != 0
}

func parseList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if trimmed := strings.ToLower(strings.TrimSpace(p)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(lookup lookupFunc, key, fallback string) string {
	if value, ok := lookup(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(lookup lookupFunc, key string, fallback int) int {
	if value, ok := lookup(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return i
		}
		slog.Warn("Ignoring invalid integer", "key", key, "value", value)
	}
	return fallback
}

func getEnvFloat(lookup lookupFunc, key string, fallback float64) float64 {
	if value, ok := lookup(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
		slog.Warn("Ignoring invalid number", "key", key, "value", value)
	}
	return fallback
}

func getEnvBool(lookup lookupFunc, key string, fallback bool) bool {
	if value, ok := lookup(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
		slog.Warn("Ignoring invalid boolean", "key", key, "value", value)
	}
	return fallback
}

func getEnvDuration(lookup lookupFunc, key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
		slog.Warn("Ignoring invalid duration", "key", key, "value", value)
	}
	return fallback
}

// defaultDataDir returns ~/.wguard, or the current directory when home is unknown.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Warn("Could not get user home directory, using current dir", "error", err)
		return "."
	}
	return filepath.Join(home, ".wguard")
}
