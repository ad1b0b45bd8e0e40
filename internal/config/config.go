package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// MongoConfig describes the document store connection.
type MongoConfig struct {
	// URI is the MongoDB connection string. Usually supplied via the
	// CALWEB_MONGO_URI environment variable rather than the config file.
	URI string `yaml:"uri" json:"-"`
	// Database is the database name.
	Database string `yaml:"database" json:"database"`
	// Collection is the events collection name.
	Collection string `yaml:"collection" json:"collection"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"-"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone used as the canonical display zone
	// (e.g. "America/New_York"). Event normalization for all-day events
	// is performed relative to this zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart controls which weekday is treated as the first day of the
	// week in calendar views. Supported values:
	//   - "sunday" (default)
	//   - "monday"
	WeekStart string `yaml:"week_start" json:"week_start"`

	// Mongo configures the events document store.
	Mongo MongoConfig `yaml:"mongo" json:"mongo"`

	// PurgeCron is a cron-style schedule string for the soft-delete purge
	// job (e.g. "0 3 * * *").
	PurgeCron string `yaml:"purge_cron" json:"purge_cron"`

	// PurgeRetentionDays is how long soft-deleted events are retained
	// before the purge job removes them permanently.
	PurgeRetentionDays int `yaml:"purge_retention_days" json:"purge_retention_days"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:    "127.0.0.1:8080",
		Timezone:  "America/New_York",
		WeekStart: "sunday",
		Mongo: MongoConfig{
			URI:        "mongodb://127.0.0.1:27017",
			Database:   "calweb",
			Collection: "events",
		},
		PurgeCron:          "0 3 * * *",
		PurgeRetentionDays: 30,
		BasicAuth:          nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "America/New_York"
	}
	switch c.WeekStart {
	case "monday", "sunday":
		// ok
	case "":
		c.WeekStart = "sunday"
	default:
		// Unknown value; fall back to sunday to avoid surprising layouts.
		c.WeekStart = "sunday"
	}
	if c.Mongo.URI == "" {
		c.Mongo.URI = "mongodb://127.0.0.1:27017"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "calweb"
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = "events"
	}
	if c.PurgeCron == "" {
		c.PurgeCron = "0 3 * * *"
	}
	if c.PurgeRetentionDays <= 0 {
		c.PurgeRetentionDays = 30
	}
}

// applyEnv overlays secrets from the environment over the file-based config.
// A .env file next to the working directory is honored when present; real
// environment variables win over it.
func (c *Config) applyEnv() {
	// Best effort; a missing .env file is the normal case in production.
	_ = godotenv.Load()

	if v := os.Getenv("CALWEB_MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("CALWEB_MONGO_DATABASE"); v != "" {
		c.Mongo.Database = v
	}
	user := os.Getenv("CALWEB_BASIC_AUTH_USERNAME")
	pass := os.Getenv("CALWEB_BASIC_AUTH_PASSWORD")
	if user != "" && pass != "" {
		c.BasicAuth = &BasicAuthConfig{Username: user, Password: pass}
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config (with env overlay applied)
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults and apply env overlay
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file. The pristine defaults
			// are written before the env overlay is applied so env-sourced
			// secrets never land in the YAML.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				cfg.applyEnv()
				return cfg, err
			}
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	cfg.applyEnv()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".calweb-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
