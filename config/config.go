package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/sheetbridge"
	"github.com/sagarc03/sheetbridge/credentials"
	"github.com/sagarc03/sheetbridge/database"
	sheetbridgehttp "github.com/sagarc03/sheetbridge/http"
	"github.com/sagarc03/sheetbridge/sheets"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for sheetbridge.
type Config struct {
	Server      ServerConfig               `mapstructure:"server"`
	Sheet       SheetConfig                `mapstructure:"sheet"`
	Credentials credentials.Config         `mapstructure:"credentials"`
	Upstream    UpstreamConfig             `mapstructure:"upstream"`
	Endpoints   []sheetbridge.Endpoint     `mapstructure:"endpoints"`
	CORS        sheetbridgehttp.CORSConfig `mapstructure:"cors"`
	Journal     JournalConfig              `mapstructure:"journal"`
	Log         LogConfig                  `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration. Timeouts are in seconds.
type ServerConfig struct {
	Port            int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeout     int `mapstructure:"read_timeout" validate:"min=1"`
	WriteTimeout    int `mapstructure:"write_timeout" validate:"min=1"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout" validate:"min=1"`
}

// SheetConfig identifies the spreadsheet every endpoint reads from.
type SheetConfig struct {
	ID string `mapstructure:"id"`
	// APIEndpoint overrides the Sheets API base URL.
	APIEndpoint string `mapstructure:"api_endpoint" validate:"omitempty,url"`
}

// UpstreamConfig holds Sheets API call settings.
type UpstreamConfig struct {
	Timeout       int     `mapstructure:"timeout" validate:"min=1"` // seconds per fetch
	RatePerSecond float64 `mapstructure:"rate_per_second" validate:"min=0"`
	Burst         int     `mapstructure:"burst" validate:"min=1"`
	MaxRetries    int     `mapstructure:"max_retries" validate:"min=0,max=10"`
}

// JournalConfig holds the fetch journal settings.
type JournalConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// AutoMigrate creates the journal table on startup.
	AutoMigrate bool `mapstructure:"auto_migrate"`

	database.Config `mapstructure:",squash"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// FetchTimeout returns the per-fetch upstream deadline.
func (u UpstreamConfig) FetchTimeout() time.Duration {
	return time.Duration(u.Timeout) * time.Second
}

// ReaderConfig returns the sheets reader settings for the configured sheet.
func (c *Config) ReaderConfig() sheets.Config {
	return sheets.Config{
		SpreadsheetID: c.Sheet.ID,
		Endpoint:      c.Sheet.APIEndpoint,
		RatePerSecond: c.Upstream.RatePerSecond,
		Burst:         c.Upstream.Burst,
		MaxRetries:    c.Upstream.MaxRetries,
		RetryMaxWait:  c.Upstream.FetchTimeout(),
	}
}

// Endpoint returns the endpoint with the given name.
func (c *Config) Endpoint(name string) (sheetbridge.Endpoint, error) {
	for _, ep := range c.Endpoints {
		if ep.Name == name {
			return ep, nil
		}
	}
	return sheetbridge.Endpoint{}, fmt.Errorf("endpoint %q: %w", name, sheetbridge.ErrNotFound)
}

// RequireUpstream checks the settings needed to read the spreadsheet and
// resolves the service account. Commands that never contact Google skip it.
func (c *Config) RequireUpstream() (credentials.ServiceAccount, error) {
	if strings.TrimSpace(c.Sheet.ID) == "" {
		return credentials.ServiceAccount{}, fmt.Errorf("sheet.id (SHEET_ID) is required: %w", sheetbridge.ErrConfig)
	}

	sa, err := credentials.Load(c.Credentials)
	if err != nil {
		return credentials.ServiceAccount{}, err
	}

	return sa, nil
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"port":        "server.port",
	"sheet-id":    "sheet.id",
	"credentials": "credentials.file",
	"journal":     "journal.enabled",
	"db-type":     "journal.type",
	"db-dsn":      "journal.dsn",
	"log-level":   "log.level",
	"log-format":  "log.format",
}

// legacyEnv binds the bare variable names the service has always read.
var legacyEnv = map[string]string{
	"sheet.id":                 "SHEET_ID",
	"credentials.client_email": "CLIENT_EMAIL",
	"credentials.private_key":  "PRIVATE_KEY",
	"server.port":              "PORT",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey, ok := flagToViperKey[f.Name]
		if !ok {
			return
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// bindEnv binds every key to its prefixed variable and, for legacy keys, the
// bare name as a fallback.
func bindEnv(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		envKey := "SHEETBRIDGE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if legacy, ok := legacyEnv[key]; ok {
			_ = v.BindEnv(key, envKey, legacy)
			continue
		}
		_ = v.BindEnv(key, envKey)
	}
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.shutdown_timeout", 30)

	v.SetDefault("sheet.id", "")
	v.SetDefault("sheet.api_endpoint", "")

	v.SetDefault("credentials.client_email", "")
	v.SetDefault("credentials.private_key", "")
	v.SetDefault("credentials.file", "")

	v.SetDefault("upstream.timeout", 10)
	v.SetDefault("upstream.rate_per_second", 1.0)
	v.SetDefault("upstream.burst", 60)
	v.SetDefault("upstream.max_retries", 0)

	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"*"})
	v.SetDefault("cors.exposed_headers", []string{"X-Request-ID"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.auto_migrate", true)
	v.SetDefault("journal.type", "sqlite")
	v.SetDefault("journal.dsn", "sheetbridge.db")
	v.SetDefault("journal.tables.fetches", "sheetbridge_fetches")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
//
// Validation errors wrap sheetbridge.ErrConfig.
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	bindEnv(v)

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w: %w", sheetbridge.ErrConfig, err)
	}

	if len(cfg.Endpoints) == 0 {
		cfg.Endpoints = sheetbridge.DefaultEndpoints()
	}
	for i := range cfg.Endpoints {
		cfg.Endpoints[i].Shape = cfg.Endpoints[i].ShapeOrDefault()
	}

	// 6. Validate using go-playground/validator
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags, then each endpoint, then the journal tables
// when the journal is on.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate config: %w: %w", sheetbridge.ErrConfig, err)
	}

	names := make(map[string]struct{}, len(c.Endpoints))
	paths := make(map[string]struct{}, len(c.Endpoints))
	for _, ep := range c.Endpoints {
		if err := ep.Validate(); err != nil {
			return fmt.Errorf("validate config: %w: %w", sheetbridge.ErrConfig, err)
		}
		if _, dup := names[ep.Name]; dup {
			return fmt.Errorf("validate config: duplicate endpoint name %q: %w", ep.Name, sheetbridge.ErrConfig)
		}
		if slices.Contains(sheetbridgehttp.ReservedPaths(), ep.Path) {
			return fmt.Errorf("validate config: endpoint %s: path %q is reserved: %w", ep.Name, ep.Path, sheetbridge.ErrConfig)
		}
		if _, dup := paths[ep.Path]; dup {
			return fmt.Errorf("validate config: duplicate endpoint path %q: %w", ep.Path, sheetbridge.ErrConfig)
		}
		names[ep.Name] = struct{}{}
		paths[ep.Path] = struct{}{}
	}

	if c.Journal.Enabled {
		if err := c.Journal.Tables.Validate(); err != nil {
			return fmt.Errorf("validate config: journal: %w: %w", sheetbridge.ErrConfig, err)
		}
	}

	return nil
}
