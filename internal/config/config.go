package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"

	"github.com/arcaneplugins/levelledmobs/internal/models"
	"github.com/arcaneplugins/levelledmobs/internal/util"
)

const EnvPrefix = "LM"

type Configuration struct {
	Server    Server         `mapstructure:"server"`
	Queue     Queue          `mapstructure:"queue"`
	Debug     Debug          `mapstructure:"debug"`
	Store     Store          `mapstructure:"store"`
	Auth      Authentication `mapstructure:"auth"`
	Startup   Startup        `mapstructure:"startup"`
	Levelling Levelling      `mapstructure:"levelling"`
	LogFormat string         `mapstructure:"log_format" default:"console"`
	LogLevel  string         `mapstructure:"log_level" default:"info"`
}

type Server struct {
	ServerMode       string  `mapstructure:"mode" default:"dev"`
	HTTPPort         int     `mapstructure:"http_port" default:"8000"`
	EnqueueRateLimit float64 `mapstructure:"enqueue_rate_limit" default:"500"`
	EnqueueBurst     int     `mapstructure:"enqueue_burst" default:"100"`
}

type Queue struct {
	NumWorkers                    int           `mapstructure:"num_workers" default:"3"`
	SaturationThreshold           int           `mapstructure:"saturation_threshold" default:"1000"`
	PollInterval                  time.Duration `mapstructure:"poll_interval" default:"2ms"`
	HealthCheckInterval           time.Duration `mapstructure:"health_check_interval" default:"5s"`
	ProcessTimeout                time.Duration `mapstructure:"process_timeout" default:"5s"`
	IgnoreMobsWithNoPlayerContext bool          `mapstructure:"ignore_mobs_with_no_player_context" default:"false"`
	PlayerLevellingEnabled        bool          `mapstructure:"player_levelling_enabled" default:"false"`
}

type Debug struct {
	Enabled          bool          `mapstructure:"enabled" default:"false"`
	BypassAllFilters bool          `mapstructure:"bypass_all_filters" default:"false"`
	DisableAfter     time.Duration `mapstructure:"disable_after" default:"0s"`
	Types            []string      `mapstructure:"types"`
}

type Store struct {
	// DataFolder holds the DuckDB file. Empty keeps everything in memory.
	DataFolder       string        `mapstructure:"data_folder" default:""`
	RestartRetention time.Duration `mapstructure:"restart_retention" default:"168h"`
}

type Authentication struct {
	Enabled    bool   `mapstructure:"enabled" default:"false"`
	SecretFile string `mapstructure:"secret_file" default:""`
}

type Startup struct {
	ItemsDelay           time.Duration `mapstructure:"items_delay" default:"500ms"`
	ShowCustomDropsDebug bool          `mapstructure:"show_custom_drops_debug" default:"false"`
	// PendingItemsMaxTries bounds the retries of pending custom drop items.
	PendingItemsMaxTries uint `mapstructure:"pending_items_max_tries" default:"5"`
	// CustomDrops lists the custom drop ids per entity type, shown by the drops debug report.
	CustomDrops map[string][]string `mapstructure:"custom_drops"`
}

type Levelling struct {
	MinLevel int `mapstructure:"min_level" default:"1"`
	MaxLevel int `mapstructure:"max_level" default:"10"`
}

// NewConfiguration returns a configuration with every default applied.
func NewConfiguration() *Configuration {
	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		panic(fmt.Sprintf("invalid configuration defaults: %v", err))
	}
	return cfg
}

// Load reads the optional file at path and LM_ prefixed environment
// variables on top of the defaults.
func Load(path string) (*Configuration, error) {
	cfg := NewConfiguration()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, "", reflect.TypeOf(*cfg))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Configuration) Validate() error {
	if c.Queue.NumWorkers <= 0 {
		return fmt.Errorf("queue.num_workers must be positive, got %d", c.Queue.NumWorkers)
	}
	if c.Queue.SaturationThreshold <= 0 {
		return fmt.Errorf("queue.saturation_threshold must be positive, got %d", c.Queue.SaturationThreshold)
	}
	if c.Queue.PollInterval <= 0 {
		return fmt.Errorf("queue.poll_interval must be positive, got %s", c.Queue.PollInterval)
	}
	if c.Levelling.MinLevel < 0 || c.Levelling.MaxLevel < c.Levelling.MinLevel {
		return fmt.Errorf("invalid levelling range [%d, %d]", c.Levelling.MinLevel, c.Levelling.MaxLevel)
	}
	if !util.ContainsFold([]string{"console", "json"}, c.LogFormat) {
		return fmt.Errorf("invalid log format: %s", c.LogFormat)
	}
	if !util.ContainsFold([]string{"dev", "prod"}, c.Server.ServerMode) {
		return fmt.Errorf("invalid server mode: %s", c.Server.ServerMode)
	}
	if _, err := c.DebugTypes(); err != nil {
		return err
	}
	if c.Auth.Enabled && c.Auth.SecretFile == "" {
		return fmt.Errorf("auth.secret_file is required when authentication is enabled")
	}
	return nil
}

func (c *Configuration) DebugTypes() ([]models.DebugType, error) {
	var types []models.DebugType
	for _, s := range c.Debug.Types {
		t, err := models.ParseDebugType(s)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

// DBPath is the DuckDB path for the store, ":memory:" when no data folder is set.
func (c *Configuration) DBPath() string {
	if c.Store.DataFolder == "" {
		return ":memory:"
	}
	return filepath.Join(c.Store.DataFolder, "levelledmobs.duckdb")
}

// DebugMap flattens the configuration for structured logging. The secret file path is hidden.
func (c *Configuration) DebugMap() map[string]any {
	return map[string]any{
		"server.mode":                              c.Server.ServerMode,
		"server.http_port":                         c.Server.HTTPPort,
		"server.enqueue_rate_limit":                c.Server.EnqueueRateLimit,
		"queue.num_workers":                        c.Queue.NumWorkers,
		"queue.saturation_threshold":               c.Queue.SaturationThreshold,
		"queue.poll_interval":                      c.Queue.PollInterval.String(),
		"queue.health_check_interval":              c.Queue.HealthCheckInterval.String(),
		"queue.process_timeout":                    c.Queue.ProcessTimeout.String(),
		"queue.ignore_mobs_with_no_player_context": c.Queue.IgnoreMobsWithNoPlayerContext,
		"queue.player_levelling_enabled":           c.Queue.PlayerLevellingEnabled,
		"debug.enabled":                            c.Debug.Enabled,
		"debug.types":                              c.Debug.Types,
		"levelling.min_level":                      c.Levelling.MinLevel,
		"levelling.max_level":                      c.Levelling.MaxLevel,
		"store.data_folder":                        c.Store.DataFolder,
		"store.restart_retention":                  c.Store.RestartRetention.String(),
		"auth.enabled":                             c.Auth.Enabled,
		"log_format":                               c.LogFormat,
		"log_level":                                c.LogLevel,
	}
}

// bindEnvs registers every mapstructure key so Unmarshal sees environment overrides.
func bindEnvs(v *viper.Viper, prefix string, t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := f.Tag.Get("mapstructure")
		if key == "" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}

		if f.Type.Kind() == reflect.Struct && f.Type != reflect.TypeOf(time.Duration(0)) {
			bindEnvs(v, key, f.Type)
			continue
		}
		_ = v.BindEnv(key)
	}
}
