// Package config loads server settings from defaults, an optional TOML file
// and AGENDA_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StoreConfig selects and configures the datastore.
type StoreConfig struct {
	Driver           string `mapstructure:"driver"`
	PostgresDSN      string `mapstructure:"postgres_dsn"`
	FirestoreProject string `mapstructure:"firestore_project"`
}

// AuthConfig holds Firebase settings.
type AuthConfig struct {
	Skip                bool   `mapstructure:"skip"`
	FirebaseProject     string `mapstructure:"firebase_project"`
	CredentialsFile     string `mapstructure:"credentials_file"`
	RequireSubscription bool   `mapstructure:"require_subscription"`
}

// EngineConfig tunes materialization and reconciliation.
type EngineConfig struct {
	AppointmentWindowDays int           `mapstructure:"appointment_window_days"`
	FinancialWindowDays   int           `mapstructure:"financial_window_days"`
	DefaultTimezone       string        `mapstructure:"default_timezone"`
	ReconcileCooldown     time.Duration `mapstructure:"reconcile_cooldown"`
}

// SchedulerConfig controls the rolling-window job.
type SchedulerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Spec    string `mapstructure:"spec"`
}

// ArchiveConfig names the bucket run reports are written to. Empty disables it.
type ArchiveConfig struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

const (
	DriverMemory    = "memory"
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8111)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.postgres_dsn", "")
	v.SetDefault("store.firestore_project", "")
	v.SetDefault("auth.skip", false)
	v.SetDefault("auth.firebase_project", "")
	v.SetDefault("auth.credentials_file", "")
	v.SetDefault("auth.require_subscription", false)
	v.SetDefault("engine.appointment_window_days", 90)
	v.SetDefault("engine.financial_window_days", 180)
	v.SetDefault("engine.default_timezone", "UTC")
	v.SetDefault("engine.reconcile_cooldown", 30*time.Minute)
	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.spec", "0 3 * * *")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.prefix", "runs")
	v.SetDefault("log.level", "info")
}

// Load reads configuration from file and env. Env var overrides use prefix
// AGENDA_, e.g. AGENDA_STORE_DRIVER. AGENDA_CONFIG points at a TOML file.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if cfgPath := os.Getenv("AGENDA_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	}

	v.SetEnvPrefix("AGENDA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for the postgres driver")
		}
	case DriverFirestore:
		if c.Store.FirestoreProject == "" {
			return fmt.Errorf("store.firestore_project is required for the firestore driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	if c.Engine.AppointmentWindowDays < 1 || c.Engine.FinancialWindowDays < 1 {
		return fmt.Errorf("engine windows must be at least one day")
	}
	if _, err := time.LoadLocation(c.Engine.DefaultTimezone); err != nil {
		return fmt.Errorf("engine.default_timezone: %w", err)
	}
	if c.Engine.ReconcileCooldown < 0 {
		return fmt.Errorf("engine.reconcile_cooldown must not be negative")
	}
	return nil
}
