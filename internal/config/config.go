package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"db"`
	Ordering OrderingConfig `mapstructure:"ordering"`
	Log      LogConfig      `mapstructure:"log"`
	GraphQL  GraphQLConfig  `mapstructure:"graphql"`
}

type ServerConfig struct {
	// Address is the host:port the HTTP server listens on.
	Address           string        `mapstructure:"address"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type DBConfig struct {
	// Path of the SQLite file. ":memory:" keeps everything in process.
	Path        string        `mapstructure:"path"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

// InMemory reports whether the database lives only in process memory.
func (c DBConfig) InMemory() bool {
	return c.Path == ":memory:"
}

type OrderingConfig struct {
	// DeletePolicy is "atomic" or "soft".
	DeletePolicy string `mapstructure:"delete_policy"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type GraphQLConfig struct {
	MaxDepth int `mapstructure:"max_depth"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:           ":8080",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		DB: DBConfig{
			Path:        "todolist.db",
			BusyTimeout: 5 * time.Second,
		},
		Ordering: OrderingConfig{
			DeletePolicy: "atomic",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		GraphQL: GraphQLConfig{
			MaxDepth: 10,
		},
	}
}

// SetDefaults registers every default with viper so keys resolve even
// without a config file.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("server.address", defaults.Server.Address)
	viper.SetDefault("server.read_header_timeout", defaults.Server.ReadHeaderTimeout)
	viper.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)

	viper.SetDefault("db.path", defaults.DB.Path)
	viper.SetDefault("db.busy_timeout", defaults.DB.BusyTimeout)

	viper.SetDefault("ordering.delete_policy", defaults.Ordering.DeletePolicy)

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.format", defaults.Log.Format)

	viper.SetDefault("graphql.max_depth", defaults.GraphQL.MaxDepth)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "todolist")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".todolist"
	}
	return filepath.Join(home, ".config", "todolist")
}
