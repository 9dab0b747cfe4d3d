// Package config loads the litedb CLI configuration from flags, the
// environment, .env files and an optional .litedb.yaml.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/litedb/schema"
	"github.com/satishbabariya/litedb/schema/parser"
)

// AppFs is the filesystem config and schema files are read from.
var AppFs = afero.NewOsFs()

// Configuration keys. They double as flag names.
const (
	KeySchema    = "schema"
	KeyDatabase  = "db"
	KeyDebug     = "debug"
	KeyLogFormat = "log-format"
)

// Config holds the application configuration
type Config struct {
	SchemaPath   string
	DatabasePath string
	Debug        bool
	LogFormat    string

	// File is the config file that was read, if any.
	File string
}

// NewViper returns a viper instance with the litedb defaults, search paths
// and environment binding (LITEDB_DB, LITEDB_LOG_FORMAT, ...).
func NewViper() (*viper.Viper, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.SetConfigName(".litedb")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, ".config", "litedb"))

	v.SetEnvPrefix("LITEDB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeySchema, "schema.tables")
	v.SetDefault(KeyDatabase, "litedb.db")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyLogFormat, "text")
	return v, nil
}

// LoadConfig reads the configuration. A non-empty configFile must exist;
// otherwise a missing config file is not an error.
func LoadConfig(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// .env does not override the environment; .env.local does.
	if _, err := AppFs.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		if err := godotenv.Overload(".env.local"); err != nil {
			return nil, fmt.Errorf("failed to load .env.local: %w", err)
		}
	}

	schemaPath, err := homedir.Expand(v.GetString(KeySchema))
	if err != nil {
		return nil, err
	}
	dbPath, err := homedir.Expand(v.GetString(KeyDatabase))
	if err != nil {
		return nil, err
	}

	return &Config{
		SchemaPath:   schemaPath,
		DatabasePath: dbPath,
		Debug:        v.GetBool(KeyDebug),
		LogFormat:    v.GetString(KeyLogFormat),
		File:         v.ConfigFileUsed(),
	}, nil
}

// LoadTables parses the schema file.
func (c *Config) LoadTables() ([]schema.Table, error) {
	f, err := AppFs.Open(c.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema: %w", err)
	}
	defer f.Close()
	return parser.Parse(c.SchemaPath, f)
}

// SaveConfig writes cfg to $HOME/.config/litedb/.litedb.yaml.
func SaveConfig(cfg *Config) (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.Set(KeySchema, cfg.SchemaPath)
	v.Set(KeyDatabase, cfg.DatabasePath)
	v.Set(KeyDebug, cfg.Debug)
	v.Set(KeyLogFormat, cfg.LogFormat)

	dir := filepath.Join(home, ".config", "litedb")
	if err := AppFs.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, ".litedb.yaml")
	return path, v.WriteConfigAs(path)
}
