// Package config resolves settings from flags, REPODASH_* environment
// variables, an optional config file and a local .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable key.
const EnvPrefix = "REPODASH"

// Keys.
const (
	KeyGitHubData  = "github_data"
	KeyRepoData    = "repo_data"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
	KeyListenAddr  = "listen_addr"
	KeyCORSOrigins = "cors_origins"
	KeyGitHubToken = "github_token"
)

// Config is the resolved application configuration.
type Config struct {
	GitHubData  string   `mapstructure:"github_data"`
	RepoData    string   `mapstructure:"repo_data"`
	LogLevel    string   `mapstructure:"log_level"`
	LogFormat   string   `mapstructure:"log_format"`
	ListenAddr  string   `mapstructure:"listen_addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	GitHubToken string   `mapstructure:"github_token"`
}

// New returns a viper instance with defaults and env binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyGitHubData, "github_dataset.csv")
	v.SetDefault(KeyRepoData, "repository_data.csv")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyListenAddr, ":8080")
	v.SetDefault(KeyCORSOrigins, []string{"http://localhost:3000"})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// No default, so bind explicitly for Unmarshal to see it.
	_ = v.BindEnv(KeyGitHubToken)
	return v
}

// BindFlags binds command line flags whose names match config keys
// (with dashes in place of underscores).
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
			bindErr = fmt.Errorf("failed to bind flag %q: %w", f.Name, err)
		}
	})
	return bindErr
}

// Load reads .env (if present) and the optional config file, then decodes
// everything into a Config.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	return &cfg, nil
}
