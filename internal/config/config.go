package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"soa-backend/internal/models"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	Server struct {
		Port               int           `mapstructure:"port"`
		CorsAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string      `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string      `mapstructure:"cors_allowed_headers"`
		MaxRequestMB       int64         `mapstructure:"max_request_mb"`
		MaxFileMB          int64         `mapstructure:"max_file_mb"`
		RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	} `mapstructure:"server"`

	Log struct {
		Level    string `mapstructure:"level"`
		Encoding string `mapstructure:"encoding"`
	} `mapstructure:"log"`

	Workspace struct {
		Root          string        `mapstructure:"root"`
		MaxAge        time.Duration `mapstructure:"max_age"`
		SweepSchedule string        `mapstructure:"sweep_schedule"`
	} `mapstructure:"workspace"`

	Report struct {
		Company       string            `mapstructure:"company"`
		Timezone      string            `mapstructure:"timezone"`
		ReferenceFile string            `mapstructure:"reference_file"`
		Footer        []models.TextLine `mapstructure:"footer"`
	} `mapstructure:"report"`
}

// MaxRequestBytes is the cap for one multipart request body
func (c *Config) MaxRequestBytes() int64 {
	return c.Server.MaxRequestMB << 20
}

// MaxFileBytes is the cap for one uploaded file
func (c *Config) MaxFileBytes() int64 {
	return c.Server.MaxFileMB << 20
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Content-Type", "Authorization"})
	v.SetDefault("server.max_request_mb", 16)
	v.SetDefault("server.max_file_mb", 10)
	v.SetDefault("server.request_timeout", "5m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("workspace.root", "")
	v.SetDefault("workspace.max_age", "6h")
	v.SetDefault("workspace.sweep_schedule", "@every 30m")
	v.SetDefault("report.company", "PHILIPPINE FIRST INSURANCE CO. INC")
	v.SetDefault("report.timezone", "Asia/Manila")
	v.SetDefault("report.reference_file", "configs/reference.yaml")
}

// LoadFile reads configuration from path, the environment and defaults.
// A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
	if root := os.Getenv("SOA_WORK_ROOT"); root != "" {
		cfg.Workspace.Root = root
	}
	return &cfg, nil
}

// Load loads .env and the config file at path, exiting on a broken config
func Load(path string) *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	if path == "" {
		path = DefaultPath
	}
	cfg, err := LoadFile(path)
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}
	return cfg
}
