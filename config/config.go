package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment             string `mapstructure:"environment"`
	ServerPort              int    `mapstructure:"server_port"`
	LogLevel                string `mapstructure:"log_level"`
	DatabaseDbPath          string `mapstructure:"database_db_path"`
	DatabaseCacheAddress    string `mapstructure:"database_cache_address"`
	DatabaseCachePort       int    `mapstructure:"database_cache_port"`
	DatabaseCacheTTLSeconds int    `mapstructure:"database_cache_ttl_seconds"`
	BlobDriver              string `mapstructure:"blob_driver"`
	BlobRoot                string `mapstructure:"blob_root"`
	BlobS3Bucket            string `mapstructure:"blob_s3_bucket"`
	BlobS3Region            string `mapstructure:"blob_s3_region"`
	BlobS3Endpoint          string `mapstructure:"blob_s3_endpoint"`
	BlobS3PathStyle         bool   `mapstructure:"blob_s3_path_style"`
	ExportDir               string `mapstructure:"export_dir"`
}

var defaults = map[string]any{
	"environment":                "development",
	"server_port":                8288,
	"log_level":                  "info",
	"database_db_path":           "data/oshalog.db",
	"database_cache_address":     "",
	"database_cache_port":        6379,
	"database_cache_ttl_seconds": 300,
	"blob_driver":                "fs",
	"blob_root":                  "data/attachments",
	"blob_s3_bucket":             "",
	"blob_s3_region":             "us-east-1",
	"blob_s3_endpoint":           "",
	"blob_s3_path_style":         false,
	"export_dir":                 "data/exports",
}

// InitConfig loads config.yaml (optional) from the working directory or
// ./config, then lets OSHALOG_* environment variables override it.
func InitConfig() (Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("OSHALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Validate() error {
	if c.DatabaseDbPath == "" {
		return errors.New("database path is empty")
	}

	switch c.BlobDriver {
	case "", "fs", "memory":
	case "s3":
		if c.BlobS3Bucket == "" {
			return errors.New("blob_s3_bucket is required for the s3 blob driver")
		}
	default:
		return fmt.Errorf("unknown blob driver %q", c.BlobDriver)
	}

	return nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production") ||
		strings.EqualFold(c.Environment, "prod")
}
