package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"dat-workbench/core/backend/local"
	"dat-workbench/core/logger"
	"dat-workbench/core/server"
	"dat-workbench/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full workbench configuration, one section per concern.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Backend holds configuration for the in-process conversion backend.
	Backend local.Config `mapstructure:"backend"`
	// Server holds configuration for the snapshot HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for publishing generated DATs (S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
}

// FileName is the optional YAML config file read from the config path.
const FileName = "dat-workbench.yml"

// LoadConfig reads <path>/.env, then <path>/dat-workbench.yml, then the
// environment. Later sources win.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()
	registerDefaults(v, reflect.TypeOf(Config{}), "")

	file := filepath.Join(path, FileName)
	if _, err := os.Stat(file); err == nil {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
	}

	// LOG_LEVEL maps to log.level.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &config, nil
}

// registerDefaults walks t and registers every mapstructure key with its
// `default` tag. Keys without a default are registered as "" so that
// AutomaticEnv can still see them.
func registerDefaults(v *viper.Viper, t reflect.Type, prefix string) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for _, field := range reflect.VisibleFields(t) {
		name, ok := field.Tag.Lookup("mapstructure")
		if !ok || name == "" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		if field.Type.Kind() == reflect.Struct {
			registerDefaults(v, field.Type, name)
			continue
		}
		v.SetDefault(name, field.Tag.Get("default"))
	}
}
