package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// FileName is the configuration file looked up by Load.
const FileName = "spinplay.cfg.json"

// Keys read by the command line tool.
const (
	KeyLogLevel           = "logLevel"
	KeyLogFormat          = "logFormat"
	KeyDecoder            = "decoder"
	KeyPlaylist           = "playlist"
	KeySource             = "source"
	KeyServerAddr         = "server.addr"
	KeyServerRoot         = "server.root"
	KeyServerTimeout      = "server.timeout"
	KeyExportDir          = "export.dir"
	KeyExportScale        = "export.scale"
	KeyCacheMaxEntries    = "cache.maxEntries"
	KeyFetchTimeout       = "fetch.timeout"
	KeySimulateDurationMs = "simulate.durationMs"
	KeySimulateHeadingYaw = "simulate.headingYaw"
	KeySimulateTicks      = "simulate.ticks"
)

// ErrInvalidValue indicates a configured value that cannot be used.
var ErrInvalidValue = errors.New("invalid configuration value")

// SetDefaults registers the default for every key.
func SetDefaults() {
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyLogFormat, "text")
	viper.SetDefault(KeyDecoder, "simulation")
	viper.SetDefault(KeyPlaylist, "")
	viper.SetDefault(KeySource, "")

	viper.SetDefault(KeyServerAddr, "localhost:8360")
	viper.SetDefault(KeyServerRoot, ".")
	viper.SetDefault(KeyServerTimeout, "30s")

	viper.SetDefault(KeyExportDir, "./export")
	viper.SetDefault(KeyExportScale, 1.0)

	viper.SetDefault(KeyCacheMaxEntries, 64)
	viper.SetDefault(KeyFetchTimeout, "15s")

	viper.SetDefault(KeySimulateDurationMs, 60000)
	viper.SetDefault(KeySimulateHeadingYaw, 0.0)
	viper.SetDefault(KeySimulateTicks, 120)
}

// Load sets the defaults and reads FileName from configDir. Environment
// variables prefixed with SPINPLAY_ override file values, with dots in keys
// replaced by underscores.
func Load(configDir string) error {
	SetDefaults()

	viper.SetEnvPrefix("spinplay")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "config.Load",
		"file":     viper.ConfigFileUsed(),
	}).Debug("Loaded configuration")
	return nil
}

// LoadOptional is Load without the requirement that the file exists.
func LoadOptional(configDir string) error {
	err := Load(configDir)
	if err == nil || IsNotFound(err) {
		return nil
	}
	return err
}

// IsNotFound reports whether err is a missing configuration file.
func IsNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetInt64 returns an int64 config value.
func GetInt64(key string) int64 {
	return viper.GetInt64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetDuration returns a duration config value such as "15s".
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// ConfigureLogging applies logLevel and logFormat to the standard logrus
// logger.
func ConfigureLogging() error {
	level, err := logrus.ParseLevel(GetString(KeyLogLevel))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidValue, KeyLogLevel, err)
	}
	logrus.SetLevel(level)

	switch format := strings.ToLower(GetString(KeyLogFormat)); format {
	case "text", "":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("%w: %s: %q", ErrInvalidValue, KeyLogFormat, format)
	}
	return nil
}
