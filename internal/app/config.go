package app

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// config file stuff
var (
	configFileName = "config"
	configFileExt  = ".yml"
	configType     = "yaml"
	appName        = "ezgit"

	configurationDirectory = filepath.Join(osConfigDirectory(runtime.GOOS), appName)
)

// configuration items
var (
	limitKey           = "limit"
	limitKeyDefault    = 100
	remoteKey          = "remote"
	remoteKeyDefault   = "origin"
	logLevelKey        = "loglevel"
	logLevelKeyDefault = "error"
)

// loadConfiguration reads the config file in dir, creating it with the
// defaults when it does not exist yet.
func loadConfiguration(dir string) (*Config, error) {
	v := viper.New()
	initializeConfigurationManager(v, dir)
	setDefaults(v)
	if err := readConfiguration(v, dir); err != nil {
		return nil, err
	}
	return buildConfig(v), nil
}

func buildConfig(v *viper.Viper) *Config {
	config := &Config{
		Limit:    v.GetInt(limitKey),
		Remote:   v.GetString(remoteKey),
		LogLevel: v.GetString(logLevelKey),
	}
	validateConfig(config)
	return config
}

// validateConfig replaces unusable values with their defaults
func validateConfig(config *Config) {
	if config.Limit <= 0 {
		config.Limit = limitKeyDefault
	}
	if config.Remote == "" {
		config.Remote = remoteKeyDefault
	}
	if config.LogLevel == "" {
		config.LogLevel = logLevelKeyDefault
	}
}

// set default configuration parameters
func setDefaults(v *viper.Viper) {
	v.SetDefault(limitKey, limitKeyDefault)
	v.SetDefault(remoteKey, remoteKeyDefault)
	v.SetDefault(logLevelKey, logLevelKeyDefault)
}

// read configuration from file, writing the defaults on first start
func readConfiguration(v *viper.Viper, dir string) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return v.WriteConfigAs(filepath.Join(dir, configFileName+configFileExt))
}

// initialize the configuration manager
func initializeConfigurationManager(v *viper.Viper, dir string) {
	v.AddConfigPath(dir)
	v.SetConfigName(configFileName)
	v.SetConfigType(configType)
}

// returns OS dependent config directory
func osConfigDirectory(osName string) (osConfigDirectory string) {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	switch osName {
	case "windows":
		osConfigDirectory = os.Getenv("APPDATA")
	case "darwin":
		osConfigDirectory = os.Getenv("HOME") + "/Library/Application Support"
	default:
		osConfigDirectory = os.Getenv("HOME") + "/.config"
	}
	return osConfigDirectory
}
