package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"chronicle/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "CHRONICLE_LOG_LEVEL")
	viper.BindEnv("gemini.apiKey", "CHRONICLE_GEMINI_API_KEY")
	viper.BindEnv("persistence.saveInterval", "CHRONICLE_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "CHRONICLE_CACHE_ENABLED")
	viper.BindEnv("cache.size", "CHRONICLE_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	applyChronicleDefaults(&conf)

	conf.AppName = "DailyChronicleDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

func applyChronicleDefaults(conf *structures.Config) {
	if conf.Chronicle.MinEvents <= 0 {
		conf.Chronicle.MinEvents = 3
	}
	if conf.Chronicle.MaxEvents < conf.Chronicle.MinEvents {
		conf.Chronicle.MaxEvents = 5
	}
	if conf.Gemini.Endpoint == "" {
		conf.Gemini.Endpoint = "https://generativelanguage.googleapis.com/v1beta"
	}
	if conf.Gemini.TextModel == "" {
		conf.Gemini.TextModel = "gemini-2.5-flash"
	}
	if conf.Gemini.ImageModel == "" {
		conf.Gemini.ImageModel = "gemini-2.5-flash-image"
	}
}
