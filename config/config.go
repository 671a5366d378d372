package config

import (
	logger "github.com/Bparsons0904/goLogger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	TMDBAPIKey           string `mapstructure:"TMDB_API_KEY"`
	TMDBBaseURL          string `mapstructure:"TMDB_BASE_URL"`
	TMDBLanguage         string `mapstructure:"TMDB_LANGUAGE"`
	TMDBFallbackLanguage string `mapstructure:"TMDB_FALLBACK_LANGUAGE"`
	TMDBRegion           string `mapstructure:"TMDB_REGION"`
	AIProvider           string `mapstructure:"AI_PROVIDER"`
	GeminiAPIKey         string `mapstructure:"GEMINI_API_KEY"`
	OpenAIAPIKey         string `mapstructure:"OPENAI_API_KEY"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
}

var ConfigInstance Config

func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
		"CORS_ALLOW_ORIGINS",
		"TMDB_API_KEY", "TMDB_BASE_URL", "TMDB_LANGUAGE", "TMDB_FALLBACK_LANGUAGE", "TMDB_REGION",
		"AI_PROVIDER", "GEMINI_API_KEY", "OPENAI_API_KEY",
		"SCHEDULER_ENABLED",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	viper.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	viper.SetDefault("TMDB_LANGUAGE", "pt-BR")
	viper.SetDefault("TMDB_FALLBACK_LANGUAGE", "en-US")
	viper.SetDefault("TMDB_REGION", "BR")
	viper.SetDefault("AI_PROVIDER", "gemini")
	viper.SetDefault("DB_CACHE_RESET", -1)

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info("Successfully initialized config",
		"environment", config.Environment,
		"aiProvider", config.AIProvider,
		"schedulerEnabled", config.SchedulerEnabled,
	)
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.AIProvider != "gemini" && config.AIProvider != "openai" {
		return log.Error(
			"Fatal error: AI_PROVIDER must be 'gemini' or 'openai'",
			"provider", config.AIProvider,
		)
	}

	if config.TMDBAPIKey == "" {
		log.Warn("TMDB_API_KEY is not set, catalog lookups will fail")
	}

	ConfigInstance = config
	return nil
}
