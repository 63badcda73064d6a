package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Game     GameConfig
	Oracle   OracleConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// GameConfig holds the round-lifecycle and payout tuning
type GameConfig struct {
	RoundDurationSeconds  int
	PostRoundDelaySeconds int
	VioletMultiplier      float64
	HistoryLimit          int
	HistoryRetention      int
	StartingBalance       float64
}

// RoundDuration returns the betting window as a duration
func (g GameConfig) RoundDuration() time.Duration {
	return time.Duration(g.RoundDurationSeconds) * time.Second
}

// PostRoundDelay returns the cooldown window as a duration
func (g GameConfig) PostRoundDelay() time.Duration {
	return time.Duration(g.PostRoundDelaySeconds) * time.Second
}

// OracleConfig holds the winner-decision service configuration
type OracleConfig struct {
	Enabled        bool
	BaseURL        string
	APIKey         string
	MockAPI        bool
	TimeoutSeconds int
}

// Timeout returns the decision call deadline as a duration
func (o OracleConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "colorclash")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Game.RoundDurationSeconds", 30)
	viper.SetDefault("Game.PostRoundDelaySeconds", 5)
	viper.SetDefault("Game.VioletMultiplier", 5)
	viper.SetDefault("Game.HistoryLimit", 50)
	viper.SetDefault("Game.HistoryRetention", 1000)
	viper.SetDefault("Game.StartingBalance", 1000)
	viper.SetDefault("Oracle.Enabled", false)
	viper.SetDefault("Oracle.MockAPI", true)
	viper.SetDefault("Oracle.TimeoutSeconds", 3)
	viper.SetDefault("LogLevel", "info")
}
