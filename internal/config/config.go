package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port         string `mapstructure:"PORT"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`

	// XP granted to the owner when a project is published.
	ProjectPublishXP int `mapstructure:"PROJECT_PUBLISH_XP"`

	// Leaderboard snapshot job settings.
	LeaderboardLimit           int `mapstructure:"LEADERBOARD_LIMIT"`
	LeaderboardIntervalMinutes int `mapstructure:"LEADERBOARD_INTERVAL_MINUTES"`

	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`

	EnableCORS bool `mapstructure:"ENABLE_CORS"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "questforge.db")
	viper.SetDefault("PROJECT_PUBLISH_XP", 50)
	viper.SetDefault("LEADERBOARD_LIMIT", 100)
	viper.SetDefault("LEADERBOARD_INTERVAL_MINUTES", 15)

	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("DATABASE_PATH")
	viper.BindEnv("PROJECT_PUBLISH_XP")
	viper.BindEnv("LEADERBOARD_LIMIT")
	viper.BindEnv("LEADERBOARD_INTERVAL_MINUTES")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")
	viper.BindEnv("ENABLE_CORS")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}
