package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Uploads  UploadsConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type UploadsConfig struct {
	BaseDir    string
	StaticBase string
}

func Load() (*Config, error) {
	viper.SetDefault("APP_NAME", "photomarket")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DATABASE_URL", "photomarket.db")
	viper.SetDefault("JWT_TTL_HOURS", 24)
	viper.SetDefault("UPLOADS_DIR", "./uploads")
	viper.SetDefault("UPLOADS_STATIC_BASE", "/static/uploads")

	viper.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			URL: viper.GetString("DATABASE_URL"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
			TTL:    time.Duration(viper.GetInt("JWT_TTL_HOURS")) * time.Hour,
		},
		Uploads: UploadsConfig{
			BaseDir:    viper.GetString("UPLOADS_DIR"),
			StaticBase: viper.GetString("UPLOADS_STATIC_BASE"),
		},
	}

	return cfg, nil
}
