package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
		Mode string
	}
	DB struct {
		DSN string
	}
	JWT struct {
		Secret     string
		Issuer     string
		ExpSeconds int
	}
	Refresh struct {
		Months int
	}
	CORS struct {
		Origins []string
	}
}

// Load reads configuration from an optional yaml file with env overrides.
// Every key has a default so the server boots with no config file at all.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("db.dsn", "store_rating.db")
	v.SetDefault("jwt.secret", "store_rating_dev_secret")
	v.SetDefault("jwt.issuer", "store-rating-api")
	v.SetDefault("jwt.exp_seconds", 3600)
	v.SetDefault("refresh.months", 2)
	v.SetDefault("cors.origins", []string{"http://localhost:3000"})

	// dotted keys map to underscored env vars: server.port <- SRA_SERVER_PORT
	v.SetEnvPrefix("SRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	cfg.Server.Port = v.GetString("server.port")
	cfg.Server.Mode = v.GetString("server.mode")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.JWT.Secret = v.GetString("jwt.secret")
	cfg.JWT.Issuer = v.GetString("jwt.issuer")
	cfg.JWT.ExpSeconds = v.GetInt("jwt.exp_seconds")
	if cfg.JWT.ExpSeconds <= 0 {
		cfg.JWT.ExpSeconds = 3600
	}
	cfg.Refresh.Months = v.GetInt("refresh.months")
	if cfg.Refresh.Months <= 0 {
		cfg.Refresh.Months = 2
	}
	cfg.CORS.Origins = v.GetStringSlice("cors.origins")
	return cfg, nil
}
