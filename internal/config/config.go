package config

import (
	"github.com/caarlos0/env/v6"
)

type Config struct {
	HTTP struct {
		Port           string `env:"PORT" envDefault:"8080"`
		AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
	}

	DatabaseURL string `env:"DATABASE_URL,required"`

	Auth struct {
		JWTSecret    string `env:"JWT_HMAC_SECRET"`
		StaticTokens string `env:"STATIC_TOKENS"`
	}

	Google struct {
		ClientID     string `env:"GOOGLE_CLIENT_ID"`
		ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
		RedirectURL  string `env:"GOOGLE_REDIRECT_URL"`
	}

	Microsoft struct {
		ClientID     string `env:"MICROSOFT_CLIENT_ID"`
		ClientSecret string `env:"MICROSOFT_CLIENT_SECRET"`
		RedirectURL  string `env:"MICROSOFT_REDIRECT_URL"`
		Tenant       string `env:"MICROSOFT_TENANT" envDefault:"common"`
	}

	Cache struct {
		SettingsSize int `env:"CACHE_SETTINGS_SIZE" envDefault:"512"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
