package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var Empty = new(Config)

type Config struct {
	AppEnv       string `envconfig:"APP_ENV"`
	Port         int    `envconfig:"PORT"`
	SentryDSN    string `envconfig:"SENTRY_DSN"`
	AllowOrigins string `envconfig:"ALLOW_ORIGINS"`

	DB struct {
		Name      string `envconfig:"DB_NAME"`
		Host      string `envconfig:"DB_HOST"`
		Port      int    `envconfig:"DB_PORT"`
		User      string `envconfig:"DB_USER"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
		MinConns  int    `envconfig:"DB_MIN_CONNS" default:"2"`
		MaxConns  int    `envconfig:"DB_MAX_CONNS" default:"10"`
	}
	Auth struct {
		Enabled  bool   `envconfig:"AUTH_ENABLED" default:"true"`
		Provider string `envconfig:"AUTH_PROVIDER" default:"keycloak"`
		APIKey   string `envconfig:"AUTH_API_KEY"`
		ClientID string `envconfig:"AUTH_CLIENT_ID"`

		KeycloakURL   string `envconfig:"AUTH_KEYCLOAK_URL"`
		KeycloakRealm string `envconfig:"AUTH_KEYCLOAK_REALM"`

		CognitoRegion     string `envconfig:"AUTH_COGNITO_REGION"`
		CognitoUserPoolID string `envconfig:"AUTH_COGNITO_USER_POOL_ID"`
		CognitoJWKSURL    string `envconfig:"AUTH_COGNITO_JWKS_URL"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	return cfg, nil
}
