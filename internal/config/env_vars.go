package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// EnvVars holds all environment-sourced settings. A .env file is read first
// when present; real environment variables take priority.
type EnvVars struct {
	Port                string `env:"PORT" env-default:"3000"`
	AppName             string `env:"APP_NAME" env-default:"EduHub Edge"`
	Env                 string `env:"ENV" env-default:"DEV"`
	BackendOrigin       string `env:"BACKEND_ORIGIN" env-default:"http://localhost:8000"`
	SiteBaseURL         string `env:"SITE_BASE_URL" env-default:"http://localhost:3000"`
	CredentialsFile     string `env:"CREDENTIALS_FILE" env-default:"./data/credentials.json"`
	RedisAddr           string `env:"REDIS_ADDR"`
	Analytics           bool   `env:"ANALYTICS_ENABLED" env-default:"false"`
	AnalyticsTrackingID string `env:"ANALYTICS_TRACKING_ID"`
	CorsOrigins         string `env:"CORS_ALLOWED_ORIGINS"`
}

var _ EnvConfig = EnvVars{}

func loadEnvVars() (EnvVars, error) {
	_ = godotenv.Load() // optional .env, ignore when missing

	var env EnvVars
	if err := cleanenv.ReadEnv(&env); err != nil {
		return EnvVars{}, errors.Wrap(err, "[loadEnvVars] failed to read environment")
	}
	if env.BackendOrigin == "" {
		return EnvVars{}, errors.New("[loadEnvVars] BACKEND_ORIGIN is required")
	}
	return env, nil
}

func (e EnvVars) GetPort() string {
	port := e.Port
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return e.Env
}

// GetBackendOrigin returns the remote API origin the proxy and the session
// manager talk to (e.g. "https://api.dohaeduhub.com")
func (e EnvVars) GetBackendOrigin() string {
	return strings.TrimSuffix(e.BackendOrigin, "/")
}

// GetSiteBaseURL returns the public site base used for absolute links
// (sitemap entries and the like)
func (e EnvVars) GetSiteBaseURL() string {
	return strings.TrimSuffix(e.SiteBaseURL, "/")
}

func (e EnvVars) GetCredentialsFile() string {
	return e.CredentialsFile
}

func (e EnvVars) GetRedisAddr() string {
	return e.RedisAddr
}

func (e EnvVars) AnalyticsEnabled() bool {
	return e.Analytics
}

func (e EnvVars) GetAnalyticsTrackingID() string {
	return e.AnalyticsTrackingID
}
