package config

type Config interface {
	EnvConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBackendOrigin() string
	GetSiteBaseURL() string
	GetCredentialsFile() string
	GetRedisAddr() string
	AnalyticsEnabled() bool
	GetAnalyticsTrackingID() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
}

func New() (Config, error) {
	env, err := loadEnvVars()
	if err != nil {
		return nil, err
	}
	return mainConfig{
		EnvVars: env,
		Cors:    newCors(env.CorsOrigins),
	}, nil
}
