package app

import (
	"time"

	"github.com/praxishq/praxis-backend/internal/platform/envutil"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	CaseContentDir    string
	CompletionTimeout time.Duration

	Environment string
	Version     string
}

func LoadConfig() Config {
	return Config{
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", 3600),
		RefreshTokenTTL: envutil.Seconds("REFRESH_TOKEN_TTL", 86400),

		CaseContentDir:    envutil.String("CASE_CONTENT_DIR", "./content/cases"),
		CompletionTimeout: envutil.Seconds("COMPLETION_EFFECT_TIMEOUT", 10),

		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
	}
}
