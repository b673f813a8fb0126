package app

import (
	"strings"
	"time"

	"github.com/profbridge/profbridge-backend/internal/logger"
	"github.com/profbridge/profbridge-backend/internal/utils"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	UploadDir       string
	MaxContextChars int
	AllowedOrigins  []string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	uploadDir := utils.GetEnv("UPLOAD_DIR", "uploads", log)
	maxContextChars := utils.GetEnvAsInt("MAX_CONTEXT_CHARS", 30000, log)

	var allowedOrigins []string
	for _, origin := range strings.Split(utils.GetEnv("ALLOWED_ORIGINS", "", log), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins = append(allowedOrigins, origin)
		}
	}

	return Config{
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		UploadDir:       uploadDir,
		MaxContextChars: maxContextChars,
		AllowedOrigins:  allowedOrigins,
	}
}
