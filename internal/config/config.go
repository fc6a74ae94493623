package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBDSN        string
	MediaDir     string
	MediaBaseURL string
	LogFile      string
	JWTSecret    string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] loaded .env")
	}

	cfg := Config{
		Port:         getenv("PORT", "8080"),
		DBDSN:        getenv("DB_DSN", "secondspin.db"),
		MediaDir:     getenv("MEDIA_DIR", "./media"),
		MediaBaseURL: getenv("MEDIA_BASE_URL", ""),
		LogFile:      getenv("LOG_FILE", "./secondspin.log"),
		JWTSecret:    getenv("JWT_SECRET", "dev-only-secret"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
