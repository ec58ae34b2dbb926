// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config is everything the server reads from the environment.
type Config struct {
	Port string

	// KeyData is the Firebase service-account JSON, as pasted into the
	// environment (private_key newlines may be escaped).
	KeyData string

	OpenAIKey string

	// StoreBackend selects firestore or mongo.
	StoreBackend string
	ProjectID    string
	MongoURI     string
	DBName       string

	RedisAddr     string
	RedisPassword string

	// SpeechWSURL is the streaming speech-to-text endpoint; empty disables
	// the transcription relay advertisement.
	SpeechWSURL string
}

// Load reads the environment into a Config. Missing required values are an
// error; the caller decides whether that is fatal.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := Config{
		Port:          getenv("PORT", "8080"),
		KeyData:       os.Getenv("KEY_DATA"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		StoreBackend:  getenv("STORE_BACKEND", "firestore"),
		ProjectID:     os.Getenv("FIREBASE_PROJECT_ID"),
		MongoURI:      os.Getenv("MONGO_URI"),
		DBName:        getenv("DB_NAME", "intensenotes"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SpeechWSURL:   os.Getenv("SPEECH_WS_URL"),
	}

	if cfg.KeyData == "" {
		return cfg, fmt.Errorf("KEY_DATA environment variable not set")
	}
	if cfg.OpenAIKey == "" {
		return cfg, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	switch cfg.StoreBackend {
	case "firestore":
		if cfg.ProjectID == "" {
			return cfg, fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore backend")
		}
	case "mongo":
		if cfg.MongoURI == "" {
			return cfg, fmt.Errorf("MONGO_URI is required for the mongo backend")
		}
	default:
		return cfg, fmt.Errorf("unknown STORE_BACKEND %q (want firestore or mongo)", cfg.StoreBackend)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
