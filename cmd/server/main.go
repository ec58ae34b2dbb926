package main

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/aidenmac0822-glitch/Intense-Notes/internal/ai"
	"github.com/aidenmac0822-glitch/Intense-Notes/internal/config"
	"github.com/aidenmac0822-glitch/Intense-Notes/internal/database"
	"github.com/aidenmac0822-glitch/Intense-Notes/internal/handlers"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/store"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Initialize Firebase Admin SDK from Environment Variable
	credentials, err := fixServiceAccountKey(cfg.KeyData)
	if err != nil {
		log.Fatalf("error preparing key data: %v", err)
	}
	opt := option.WithCredentialsJSON(credentials)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		log.Fatalf("error initializing app: %v", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("error getting Auth client: %v", err)
	}

	// Initialize the document store
	var docs store.Store
	switch cfg.StoreBackend {
	case "firestore":
		fsClient, err := firestore.NewClient(ctx, cfg.ProjectID, opt)
		if err != nil {
			log.Fatalf("Failed to connect to Firestore: %v", err)
		}
		defer fsClient.Close()
		docs = store.NewFirestoreStore(fsClient)
		log.Println("Using Firestore document store")
	case "mongo":
		mongoClient, err := database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoClient.Disconnect(ctx)
		docs = store.NewMongoStore(mongoClient, cfg.DBName)
		log.Println("Using MongoDB document store")
	}

	// Initialize Redis for per-user preferences
	var themes handlers.ThemeStore
	if cfg.RedisAddr != "" {
		redisClient, err := database.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		themes = handlers.NewRedisThemeStore(redisClient)
	} else {
		log.Println("REDIS_ADDR not set, theme preferences held in memory")
		themes = handlers.NewMemoryThemeStore()
	}

	generator := ai.NewOpenAI(cfg.OpenAIKey)

	// Initialize Gin Router
	router := gin.Default()
	h := &handlers.Handler{Store: docs, AI: generator, Themes: themes, SpeechWSURL: cfg.SpeechWSURL}
	h.RegisterRoutes(router, authClient)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

// fixServiceAccountKey repairs the private_key newlines that get escaped when
// the service-account JSON is pasted into an environment variable.
func fixServiceAccountKey(keyData string) ([]byte, error) {
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(keyData), &parsed); err != nil {
		return nil, err
	}
	if pk, ok := parsed["private_key"].(string); ok {
		parsed["private_key"] = strings.ReplaceAll(pk, "\\n", "\n")
	}
	return json.Marshal(parsed)
}
