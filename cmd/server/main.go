package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"convo/infrastructure/cache"
	"convo/infrastructure/db"
	"convo/infrastructure/ws"
	httpHandler "convo/internal/delivery/http"
	wsHandler "convo/internal/delivery/websocket"
	"convo/internal/live"
	"convo/internal/repository"
	"convo/internal/usecase"
	"convo/pkg/jwt"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("godotenv: error loading .env file")
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		fmt.Printf("zap: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	ctx := context.Background()

	mongoUri := os.Getenv("MONGODB_URI")
	mongoDbName := os.Getenv("MONGODB_DATABASE")
	mongoDb, err := db.NewMongoStore(ctx, mongoUri, mongoDbName)
	if err != nil {
		logger.Fatalf("connect mongodb: %v", err)
	}
	defer mongoDb.Close(ctx)

	logger.Info("connected to MongoDB")

	redisAddr := os.Getenv("REDIS_ADDR")

	var rdb *redis.Client
	if redisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatalf("connect redis: %v", err)
		}
		logger.Infof("connected to Redis at %s", redisAddr)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(mongoDb.DB, logger)
	chatRepo := repository.NewChatRepository(mongoDb.DB, logger)
	messageRepo := repository.NewMessageRepository(mongoDb.DB, logger)
	var stateRepo repository.ClientStateRepository
	if rdb != nil {
		stateRepo = repository.NewClientStateRepository(rdb)
	} else {
		stateRepo = repository.NewMemoryClientStateRepository()
	}

	// Initialize JWT manager
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-this-in-production" // Default for development
		logger.Warn("using default JWT secret, set JWT_SECRET in .env for production")
	}
	jwtManager := jwt.NewManager(jwtSecret, time.Hour)

	// Initialize use cases
	authUc := usecase.NewAuthUsecase(userRepo, jwtManager)
	userUc := usecase.NewUserUsecase(userRepo, stateRepo)
	chatUc := usecase.NewChatUsecase(chatRepo, userRepo)
	messageUc := usecase.NewMessageUsecase(messageRepo, chatRepo, userRepo)

	liveMgr := live.NewManager(mongoDb.DB, userRepo, chatRepo, messageRepo, logger)

	var hub ws.IHub
	if rdb != nil {
		serverId := os.Getenv("SERVER_ID")
		if serverId == "" {
			serverId = "server-1" // Default
		}
		logger.Infof("using Redis hub with server ID %s", serverId)
		hub = ws.NewRedisHub(rdb, serverId, logger)
	} else {
		logger.Info("using in-memory hub (single server)")
		hub = ws.NewHub(logger)
	}

	hub.SetOnClientUnregister(func(client *ws.UserClient) error {
		return userUc.HandleUnregisterClient(ctx, client.UserId)
	})

	go hub.Run()

	chatCache := cache.NewMemCache(time.Minute)
	defer chatCache.Close()

	// CORS middleware
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "http://localhost:3000")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Initialize handlers
	websocketH := wsHandler.NewWebsocketHandler(hub, liveMgr, userUc, chatUc, messageUc, chatCache, logger)
	httpH := httpHandler.NewHandler(chatUc, userUc, messageUc, logger)
	authH := httpHandler.NewAuthHandler(authUc, logger)
	authMiddleware := httpHandler.NewAuthMiddleware(authUc)

	// Map routes
	httpHandler.MapHttpRoutes(router, httpH, websocketH, authH, authMiddleware)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Infof("HTTP server is running on :%s", port)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatalf("http server: %v", err)
	}
}
