package main

import (
	"cardgame_backend/domain"
	authController "cardgame_backend/internal/auth/controller"
	authUsecase "cardgame_backend/internal/auth/usecase"
	"cardgame_backend/internal/deck/catalog"
	deckController "cardgame_backend/internal/deck/controller"
	deckUsecase "cardgame_backend/internal/deck/usecase"
	gameController "cardgame_backend/internal/game/controller"
	gameUsecase "cardgame_backend/internal/game/usecase"
	"cardgame_backend/internal/progression"
	roomController "cardgame_backend/internal/room/controller"
	roomUsecase "cardgame_backend/internal/room/usecase"
	"cardgame_backend/internal/service/dsn"
	"cardgame_backend/internal/service/logger"
	"cardgame_backend/internal/service/middleware"
	"cardgame_backend/internal/service/router"
	"cardgame_backend/internal/service/scheduler"
	"cardgame_backend/internal/service/store"
	"context"
	"fmt"
	"github.com/joho/godotenv"
	"log"
	"net/http"
	"os"
)

func main() {
	_ = godotenv.Load()

	if err := logger.InitLoggers(); err != nil {
		log.Fatalf("Failed to initialize loggers: %v", err)
	}
	defer func() {
		err := logger.SyncLoggers()
		if err != nil {
			log.Printf("Failed to sync loggers: %v", err)
		}
	}()

	jwtToken, err := middleware.NewJwtToken(os.Getenv("JWT_SECRET"))
	if err != nil {
		log.Fatalf("Failed to create JWT token: %v", err)
	}

	var dataStore domain.Store
	if os.Getenv("STORAGE_DRIVER") == "sqlite" {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = ":memory:"
		}
		db, err := middleware.OpenSQLite(path)
		if err != nil {
			log.Fatalf("Failed to open sqlite database: %v", err)
		}
		if err := db.AutoMigrate(store.Models()...); err != nil {
			log.Fatalf("Failed to migrate sqlite database: %v", err)
		}
		fmt.Printf("Using sqlite storage at %s\n", path)
		dataStore = store.NewGormStore(db)
	} else {
		dataStore = store.NewGormStore(middleware.DbConnect(dsn.FromEnv()))
	}

	redisClient, err := middleware.NewRedisClient(context.Background())
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	var cache catalog.Cache
	if redisClient != nil {
		cache = redisClient
		defer redisClient.Close()
	}
	cardCatalog := catalog.NewCatalog(dataStore, cache, catalog.DefaultTTL)

	refresher, err := scheduler.Start(cardCatalog, scheduler.RefreshIntervalFromEnv())
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer refresher.Stop()

	authUseCase := authUsecase.NewAuthUsecase(dataStore)
	authHandler := authController.NewAuthHandler(authUseCase, jwtToken)

	roomUseCase := roomUsecase.NewRoomUsecase(dataStore)
	roomHandler := roomController.NewRoomHandler(roomUseCase, jwtToken)

	gameUseCase := gameUsecase.NewGameUsecase(dataStore, roomUseCase, progression.NewProgression(progression.DefaultTable))
	gameHandler := gameController.NewGameHandler(gameUseCase, jwtToken)

	deckUseCase := deckUsecase.NewDeckUsecase(dataStore, cardCatalog)
	deckHandler := deckController.NewDeckHandler(deckUseCase, jwtToken)

	mainRouter := router.SetUpRoutes(authHandler, roomHandler, gameHandler, deckHandler)
	mainRouter.Use(middleware.RequestIDMiddleware)
	mainRouter.Use(middleware.NewRateLimiterFromEnv().Middleware)
	http.Handle("/", middleware.EnableCORS(mainRouter))
	fmt.Printf("Starting HTTP server on adress %s\n", os.Getenv("BACKEND_URL"))
	if err := http.ListenAndServe(os.Getenv("BACKEND_URL"), nil); err != nil {
		fmt.Printf("Error on starting server: %s", err)
	}
}
