package main // HTTP server of the cabin reservation system

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cabin-seat-reservation/internal/config"
	"github.com/iliyamo/cabin-seat-reservation/internal/database"
	"github.com/iliyamo/cabin-seat-reservation/internal/handler"
	"github.com/iliyamo/cabin-seat-reservation/internal/middleware"
	"github.com/iliyamo/cabin-seat-reservation/internal/queue"
	"github.com/iliyamo/cabin-seat-reservation/internal/repository"
	"github.com/iliyamo/cabin-seat-reservation/internal/router"
	"github.com/iliyamo/cabin-seat-reservation/internal/service"
)

func main() {
	_ = godotenv.Load() // a .env file is optional
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	var pub service.Publisher
	if cfg.Events.Enabled {
		pub = service.NewRabbitPublisher(cfg.Events.AMQPURL)
		go func() {
			if err := queue.StartReservationConsumer(ctx, cfg.Events.AMQPURL, cfg.Events.LogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("reservation-consumer: stopped: %v", err)
			}
		}()
	}

	mgr := service.NewManager(pub)
	if err := mgr.Load(ctx, store); err != nil {
		log.Fatalf("restore: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg))
	router.RegisterCabin(e, handler.NewCabinHandler(mgr),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb, mgr.Version),
	)
	router.RegisterReservations(e, handler.NewReservationHandler(mgr), cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreBackend)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if err := mgr.Save(shutdownCtx, store); err != nil {
		log.Printf("save on shutdown failed: %v", err)
	}
	if err := mgr.Close(shutdownCtx); err != nil {
		log.Printf("event flush on shutdown: %v", err)
	}
}

// openStore returns the configured persistence backend and its cleanup.
func openStore(ctx context.Context, cfg config.Config) (service.Store, func(), error) {
	if cfg.StoreBackend != config.StoreMySQL {
		return repository.NewFileStore(cfg.DataFile), func() {}, nil
	}
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, nil, err
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return repository.NewSeatAssignmentRepo(db), func() { _ = db.Close() }, nil
}
