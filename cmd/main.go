package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/auction-system/config"
	"github.com/Dosada05/auction-system/db"
	"github.com/Dosada05/auction-system/handlers"
	"github.com/Dosada05/auction-system/live"
	"github.com/Dosada05/auction-system/middleware"
	"github.com/Dosada05/auction-system/repositories"
	api "github.com/Dosada05/auction-system/routes"
	"github.com/Dosada05/auction-system/services"
	"github.com/Dosada05/auction-system/storage"
	"github.com/Dosada05/auction-system/timerstore"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(dbConn); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database schema up to date")

	redisOpt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to parse Redis URL", slog.Any("error", err))
		os.Exit(1)
	}
	timers := timerstore.NewRedisStore(redisOpt)
	logger.Info("countdown store initialized")

	// Event-log archiving is optional; without R2 credentials completed
	// auctions simply keep their events in Postgres only.
	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("R2 archiving disabled: credentials not configured")
	}

	wsHub := live.NewHub()

	auctionRepo := repositories.NewPostgresAuctionRepository(dbConn)
	queueRepo := repositories.NewPostgresQueueRepository(dbConn)
	bidRepo := repositories.NewPostgresBidRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	autoBidRepo := repositories.NewPostgresAutoBidRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	notificationRepo := repositories.NewPostgresNotificationRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	logger.Info("repositories initialized")

	recorder := services.NewEventRecorder(eventRepo, logger)
	locks := services.NewLotLocker()

	var archiver services.AuctionArchiver
	if uploader != nil {
		archiver = services.NewArchiveService(eventRepo, uploader, logger)
	}

	bidService := services.NewBidService(
		dbConn,
		auctionRepo,
		queueRepo,
		bidRepo,
		teamRepo,
		playerRepo,
		autoBidRepo,
		notificationRepo,
		timers,
		wsHub,
		recorder,
		locks,
		logger,
	)
	auctionService := services.NewAuctionService(
		dbConn,
		auctionRepo,
		queueRepo,
		bidRepo,
		teamRepo,
		playerRepo,
		autoBidRepo,
		tournamentRepo,
		timers,
		wsHub,
		recorder,
		locks,
		archiver,
		logger,
	)
	autoBidService := services.NewAutoBidService(autoBidRepo, queueRepo)
	timerService := services.NewTimerService(timers, wsHub, logger)
	timerService.SetExpiryHandler(auctionService.FinalizeCurrentPlayer)
	logger.Info("services initialized")

	auth := middleware.NewAuthenticator(cfg.JWTSecretKey)

	router := api.InitRoutes(api.Handlers{
		Auctions:  handlers.NewAuctionHandler(auctionService),
		Bids:      handlers.NewBidHandler(bidService),
		Timers:    handlers.NewTimerHandler(timerService),
		AutoBids:  handlers.NewAutoBidHandler(autoBidService),
		WebSocket: handlers.NewWebSocketHandler(wsHub, auctionService, teamRepo, auth),
	}, auth)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		wsHub.Run(groupCtx)
		return nil
	})
	group.Go(func() error {
		timerService.Run(groupCtx)
		return nil
	})
	group.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}
