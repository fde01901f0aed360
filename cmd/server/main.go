package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"agro-market.backend/internal/config"
	"agro-market.backend/internal/infrastructure/jobs"
	"agro-market.backend/internal/infrastructure/models"
	"agro-market.backend/internal/infrastructure/repositories"
	"agro-market.backend/internal/infrastructure/verifier"
	"agro-market.backend/internal/interfaces/http/handlers"
	"agro-market.backend/internal/interfaces/http/middleware"
	"agro-market.backend/internal/usecases"
	"agro-market.backend/pkg/jwt"
	"agro-market.backend/pkg/logger"
	"agro-market.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	migrate   = func(db *gorm.DB) error { return db.AutoMigrate(models.All()...) }
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(context.Background(), "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		logger.Info(context.Background(), "Connected to PostgreSQL via GORM")
		if cfg.Database.AutoMigrate {
			if err := migrate(db); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			logger.Info(context.Background(), "Database schema migrated")
		}
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	favoriteRepo := repositories.NewFavoriteRepository(db)
	listingRepo := repositories.NewListingRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	intentRepo := repositories.NewPaymentIntentRepository(db)
	ratingRepo := repositories.NewRatingRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	membershipRepo := repositories.NewMembershipRepository(db)
	assignmentRepo := repositories.NewMembershipAssignmentRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService, redis.NewTokenBlocklist(), cfg.Marketplace.DailyListingLimit)
	userUsecase := usecases.NewUserUsecase(userRepo)
	catalogUsecase := usecases.NewCatalogUsecase(categoryRepo, productRepo, favoriteRepo)
	listingUsecase := usecases.NewListingUsecase(listingRepo, productRepo, userRepo, uow)
	orderUsecase := usecases.NewOrderUsecase(orderRepo, userRepo, listingRepo)
	paymentUsecase := usecases.NewPaymentUsecase(intentRepo, orderRepo, uow, verifier.NewStubVerifier(cfg.Payment.VerifierAccept), cfg.Payment.QRExpiry)
	reputationUsecase := usecases.NewReputationUsecase(ratingRepo, orderRepo, userRepo, cfg.Marketplace.RankingMinRatings)
	commentUsecase := usecases.NewCommentUsecase(commentRepo, productRepo, listingRepo, userRepo)
	membershipUsecase := usecases.NewMembershipUsecase(membershipRepo, assignmentRepo, userRepo, uow)

	// Background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweepJobs := []*jobs.ExpiryJob{
		jobs.NewExpiryJob("payment_intent", jobs.SweeperFunc(paymentUsecase.SweepExpired), cfg.Jobs.SweepInterval),
		jobs.NewExpiryJob("membership", jobs.SweeperFunc(membershipUsecase.SweepExpired), cfg.Jobs.SweepInterval),
	}
	for _, job := range sweepJobs {
		go job.Start(ctx)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:       handlers.NewAuthHandler(authUsecase, userUsecase, !cfg.IsProduction()),
		userHandler:       handlers.NewUserHandler(userUsecase),
		catalogHandler:    handlers.NewCatalogHandler(catalogUsecase),
		favoriteHandler:   handlers.NewFavoriteHandler(catalogUsecase),
		listingHandler:    handlers.NewListingHandler(listingUsecase),
		orderHandler:      handlers.NewOrderHandler(orderUsecase),
		paymentHandler:    handlers.NewPaymentHandler(paymentUsecase),
		ratingHandler:     handlers.NewRatingHandler(reputationUsecase),
		commentHandler:    handlers.NewCommentHandler(commentUsecase),
		membershipHandler: handlers.NewMembershipHandler(membershipUsecase),
		authMiddleware:    middleware.AuthMiddleware(jwtService, authUsecase),
	})

	for _, route := range r.Routes() {
		logger.Debug(context.Background(), "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(context.Background(), "Shutting down server")
		for _, job := range sweepJobs {
			job.Stop()
		}
		cancel()
	}()

	logger.Info(context.Background(), "Agro-market backend starting",
		zap.String("port", cfg.Server.Port),
		zap.String("api", "http://localhost:"+cfg.Server.Port+"/api/v1"),
	)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
