package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/oregondata/orschooldata/internal/app/controllers"
	appMigrations "github.com/oregondata/orschooldata/internal/app/migrations"
	appRepos "github.com/oregondata/orschooldata/internal/app/repositories"
	appRoutes "github.com/oregondata/orschooldata/internal/app/routes"
	appServices "github.com/oregondata/orschooldata/internal/app/services"
	"github.com/oregondata/orschooldata/internal/config"
	"github.com/oregondata/orschooldata/internal/db"
	"github.com/oregondata/orschooldata/internal/ingest"
	appMiddleware "github.com/oregondata/orschooldata/internal/middleware"
	pkgAuth "github.com/oregondata/orschooldata/internal/pkg/auth"
	"github.com/oregondata/orschooldata/internal/pkg/helpers"
	"github.com/oregondata/orschooldata/internal/pkg/logger"
	"github.com/oregondata/orschooldata/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	EnrollmentService    appServices.EnrollmentService
	DistrictService      appServices.DistrictService
	AuthController       *appControllers.AuthController
	EnrollmentController *appControllers.EnrollmentController
	DistrictController   *appControllers.DistrictController
	IngestController     *appControllers.IngestController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	Loader               *ingest.Loader
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Sample data keeps a fresh development database queryable.
	if strings.ToLower(cfg.Server.Mode) == "development" {
		if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.Auth.JWTSecret,
		AccessTokenExp: helpers.ParseDuration(cfg.Auth.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.Auth.Issuer,
	})

	deps.EnrollmentService = appServices.NewEnrollmentService(deps.Repos.EnrollmentRepository)
	deps.DistrictService = appServices.NewDistrictService(deps.Repos.DistrictRepository)

	deps.Loader = ingest.NewLoader(deps.Repos.EnrollmentRepository, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(
		deps.JWTService,
		cfg.Auth.AdminUsername,
		cfg.Auth.AdminPasswordHash,
	)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService)
	deps.DistrictController = appControllers.NewDistrictController(deps.DistrictService)
	deps.IngestController = appControllers.NewIngestController(deps.Loader, cfg.Data.Dir)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestID())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.EnrollmentController,
		deps.DistrictController,
		deps.IngestController,
		deps.AuthMiddleware,
	)

	return router
}
