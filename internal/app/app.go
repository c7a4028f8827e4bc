package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tradelink_backend/internal/auth"
	"tradelink_backend/internal/config"
	"tradelink_backend/internal/email"
	"tradelink_backend/internal/handlers"
	"tradelink_backend/internal/logger"
	"tradelink_backend/internal/middleware"
	"tradelink_backend/internal/models"
	"tradelink_backend/internal/repositories"
	"tradelink_backend/internal/routes"
	"tradelink_backend/internal/services"
	"tradelink_backend/internal/workers"
)

// App holds the wired application.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB

	digestWorker *workers.DigestWorker
	cfg          *config.Config
}

// New loads config, connects the database, runs migrations and wires the
// full handler graph.
func New() (*App, error) {
	config.LoadConfig()
	cfg := config.GetConfig()

	logger.Init(cfg.Server.Env)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	subscriptionRepo := repositories.NewSubscriptionRepository(db)
	certificationRepo := repositories.NewCertificationRepository(db)
	contentReportRepo := repositories.NewContentReportRepository(db)

	if err := seedFirstAdmin(cfg, userRepo, profileRepo); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	analyticsService := services.NewAnalyticsService(
		profileRepo, jobRepo, applicationRepo, messageRepo,
		subscriptionRepo, certificationRepo, contentReportRepo,
	)
	authService := services.NewAuthService(userRepo, profileRepo)

	authHandler := handlers.NewAuthHandler(authService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))

	routes.SetupRoutes(router, authHandler, analyticsHandler)

	app := &App{Router: router, DB: db, cfg: cfg}

	if cfg.Digest.Enabled {
		provider := email.NewSMTPProvider(cfg)
		interval := time.Duration(cfg.Digest.IntervalH) * time.Hour
		app.digestWorker = workers.NewDigestWorker(analyticsService, provider, cfg.Digest.Recipient, interval)
	}

	return app, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Profile{},
		&models.JobPosting{},
		&models.Application{},
		&models.Message{},
		&models.SubscriptionPlan{},
		&models.Subscription{},
		&models.Certification{},
		&models.ContentReport{},
	)
}

// Run starts background workers and serves HTTP until the listener fails.
func (a *App) Run(ctx context.Context) error {
	if a.digestWorker != nil {
		go a.digestWorker.Run(ctx)
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	logger.Info("server starting", "addr", addr)
	return a.Router.Run(addr)
}

// seedFirstAdmin creates the bootstrap admin account when configured and not
// already present.
func seedFirstAdmin(cfg *config.Config, userRepo repositories.UserRepository, profileRepo repositories.ProfileRepository) error {
	if cfg.Admin.FirstAdminEmail == "" || cfg.Admin.FirstAdminPassword == "" {
		return nil
	}

	_, err := userRepo.FindByEmail(cfg.Admin.FirstAdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.Admin.FirstAdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        cfg.Admin.FirstAdminEmail,
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
		IsVerified:   true,
	}
	if err := userRepo.Create(admin); err != nil {
		return err
	}

	profile := &models.Profile{
		UserID: admin.ID,
		Name:   "Administrator",
		Role:   models.UserRoleAdmin,
	}
	if err := profileRepo.Create(profile); err != nil {
		return err
	}

	logger.Info("first admin seeded", "email", cfg.Admin.FirstAdminEmail)
	return nil
}
