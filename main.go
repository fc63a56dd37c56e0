package main

import (
	"database/sql"
	"log"

	"maildash/internal/config"
	"maildash/internal/gmail"
	"maildash/internal/handler"
	"maildash/internal/logger"
	"maildash/internal/model"
	"maildash/internal/provider"
	"maildash/internal/repository"
	"maildash/internal/repository/memory"
	"maildash/internal/repository/postgres"
	"maildash/internal/router"
	"maildash/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Config validation failed:", err)
	}

	appLogger := logger.New()

	// User storage: postgres when DATABASE_URL is set, in-memory otherwise.
	var userRepo repository.UserRepository
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		if err := postgres.InitializeDatabase(db); err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		userRepo = postgres.NewPostgresUserRepository(db)
		appLogger.Info("Using PostgreSQL user repository")
	} else {
		userRepo = memory.NewInMemoryUserRepository()
		appLogger.Info("Using in-memory user repository")
	}

	authService := service.NewAuthService(userRepo, appLogger)

	emailService := service.NewEmailService(
		newProviderFactory(cfg, appLogger),
		service.Options{
			CacheMaxEntries: cfg.CacheMaxEntries,
			SummaryTTL:      cfg.SummaryTTL,
			SummaryTTLDemo:  cfg.SummaryTTLDemo,
			BodyTTL:         cfg.BodyTTL,
			BodyTTLDemo:     cfg.BodyTTLDemo,
			FetchMinChunk:   cfg.FetchMinChunk,
			FetchMaxChunk:   cfg.FetchMaxChunk,
		},
		appLogger,
	)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	authHandler := handler.NewAuthHandler(authService, cfg, e.Logger)
	emailHandler := handler.NewEmailHandler(emailService, authHandler, e.Logger)

	router.SetupRoutes(e, authHandler, emailHandler)

	appLogger.Info("Starting server on port", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		appLogger.Error("Server stopped:", err)
	}
}

// newProviderFactory routes each caller to a mail provider: demo users get
// the shared generated inbox (one instance, so its content and ETags stay
// stable), signed-in users get a Gmail client carrying their token.
func newProviderFactory(cfg *config.Config, appLogger *logger.Logger) service.ProviderFactory {
	mock := gmail.NewMockClient(cfg.MockMessageCount, cfg.MockFetchDelay)

	return func(user *model.User) (provider.MailProvider, error) {
		if user.IsMock {
			return mock, nil
		}
		if user.AccessToken == "" {
			return nil, &provider.Error{
				Kind:    provider.KindUnauthenticated,
				Message: "no access token on file for user " + user.ID,
			}
		}
		return gmail.NewClient(user.AccessToken, cfg.FetchTimeout, appLogger)
	}
}
