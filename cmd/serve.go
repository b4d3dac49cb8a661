// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/ieee-cs-bmsit/soc-insights/internal/config"
	"github.com/ieee-cs-bmsit/soc-insights/internal/database"
	"github.com/ieee-cs-bmsit/soc-insights/internal/domain"
	"github.com/ieee-cs-bmsit/soc-insights/internal/gateway"
	"github.com/ieee-cs-bmsit/soc-insights/internal/handler"
	"github.com/ieee-cs-bmsit/soc-insights/internal/repository"
	"github.com/ieee-cs-bmsit/soc-insights/internal/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the dashboard API server",
	Long: `Starts the HTTP server exposing the per-user dashboard and the admin
day-window pull request search. Requires a Postgres database holding the
registered users and tracked repositories.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := logrus.New()
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})

		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		coreLogger := log.New(io.Discard, "", log.LstdFlags)
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
			coreLogger.SetOutput(os.Stderr)
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			logger.Warnf(".env not found: %v", err)
		}

		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			logger.Fatalf("Database connection failed: %v", err)
		}
		defer db.Close()
		logger.Info("Database connected")

		// One token bucket for the whole process: every gateway, per-user
		// or service-wide, draws from the same outbound request budget.
		limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestsPerSecond)

		adminGateway, err := gateway.NewGitHubGateway(cfg.GitHubToken, limiter, coreLogger)
		if err != nil {
			logger.Fatalf("Failed to create GitHub gateway: %v", err)
		}
		newFetcher := func(token string) (gateway.Fetcher, error) {
			return gateway.NewGitHubGateway(token, limiter, coreLogger)
		}

		userRepo := repository.NewUserRepository(db)
		repoRepo := repository.NewRepoRepository(db)
		reportRepo := repository.NewReportRepository(db)

		eventRepo := domain.RepoFilter{Owner: cfg.EventOrg, Name: cfg.EventRepo}
		dashboardUC := usecase.NewDashboardUseCase(userRepo, reportRepo, newFetcher, eventRepo, logger, coreLogger, cfg.DetailConcurrency)
		adminUC := usecase.NewAdminUseCase(repoRepo, adminGateway, cfg.EventTag, coreLogger)

		e := echo.New()
		e.Use(middleware.Recover())
		e.Use(middleware.CORS())
		e.Use(handler.LoggingMiddleware(logger))

		dashboardHandler := handler.NewDashboardHandler(dashboardUC, logger)
		adminHandler := handler.NewAdminHandler(adminUC, logger)

		e.GET("/api/users/:userId/dashboard", dashboardHandler.GetUserDashboard)
		e.GET("/api/admin/dashboard", adminHandler.GetAdminDashboard)
		e.GET("/health", func(c echo.Context) error {
			return c.JSON(200, map[string]string{"status": "ok"})
		})

		go func() {
			if err := e.Start(":" + cfg.ServerPort); err != nil {
				logger.Infof("Server stopped: %v", err)
			}
		}()

		// Graceful shutdown
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		logger.Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := e.Shutdown(ctx); err != nil {
			logger.Fatalf("Shutdown failed: %v", err)
		}

		logger.Info("Server exited")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
