package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expense_manager/internal/api/handlers/analytics"
	"expense_manager/internal/api/handlers/expenses"
	"expense_manager/internal/api/handlers/health"
	mw "expense_manager/internal/api/middlewares"
	"expense_manager/internal/api/routers"
	"expense_manager/internal/config"
	expensestore "expense_manager/internal/repositories/expenses"
	"expense_manager/internal/repositories/sqlconnect"
	"expense_manager/internal/services"
	"expense_manager/pkg/cron"
	"expense_manager/pkg/utils"

	robfig "github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		log.Fatalln(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, logCloser, err := utils.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	if cfg.DB.AutoMigrate {
		if err := migrate(cfg.DB); err != nil {
			logger.WithError(err).Error("DB migration failed")
			return err
		}
		logger.Info("DB schema up to date")
	}

	provider, err := sqlconnect.NewProvider(cfg.DB)
	if err != nil {
		logger.WithError(err).Error("DB provider setup failed")
		return err
	}
	defer provider.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DB.DialTimeout)
	err = provider.Ping(ctx)
	cancel()
	if err != nil {
		logger.WithError(err).Error("DB connection failed")
		return err
	}
	logger.WithField("pool_mode", cfg.DB.PoolMode).Info("Connected to MySQL")

	store := expensestore.NewStore(provider, logger)
	analyticsService := services.NewAnalyticsService(store)

	if cfg.Digest.Enabled {
		c, err := startDigest(cfg, analyticsService, logger)
		if err != nil {
			return err
		}
		defer c.Stop()
	}

	router := routers.MainRouter(routers.Handlers{
		Expenses:  expenses.NewHandler(store, logger),
		Analytics: analytics.NewHandler(analyticsService, logger),
		Health:    health.Handler(provider, logger),
	})

	middlewares := []func(http.Handler) http.Handler{mw.RequestLogger(logger), mw.SecurityHeaders}
	if cfg.Auth.Enabled() {
		middlewares = append(middlewares, mw.MiddlewaresExcludePaths(mw.JWTMiddleware(cfg.Auth.JWTSecret, logger), "/healthz"))
	}
	secureMux := mw.ApplyMiddlewares(router, middlewares...)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      secureMux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("tls", cfg.Server.TLSEnabled()).Infof("Server is running on port %s", cfg.Server.Port)
		if cfg.Server.TLSEnabled() {
			errCh <- server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Error starting the server")
			return err
		}
	case sig := <-stop:
		logger.WithField("signal", sig.String()).Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
	}
	return nil
}

func migrate(cfg config.DBConfig) error {
	db, err := sqlconnect.OpenDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return sqlconnect.RunMigrations(db)
}

func startDigest(cfg config.Config, analyticsService *services.AnalyticsService, logger *logrus.Logger) (*robfig.Cron, error) {
	var sender utils.Sender
	mailer, err := utils.NewMailer(cfg.SMTP, logger)
	switch {
	case err == nil:
		sender = mailer
	case errors.Is(err, utils.ErrMailerNotConfigured):
		logger.Warn("SMTP not configured, spending digest will only be logged")
	default:
		return nil, err
	}

	digest := cron.NewDigest(analyticsService, sender, cfg.Digest.Recipient, logger)
	return cron.StartCronJob(digest, cfg.Digest.Schedule, logger)
}
