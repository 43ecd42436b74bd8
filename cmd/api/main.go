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

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pennywise/internal/auth"
	"github.com/MrJamesThe3rd/pennywise/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/pennywise/internal/budget/store"
	"github.com/MrJamesThe3rd/pennywise/internal/category"
	categoryStore "github.com/MrJamesThe3rd/pennywise/internal/category/store"
	"github.com/MrJamesThe3rd/pennywise/internal/config"
	"github.com/MrJamesThe3rd/pennywise/internal/database"
	"github.com/MrJamesThe3rd/pennywise/internal/export"
	pennywiseHttp "github.com/MrJamesThe3rd/pennywise/internal/http"
	authHandler "github.com/MrJamesThe3rd/pennywise/internal/http/auth"
	budgetHandler "github.com/MrJamesThe3rd/pennywise/internal/http/budget"
	categoryHandler "github.com/MrJamesThe3rd/pennywise/internal/http/category"
	exportHandler "github.com/MrJamesThe3rd/pennywise/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/pennywise/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/pennywise/internal/http/matching"
	reminderHandler "github.com/MrJamesThe3rd/pennywise/internal/http/reminder"
	txHandler "github.com/MrJamesThe3rd/pennywise/internal/http/transaction"
	"github.com/MrJamesThe3rd/pennywise/internal/importer"
	"github.com/MrJamesThe3rd/pennywise/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/pennywise/internal/matching/store"
	"github.com/MrJamesThe3rd/pennywise/internal/reminder"
	reminderStore "github.com/MrJamesThe3rd/pennywise/internal/reminder/store"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
	txStore "github.com/MrJamesThe3rd/pennywise/internal/transaction/store"
	"github.com/MrJamesThe3rd/pennywise/internal/user"
	userStore "github.com/MrJamesThe3rd/pennywise/internal/user/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(cfg.ConnectionString()); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var (
		userService        = user.NewService(userStore.New(db), auth.NewHasher(cfg.Auth.BcryptCost))
		categoryService    = category.NewService(categoryStore.New(db))
		transactionService = transaction.NewService(txStore.New(db), categoryService)
		budgetService      = budget.NewService(budgetStore.New(db), categoryService)
		reminderService    = reminder.NewService(reminderStore.New(db), categoryService, transactionService)
		matchingService    = matching.NewService(matchingStore.New(db), categoryService)
		importService      = importer.NewService(matchingService, transactionService)
		exportService      = export.NewService(transactionService)
	)

	router := pennywiseHttp.New(pennywiseHttp.Handlers{
		Auth:         authHandler.NewHandler(userService, tokens),
		Categories:   categoryHandler.NewHandler(categoryService),
		Transactions: txHandler.NewHandler(transactionService),
		Budgets:      budgetHandler.NewHandler(budgetService),
		Reminders:    reminderHandler.NewHandler(reminderService),
		Import:       importHandler.NewHandler(importService),
		Rules:        matchingHandler.NewHandler(matchingService),
		Export:       exportHandler.NewHandler(exportService),
	}, pennywiseHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Timeout:        cfg.Server.Timeout,
		Authenticate:   auth.Middleware(tokens, userService),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
