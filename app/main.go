package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FirstTop/wb-reviews-agent/app/ai"
	"github.com/FirstTop/wb-reviews-agent/app/api"
	"github.com/FirstTop/wb-reviews-agent/app/cfg"
	"github.com/FirstTop/wb-reviews-agent/app/database"
	"github.com/FirstTop/wb-reviews-agent/app/editstate"
	"github.com/FirstTop/wb-reviews-agent/app/review"
	"github.com/FirstTop/wb-reviews-agent/app/tasks"
	"github.com/FirstTop/wb-reviews-agent/app/telegram"
	"github.com/FirstTop/wb-reviews-agent/app/wb"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appConfig.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting WB Reviews Agent", "version", appConfig.Version)

	db, err := database.NewConnection(appConfig.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	slog.Info("Database ready", "path", appConfig.DBPath, "schema_version", version, "dirty", dirty)

	// Repositories
	reviewRepo := database.NewReviewRepository(db)
	replyRepo := database.NewReplyRepository(db)
	notificationRepo := database.NewNotificationRepository(db)

	// Collaborators
	wbClient := wb.NewClient(appConfig.WBAPIURL, appConfig.WBAPIKey, appConfig.UserAgent)

	promptConfig, err := ai.LoadPromptConfig(appConfig.PromptFile)
	if err != nil {
		log.Fatal("Failed to load prompt configuration:", err)
	}
	aiClient := ai.NewClient(appConfig.OpenRouterAPIURL, appConfig.OpenRouterModel,
		appConfig.OpenRouterAPIKey, promptConfig)

	bot := telegram.NewBot(appConfig.TelegramAPIURL, appConfig.TelegramBotToken, appConfig.TelegramChatID)

	editTTL := time.Duration(appConfig.EditTTLMinutes) * time.Minute
	var editSessions review.EditSessions
	if appConfig.RedisAddr != "" {
		redisStore, err := editstate.NewRedisStore(appConfig.RedisAddr, editTTL)
		if err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		defer redisStore.Close()
		editSessions = redisStore
		slog.Info("Edit sessions stored in Redis", "addr", appConfig.RedisAddr)
	} else {
		editSessions = editstate.NewMemoryStore(editTTL)
		slog.Info("Edit sessions stored in process memory")
	}

	// Core lifecycle
	lifecycle := review.NewLifecycle(reviewRepo, replyRepo, notificationRepo,
		wbClient, aiClient, wbClient, bot, editSessions,
		time.Duration(appConfig.LookbackHours)*time.Hour)
	bot.SetDispatcher(lifecycle)

	// Telegram polling
	botCtx, botCancel := context.WithCancel(context.Background())
	defer botCancel()
	go bot.Run(botCtx)

	// Background scheduler
	slog.Info("Starting background scheduler", "workers", appConfig.WorkerCount, "interval_seconds", appConfig.SchedulerInterval)
	scheduler := tasks.NewScheduler(lifecycle)
	scheduler.Start()
	defer scheduler.Stop()

	// HTTP server
	apiHandler := api.NewHandler(reviewRepo, replyRepo, lifecycle)
	server := api.NewServer(apiHandler, appConfig.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("WB Reviews Agent started")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	botCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
