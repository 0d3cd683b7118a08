package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mealbook/internal/client"
	"mealbook/internal/config"
	"mealbook/internal/grocery"
	"mealbook/internal/planner"
	"mealbook/internal/storage"
	"mealbook/internal/store"
	"mealbook/internal/telegram"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN environment variable not set")
	}

	ctx := context.Background()

	st, err := storage.NewStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	apiCli := client.New(cfg.APIBaseURL)
	session := store.NewSession(apiCli, st)
	recipes := store.NewRecipes(apiCli)
	follows := store.NewFollow(apiCli, session)

	if cfg.BotEmail != "" && cfg.BotPassword != "" {
		if err := session.Login(ctx, cfg.BotEmail, cfg.BotPassword); err != nil {
			log.Fatalf("Failed to log in to the API: %v", err)
		}
		log.Printf("Logged in as %s", session.User.Email)

		if err := follows.FetchFollowing(ctx, session.User.ID); err != nil {
			log.Printf("Warning: could not load follow data: %v", err)
		}
	}

	planStore, err := planner.NewStore(st, time.Now())
	if err != nil {
		log.Fatalf("Failed to initialize plan store: %v", err)
	}

	groceryStore, err := grocery.NewStore(st)
	if err != nil {
		log.Fatalf("Failed to initialize grocery store: %v", err)
	}

	bot, err := telegram.NewBot(cfg, apiCli, session, recipes, follows, planStore, groceryStore)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Bot webhook server listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down bot...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Bot exited.")
}
