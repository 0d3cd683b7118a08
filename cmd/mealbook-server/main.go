package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mealbook/internal/clipper"
	"mealbook/internal/config"
	"mealbook/internal/database"
	"mealbook/internal/metrics"
	"mealbook/internal/recipe"
	"mealbook/internal/server"
	"mealbook/internal/user"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	apiCfg := &server.APIConfig{
		Users:     user.NewRepository(db.SQL),
		Follows:   user.NewFollowRepository(db.SQL),
		Recipes:   recipe.NewRepository(db.SQL),
		Metrics:   metrics.NewStore(db.SQL),
		Clipper:   clipper.NewClipper(),
		JWTSecret: cfg.JWTSecret,
		DataDir:   cfg.DataDir,
	}

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: server.SetupMux(apiCfg),
	}

	go func() {
		log.Printf("Server listening on %s", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited.")
}
