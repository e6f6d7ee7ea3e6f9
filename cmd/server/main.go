package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mizuki-f/topic-insight/internal/application"
	"github.com/mizuki-f/topic-insight/internal/transport/server"
)

var (
	Version   string = "dev"
	Commit    string = "unknown"
	BuildTime string = "unknown"
)

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showHelp {
		fmt.Printf("Topic Insight Server\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nEnvironment Variables:\n")
		fmt.Printf("  GEMINI_API_KEY          Gemini API key (required)\n")
		fmt.Printf("  REDDIT_CLIENT_ID        Reddit app client id (optional, enables Reddit source)\n")
		fmt.Printf("  REDDIT_CLIENT_SECRET    Reddit app client secret\n")
		fmt.Printf("  SEARCH_API_KEY          Programmable Search API key (optional, enables web source)\n")
		fmt.Printf("  SEARCH_ENGINE_ID        Programmable Search engine id\n")
		fmt.Printf("  AUTH_TOKEN              Bearer token for the HTTP API (optional)\n")
		fmt.Printf("  PORT                    Server port (default: 8080)\n")
		fmt.Printf("  HOST                    Server host (default: 0.0.0.0)\n")
		fmt.Printf("  CACHE_TYPE              Cache type: memory or cloud-storage (default: memory)\n")
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("Topic Insight Server\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := application.New(ctx)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer app.Close()

	router := server.NewRouter(app)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", app.Config.Host, app.Config.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // synthesis calls are slow
		IdleTimeout:  60 * time.Second,
	}

	// Periodic cache sweep so expired analyses do not pile up
	c := cron.New()
	if _, err := c.AddFunc("@every 30m", func() {
		if err := app.Cache.Cleanup(ctx); err != nil {
			log.Printf("❌ Cache cleanup failed: %v", err)
		}
	}); err != nil {
		log.Printf("❌ Failed to schedule cache cleanup: %v", err)
	}
	c.Start()
	defer c.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("🚀 Starting server on %s:%s", app.Config.Host, app.Config.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-sigChan
	log.Printf("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
	}

	log.Printf("✅ Server stopped")
}
