package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mossy-p/peercall/config"
	"github.com/mossy-p/peercall/internal/handlers"
	"github.com/mossy-p/peercall/internal/redis"
	"github.com/mossy-p/peercall/internal/signaling"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to Redis when a presence mirror is configured
	var presence signaling.PresenceStore
	if cfg.Redis.Addr != "" {
		if err := redis.Connect(cfg.Redis); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redis.Close()
		presence = redis.NewPresenceMirror(redis.GetClient())
		log.Println("Redis connection established, presence mirror enabled")
	}

	// Signaling hub
	hub := signaling.NewHub(signaling.Options{
		Presence:       presence,
		PendingCallTTL: cfg.PendingCallTTL,
	})
	go hub.Run()
	defer hub.Stop()

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Global CORS middleware (runs before routing)
	router.Use(handlers.OriginFilter(cfg.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Service status
	router.GET("/api/status", handlers.Status(hub))

	// WebSocket signaling endpoint
	router.GET("/ws", handlers.HandleSignaling(hub))

	// Browser client
	router.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.StaticDir))))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting signaling server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	log.Println("Server closed")
}
