package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/choreboard/choreboard/internal/backup"
	"github.com/choreboard/choreboard/internal/database"
	"github.com/choreboard/choreboard/internal/logging"
	"github.com/choreboard/choreboard/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := logging.Setup(os.Getenv("CHOREBOARD_LOG_LEVEL"))

	port := getEnv("CHOREBOARD_PORT", "8080")
	dbPath := getEnv("CHOREBOARD_DB_PATH", "choreboard.db")

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv, err := server.New(db, logger)
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	backupCfg := backup.Config{
		Dir:        os.Getenv("CHOREBOARD_BACKUP_DIR"),
		Interval:   getEnvDuration("CHOREBOARD_BACKUP_INTERVAL", 24*time.Hour),
		Passphrase: os.Getenv("CHOREBOARD_BACKUP_PASSPHRASE"),
		Keep:       getEnvInt("CHOREBOARD_BACKUP_KEEP", 14),
	}
	backupMgr := backup.NewManager(backupCfg, srv.Ledger(), logger.With("component", "backup"))

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Printf("ChoreBoard running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := backupMgr.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		// Expired rate-limit windows pile up without an occasional sweep.
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-gctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		fmt.Println("\nShutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("exited with error", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
