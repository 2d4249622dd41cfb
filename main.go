package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/tallyboard/cliparse"
	"github.com/danielhkuo/tallyboard/db"
	"github.com/danielhkuo/tallyboard/middleware"
	"github.com/danielhkuo/tallyboard/router"
	"github.com/danielhkuo/tallyboard/tally"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the storage backend
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	backend, err := db.Open(ctx, cfg, slog.Default())
	cancel()
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "type", cfg.DatabaseType)

	store := tally.New(backend, tally.Config{PrivilegedCallers: cfg.PrivilegedCallers}, slog.Default())
	defer store.Close()

	if len(cfg.PrivilegedCallers) == 0 {
		slog.Info("No privileged callers configured; back-filling is disabled")
	}

	// Create router
	mux := router.NewRouter(store, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
