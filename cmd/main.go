package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"github.com/Zzzoorroo/Duo-Project/auth"
	"github.com/Zzzoorroo/Duo-Project/contract"
	"github.com/Zzzoorroo/Duo-Project/internal"
	"github.com/Zzzoorroo/Duo-Project/moderation"
	"github.com/Zzzoorroo/Duo-Project/observability"
	"github.com/Zzzoorroo/Duo-Project/repositories"
	"github.com/Zzzoorroo/Duo-Project/runtime"
	"github.com/Zzzoorroo/Duo-Project/runtime/workers"
	"github.com/Zzzoorroo/Duo-Project/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so that deferred cleanup (database close,
// graceful shutdown) always executes before the process exits.
func run() error {
	// 1. Configuration & logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	replacementChar, err := characterRune(config.ModerationCharReplacement)
	if err != nil {
		return err
	}

	// 2. Database (BadgerDB), synced writes so acknowledged messages are durable
	db, err := badger.Open(repositories.StoreOptions(config.BadgerFilepath))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	repository, err := repositories.NewMessageRepository(db, log)
	if err != nil {
		return err
	}
	defer func() { _ = repository.Close() }()

	// 3. Moderation & authentication policy
	words, err := moderation.LoadEmbeddedWords()
	if err != nil {
		return fmt.Errorf("loading censored words: %w", err)
	}
	moderator, err := moderation.NewModerator(words, replacementChar)
	if err != nil {
		return fmt.Errorf("building moderator: %w", err)
	}
	log.Info("Moderation ready", "censored_words", len(words))

	var authenticator contract.IAuthenticator = auth.AllowAll{}
	if config.AuthUsersFile != "" {
		authenticator, err = auth.LoadStaticCredentials(config.AuthUsersFile)
		if err != nil {
			return err
		}
		log.Info("Static credential policy enabled", "file", config.AuthUsersFile)
	}

	// 4. Core wiring
	registry := runtime.NewRegistry()
	monitor := observability.NewMonitor()
	hub := runtime.NewHub(log, registry, repository, authenticator, moderator,
		monitor, config.HistoryLimit, config.MaxContentLength)
	gateway := ws.NewGateway(log, hub, config.ConnectionBufferSize, config.MaxFrameBytes)

	// 5. Context, signals & supervised workers
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup := workers.NewSupervisor(log)
	sup.Add(workers.NewStorageGCWorker(db, config.GCInterval, log))
	sup.Add(workers.NewStatsWorker(log, config.StatsInterval, registry, monitor))

	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		sup.Run(ctx)
	}()

	if config.DebugPort > 0 {
		internal.StartDebugServer(db, config.DebugPort, func() map[string]any {
			stats := monitor.Snapshot()
			return map[string]any{
				"online":             registry.Count(),
				"messages_accepted":  stats.MessagesAccepted,
				"messages_persisted": stats.MessagesPersisted,
				"dropped_clients":    stats.DroppedClients,
				"started_at":         stats.StartedAt,
			}
		})
		log.Info("Debug inspector enabled", "url",
			fmt.Sprintf("http://localhost:%d/inspect", config.DebugPort))
	}

	// 6. HTTP server with the websocket gateway
	mux := http.NewServeMux()
	gateway.Routes(mux)
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{Addr: address, Handler: mux}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting chat relay", "address", address)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for stop or error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	sup.Stop()
	<-supervisorDone
	log.Info("Relay stopped cleanly")

	return nil
}
