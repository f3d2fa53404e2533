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

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/groupsync/internal/auth"
	"github.com/mmynk/groupsync/internal/config"
	"github.com/mmynk/groupsync/internal/groups"
	"github.com/mmynk/groupsync/internal/matrix"
	"github.com/mmynk/groupsync/internal/middleware"
	"github.com/mmynk/groupsync/internal/reconcile"
	"github.com/mmynk/groupsync/internal/service"
	"github.com/mmynk/groupsync/internal/session"
	"github.com/mmynk/groupsync/internal/storage/sqlite"
	"github.com/mmynk/groupsync/pkg/api"
	"github.com/mmynk/groupsync/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "groupsync: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	envFile := pflag.String("env-file", "", "path to a .env file (default: ./.env if present)")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.Setup(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	// Connect to the homeserver as the bot
	client, err := matrix.NewClient(matrix.ClientConfig{
		HomeserverURL: cfg.HomeserverURL,
		HTTPClient:    &http.Client{Timeout: cfg.RequestTimeout},
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	bot, err := client.SessionFromToken(cfg.AccessToken)
	if err != nil {
		return err
	}
	botID, err := bot.WhoAmI(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify matrix access token: %w", err)
	}
	domain := cfg.Domain
	if domain == "" {
		domain = botID.Server()
	}
	logger.Info("Matrix session ready", "user_id", botID, "homeserver", cfg.HomeserverURL, "domain", domain)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	engine := reconcile.NewEngine(store, bot, logger, registry)
	runner := session.NewRunner(store, engine, logger)
	manager := groups.NewManager(runner, bot, domain, logger)

	// Register Connect services
	var interceptors []connect.Interceptor
	var authHandler api.AuthServiceHandler = api.UnimplementedAuthServiceHandler{}
	if cfg.AuthEnabled() {
		authenticator, err := auth.NewOperatorAuthenticator(cfg.OperatorName, cfg.OperatorPasswordHash)
		if err != nil {
			return err
		}
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
		authHandler = service.NewAuthService(authenticator, jwtManager, logger)
		interceptors = append(interceptors, middleware.RequireAuth(jwtManager,
			api.AuthServiceLoginProcedure,
			api.GroupServicePingProcedure,
		))
	} else {
		logger.Warn("ADMIN_JWT_SECRET is not set, admin API is unauthenticated")
	}
	interceptors = append(interceptors, middleware.LoggingInterceptor(logger))
	handlerOpts := connect.WithInterceptors(interceptors...)

	mux := http.NewServeMux()

	authPath, authRPC := api.NewAuthServiceHandler(authHandler, handlerOpts)
	mux.Handle(authPath, authRPC)

	groupPath, groupRPC := api.NewGroupServiceHandler(service.NewGroupService(manager, logger), handlerOpts)
	mux.Handle(groupPath, groupRPC)

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := manager.Ping(r.Context()); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h2c.NewHandler(loggingMiddleware(logger, mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", cfg.ListenAddr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	client.CloseIdleConnections()
	return nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
