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

	"cloud.google.com/go/firestore"
	gcsstorage "cloud.google.com/go/storage"
	"connectrpc.com/connect"
	"github.com/castlemilk/agenda/backend/internal/archive"
	"github.com/castlemilk/agenda/backend/internal/auth"
	"github.com/castlemilk/agenda/backend/internal/config"
	"github.com/castlemilk/agenda/backend/internal/cooldown"
	"github.com/castlemilk/agenda/backend/internal/logging"
	"github.com/castlemilk/agenda/backend/internal/scheduler"
	"github.com/castlemilk/agenda/backend/internal/service"
	"github.com/castlemilk/agenda/backend/internal/store"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.Init("agenda", cfg.Log.Level)

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var storeImpl store.Store
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pg, err := store.OpenPostgres(ctx, cfg.Store.PostgresDSN)
		if err != nil {
			return err
		}
		defer pg.Close()
		storeImpl = pg
		slog.Info("using postgres store")
	case config.DriverFirestore:
		client, err := firestore.NewClient(ctx, cfg.Store.FirestoreProject)
		if err != nil {
			return fmt.Errorf("create firestore client: %w", err)
		}
		defer client.Close()
		storeImpl = store.NewFirestoreStore(client)
		slog.Info("using firestore store", "project", cfg.Store.FirestoreProject)
	default:
		storeImpl = store.NewMemoryStore()
		slog.Info("using in-memory store for local development")
	}

	// Debug interceptor first so impersonation works before the mock user
	// is filled in.
	interceptors := []connect.Interceptor{auth.DebugAuthInterceptor(cfg.Auth.Skip)}
	if cfg.Auth.Skip {
		slog.Warn("auth skipped; requests run as the impersonated or local dev owner")
		interceptors = append(interceptors, auth.LocalDevInterceptor())
	} else {
		firebaseAuth, err := auth.NewFirebaseAuth(ctx, cfg.Auth.FirebaseProject, cfg.Auth.CredentialsFile)
		if err != nil {
			return fmt.Errorf("initialize firebase auth: %w", err)
		}
		interceptors = append(interceptors, auth.AuthInterceptor(firebaseAuth))
	}

	opts := []service.Option{
		service.WithWindows(cfg.Engine.AppointmentWindowDays, cfg.Engine.FinancialWindowDays),
		service.WithReconcileCooldown(cooldown.New(cfg.Engine.ReconcileCooldown)),
		service.WithSubscriptionGate(cfg.Auth.RequireSubscription),
	}
	if loc, err := time.LoadLocation(cfg.Engine.DefaultTimezone); err == nil {
		opts = append(opts, service.WithDefaultLocation(loc))
	}
	if cfg.Archive.Bucket != "" {
		gcs, err := gcsstorage.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("create storage client: %w", err)
		}
		defer gcs.Close()
		opts = append(opts, service.WithReportSink(archive.NewGCSSink(gcs.Bucket(cfg.Archive.Bucket), cfg.Archive.Prefix)))
		slog.Info("archiving run reports", "bucket", cfg.Archive.Bucket, "prefix", cfg.Archive.Prefix)
	}
	svc := service.NewSchedulingService(storeImpl, opts...)

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(svc, cfg.Scheduler.Spec, slog.Default())
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	path, handler := service.NewSchedulingServiceHandler(svc, connect.WithInterceptors(interceptors...))

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Connect-Protocol-Version",
			"Connect-Timeout-Ms",
			"Content-Type",
			"User-Agent",
			"X-User-Agent",
			"X-Debug-Impersonate-User",
		},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           h2c.NewHandler(c.Handler(mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
