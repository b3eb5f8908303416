package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecgard/brofit/internal/activity"
	"github.com/alecgard/brofit/internal/api"
	"github.com/alecgard/brofit/internal/booking"
	"github.com/alecgard/brofit/internal/catalog"
	"github.com/alecgard/brofit/internal/config"
	"github.com/alecgard/brofit/internal/crypto"
	"github.com/alecgard/brofit/internal/membership"
	"github.com/alecgard/brofit/internal/metrics"
	"github.com/alecgard/brofit/internal/ratelimit"
	"github.com/alecgard/brofit/internal/user"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the BroFit API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	slog.Info("connected to database")

	cipher, err := crypto.NewCipher(cfg.Encryption.Key)
	if err != nil {
		return err
	}
	if cipher == nil {
		slog.Warn("no encryption key configured, billing references stored unencrypted")
	}

	userStore := user.NewStore(pool, cfg.Session.TTL)
	catalogStore := catalog.NewStore(pool)
	membershipStore := membership.NewPGStore(pool)
	bookingStore := booking.NewPGStore(pool)
	activityStore := activity.NewStore(pool)

	collector := activity.NewCollector(activityStore, cfg.Activity.BatchSize, cfg.Activity.FlushInterval)
	go collector.Start(ctx)

	membershipSvc := membership.NewService(membershipStore, catalogStore, cipher)
	bookingSvc := booking.NewService(bookingStore, membershipSvc, catalogStore)

	m := metrics.New()
	m.RegisterDBPoolCollector(func() (total, idle, acquired int32) {
		stat := pool.Stat()
		return stat.TotalConns(), stat.IdleConns(), stat.AcquiredConns()
	})

	userLimiter := ratelimit.New(cfg.RateLimit.Default, cfg.RateLimit.Window)
	loginLimiter := ratelimit.New(cfg.RateLimit.Login, cfg.RateLimit.Window)

	// Expired sessions are cleaned periodically in the background.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := userStore.CleanExpiredSessions(ctx); err != nil {
					slog.Error("session cleanup failed", "error", err)
				} else if n > 0 {
					slog.Info("cleaned expired sessions", "count", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	router := api.NewRouter(api.RouterDeps{
		Accounts:       userStore,
		Sessions:       user.NewAuthAdapter(userStore),
		Memberships:    membershipSvc,
		Bookings:       bookingSvc,
		Catalog:        catalogStore,
		Feed:           activityStore,
		Activity:       collector,
		Metrics:        m,
		LoginLimiter:   loginLimiter,
		UserLimiter:    userLimiter,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		DBPing:         pool.Ping,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	collector.Stop()

	return srv.Shutdown(shutdownCtx)
}
