package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stagecraft-app/stagecraft/internal/api"
	"github.com/stagecraft-app/stagecraft/internal/app/achievement"
	"github.com/stagecraft-app/stagecraft/internal/app/referral"
	"github.com/stagecraft-app/stagecraft/internal/app/streak"
	"github.com/stagecraft-app/stagecraft/internal/app/unlock"
	_ "github.com/stagecraft-app/stagecraft/internal/infra/metrics" // Register Prometheus metrics
	"github.com/stagecraft-app/stagecraft/internal/infra/sqlite"
)

// Daemon is the core Stagecraft runtime. It wires together all services.
type Daemon struct {
	Config       Config
	DB           *sqlite.DB
	Achievements *achievement.Store
	Gate         *unlock.Gate
	Streaks      *streak.Service
	Referrals    *referral.Service
	Server       *api.Server
	cancel       context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	storeDir := cfg.Store.Dir
	if storeDir == "" {
		storeDir = stagecraftHome()
	}
	db, err := sqlite.Open(storeDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	achievements := achievement.NewStore(db)
	gate := unlock.NewGate(db)
	streaks := streak.NewService(db)
	referrals := referral.NewService(db, cfg.Referral.RewardPercent)

	srv := api.NewServer(achievements, gate, streaks, referrals)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:       cfg,
		DB:           db,
		Achievements: achievements,
		Gate:         gate,
		Streaks:      streaks,
		Referrals:    referrals,
		Server:       srv,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("Stagecraft serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
