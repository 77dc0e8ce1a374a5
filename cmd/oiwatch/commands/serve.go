package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/oiwatch/internal/api"
	"github.com/wonny/oiwatch/internal/api/handlers"
	"github.com/wonny/oiwatch/internal/board"
	"github.com/wonny/oiwatch/internal/dashboard"
	"github.com/wonny/oiwatch/internal/profile"
	"github.com/wonny/oiwatch/internal/scheduler"
	"github.com/wonny/oiwatch/internal/scheduler/jobs"
	"github.com/wonny/oiwatch/internal/session"
	"github.com/wonny/oiwatch/internal/snapshot"
	"github.com/wonny/oiwatch/pkg/httputil"
	"github.com/wonny/oiwatch/pkg/logger"
	"github.com/wonny/oiwatch/pkg/redis"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long: `Start the HTTP dashboard.

Every page view fetches a fresh snapshot, ranks it with the selected
profile and renders the current page of the visitor's session.

Endpoints:
  GET  /                 - Dashboard (query: profile, page)
  POST /refresh          - Reset the session page
  POST /page             - Jump to a page (form: page)
  GET  /api/board        - One page as JSON (query: profile, page)
  GET  /api/profiles     - Configured profiles
  GET  /api/status       - Snapshot source health
  GET  /health           - Health check

Example:
  go run ./cmd/oiwatch serve
  go run ./cmd/oiwatch serve --port 8080`,
	RunE: runServe,
}

var (
	servePort string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (default PORT env)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	// 2. Initialize logger
	log := logger.New(cfg)
	log.WithFields(map[string]interface{}{
		"port":   cfg.Port,
		"source": cfg.Source.URL,
	}).Info("Initializing dashboard server")

	// 3. Profiles
	profiles, err := profile.Resolve(cfg)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	hash, _ := profile.Hash(profiles)
	log.WithFields(map[string]interface{}{
		"profiles": profiles.Names(),
		"default":  profiles.Default,
		"hash":     hash,
	}).Info("Profiles loaded")

	// 4. Snapshot pipeline
	httpClient := httputil.New(cfg, log)
	loader := snapshot.NewLoader(httpClient, cfg.Source.URL, log)
	svc := board.NewService(loader, profiles, log)

	renderer, err := dashboard.NewRenderer()
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	// 5. Sessions
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	sessions := session.New(cfg, redisClient, log)

	// 6. Background jobs
	sched := scheduler.New(log)
	statusHandler := handlers.NewStatusHandler(nil, nil)
	if cfg.Monitor.Enabled {
		probe := jobs.NewSourceProbe(loader, loader.URL(), cfg.Monitor.Schedule, log)
		if err := sched.AddJob(probe); err != nil {
			return fmt.Errorf("schedule source probe: %w", err)
		}
		statusHandler = handlers.NewStatusHandler(probe, sched)
	}
	if mem, ok := sessions.(*session.MemoryStore); ok {
		if err := sched.AddJob(session.NewSweepJob(mem, log)); err != nil {
			return fmt.Errorf("schedule session sweep: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()
	if cfg.Monitor.Enabled {
		_ = sched.RunJob("source_probe")
	}

	// 7. Router and server
	router := api.NewRouter(api.Handlers{
		Dashboard: handlers.NewDashboardHandler(svc, renderer, sessions, cfg.Session.CookieName, cfg.Session.TTL, log),
		Board:     handlers.NewBoardHandler(svc, log),
		Status:    statusHandler,
	}, log)
	server := api.New(cfg, log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "\n✅ Dashboard running on http://localhost:%s\n", cfg.Port)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	// Wait for interrupt signal or a failed listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
