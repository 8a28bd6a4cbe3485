package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TWRT/company-portal/internal/api"
	"github.com/TWRT/company-portal/internal/client/portalapi"
	"github.com/TWRT/company-portal/internal/config"
	"github.com/TWRT/company-portal/internal/logging"
	"github.com/TWRT/company-portal/internal/repository"
	"github.com/TWRT/company-portal/internal/session"
)

const (
	sessionMaxIdle  = 30 * 24 * time.Hour
	sweepInterval   = time.Hour
	shutdownTimeout = 10 * time.Second
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "Company portal web front-end",
	Long: `Serves the company portal: the home dashboard, the tool page and the
per-assignee workpaper, all backed by the portal API.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the portal HTTP server",
	RunE:  runServe,
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Call the backend hello endpoint and print its message",
	RunE:  runPing,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (optional)")
	rootCmd.AddCommand(serveCmd, pingCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()
	logger.Info("database ready", zap.String("path", cfg.DBPath))

	router, err := api.SetupRouter(db, cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewManager(repository.NewSessionRepository(db), repository.NewFlashRepository(db), cfg.DefaultOwner)
	go sweepSessions(ctx, sessions, logger)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("portal listening",
			zap.String("addr", cfg.Addr),
			zap.String("backend", cfg.ProxyTarget+cfg.APIBase),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func sweepSessions(ctx context.Context, sessions *session.Manager, logger *zap.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.Sweep(sessionMaxIdle)
			if err != nil {
				logger.Warn("session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("expired idle sessions", zap.Int64("count", n))
			}
		}
	}
}

func runPing(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	c := portalapi.NewPortalClient(cfg.ProxyTarget, cfg.APIBase, cfg.BackendTimeout)
	resp, err := c.Hello(cmd.Context())
	if err != nil {
		return fmt.Errorf("ping %s: %w", c.BaseURL(), err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
	return nil
}
