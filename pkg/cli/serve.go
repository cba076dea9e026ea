package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/launchboard/pkg/cli/config"
	controller "github.com/secmon-lab/launchboard/pkg/controller/http"
	"github.com/secmon-lab/launchboard/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		datasetCfg   config.Dataset
		dashboardCfg config.Dashboard
	)

	flags := joinFlags(
		serverCfg.Flags(),
		datasetCfg.Flags(),
		dashboardCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the dashboard HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting launchboard server",
				slog.Any("server", serverCfg),
				slog.Any("dataset", datasetCfg),
				slog.Any("dashboard", dashboardCfg),
			)

			dashboard, err := configureDashboard(ctx, &datasetCfg, &dashboardCfg)
			if err != nil {
				return err
			}

			sessions := usecase.NewSessions(dashboard, usecase.WithSessionTTL(serverCfg.SessionTTL))

			pruneCtx, stopPruner := context.WithCancel(ctx)
			defer stopPruner()
			go sessions.RunPruner(pruneCtx, time.Minute)

			server, err := controller.NewServer(ctx, serverCfg.Addr, dashboard, sessions)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown. Open event streams end with their request context.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

// configureDashboard loads the dataset and the dashboard settings. A dataset
// that cannot be loaded stops the command before anything is served.
func configureDashboard(ctx context.Context, datasetCfg *config.Dataset, dashboardCfg *config.Dashboard) (*usecase.Dashboard, error) {
	dataset, err := datasetCfg.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load dataset")
	}

	settings, err := dashboardCfg.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load dashboard settings")
	}

	dashboard, err := usecase.NewDashboard(dataset, settings)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create dashboard")
	}

	return dashboard, nil
}
