package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/QTest-hq/qskel/internal/api"
	"github.com/QTest-hq/qskel/internal/config"
)

func (a *app) serveCmd() *cobra.Command {
	var (
		port       int
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation endpoint over HTTP",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != 0 {
				a.cfg.Port = port
			}

			project := config.DefaultProjectConfig()
			if configPath != "" {
				loaded, err := config.LoadProjectConfigFile(configPath)
				if err != nil {
					return err
				}
				project = loaded
			}

			srv, err := api.NewServer(a.cfg, project, a.gen)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			httpServer := &http.Server{
				Addr:         fmt.Sprintf(":%d", a.cfg.Port),
				Handler:      srv.Router(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			return serve(httpServer)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (default: QSKEL_PORT or 8080)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Project config file supplying default options")

	return cmd
}

// serve runs httpServer until SIGINT or SIGTERM, then shuts it down
// gracefully
func serve(httpServer *http.Server) error {
	done := make(chan error, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		<-quit
		log.Info().Msg("server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		done <- httpServer.Shutdown(ctx)
	}()

	log.Info().Str("addr", httpServer.Addr).Msg("starting API server")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not listen on %s: %w", httpServer.Addr, err)
	}

	if err := <-done; err != nil {
		return fmt.Errorf("could not gracefully shutdown the server: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
