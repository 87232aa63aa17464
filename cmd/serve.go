package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"landscout/server"
	"landscout/services"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the configured snapshot and serve the dashboard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pipeline := newPipeline()
		boot := services.NewBootstrapper(pipeline, newRetry(), logger)

		src, closeSrc, err := openSource(ctx, "")
		if err != nil {
			return err
		}
		defer closeSrc()

		// A failed initial load is not fatal: the API reports the failed state
		// and a snapshot can still be loaded through it.
		_, _ = boot.Run(ctx, src)

		addr := serveAddr
		if addr == "" {
			addr = cfg.ServerAddr
		}
		srv := server.New(pipeline, boot, logger, server.Options{
			SnapshotDir:    cfg.SnapshotDir,
			SheetName:      cfg.SheetName,
			AllowedOrigins: cfg.AllowedOrigins,
		}).HTTPServer(addr)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("[server] Listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			logger.Info("[server] Shutting down")
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address; defaults to SERVER_ADDR")
	rootCmd.AddCommand(serveCmd)
}
