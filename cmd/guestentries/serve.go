package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-guestentries/internal/di"
	"github.com/spf13/cobra"
)

var addr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the guest entry form endpoints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if addr != "" {
			cfg.Server.Addr = addr
		}

		container, err := di.NewContainer(cfg)
		if err != nil {
			return err
		}
		defer container.Close()

		handler, err := container.Handler()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := &http.Server{Addr: cfg.Server.Addr, Handler: handler}
		errs := make(chan error, 1)
		go func() {
			container.Logger().Info("server.listen", "addr", cfg.Server.Addr, "base", cfg.Routes.Base)
			errs <- server.ListenAndServe()
		}()

		select {
		case err := <-errs:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		container.Logger().Info("server.shutdown")
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.addr")
	rootCmd.AddCommand(serveCmd)
}
