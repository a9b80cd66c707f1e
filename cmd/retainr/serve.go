package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/4thel00z/retainr/internal"
	"github.com/spf13/cobra"
)

func NewServeCmd(factory appFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE:  makeServeRunner(factory),
	}

	cmd.Flags().String("addr", "", "Listen address (overrides config)")
	return cmd
}

func makeServeRunner(factory appFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, err := factory(cmd)
		if err != nil {
			return err
		}

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = a.cfg.HTTP.Addr()
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           internal.NewServer(a.svc, a.logger).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()

		fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", addr)

		select {
		case <-cmd.Context().Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
	}
}
