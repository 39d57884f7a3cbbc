package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"skeleton/internal/app"
	"skeleton/internal/httpapi"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		addr        string
		localesDir  string
		maintenance bool
	)
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the application over HTTP",
		Example: "  skeleton serve --addr :8080 --locales-dir ./locales",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if localesDir != "" {
				cfg.LocalesDir = localesDir
			}
			if cmd.Flags().Changed("maintenance") {
				cfg.Maintenance = maintenance
			}
			log, err := newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}

			a, err := app.New(cfg, log)
			if err != nil {
				return err
			}

			httpapi.SetLogger(log.With().Str("component", "http").Logger())
			if os.Getenv("SKELETON_HTTP_LOG_LEVEL") == "" {
				httpapi.SetDefaultLogLevel("info")
			}
			httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
			httpapi.SetRequestTimeoutSeconds(int64(cfg.RequestTimeoutSec))
			httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, nil)

			// In-flight requests are canceled only once shutdown gave up waiting.
			base, cancelBase := context.WithCancel(context.Background())
			defer cancelBase()
			httpapi.SetBaseContext(base)

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           httpapi.NewMux(a, a.Handler()),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Addr).Str("default_locale", cfg.DefaultLocale).Bool("maintenance", cfg.Maintenance).Msg("skeleton listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.SetReady(false)
			log.Info().Msg("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				log.Warn().Err(err).Msg("graceful shutdown error")
			}
			cancelBase()
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address, e.g. :8080 (defaults SKELETON_ADDR or :8080)")
	cmd.Flags().StringVar(&localesDir, "locales-dir", "", "Directory of <locale>.yaml|json|toml catalogs")
	cmd.Flags().BoolVar(&maintenance, "maintenance", false, "Start in maintenance mode (every action answers 503)")
	return cmd
}
