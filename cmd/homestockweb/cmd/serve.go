package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockweb/internal/config"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockweb/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HomeStock web frontend",
	Long:  `Starts the HTTP server that renders the HomeStock pages and proxies calls to the API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		if cfg.Ephemeral() {
			logger.Warn("cookie keys not configured; generated random keys, sessions will not survive a restart")
		}

		hashKey, blockKey := cfg.CookieKeys()
		srvHandler, err := web.NewServer(web.Options{
			APIURL:        cfg.APIURL,
			HashKey:       hashKey,
			BlockKey:      blockKey,
			SecureCookies: cfg.SecureCookies,
			CORSOrigins:   cfg.CORSOrigins,
			Timeout:       cfg.Timeout,
			Logger:        logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create web server: %w", err)
		}

		srv := &http.Server{
			Addr:         cfg.Addr,
			Handler:      srvHandler.Handler(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: cfg.Timeout + 15*time.Second,
			IdleTimeout:  60 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting server", "addr", cfg.Addr, "api_url", cfg.APIURL)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down gracefully", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}

			logger.Info("server stopped")
			return nil
		}
	},
}

func init() {
	flags := serveCmd.Flags()
	flags.String("addr", ":8080", "Listen address")
	flags.String("api-url", "http://localhost:5000", "HomeStock API base URL")
	flags.Bool("secure-cookies", false, "Mark cookies Secure (serve behind HTTPS)")
	flags.StringSlice("cors-origins", nil, "Origins allowed to read /api/session")
	flags.Duration("timeout", 15*time.Second, "Timeout for each API call")

	for key, flag := range map[string]string{
		"addr":           "addr",
		"api_url":        "api-url",
		"secure_cookies": "secure-cookies",
		"cors_origins":   "cors-origins",
		"timeout":        "timeout",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(serveCmd)
}
