package main

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/loan-payoff/internal/certs"
	"github.com/Veraticus/loan-payoff/internal/httpapi"
	"github.com/Veraticus/loan-payoff/internal/service"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the optimizer over HTTP",
		Long: `Start a JSON API with these endpoints:

  POST /v1/optimize   find the best ordering
  POST /v1/evaluate   simulate one ordering
  POST /v1/payment    calculate and check a loan's payment
  GET  /healthz       liveness check

Optimizations made through the API are recorded in the history unless
--no-history is given. With --tls the API is served over HTTPS using a
self-signed certificate kept in server.cert_dir.`,
		Args: cobra.NoArgs,
		RunE: a.runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default: server.addr from config)")
	cmd.Flags().Duration("timeout", httpapi.DefaultConfig().RequestTimeout, "per-request time limit")
	cmd.Flags().Bool("no-history", false, "do not record optimizations")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed localhost certificate")

	return cmd
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = a.settings.Server.Addr
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	noHistory, _ := cmd.Flags().GetBool("no-history")
	useTLS, _ := cmd.Flags().GetBool("tls")

	var tlsConfig *tls.Config
	if useTLS {
		var err error
		tlsConfig, err = certs.NewStore(a.settings.Server.CertDir).TLSConfig()
		if err != nil {
			return fmt.Errorf("failed to prepare certificate: %w", err)
		}
	}

	var recorder service.RunRecorder
	if !noHistory {
		store, err := a.initStorage(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer closeStorage(store)
		recorder = store
	}

	p, release, err := a.initPlanner(ctx, recorder)
	if err != nil {
		return err
	}
	defer release()

	server := httpapi.New(p, httpapi.Config{
		TLS:            tlsConfig,
		Addr:           addr,
		RequestTimeout: timeout,
	})

	slog.Info("Serving loan payoff API", "addr", addr, "max_loans", p.MaxLoans(), "history", !noHistory, "tls", useTLS)
	start := time.Now()
	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	slog.Info("Server stopped", "uptime", time.Since(start).Round(time.Second))

	return nil
}
