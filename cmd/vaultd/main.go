package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"dotflow/internal/app"
	"dotflow/internal/logging"
	"dotflow/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string
	cmd := &cobra.Command{
		Use:          "vaultd",
		Short:        "Serve dotflow address records over HTTP",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(v, configFile)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file (default ~/.dotflow/config.yaml)")
	f.String("home", "", "data dir (default ~/.dotflow)")
	f.String("ledger", "", "ledger database (default <home>/ledger.db)")
	f.String("listen", "", "listen address (default 127.0.0.1:8645)")
	f.String("chains", "", "seed an empty chain registry from this YAML file")
	f.Float64("rate-limit-rps", 0, "per-client requests per second (0 uses the config value)")
	f.Int("rate-limit-burst", 0, "per-client burst")
	f.String("log-level", "", "log level")
	for key, flag := range map[string]string{
		"home":             "home",
		"ledger":           "ledger",
		"listen":           "listen",
		"chains_file":      "chains",
		"rate_limit_rps":   "rate-limit-rps",
		"rate_limit_burst": "rate-limit-burst",
		"log_level":        "log-level",
	} {
		_ = v.BindPFlag(key, f.Lookup(flag))
	}
	return cmd
}

func serve(cfg app.Config) error {
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := app.NewWire(ctx, cfg, log, metrics.New())
	if err != nil {
		log.Error("wire failed", zap.Error(err))
		return err
	}
	defer w.Close()

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           w.Gateway(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("vaultd listening", zap.String("addr", cfg.Listen), zap.String("ledger", cfg.LedgerPath))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}
