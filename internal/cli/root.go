// Package cli wires the auction binary: the view server, the development
// store, and one-shot client commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memorabilia-auction/internal/auctionclient"
	"memorabilia-auction/internal/config"
	"memorabilia-auction/internal/metrics"
	"memorabilia-auction/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

const (
	binaryName      = "auction"
	shutdownTimeout = 5 * time.Second
)

type app struct {
	v   *viper.Viper
	cfg config.Config
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree with its own config environment
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           binaryName,
		Short:         "Live sports memorabilia auctions",
		Long:          `auction browses live memorabilia auctions and places bids against an auction store.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			if err := utils.SetLevel(cfg.LogLevel); err != nil {
				return fmt.Errorf("config: log-level: %w", err)
			}
			a.cfg = cfg
			return nil
		},
	}

	if err := config.ConfigureCLI(a.v, config.EnvPrefix, config.Flags, rootCmd); err != nil {
		utils.Fatal("cli: configuring flags", map[string]any{"error": err.Error()})
	}

	rootCmd.AddCommand(
		a.serveCmd(),
		a.storeCmd(),
		a.listCmd(),
		a.showCmd(),
		a.bidCmd(),
		a.createCmd(),
	)
	return rootCmd
}

// newClient builds a store client from the loaded config
func (a *app) newClient(recorder metrics.Recorder) *auctionclient.Client {
	return auctionclient.New(a.cfg.StoreURL,
		auctionclient.WithTimeout(a.cfg.RequestTimeout),
		auctionclient.WithRateLimit(rate.Limit(a.cfg.RateLimit), a.cfg.RateBurst),
		auctionclient.WithMetrics(recorder),
	)
}

// runHTTP serves handler on addr until ctx is cancelled or an interrupt arrives
func runHTTP(ctx context.Context, name, addr string, handler http.Handler) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Info("Starting "+name, map[string]any{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%s: %w", name, err)
	case <-ctx.Done():
	}

	utils.Info("Shutting down "+name, map[string]any{"addr": addr})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s: shutdown: %w", name, err)
	}
	return nil
}
