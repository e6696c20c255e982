package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/zjrosen/keyreg/internal/log"
	"github.com/zjrosen/keyreg/internal/paths"
	"github.com/zjrosen/keyreg/internal/presentation"
	"github.com/zjrosen/keyreg/internal/pubsub"
	"github.com/zjrosen/keyreg/internal/registry"
	"github.com/zjrosen/keyreg/internal/tracing"
	"github.com/zjrosen/keyreg/internal/web"
)

const shutdownTimeout = 10 * time.Second

var (
	serveAddr    string
	serveNoWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve registry contents over HTTP",
	Long: `Run the read-only introspection endpoint. Registries reload when their
data files change unless watching is disabled.

Routes (base path from server.base_path, default /registry):
  GET /registry                 registry names
  GET /registry/<name>          full listing (?format=json|yaml)
  GET /registry/<name>/<key>    one record

Example:
  keyreg serve                  # Start on server.addr
  keyreg serve --addr :9090     # Start on port 9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "disable reloading when data files change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfgErr != nil {
		return cfgErr
	}

	tracingCfg := cfg.Tracing
	if tracingCfg.FilePath != "" {
		tracingCfg.FilePath = paths.Resolve(paths.ConfigDir(viper.ConfigFileUsed()), tracingCfg.FilePath)
	}
	provider, err := tracing.NewProvider(tracingCfg)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.ErrorErr(log.CatHTTP, "Error flushing traces", err)
		}
	}()

	var regOpts []registry.Option
	if provider.Enabled() {
		regOpts = append(regOpts, registry.WithTracer(provider.Tracer()))
	}
	catalog, err := openCatalog(regOpts...)
	if err != nil {
		return err
	}
	defer catalog.Close()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	format, err := presentation.ParseFormat(cfg.Server.Format)
	if err != nil {
		return err
	}

	server := web.NewServer(catalog, web.Options{
		BasePath: cfg.Server.BasePath,
		Format:   format,
		Tracer:   provider.Tracer(),
	})

	// Handle shutdown signals
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.ErrorErr(log.CatHTTP, "Error stopping server", err)
		}
		return nil
	})

	if cfg.Watch.Enabled && !serveNoWatch {
		g.Go(func() error {
			return catalog.Watch(ctx, cfg.Watch.Debounce)
		})
	}

	g.Go(func() error {
		logReloads(ctx, catalog)
		return nil
	})

	fmt.Fprintf(cmd.OutOrStdout(), "keyreg serving %d registries on %s%s\n", len(catalog.Names()), addr, cfg.Server.BasePath)

	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "keyreg stopped")
	return nil
}

// logReloads reports reload outcomes until ctx is done.
func logReloads(ctx context.Context, events pubsub.Subscriber[registry.ReloadEvent]) {
	for ev := range events.Subscribe(ctx) {
		switch ev.Type {
		case pubsub.UpdatedEvent:
			log.Info(log.CatRegistry, "registry updated",
				"name", ev.Payload.Registry,
				"generation", ev.Payload.Generation,
				"keys", ev.Payload.Keys)
		case pubsub.FailedEvent:
			log.ErrorErr(log.CatRegistry, "registry reload rejected, previous data kept", ev.Payload.Err,
				"name", ev.Payload.Registry,
				"generation", ev.Payload.Generation)
		}
	}
}
