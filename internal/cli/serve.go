package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	v1 "github.com/gosuda/kanban/internal/api/v1"
	"github.com/gosuda/kanban/internal/api/ws"
	"github.com/gosuda/kanban/internal/config"
	"github.com/gosuda/kanban/internal/dispatch"
	"github.com/gosuda/kanban/internal/hydrate"
	"github.com/gosuda/kanban/internal/persist"
	"github.com/gosuda/kanban/internal/seed"
	"github.com/gosuda/kanban/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	b, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()
	if err := b.openBroker(ctx, cfg); err != nil {
		return err
	}

	gateway := persist.NewGateway(b.storage, cfg.Storage.Key, log.Logger)
	store := dispatch.New(
		gateway.LoadOrSeed(ctx, seed.State),
		dispatch.WithInvariantCheck(cfg.CheckInvariants),
		dispatch.WithLogger(log.Logger),
	)
	defer store.Close()

	// Saves issued while shutting down must still reach storage.
	store.Subscribe(gateway.Listener(context.WithoutCancel(ctx)))

	hub := ws.NewHub(b.broker)
	store.Subscribe(hub.Listener(ctx))

	var (
		hydrator   v1.Hydrator
		controller *hydrate.Controller
	)
	if cfg.Dataset.URL != "" {
		client := hydrate.NewClient(cfg.DatasetURL(), hydrate.WithDelay(cfg.Dataset.Delay))
		controller = hydrate.NewController(store, client, cfg.Dataset.FetchTimeout, log.Logger)
		hydrator = controller
		defer controller.Wait()
	}

	srv := server.New(ctx, cfg, store, hydrator, hub)
	ln, err := srv.Listen()
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("addr", ln.Addr().String()).
			Str("storage", cfg.Storage.Backend).
			Str("pubsub", cfg.PubSub).
			Msg("starting server")
		return srv.Serve(ln)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if controller != nil && cfg.Dataset.HydrateOnStart {
		if controller.EnsureHydrated(gctx) {
			log.Info().Str("url", cfg.DatasetURL()).Msg("hydrating from dataset")
		}
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("stopped")
	return nil
}
