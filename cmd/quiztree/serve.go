package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/quiztree/internal/cli"
	httpAdapter "github.com/aretw0/quiztree/pkg/adapters/http"
	"github.com/aretw0/quiztree/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Start the HTTP server",
	Long: `Serves questionnaire runs over a JSON API. Sessions are kept in the configured
store (memory, file or redis) and Prometheus metrics are exposed at /metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("store") {
			cfg.Session.Store, _ = cmd.Flags().GetString("store")
		}
		if cmd.Flags().Changed("watch") {
			cfg.Server.Watch, _ = cmd.Flags().GetBool("watch")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx := cmd.Context()
		logger := cli.CreateLogger(cfg.LogLevel, false)

		path, err := cli.ResolveQuestionnairePath(cfg.File)
		if err != nil {
			return err
		}

		metrics := observability.NewMetrics()
		engine, err := cli.CreateEngine(path, logger, false, metrics.Hooks(), observability.LoggingHooks(logger))
		if err != nil {
			return err
		}

		p, err := cli.SetupPersistence(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer p.Close()

		r := chi.NewRouter()
		r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
		r.Mount("/", httpAdapter.NewHandler(engine, p.Sessions, httpAdapter.WithLogger(logger)))

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("starting quiztree server", "addr", srv.Addr, "questionnaire", path, "store", cfg.Session.Store)
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s\n", path, srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		if cfg.Server.Watch {
			g.Go(func() error {
				err := engine.AutoReload(ctx)
				if err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})
		}
		g.Go(func() error {
			<-ctx.Done()
			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			logger.Info("quiztree server stopped gracefully")
			return nil
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("store", "memory", "Session store: memory, file or redis")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload the questionnaire when the file changes")
}
