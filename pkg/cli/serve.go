package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/secmon-lab/pipewatch/pkg/cli/config"
	"github.com/secmon-lab/pipewatch/pkg/controller/server"
	"github.com/secmon-lab/pipewatch/pkg/infra"
	"github.com/secmon-lab/pipewatch/pkg/usecase"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"

	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		addr          string
		ingestTimeout time.Duration

		worker  config.Worker
		store   config.Store
		openAI  config.OpenAI
		breaker config.Breaker
		sentry  config.Sentry
	)
	serveFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Binding address",
			Value:       "127.0.0.1:8000",
			Sources:     cli.EnvVars("PIPEWATCH_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "ingest-timeout",
			Usage:       "Deadline of one worker callback, independent from the client connection",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("PIPEWATCH_INGEST_TIMEOUT"),
			Destination: &ingestTimeout,
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the callback and status API server",
		Flags: slice.Flatten(
			serveFlags,
			worker.Flags(),
			store.Flags(),
			openAI.Flags(),
			breaker.Flags(),
			sentry.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("starting serve",
				slog.Any("Addr", addr),
				slog.Any("Worker", &worker),
				slog.Any("Store", &store),
				slog.Any("OpenAI", &openAI),
				slog.Any("Breaker", &breaker),
				slog.Any("Sentry", &sentry),
			)

			if err := sentry.Configure(ctx); err != nil {
				return err
			}
			if worker.APIKey() == "" {
				logging.Default().Warn("worker API key is not set, all worker callbacks will be rejected")
			}

			repo, closeStore, err := openStore(ctx, &store)
			if err != nil {
				return err
			}
			defer closeStore()

			infraOptions := []infra.Option{
				infra.WithAnalysisRepository(repo),
			}

			suggester, err := openAI.NewSuggester()
			if err != nil {
				return err
			}
			if suggester != nil {
				infraOptions = append(infraOptions, infra.WithFixSuggester(suggester))
			}

			fixBreaker, err := breaker.New("fix-suggester")
			if err != nil {
				return err
			}

			uc := usecase.New(infra.New(infraOptions...), usecase.WithFixBreaker(fixBreaker))
			s := server.New(uc,
				server.WithWorkerAPIKey(worker.APIKey()),
				server.WithIngestTimeout(ingestTimeout),
			)

			serverErr := make(chan error, 1)
			httpServer := &http.Server{
				Addr:    addr,
				Handler: s.Mux(),

				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      ingestTimeout + 30*time.Second,
			}

			go func() {
				logging.Default().Info("starting http server", "addr", addr)
				if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
					serverErr <- goerr.Wrap(err, "failed to listen and serve")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-serverErr:
				return err

			case sig := <-quit:
				logging.Default().Info("shutting down server", "signal", sig)

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := httpServer.Shutdown(ctx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server")
				}
			}

			return nil
		},
	}
}
