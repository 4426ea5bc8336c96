package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pricofy/games-api/internal/app"
	"github.com/pricofy/games-api/internal/config"
	"github.com/pricofy/games-api/internal/devserver"
	"github.com/pricofy/games-api/internal/logger"
	"github.com/pricofy/games-api/internal/seed"
	"github.com/pricofy/games-api/internal/store/memory"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(loadConfig func() *config.Config) *cobra.Command {
	var (
		addr     string
		inMemory bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the API over HTTP",
		Long: `Serve runs the same handler the Lambda function runs, behind a local
HTTP router. With --memory the tables are replaced by a seeded in-process
store; identity and translation still go to AWS.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := loadConfig()
			awsCfg, err := app.LoadAWS(ctx, cfg)
			if err != nil {
				return err
			}
			clients := app.NewClients(awsCfg)

			var st app.Store = app.NewDynamoStore(clients.DynamoDB, cfg)
			if inMemory {
				mem := memory.New()
				if err := seed.Load(ctx, mem); err != nil {
					return err
				}
				st = mem
			}

			h := app.NewHandler(cfg, st, clients.Translate, clients.Cognito, app.NewVerifier(cfg))
			return serve(ctx, addr, devserver.NewRouter(h))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().BoolVar(&inMemory, "memory", false, "Use a seeded in-memory store instead of DynamoDB")

	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infow("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Log.Infow("shutting down")
	return srv.Shutdown(shutdownCtx)
}
