package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmelv/labelgrid/pkg/api"
	"github.com/dmelv/labelgrid/pkg/store"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the HTTP API server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		mongoURI string
		mongoDB  string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the labeling HTTP API",
		Long: `Start the HTTP API. Threshold runs are stored under UUIDs and can be
fetched later; with --mongo-uri they survive restarts, otherwise they
live in memory.

Examples:
  labelgrid serve --addr :8080
  labelgrid serve --mongo-uri mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.API.Addr
			}
			if addr == "" {
				addr = ":8080"
			}
			if mongoURI == "" {
				mongoURI = c.Config.API.MongoURI
			}
			if mongoDB == "" {
				mongoDB = c.Config.API.MongoDB
			}
			if mongoDB == "" {
				mongoDB = appName
			}
			return c.runServe(cmd.Context(), addr, mongoURI, mongoDB, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection string (in-memory store if empty)")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "", "MongoDB database name (default labelgrid)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, mongoURI, mongoDB string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var st store.Store = store.NewMemoryStore()
	if mongoURI != "" {
		ms, err := store.NewMongoStore(ctx, mongoURI, mongoDB)
		if err != nil {
			return fmt.Errorf("connect store: %w", err)
		}
		st = ms
		c.Logger.Info("using mongodb store", "db", mongoDB)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = st.Close(closeCtx)
	}()

	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(runner, st, c.Logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
