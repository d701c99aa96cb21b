package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/formwork/internal/cli"
	"github.com/aretw0/formwork/internal/metrics"
	"github.com/aretw0/formwork/internal/presentation/tui"
	httpAdapter "github.com/aretw0/formwork/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves every form found in --dir as a JSON API over HTTP.

Sessions are kept in redis when --redis is set, in files under --session-dir
when it is set, and in memory otherwise. --preview enables POST /publish.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		port, _ := cmd.Flags().GetString("port")
		redisURL, _ := cmd.Flags().GetString("redis")
		preview, _ := cmd.Flags().GetBool("preview")
		ttl, _ := cmd.Flags().GetDuration("session-ttl")
		sessionDir, _ := cmd.Flags().GetString("session-dir")
		watch, _ := cmd.Flags().GetBool("watch")
		sessionKey, _ := cmd.Flags().GetString("session-key")

		logger, err := loggerFor(cmd)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		m := metrics.New()
		streams := httpAdapter.NewStreamManager()
		rt, err := cli.NewEngine(ctx, cli.EngineOptions{
			Dir:        dir,
			RedisURL:   redisURL,
			SessionDir: sessionDir,
			SessionTTL: ttl,
			SessionKey: sessionKey,
			Logger:     logger,
			Hooks:      m.Hooks(streams.Hooks(cli.DebugHooks(logger))),
		})
		if err != nil {
			return err
		}
		defer rt.Close()

		opts := []httpAdapter.Option{
			httpAdapter.WithMetricsHandler(m.Handler()),
			httpAdapter.WithStreams(streams),
			httpAdapter.WithLogger(logger),
		}
		if preview {
			opts = append(opts, httpAdapter.WithPreview(rt.Engine.Publish))
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           httpAdapter.NewHandler(rt.Engine, opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		if watch {
			go func() {
				if err := cli.WatchForms(ctx, rt.Engine, dir, cli.DefaultWatchInterval, logger); err != nil {
					logger.Error("Watcher stopped", "err", err)
				}
			}()
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			tui.PrintBanner(os.Stdout)
			fmt.Printf("Starting Formwork Server on %s\n", srv.Addr)
			fmt.Printf("Serving forms from: %s %v\n", dir, rt.Engine.Forms())
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			fmt.Printf("\nStart shutdown... Signal: %v\n", ctx.Signal())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Formwork Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis URL for sessions, e.g. redis://localhost:6379/0")
	serveCmd.Flags().Bool("preview", false, "Allow publishing definitions over HTTP")
	serveCmd.Flags().Duration("session-ttl", 0, "Expire redis sessions after this long (0 keeps them)")
	serveCmd.Flags().String("session-dir", "", "Directory for file sessions when --redis is not set")
	serveCmd.Flags().Bool("watch", false, "Reload the forms when a definition file changes")
}
