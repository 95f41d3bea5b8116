package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tourforge/tourforge/internal/adapters/file"
	httpAdapter "github.com/tourforge/tourforge/internal/adapters/http"
	"github.com/tourforge/tourforge/internal/adapters/memory"
	redisAdapter "github.com/tourforge/tourforge/internal/adapters/redis"
	"github.com/tourforge/tourforge/internal/config"
	"github.com/tourforge/tourforge/internal/logging"
	"github.com/tourforge/tourforge/pkg/ports"
	"github.com/tourforge/tourforge/pkg/session"
	"github.com/tourforge/tourforge/pkg/session/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tour builder HTTP server",
	Long:  `Starts the JSON API used by the tour editor and the playback frontend.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		logLevel, _ := cmd.Flags().GetString("log-level")

		cfg := config.Default()
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				fmt.Printf("Error loading config: %v\n", err)
				os.Exit(1)
			}
			cfg = loaded
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		logger := logging.New(logging.ParseLevel(logLevel))

		trees, sessionStore := buildStores(cfg)
		handler := httpAdapter.NewHandler(
			trees,
			session.NewManager(sessionStore, session.WithLogger(logger)),
			memory.NewFeedbackLog(),
			memory.NewUserDirectory(),
			httpAdapter.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:    cfg.Addr,
			Handler: handler,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting server",
				"addr", cfg.Addr,
				"store", cfg.Store.Backend,
				"sessions", cfg.Session.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			logger.Error("server error", "err", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("forced close failed", "err", err)
				}
			}
			logger.Info("server stopped")
		}
	},
}

func buildStores(cfg *config.Config) (ports.TreeStore, ports.SessionStore) {
	var trees ports.TreeStore
	switch cfg.Store.Backend {
	case "file":
		trees = file.NewStore(cfg.Store.DataDir)
	default:
		trees = memory.NewStore()
	}

	var sessions ports.SessionStore
	switch cfg.Session.Backend {
	case "redis":
		opts := []redisAdapter.Option{}
		if cfg.Session.TTL > 0 {
			opts = append(opts, redisAdapter.WithTTL(cfg.Session.TTL))
		}
		sessions = redisAdapter.New(cfg.Session.Redis.Addr, cfg.Session.Redis.Password, cfg.Session.Redis.DB, opts...)
	default:
		if mem, ok := trees.(*memory.Store); ok {
			sessions = mem
		} else {
			sessions = memory.NewStore()
		}
	}
	return trees, wrapSessionStore(cfg, sessions)
}

// wrapSessionStore applies the configured at-rest protections. Config
// validation has already vetted the patterns and keys; failures here mean
// the config changed underneath us, so give up loudly.
func wrapSessionStore(cfg *config.Config, store ports.SessionStore) ports.SessionStore {
	var mws []middleware.Middleware
	if len(cfg.Session.MaskAnswers) > 0 {
		mws = append(mws, middleware.NewPrivacyMiddleware(cfg.Session.MaskAnswers))
	}
	if cfg.Session.EncryptionKey != "" {
		active, err := cfg.SessionEncryptionKeys()
		if err != nil {
			fmt.Printf("Error decoding session encryption key: %v\n", err)
			os.Exit(1)
		}
		fallbacks, err := cfg.SessionFallbackKeys()
		if err != nil {
			fmt.Printf("Error decoding session fallback keys: %v\n", err)
			os.Exit(1)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallbacks,
		}))
	}
	return middleware.Chain(store, mws...)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Listen address, overrides the config file")
	serveCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
}
