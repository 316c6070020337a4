package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/eatn/app/listeners"
	"github.com/shashiranjanraj/eatn/app/services"
	"github.com/shashiranjanraj/eatn/config"
	"github.com/shashiranjanraj/eatn/internal/kernel"
	"github.com/shashiranjanraj/eatn/internal/server"
	"github.com/shashiranjanraj/eatn/pkg/cache"
	"github.com/shashiranjanraj/eatn/pkg/database"
	"github.com/shashiranjanraj/eatn/pkg/logger"
	"github.com/shashiranjanraj/eatn/pkg/session"
	"github.com/shashiranjanraj/eatn/pkg/storage"
)

// eatn serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := config.Load(); err != nil {
			return err
		}
		if err := config.CheckAppKey(); err != nil {
			return err
		}
		logger.Setup()
		defer logger.Close()
		if !config.AppKeyConfigured() {
			logger.Warn("APP_KEY not configured, remember me is disabled")
		}

		if err := database.Connect(); err != nil {
			return err
		}
		defer database.Close()

		if err := cache.Connect(ctx); err != nil {
			logger.Warn("redis unavailable, caching disabled", "error", err)
		}
		defer cache.Close()

		sessions, err := sessionStore()
		if err != nil {
			return err
		}

		disk, err := storage.Connect()
		if err != nil {
			return err
		}

		listeners.Register()
		svc := services.New(database.DB, services.Config{
			StoreTimeout: config.StoreTimeout(),
			BcryptCost:   config.BcryptCost(),
			Disk:         disk,
		})

		return server.Start(ctx, kernel.NewHTTPKernel(kernel.Deps{
			Services: svc,
			Sessions: sessions,
			Disk:     disk,
		}))
	},
}

// sessionStore picks the store named by SESSION_DRIVER. The redis store
// needs a live connection.
func sessionStore() (session.Store, error) {
	switch driver := config.SessionDriver(); driver {
	case "redis":
		if !cache.Available() {
			return nil, fmt.Errorf("session driver redis needs REDIS_ADDR to be reachable")
		}
		return session.NewRedisStore(), nil
	case "memory":
		logger.Warn("memory sessions do not survive restarts or scale past one process")
		return session.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown SESSION_DRIVER %q (supported: redis, memory)", driver)
	}
}

// eatn route:list: print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		r := kernel.NewRouter(kernel.Deps{
			Services: services.New(nil, services.Config{}),
			Sessions: session.NewMemoryStore(),
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range r.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
