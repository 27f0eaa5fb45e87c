package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatali-fataliyev/thriftier/api"
	"github.com/fatali-fataliyev/thriftier/internal/bot"
	"github.com/fatali-fataliyev/thriftier/internal/config"
	"github.com/fatali-fataliyev/thriftier/internal/discord"
	"github.com/fatali-fataliyev/thriftier/internal/expense"
	"github.com/fatali-fataliyev/thriftier/internal/removal"
	"github.com/fatali-fataliyev/thriftier/internal/storage"
	"github.com/fatali-fataliyev/thriftier/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var (
	version = "dev"
	v       = viper.New()
	cfg     *config.Config
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "thriftier",
		Short:             "Discord bot that keeps track of your expenses",
		PersistentPreRunE: initConfig,
		RunE:              runServe,
		SilenceUsage:      true,
	}

	rootCmd.PersistentFlags().String("storage", "", "storage backend (mysql, json, memory)")
	rootCmd.PersistentFlags().String("data-file", "", "ledger file for the json backend")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warning, error)")
	rootCmd.PersistentFlags().String("http-addr", "", "address of the ops HTTP server, disabled when empty")

	_ = v.BindPFlag(config.KeyStorageBackend, rootCmd.PersistentFlags().Lookup("storage"))
	_ = v.BindPFlag(config.KeyDataFile, rootCmd.PersistentFlags().Lookup("data-file"))
	_ = v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag(config.KeyHTTPAddr, rootCmd.PersistentFlags().Lookup("http-addr"))

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Connect to Discord and answer commands",
		RunE:  runServe,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the MySQL database if needed and apply migrations",
		RunE:  runMigrate,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:               "version",
		Short:             "Print the version",
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "thriftier", version)
		},
	})

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg = loaded

	if err := logging.Init(logging.Options{Level: cfg.LogLevel, Env: cfg.AppEnv, Dir: cfg.LogDir}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := cfg.RequireToken(); err != nil {
		return err
	}

	logging.Logger.Info("application starting...")

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Logger.Errorf("failed to close storage: %v", err)
		}
	}()

	tracker := expense.NewExpenseTracker(store, expense.WithDeleteMode(cfg.DeleteMode))
	removals := removal.NewRegistry(cfg.RemovalTimeout)
	handler := bot.New(tracker, removals)

	client, err := discord.New(cfg.DiscordToken, handler)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.Run(gctx)
	})

	if cfg.HTTPAddr != "" {
		server := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: api.NewHandler(api.NewApi(store, removals)),
		}
		g.Go(func() error {
			logging.Logger.Infof("starting ops server on %s", cfg.HTTPAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to start server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	logging.Logger.Info("application stopped")
	return err
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	if cfg.StorageBackend != config.BackendMySQL {
		return fmt.Errorf("migrations only apply to the %s backend, got %q", config.BackendMySQL, cfg.StorageBackend)
	}

	db, _, err := storage.Init(cmd.Context(), cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return db.Close()
}
