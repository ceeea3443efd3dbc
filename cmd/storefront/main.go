package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arenashop/storefront/config"
	"github.com/arenashop/storefront/database"
	"github.com/arenashop/storefront/describe"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

var (
	// Global flags
	verbose bool

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront API for digital and physical gaming goods",
	Long: `storefront serves the shop's catalog, checkout and contact endpoints,
plus the token-protected back office used to manage products, orders,
messages, discount codes and generated product descriptions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		zap.ReplaceGlobals(logger)

		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(db *gorm.DB) error {
			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			logger.Info("migrations completed")
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(db *gorm.DB) error {
			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			return database.SeedData(db, logger)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	describeCmd.Flags().StringVar(&describeLang, "lang", "ar", "Description language (ar or en)")
	describeCmd.Flags().StringVar(&describeTone, "tone", "", "Tone of the copy")
	describeCmd.Flags().BoolVar(&describeSave, "save", false, "Store the description on the product")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, describeCmd)
}

// withDB opens the database for the duration of fn.
func withDB(ctx context.Context, fn func(db *gorm.DB) error) error {
	db, err := database.Open(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}()
	return fn(db)
}

// newGenerator builds the description generator. Without an API key it only
// renders templates.
func newGenerator(ctx context.Context) (*describe.Generator, error) {
	if !cfg.AI.Enabled() {
		logger.Info("no AI provider configured, descriptions use templates")
		return describe.NewGenerator(nil, logger), nil
	}
	model, err := describe.NewGenAIModel(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)
	if err != nil {
		return nil, err
	}
	logger.Info("description model ready", zap.String("model", model.Name()))
	return describe.NewGenerator(model, logger), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
