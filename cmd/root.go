package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/akira0907/gift-diagnosis/internal/config"
)

// app carries state resolved in the root pre-run to the subcommands
type app struct {
	configPath string
	verbose    bool
	config     *config.Config
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "giftctl",
		Short: "Product catalog and blog tooling for the gift diagnosis site",
		Long: `giftctl manages the gift catalog and the companion WordPress blog.

Product commands scrape a shop page into data/products.csv and keep the
JSON document used by the web app in sync. Blog commands interview you about
a gift, compose an article and post it to WordPress as a draft.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			// .env files are optional
			config.LoadDotEnv()

			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.config = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "giftctl.yaml", "Path to an optional YAML config file")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newProductCmd(a))
	cmd.AddCommand(newPostCmd(a))
	cmd.AddCommand(newWriteCmd(a))
	cmd.AddCommand(newTermsCmd(a))

	return cmd
}
