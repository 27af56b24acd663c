package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dvigh8/10k-parser/internal/config"
)

var (
	cfg config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tenk",
	Short: "Extract structure and financial tables from 10-K filings",
	Long: `tenk turns a 10-K filing PDF into per-document artifacts:
a structural index of Items, one text file per Item, the full
reconstructed text, and on-demand financial-statement tables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		log = slog.New(slog.NewJSONHandler(os.Stderr, nil))
		cfg = config.Load()
		return cfg.Validate()
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(metadataCmd)
	rootCmd.AddCommand(sectionCmd)
	rootCmd.AddCommand(tablesCmd)
}
