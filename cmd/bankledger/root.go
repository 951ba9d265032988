package main

import (
	"context"

	"github.com/spf13/cobra"

	"bankledger/internal/classifier"
	"bankledger/internal/config"
	"bankledger/internal/logger"
	"bankledger/internal/rules"
)

var (
	configPath string
	outputDir  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "bankledger",
	Short: "Classify bank statements and build P&L reports",
	Long: `bankledger turns raw bank-statement and marketplace exports into a
classified transaction journal, monthly summaries, P&L pivots and a
simplified-regime tax computation.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to bankledger.yaml (default: working directory)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "out", "Output directory for CSV files (created if not exists)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(taxCmd)
}

// setup loads config and builds the logging context shared by all
// subcommands.
func setup() (context.Context, *config.Config, error) {
	log := logger.New(verbose)

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	ctx := logger.WithContext(context.Background(), log)
	return ctx, cfg, nil
}

// buildClassifier wires the configured owner context and optional extra
// rules into a classifier.
func buildClassifier(ctx context.Context, cfg *config.Config) (*classifier.Classifier, error) {
	log := logger.FromContext(ctx)

	var extra []rules.CategoryRule
	if cfg.RulesFile != "" {
		loaded, err := rules.LoadExtra(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		extra = loaded
		log.Debug().Int("rules", len(extra)).Str("file", cfg.RulesFile).Msg("extra rules loaded")
	}

	return classifier.New(classifier.Options{
		OwnerName:    cfg.OwnerName,
		OwnBankNames: cfg.OwnBankNames,
		OwnBankBICs:  cfg.OwnBankBICs,
		Extra:        extra,
	}), nil
}
