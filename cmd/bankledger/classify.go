package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bankledger/internal/aggregate"
	"bankledger/internal/batch"
	"bankledger/internal/logger"
	"bankledger/internal/writer"
)

var summaryByBank bool

var classifyCmd = &cobra.Command{
	Use:   "classify <file|dir>...",
	Short: "Classify bank-statement exports into a journal and reports",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&summaryByBank, "by-bank", false, "Split the monthly summary per correspondent bank")
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx, cfg, err := setup()
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx)

	clf, err := buildClassifier(ctx, cfg)
	if err != nil {
		return err
	}

	paths, err := batch.ExpandPaths(args, ".csv")
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no statement files found in %v", args)
	}

	res := batch.ProcessStatements(ctx, paths, clf)
	log.Info().
		Int("files", res.Files).
		Int("parsed", res.Parsed).
		Int("skipped", res.Skipped).
		Int("transactions", len(res.Journal)).
		Msg("classification finished")

	if len(res.Journal) == 0 {
		return fmt.Errorf("no transactions classified from %d file(s)", res.Files)
	}

	w := writer.New(outputDir)
	if err := w.WriteJournal("journal", res.Journal); err != nil {
		return err
	}
	if err := w.WriteSummary("monthly_summary", aggregate.MonthlySummary(res.Journal, summaryByBank)); err != nil {
		return err
	}
	if err := w.WritePnL("pnl", aggregate.PnL(res.Journal)); err != nil {
		return err
	}
	if err := w.WriteJournal("large_transactions", aggregate.LargeTransactions(res.Journal, cfg.LargeTxThreshold)); err != nil {
		return err
	}

	review := aggregate.ManualReview(res.Journal)
	if err := w.WriteJournal("manual_review", review); err != nil {
		return err
	}
	if len(review) > 0 {
		log.Warn().Int("rows", len(review)).Msg("rows need manual review")
	}
	return nil
}
