package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bankledger/internal/aggregate"
	"bankledger/internal/batch"
	"bankledger/internal/domain"
	"bankledger/internal/logger"
	"bankledger/internal/writer"
)

var reportCmd = &cobra.Command{
	Use:   "report <file|dir>...",
	Short: "Normalize marketplace exports (WB, Ozon) and compute net payouts",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, _, err := setup()
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx)

	paths, err := batch.ExpandPaths(args, ".xlsx", ".xls")
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no report files found in %v", args)
	}

	res := batch.ProcessReports(ctx, paths)
	log.Info().
		Int("files", res.Files).
		Int("parsed", res.Parsed).
		Int("skipped", res.Skipped).
		Int("rows", len(res.Market)).
		Msg("report parsing finished")

	if len(res.Market) == 0 {
		return fmt.Errorf("no report rows parsed from %d file(s)", res.Files)
	}

	// Main and buyout rows land in separate files, like the source
	// system's separate sheets.
	var main, buyout []domain.MarketRow
	for _, r := range res.Market {
		if r.Kind == domain.KindBuyout {
			buyout = append(buyout, r)
		} else {
			main = append(main, r)
		}
	}

	w := writer.New(outputDir)
	if err := w.WriteMarketRows("market_rows", main); err != nil {
		return err
	}
	if len(buyout) > 0 {
		if err := w.WriteMarketRows("market_rows_buyout", buyout); err != nil {
			return err
		}
	}
	return w.WritePayouts("net_payout_by_month", aggregate.NetPayoutByMonth(res.Market))
}
