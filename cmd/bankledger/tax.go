package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bankledger/internal/batch"
	"bankledger/internal/logger"
	"bankledger/internal/tax"
	"bankledger/internal/writer"
)

var (
	taxIncome  float64
	taxAnnual  float64
	taxYear    int
	taxMonths  int
	taxPayroll float64
	taxJournal string
)

var taxCmd = &cobra.Command{
	Use:   "tax",
	Short: "Compute the USN (6%) liability for a period",
	Long: `Computes the simplified-regime tax for a period: 6% of income less the
contribution deduction (capped at half the tax), plus the 1% surcharge
over 300 000. With --journal the computed figures are diffed against the
tax payments found in previously classified statements.`,
	RunE: runTax,
}

func init() {
	taxCmd.Flags().Float64Var(&taxIncome, "income", 0, "Period income")
	taxCmd.Flags().Float64Var(&taxAnnual, "annual-income", 0, "Annual income for the 1% surcharge (required for partial periods)")
	taxCmd.Flags().IntVar(&taxYear, "year", 0, "Tax year (default: from config or current year)")
	taxCmd.Flags().IntVar(&taxMonths, "months", 0, "Months in the period (default: from config or 12)")
	taxCmd.Flags().Float64Var(&taxPayroll, "payroll", 0, "Payroll taxes for the period, added to the total")
	taxCmd.Flags().StringVar(&taxJournal, "journal", "", "Statement file or directory to extract paid amounts from")
	taxCmd.MarkFlagRequired("income")
}

func runTax(cmd *cobra.Command, args []string) error {
	ctx, cfg, err := setup()
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx)

	year := taxYear
	if year == 0 {
		year = cfg.Tax.Year
	}
	if year == 0 {
		year = time.Now().Year()
	}
	months := taxMonths
	if months == 0 {
		months = cfg.Tax.Months
	}
	annual := taxAnnual
	if annual == 0 {
		annual = cfg.Tax.AnnualIncome
	}
	payroll := taxPayroll
	if payroll == 0 {
		payroll = cfg.Tax.PayrollBase
	}

	res := tax.Calc(log, tax.Input{
		Income:       taxIncome,
		AnnualIncome: annual,
		Year:         year,
		Months:       months,
		PayrollTax:   payroll,
	})

	paid := map[string]float64{}
	if taxJournal != "" {
		clf, err := buildClassifier(ctx, cfg)
		if err != nil {
			return err
		}
		paths, err := batch.ExpandPaths([]string{taxJournal}, ".csv")
		if err != nil {
			return err
		}
		jr := batch.ProcessStatements(ctx, paths, clf)
		paid = tax.PaidFromJournal(jr.Journal)
	}
	diffs := tax.Compare(res, paid)

	fmt.Printf("УСН 6%%: %.2f  взносы: %.2f  1%%: %.2f  вычет: %.2f  к уплате: %.2f  итого: %.2f\n",
		res.USNGross, res.FixedContribution, res.Surcharge, res.Deduction, res.USNNet, res.Total)

	w := writer.New(outputDir)
	return w.WriteTax("tax", res, diffs)
}
