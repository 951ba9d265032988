// Package tax computes the simplified-regime ("УСН доходы", 6% of
// gross income) liability for a period and compares it against what the
// classified ledger says was actually paid.
//
// Every monetary intermediate is rounded to 2 places at each step, not
// only at output, so computed figures diff cleanly against the
// bank-reported amounts in the ledger.
package tax

import (
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
)

const (
	usnRate          = 0.06
	surchargeRate    = 0.01
	surchargeOver    = 300_000
	deductionCapPart = 0.5 // deduction may not exceed half the gross tax
)

// fixedContributions holds the fixed annual insurance contribution per
// year. Updated by hand as the law changes.
var fixedContributions = map[int]float64{
	2024: 49_500,
	2025: 53_658,
	2026: 57_390,
}

// surchargeCaps bounds the 1% surcharge per year.
var surchargeCaps = map[int]float64{
	2024: 277_571,
	2025: 300_888,
	2026: 321_818,
}

// Input are the period parameters. Income is the income of the period
// being computed; AnnualIncome feeds the 1% surcharge, which is only
// defined over a full year. When AnnualIncome is zero and the period is
// a full year, Income is used for the surcharge; a partial period with
// no annual figure gets no surcharge rather than an overstated one.
type Input struct {
	Income       float64
	AnnualIncome float64
	Year         int
	Months       int
	PayrollTax   float64
}

// Result is one period's computed liability.
type Result struct {
	Year              int
	Months            int
	USNGross          float64 // income * 6%
	FixedContribution float64 // annual fixed contribution, pro-rated
	Surcharge         float64 // 1% over 300 000, capped
	Deduction         float64 // min(contribution+surcharge, gross/2)
	USNNet            float64 // max(0, gross-deduction)
	PayrollTax        float64
	Total             float64
}

// Calc computes the liability. It never fails: an unknown year logs a
// warning and substitutes the latest year the tables know, a best-effort
// policy for a tool whose output is always eyeballed.
func Calc(log zerolog.Logger, in Input) Result {
	months := in.Months
	if months <= 0 || months > 12 {
		months = 12
	}

	fixed, surCap := yearConstants(log, in.Year)

	gross := round2dec(decimal.NewFromFloat(in.Income).Mul(decimal.NewFromFloat(usnRate)))
	contribution := round2dec(decimal.NewFromFloat(fixed).Mul(decimal.NewFromInt(int64(months))).Div(decimal.NewFromInt(12)))

	annual := in.AnnualIncome
	if annual == 0 && months == 12 {
		annual = in.Income
	}
	surcharge := decimal.Zero
	if annual > surchargeOver {
		surcharge = round2dec(decimal.NewFromFloat(annual - surchargeOver).Mul(decimal.NewFromFloat(surchargeRate)))
		if limit := decimal.NewFromFloat(surCap); surcharge.GreaterThan(limit) {
			surcharge = limit
		}
	}

	// The deduction is legally capped at half the gross tax.
	deduction := contribution.Add(surcharge)
	if half := round2dec(gross.Mul(decimal.NewFromFloat(deductionCapPart))); deduction.GreaterThan(half) {
		deduction = half
	}

	net := gross.Sub(deduction)
	if net.IsNegative() {
		net = decimal.Zero
	}

	payroll := round2dec(decimal.NewFromFloat(in.PayrollTax))
	total := round2dec(net.Add(contribution).Add(surcharge).Add(payroll))

	return Result{
		Year:              in.Year,
		Months:            months,
		USNGross:          f(gross),
		FixedContribution: f(contribution),
		Surcharge:         f(surcharge),
		Deduction:         f(deduction),
		USNNet:            f(net),
		PayrollTax:        f(payroll),
		Total:             f(total),
	}
}

// yearConstants resolves the per-year tables, falling back to the
// newest known year when asked about one the tables have not been
// updated for yet.
func yearConstants(log zerolog.Logger, year int) (fixed, surchargeCap float64) {
	if v, ok := fixedContributions[year]; ok {
		return v, surchargeCaps[year]
	}
	latest := 0
	for y := range fixedContributions {
		if y > latest {
			latest = y
		}
	}
	log.Warn().
		Int("year", year).
		Int("fallback_year", latest).
		Msg("no contribution constants for year, using latest known")
	return fixedContributions[latest], surchargeCaps[latest]
}

// DiffRow compares one computed component against the ledger.
type DiffRow struct {
	Name     string
	Computed float64
	Paid     float64
	Diff     float64 // computed - paid; positive means underpaid
}

// PaidFromJournal sums what the classified ledger says was paid to the
// tax authority, grouped by the classifier's tax subtype.
func PaidFromJournal(journal []domain.ClassifiedTransaction) map[string]float64 {
	paid := make(map[string]float64)
	for _, row := range journal {
		if row.Type != domain.TypeExpense || row.Category != domain.CatTaxes {
			continue
		}
		sub := row.Subcategory
		if sub == "" {
			sub = "ЕНП"
		}
		paid[sub] += row.Amount
	}
	for k, v := range paid {
		paid[k] = f(round2dec(decimal.NewFromFloat(v)))
	}
	return paid
}

// Compare diffs the computed liability against paid amounts. Payments
// through the unified tax account ("ЕНП") cannot be attributed to a
// single component, so they get their own line instead of being guessed
// into one.
func Compare(res Result, paid map[string]float64) []DiffRow {
	rows := []DiffRow{
		{Name: "УСН", Computed: res.USNNet, Paid: paid["УСН"]},
		{Name: "Страховые взносы", Computed: res.FixedContribution, Paid: paid["Страховые взносы"]},
		{Name: "1% свыше 300 000", Computed: res.Surcharge},
		{Name: "ЕНП", Paid: paid["ЕНП"]},
	}
	seen := map[string]bool{"УСН": true, "Страховые взносы": true, "ЕНП": true}
	var extra []string
	for sub := range paid {
		if !seen[sub] {
			extra = append(extra, sub)
		}
	}
	sort.Strings(extra)
	for _, sub := range extra {
		rows = append(rows, DiffRow{Name: sub, Paid: paid[sub]})
	}
	for i := range rows {
		rows[i].Diff = f(round2dec(decimal.NewFromFloat(rows[i].Computed - rows[i].Paid)))
	}
	return rows
}

func round2dec(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func f(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}
