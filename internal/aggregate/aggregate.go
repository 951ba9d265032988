// Package aggregate groups and sums classified journals. Everything
// here is a pure function over its input: no I/O, no state, no
// mutation of the rows it is given.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"bankledger/internal/domain"
)

type periodKey struct {
	year  int
	month int
	bank  string
}

// MonthlySummary totals the journal per (year, month) or, when byBank
// is set, per (year, month, bank). Income and expense are summed
// separately; internal transfers and withdrawals go to their own
// balance-neutral column and never touch net.
func MonthlySummary(journal []domain.ClassifiedTransaction, byBank bool) []domain.SummaryRow {
	acc := make(map[periodKey]*domain.SummaryRow)
	for _, row := range journal {
		year, month := row.Period()
		key := periodKey{year: year, month: month}
		if byBank {
			key.bank = row.Bank
		}
		s, ok := acc[key]
		if !ok {
			s = &domain.SummaryRow{Year: year, Month: month, Bank: key.bank}
			acc[key] = s
		}
		switch row.Type {
		case domain.TypeIncome:
			s.Income += row.Amount
		case domain.TypeExpense:
			s.Expense += row.Amount
		default:
			s.Transfers += row.Amount
		}
	}

	out := make([]domain.SummaryRow, 0, len(acc))
	for _, s := range acc {
		s.Income = round2(s.Income)
		s.Expense = round2(s.Expense)
		s.Transfers = round2(s.Transfers)
		s.Net = round2(s.Income - s.Expense)
		if s.Income > 0 {
			s.MarginPct = round2(s.Net / s.Income * 100)
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Bank < out[j].Bank
	})
	return out
}

type pnlKey struct {
	year     int
	month    int
	category string
}

// PnL pivots the journal into (year, month, category) profit-and-loss
// rows. Only income and expense rows participate: transfers are
// balance-neutral and would distort profitability. Expense amounts come
// out negative. Rows are sorted by period, then amount descending.
func PnL(journal []domain.ClassifiedTransaction) []domain.PnLRow {
	acc := make(map[pnlKey]float64)
	for _, row := range journal {
		var signed float64
		switch row.Type {
		case domain.TypeIncome:
			signed = row.Amount
		case domain.TypeExpense:
			signed = -row.Amount
		default:
			continue
		}
		year, month := row.Period()
		acc[pnlKey{year, month, row.Category}] += signed
	}

	out := make([]domain.PnLRow, 0, len(acc))
	for k, v := range acc {
		out = append(out, domain.PnLRow{Year: k.year, Month: k.month, Category: k.category, Amount: round2(v)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// LargeTransactions filters rows at or above the threshold, largest
// first. This is a manual-review worklist, not a sample.
func LargeTransactions(journal []domain.ClassifiedTransaction, threshold float64) []domain.ClassifiedTransaction {
	var out []domain.ClassifiedTransaction
	for _, row := range journal {
		if row.Amount >= threshold {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out
}

// ManualReview extracts the rows the classifier could not place, the
// queue a human works through to extend the pattern library.
func ManualReview(journal []domain.ClassifiedTransaction) []domain.ClassifiedTransaction {
	var out []domain.ClassifiedTransaction
	for _, row := range journal {
		if row.Confidence == domain.ConfidenceManual {
			out = append(out, row)
		}
	}
	return out
}

type payoutKey struct {
	year   int
	month  int
	source string
	kind   string
}

// NetPayoutByMonth sums marketplace net payouts per (year, month,
// source, kind). Main and buyout rows stay separate, matching the
// source system's separate sheets.
func NetPayoutByMonth(rows []domain.MarketRow) []domain.PayoutRow {
	acc := make(map[payoutKey]float64)
	for _, r := range rows {
		acc[payoutKey{r.Year, r.Month, r.Source, r.Kind}] += r.NetPayout
	}
	out := make([]domain.PayoutRow, 0, len(acc))
	for k, v := range acc {
		out = append(out, domain.PayoutRow{Year: k.year, Month: k.month, Source: k.source, Kind: k.kind, Net: round2(v)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
