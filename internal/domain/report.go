package domain

import "time"

// Marketplace report sources.
const (
	SourceWB   = "wb"
	SourceOzon = "ozon"
)

// Report kinds: regular sales vs self-purchase tracking. The source
// system keeps them on separate sheets, so the kind travels with the row.
const (
	KindMain   = "main"
	KindBuyout = "buyout"
)

// Report frequencies.
const (
	FreqWeekly = "weekly"
	FreqDaily  = "daily"
)

// MarketRow is one normalized row of a marketplace export (WB general,
// WB detail, Ozon). Field meaning depends on the source; absent columns
// stay zero.
type MarketRow struct {
	Source    string // SourceWB or SourceOzon
	Kind      string // KindMain or KindBuyout
	Frequency string // FreqWeekly or FreqDaily

	PeriodStart time.Time
	PeriodEnd   time.Time
	Year        int
	Month       int

	SKU       string // item code, detail reports only
	Operation string // raw operation label, Ozon only
	TxType    string // unified operation bucket

	Sales     float64 // gross sales
	ToSeller  float64 // amount due to the seller for goods
	Logistics float64
	Storage   float64
	Other     float64 // other deductions
	NetPayout float64 // resolved net effect for payout aggregation

	File string
}

// SummaryRow is one line of the monthly summary: totals per
// (year, month[, bank]).
type SummaryRow struct {
	Year      int
	Month     int
	Bank      string
	Income    float64
	Expense   float64
	Transfers float64 // internal transfers and withdrawals, balance-neutral
	Net       float64 // income - expense
	MarginPct float64 // net/income*100, 0 when income is 0
}

// PnLRow is one line of the P&L pivot. Expense amounts are negative.
type PnLRow struct {
	Year     int
	Month    int
	Category string
	Amount   float64
}

// PayoutRow is one line of the net-payout-by-month report over
// marketplace rows.
type PayoutRow struct {
	Year   int
	Month  int
	Source string
	Kind   string
	Net    float64
}
