package domain

import (
	"time"
)

// Transaction represents one normalized row of a bank statement export.
// Parsers produce it; the classifier and aggregators only read it.
// String fields default to "" and amount fields to 0 when the source
// cell is blank, so downstream matching never has to nil-check.
type Transaction struct {
	Date         time.Time // operation date
	Amount       float64   // unsigned magnitude of the operation
	IsIncome     bool      // true when funds arrive on the account
	Counterparty string    // free-text name of the other party
	Purpose      string    // payment description, carries most signal
	Bank         string    // correspondent bank name
	BIC          string    // correspondent bank BIC
	Account      string    // correspondent account number
	INN          string    // counterparty tax ID, may be "INN/KPP"
	DocNum       string    // payment order number, provenance only

	SourceFile string // file this row came from
}

// SignedAmount returns the amount with its direction applied:
// positive for incoming funds, negative for outgoing.
func (t Transaction) SignedAmount() float64 {
	if t.IsIncome {
		return t.Amount
	}
	return -t.Amount
}

// Year and Month of the operation date, the aggregation key everywhere.
func (t Transaction) Period() (int, int) {
	return t.Date.Year(), int(t.Date.Month())
}
