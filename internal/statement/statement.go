// Package statement reads bank-account CSV exports into normalized
// transactions for the classifier. Individual malformed cells degrade
// to defaults and malformed rows are skipped with a counter; only a
// file whose header cannot be resolved fails.
package statement

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bankledger/internal/domain"
	"bankledger/internal/reports"
)

// Stats reports what the reader did with a file. Skipped counts rows
// dropped for an unparseable date, the only per-row fatal defect.
type Stats struct {
	Rows    int
	Skipped int
}

var statementColumns = []reports.Column{
	{Key: "date", Required: true, Aliases: []string{"дата", "дата операции", "дата проводки"}},
	{Key: "in", Required: false, Aliases: []string{"приход", "кредит", "поступление"}},
	{Key: "out", Required: false, Aliases: []string{"расход", "дебет", "списание"}},
	{Key: "amount", Required: false, Aliases: []string{"сумма", "сумма операции"}},
	{Key: "counterparty", Required: true, Aliases: []string{"контрагент", "наименование контрагента", "плательщик/получатель"}},
	{Key: "purpose", Required: true, Aliases: []string{"назначение платежа", "назначение", "описание операции"}},
	{Key: "bank", Required: false, Aliases: []string{"банк контрагента", "банк", "наименование банка"}},
	{Key: "bic", Required: false, Aliases: []string{"бик", "бик банка контрагента"}},
	{Key: "account", Required: false, Aliases: []string{"счет контрагента", "счёт контрагента", "счет", "счёт"}},
	{Key: "inn", Required: false, Aliases: []string{"инн", "инн контрагента", "инн/кпп", "инн/кпп контрагента"}},
	{Key: "doc", Required: false, Aliases: []string{"номер документа", "№ документа", "номер"}},
}

// Parse reads one bank CSV export. The file must resolve the date,
// counterparty, purpose and at least one amount column; anything else
// is optional and defaults to empty.
func Parse(path string) ([]domain.Transaction, Stats, error) {
	t, err := readCSV(path)
	if err != nil {
		return nil, Stats{}, err
	}
	return parseTable(t)
}

func parseTable(t *reports.Table) ([]domain.Transaction, Stats, error) {
	idx, err := reports.Resolve("bank-statement", t.Header, statementColumns)
	if err != nil {
		return nil, Stats{}, err
	}
	if idx["in"] < 0 && idx["out"] < 0 && idx["amount"] < 0 {
		return nil, Stats{}, &reports.SchemaError{Report: "bank-statement", Missing: []string{"приход/расход или сумма"}}
	}

	var (
		out   []domain.Transaction
		stats Stats
	)
	for _, row := range t.Rows {
		stats.Rows++
		date := reports.ParseDate(t.Cell(row, idx["date"]))
		if date.IsZero() {
			stats.Skipped++
			continue
		}

		tx := domain.Transaction{
			Date:         date,
			Counterparty: t.Cell(row, idx["counterparty"]),
			Purpose:      t.Cell(row, idx["purpose"]),
			Bank:         t.Cell(row, idx["bank"]),
			BIC:          t.Cell(row, idx["bic"]),
			Account:      t.Cell(row, idx["account"]),
			INN:          t.Cell(row, idx["inn"]),
			DocNum:       t.Cell(row, idx["doc"]),
			SourceFile:   t.File,
		}

		switch {
		case idx["in"] >= 0 || idx["out"] >= 0:
			in := reports.ParseAmount(t.Cell(row, idx["in"]))
			outAmt := reports.ParseAmount(t.Cell(row, idx["out"]))
			if in > 0 {
				tx.Amount, tx.IsIncome = in, true
			} else {
				tx.Amount, tx.IsIncome = outAmt, false
			}
		default:
			// One signed column: positive is incoming.
			signed := reports.ParseAmount(t.Cell(row, idx["amount"]))
			tx.IsIncome = signed > 0
			if signed < 0 {
				signed = -signed
			}
			tx.Amount = signed
		}

		if tx.Amount == 0 {
			// Zero-amount rows are informational entries, not operations.
			stats.Skipped++
			continue
		}
		out = append(out, tx)
	}
	return out, stats, nil
}

// readCSV loads a CSV export, sniffing the delimiter from the header
// line: bank exports use ';' at least as often as ','.
func readCSV(path string) (*reports.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("readCSV: opening %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 4096)
	n, _ := f.Read(head)
	if _, err := f.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("readCSV: rewinding %s: %w", path, err)
	}

	// Sniff on the header line only: data rows carry comma decimals
	// that would skew a whole-buffer count.
	firstLine := string(head[:n])
	if i := strings.IndexByte(firstLine, '\n'); i >= 0 {
		firstLine = firstLine[:i]
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		r.Comma = ';'
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("readCSV: reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("readCSV: %s is empty", path)
	}

	header := records[0]
	if len(header) > 0 {
		// Strip a UTF-8 BOM the way bank exports ship it.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return &reports.Table{
		Header: header,
		Rows:   records[1:],
		File:   filepath.Base(path),
	}, nil
}
