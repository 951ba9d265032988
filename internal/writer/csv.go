// Package writer renders the pipeline's output tables to CSV files.
// It is deliberately dumb: the aggregators decide the numbers, the
// writer only formats rows. Files are ';'-separated with a UTF-8 BOM
// so spreadsheet apps open the Cyrillic content correctly.
package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"bankledger/internal/domain"
	"bankledger/internal/tax"
)

// Writer writes CSV files into one output directory.
type Writer struct {
	outputDir string
}

// New creates a Writer. The directory is created on demand.
func New(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// WriteJournal writes the classified journal.
func (w *Writer) WriteJournal(name string, journal []domain.ClassifiedTransaction) error {
	headers := []string{"Дата", "Сумма", "Тип", "Категория", "Подкатегория", "Контрагент", "Назначение", "ИНН", "Банк", "Уверенность", "Файл"}
	records := make([][]string, 0, len(journal))
	for _, row := range journal {
		records = append(records, []string{
			row.Date.Format("02.01.2006"),
			money(row.SignedAmount()),
			row.Type,
			row.Category,
			row.Subcategory,
			row.Counterparty,
			row.Purpose,
			row.INN,
			row.Bank,
			row.Confidence,
			row.SourceFile,
		})
	}
	return w.writeFile(name, headers, records)
}

// WriteSummary writes the monthly summary.
func (w *Writer) WriteSummary(name string, rows []domain.SummaryRow) error {
	headers := []string{"Год", "Месяц", "Банк", "Доход", "Расход", "Переводы", "Прибыль", "Маржа %"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			r.Bank,
			money(r.Income),
			money(r.Expense),
			money(r.Transfers),
			money(r.Net),
			money(r.MarginPct),
		})
	}
	return w.writeFile(name, headers, records)
}

// WritePnL writes the P&L pivot.
func (w *Writer) WritePnL(name string, rows []domain.PnLRow) error {
	headers := []string{"Год", "Месяц", "Категория", "Сумма"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			r.Category,
			money(r.Amount),
		})
	}
	return w.writeFile(name, headers, records)
}

// WriteMarketRows writes normalized marketplace rows. Callers pass
// main and buyout rows as separate files, mirroring the source
// system's separate sheets.
func (w *Writer) WriteMarketRows(name string, rows []domain.MarketRow) error {
	headers := []string{"Источник", "Вид", "Частота", "Начало", "Конец", "SKU", "Операция", "Тип", "Продажи", "К перечислению", "Логистика", "Хранение", "Прочее", "Итого"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Source,
			r.Kind,
			r.Frequency,
			dateOrEmpty(r.PeriodStart),
			dateOrEmpty(r.PeriodEnd),
			r.SKU,
			r.Operation,
			r.TxType,
			money(r.Sales),
			money(r.ToSeller),
			money(r.Logistics),
			money(r.Storage),
			money(r.Other),
			money(r.NetPayout),
		})
	}
	return w.writeFile(name, headers, records)
}

// WritePayouts writes the net-payout-by-month report.
func (w *Writer) WritePayouts(name string, rows []domain.PayoutRow) error {
	headers := []string{"Год", "Месяц", "Источник", "Вид", "Итого"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			r.Source,
			r.Kind,
			money(r.Net),
		})
	}
	return w.writeFile(name, headers, records)
}

// WriteTax writes the computed liability plus the computed-vs-paid diff.
func (w *Writer) WriteTax(name string, res tax.Result, diffs []tax.DiffRow) error {
	headers := []string{"Показатель", "Начислено", "Оплачено", "Разница"}
	records := [][]string{
		{"УСН 6% начислено", money(res.USNGross), "", ""},
		{"Фиксированные взносы", money(res.FixedContribution), "", ""},
		{"1% свыше 300 000", money(res.Surcharge), "", ""},
		{"Вычет", money(res.Deduction), "", ""},
		{"УСН к уплате", money(res.USNNet), "", ""},
		{"Итого за период", money(res.Total), "", ""},
	}
	for _, d := range diffs {
		records = append(records, []string{d.Name, money(d.Computed), money(d.Paid), money(d.Diff)})
	}
	return w.writeFile(name, headers, records)
}

func (w *Writer) writeFile(name string, headers []string, records [][]string) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	filename := filepath.Join(w.outputDir, name+".csv")

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", filename, err)
	}
	defer file.Close()

	// Write BOM for UTF-8
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("error writing BOM to %s: %w", filename, err)
	}

	cw := csv.NewWriter(file)
	cw.Comma = ';'

	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("error writing header to %s: %w", filename, err)
	}
	for _, rec := range records {
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("error writing row to %s: %w", filename, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("error flushing writer for %s: %w", filename, err)
	}
	return nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func dateOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006")
}
