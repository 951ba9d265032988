package reports

import (
	"strings"

	"bankledger/internal/domain"
)

var ozonColumns = []Column{
	{Key: "date", Required: true, Aliases: []string{"дата начисления", "дата операции"}},
	{Key: "operation", Required: true, Aliases: []string{"тип начисления", "тип операции", "группа услуг"}},
	{Key: "amount", Required: true, Aliases: []string{"итого", "итого, руб", "сумма итого, руб", "сумма"}},
	{Key: "item", Required: false, Aliases: []string{"название товара или услуги", "название товара", "номер отправления или идентификатор услуги"}},
	{Key: "sku", Required: false, Aliases: []string{"sku", "артикул"}},
}

// ozonOperations maps the marketplace's free-text operation-type label
// to a unified bucket. Matching is lowercase substring, first entry
// wins; extend the table when Ozon invents a new label.
var ozonOperations = []struct {
	keyword string
	txType  string
	income  bool
}{
	{"доставка покупателю", "Продажа", true},
	{"выручка", "Продажа", true},
	{"получение возврата", "Возврат", false},
	{"возврат", "Возврат", false},
	{"услуги доставки", "Логистика", false},
	{"логистик", "Логистика", false},
	{"обработка отправлени", "Логистика", false},
	{"продвижени", "Реклама", false},
	{"трафарет", "Реклама", false},
	{"реклам", "Реклама", false},
	{"вознаграждение за продажу", "Комиссия", false},
	{"комисси", "Комиссия", false},
	{"эквайринг", "Эквайринг", false},
	{"размещени", "Хранение", false},
	{"хранени", "Хранение", false},
}

// ParseOzon normalizes an Ozon accruals export. Operation types missing
// from the mapping table fall back to the sign of the amount: positive
// is generic income, negative a generic deduction.
func ParseOzon(t *Table) ([]domain.MarketRow, error) {
	idx, err := Resolve("ozon", t.Header, ozonColumns)
	if err != nil {
		return nil, err
	}

	var out []domain.MarketRow
	for _, row := range t.Rows {
		date := ParseDate(t.Cell(row, idx["date"]))
		if date.IsZero() {
			// Totals and separator rows carry no accrual date.
			continue
		}
		op := t.Cell(row, idx["operation"])
		amount := ParseAmount(t.Cell(row, idx["amount"]))

		r := domain.MarketRow{
			Source:      domain.SourceOzon,
			Kind:        domain.KindMain,
			Frequency:   domain.FreqDaily,
			PeriodStart: date,
			PeriodEnd:   date,
			Year:        date.Year(),
			Month:       int(date.Month()),
			SKU:         t.Cell(row, idx["sku"]),
			Operation:   op,
			TxType:      ozonTxType(op, amount),
			NetPayout:   round2(amount),
			File:        t.File,
		}
		if amount > 0 {
			r.Sales = amount
			r.ToSeller = amount
		}
		out = append(out, r)
	}
	return out, nil
}

func ozonTxType(op string, amount float64) string {
	lower := strings.ToLower(op)
	for _, m := range ozonOperations {
		if strings.Contains(lower, m.keyword) {
			return m.txType
		}
	}
	if amount >= 0 {
		return "Прочие начисления"
	}
	return "Прочие удержания"
}
