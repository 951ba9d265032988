package reports

import (
	"strings"

	"bankledger/internal/domain"
)

// WB general report: one row per realization report with period-level
// financial totals.
var wbGeneralColumns = []Column{
	{Key: "report_no", Required: true, Aliases: []string{"№ отчета", "номер отчета", "№ отчёта", "номер отчёта", "№"}},
	{Key: "date_from", Required: true, Aliases: []string{"дата начала", "дата начала отчетного периода", "дата начала отчётного периода"}},
	{Key: "date_to", Required: true, Aliases: []string{"дата конца", "дата конца отчетного периода", "дата конца отчётного периода"}},
	{Key: "sales", Required: true, Aliases: []string{"продажа", "продажи", "сумма продаж"}},
	{Key: "to_seller", Required: true, Aliases: []string{"к перечислению за товар", "к перечислению продавцу за реализованный товар"}},
	{Key: "logistics", Required: false, Aliases: []string{"стоимость логистики", "услуги по доставке товара покупателю", "логистика"}},
	{Key: "storage", Required: false, Aliases: []string{"стоимость хранения", "хранение"}},
	{Key: "other", Required: false, Aliases: []string{"прочие удержания", "прочие удержания/выплаты", "удержания"}},
}

// ParseWBGeneral normalizes a WB realization summary export. Rows whose
// report number does not coerce to a number (totals, separators) are
// dropped before normalization.
func ParseWBGeneral(t *Table) ([]domain.MarketRow, error) {
	idx, err := Resolve("wb-general", t.Header, wbGeneralColumns)
	if err != nil {
		return nil, err
	}

	freq := wbFrequency(t.File)
	kind := wbKind(t.File)

	var out []domain.MarketRow
	for _, row := range t.Rows {
		if !isNumeric(t.Cell(row, idx["report_no"])) {
			continue
		}
		r := domain.MarketRow{
			Source:      domain.SourceWB,
			Kind:        kind,
			Frequency:   freq,
			PeriodStart: ParseDate(t.Cell(row, idx["date_from"])),
			PeriodEnd:   ParseDate(t.Cell(row, idx["date_to"])),
			TxType:      "Продажа",
			Sales:       ParseAmount(t.Cell(row, idx["sales"])),
			ToSeller:    ParseAmount(t.Cell(row, idx["to_seller"])),
			Logistics:   ParseAmount(t.Cell(row, idx["logistics"])),
			Storage:     ParseAmount(t.Cell(row, idx["storage"])),
			Other:       ParseAmount(t.Cell(row, idx["other"])),
			File:        t.File,
		}
		// The period is attributed to the month the report closes in.
		if !r.PeriodEnd.IsZero() {
			r.Year, r.Month = r.PeriodEnd.Year(), int(r.PeriodEnd.Month())
		} else if !r.PeriodStart.IsZero() {
			r.Year, r.Month = r.PeriodStart.Year(), int(r.PeriodStart.Month())
		}
		r.NetPayout = round2(r.ToSeller - r.Logistics - r.Storage - r.Other)
		out = append(out, r)
	}
	return out, nil
}

// WB detail report: one row per item movement inside a report.
var wbDetailColumns = []Column{
	{Key: "nm_id", Required: true, Aliases: []string{"код номенклатуры", "артикул wb", "nmid"}},
	{Key: "sale_date", Required: true, Aliases: []string{"дата продажи", "дата операции"}},
	{Key: "reason", Required: true, Aliases: []string{"обоснование для оплаты", "тип документа"}},
	{Key: "qty", Required: false, Aliases: []string{"кол-во", "количество"}},
	{Key: "retail", Required: false, Aliases: []string{"цена розничная", "цена розничная с учетом согласованной скидки", "цена розничная с учётом согласованной скидки"}},
	{Key: "to_seller", Required: true, Aliases: []string{"к перечислению продавцу за реализованный товар", "к перечислению за товар"}},
	{Key: "delivery", Required: false, Aliases: []string{"услуги по доставке товара покупателю", "стоимость логистики"}},
	{Key: "article", Required: false, Aliases: []string{"артикул поставщика", "артикул продавца"}},
}

// ParseWBDetail normalizes a per-item WB export. The buyout variant
// (self-purchase tracking) is detected from the filename and kept on
// its own kind so downstream writers can separate the sheets.
func ParseWBDetail(t *Table) ([]domain.MarketRow, error) {
	idx, err := Resolve("wb-detail", t.Header, wbDetailColumns)
	if err != nil {
		return nil, err
	}

	freq := wbFrequency(t.File)
	kind := wbKind(t.File)

	var out []domain.MarketRow
	for _, row := range t.Rows {
		if !isNumeric(t.Cell(row, idx["nm_id"])) {
			continue
		}
		date := ParseDate(t.Cell(row, idx["sale_date"]))
		r := domain.MarketRow{
			Source:      domain.SourceWB,
			Kind:        kind,
			Frequency:   freq,
			PeriodStart: date,
			PeriodEnd:   date,
			SKU:         t.Cell(row, idx["nm_id"]),
			Operation:   t.Cell(row, idx["reason"]),
			Sales:       ParseAmount(t.Cell(row, idx["retail"])),
			ToSeller:    ParseAmount(t.Cell(row, idx["to_seller"])),
			Logistics:   ParseAmount(t.Cell(row, idx["delivery"])),
			File:        t.File,
		}
		if !date.IsZero() {
			r.Year, r.Month = date.Year(), int(date.Month())
		}
		r.TxType = wbReason(r.Operation)
		net := r.ToSeller - r.Logistics
		if r.TxType == "Возврат" {
			net = -r.ToSeller - r.Logistics
		}
		r.NetPayout = round2(net)
		out = append(out, r)
	}
	return out, nil
}

// wbReason buckets the payment-justification label.
func wbReason(reason string) string {
	lower := strings.ToLower(reason)
	switch {
	case strings.Contains(lower, "возврат"):
		return "Возврат"
	case strings.Contains(lower, "логистик"), strings.Contains(lower, "доставк"):
		return "Логистика"
	case strings.Contains(lower, "штраф"):
		return "Штраф"
	case strings.Contains(lower, "продажа"):
		return "Продажа"
	default:
		return "Прочее"
	}
}

// wbFrequency infers the report cadence from the filename. WB names
// weekly exports by period range and daily ones with an explicit marker.
func wbFrequency(file string) string {
	lower := strings.ToLower(file)
	if strings.Contains(lower, "день") || strings.Contains(lower, "daily") || strings.Contains(lower, "ежеднев") {
		return domain.FreqDaily
	}
	return domain.FreqWeekly
}

// wbKind detects self-purchase ("выкуп") tracking exports.
func wbKind(file string) string {
	lower := strings.ToLower(file)
	if strings.Contains(lower, "выкуп") || strings.Contains(lower, "buyout") {
		return domain.KindBuyout
	}
	return domain.KindMain
}
