// Package rules holds the pattern library the classifier matches against:
// compiled regexes over Cyrillic payment vocabulary, keyword groups per
// expense category and known-INN allowlists for counterparties that can be
// identified reliably by tax ID alone.
package rules

import (
	"regexp"
	"strings"
)

// Purpose-text patterns, compiled once at package init. All matching is
// case-insensitive; empty input never panics, it just never matches.
var (
	// Owner putting money back on the account. Must not be counted as income.
	ReOwnFunds = regexp.MustCompile(`(?i)(внесение\s+собственных\s+средств|взнос\s+собственных\s+средств|пополнение\s+(своего\s+|расч[её]тного\s+)?сч[её]та)`)

	// Bounced outgoing payment coming back.
	RePaymentReturn = regexp.MustCompile(`(?i)(возврат\s+(ошибочно\s+)?перечисленных|возврат\s+платежа|плат[её]ж\s+возвращ)`)

	// Moving money between own accounts.
	ReInternalTransfer = regexp.MustCompile(`(?i)(перевод\s+между\s+(своими\s+)?счетами|перевод\s+собственных\s+средств|перечисление\s+собственных\s+средств)`)
)

// Tax subtype patterns, checked in order; the first hit wins. The
// catch-all for the unified tax account lives in the classifier.
var TaxSubtypes = []struct {
	Name    string
	Pattern *regexp.Regexp
}{
	{"НДС", regexp.MustCompile(`(?i)ндс`)},
	{"УСН", regexp.MustCompile(`(?i)(усн|упрощ[её]нн|единый\s+налог\s+при)`)},
	{"НДФЛ", regexp.MustCompile(`(?i)(ндфл|налог\s+на\s+доходы\s+физ)`)},
	{"Страховые взносы", regexp.MustCompile(`(?i)(страхов\S*\s+взнос|взнос\S*\s+на\s+(опс|омс)|фиксированн\S*\s+взнос)`)},
}

// Counterparty-name patterns.
var (
	ReTaxAuthority = regexp.MustCompile(`(?i)(казначейств|уфк\s+по|фнс|налогов\S*\s+(служб|инспекц)|пенсионн\S*\s+фонд|фонд\s+социальн|отделение\s+сфр|фонд\s+пенсионного)`)
	ReWBName       = regexp.MustCompile(`(?i)(вайлдберриз|wildberries|«?рвб»?)`)
	ReOzonName     = regexp.MustCompile(`(?i)(озон|ozon|интернет\s+решения)`)
	ReFulfillName  = regexp.MustCompile(`(?i)(фулфилмент|fulfillment)`)
)

// Known-INN allowlists. INNs are compared after stripping the /KPP
// suffix, see NormINN.

// MarketplaceINN maps payout-account INNs to the income category of the
// marketplace behind them.
var MarketplaceINN = map[string]string{
	"9714053621": "Поступление WB",   // ООО "РВБ"
	"7721546864": "Поступление WB",   // ООО "Вайлдберриз"
	"7704217370": "Поступление Ozon", // ООО "Интернет Решения"
	"9703077050": "Поступление Ozon", // ООО "Озон Банк"
}

// FulfillmentINN lists known fulfillment partners.
var FulfillmentINN = map[string]bool{
	"9718167415": true,
	"7716958297": true,
}

// TaxINN lists the federal treasury accounts all unified tax payments
// go through.
var TaxINN = map[string]bool{
	"7727406020": true, // Казначейство России (ЕНС)
	"7707329152": true,
}

// TelecomINN lists telecom/IT providers billed over the bank.
var TelecomINN = map[string]bool{
	"7707049388": true, // Ростелеком
	"7713076301": true, // МТС
}

// Keyword groups for the expense cascade. Matching is lowercase
// substring containment, same as the source ledger. Both е and ё
// spellings are listed where exports differ.
var (
	AccountingKeywords = []string{"бухгалтер", "онлайн-бухгалтер", "ведение учета", "ведение учёта"}
	BankFeeKeywords    = []string{"комисси", "обслуживание счета", "обслуживание счёта", "за выполнение функций"}
	FulfillKeywords    = []string{"фулфилмент", "упаковк", "маркировк", "приемка товара", "приёмка товара", "сборка заказ"}
	ITKeywords         = []string{"подписк", "хостинг", "домен", "тариф", "лицензи", "программн", "доступ к сервису", "1с", "saas", "мой склад", "услуги связи", "интернет"}
	SalaryKeywords     = []string{"зарплат", "заработн", "аванс", "оплата труда", "отпускн"}
	RentKeywords       = []string{"аренд", "коммунальн", "электроэнерг", "субаренд"}
	CertKeywords       = []string{"сертификат", "сертификац", "декларац", "соответств", "испытани", "протокол испытан"}
	GoodsKeywords      = []string{"за товар", "закупка товара", "поставка товара", "ткан", "фурнитур", "образцы товара"}
	MarketingKeywords  = []string{"маркетинг", "реклам", "продвижени", "фотосъемк", "фотосъёмк", "видеосъемк", "видеосъёмк", "контент", "блогер", "инфографик"}
	LogisticsKeywords  = []string{"доставк", "транспортн", "перевозк", "логистик", "грузоперевозк", "сдэк", "деловые линии"}
)

// NormINN strips an optional /KPP suffix and surrounding whitespace.
func NormINN(inn string) string {
	inn = strings.TrimSpace(inn)
	if i := strings.IndexByte(inn, '/'); i >= 0 {
		inn = inn[:i]
	}
	return inn
}

// ContainsAny reports whether lowercased text contains any keyword from
// the group.
func ContainsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
