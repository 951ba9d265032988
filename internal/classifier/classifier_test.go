package classifier

import (
	"fmt"
	"testing"
	"time"

	"bankledger/internal/domain"
	"bankledger/internal/rules"
)

func testClassifier() *Classifier {
	return New(Options{
		OwnerName:    "Иванов Иван Иванович",
		OwnBankNames: []string{"Точка"},
		OwnBankBICs:  []string{"044525104"},
	})
}

func tx(purpose, counterparty string, income bool) domain.Transaction {
	return domain.Transaction{
		Date:         time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:       1000,
		IsIncome:     income,
		Counterparty: counterparty,
		Purpose:      purpose,
	}
}

func TestClassify_Cascade(t *testing.T) {
	c := testClassifier()

	tests := []struct {
		name     string
		tx       domain.Transaction
		wantType string
		wantCat  string
		wantConf string
	}{
		{
			name:     "own funds deposit is not income",
			tx:       tx("Внесение собственных средств", "Иванов Иван Иванович", true),
			wantType: domain.TypeInternal,
			wantCat:  domain.CatTransfer,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name:     "payment return bounce",
			tx:       tx("Возврат ошибочно перечисленных средств по п/п 42", "ООО Ромашка", true),
			wantType: domain.TypeInternal,
			wantCat:  domain.CatTransfer,
			wantConf: domain.ConfidenceAuto,
		},
		{
			// No correspondent bank on the row: the money cannot be
			// shown to have left to another institution.
			name:     "transfer of own funds without bank info",
			tx:       tx("Перевод собственных средств", "Иванов", false),
			wantType: domain.TypeInternal,
			wantCat:  domain.CatTransfer,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name: "transfer of own funds to another bank",
			tx: func() domain.Transaction {
				x := tx("Перевод собственных средств", "Иванов Иван", false)
				x.Bank = `АО "Альфа-Банк"`
				x.BIC = "044525593"
				return x
			}(),
			wantType: domain.TypeWithdrawal,
			wantCat:  domain.CatWithdrawal,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name: "transfer to own bank card",
			tx: func() domain.Transaction {
				x := tx("Перевод между своими счетами", "Иванов Иван", false)
				x.Bank = `АО "Точка Банк"`
				return x
			}(),
			wantType: domain.TypeInternal,
			wantCat:  domain.CatTransfer,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name:     "owner payout without transfer wording",
			tx:       tx("По договору 7 от 01.02.2025", "ИВАНОВ ИВАН ИВАНОВИЧ", false),
			wantType: domain.TypeWithdrawal,
			wantCat:  domain.CatWithdrawal,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name: "wildberries payout by INN",
			tx: func() domain.Transaction {
				x := tx("Перечисление по договору оферты", "ООО РВБ", true)
				x.INN = "9714053621"
				return x
			}(),
			wantType: domain.TypeIncome,
			wantCat:  domain.CatWBIncome,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name: "wildberries payout by INN with KPP suffix",
			tx: func() domain.Transaction {
				x := tx("Выплата", "ООО РВБ", true)
				x.INN = "9714053621/771401001"
				return x
			}(),
			wantType: domain.TypeIncome,
			wantCat:  domain.CatWBIncome,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name:     "ozon payout by name",
			tx:       tx("Перечисление за реализованный товар", "ООО Интернет Решения", true),
			wantType: domain.TypeIncome,
			wantCat:  domain.CatOzonIncome,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name:     "unknown income goes to review",
			tx:       tx("Оплата по договору 99", "ООО Незнакомец", true),
			wantType: domain.TypeIncome,
			wantCat:  domain.CatOtherIncome,
			wantConf: domain.ConfidenceManual,
		},
		{
			name: "unified tax payment by INN",
			tx: func() domain.Transaction {
				x := tx("Единый налоговый платеж", "Казначейство России (ФНС России)", false)
				x.INN = "7727406020"
				return x
			}(),
			wantType: domain.TypeExpense,
			wantCat:  domain.CatTaxes,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name: "bank fee to own bank",
			tx: func() domain.Transaction {
				x := tx("Комиссия за обслуживание счета", `АО "Точка Банк"`, false)
				return x
			}(),
			wantType: domain.TypeExpense,
			wantCat:  domain.CatBankFee,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name: "accounting subscription via own bank",
			tx: func() domain.Transaction {
				x := tx("Оплата сервиса Онлайн-бухгалтерия", `АО "Точка Банк"`, false)
				return x
			}(),
			wantType: domain.TypeExpense,
			wantCat:  domain.CatIT,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name:     "fulfillment by purpose keyword",
			tx:       tx("Оплата за упаковку и маркировку товара", "ИП Петров П.П.", false),
			wantType: domain.TypeExpense,
			wantCat:  domain.CatFulfillment,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name:     "logistics carrier",
			tx:       tx("Оплата за грузоперевозку по маршруту Москва-Казань", "ООО Деловые Линии", false),
			wantType: domain.TypeExpense,
			wantCat:  domain.CatLogistics,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name:     "it subscription",
			tx:       tx("Оплата подписки на сервис Мой Склад", "ООО Логнекс", false),
			wantType: domain.TypeExpense,
			wantCat:  domain.CatIT,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name:     "salary",
			tx:       tx("Выплата заработной платы за март", "Сидорова А.А.", false),
			wantType: domain.TypeExpense,
			wantCat:  domain.CatSalary,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name:     "rent",
			tx:       tx("Оплата аренды склада за март 2025", "ООО Складской Комплекс", false),
			wantType: domain.TypeExpense,
			wantCat:  domain.CatRent,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name:     "certification",
			tx:       tx("Оформление декларации о соответствии ТР ТС", "ООО Центр Сертификации", false),
			wantType: domain.TypeExpense,
			wantCat:  domain.CatCertification,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name:     "goods purchase",
			tx:       tx("Оплата по счету за товар №123", "ООО Ромашка", false),
			wantType: domain.TypeExpense,
			wantCat:  domain.CatGoods,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name:     "marketing",
			tx:       tx("Оплата фотосъемки товара для карточек", "ИП Фотограф", false),
			wantType: domain.TypeExpense,
			wantCat:  domain.CatMarketing,
			wantConf: domain.ConfidenceAuto,
		},
		{
			name:     "unknown expense goes to review",
			tx:       tx("Оплата по договору б/н", "ООО Что-То Новое", false),
			wantType: domain.TypeExpense,
			wantCat:  domain.CatOtherExpense,
			wantConf: domain.ConfidenceManual,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.tx)
			if got.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", got.Type, tt.wantType)
			}
			if got.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", got.Category, tt.wantCat)
			}
			if got.Confidence != tt.wantConf {
				t.Errorf("Confidence = %q, want %q", got.Confidence, tt.wantConf)
			}
		})
	}
}

// A purpose carrying both transfer and goods wording must classify as
// the transfer: earlier rules win.
func TestClassify_Precedence(t *testing.T) {
	c := testClassifier()

	tests := []struct {
		name     string
		tx       domain.Transaction
		wantType string
	}{
		{
			name:     "transfer beats goods keyword",
			tx:       tx("Перевод собственных средств за товар", "ООО Ромашка", false),
			wantType: domain.TypeInternal,
		},
		{
			name:     "own funds deposit beats marketplace income",
			tx:       tx("Внесение собственных средств на счет", "ООО РВБ", true),
			wantType: domain.TypeInternal,
		},
		{
			name:     "tax authority beats salary keyword",
			tx:       tx("НДФЛ с заработной платы за март", "УФК по г. Москве (ФНС)", false),
			wantType: domain.TypeExpense,
		},
		{
			name:     "fulfillment beats goods keyword",
			tx:       tx("Упаковка товара по акту 5", "ООО Фулфилмент Центр", false),
			wantType: domain.TypeExpense,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.tx)
			if got.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", got.Type, tt.wantType)
			}
		})
	}

	// And the concrete category assertions behind the two keyword clashes.
	got := c.Classify(tx("НДФЛ с заработной платы за март", "УФК по г. Москве (ФНС)", false))
	if got.Category != domain.CatTaxes || got.Subcategory != "НДФЛ" {
		t.Errorf("tax clash: got %q/%q, want %q/НДФЛ", got.Category, got.Subcategory, domain.CatTaxes)
	}
	got = c.Classify(tx("Упаковка товара по акту 5", "ООО Фулфилмент Центр", false))
	if got.Category != domain.CatFulfillment {
		t.Errorf("fulfillment clash: got %q, want %q", got.Category, domain.CatFulfillment)
	}
}

// A supplier who happens to bank where the operator does is still a
// supplier: the bank-fee rule keys on the payee, not the correspondent
// bank fields.
func TestClassify_SupplierAtOwnBank(t *testing.T) {
	c := testClassifier()

	byName := tx("Оплата по счету за товар №77", "ООО Ромашка", false)
	byName.Bank = `АО "Точка Банк"`
	if got := c.Classify(byName); got.Category != domain.CatGoods {
		t.Errorf("bank name: Category = %q, want %q", got.Category, domain.CatGoods)
	}

	byBIC := tx("Оплата по счету за товар №78", "ООО Ромашка", false)
	byBIC.BIC = "044525104"
	if got := c.Classify(byBIC); got.Category != domain.CatGoods {
		t.Errorf("bank BIC: Category = %q, want %q", got.Category, domain.CatGoods)
	}

	// The bank itself as payee still matches.
	fee := tx("Комиссия за обслуживание счета", `АО "Точка Банк"`, false)
	fee.BIC = "044525104"
	if got := c.Classify(fee); got.Category != domain.CatBankFee {
		t.Errorf("fee: Category = %q, want %q", got.Category, domain.CatBankFee)
	}
}

func TestClassify_TaxSubtypes(t *testing.T) {
	c := testClassifier()

	tests := []struct {
		purpose string
		want    string
	}{
		{"Уплата НДС за 1 квартал 2025", "НДС"},
		{"Налог по УСН за 2024 год", "УСН"},
		{"НДФЛ за сотрудников", "НДФЛ"},
		{"Страховые взносы на ОПС", "Страховые взносы"},
		{"Единый налоговый платеж", "ЕНП"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			x := tx(tt.purpose, "Казначейство России", false)
			x.INN = "7727406020"
			got := c.Classify(x)
			if got.Category != domain.CatTaxes {
				t.Fatalf("Category = %q, want %q", got.Category, domain.CatTaxes)
			}
			if got.Subcategory != tt.want {
				t.Errorf("Subcategory = %q, want %q", got.Subcategory, tt.want)
			}
		})
	}
}

func TestClassify_OwnerMatch(t *testing.T) {
	tests := []struct {
		name         string
		owner        string
		counterparty string
		want         bool
	}{
		{"two of three tokens", "Иванов Иван Иванович", "Иванов Иван", true},
		{"all tokens reversed order", "Иванов Иван Иванович", "ИВАН ИВАНОВИЧ ИВАНОВ", true},
		// "Иван" is a substring of "Иванов", so the surname alone
		// yields two token hits. Known quirk of substring matching.
		{"surname containing first name", "Иванов Иван Иванович", "Иванов А.А.", true},
		{"one token is not enough", "Петров Сергей Михайлович", "Петров К.", false},
		{"unrelated person", "Иванов Иван Иванович", "Петров Петр Петрович", false},
		{"empty owner never matches", "", "Иванов Иван", false},
		{"single-word owner never matches", "Иванов", "Иванов Иванов", false},
		{"short tokens are ignored", "Ли Му", "Ли Му", false},
		{"case insensitive", "Иванов Иван Иванович", "иванов иван и.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Options{OwnerName: tt.owner})
			got := c.Classify(tx("Оплата", tt.counterparty, false))
			matched := got.Type == domain.TypeWithdrawal
			if matched != tt.want {
				t.Errorf("owner match = %v, want %v", matched, tt.want)
			}
		})
	}
}

// Classification must be total: any input produces a complete result
// with a valid confidence, and never panics.
func TestClassify_Totality(t *testing.T) {
	c := testClassifier()

	inputs := []domain.Transaction{
		{},
		{IsIncome: true},
		{Purpose: "", Counterparty: "", INN: ""},
		{Purpose: "???", Counterparty: " ", Amount: -5},
		tx("Оплата по счету за товар", "ООО Ромашка", false),
	}
	for i, in := range inputs {
		got := c.Classify(in)
		if got.Type == "" || got.Category == "" {
			t.Errorf("input %d: incomplete classification %+v", i, got)
		}
		if got.Confidence != domain.ConfidenceAuto && got.Confidence != domain.ConfidenceManual {
			t.Errorf("input %d: confidence = %q", i, got.Confidence)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := testClassifier()
	x := tx("Оплата по счету за товар №123", "ООО Ромашка", false)

	first := c.Classify(x)
	for i := 0; i < 100; i++ {
		if got := c.Classify(x); got != first {
			t.Fatalf("iteration %d: %+v != %+v", i, got, first)
		}
	}
}

func TestClassify_ExtraRules(t *testing.T) {
	c := New(Options{
		Extra: []rules.CategoryRule{
			{Name: "Обучение", Keywords: []string{"курс", "обучени"}},
		},
	})

	got := c.Classify(tx("Оплата курса по маркетплейсам", "ИП Коуч", false))
	if got.Category != "Обучение" {
		t.Errorf("Category = %q, want Обучение", got.Category)
	}
	if got.Confidence != domain.ConfidenceAuto {
		t.Errorf("Confidence = %q, want auto", got.Confidence)
	}

	// Built-in rules still precede extras.
	got = c.Classify(tx("Оплата аренды и курса", "ООО Площадка", false))
	if got.Category != domain.CatRent {
		t.Errorf("Category = %q, want %q", got.Category, domain.CatRent)
	}
}

func TestRun_PreservesOrder(t *testing.T) {
	c := testClassifier()
	var txs []domain.Transaction
	for i := 0; i < 5; i++ {
		x := tx("Оплата по счету за товар", "ООО Ромашка", false)
		x.DocNum = fmt.Sprintf("%d", i)
		txs = append(txs, x)
	}

	out := c.Run(txs)
	if len(out) != len(txs) {
		t.Fatalf("len = %d, want %d", len(out), len(txs))
	}
	for i, row := range out {
		if row.DocNum != fmt.Sprintf("%d", i) {
			t.Errorf("row %d: DocNum = %q", i, row.DocNum)
		}
	}
}
