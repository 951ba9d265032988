package domain

// Transaction types. Labels match the source ledger so existing
// spreadsheets keep filtering on them.
const (
	TypeIncome     = "Доход"
	TypeExpense    = "Расход"
	TypeInternal   = "Внутренний перевод"
	TypeWithdrawal = "Вывод"
)

// Income categories.
const (
	CatWBIncome    = "Поступление WB"
	CatOzonIncome  = "Поступление Ozon"
	CatOtherIncome = "Прочие поступления"
)

// Expense categories.
const (
	CatGoods         = "Закупка товара"
	CatFulfillment   = "Фулфилмент"
	CatLogistics     = "Логистика"
	CatMarketing     = "Маркетинг"
	CatSalary        = "Зарплата"
	CatRent          = "Аренда"
	CatTaxes         = "Налоги"
	CatCertification = "Сертификация"
	CatIT            = "IT-сервисы"
	CatBankFee       = "Комиссия банка"
	CatOtherExpense  = "Прочие расходы"
)

// Transfer / withdrawal categories.
const (
	CatTransfer   = "Перевод между счетами"
	CatWithdrawal = "Вывод средств"
)

// Classifier confidence. "manual" flags the row for human review,
// it is not an error state.
const (
	ConfidenceAuto   = "auto"
	ConfidenceManual = "manual"
)

// Classification is the result the classifier attaches to a transaction.
// Every transaction gets exactly one; the cascade never fails.
type Classification struct {
	Type        string
	Category    string
	Subcategory string
	Confidence  string
}

// ClassifiedTransaction is one journal row: the original transaction
// plus its classification. The transaction is never mutated.
type ClassifiedTransaction struct {
	Transaction
	Classification
}
