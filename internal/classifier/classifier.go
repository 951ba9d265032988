// Package classifier assigns every bank transaction exactly one
// classification via an ordered rule cascade: the first matching rule
// wins, more specific rules come before general ones. Classification is
// total and deterministic; rows no rule recognizes get the catch-all
// category with manual confidence instead of an error.
package classifier

import (
	"strings"
	"unicode/utf8"

	"bankledger/internal/domain"
	"bankledger/internal/rules"
)

// Options configure the account-owner context the cascade needs.
type Options struct {
	// OwnerName is the account holder's full name, used to catch
	// payouts to the owner's personal account that lack explicit
	// transfer wording. Empty disables the rule.
	OwnerName string

	// OwnBankNames and OwnBankBICs identify the operator's own bank,
	// for telling "account ↔ card" transfers from withdrawals to
	// another bank, and for the bank-fee rule.
	OwnBankNames []string
	OwnBankBICs  []string

	// Extra keyword rules appended to the expense cascade before the
	// catch-all.
	Extra []rules.CategoryRule
}

// Classifier holds the compiled cascade. Safe for concurrent use:
// nothing is mutated after New.
type Classifier struct {
	ownerTokens  []string
	ownBankNames []string
	ownBankBICs  map[string]bool
	cascade      []rule
}

type rule struct {
	name  string
	match func(c *Classifier, tx domain.Transaction) (domain.Classification, bool)
}

// New builds a classifier. The rule order is fixed and load-bearing;
// see the cascade variable.
func New(opts Options) *Classifier {
	c := &Classifier{
		ownerTokens: ownerTokens(opts.OwnerName),
		ownBankBICs: make(map[string]bool, len(opts.OwnBankBICs)),
		cascade:     cascade(opts.Extra),
	}
	for _, name := range opts.OwnBankNames {
		if n := strings.ToLower(strings.TrimSpace(name)); n != "" {
			c.ownBankNames = append(c.ownBankNames, n)
		}
	}
	for _, bic := range opts.OwnBankBICs {
		if b := strings.TrimSpace(bic); b != "" {
			c.ownBankBICs[b] = true
		}
	}
	return c
}

// Classify runs the cascade over one transaction. It always returns a
// complete classification and never fails; uncertainty is reported via
// ConfidenceManual, not errors.
func (c *Classifier) Classify(tx domain.Transaction) domain.Classification {
	for _, r := range c.cascade {
		if cl, ok := r.match(c, tx); ok {
			return cl
		}
	}
	// Unreachable: the cascade ends in catch-alls that always match.
	return domain.Classification{
		Type:       domain.TypeExpense,
		Category:   domain.CatOtherExpense,
		Confidence: domain.ConfidenceManual,
	}
}

// Run classifies a whole batch, preserving order.
func (c *Classifier) Run(txs []domain.Transaction) []domain.ClassifiedTransaction {
	out := make([]domain.ClassifiedTransaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, domain.ClassifiedTransaction{
			Transaction:    tx,
			Classification: c.Classify(tx),
		})
	}
	return out
}

// cascade builds the ordered rule list. Precedence here is the
// contract: a purpose mentioning both "перевод собственных средств" and
// "за товар" is a transfer because the transfer rule runs first.
func cascade(extra []rules.CategoryRule) []rule {
	rs := []rule{
		{"own-funds-deposit", matchOwnFundsDeposit},
		{"payment-return", matchPaymentReturn},
		{"internal-transfer", matchInternalTransfer},
		{"owner-withdrawal", matchOwnerWithdrawal},
		{"income", matchIncome},
		{"tax-authority", matchTaxAuthority},
		{"own-bank", matchOwnBank},
		{"fulfillment", matchFulfillment},
		{"logistics", matchLogistics},
		{"it-services", matchIT},
		{"salary", matchSalary},
		{"rent", matchRent},
		{"certification", matchCertification},
		{"goods", matchGoods},
		{"marketing", matchMarketing},
	}
	for _, ex := range extra {
		ex := ex
		rs = append(rs, rule{
			name: "extra:" + ex.Name,
			match: func(c *Classifier, tx domain.Transaction) (domain.Classification, bool) {
				if tx.IsIncome || !rules.ContainsAny(tx.Purpose+" "+tx.Counterparty, ex.Keywords) {
					return domain.Classification{}, false
				}
				return auto(domain.TypeExpense, ex.Name, ""), true
			},
		})
	}
	rs = append(rs, rule{"other-expense", matchOtherExpense})
	return rs
}

func auto(typ, cat, sub string) domain.Classification {
	return domain.Classification{Type: typ, Category: cat, Subcategory: sub, Confidence: domain.ConfidenceAuto}
}

// Rule 1: the owner topping the account up is not income.
func matchOwnFundsDeposit(_ *Classifier, tx domain.Transaction) (domain.Classification, bool) {
	if !tx.IsIncome || !rules.ReOwnFunds.MatchString(tx.Purpose) {
		return domain.Classification{}, false
	}
	return auto(domain.TypeInternal, domain.CatTransfer, "Внесение собственных средств"), true
}

// Rule 2: a bounced payment coming back is not income either.
func matchPaymentReturn(_ *Classifier, tx domain.Transaction) (domain.Classification, bool) {
	if !tx.IsIncome || !rules.RePaymentReturn.MatchString(tx.Purpose) {
		return domain.Classification{}, false
	}
	return auto(domain.TypeInternal, domain.CatTransfer, "Возврат платежа"), true
}

// Rule 3: explicit transfer wording. Own bank on the other side means
// money moved between the operator's own products. Withdrawal needs a
// concrete other bank; a row naming no correspondent bank at all stays
// an internal transfer.
func matchInternalTransfer(c *Classifier, tx domain.Transaction) (domain.Classification, bool) {
	if !rules.ReInternalTransfer.MatchString(tx.Purpose) {
		return domain.Classification{}, false
	}
	if c.isOwnBank(tx.Bank, tx.BIC) {
		return auto(domain.TypeInternal, domain.CatTransfer, "Счет ↔ карта"), true
	}
	bank := strings.TrimSpace(tx.Bank)
	if bank == "" && strings.TrimSpace(tx.BIC) == "" {
		return auto(domain.TypeInternal, domain.CatTransfer, "Перевод собственных средств"), true
	}
	if bank == "" {
		bank = strings.TrimSpace(tx.Counterparty)
	}
	return auto(domain.TypeWithdrawal, domain.CatWithdrawal, "→ "+bank), true
}

// Rule 4: outgoing payment to the owner personally. Catches payouts
// that lack transfer wording entirely.
func matchOwnerWithdrawal(c *Classifier, tx domain.Transaction) (domain.Classification, bool) {
	if tx.IsIncome || !c.matchesOwner(tx.Counterparty) {
		return domain.Classification{}, false
	}
	return auto(domain.TypeWithdrawal, domain.CatWithdrawal, "Вывод на личный счет"), true
}

// Rule 5: anything incoming that survived rules 1-3 is income. The
// category comes from the counterparty INN or name; unknown payers go
// to review.
func matchIncome(_ *Classifier, tx domain.Transaction) (domain.Classification, bool) {
	if !tx.IsIncome {
		return domain.Classification{}, false
	}
	if cat, ok := rules.MarketplaceINN[rules.NormINN(tx.INN)]; ok {
		return auto(domain.TypeIncome, cat, ""), true
	}
	if rules.ReWBName.MatchString(tx.Counterparty) {
		return auto(domain.TypeIncome, domain.CatWBIncome, ""), true
	}
	if rules.ReOzonName.MatchString(tx.Counterparty) {
		return auto(domain.TypeIncome, domain.CatOzonIncome, ""), true
	}
	return domain.Classification{
		Type:        domain.TypeIncome,
		Category:    domain.CatOtherIncome,
		Subcategory: strings.TrimSpace(tx.Counterparty),
		Confidence:  domain.ConfidenceManual,
	}, true
}

// Expense rules below only ever see outgoing transactions: everything
// incoming was consumed by rule 5.

func matchTaxAuthority(_ *Classifier, tx domain.Transaction) (domain.Classification, bool) {
	if !rules.TaxINN[rules.NormINN(tx.INN)] && !rules.ReTaxAuthority.MatchString(tx.Counterparty) {
		return domain.Classification{}, false
	}
	sub := "ЕНП"
	for _, ts := range rules.TaxSubtypes {
		if ts.Pattern.MatchString(tx.Purpose) {
			sub = ts.Name
			break
		}
	}
	return auto(domain.TypeExpense, domain.CatTaxes, sub), true
}

// Payments where the operator's own bank is the payee: account fees,
// or the bank's bundled accounting subscription. Only the counterparty
// counts; tx.Bank/tx.BIC describe the correspondent bank, and a
// supplier holding an account at the same bank must fall through to
// the expense rules below.
func matchOwnBank(c *Classifier, tx domain.Transaction) (domain.Classification, bool) {
	if !c.isOwnBank(tx.Counterparty, "") {
		return domain.Classification{}, false
	}
	if rules.ContainsAny(tx.Purpose, rules.AccountingKeywords) {
		return auto(domain.TypeExpense, domain.CatIT, "Бухгалтерия"), true
	}
	sub := ""
	if rules.ContainsAny(tx.Purpose, rules.BankFeeKeywords) {
		sub = "Обслуживание счета"
	}
	return auto(domain.TypeExpense, domain.CatBankFee, sub), true
}

func matchFulfillment(_ *Classifier, tx domain.Transaction) (domain.Classification, bool) {
	if rules.FulfillmentINN[rules.NormINN(tx.INN)] ||
		rules.ContainsAny(tx.Purpose, rules.FulfillKeywords) ||
		rules.ReFulfillName.MatchString(tx.Counterparty) {
		return auto(domain.TypeExpense, domain.CatFulfillment, ""), true
	}
	return domain.Classification{}, false
}

func matchLogistics(_ *Classifier, tx domain.Transaction) (domain.Classification, bool) {
	if !rules.ContainsAny(tx.Purpose, rules.LogisticsKeywords) {
		return domain.Classification{}, false
	}
	return auto(domain.TypeExpense, domain.CatLogistics, ""), true
}

func matchIT(_ *Classifier, tx domain.Transaction) (domain.Classification, bool) {
	if rules.TelecomINN[rules.NormINN(tx.INN)] || rules.ContainsAny(tx.Purpose, rules.ITKeywords) {
		return auto(domain.TypeExpense, domain.CatIT, ""), true
	}
	return domain.Classification{}, false
}

func matchSalary(_ *Classifier, tx domain.Transaction) (domain.Classification, bool) {
	if !rules.ContainsAny(tx.Purpose, rules.SalaryKeywords) {
		return domain.Classification{}, false
	}
	return auto(domain.TypeExpense, domain.CatSalary, ""), true
}

func matchRent(_ *Classifier, tx domain.Transaction) (domain.Classification, bool) {
	if !rules.ContainsAny(tx.Purpose, rules.RentKeywords) {
		return domain.Classification{}, false
	}
	return auto(domain.TypeExpense, domain.CatRent, ""), true
}

func matchCertification(_ *Classifier, tx domain.Transaction) (domain.Classification, bool) {
	if !rules.ContainsAny(tx.Purpose, rules.CertKeywords) {
		return domain.Classification{}, false
	}
	return auto(domain.TypeExpense, domain.CatCertification, ""), true
}

func matchGoods(_ *Classifier, tx domain.Transaction) (domain.Classification, bool) {
	if !rules.ContainsAny(tx.Purpose, rules.GoodsKeywords) {
		return domain.Classification{}, false
	}
	return auto(domain.TypeExpense, domain.CatGoods, ""), true
}

func matchMarketing(_ *Classifier, tx domain.Transaction) (domain.Classification, bool) {
	if !rules.ContainsAny(tx.Purpose, rules.MarketingKeywords) {
		return domain.Classification{}, false
	}
	return auto(domain.TypeExpense, domain.CatMarketing, ""), true
}

// Catch-all: unknown outgoing payment, flagged for review.
func matchOtherExpense(_ *Classifier, tx domain.Transaction) (domain.Classification, bool) {
	return domain.Classification{
		Type:        domain.TypeExpense,
		Category:    domain.CatOtherExpense,
		Subcategory: strings.TrimSpace(tx.Counterparty),
		Confidence:  domain.ConfidenceManual,
	}, true
}

func (c *Classifier) isOwnBank(name, bic string) bool {
	if bic != "" && c.ownBankBICs[strings.TrimSpace(bic)] {
		return true
	}
	lower := strings.ToLower(name)
	for _, own := range c.ownBankNames {
		if own != "" && strings.Contains(lower, own) {
			return true
		}
	}
	return false
}

// matchesOwner reports whether the counterparty text contains at least
// two of the owner's name tokens. Tokens of 2 characters or fewer are
// ignored, so owners whose name yields fewer than two usable tokens
// never match here.
func (c *Classifier) matchesOwner(counterparty string) bool {
	if len(c.ownerTokens) < 2 || counterparty == "" {
		return false
	}
	lower := strings.ToLower(counterparty)
	hits := 0
	for _, tok := range c.ownerTokens {
		if strings.Contains(lower, tok) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	return false
}

func ownerTokens(name string) []string {
	var toks []string
	for _, tok := range strings.Fields(strings.ToLower(name)) {
		if utf8.RuneCountInString(tok) > 2 {
			toks = append(toks, tok)
		}
	}
	return toks
}

// RuleNames returns the cascade order, for diagnostics.
func (c *Classifier) RuleNames() []string {
	names := make([]string, len(c.cascade))
	for i, r := range c.cascade {
		names[i] = r.name
	}
	return names
}
