package transactions

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/rs/zerolog"
)

// Classification is the category and direction assigned to a raw entry
type Classification struct {
	Category string                 `json:"category"`
	Type     domain.TransactionType `json:"type"`
	Source   string                 `json:"source"`
}

// Classifier turns a free-text description into a classification.
// Implementations backed by remote models may fail or time out.
type Classifier interface {
	Classify(ctx context.Context, description string, amount float64) (Classification, error)
}

// DefaultClassifyTimeout bounds a single classifier call
const DefaultClassifyTimeout = 3 * time.Second

type keywordRule struct {
	keywords []string
	category string
	txType   domain.TransactionType
}

// rules are evaluated in order; the first keyword hit wins. Keywords match
// whole words, multi-word keywords match consecutive words.
var rules = []keywordRule{
	{[]string{"salary", "payroll", "wage"}, "income", domain.TransactionCredit},
	{[]string{"refund", "cashback", "reversal"}, "refund", domain.TransactionCredit},
	{[]string{"interest credited", "dividend"}, "investment_income", domain.TransactionCredit},
	{[]string{"transfer", "neft", "imps", "upi to self"}, domain.CategoryTransfer, domain.TransactionTransfer},
	{[]string{"fee", "fees", "charges", "penalty", "gst on"}, "fees", domain.TransactionFee},
	{[]string{"netflix", "spotify", "prime", "subscription"}, "subscriptions", domain.TransactionDebit},
	{[]string{"swiggy", "zomato", "restaurant", "cafe", "ubereats"}, "dining", domain.TransactionDebit},
	{[]string{"grocery", "supermarket", "bigbasket", "mart", "dmart"}, "groceries", domain.TransactionDebit},
	{[]string{"uber", "ola", "fuel", "petrol", "metro"}, "transport", domain.TransactionDebit},
	{[]string{"electricity", "water bill", "broadband", "mobile recharge"}, "utilities", domain.TransactionDebit},
	{[]string{"rent", "lease"}, "housing", domain.TransactionDebit},
	{[]string{"amazon", "flipkart", "myntra"}, "shopping", domain.TransactionDebit},
	{[]string{"pharmacy", "hospital", "clinic"}, "healthcare", domain.TransactionDebit},
	{[]string{"credited"}, "income", domain.TransactionCredit},
}

// RuleClassifier is a deterministic keyword classifier
type RuleClassifier struct{}

// Classify matches description keywords; unmatched entries become uncategorized debits
func (RuleClassifier) Classify(_ context.Context, description string, _ float64) (Classification, error) {
	words := " " + strings.Join(tokenize(description), " ") + " "
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(words, " "+kw+" ") {
				return Classification{Category: rule.category, Type: rule.txType, Source: "rules"}, nil
			}
		}
	}
	return Classification{Category: "uncategorized", Type: domain.TransactionDebit, Source: "rules"}, nil
}

// tokenize lowercases s and splits it on anything that is not a letter or digit
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ClassifyWithFallback asks the primary classifier and falls back to the keyword
// rules when it fails, returns an unusable answer or does not answer within
// timeout. A non-positive timeout uses DefaultClassifyTimeout.
func ClassifyWithFallback(ctx context.Context, primary Classifier, timeout time.Duration, log zerolog.Logger, description string, amount float64) Classification {
	if primary != nil {
		c, err := classifyOnce(ctx, primary, timeout, description, amount)
		if err == nil && c.Category != "" && validType(c.Type) {
			return c
		}
		log.Warn().Err(err).Str("description", description).Msg("Classifier unavailable, using keyword rules")
	}
	c, _ := RuleClassifier{}.Classify(ctx, description, amount)
	return c
}

// classifyOnce runs the classifier in its own goroutine so an implementation
// that ignores ctx still cannot block past the deadline.
func classifyOnce(ctx context.Context, primary Classifier, timeout time.Duration, description string, amount float64) (Classification, error) {
	if timeout <= 0 {
		timeout = DefaultClassifyTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type reply struct {
		c   Classification
		err error
	}
	ch := make(chan reply, 1)
	go func() {
		c, err := primary.Classify(callCtx, description, amount)
		ch <- reply{c: c, err: err}
	}()

	select {
	case r := <-ch:
		return r.c, r.err
	case <-callCtx.Done():
		return Classification{}, fmt.Errorf("classifier: %w", callCtx.Err())
	}
}

func validType(t domain.TransactionType) bool {
	switch t {
	case domain.TransactionDebit, domain.TransactionCredit, domain.TransactionTransfer, domain.TransactionFee:
		return true
	}
	return false
}

// RawEntry is an unclassified line from a statement or message feed
type RawEntry struct {
	Date        time.Time `json:"date"`
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Merchant    string    `json:"merchant,omitempty"`
	Amount      float64   `json:"amount"`
}

// Ingest classifies raw entries and validates the resulting transactions.
// Each classifier call is bounded by timeout. Malformed entries are rejected
// here so the analysis core never sees them.
func Ingest(ctx context.Context, classifier Classifier, timeout time.Duration, log zerolog.Logger, entries []RawEntry) ([]domain.Transaction, error) {
	out := make([]domain.Transaction, 0, len(entries))
	for _, e := range entries {
		c := ClassifyWithFallback(ctx, classifier, timeout, log, e.Description, e.Amount)
		tx := domain.Transaction{
			Date:     e.Date,
			ID:       e.ID,
			Category: c.Category,
			Type:     c.Type,
			Merchant: e.Merchant,
			Amount:   e.Amount,
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("failed to ingest entry: %w", err)
		}
		out = append(out, tx)
	}
	return out, nil
}
