// Package price implements the three-pass price file search, base/surcharge/
// discount matching, and fixed-point monetary arithmetic (base plus
// surcharges minus discounts, taxes, optional rounding).
package price

import (
	"time"

	"github.com/shopspring/decimal"
)

// Level is one of the three price-entry levels.
type Level uint8

const (
	LevelBase Level = iota
	LevelSurcharge
	LevelDiscount
)

// SentinelToken is the well-known "applies to any variant" token recognized
// in base-selection priority step 3, distinct from the empty string (which
// already matches any variant per the cross-cutting invariant).
const SentinelToken = "*"

// DiscountLabelPrefix labels a discount rendered as a negated surcharge in
// the output surcharge list, per the documented mechanism (the original
// author's own text used a German label here; the behavior — not the
// literal string — is what the contract requires).
const DiscountLabelPrefix = "discount: "

// Entry is one row of a manufacturer's price table.
type Entry struct {
	ArticleID     string
	Level         Level
	ConditionToken string
	Currency      string
	Amount        decimal.Decimal
	ValidFrom     time.Time
	ValidTo       time.Time
	TextID        string
	IsFixedAmount bool
	GroupKey1     string
	GroupKey2     string
}

// TaxScheme is a percentage-type tax assignment on an article: add a tax
// entry of amount net*rate/100 labelled Category.
type TaxScheme struct {
	Category string
	Rate     decimal.Decimal
}

// RoundingRule configures banker's rounding of the tax-inclusive total to a
// fixed step (e.g. 0.05). A nil *RoundingRule means no additional rounding.
type RoundingRule struct {
	Step decimal.Decimal
}

// Family is the pricing unit used by the three-pass search: a base article
// plus its sibling article ids. It carries no property-class names; matching
// works from the assignment and resolved condition set passed to Calculate.
type Family struct {
	ManufacturerKey string
	BaseArticle     string
	Siblings        []string
}

// AllArticles returns the base article followed by every sibling.
func (f Family) AllArticles() []string {
	out := make([]string, 0, 1+len(f.Siblings))
	out = append(out, f.BaseArticle)
	out = append(out, f.Siblings...)
	return out
}

// SurchargeEntry is one entry in a PriceResult's ordered surcharge list.
// Discounts appear here too, with a negated amount and the discount label
// prefix on Label.
type SurchargeEntry struct {
	Token  string
	Label  string
	Amount decimal.Decimal
}

// TaxEntry is one computed tax line.
type TaxEntry struct {
	Category string
	Amount   decimal.Decimal
}

// Result is the computed price for one family/configuration/as-of date.
type Result struct {
	BaseAmount  decimal.Decimal
	Surcharges  []SurchargeEntry
	Taxes       []TaxEntry
	NetPrice    decimal.Decimal
	TotalPrice  decimal.Decimal
	Currency    string
	AsOf        time.Time
	ValidFrom   time.Time
	ValidTo     time.Time
}
