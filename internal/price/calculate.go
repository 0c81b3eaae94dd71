package price

import (
	"time"

	"github.com/shopspring/decimal"

	"ofmlcore/internal/core"
	"ofmlcore/internal/variant"
)

const internalPrecision = 8
const storedPrecision = 4

// Calculate runs the full price computation for one family: three-pass file
// search, base selection, surcharge/discount matching, arithmetic, taxes,
// and optional rounding. computedToken is the resolver's authoritative
// token for this exact variant (step 1 of base selection); resolved is the
// variant's resolved condition set.
func Calculate(
	family Family,
	files []*File,
	assignment map[string]core.Value,
	computedToken string,
	resolved variant.Resolved,
	taxes []TaxScheme,
	rounding *RoundingRule,
	asOf time.Time,
) (Result, error) {
	found, err := Search(family, files)
	if err != nil {
		return Result{}, err
	}

	var base Entry
	var surcharges, discounts []Entry

	if found.SurchargeOnly {
		base = Entry{Amount: decimal.Zero, IsFixedAmount: true}
		surcharges = MatchSurcharges(found.File.SurchargeEntries(found.MatchedArticle), resolved, assignment)
		discounts = MatchDiscounts(found.File.DiscountEntries(found.MatchedArticle), resolved, assignment)
	} else {
		baseEntries := found.File.BaseEntries(found.MatchedArticle)
		selected, ok := SelectBase(baseEntries, computedToken, resolved)
		if !ok {
			return Result{}, ErrNoPrice
		}
		base = selected
		surcharges = MatchSurcharges(found.File.SurchargeEntries(found.MatchedArticle), resolved, assignment)
		discounts = MatchDiscounts(found.File.DiscountEntries(found.MatchedArticle), resolved, assignment)
	}

	baseAmount := base.Amount.Round(internalPrecision)

	var surchargeResults []SurchargeEntry
	absSum := decimal.Zero
	pctSum := decimal.Zero

	// Stored Entry.Amount is always a non-negative magnitude; discounts
	// enter the sum as that magnitude negated, surcharges as-is. "Σ
	// absolute(S_i)" in the arithmetic spec refers to this stored
	// magnitude, not to stripping a discount's sign after negation.
	appendAmount := func(e Entry, labelPrefix string, negate bool) {
		var display decimal.Decimal
		if e.IsFixedAmount {
			display = e.Amount.Abs()
		} else {
			display = baseAmount.Mul(e.Amount).DivRound(decimal.NewFromInt(100), internalPrecision).Abs()
		}
		if negate {
			display = display.Neg()
		}
		if e.IsFixedAmount {
			absSum = absSum.Add(display)
		} else {
			rate := e.Amount
			if negate {
				rate = rate.Neg()
			}
			pctSum = pctSum.Add(rate)
		}
		surchargeResults = append(surchargeResults, SurchargeEntry{
			Token:  e.ConditionToken,
			Label:  labelPrefix + e.TextID,
			Amount: display,
		})
	}

	for _, e := range surcharges {
		appendAmount(e, "", false)
	}
	for _, e := range discounts {
		appendAmount(e, DiscountLabelPrefix, true)
	}

	net := baseAmount.Add(absSum).Add(pctSum.Mul(baseAmount).DivRound(decimal.NewFromInt(100), internalPrecision))
	net = net.Round(internalPrecision)

	var taxEntries []TaxEntry
	taxSum := decimal.Zero
	for _, scheme := range taxes {
		amt := net.Mul(scheme.Rate).DivRound(decimal.NewFromInt(100), internalPrecision)
		taxEntries = append(taxEntries, TaxEntry{Category: scheme.Category, Amount: amt.Round(storedPrecision)})
		taxSum = taxSum.Add(amt)
	}

	total := net.Add(taxSum)
	if rounding != nil {
		total = roundToStep(total, rounding.Step)
	}

	return Result{
		BaseAmount: baseAmount.Round(storedPrecision),
		Surcharges: surchargeResults,
		Taxes:      taxEntries,
		NetPrice:   net.Round(storedPrecision),
		TotalPrice: total.Round(storedPrecision),
		Currency:   firstNonEmpty(base.Currency, "EUR"),
		AsOf:       asOf,
		ValidFrom:  base.ValidFrom,
		ValidTo:    base.ValidTo,
	}, nil
}

// roundToStep applies banker's rounding (round-half-to-even) to the nearest
// multiple of step.
func roundToStep(amount decimal.Decimal, step decimal.Decimal) decimal.Decimal {
	if step.IsZero() {
		return amount
	}
	quotient := amount.DivRound(step, internalPrecision)
	rounded := quotient.RoundBank(0)
	return rounded.Mul(step)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
