// Package output renders configurations and price results for end users,
// in either machine-readable JSON or a short human-readable summary.
package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"ofmlcore/internal/core"
	"ofmlcore/internal/engine"
	"ofmlcore/internal/price"
	"ofmlcore/internal/variant"
)

// Format names one of the supported output renderings.
type Format string

const (
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// Formatter renders configurations and price results in one Format.
type Formatter interface {
	FormatConfiguration(cfg engine.LoadedConfiguration) (string, error)
	FormatPrice(result price.Result) (string, error)
}

// NewFormatter returns the Formatter named by name. An unrecognized name is
// an error rather than a silent fallback, matching the table-name contract
// elsewhere in this module: output shape is a configuration choice, never a
// guess.
func NewFormatter(name Format) (Formatter, error) {
	switch name {
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatSummary:
		return summaryFormatter{}, nil
	default:
		return nil, fmt.Errorf("output: unknown format %q", name)
	}
}

type jsonFormatter struct{}

type configurationDoc struct {
	ManufacturerKey string            `json:"manufacturer_key"`
	FamilyKey       string            `json:"family_key"`
	VariantCode     string            `json:"variant_code"`
	Tokens          []string          `json:"condition_tokens"`
	Assignment      map[string]string `json:"assignment"`
}

func (jsonFormatter) FormatConfiguration(cfg engine.LoadedConfiguration) (string, error) {
	doc := configurationDoc{
		ManufacturerKey: cfg.ManufacturerKey,
		FamilyKey:       cfg.FamilyKey,
		VariantCode:     cfg.VariantCode,
		Tokens:          sortedTokens(cfg.Resolved),
		Assignment:      stringifyAssignment(cfg.Assignment),
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("output: encoding configuration: %w", err)
	}
	return string(b), nil
}

type priceDoc struct {
	BaseAmount string           `json:"base_amount"`
	Surcharges []surchargeDoc   `json:"surcharges,omitempty"`
	Taxes      []taxDoc         `json:"taxes,omitempty"`
	NetPrice   string           `json:"net_price"`
	TotalPrice string           `json:"total_price"`
	Currency   string           `json:"currency"`
}

type surchargeDoc struct {
	Token  string `json:"token"`
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

type taxDoc struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

func (jsonFormatter) FormatPrice(result price.Result) (string, error) {
	doc := priceDoc{
		BaseAmount: result.BaseAmount.StringFixed(2),
		NetPrice:   result.NetPrice.StringFixed(2),
		TotalPrice: result.TotalPrice.StringFixed(2),
		Currency:   result.Currency,
	}
	for _, s := range result.Surcharges {
		doc.Surcharges = append(doc.Surcharges, surchargeDoc{Token: s.Token, Label: s.Label, Amount: s.Amount.StringFixed(2)})
	}
	for _, tx := range result.Taxes {
		doc.Taxes = append(doc.Taxes, taxDoc{Category: tx.Category, Amount: tx.Amount.StringFixed(2)})
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("output: encoding price: %w", err)
	}
	return string(b), nil
}

type summaryFormatter struct{}

func (summaryFormatter) FormatConfiguration(cfg engine.LoadedConfiguration) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s / %s\n", cfg.ManufacturerKey, cfg.FamilyKey)
	fmt.Fprintf(&b, "variant: %s\n", cfg.VariantCode)
	tokens := sortedTokens(cfg.Resolved)
	if len(tokens) > 0 {
		fmt.Fprintf(&b, "tokens: %s\n", strings.Join(tokens, ", "))
	}
	return b.String(), nil
}

func (summaryFormatter) FormatPrice(result price.Result) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "base:  %s %s\n", result.BaseAmount.StringFixed(2), result.Currency)
	for _, s := range result.Surcharges {
		fmt.Fprintf(&b, "%-24s %s %s\n", s.Label, s.Amount.StringFixed(2), result.Currency)
	}
	for _, tx := range result.Taxes {
		fmt.Fprintf(&b, "%-24s %s %s\n", tx.Category, tx.Amount.StringFixed(2), result.Currency)
	}
	fmt.Fprintf(&b, "net:   %s %s\n", result.NetPrice.StringFixed(2), result.Currency)
	fmt.Fprintf(&b, "total: %s %s\n", result.TotalPrice.StringFixed(2), result.Currency)
	return b.String(), nil
}

func stringifyAssignment(assignment map[string]core.Value) map[string]string {
	out := make(map[string]string, len(assignment))
	for name, v := range assignment {
		out[name] = v.String()
	}
	return out
}

func sortedTokens(r variant.Resolved) []string {
	out := make([]string, 0, len(r.Tokens))
	for tok := range r.Tokens {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}
