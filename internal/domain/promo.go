package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PromoRule is a percentage discount off the subtotal.
type PromoRule struct {
	Code    string
	Percent decimal.Decimal
}

// Rate is the percentage as a fraction, e.g. 10 -> 0.1.
func (r PromoRule) Rate() decimal.Decimal {
	return r.Percent.Div(hundred)
}

// AppliedPromo records the promo locked onto a cart.
type AppliedPromo struct {
	Code      string          `json:"code"`
	Percent   decimal.Decimal `json:"percent"`
	AppliedAt time.Time       `json:"applied_at"`
}

// Rate is zero for a nil promo.
func (p *AppliedPromo) Rate() decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return p.Percent.Div(hundred)
}

// PromoTable maps codes to rules. Lookups are case-sensitive.
type PromoTable map[string]PromoRule

// DefaultPromoTable is the table used when none is configured.
func DefaultPromoTable() PromoTable {
	return PromoTable{
		"SAVE10": {Code: "SAVE10", Percent: decimal.NewFromInt(10)},
	}
}

// Lookup matches code exactly. No trimming, no case folding.
func (t PromoTable) Lookup(code string) (PromoRule, bool) {
	r, ok := t[code]
	return r, ok
}

// Codes lists the configured codes in sorted order.
func (t PromoTable) Codes() []string {
	codes := make([]string, 0, len(t))
	for c := range t {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// ParsePromoTable parses "CODE:percent" pairs separated by commas, e.g.
// "SAVE10:10,WELCOME5:5". Percentages must be in (0, 100].
func ParsePromoTable(s string) (PromoTable, error) {
	t := PromoTable{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		code, pct, ok := strings.Cut(pair, ":")
		code = strings.TrimSpace(code)
		if !ok || code == "" {
			return nil, fmt.Errorf("promo %q: expected CODE:percent", pair)
		}

		percent, err := decimal.NewFromString(strings.TrimSpace(pct))
		if err != nil {
			return nil, fmt.Errorf("promo %q: %w", code, err)
		}
		if !percent.IsPositive() || percent.GreaterThan(hundred) {
			return nil, fmt.Errorf("promo %q: percent must be in (0, 100], got %s", code, percent)
		}
		if _, dup := t[code]; dup {
			return nil, fmt.Errorf("promo %q: duplicate code", code)
		}
		t[code] = PromoRule{Code: code, Percent: percent}
	}

	if len(t) == 0 {
		return nil, fmt.Errorf("no promo codes defined")
	}
	return t, nil
}
