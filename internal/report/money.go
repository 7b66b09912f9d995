package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

var tenThousand = decimal.NewFromInt(10000)

// FormatManYen renders dashboard amounts: whole 万円 from ten thousand up,
// plain 円 below.
func FormatManYen(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.GreaterThanOrEqual(tenThousand) {
		return groupThousands(d.Div(tenThousand).Floor()) + "万円"
	}
	return groupThousands(d.Round(3)) + "円"
}

// FormatYen renders bonus table amounts: ¥1.5万 style with one decimal,
// ¥0万 for zero and a leading minus for losses.
func FormatYen(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.IsZero() {
		return "¥0万"
	}
	abs := d.Abs()
	var s string
	if abs.GreaterThanOrEqual(tenThousand) {
		s = "¥" + groupThousands(abs.Div(tenThousand).Round(1)) + "万"
	} else {
		s = "¥" + groupThousands(abs.Round(3))
	}
	if d.IsNegative() {
		return "-" + s
	}
	return s
}

func groupThousands(d decimal.Decimal) string {
	s := d.String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}

// formatNumber prints v without trailing zeros, rounded to one decimal.
func formatNumber(v float64) string {
	return decimal.NewFromFloat(v).Round(1).String()
}

func round1(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}
