package report

import (
	"strconv"
	"strings"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
)

// ChartColors is the palette shared by the doughnut charts.
var ChartColors = []string{"#06C755", "#3b82f6", "#f59e0b", "#8b5cf6", "#ef4444", "#6366f1", "#10b981"}

// MonthlyAmounts places a server series into January..December slots.
// Months that are missing, unparseable or from another year contribute 0.
func MonthlyAmounts(series []domain.MonthlySales, year int) [12]float64 {
	var out [12]float64
	for _, s := range series {
		y, m, ok := parseMonth(s.Month)
		if !ok || (y != 0 && y != year) {
			continue
		}
		out[m-1] += s.Amount.Float()
	}
	return out
}

// parseMonth understands "2025-03", "2025/3", "3月" and "3". A zero year
// means the label carried none.
func parseMonth(label string) (year, month int, ok bool) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(label), "月"))
	if s == "" {
		return 0, 0, false
	}
	if i := strings.IndexAny(s, "-/"); i >= 0 {
		y, err := strconv.Atoi(s[:i])
		if err != nil {
			return 0, 0, false
		}
		rest := s[i+1:]
		if j := strings.IndexAny(rest, "-/"); j >= 0 {
			rest = rest[:j]
		}
		m, err := strconv.Atoi(rest)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, false
		}
		return y, m, true
	}
	m, err := strconv.Atoi(s)
	if err != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	return 0, m, true
}

// Quarterly sums every three consecutive months.
func Quarterly(months [12]float64) [4]float64 {
	var out [4]float64
	for i, v := range months {
		out[i/3] += v
	}
	return out
}

func Yearly(months [12]float64) float64 {
	var sum float64
	for _, v := range months {
		sum += v
	}
	return sum
}

// Slice is one segment of a share chart.
type Slice struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Amount  float64 `json:"amount,omitempty"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
}

// RouteShares weights acquisition routes by project count.
func RouteShares(routes []domain.AcquisitionRouteStat) []Slice {
	out := make([]Slice, len(routes))
	for i, r := range routes {
		out[i] = Slice{Label: r.Route, Value: r.Count.Float(), Amount: r.Amount.Float()}
	}
	return withShares(out)
}

// WorkTypeShares weights work types by sales amount.
func WorkTypeShares(types []domain.WorkTypeStat) []Slice {
	out := make([]Slice, len(types))
	for i, t := range types {
		out[i] = Slice{Label: t.Type, Value: t.Amount.Float(), Amount: t.Amount.Float()}
	}
	return withShares(out)
}

// withShares fills Percent and Color. A zero total yields 0% everywhere.
func withShares(slices []Slice) []Slice {
	var total float64
	for _, s := range slices {
		total += s.Value
	}
	for i := range slices {
		if total > 0 {
			slices[i].Percent = round1(slices[i].Value / total * 100)
		}
		slices[i].Color = ChartColors[i%len(ChartColors)]
	}
	return slices
}

// Change is a signed period-over-period delta.
type Change struct {
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	Display   string  `json:"display"`
	Direction string  `json:"direction"`
}

// ChangeView formats a percentage delta with an explicit sign.
func ChangeView(label string, delta float64) Change {
	c := Change{Label: label, Value: delta}
	switch {
	case delta > 0:
		c.Direction = "up"
		c.Display = "+" + formatNumber(delta) + "%"
	case delta < 0:
		c.Direction = "down"
		c.Display = formatNumber(delta) + "%"
	default:
		c.Direction = "flat"
		c.Display = "±0%"
	}
	return c
}
