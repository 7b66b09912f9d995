// Package report turns remote aggregates into dashboard and bonus view
// models: period ranges, chart buckets, percentage bars and yen labels.
package report

import (
	"strings"
	"time"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
)

const DateLayout = "2006-01-02"

type Period string

const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

var periodLabels = map[Period]string{
	PeriodMonth:   "今月",
	PeriodQuarter: "今四半期",
	PeriodYear:    "今年",
}

// Periods in selector order.
var Periods = []Period{PeriodMonth, PeriodQuarter, PeriodYear}

// ParsePeriod accepts the Japanese selector labels and the English tokens.
// Anything else selects the current month.
func ParsePeriod(token string) Period {
	t := strings.TrimSpace(token)
	switch strings.ToLower(t) {
	case "quarter", "q":
		return PeriodQuarter
	case "year", "y":
		return PeriodYear
	}
	switch t {
	case "今四半期":
		return PeriodQuarter
	case "今年":
		return PeriodYear
	}
	return PeriodMonth
}

func (p Period) Label() string {
	if l, ok := periodLabels[p]; ok {
		return l
	}
	return periodLabels[PeriodMonth]
}

// Resolve returns the inclusive calendar range of p containing now.
func Resolve(p Period, now time.Time) domain.DateRange {
	y, m, _ := now.Date()
	loc := now.Location()

	var first, last time.Time
	switch p {
	case PeriodQuarter:
		q := (int(m) - 1) / 3
		startMonth := time.Month(q*3 + 1)
		first = time.Date(y, startMonth, 1, 0, 0, 0, 0, loc)
		last = lastDayOf(y, startMonth+2, loc)
	case PeriodYear:
		first = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		last = time.Date(y, time.December, 31, 0, 0, 0, 0, loc)
	default:
		first = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		last = lastDayOf(y, m, loc)
	}
	return domain.DateRange{
		StartDate: first.Format(DateLayout),
		EndDate:   last.Format(DateLayout),
	}
}

// lastDayOf uses day zero of the following month.
func lastDayOf(y int, m time.Month, loc *time.Location) time.Time {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, loc)
}
