package report

import (
	"strconv"
	"time"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
)

type KPICard struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

type BonusProgressView struct {
	PeriodLabel      string  `json:"period_label"`
	PeriodMonths     string  `json:"period_months"`
	FixedCost        string  `json:"fixed_cost"`
	GrossProfit      string  `json:"gross_profit"`
	Surplus          string  `json:"surplus"`
	SurplusPositive  bool    `json:"surplus_positive"`
	BonusEstimate    string  `json:"bonus_estimate"`
	DistributionRate float64 `json:"distribution_rate"`
	TargetAmount     string  `json:"target_amount"`
	AchievementRate  Rate    `json:"achievement_rate"`
	BarWidth         float64 `json:"bar_width"`
	// Breakeven is nil when there is no target to place the marker on.
	Breakeven *float64 `json:"breakeven,omitempty"`
}

type SalesSeries struct {
	Monthly   [12]float64 `json:"monthly"`
	Quarterly [4]float64  `json:"quarterly"`
	Yearly    float64     `json:"yearly"`
}

type DashboardView struct {
	UserName      string             `json:"user_name"`
	Period        Period             `json:"period"`
	PeriodLabel   string             `json:"period_label"`
	Range         domain.DateRange   `json:"range"`
	KPIs          []KPICard          `json:"kpis"`
	Changes       []Change           `json:"changes"`
	Bonus         *BonusProgressView `json:"bonus,omitempty"`
	Sales         SalesSeries        `json:"sales"`
	RouteChart    []Slice            `json:"route_chart"`
	WorkTypeChart []Slice            `json:"work_type_chart"`
}

func plain(v domain.Amount) string {
	return strconv.FormatFloat(v.Float(), 'f', -1, 64)
}

// BuildDashboard shapes the remote aggregate for the selected period.
// fallbackName is used when the payload does not name the user.
func BuildDashboard(d domain.DashboardData, p Period, r domain.DateRange, now time.Time, fallbackName string) DashboardView {
	name := d.UserName
	if name == "" {
		name = fallbackName
	}
	if name == "" {
		name = "ユーザー"
	}

	k := d.KPI
	avg := "-"
	if k.AverageContractAmount > 0 {
		avg = FormatManYen(k.AverageContractAmount.Float())
	}
	v := DashboardView{
		UserName:    name,
		Period:      p,
		PeriodLabel: p.Label(),
		Range:       r,
		KPIs: []KPICard{
			{Title: "担当案件数", Value: plain(k.AssignedProjectsCount), Unit: "件"},
			{Title: "見込み金額", Value: FormatManYen(k.AssignedProjectsAmount.Float())},
			{Title: "見積もり数", Value: plain(k.SentEstimatesCount), Unit: "件"},
			{Title: "契約数", Value: plain(k.ContractCount), Unit: "件"},
			{Title: "契約金額", Value: FormatManYen(k.ContractAmount.Float())},
			{Title: "契約率", Value: plain(k.ContractRate), Unit: "%"},
			{Title: "契約平均単価", Value: avg},
			{Title: "粗利率", Value: plain(k.GrossProfitRate), Unit: "%"},
		},
		Changes: []Change{
			ChangeView("担当案件数", d.Comparison.AssignedProjectsCountChange.Float()),
			ChangeView("契約金額", d.Comparison.ContractAmountChange.Float()),
			ChangeView("契約率", d.Comparison.ContractRateChange.Float()),
		},
		RouteChart:    RouteShares(d.Charts.AcquisitionRoute),
		WorkTypeChart: WorkTypeShares(d.Charts.WorkType),
	}

	months := MonthlyAmounts(d.Charts.MonthlySales, now.Year())
	v.Sales = SalesSeries{Monthly: months, Quarterly: Quarterly(months), Yearly: Yearly(months)}

	if b := d.BonusProgress; b != nil {
		gross, fixed, target := b.GrossProfit.Float(), b.FixedCost.Float(), b.TargetAmount.Float()
		surplus := Surplus(gross, fixed)
		rate := AchievementRate(gross, target)
		bp := &BonusProgressView{
			PeriodLabel:      b.PeriodLabel,
			PeriodMonths:     b.PeriodMonths,
			FixedCost:        FormatManYen(fixed),
			GrossProfit:      FormatManYen(gross),
			Surplus:          signedYen(surplus, FormatManYen),
			SurplusPositive:  surplus >= 0,
			BonusEstimate:    FormatManYen(b.BonusEstimate.Float()),
			DistributionRate: b.DistributionRate.Float(),
			TargetAmount:     FormatManYen(target),
			AchievementRate:  rate,
			BarWidth:         rate.Value,
		}
		if pos, ok := BreakevenPosition(fixed, target); ok {
			bp.Breakeven = &pos
		}
		v.Bonus = bp
	}
	return v
}
