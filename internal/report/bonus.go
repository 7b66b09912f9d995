package report

import (
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
)

// NoRate is shown when a rate has no defined denominator.
const NoRate = "—"

// Rate is a percentage that may be undefined.
type Rate struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

func (r Rate) String() string {
	if !r.Defined {
		return NoRate
	}
	return formatNumber(r.Value) + "%"
}

// MarshalText lets a Rate render as its display string in JSON views.
func (r Rate) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// AchievementRate is gross / target as a percentage clamped to [0,100].
// It is undefined when target is not positive.
func AchievementRate(gross, target float64) Rate {
	if target <= 0 {
		return Rate{}
	}
	return Rate{Value: round1(clampPercent(gross / target * 100)), Defined: true}
}

// BreakevenPosition is where the fixed-cost marker sits on the target bar.
// ok is false when there is no target to scale against.
func BreakevenPosition(fixedCost, target float64) (pos float64, ok bool) {
	if target <= 0 {
		return 0, false
	}
	return round1(clampPercent(fixedCost / target * 100)), true
}

func Surplus(gross, fixedCost float64) float64 {
	return gross - fixedCost
}

// Colors for an achievement band. Unknown values render as not achieved.
type AchievementColors struct {
	Bar  string `json:"bar"`
	Text string `json:"text"`
}

func ColorsFor(a domain.Achievement) AchievementColors {
	switch a {
	case domain.AchievementAchieved:
		return AchievementColors{Bar: "#06C755", Text: "text-green-600"}
	case domain.AchievementBarely:
		return AchievementColors{Bar: "#f59e0b", Text: "text-yellow-600"}
	default:
		return AchievementColors{Bar: "#ef4444", Text: "text-red-500"}
	}
}

func signedYen(v float64, format func(float64) string) string {
	if v >= 0 {
		return "+" + format(v)
	}
	return format(v)
}

func roleLabel(role string) string {
	switch role {
	case "sales":
		return "営業"
	case "staff":
		return "スタッフ"
	}
	return role
}

type BonusPeriodView struct {
	Label              string  `json:"label"`
	MonthsLabel        string  `json:"months_label"`
	StartDate          string  `json:"start_date"`
	EndDate            string  `json:"end_date"`
	FixedCostPerPerson string  `json:"fixed_cost_per_person"`
	DistributionRate   float64 `json:"distribution_rate"`
	TargetAmount       string  `json:"target_amount"`
}

type BonusSummaryView struct {
	TotalEmployees     float64 `json:"total_employees"`
	TotalContractCount float64 `json:"total_contract_count"`
	TotalGrossProfit   string  `json:"total_gross_profit"`
	TotalBonus         string  `json:"total_bonus"`
}

type BonusEmployeeRow struct {
	UserID          string             `json:"user_id"`
	Name            string             `json:"name"`
	Role            string             `json:"role"`
	RoleLabel       string             `json:"role_label"`
	ContractCount   float64            `json:"contract_count"`
	ContractAmount  string             `json:"contract_amount"`
	GrossProfit     string             `json:"gross_profit"`
	FixedCost       string             `json:"fixed_cost"`
	Surplus         string             `json:"surplus"`
	SurplusPositive bool               `json:"surplus_positive"`
	BonusEstimate   string             `json:"bonus_estimate"`
	Achievement     domain.Achievement `json:"achievement"`
	AchievementRate Rate               `json:"achievement_rate"`
	BarWidth        float64            `json:"bar_width"`
	Colors          AchievementColors  `json:"colors"`
}

// BonusView is the admin bonus page. Period is nil when no bonus period is
// active and the page shows EmptyMessage instead.
type BonusView struct {
	Period       *BonusPeriodView   `json:"period"`
	Summary      *BonusSummaryView  `json:"summary,omitempty"`
	Employees    []BonusEmployeeRow `json:"employees"`
	EmptyMessage string             `json:"empty_message,omitempty"`
}

// BuildBonusView formats an overview. The bonus estimate and achievement band
// are displayed as supplied; only the bar geometry is derived here.
func BuildBonusView(o domain.BonusOverview) BonusView {
	v := BonusView{Employees: []BonusEmployeeRow{}}
	if o.Period == nil {
		v.EmptyMessage = "現在のボーナス期間データがありません"
		return v
	}
	p := o.Period
	v.Period = &BonusPeriodView{
		Label:              p.Label,
		MonthsLabel:        p.MonthsLabel,
		StartDate:          p.StartDate,
		EndDate:            p.EndDate,
		FixedCostPerPerson: FormatYen(p.FixedCostPerPerson.Float()),
		DistributionRate:   p.DistributionRate.Float(),
		TargetAmount:       FormatYen(p.TargetAmount.Float()),
	}
	if s := o.Summary; s != nil {
		v.Summary = &BonusSummaryView{
			TotalEmployees:     s.TotalEmployees.Float(),
			TotalContractCount: s.TotalContractCount.Float(),
			TotalGrossProfit:   FormatYen(s.TotalGrossProfit.Float()),
			TotalBonus:         FormatYen(s.TotalBonus.Float()),
		}
	}
	for _, e := range o.Employees {
		target := e.TargetAmount.Float()
		if target <= 0 {
			target = p.TargetAmount.Float()
		}
		rate := AchievementRate(e.GrossProfit.Float(), target)
		surplus := Surplus(e.GrossProfit.Float(), e.FixedCost.Float())
		v.Employees = append(v.Employees, BonusEmployeeRow{
			UserID:          e.UserID.String(),
			Name:            e.Name,
			Role:            e.Role,
			RoleLabel:       roleLabel(e.Role),
			ContractCount:   e.ContractCount.Float(),
			ContractAmount:  FormatYen(e.ContractAmount.Float()),
			GrossProfit:     FormatYen(e.GrossProfit.Float()),
			FixedCost:       FormatYen(e.FixedCost.Float()),
			Surplus:         signedYen(surplus, FormatYen),
			SurplusPositive: surplus >= 0,
			BonusEstimate:   FormatYen(e.BonusEstimate.Float()),
			Achievement:     e.Achievement,
			AchievementRate: rate,
			BarWidth:        rate.Value,
			Colors:          ColorsFor(e.Achievement),
		})
	}
	if len(v.Employees) == 0 {
		v.EmptyMessage = "対象社員がいません"
	}
	return v
}
