package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParsePeriod(t *testing.T) {
	cases := map[string]Period{
		"今月":      PeriodMonth,
		"今四半期":    PeriodQuarter,
		"今年":      PeriodYear,
		"quarter": PeriodQuarter,
		"YEAR":    PeriodYear,
		"":        PeriodMonth,
		"weekly":  PeriodMonth,
	}
	for in, want := range cases {
		require.Equal(t, want, ParsePeriod(in), in)
	}
}

func TestResolveQuarterFixture(t *testing.T) {
	r := Resolve(PeriodQuarter, day("2025-05-15"))
	require.Equal(t, domain.DateRange{StartDate: "2025-04-01", EndDate: "2025-06-30"}, r)
}

func TestResolveQuarterEveryMonth(t *testing.T) {
	for m := 1; m <= 12; m++ {
		now := time.Date(2024, time.Month(m), 10, 12, 0, 0, 0, time.UTC)
		r := Resolve(PeriodQuarter, now)
		start := day(r.StartDate)
		end := day(r.EndDate)
		require.Equal(t, 1, start.Day())
		require.Equal(t, 0, (int(start.Month())-1)%3)
		require.Equal(t, start.Month()+2, end.Month())
		require.Equal(t, 1, end.AddDate(0, 0, 1).Day())
	}
}

func TestResolveMonthAndYear(t *testing.T) {
	require.Equal(t, domain.DateRange{StartDate: "2024-02-01", EndDate: "2024-02-29"}, Resolve(PeriodMonth, day("2024-02-10")))
	require.Equal(t, domain.DateRange{StartDate: "2025-02-01", EndDate: "2025-02-28"}, Resolve(PeriodMonth, day("2025-02-10")))
	require.Equal(t, domain.DateRange{StartDate: "2025-12-01", EndDate: "2025-12-31"}, Resolve(PeriodMonth, day("2025-12-31")))
	require.Equal(t, domain.DateRange{StartDate: "2025-01-01", EndDate: "2025-12-31"}, Resolve(PeriodYear, day("2025-07-04")))
}

func TestQuarterlyAndYearly(t *testing.T) {
	months := [12]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	require.Equal(t, [4]float64{6, 15, 24, 33}, Quarterly(months))
	require.Equal(t, 78.0, Yearly(months))
}

func TestMonthlyAmountsFillsGaps(t *testing.T) {
	series := []domain.MonthlySales{
		{Month: "2025-01", Amount: 100},
		{Month: "3月", Amount: 300},
		{Month: "2024-02", Amount: 999},
		{Month: "bogus", Amount: 1},
		{Month: "2025/12", Amount: 1200},
	}
	got := MonthlyAmounts(series, 2025)
	require.Equal(t, [12]float64{100, 0, 300, 0, 0, 0, 0, 0, 0, 0, 0, 1200}, got)
}

func TestRouteSharesZeroTotal(t *testing.T) {
	slices := RouteShares([]domain.AcquisitionRouteStat{{Route: "紹介"}, {Route: "HP"}})
	require.Len(t, slices, 2)
	for _, s := range slices {
		require.Equal(t, 0.0, s.Percent)
	}

	slices = RouteShares([]domain.AcquisitionRouteStat{{Route: "紹介", Count: 1}, {Route: "HP", Count: 3}})
	require.Equal(t, 25.0, slices[0].Percent)
	require.Equal(t, 75.0, slices[1].Percent)
	require.Equal(t, ChartColors[1], slices[1].Color)
}

func TestChangeView(t *testing.T) {
	require.Equal(t, "+5.2%", ChangeView("x", 5.23).Display)
	require.Equal(t, "-3%", ChangeView("x", -3).Display)
	require.Equal(t, "flat", ChangeView("x", 0).Direction)
}

func TestAchievementRateClamp(t *testing.T) {
	r := AchievementRate(150, 100)
	require.True(t, r.Defined)
	require.Equal(t, 100.0, r.Value)
	require.Equal(t, "100%", r.String())

	require.Equal(t, 0.0, AchievementRate(-50, 100).Value)
}

func TestAchievementRateWithoutTarget(t *testing.T) {
	r := AchievementRate(150, 0)
	require.False(t, r.Defined)
	require.Equal(t, NoRate, r.String())

	_, ok := BreakevenPosition(10, 0)
	require.False(t, ok)
	pos, ok := BreakevenPosition(300, 200)
	require.True(t, ok)
	require.Equal(t, 100.0, pos)
}

func TestColorsForUnknownAchievement(t *testing.T) {
	require.Equal(t, "#06C755", ColorsFor(domain.AchievementAchieved).Bar)
	require.Equal(t, "#f59e0b", ColorsFor(domain.AchievementBarely).Bar)
	require.Equal(t, "#ef4444", ColorsFor(domain.Achievement("mystery")).Bar)
}

func TestFormatters(t *testing.T) {
	require.Equal(t, "120万円", FormatManYen(1_205_000))
	require.Equal(t, "1,234万円", FormatManYen(12_345_678))
	require.Equal(t, "9,999円", FormatManYen(9999))

	require.Equal(t, "¥0万", FormatYen(0))
	require.Equal(t, "¥150万", FormatYen(1_500_000))
	require.Equal(t, "¥1.5万", FormatYen(15_000))
	require.Equal(t, "-¥2.3万", FormatYen(-23_000))
	require.Equal(t, "¥8,000", FormatYen(8000))
}

func TestBuildBonusView(t *testing.T) {
	o := domain.BonusOverview{
		Period: &domain.BonusPeriod{Label: "2025上期", TargetAmount: 2_000_000, FixedCostPerPerson: 500_000, DistributionRate: 30},
		Employees: []domain.BonusEmployee{
			{UserID: "1", Name: "山田", Role: "sales", GrossProfit: 3_000_000, FixedCost: 500_000, TargetAmount: 2_000_000, Achievement: domain.AchievementAchieved},
			{UserID: "2", Name: "佐藤", Role: "staff", GrossProfit: 100_000, FixedCost: 500_000, Achievement: "not_achieved"},
		},
	}
	v := BuildBonusView(o)
	require.NotNil(t, v.Period)
	require.Len(t, v.Employees, 2)

	yamada := v.Employees[0]
	require.Equal(t, "営業", yamada.RoleLabel)
	require.Equal(t, 100.0, yamada.BarWidth)
	require.Equal(t, "+¥250万", yamada.Surplus)

	sato := v.Employees[1]
	require.False(t, sato.SurplusPositive)
	require.Equal(t, "5%", sato.AchievementRate.String())
	require.Equal(t, "#ef4444", sato.Colors.Bar)
}

func TestBuildBonusViewWithoutPeriod(t *testing.T) {
	v := BuildBonusView(domain.BonusOverview{})
	require.Nil(t, v.Period)
	require.NotEmpty(t, v.EmptyMessage)
	require.NotNil(t, v.Employees)
}

func TestBuildDashboard(t *testing.T) {
	var d domain.DashboardData
	d.KPI.ContractAmount = 3_500_000
	d.KPI.AssignedProjectsCount = 12
	d.BonusProgress = &domain.BonusProgress{GrossProfit: 150, FixedCost: 50, TargetAmount: 100}
	d.Charts.MonthlySales = []domain.MonthlySales{{Month: "2025-05", Amount: 10}}

	now := day("2025-05-15")
	v := BuildDashboard(d, PeriodQuarter, Resolve(PeriodQuarter, now), now, "山田太郎")
	require.Equal(t, "山田太郎", v.UserName)
	require.Equal(t, "今四半期", v.PeriodLabel)
	require.Equal(t, "12", v.KPIs[0].Value)
	require.Equal(t, "350万円", v.KPIs[4].Value)
	require.Equal(t, "-", v.KPIs[6].Value)
	require.Equal(t, 100.0, v.Bonus.BarWidth)
	require.NotNil(t, v.Bonus.Breakeven)
	require.Equal(t, 50.0, *v.Bonus.Breakeven)
	require.Equal(t, 10.0, v.Sales.Quarterly[1])
	require.NotNil(t, v.RouteChart)
}
