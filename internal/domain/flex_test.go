package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProjectDecodesLooseCells(t *testing.T) {
	raw := `{
		"id": 42,
		"customer_name": "佐藤",
		"work_type": "外壁塗装, 屋根塗装",
		"estimated_amount": "1,200,000",
		"contract_amount": "",
		"assigned_to": "7",
		"lat": "35.85",
		"lng": 139.41
	}`
	var p Project
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	require.Equal(t, FlexString("42"), p.ID)
	require.Equal(t, WorkTypeList{"外壁塗装", "屋根塗装"}, p.WorkType)
	require.Equal(t, Amount(1200000), p.EstimatedAmount)
	require.Equal(t, Amount(0), p.ContractAmount)
	require.Equal(t, FlexString("7"), p.AssignedTo)
	require.True(t, p.HasCoordinates())
}

func TestWorkTypeListFromArray(t *testing.T) {
	var w WorkTypeList
	require.NoError(t, json.Unmarshal([]byte(`[" 水回り ", "", "内装"]`), &w))
	require.Equal(t, WorkTypeList{"水回り", "内装"}, w)
}

func TestEmployeeRetired(t *testing.T) {
	require.True(t, Employee{IsDeleted: true}.Retired())
	require.True(t, Employee{Status: UserRetired}.Retired())
	require.False(t, Employee{Status: UserActive}.Retired())
}

func TestExpenseDayPrefersExpenseDate(t *testing.T) {
	e := Expense{Date: "2025-01-01", ExpenseDate: "2025-02-03T00:00:00.000Z"}
	require.Equal(t, "2025-02-03", e.Day())
	require.Equal(t, "2025-01-01", Expense{Date: "2025-01-01"}.Day())
}

func TestStatusLabel(t *testing.T) {
	require.Equal(t, "工事中", StatusInProgress.Label())
	require.True(t, StatusLost.Valid())
	require.False(t, ProjectStatus("unknown").Valid())
	require.Equal(t, "unknown", ProjectStatus("unknown").Label())
}
