package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
)

func newExpenseService(t *testing.T) (ExpenseService, *fakeBackend) {
	fake, gas := newFakeBackend(t)
	return ExpenseService{Gas: gas, Logger: discardLogger(), Now: fixedNow}, fake
}

func TestExpenseValidation(t *testing.T) {
	svc, fake := newExpenseService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, NewExpense{Category: "材料費"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, NewExpense{Amount: 1200, Category: "接待費"})
	require.ErrorIs(t, err, ErrValidation)
	require.Zero(t, fake.count(gasapi.ActionCreateExpense))
}

func TestCreateExpenseDefaultsDate(t *testing.T) {
	svc, fake := newExpenseService(t)
	fake.on(gasapi.ActionCreateExpense, `{"success":true,"data":{"id":"e1","amount":1200}}`)

	e, err := svc.Create(context.Background(), NewExpense{Amount: 1200, Category: "交通費", Description: "高速代"})
	require.NoError(t, err)
	require.Equal(t, "e1", e.ID.String())

	sent := fake.lastPost(gasapi.ActionCreateExpense)
	require.Equal(t, "2025-05-15", sent["expense_date"])
	require.NotContains(t, sent, "project_id")
	require.NotContains(t, sent, "receipt_image")
}

func TestExpensePageFansOut(t *testing.T) {
	svc, fake := newExpenseService(t)
	fake.on(gasapi.ActionGetProjects, `{"success":true,"data":{"projects":[{"id":1,"project_number":"P-001","customer_name":"田中"}]}}`)
	fake.on(gasapi.ActionGetExpenses, `{"success":true,"data":{"expenses":[
		{"id":1,"amount":5000,"expense_date":"2025-05-02T00:00:00.000Z","category":"材料費","accounting_imported":false},
		{"id":2,"amount":3000,"date":"2025-05-10","category":"交通費","accounting_imported":true},
		{"id":3,"amount":9000,"expense_date":"2025-04-28","category":"外注費","accounting_imported":false}
	]}}`)

	page, err := svc.Page(context.Background())
	require.NoError(t, err)
	require.Equal(t, "P-001 田中", page.Projects[0].Label)
	require.Len(t, page.Expenses, 3)
	require.Equal(t, "2025-05-02", page.Expenses[0].Day)
	require.Equal(t, domain.ExpenseCategories, page.Categories)

	require.Equal(t, "2025-05", page.Summary.Month)
	require.Equal(t, 2, page.Summary.MonthCount)
	require.Equal(t, 8000.0, page.Summary.MonthTotal)
	require.Equal(t, 1, page.Summary.Unprocessed)

	require.Equal(t, "200", fake.lastQuery(gasapi.ActionGetProjects).Get("limit"))
	require.Equal(t, "100", fake.lastQuery(gasapi.ActionGetExpenses).Get("limit"))
}

func TestReadReceiptIsBestEffort(t *testing.T) {
	svc, fake := newExpenseService(t)
	ctx := context.Background()

	fake.on(gasapi.ActionOCRReceipt, `{"success":false,"error":"OCR failed"}`)
	require.Equal(t, Prefill{}, svc.ReadReceipt(ctx, "data:image/jpeg;base64,AA"))

	fake.on(gasapi.ActionOCRReceipt, `{"success":true,"data":{"amount":"1,980","store_name":"ホームセンター","date":"2025-05-03","category":"材料費","items":"刷毛 x2"}}`)
	p := svc.ReadReceipt(ctx, "data:image/jpeg;base64,AA")
	require.True(t, p.OK)
	require.Equal(t, 1980.0, p.Amount)
	require.Equal(t, "材料費", p.Category)
	require.Equal(t, "刷毛 x2", p.Memo)

	fake.on(gasapi.ActionOCRReceipt, `{"success":true,"data":{"amount":500,"category":"雑費"}}`)
	require.Empty(t, svc.ReadReceipt(ctx, "x").Category)
}

func TestExportFiltersByDay(t *testing.T) {
	svc, fake := newExpenseService(t)
	fake.on(gasapi.ActionGetExpenses, `{"success":true,"data":{"expenses":[
		{"id":1,"amount":100,"expense_date":"2025-04-30"},
		{"id":2,"amount":200,"expense_date":"2025-05-01"},
		{"id":3,"amount":300,"expense_date":"2025-05-31"},
		{"id":4,"amount":400,"expense_date":"2025-06-01"}
	]}}`)

	items, err := svc.Export(context.Background(), "2025-05-01", "2025-05-31", 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "2000", fake.lastQuery(gasapi.ActionGetExpenses).Get("limit"))
}

func exportFixture() []domain.Expense {
	return []domain.Expense{
		{ID: "1", ExpenseDate: "2025-05-02", ProjectNumber: "P-001", CustomerName: "田中", Category: "材料費", Amount: 5000, Description: "塗料", UserName: "山田"},
		{ID: "2", Date: "2025-05-10", Category: "交通費", Amount: 1200.5, Memo: "駐車場", AccountingImported: true},
	}
}

func TestExportExpensesCSV(t *testing.T) {
	data, err := ExportExpensesCSV(exportFixture())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\ufeff")))

	lines := strings.Split(strings.TrimSpace(string(data[3:])), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "ID,日付,案件番号,顧客名,カテゴリ,金額,内容,担当者,会計取込", lines[0])
	require.Equal(t, "1,2025-05-02,P-001,田中,材料費,5000,塗料,山田,未", lines[1])
	require.Equal(t, "2,2025-05-10,,,交通費,1200.5,駐車場,,済", lines[2])
}

func TestExportExpensesXLSX(t *testing.T) {
	data, err := ExportExpensesXLSX(exportFixture())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"経費"}, f.GetSheetList())
	rows, err := f.GetRows("経費")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "カテゴリ", rows[0][4])
	require.Equal(t, "田中", rows[1][3])
	v, err := f.GetCellValue("経費", "I3")
	require.NoError(t, err)
	require.Equal(t, "済", v)
}

func TestSummarizeExpensesEmptyMonth(t *testing.T) {
	sum := SummarizeExpenses(nil, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))
	require.Equal(t, "2025-01", sum.Month)
	require.Zero(t, sum.MonthCount)
	require.Equal(t, "0円", sum.MonthTotalLabel)
}
