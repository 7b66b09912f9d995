package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/report"
)

const (
	expenseProjectLimit = 200
	expenseListLimit    = 100
)

type ExpenseService struct {
	Gas    *gasapi.Client
	Logger *slog.Logger
	Now    func() time.Time
}

type ProjectOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type ExpenseRow struct {
	domain.Expense
	Day         string `json:"day"`
	AmountLabel string `json:"amount_label"`
}

type ExpenseSummary struct {
	Month           string  `json:"month"`
	MonthTotal      float64 `json:"month_total"`
	MonthTotalLabel string  `json:"month_total_label"`
	MonthCount      int     `json:"month_count"`
	Unprocessed     int     `json:"unprocessed"`
}

type ExpensePage struct {
	Projects   []ProjectOption `json:"projects"`
	Expenses   []ExpenseRow    `json:"expenses"`
	Categories []string        `json:"categories"`
	Summary    ExpenseSummary  `json:"summary"`
}

func (s ExpenseService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Page loads projects and expenses together for the expense screen.
func (s ExpenseService) Page(ctx context.Context) (ExpensePage, error) {
	var (
		projects gasapi.ProjectList
		expenses gasapi.ExpenseList
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = s.Gas.GetProjects(gctx, expenseProjectLimit)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.Gas.GetExpenses(gctx, expenseListLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return ExpensePage{}, err
	}

	page := ExpensePage{
		Projects:   make([]ProjectOption, 0, len(projects.Projects)),
		Expenses:   make([]ExpenseRow, 0, len(expenses.Expenses)),
		Categories: domain.ExpenseCategories,
		Summary:    SummarizeExpenses(expenses.Expenses, s.now()),
	}
	for _, p := range projects.Projects {
		page.Projects = append(page.Projects, ProjectOption{
			ID:    p.ID.String(),
			Label: strings.TrimSpace(p.ProjectNumber + " " + p.CustomerName),
		})
	}
	for _, e := range expenses.Expenses {
		page.Expenses = append(page.Expenses, ExpenseRow{
			Expense:     e,
			Day:         e.Day(),
			AmountLabel: report.FormatManYen(e.Amount.Float()),
		})
	}
	return page, nil
}

// SummarizeExpenses totals the current month and counts rows not yet
// imported into accounting.
func SummarizeExpenses(expenses []domain.Expense, now time.Time) ExpenseSummary {
	month := now.Format("2006-01")
	sum := ExpenseSummary{Month: month}
	for _, e := range expenses {
		if !strings.HasPrefix(e.Day(), month) {
			continue
		}
		sum.MonthCount++
		sum.MonthTotal += e.Amount.Float()
		if !e.AccountingImported {
			sum.Unprocessed++
		}
	}
	sum.MonthTotalLabel = report.FormatManYen(sum.MonthTotal)
	return sum
}

type NewExpense struct {
	ExpenseDate  string  `json:"expense_date"`
	Amount       float64 `json:"amount"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	ProjectID    string  `json:"project_id"`
	ReceiptImage string  `json:"receipt_image"`
}

func (n NewExpense) Validate() error {
	if n.Amount <= 0 {
		return invalid("金額を入力してください", "amount")
	}
	if !domain.ValidExpenseCategory(n.Category) {
		return invalid("カテゴリが不正です", "category")
	}
	return nil
}

func (s ExpenseService) Create(ctx context.Context, n NewExpense) (domain.Expense, error) {
	if err := n.Validate(); err != nil {
		return domain.Expense{}, err
	}
	if n.ExpenseDate == "" {
		n.ExpenseDate = s.now().Format(report.DateLayout)
	}
	data := map[string]any{
		"expense_date": n.ExpenseDate,
		"amount":       n.Amount,
		"category":     n.Category,
		"description":  n.Description,
	}
	if n.ProjectID != "" {
		data["project_id"] = n.ProjectID
	}
	if n.ReceiptImage != "" {
		data["receipt_image"] = n.ReceiptImage
	}
	return s.Gas.CreateExpense(ctx, data)
}

// Prefill is what OCR could read from a receipt; empty fields were not
// recognised.
type Prefill struct {
	Amount   float64 `json:"amount,omitempty"`
	Date     string  `json:"date,omitempty"`
	Category string  `json:"category,omitempty"`
	Memo     string  `json:"memo,omitempty"`
	Store    string  `json:"store,omitempty"`
	OK       bool    `json:"ok"`
}

// ReadReceipt runs OCR on a receipt image. Failures yield an empty prefill
// so the form stays usable.
func (s ExpenseService) ReadReceipt(ctx context.Context, photoData string) Prefill {
	if photoData == "" {
		return Prefill{}
	}
	r, err := s.Gas.OCRReceipt(ctx, photoData)
	if err != nil {
		s.Logger.Warn("receipt ocr failed", "err", err)
		return Prefill{}
	}
	p := Prefill{Amount: r.Amount.Float(), Date: r.Date, Memo: r.Items, Store: r.StoreName, OK: true}
	if domain.ValidExpenseCategory(r.Category) {
		p.Category = r.Category
	}
	return p
}

func (s ExpenseService) SetAccounting(ctx context.Context, id string, imported bool) (gasapi.AccountingFlag, error) {
	return s.Gas.UpdateExpenseAccounting(ctx, id, imported)
}

// Export lists expenses whose day falls within [from, to]. Empty bounds are
// open.
func (s ExpenseService) Export(ctx context.Context, from, to string, limit int) ([]domain.Expense, error) {
	if limit <= 0 {
		limit = 2000
	}
	list, err := s.Gas.GetExpenses(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Expense, 0, len(list.Expenses))
	for _, e := range list.Expenses {
		d := e.Day()
		if from != "" && d < from || to != "" && d > to {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
