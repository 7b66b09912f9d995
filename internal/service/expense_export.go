package service

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
)

var expenseHeader = []string{"ID", "日付", "案件番号", "顧客名", "カテゴリ", "金額", "内容", "担当者", "会計取込"}

func expenseRecord(e domain.Expense) []any {
	imported := "未"
	if e.AccountingImported {
		imported = "済"
	}
	desc := e.Description
	if desc == "" {
		desc = e.Memo
	}
	return []any{
		e.ID.String(),
		e.Day(),
		e.ProjectNumber,
		e.CustomerName,
		e.Category,
		e.Amount.Float(),
		desc,
		e.UserName,
		imported,
	}
}

// ExportExpensesCSV writes UTF-8 CSV with a leading BOM.
func ExportExpensesCSV(items []domain.Expense) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteString("\ufeff")
	w := csv.NewWriter(buf)
	_ = w.Write(expenseHeader)
	for _, e := range items {
		rec := expenseRecord(e)
		row := make([]string, len(rec))
		for i, v := range rec {
			switch x := v.(type) {
			case string:
				row[i] = x
			case float64:
				row[i] = strconv.FormatFloat(x, 'f', -1, 64)
			}
		}
		_ = w.Write(row)
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func ExportExpensesXLSX(items []domain.Expense) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "経費"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range expenseHeader {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, e := range items {
		for c, v := range expenseRecord(e) {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 10)
	_ = f.SetColWidth(sheet, "B", "B", 12)
	_ = f.SetColWidth(sheet, "C", "D", 18)
	_ = f.SetColWidth(sheet, "E", "E", 12)
	_ = f.SetColWidth(sheet, "F", "F", 14)
	_ = f.SetColWidth(sheet, "G", "G", 32)
	_ = f.SetColWidth(sheet, "H", "I", 12)

	header, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#06C755"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "I1", header)
	yen, _ := f.NewStyle(&excelize.Style{NumFmt: 3})
	if len(items) > 0 {
		last, _ := excelize.CoordinatesToCellName(6, len(items)+1)
		_ = f.SetCellStyle(sheet, "F2", last, yen)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
