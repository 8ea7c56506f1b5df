package guide

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetSummary   = "Summary"
	SheetBudget    = "Budget"
	SheetChecklist = "Checklist"
)

// RenderXLSX writes the guide as a workbook with summary, budget and
// checklist sheets.
func RenderXLSX(out io.Writer, g Guide) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetBudget, SheetChecklist} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %s: %w", name, err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("style: %w", err)
	}

	summary := [][]any{{Title, ""}, {g.GeneratedLabel(), g.BadgeLabel()}, {}}
	for _, row := range g.Summary {
		summary = append(summary, []any{row.Label, row.Value})
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}

	budget := [][]any{{"Item", "Min ($)", "Max ($)"}}
	for _, l := range g.BudgetLines {
		budget = append(budget, []any{l.Item, l.Min, l.Max})
	}
	budget = append(budget, []any{"Total", g.Budget.Min, g.Budget.Max})
	if err := writeRows(f, SheetBudget, budget); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(3, len(budget))
	if err := f.SetCellStyle(SheetBudget, fmt.Sprintf("A%d", len(budget)), last, bold); err != nil {
		return fmt.Errorf("style totals: %w", err)
	}

	checklist := [][]any{{"Done", "Equipment"}}
	for _, item := range g.Checklist {
		checklist = append(checklist, []any{"[ ]", item})
	}
	if err := writeRows(f, SheetChecklist, checklist); err != nil {
		return err
	}

	for _, sheet := range []string{SheetSummary, SheetBudget, SheetChecklist} {
		if err := f.SetCellStyle(sheet, "A1", "C1", bold); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
		if err := f.SetColWidth(sheet, "A", "B", 36); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}
	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
