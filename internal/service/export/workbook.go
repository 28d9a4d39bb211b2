// Package export renders feed plans as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/feedplanner/internal/domain/models"
	"github.com/mamadbah2/feedplanner/internal/service/ration"
)

// WorkbookSheet is the name of the single sheet in exported workbooks.
const WorkbookSheet = "Feed Plan"

var lineHeaders = []string{"Ingredient", "Quantity", "Unit", "Percentage", "Cost"}

// WorkbookFilename derives a download name for the plan.
func WorkbookFilename(plan models.FeedPlan) string {
	stamp := plan.CreatedAt.UTC().Format("20060102-1504")
	name := fmt.Sprintf("feed-plan-%s-%s-%s.xlsx", plan.Selection.BirdType, plan.Selection.Phase, stamp)
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// BuildWorkbook lays the plan out on one sheet: summary, ration lines,
// nutrient profile and, when present, the optimized batch.
func BuildWorkbook(plan models.FeedPlan) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", WorkbookSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E2EFDA"}},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	w := &sheetWriter{f: f, sheet: WorkbookSheet, bold: boldStyle, row: 1}

	w.title("Daily Feed Plan")
	w.pair("Bird Type", plan.BirdTypeName)
	w.pair("Phase", plan.Phase.Name)
	w.pair("Age", plan.Phase.AgeRange)
	w.pair("Bird Count", plan.Selection.BirdCount)
	w.pair("Daily Feed (kg)", plan.DailyFeedKg)
	w.pair("Protein Target", plan.Phase.Protein)
	w.pair("Energy Target", plan.Phase.Energy)
	w.pair("Method", string(plan.Allocation.Method))
	w.pair("Generated", plan.CreatedAt.UTC().Format("2006-01-02 15:04"))
	w.skip()

	w.header(lineHeaders)
	w.lines(plan.Allocation)
	w.totals(plan.Allocation)
	w.skip()

	w.title("Nutrient Profile (%)")
	n := plan.Nutrients
	w.pair("Protein", n.Protein)
	w.pair("Fat", n.Fat)
	w.pair("Fiber", n.Fiber)
	w.pair("Ash", n.Ash)
	w.pair("Moisture", n.Moisture)
	w.pair("Carbohydrate", n.Carbohydrate)
	w.pair("Dry Matter", n.DryMatter)

	if plan.Optimization != nil {
		w.skip()
		w.title(fmt.Sprintf("Optimized Batch (%.0f g)", ration.BatchSize))
		w.header(lineHeaders)
		w.lines(plan.Optimization.Allocation)
		w.pair("Total Cost", plan.Optimization.TotalCost)
		w.pair("Cost Saved", plan.Optimization.CostSaved)
	}

	if w.err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write feed plan sheet: %w", w.err)
	}

	for i, width := range []float64{24, 14, 8, 12, 12} {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(WorkbookSheet, col, col, width)
	}

	return f, nil
}

// WriteWorkbook streams the plan workbook to out.
func WriteWorkbook(out io.Writer, plan models.FeedPlan) error {
	f, err := BuildWorkbook(plan)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// sheetWriter tracks the next free row and keeps the first write error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	bold  int
	row   int
	err   error
}

func (w *sheetWriter) set(col int, value interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(w.sheet, cell, value)
}

func (w *sheetWriter) style(fromCol, toCol int) {
	if w.err != nil {
		return
	}
	from, _ := excelize.CoordinatesToCellName(fromCol, w.row)
	to, _ := excelize.CoordinatesToCellName(toCol, w.row)
	w.err = w.f.SetCellStyle(w.sheet, from, to, w.bold)
}

func (w *sheetWriter) skip() { w.row++ }

func (w *sheetWriter) title(text string) {
	w.set(1, text)
	w.style(1, 1)
	w.row++
}

func (w *sheetWriter) pair(label string, value interface{}) {
	w.set(1, label)
	w.set(2, value)
	w.row++
}

func (w *sheetWriter) header(cols []string) {
	for i, h := range cols {
		w.set(i+1, h)
	}
	w.style(1, len(cols))
	w.row++
}

func (w *sheetWriter) lines(result models.AllocationResult) {
	for _, line := range result.Lines {
		w.set(1, line.Name)
		w.set(2, line.Quantity)
		w.set(3, line.Unit)
		w.set(4, line.PercentageLabel()+"%")
		w.set(5, line.Cost)
		w.row++
	}
}

func (w *sheetWriter) totals(result models.AllocationResult) {
	w.set(1, "Total")
	w.set(2, result.TotalQuantity)
	w.set(3, result.Unit)
	w.set(5, result.TotalCost)
	w.style(1, len(lineHeaders))
	w.row++
}
