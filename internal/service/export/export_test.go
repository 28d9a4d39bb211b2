package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/feedplanner/internal/domain/models"
	"github.com/mamadbah2/feedplanner/internal/repository/sheets"
)

func samplePlan(withOptimization bool) models.FeedPlan {
	plan := models.FeedPlan{
		Selection:    models.Selection{BirdType: "broiler", Phase: "starter", BirdCount: 1000, Ingredients: []string{"Maize", "Soya DOC"}},
		BirdTypeName: "Broiler",
		Phase:        models.Phase{ID: "starter", Name: "Starter", AgeRange: "11-24 days", Protein: "21-22%", Energy: "3050-3100 kcal/kg"},
		DailyFeedKg:  120,
		Allocation: models.AllocationResult{
			Method: models.MethodFormula,
			Unit:   models.UnitKilogram,
			Lines: []models.AllocationLine{
				{Name: "Maize", Quantity: 80, Unit: models.UnitKilogram, Percentage: 66.66, Cost: 2000},
				{Name: "Soya DOC", Quantity: 40, Unit: models.UnitKilogram, Percentage: 33.34, Cost: 2080},
			},
			TotalQuantity: 120,
			TotalCost:     4080,
		},
		Nutrients: models.NutrientProfile{Protein: 21, Fat: 3, Fiber: 4, Ash: 5, Moisture: 11, Carbohydrate: 56, DryMatter: 89},
		CreatedAt: time.Date(2026, 3, 4, 8, 30, 0, 0, time.UTC),
	}
	if withOptimization {
		plan.Optimization = &models.OptimizationResult{
			Allocation: models.AllocationResult{
				Method: models.MethodOptimizer,
				Unit:   models.UnitGram,
				Lines:  []models.AllocationLine{{Name: "Soya DOC", Quantity: 500, Unit: models.UnitGram, Percentage: 50, Cost: 26}},
			},
			TotalCost: 26,
			CostSaved: 12,
		}
	}
	return plan
}

func findRow(rows [][]string, first string) []string {
	for _, row := range rows {
		if len(row) > 0 && row[0] == first {
			return row
		}
	}
	return nil
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, samplePlan(true)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{WorkbookSheet}, f.GetSheetList())

	rows, err := f.GetRows(WorkbookSheet)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bird Type", "Broiler"}, findRow(rows, "Bird Type"))
	assert.Equal(t, []string{"Bird Count", "1000"}, findRow(rows, "Bird Count"))
	assert.Equal(t, []string{"Method", "formula"}, findRow(rows, "Method"))
	assert.Equal(t, []string{"Maize", "80", "kg", "66.7%", "2000"}, findRow(rows, "Maize"))
	assert.Equal(t, []string{"Dry Matter", "89"}, findRow(rows, "Dry Matter"))
	assert.NotNil(t, findRow(rows, "Optimized Batch (1000 g)"))
	assert.Equal(t, []string{"Cost Saved", "12"}, findRow(rows, "Cost Saved"))
}

func TestWriteWorkbook_WithoutOptimization(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, samplePlan(false)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(WorkbookSheet)
	require.NoError(t, err)
	assert.Nil(t, findRow(rows, "Cost Saved"))
}

func TestWorkbookFilename(t *testing.T) {
	assert.Equal(t, "feed-plan-broiler-starter-20260304-0830.xlsx", WorkbookFilename(samplePlan(false)))
}

type fakeSheets struct {
	missing   bool
	ensureErr error
	header    [][]interface{}
	readErr   error
	reads     int
	writes    [][]interface{}
	lastRange string
}

func (f *fakeSheets) EnsureSheet(_ context.Context, title string) (bool, error) {
	if f.ensureErr != nil {
		return false, f.ensureErr
	}
	if title != planSheet || !f.missing {
		return false, nil
	}
	f.missing = false
	return true, nil
}

func (f *fakeSheets) WriteRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	f.lastRange = sheetRange
	f.writes = append(f.writes, rows...)
	return nil
}

func (f *fakeSheets) ReadRange(context.Context, string) ([][]interface{}, error) {
	f.reads++
	return f.header, f.readErr
}

func TestAppendPlan_AddsHeaderOnEmptySheet(t *testing.T) {
	repo := &fakeSheets{}
	exporter := NewSheetExporter(repo, nil)

	n, err := exporter.AppendPlan(context.Background(), samplePlan(false))
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, planWriteRange, repo.lastRange)
	require.Len(t, repo.writes, 3)
	assert.Equal(t, sheetHeader, repo.writes[0])
	assert.Equal(t, []interface{}{"2026-03-04 08:30", "Broiler", "Starter", 1000, 120.0, "formula", "Maize", 80.0, "66.7", 2000.0}, repo.writes[1])
}

func TestAppendPlan_ExistingHeader(t *testing.T) {
	repo := &fakeSheets{header: [][]interface{}{sheetHeader}}

	n, err := NewSheetExporter(repo, nil).AppendPlan(context.Background(), samplePlan(false))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, repo.writes, 2)
}

func TestAppendPlan_CreatesMissingSheet(t *testing.T) {
	repo := &fakeSheets{missing: true}

	n, err := NewSheetExporter(repo, nil).AppendPlan(context.Background(), samplePlan(false))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Zero(t, repo.reads)
	require.Len(t, repo.writes, 3)
	assert.Equal(t, sheetHeader, repo.writes[0])
}

func TestAppendPlan_HeaderRangeOnMissingTab(t *testing.T) {
	repo := &fakeSheets{readErr: fmt.Errorf("read range: %w", sheets.ErrSheetNotFound)}

	_, err := NewSheetExporter(repo, nil).AppendPlan(context.Background(), samplePlan(false))
	require.NoError(t, err)
	require.Len(t, repo.writes, 3)
	assert.Equal(t, sheetHeader, repo.writes[0])
}

func TestAppendPlan_Errors(t *testing.T) {
	_, err := NewSheetExporter(nil, nil).AppendPlan(context.Background(), samplePlan(false))
	assert.ErrorIs(t, err, ErrSheetsDisabled)

	repo := &fakeSheets{readErr: errors.New("quota exceeded")}
	_, err = NewSheetExporter(repo, nil).AppendPlan(context.Background(), samplePlan(false))
	require.Error(t, err)
	assert.Empty(t, repo.writes)

	repo = &fakeSheets{ensureErr: errors.New("permission denied")}
	_, err = NewSheetExporter(repo, nil).AppendPlan(context.Background(), samplePlan(false))
	require.Error(t, err)
	assert.Empty(t, repo.writes)
}
