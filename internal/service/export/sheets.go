package export

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/feedplanner/internal/domain/models"
	"github.com/mamadbah2/feedplanner/internal/repository/sheets"
)

// ErrSheetsDisabled is returned when no spreadsheet is configured.
var ErrSheetsDisabled = errors.New("google sheets export is not configured")

const (
	planSheet       = "FeedPlans"
	planWriteRange  = planSheet + "!A:J"
	planHeaderRange = planSheet + "!A1:J1"
	timestampFormat = "2006-01-02 15:04"
)

var sheetHeader = []interface{}{"Date", "Bird Type", "Phase", "Bird Count", "Daily Feed (kg)", "Method", "Ingredient", "Quantity (kg)", "Percentage", "Cost"}

// SheetExporter appends plans to a shared spreadsheet log.
type SheetExporter struct {
	repo   sheets.Repository
	logger *zap.Logger
}

// NewSheetExporter wires an exporter. repo may be nil when Sheets is disabled.
func NewSheetExporter(repo sheets.Repository, logger *zap.Logger) *SheetExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetExporter{repo: repo, logger: logger}
}

// Enabled reports whether a spreadsheet is configured.
func (e *SheetExporter) Enabled() bool {
	return e != nil && e.repo != nil
}

// AppendPlan writes one row per ration line. The FeedPlans tab is created when
// missing and gets the header row while empty. It returns the number of plan
// rows written.
func (e *SheetExporter) AppendPlan(ctx context.Context, plan models.FeedPlan) (int, error) {
	if !e.Enabled() {
		return 0, ErrSheetsDisabled
	}

	rows := PlanRows(plan)
	if len(rows) == 0 {
		return 0, nil
	}

	needHeader, err := e.needsHeader(ctx)
	if err != nil {
		return 0, err
	}
	payload := rows
	if needHeader {
		payload = append([][]interface{}{sheetHeader}, rows...)
	}

	if err := e.repo.WriteRows(ctx, planWriteRange, payload); err != nil {
		return 0, fmt.Errorf("append feed plan rows: %w", err)
	}

	e.logger.Info("feed plan exported to sheets",
		zap.String("bird_type", plan.Selection.BirdType),
		zap.String("phase", plan.Selection.Phase),
		zap.Int("rows", len(rows)))
	return len(rows), nil
}

func (e *SheetExporter) needsHeader(ctx context.Context) (bool, error) {
	created, err := e.repo.EnsureSheet(ctx, planSheet)
	if err != nil {
		return false, fmt.Errorf("prepare plan sheet: %w", err)
	}
	if created {
		return true, nil
	}

	existing, err := e.repo.ReadRange(ctx, planHeaderRange)
	switch {
	case errors.Is(err, sheets.ErrSheetNotFound):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("read sheet header: %w", err)
	}
	return len(existing) == 0, nil
}

// PlanRows flattens a plan into spreadsheet rows.
func PlanRows(plan models.FeedPlan) [][]interface{} {
	rows := make([][]interface{}, 0, len(plan.Allocation.Lines))
	date := plan.CreatedAt.UTC().Format(timestampFormat)
	for _, line := range plan.Allocation.Lines {
		rows = append(rows, []interface{}{
			date,
			plan.BirdTypeName,
			plan.Phase.Name,
			plan.Selection.BirdCount,
			plan.DailyFeedKg,
			string(plan.Allocation.Method),
			line.Name,
			line.Quantity,
			line.PercentageLabel(),
			line.Cost,
		})
	}
	return rows
}
