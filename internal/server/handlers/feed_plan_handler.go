package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/feedplanner/internal/domain/models"
	"github.com/mamadbah2/feedplanner/internal/service/export"
	"github.com/mamadbah2/feedplanner/internal/service/planner"
	"github.com/mamadbah2/feedplanner/internal/service/pricing"
)

// FeedPlanner is the planner surface exposed over HTTP.
type FeedPlanner interface {
	BirdTypes() []models.BirdType
	Calculate(ctx context.Context, req planner.Request) (models.FeedPlan, error)
	Optimize(ctx context.Context, sel models.Selection) (models.OptimizationResult, error)
	RecentPlans(ctx context.Context, limit int) ([]models.FeedPlan, error)
}

// SheetExporter appends plans to the shared spreadsheet.
type SheetExporter interface {
	Enabled() bool
	AppendPlan(ctx context.Context, plan models.FeedPlan) (int, error)
}

// PriceRefresher triggers a price update.
type PriceRefresher interface {
	Refresh(ctx context.Context) (pricing.Report, error)
}

// FeedPlanHandler serves ration calculation, optimization and export.
type FeedPlanHandler struct {
	planner FeedPlanner
	sheets  SheetExporter
	prices  PriceRefresher
	logger  *zap.Logger
}

// NewFeedPlanHandler constructs the HTTP handler adapter.
func NewFeedPlanHandler(planner FeedPlanner, sheets SheetExporter, prices PriceRefresher, logger *zap.Logger) *FeedPlanHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedPlanHandler{planner: planner, sheets: sheets, prices: prices, logger: logger}
}

type selectionRequest struct {
	BirdType    string   `json:"bird_type" binding:"required"`
	Phase       string   `json:"phase" binding:"required"`
	Ingredients []string `json:"ingredients" binding:"required,min=1"`
}

type calculateRequest struct {
	selectionRequest
	BirdCount int   `json:"bird_count" binding:"required,min=1,max=50000"`
	Optimize  bool  `json:"optimize"`
	Save      *bool `json:"save"`
}

func (r calculateRequest) toPlannerRequest(save bool) planner.Request {
	if r.Save != nil {
		save = save && *r.Save
	}
	return planner.Request{
		Selection: models.Selection{
			BirdType:    r.BirdType,
			Phase:       r.Phase,
			BirdCount:   r.BirdCount,
			Ingredients: r.Ingredients,
		},
		Optimize: r.Optimize,
		Save:     save,
	}
}

// BirdTypes lists bird types with their phases and targets.
func (h *FeedPlanHandler) BirdTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bird_types": h.planner.BirdTypes()})
}

// Calculate computes the daily ration for a selection.
func (h *FeedPlanHandler) Calculate(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid calculate payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.planner.Calculate(c.Request.Context(), req.toPlannerRequest(true))
	if err != nil {
		h.writeError(c, "calculate feed plan", err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// Optimize runs the least-cost allocator over a 1000 g batch.
func (h *FeedPlanHandler) Optimize(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid optimize payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.planner.Optimize(c.Request.Context(), models.Selection{
		BirdType:    req.BirdType,
		Phase:       req.Phase,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		h.writeError(c, "optimize feed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// List returns recent saved plans.
func (h *FeedPlanHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	plans, err := h.planner.RecentPlans(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, "list feed plans", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// Export computes a plan and returns it as an XLSX download, or appends it to
// Google Sheets when target=sheets.
func (h *FeedPlanHandler) Export(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid export payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.planner.Calculate(c.Request.Context(), req.toPlannerRequest(false))
	if err != nil {
		h.writeError(c, "calculate feed plan", err)
		return
	}

	if c.Query("target") == "sheets" {
		h.exportToSheets(c, plan)
		return
	}

	f, err := export.BuildWorkbook(plan)
	if err != nil {
		h.writeError(c, "build workbook", err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+export.WorkbookFilename(plan)+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("failed writing workbook", zap.Error(err))
	}
}

func (h *FeedPlanHandler) exportToSheets(c *gin.Context, plan models.FeedPlan) {
	if h.sheets == nil || !h.sheets.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": export.ErrSheetsDisabled.Error()})
		return
	}

	rows, err := h.sheets.AppendPlan(c.Request.Context(), plan)
	if err != nil {
		h.logger.Error("failed exporting to sheets", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to export to google sheets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// RefreshPrices triggers an immediate price update.
func (h *FeedPlanHandler) RefreshPrices(c *gin.Context) {
	report, err := h.prices.Refresh(c.Request.Context())
	if err != nil {
		h.logger.Error("failed refreshing prices", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to refresh prices"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *FeedPlanHandler) writeError(c *gin.Context, action string, err error) {
	if errors.Is(err, planner.ErrUnknownPhase) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("request failed", zap.String("action", action), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
}
