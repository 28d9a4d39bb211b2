package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/feedplanner/internal/domain/models"
	"github.com/mamadbah2/feedplanner/internal/repository/requirements"
	"github.com/mamadbah2/feedplanner/internal/service/ration"
)

// ErrUnknownPhase indicates the bird type / phase pair is not in the requirement table.
var ErrUnknownPhase = errors.New("unknown bird type or phase")

// ErrInvalidIngredient indicates a catalog record failed validation.
var ErrInvalidIngredient = errors.New("invalid ingredient")

const defaultRecentPlans = 20

// CatalogStore is the slice of catalog persistence the planner needs.
type CatalogStore interface {
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	UpsertIngredient(ctx context.Context, ingredient models.Ingredient) (models.Ingredient, error)
	DeleteIngredient(ctx context.Context, name string) error
	SeedDefaults(ctx context.Context, defaults []models.Ingredient) (int, error)
}

// PlanStore persists computed plans.
type PlanStore interface {
	SaveFeedPlan(ctx context.Context, plan models.FeedPlan) (models.FeedPlan, error)
	ListFeedPlans(ctx context.Context, limit int64) ([]models.FeedPlan, error)
}

// Request is a plan calculation request.
type Request struct {
	Selection models.Selection
	Optimize  bool
	Save      bool
}

// Service coordinates the catalog, the requirement table and the ration engine.
type Service struct {
	catalog CatalogStore
	plans   PlanStore
	table   requirements.Table
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a planner. plans may be nil to disable history.
func NewService(catalog CatalogStore, plans PlanStore, table requirements.Table, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog: catalog,
		plans:   plans,
		table:   table,
		logger:  logger,
		now:     time.Now,
	}
}

// BirdTypes returns the requirement table.
func (s *Service) BirdTypes() []models.BirdType {
	return s.table.BirdTypes()
}

// EnsureDefaults seeds the default ingredient catalog on first start.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	inserted, err := s.catalog.SeedDefaults(ctx, requirements.DefaultIngredients())
	if err != nil {
		return fmt.Errorf("seed default ingredients: %w", err)
	}
	if inserted > 0 {
		s.logger.Info("default ingredients seeded", zap.Int("count", inserted))
	}
	return nil
}

// Calculate computes a daily feed plan for the selection.
func (s *Service) Calculate(ctx context.Context, req Request) (models.FeedPlan, error) {
	bird, ok := s.table.FindBirdType(req.Selection.BirdType)
	if !ok {
		return models.FeedPlan{}, ErrUnknownPhase
	}
	phase, ok := bird.FindPhase(req.Selection.Phase)
	if !ok {
		return models.FeedPlan{}, ErrUnknownPhase
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return models.FeedPlan{}, err
	}

	dailyKg := ration.DailyFeedKg(req.Selection.BirdType, req.Selection.BirdCount)
	allocation := ration.ComputeDailyRation(req.Selection, phase, catalog)

	plan := models.FeedPlan{
		Selection:    req.Selection,
		BirdTypeName: bird.Name,
		Phase:        phase,
		DailyFeedKg:  dailyKg,
		Allocation:   allocation,
		Nutrients:    ration.ComputeNutrientProfile(allocation, dailyKg),
		CreatedAt:    s.now().UTC(),
	}

	if req.Optimize {
		optimized := s.optimize(phase, req.Selection.Ingredients, catalog)
		plan.Optimization = &optimized
	}

	s.logger.Debug("feed plan calculated",
		zap.String("bird_type", req.Selection.BirdType),
		zap.String("phase", req.Selection.Phase),
		zap.Int("bird_count", req.Selection.BirdCount),
		zap.String("method", string(allocation.Method)),
		zap.Int("lines", len(allocation.Lines)))

	if req.Save && s.plans != nil && !allocation.Empty() {
		saved, err := s.plans.SaveFeedPlan(ctx, plan)
		if err != nil {
			s.logger.Warn("failed to save feed plan", zap.Error(err))
		} else {
			plan = saved
		}
	}

	return plan, nil
}

// Optimize runs the greedy cost allocator for the phase's nutrient floors.
func (s *Service) Optimize(ctx context.Context, sel models.Selection) (models.OptimizationResult, error) {
	phase, ok := s.table.FindPhase(sel.BirdType, sel.Phase)
	if !ok {
		return models.OptimizationResult{}, ErrUnknownPhase
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return models.OptimizationResult{}, err
	}

	return s.optimize(phase, sel.Ingredients, catalog), nil
}

func (s *Service) optimize(phase models.Phase, names []string, catalog models.Catalog) models.OptimizationResult {
	selected := make([]models.Ingredient, 0, len(names))
	for _, name := range names {
		if ing, ok := catalog.Lookup(name); ok {
			selected = append(selected, ing)
		}
	}
	return ration.OptimizeAllocation(selected, ration.ParseTarget(phase.Protein), ration.ParseTarget(phase.Energy))
}

// RecentPlans lists saved plans, newest first.
func (s *Service) RecentPlans(ctx context.Context, limit int) ([]models.FeedPlan, error) {
	if s.plans == nil {
		return []models.FeedPlan{}, nil
	}
	if limit <= 0 {
		limit = defaultRecentPlans
	}
	plans, err := s.plans.ListFeedPlans(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list feed plans: %w", err)
	}
	return plans, nil
}

// Ingredients returns the current catalog.
func (s *Service) Ingredients(ctx context.Context) ([]models.Ingredient, error) {
	items, err := s.catalog.ListIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return items, nil
}

// SaveIngredient validates and upserts a catalog record.
func (s *Service) SaveIngredient(ctx context.Context, ing models.Ingredient) (models.Ingredient, error) {
	ing.Name = strings.TrimSpace(ing.Name)
	if ing.Name == "" {
		return models.Ingredient{}, fmt.Errorf("%w: name is required", ErrInvalidIngredient)
	}
	if ing.Category == "" {
		ing.Category = models.CategoryOther
	}
	if !ing.Category.Valid() {
		return models.Ingredient{}, fmt.Errorf("%w: unknown category %q", ErrInvalidIngredient, ing.Category)
	}
	if !ing.Classification.Valid() {
		return models.Ingredient{}, fmt.Errorf("%w: unknown classification %q", ErrInvalidIngredient, ing.Classification)
	}
	for field, v := range map[string]float64{
		"protein_percentage":    ing.ProteinPercentage,
		"fat_percentage":        ing.FatPercentage,
		"fiber_percentage":      ing.FiberPercentage,
		"ash_percentage":        ing.AshPercentage,
		"moisture_percentage":   ing.MoisturePercentage,
		"calcium_percentage":    ing.CalciumPercentage,
		"phosphorus_percentage": ing.PhosphorusPercentage,
		"energy_kcal_per_kg":    ing.EnergyKcalPerKg,
		"cost_per_kg":           ing.CostPerKg,
	} {
		if v < 0 {
			return models.Ingredient{}, fmt.Errorf("%w: %s must not be negative", ErrInvalidIngredient, field)
		}
	}

	saved, err := s.catalog.UpsertIngredient(ctx, ing)
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("save ingredient: %w", err)
	}
	return saved, nil
}

// DeleteIngredient removes a catalog record by name.
func (s *Service) DeleteIngredient(ctx context.Context, name string) error {
	if err := s.catalog.DeleteIngredient(ctx, name); err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	return nil
}

func (s *Service) loadCatalog(ctx context.Context) (models.Catalog, error) {
	items, err := s.catalog.ListIngredients(ctx)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("load ingredient catalog: %w", err)
	}
	return models.NewCatalog(items), nil
}
