package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/feedplanner/internal/repository/mongodb"
	"github.com/mamadbah2/feedplanner/pkg/clients/prices"
)

// PriceWriter persists a refreshed price onto a catalog record.
type PriceWriter interface {
	UpdatePrice(ctx context.Context, name string, pricePerKg float64, source string, at time.Time) error
}

// Update is the outcome for one quoted ingredient.
type Update struct {
	Ingredient string  `json:"ingredient"`
	PricePerKg float64 `json:"price_per_kg"`
	Success    bool    `json:"success"`
	Error      string  `json:"error,omitempty"`
}

// Report summarizes a refresh run.
type Report struct {
	Source    string    `json:"source"`
	Updated   int       `json:"updated"`
	Failed    int       `json:"failed"`
	UpdatedAt time.Time `json:"updated_at"`
	Results   []Update  `json:"results"`
}

// Service refreshes default ingredient prices from a quote source.
type Service struct {
	client prices.Client
	store  PriceWriter
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a pricing service instance.
func NewService(client prices.Client, store PriceWriter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, store: store, logger: logger, now: time.Now}
}

// Refresh fetches quotes and writes them to matching default ingredients.
// Quotes for ingredients missing from the catalog are reported as failed.
func (s *Service) Refresh(ctx context.Context) (Report, error) {
	quotes, err := s.client.FetchPrices(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("refresh prices: %w", err)
	}

	at := s.now().UTC()
	report := Report{Source: s.client.Source(), UpdatedAt: at, Results: make([]Update, 0, len(quotes))}

	for _, q := range quotes {
		update := Update{Ingredient: q.Ingredient, PricePerKg: q.PricePerKg}
		switch err := s.store.UpdatePrice(ctx, q.Ingredient, q.PricePerKg, report.Source, at); {
		case err == nil:
			update.Success = true
			report.Updated++
		case errors.Is(err, mongodb.ErrIngredientNotFound):
			update.Error = "not in catalog"
			report.Failed++
		default:
			s.logger.Error("failed to update ingredient price", zap.String("ingredient", q.Ingredient), zap.Error(err))
			update.Error = err.Error()
			report.Failed++
		}
		report.Results = append(report.Results, update)
	}

	s.logger.Info("price update complete",
		zap.String("source", report.Source),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed))

	return report, nil
}
