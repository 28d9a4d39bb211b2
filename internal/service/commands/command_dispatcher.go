package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/feedplanner/internal/domain/models"
	"github.com/mamadbah2/feedplanner/internal/service/planner"
	"github.com/mamadbah2/feedplanner/internal/service/pricing"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

const maxBirdCount = 50000

// Planner is the subset of the planner service used by chat commands.
type Planner interface {
	BirdTypes() []models.BirdType
	Ingredients(ctx context.Context) ([]models.Ingredient, error)
	Calculate(ctx context.Context, req planner.Request) (models.FeedPlan, error)
	Optimize(ctx context.Context, sel models.Selection) (models.OptimizationResult, error)
}

// PriceRefresher triggers an on-demand price update.
type PriceRefresher interface {
	Refresh(ctx context.Context) (pricing.Report, error)
}

// Dispatcher executes parsed commands and renders a text reply.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	planner Planner
	prices  PriceRefresher
	logger  *zap.Logger
}

// NewService constructs a command dispatcher. prices may be nil.
func NewService(planner Planner, prices PriceRefresher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		planner: planner,
		prices:  prices,
		logger:  logger,
	}
}

// HandleCommand runs the command and returns the reply body.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandPlan:
		sel, err := s.parseSelection(ctx, cmd.Args, true)
		if err != nil {
			return "", err
		}
		plan, err := s.planner.Calculate(ctx, planner.Request{Selection: sel, Save: true})
		if err != nil {
			return "", err
		}
		return formatPlan(plan), nil
	case models.CommandOptimize:
		sel, err := s.parseSelection(ctx, cmd.Args, false)
		if err != nil {
			return "", err
		}
		result, err := s.planner.Optimize(ctx, sel)
		if err != nil {
			return "", err
		}
		return formatOptimization(sel, result), nil
	case models.CommandPrices:
		if len(cmd.Args) > 0 && strings.EqualFold(cmd.Args[0], "refresh") {
			return s.refreshPrices(ctx)
		}
		items, err := s.planner.Ingredients(ctx)
		if err != nil {
			return "", err
		}
		return formatPrices(items), nil
	case models.CommandPhases:
		return formatPhases(s.planner.BirdTypes()), nil
	case models.CommandHelp:
		return HelpText, nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) refreshPrices(ctx context.Context) (string, error) {
	if s.prices == nil {
		return "", ErrUnsupportedCommand
	}
	report, err := s.prices.Refresh(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Prices refreshed from %s: %d updated, %d skipped.", report.Source, report.Updated, report.Failed), nil
}

// parseSelection reads "<bird> <phase> [count] [ingredient, ingredient...]".
// Without an ingredient list the default catalog is used.
func (s *Service) parseSelection(ctx context.Context, args []string, needCount bool) (models.Selection, error) {
	minArgs := 2
	if needCount {
		minArgs = 3
	}
	if len(args) < minArgs {
		return models.Selection{}, ErrInvalidArguments
	}

	sel := models.Selection{
		BirdType: strings.ToLower(args[0]),
		Phase:    strings.ToLower(args[1]),
	}
	rest := args[2:]

	if needCount {
		count, err := strconv.Atoi(args[2])
		if err != nil || count < 1 || count > maxBirdCount {
			return models.Selection{}, ErrInvalidArguments
		}
		sel.BirdCount = count
		rest = args[3:]
	}

	sel.Ingredients = splitIngredients(strings.Join(rest, " "))
	if len(sel.Ingredients) == 0 {
		defaults, err := s.defaultIngredients(ctx)
		if err != nil {
			return models.Selection{}, err
		}
		sel.Ingredients = defaults
	}
	return sel, nil
}

func (s *Service) defaultIngredients(ctx context.Context) ([]string, error) {
	items, err := s.planner.Ingredients(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		if item.IsDefault {
			names = append(names, item.Name)
		}
	}
	return names, nil
}

func splitIngredients(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
