package prices

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/feedplanner/internal/config"
)

// Quote is a market price for one ingredient.
type Quote struct {
	Ingredient string  `json:"ingredient"`
	PricePerKg float64 `json:"price_per_kg"`
}

// Client fetches current ingredient prices.
type Client interface {
	Source() string
	FetchPrices(ctx context.Context) ([]Quote, error)
}

// APIClient is a resty-backed implementation of Client for an HTTP price feed.
type APIClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient returns a feed client when a URL is configured and the built-in
// reference list otherwise.
func NewClient(cfg config.PricesConfig) Client {
	if strings.TrimSpace(cfg.FeedURL) == "" {
		return NewReferenceClient(nil)
	}
	return NewAPIClient(cfg)
}

// NewAPIClient builds a price feed client using the provided configuration values.
func NewAPIClient(cfg config.PricesConfig) *APIClient {
	restyClient := resty.New().
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)
	if cfg.APIKey != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))
	}

	return &APIClient{httpClient: restyClient, url: cfg.FeedURL}
}

// Source names the feed for provenance fields.
func (c *APIClient) Source() string {
	return "AgriPriceAPI"
}

type feedResponse struct {
	Prices []Quote `json:"prices"`
}

// FetchPrices downloads the latest quotes.
func (c *APIClient) FetchPrices(ctx context.Context) ([]Quote, error) {
	result := new(feedResponse)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("fetch ingredient prices: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("price feed error: code=%d, body=%s", resp.StatusCode(), resp.String())
	}

	return result.Prices, nil
}

var referencePrices = []Quote{
	{Ingredient: "Maize", PricePerKg: 24.50},
	{Ingredient: "Soya DOC", PricePerKg: 52.00},
	{Ingredient: "Soybean Meal (48% CP)", PricePerKg: 54.00},
	{Ingredient: "Rice Bran", PricePerKg: 18.75},
	{Ingredient: "Wheat", PricePerKg: 28.00},
	{Ingredient: "Fish Meal (60% CP)", PricePerKg: 85.00},
	{Ingredient: "Fish Meal (65% CP)", PricePerKg: 90.00},
	{Ingredient: "Groundnut Cake", PricePerKg: 45.00},
	{Ingredient: "Cotton Seed Meal", PricePerKg: 35.00},
	{Ingredient: "Sunflower Seed Meal", PricePerKg: 38.00},
	{Ingredient: "Barley", PricePerKg: 22.00},
	{Ingredient: "Sorghum", PricePerKg: 23.50},
	{Ingredient: "Broken Rice", PricePerKg: 32.00},
	{Ingredient: "Vegetable Oil", PricePerKg: 120.00},
	{Ingredient: "DCP", PricePerKg: 55.00},
	{Ingredient: "Bone Meal", PricePerKg: 40.00},
}

// ReferenceClient serves a fixed price list with up to ±5% daily variation.
// It is safe for concurrent use.
type ReferenceClient struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewReferenceClient builds a reference client. A nil rnd uses a time seed.
func NewReferenceClient(rnd *rand.Rand) *ReferenceClient {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &ReferenceClient{rnd: rnd}
}

// Source names the reference list.
func (c *ReferenceClient) Source() string {
	return "ReferencePriceList"
}

// FetchPrices returns the reference list with random variation.
func (c *ReferenceClient) FetchPrices(ctx context.Context) ([]Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Quote, 0, len(referencePrices))
	for _, q := range referencePrices {
		factor := 0.95 + c.rnd.Float64()*0.1
		out = append(out, Quote{
			Ingredient: q.Ingredient,
			PricePerKg: math.Round(q.PricePerKg*factor*100) / 100,
		})
	}
	return out, nil
}
