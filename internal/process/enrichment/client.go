package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/araddon/dateparse"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/fitstack/food-enrichment/internal/core/domain"
)

const (
	defaultAttemptTimeout = 8 * time.Second
	defaultCallDelay      = 3 * time.Second
	defaultMaxRetries     = 2
	searchPageSize        = 5
)

var (
	errUnexpectedStatus = errors.New("nutrition api unexpected status")
	errRateLimited      = errors.New("nutrition api rate limited")
	errNoResults        = errors.New("nutrition api returned no foods")
)

// HTTPConfig holds configuration for the reference API client.
type HTTPConfig struct {
	BaseURL string
	APIKey  string

	// AttemptTimeout bounds each search strategy; a timed-out attempt is
	// "no match for this attempt", not a failure.
	AttemptTimeout time.Duration

	// CallDelay is the minimum spacing between external calls within a
	// batch, respecting the reference API's rate limit. Zero in tests.
	CallDelay time.Duration

	// MaxRetries bounds transient (429/5xx) retries within one attempt.
	MaxRetries uint
}

// HTTPClient implements Client against a FoodData Central shaped search
// endpoint.
type HTTPClient struct {
	baseURL        string
	apiKey         string
	httpClient     *http.Client
	limiter        *rate.Limiter
	attemptTimeout time.Duration
	maxRetries     uint
	logger         *zerolog.Logger
}

// NewHTTPClient creates the reference API client.
func NewHTTPClient(cfg HTTPConfig, logger *zerolog.Logger) *HTTPClient {
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = defaultAttemptTimeout
	}

	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.CallDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.CallDelay), 1)
	}

	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.AttemptTimeout,
		},
		limiter:        limiter,
		attemptTimeout: cfg.AttemptTimeout,
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
	}
}

func (c *HTTPClient) IsAvailable() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// Lookup tries each search strategy in order until one yields a match.
// Every external call waits on the shared limiter, enforcing the
// inter-call delay across the whole batch.
func (c *HTTPClient) Lookup(ctx context.Context, name, brand string) (*FoodMatch, bool) {
	if !c.IsAvailable() {
		return nil, false
	}

	for _, query := range searchQueries(name, brand) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, false
		}

		match, err := c.searchAttempt(ctx, query)
		if err != nil {
			// Timeouts and transport errors end this attempt only; the
			// next strategy still runs.
			c.logger.Debug().Err(err).Str("query", query).Msg("enrichment attempt failed")

			continue
		}

		if match != nil {
			c.logger.Info().Str("query", query).Str("match", match.Description).Msg("enrichment match")

			return match, true
		}
	}

	return nil, false
}

// searchAttempt runs one bounded search call, retrying transient statuses.
func (c *HTTPClient) searchAttempt(ctx context.Context, query string) (*FoodMatch, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	var match *FoodMatch

	operation := func() error {
		m, err := c.search(attemptCtx, query)
		if err != nil {
			if errors.Is(err, errRateLimited) || errors.Is(err, errUnexpectedStatus) {
				return err // retryable
			}

			return backoff.Permanent(err)
		}

		match = m

		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)), attemptCtx)
	if err := backoff.Retry(operation, policy); err != nil {
		if errors.Is(err, errNoResults) {
			return nil, nil
		}

		return nil, err
	}

	return match, nil
}

func (c *HTTPClient) search(ctx context.Context, query string) (*FoodMatch, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("pageSize", fmt.Sprintf("%d", searchPageSize))
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/foods/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errRateLimited
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search status %d", resp.StatusCode)
	}

	return parseSearchResponse(body)
}

// searchResponse mirrors the FoodData Central search payload.
type searchResponse struct {
	Foods []searchFood `json:"foods"`
}

type searchFood struct {
	Description     string           `json:"description"`
	BrandOwner      string           `json:"brandOwner"`      //nolint:tagliatelle // upstream API uses camelCase
	FoodCategory    string           `json:"foodCategory"`    //nolint:tagliatelle // upstream API uses camelCase
	ServingSize     float64          `json:"servingSize"`     //nolint:tagliatelle // upstream API uses camelCase
	ServingSizeUnit string           `json:"servingSizeUnit"` //nolint:tagliatelle // upstream API uses camelCase
	PublishedDate   string           `json:"publishedDate"`   //nolint:tagliatelle // upstream API uses camelCase
	FoodNutrients   []searchNutrient `json:"foodNutrients"`   //nolint:tagliatelle // upstream API uses camelCase
}

type searchNutrient struct {
	NutrientNumber string  `json:"nutrientNumber"` //nolint:tagliatelle // upstream API uses camelCase
	NutrientName   string  `json:"nutrientName"`   //nolint:tagliatelle // upstream API uses camelCase
	UnitName       string  `json:"unitName"`       //nolint:tagliatelle // upstream API uses camelCase
	Value          float64 `json:"value"`
}

// Standard nutrient numbers in the reference data.
const (
	nutrientEnergy    = "208"
	nutrientProtein   = "203"
	nutrientFat       = "204"
	nutrientCarbs     = "205"
	nutrientSugar     = "269"
	nutrientFiber     = "291"
	nutrientCalcium   = "301"
	nutrientIron      = "303"
	nutrientPotassium = "306"
	nutrientSodium    = "307"
	nutrientVitaminA  = "320"
	nutrientVitaminD  = "328"
	nutrientVitaminC  = "401"
)

func parseSearchResponse(body []byte) (*FoodMatch, error) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	if len(resp.Foods) == 0 {
		return nil, errNoResults
	}

	// First candidate wins: the API already ranks by relevance.
	food := resp.Foods[0]

	match := &FoodMatch{
		Description:   food.Description,
		Brand:         food.BrandOwner,
		Category:      food.FoodCategory,
		Profile:       mapNutrients(food.FoodNutrients),
		ServingAmount: food.ServingSize,
		ServingUnit:   food.ServingSizeUnit,
	}

	// Search results report nutrients per 100g unless a serving is stated.
	if match.ServingAmount <= 0 {
		match.ServingAmount = 100
		match.ServingUnit = "g"
	}

	if food.PublishedDate != "" {
		// The API emits several inconsistent date layouts.
		if t, err := dateparse.ParseAny(food.PublishedDate); err == nil {
			match.PublishedAt = t
		}
	}

	return match, nil
}

func mapNutrients(nutrients []searchNutrient) domain.NutrientProfile {
	var p domain.NutrientProfile

	for _, n := range nutrients {
		switch n.NutrientNumber {
		case nutrientEnergy:
			p.Calories = n.Value
		case nutrientProtein:
			p.ProteinG = n.Value
		case nutrientCarbs:
			p.CarbsG = n.Value
		case nutrientFat:
			p.FatG = n.Value
		case nutrientFiber:
			p.FiberG = n.Value
		case nutrientSugar:
			p.SugarG = n.Value
		case nutrientSodium:
			p.SodiumMg = n.Value
		case nutrientPotassium:
			p.PotassiumMg = n.Value
		case nutrientCalcium:
			p.CalciumMg = n.Value
		case nutrientIron:
			p.IronMg = n.Value
		case nutrientVitaminA:
			p.VitaminAMcg = n.Value
		case nutrientVitaminC:
			p.VitaminCMg = n.Value
		case nutrientVitaminD:
			p.VitaminDMcg = n.Value
		}
	}

	return p
}
