// Package enrichment queries an external nutrition reference API for
// records that are missing their nutrient data. No-match and per-attempt
// timeouts are recovered locally: callers always receive either a profile
// or an explicit not-found, never a transport error.
package enrichment

import (
	"context"
	"time"

	"github.com/fitstack/food-enrichment/internal/core/domain"
)

// FoodMatch is one candidate profile returned by the reference API.
type FoodMatch struct {
	Description string
	Brand       string
	Category    string

	// Profile values are on the basis described by ServingAmount/Unit;
	// the reference API reports per 100g, in which case ServingAmount is
	// 100 and ServingUnit is "g".
	Profile       domain.NutrientProfile
	ServingAmount float64
	ServingUnit   string

	PublishedAt time.Time
}

// Client is the lookup contract the pipeline depends on.
type Client interface {
	// Lookup returns a best-effort nutrient profile for a food name, or
	// ok=false when no strategy produced a match. Network and timeout
	// errors are logged and folded into ok=false.
	Lookup(ctx context.Context, name, brand string) (*FoodMatch, bool)

	// IsAvailable reports whether the client is configured.
	IsAvailable() bool
}
