package enrichment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) *HTTPClient {
	t.Helper()

	logger := zerolog.Nop()

	return NewHTTPClient(HTTPConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		AttemptTimeout: 2 * time.Second,
		CallDelay:      0,
		MaxRetries:     1,
	}, &logger)
}

const searchResponseBody = `{
	"foods": [
		{
			"description": "Broccoli, raw",
			"foodCategory": "Vegetables and Vegetable Products",
			"publishedDate": "2019-04-01",
			"foodNutrients": [
				{"nutrientNumber": "208", "nutrientName": "Energy", "unitName": "KCAL", "value": 34},
				{"nutrientNumber": "203", "nutrientName": "Protein", "unitName": "G", "value": 2.8},
				{"nutrientNumber": "205", "nutrientName": "Carbohydrate, by difference", "unitName": "G", "value": 6.6},
				{"nutrientNumber": "204", "nutrientName": "Total lipid (fat)", "unitName": "G", "value": 0.4},
				{"nutrientNumber": "291", "nutrientName": "Fiber, total dietary", "unitName": "G", "value": 2.6},
				{"nutrientNumber": "401", "nutrientName": "Vitamin C", "unitName": "MG", "value": 89.2}
			]
		}
	]
}`

func TestLookupSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/foods/search", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(searchResponseBody))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)

	match, ok := c.Lookup(context.Background(), "Broccoli, raw", "")
	require.True(t, ok)
	require.NotNil(t, match)

	assert.Equal(t, "Broccoli, raw", match.Description)
	assert.InDelta(t, 34.0, match.Profile.Calories, 1e-9)
	assert.InDelta(t, 2.8, match.Profile.ProteinG, 1e-9)
	assert.InDelta(t, 89.2, match.Profile.VitaminCMg, 1e-9)
	assert.InDelta(t, 100.0, match.ServingAmount, 1e-9)
	assert.Equal(t, "g", match.ServingUnit)
	assert.Equal(t, 2019, match.PublishedAt.Year())
}

func TestLookupNoMatchAcrossAllStrategies(t *testing.T) {
	var calls atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"foods": []}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)

	match, ok := c.Lookup(context.Background(), "Dragonfruit smoothie, homemade", "")
	assert.False(t, ok)
	assert.Nil(t, match)
	// One call per strategy: stripped name, first significant token.
	assert.Equal(t, int32(2), calls.Load())
}

func TestLookupRetriesTransientThenSucceeds(t *testing.T) {
	var calls atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)

			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(searchResponseBody))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)

	match, ok := c.Lookup(context.Background(), "Broccoli", "")
	require.True(t, ok)
	assert.Equal(t, "Broccoli, raw", match.Description)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLookupTimeoutIsNoMatchNotFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(searchResponseBody))
	}))
	defer ts.Close()

	logger := zerolog.Nop()
	c := NewHTTPClient(HTTPConfig{
		BaseURL:        ts.URL,
		APIKey:         "test-key",
		AttemptTimeout: 20 * time.Millisecond,
		MaxRetries:     1,
	}, &logger)

	match, ok := c.Lookup(context.Background(), "Broccoli", "")
	assert.False(t, ok)
	assert.Nil(t, match)
}

func TestLookupUnavailableWithoutKey(t *testing.T) {
	logger := zerolog.Nop()
	c := NewHTTPClient(HTTPConfig{BaseURL: "http://localhost:0"}, &logger)

	assert.False(t, c.IsAvailable())

	_, ok := c.Lookup(context.Background(), "Broccoli", "")
	assert.False(t, ok)
}
