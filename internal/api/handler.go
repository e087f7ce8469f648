// Package api exposes the on-demand pipeline trigger endpoint.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/fitstack/food-enrichment/internal/platform/observability"
	"github.com/fitstack/food-enrichment/internal/process/verification"
)

// BatchRunner runs one pipeline batch and always returns a structured
// report.
type BatchRunner interface {
	Run(ctx context.Context, batchSize, offset int) verification.BatchReport
}

// TriggerRequest is the optional POST body. All fields default to the
// worker's configuration when omitted.
type TriggerRequest struct {
	BatchSize int `json:"batch_size"`
	WorkerID  int `json:"worker_id"`
	Offset    int `json:"offset"`
}

// TriggerHandler handles POST requests that run a batch synchronously.
// It always answers HTTP 200 with a JSON report: an empty or malformed
// response at this boundary has caused real operational incidents, so
// every failure mode, including a panicking batch, degrades to a valid
// zero-processed body.
type TriggerHandler struct {
	runner BatchRunner
	logger *zerolog.Logger
}

func NewTriggerHandler(runner BatchRunner, logger *zerolog.Logger) *TriggerHandler {
	return &TriggerHandler{runner: runner, logger: logger}
}

func (h *TriggerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)

		return
	}

	var req TriggerRequest
	if r.Body != nil {
		// A missing or malformed body just means defaults.
		_ = json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
	}

	observability.BatchesTotal.WithLabelValues("http").Inc()

	report := h.runBatch(r.Context(), req)

	h.logger.Info().
		Int("worker_id", req.WorkerID).
		Int("processed", report.Processed).
		Int("successful", report.Successful).
		Int("failed", report.Failed).
		Int("remaining", report.Remaining).
		Msg("trigger batch finished")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.logger.Error().Err(err).Msg("encoding trigger response failed")
	}
}

func (h *TriggerHandler) runBatch(ctx context.Context, req TriggerRequest) (report verification.BatchReport) {
	defer func() {
		if rv := recover(); rv != nil {
			h.logger.Error().Interface("panic", rv).Msg("batch run panicked")

			report = verification.BatchReport{
				Success: false,
				Errors:  []string{"internal error: batch aborted"},
			}
		}
	}()

	return h.runner.Run(ctx, req.BatchSize, req.Offset)
}
