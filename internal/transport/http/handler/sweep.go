package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/kanzleiworks/fristen-api/internal/application/sweep"
	snsinfra "github.com/kanzleiworks/fristen-api/internal/infrastructure/sns"
	"github.com/kanzleiworks/fristen-api/internal/pkg/clock"
	"github.com/kanzleiworks/fristen-api/internal/pkg/validate"
)

// SweepRequest is the optional trigger body. as_of replays the sweep as if
// today were the given date, e.g. after restoring from a backup.
type SweepRequest struct {
	AsOf string `json:"as_of" validate:"omitempty,datetime=2006-01-02"`
}

type reportStore interface {
	PutSweepReport(ctx context.Context, sweepDate time.Time, report interface{}) (string, error)
}

// RunnerFactory builds a sweep runner against the given clock. The trigger
// uses it to pin "today" for as_of replays.
type RunnerFactory func(clk clock.Clock) sweep.Runner

// SweepHandler exposes the engine's single entry point over HTTP. The mutex
// supplies the at-most-one-sweep-in-flight guarantee the deduplication
// gate's read-then-write pattern depends on.
type SweepHandler struct {
	newRunner RunnerFactory
	clock     clock.Clock
	loc       *time.Location
	reports   reportStore             // nil disables report archiving
	events    snsinfra.EventPublisher // nil disables event publishing
	mu        sync.Mutex
}

func NewSweepHandler(newRunner RunnerFactory, clk clock.Clock, loc *time.Location, reports reportStore, events snsinfra.EventPublisher) *SweepHandler {
	return &SweepHandler{newRunner: newRunner, clock: clk, loc: loc, reports: reports, events: events}
}

type sweepReport struct {
	SweepDate      string        `json:"sweep_date"`
	AsOfOverride   string        `json:"as_of_override,omitempty"`
	TriggeredAt    time.Time     `json:"triggered_at"`
	DurationMillis int64         `json:"duration_ms"`
	Result         *sweep.Result `json:"result"`
}

// Trigger runs one sweep. Returns 409 when a sweep is already in flight; a
// second daily invocation is otherwise harmless because of deduplication.
func (h *SweepHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	clk := h.clock
	if req.AsOf != "" {
		asOf, err := time.ParseInLocation("2006-01-02", req.AsOf, h.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "as_of must be a YYYY-MM-DD date")
			return
		}
		clk = clock.Fixed(asOf)
	}

	if !h.mu.TryLock() {
		writeError(w, http.StatusConflict, "a sweep is already running")
		return
	}
	defer h.mu.Unlock()

	started := h.clock.Now()
	result, err := h.newRunner(clk).Run(r.Context())
	if err != nil {
		slog.Error("sweep failed", "err", err)
		writeError(w, http.StatusInternalServerError, "sweep failed")
		return
	}
	duration := h.clock.Now().Sub(started)

	sweepDate := clk.Now().In(h.loc)
	report := sweepReport{
		SweepDate:      sweepDate.Format("2006-01-02"),
		AsOfOverride:   req.AsOf,
		TriggeredAt:    started.UTC(),
		DurationMillis: duration.Milliseconds(),
		Result:         result,
	}

	var reportURL string
	if h.reports != nil {
		url, err := h.reports.PutSweepReport(r.Context(), sweepDate, report)
		if err != nil {
			slog.Warn("could not archive sweep report", "err", err)
		} else {
			reportURL = url
		}
	}
	if h.events != nil {
		event := snsinfra.SweepCompletedEvent{
			SweepDate:            report.SweepDate,
			ExpiredSubstitutions: result.ExpiredSubstitutions,
			RemindersSent:        result.RemindersSent,
			EscalationsSent:      result.EscalationsSent,
			FailedDeadlines:      result.FailedDeadlines,
			DurationMillis:       report.DurationMillis,
		}
		if err := h.events.PublishSweepCompleted(r.Context(), event); err != nil {
			slog.Warn("could not publish sweep-completed event", "err", err)
		}
	}

	writeJSON(w, http.StatusOK, SweepEnvelope{Result: result, ReportURL: reportURL})
}
