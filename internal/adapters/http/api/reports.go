package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	eventqueue "github.com/okian/plains/internal/adapters/mq/queue"
	service "github.com/okian/plains/internal/app"
	"github.com/okian/plains/internal/domain/model"
)

// ReportDependencies defines the asynchronous match-report intake.
type ReportDependencies interface {
	SubmitReport(ctx context.Context, r model.MatchReport) (model.MatchReport, service.SubmitOutcome, error)
}

// reportRequest mirrors the OpenAPI schema for POST /reports.
type reportRequest struct {
	ReportID string `json:"report_id"`
	WinnerID int    `json:"winner_id"`
	LoserID  int    `json:"loser_id"`
	TS       string `json:"ts"`
}

func (q reportRequest) toReport() (model.MatchReport, error) {
	r := model.MatchReport{
		ReportID: strings.TrimSpace(q.ReportID),
		WinnerID: q.WinnerID,
		LoserID:  q.LoserID,
	}
	if q.TS != "" {
		ts, err := time.Parse(time.RFC3339, q.TS)
		if err != nil {
			return r, errors.New("invalid ts; must be RFC3339")
		}
		r.TS = ts
	}
	return r, nil
}

type ackResponse struct {
	Status    string `json:"status"`
	ReportID  string `json:"report_id"`
	Duplicate bool   `json:"duplicate"`
}

// ReportsHandler handles match-report requests.
type ReportsHandler struct {
	deps ReportDependencies
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps ReportDependencies) *ReportsHandler {
	return &ReportsHandler{deps: deps}
}

// HandlePostReport handles POST /reports requests.
func (h *ReportsHandler) HandlePostReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_report"
	var req reportRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	report, err := req.toReport()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	report, outcome, err := h.deps.SubmitReport(r.Context(), report)
	switch {
	case errors.Is(err, service.ErrInvalidReport):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, eventqueue.ErrFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, eventqueue.ErrClosed), errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	case outcome == service.Duplicate:
		writeJSON(w, http.StatusOK, ackResponse{Status: string(outcome), ReportID: report.ReportID, Duplicate: true})
	default:
		writeJSON(w, http.StatusAccepted, ackResponse{Status: string(outcome), ReportID: report.ReportID})
	}
}
