package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/infrastructure/http/response"
	"github.com/rezkam/cadence/internal/recurrence"
)

// GetStats handles GET /v1/stats. The period defaults to day.
func (h *TaskHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = string(domain.StatsPeriodDay)
	}

	date, err := queryDate(r, "date")
	if err != nil {
		writeError(w, r, err)
		return
	}

	stats, err := h.todoService.GetStats(r.Context(), period, date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, MapStatsToDTO(stats))
}

// GetDailyTrend handles GET /v1/stats/trend.
func (h *TaskHandler) GetDailyTrend(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days")
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := queryDate(r, "date")
	if err != nil {
		writeError(w, r, err)
		return
	}

	trend, err := h.todoService.GetDailyTrend(r.Context(), days, date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, map[string]any{"days": MapTrendToDTO(trend)})
}

// CountTasks handles GET /v1/stats/count.
func (h *TaskHandler) CountTasks(w http.ResponseWriter, r *http.Request) {
	status, err := queryStatus(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	n, err := h.todoService.CountTasks(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, map[string]int{"count": n})
}

// ValidateRule handles POST /v1/recurrence/validate.
// An invalid rule is a successful request: the answer is {"valid": false}.
func (h *TaskHandler) ValidateRule(w http.ResponseWriter, r *http.Request) {
	var rule recurrence.Rule
	if err := decodeJSON(r, &rule); err != nil {
		writeError(w, r, err)
		return
	}

	err := h.todoService.ValidateRule(rule)
	if err == nil {
		response.OK(w, RuleValidationDTO{Valid: true})
		return
	}

	result := RuleValidationDTO{Valid: false, Error: err.Error()}
	var ruleErr *recurrence.RuleError
	if errors.As(err, &ruleErr) {
		result.Field = ruleErr.Field
		result.Error = ruleErr.Issue
	}
	response.OK(w, result)
}

// PreviewOccurrences handles POST /v1/recurrence/preview.
func (h *TaskHandler) PreviewOccurrences(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var from time.Time
	if req.From != nil {
		d, err := domain.NewDueDate(*req.From)
		if err != nil {
			writeError(w, r, err)
			return
		}
		from = d
	}

	dates, err := h.todoService.PreviewOccurrences(req.Rule, from, req.Limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, recurrence.FormatDate(d))
	}
	response.OK(w, map[string]any{"dates": out})
}
