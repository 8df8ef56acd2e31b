package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"github.com/rs/zerolog/log"
)

// Identity headers set by the session gateway in front of this service.
const (
	headerEmployeeID = "X-Employee-ID"
	headerAdmin      = "X-Employee-Admin"
)

type AttendanceHandler struct {
	Ledger  *core.LedgerService
	Reports *core.ReportService
}

// SubmitRequest is the payload a reporting device sends.
type SubmitRequest struct {
	Kind       model.EventKind `json:"kind"`
	Latitude   *float64        `json:"latitude"`
	Longitude  *float64        `json:"longitude"`
	ReportedAt string          `json:"reportedAt"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Submit records a check-in or check-out for the current identity.
func (h *AttendanceHandler) Submit(w http.ResponseWriter, r *http.Request) {
	requester, ok := requireIdentity(w, r, core.OpSubmit)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := h.Ledger.Submit(r.Context(), requester.EmployeeID, core.Submission{
		Kind:       req.Kind,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		ReportedAt: req.ReportedAt,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(event)
}

// DayStatus reports whether the current identity already recorded each kind today.
func (h *AttendanceHandler) DayStatus(w http.ResponseWriter, r *http.Request) {
	requester, ok := requireIdentity(w, r, core.OpDayStatus)
	if !ok {
		return
	}

	status, err := h.Ledger.DayStatus(r.Context(), requester.EmployeeID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// DailyView returns the per-date view: full roster partition for
// administrators, own events for everyone else.
func (h *AttendanceHandler) DailyView(w http.ResponseWriter, r *http.Request) {
	requester, ok := requireIdentity(w, r, core.OpDailyView)
	if !ok {
		return
	}

	var day *model.Date
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := model.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = &parsed
	}

	view, err := h.Reports.BuildDailyView(r.Context(), requester, day)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// PurgeAll clears the whole ledger. Administrator only.
func (h *AttendanceHandler) PurgeAll(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireIdentity(w, r, core.OpPurgeAll); !ok {
		return
	}

	if err := h.Ledger.PurgeAll(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Attendance ledger purged."})
}

// requireIdentity resolves the identity headers and evaluates the
// authorization predicate. Writes the response itself on failure.
func requireIdentity(w http.ResponseWriter, r *http.Request, op core.Operation) (model.Identity, bool) {
	requester := model.Identity{
		EmployeeID: r.Header.Get(headerEmployeeID),
		Admin:      r.Header.Get(headerAdmin) == "true",
	}

	if requester.EmployeeID == "" {
		writeError(w, http.StatusUnauthorized, "Missing identity")
		return model.Identity{}, false
	}
	if !core.IsAuthorized(requester, op) {
		writeError(w, http.StatusForbidden, core.ErrNotAuthorized.Error())
		return model.Identity{}, false
	}
	return requester, true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *core.ValidationError
	var duplicateErr *core.DuplicateSubmissionError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &duplicateErr):
		// Expected business outcome, not a fault.
		writeError(w, http.StatusConflict, duplicateErr.Error())
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg("Service error")
		writeError(w, http.StatusInternalServerError, "Service error processing request")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}
