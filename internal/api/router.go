package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"attendance.service/internal/api/handler"
	"attendance.service/internal/core"
)

// NewRouter sets up the gorilla/mux router and defines all API routes.
func NewRouter(ledger *core.LedgerService, reports *core.ReportService) *mux.Router {

	attendanceHandler := handler.AttendanceHandler{
		Ledger:  ledger,
		Reports: reports,
	}

	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/attendance", attendanceHandler.Submit).Methods(http.MethodPost)
	api.HandleFunc("/attendance", attendanceHandler.PurgeAll).Methods(http.MethodDelete)
	api.HandleFunc("/attendance/status", attendanceHandler.DayStatus).Methods(http.MethodGet)
	api.HandleFunc("/attendance/daily", attendanceHandler.DailyView).Methods(http.MethodGet)
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	return r
}
