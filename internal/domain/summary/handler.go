package summary

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, agg *Aggregator) {
	r.Get("/summary/daily", dailySummaryHandler(agg))
}

type dailySummaryResponse struct {
	Date       string         `json:"date"`
	Timestamp  time.Time      `json:"timestamp"`
	EventCount int            `json:"event_count"`
	PerAnimal  map[string]int `json:"per_animal_activity_counts"`
	PerLabel   map[string]int `json:"per_behavior_counts"`
	Content    string         `json:"content"`
}

// dailySummaryHandler godoc
// @Summary Resumen diario
// @Description Digest de los eventos de un día (UTC). Sin query param usa el día actual. Un día sin eventos devuelve event_count=0 y content vacío.
// @Tags summary
// @Produce json
// @Param date query string false "Día a resumir (YYYY-MM-DD)"
// @Success 200 {object} dailySummaryResponse
// @Failure 400 {object} errorResponse
// @Router /summary/daily [get]
func dailySummaryHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := agg.now()
		if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "input", "date must be YYYY-MM-DD")
				return
			}
			date = t
		}

		s, err := agg.Daily(r.Context(), date)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}

		writeJSON(w, http.StatusOK, dailySummaryResponse{
			Date:       s.Date.Format("2006-01-02"),
			Timestamp:  agg.now(),
			EventCount: s.EventCount,
			PerAnimal:  s.PerAnimal,
			PerLabel:   s.PerLabel,
			Content:    s.Narrative,
		})
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorResponse{Error: kind, Message: msg})
}
