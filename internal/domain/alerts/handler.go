package alerts

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, engine *Engine) {
	r.Get("/alerts", listAlertsHandler(engine))
}

type alertResponse struct {
	TriggeredBy string    `json:"triggered_by"`
	Severity    Severity  `json:"severity"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

// listAlertsHandler godoc
// @Summary Alertas actuales
// @Description Recalcula las alertas sobre la ventana reciente del store. No se persisten.
// @Tags alerts
// @Produce json
// @Success 200 {array} alertResponse
// @Router /alerts [get]
func listAlertsHandler(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := engine.Current(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}

		out := make([]alertResponse, 0, len(items))
		for _, a := range items {
			out = append(out, alertResponse{
				TriggeredBy: a.TriggeredBy,
				Severity:    a.Severity,
				Message:     a.Message,
				Timestamp:   a.Timestamp,
			})
		}
		writeJSON(w, http.StatusOK, out)
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
