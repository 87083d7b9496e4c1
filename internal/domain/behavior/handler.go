package behavior

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/behaviors", func(br chi.Router) {
		br.Get("/", listBehaviorsHandler(svc))
		br.Post("/", createManualHandler(svc))
	})
}

// eventResponse representa un evento de comportamiento devuelto por la API.
type eventResponse struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	AnimalIDs  []string  `json:"animal_ids"`
	Behavior   string    `json:"behavior"`
	Confidence float64   `json:"confidence"`
	Duration   string    `json:"duration"`
	Source     Source    `json:"source"`
	Details    string    `json:"details"`
}

type createManualRequest struct {
	AnimalIDs  []string `json:"animal_ids"`
	Behavior   string   `json:"behavior"`
	Confidence string   `json:"confidence"` // "0.8", "80%"; ilegible => 0.0
	Duration   string   `json:"duration"`
	Details    string   `json:"details"`
}

// listBehaviorsHandler godoc
// @Summary Listar eventos de comportamiento
// @Description Lista eventos del store ordenados por timestamp ascendente. Permite filtrar por source, animal y rango de fechas.
// @Tags behaviors
// @Produce json
// @Param source query string false "upload | stream | manual"
// @Param animal_id query string false "Solo eventos que referencian este animal"
// @Param from query string false "Timestamp mínimo (RFC3339)"
// @Param to query string false "Timestamp máximo (RFC3339)"
// @Param limit query int false "Máximo de eventos (1-500). Por defecto 100"
// @Success 200 {array} eventResponse
// @Failure 400 {object} errorResponse
// @Router /behaviors [get]
func listBehaviorsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseFilter(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "input", err.Error())
			return
		}

		items, err := svc.List(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createManualHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createManualRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "input", "invalid json")
			return
		}

		e, err := svc.AppendManual(r.Context(), ManualInput{
			AnimalIDs:  req.AnimalIDs,
			Label:      req.Behavior,
			Confidence: req.Confidence,
			Duration:   req.Duration,
			Details:    req.Details,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, "input", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(e))
	}
}

func parseFilter(r *http.Request) (Filter, error) {
	var f Filter

	if src := strings.TrimSpace(r.URL.Query().Get("source")); src != "" {
		parsed, ok := ParseSource(src)
		if !ok {
			return Filter{}, errors.New("source must be upload, stream or manual")
		}
		f.Source = parsed
	}

	f.AnimalID = strings.TrimSpace(r.URL.Query().Get("animal_id"))

	if from := strings.TrimSpace(r.URL.Query().Get("from")); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return Filter{}, errors.New("from must be RFC3339")
		}
		f.From = &t
	}
	if to := strings.TrimSpace(r.URL.Query().Get("to")); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return Filter{}, errors.New("to must be RFC3339")
		}
		f.To = &t
	}

	f.Limit = 100
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			return Filter{}, errors.New("limit must be 1-500")
		}
		f.Limit = n
	}

	return f, nil
}

func toEventResponse(e Event) eventResponse {
	ids := e.AnimalIDs
	if ids == nil {
		ids = []string{}
	}
	return eventResponse{
		ID:         e.ID,
		Timestamp:  e.Timestamp,
		AnimalIDs:  ids,
		Behavior:   e.Label,
		Confidence: e.Confidence,
		Duration:   e.DurationLabel,
		Source:     e.Source,
		Details:    e.RawDetails,
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Duplicado a propósito por módulo (ver nota en animals/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorResponse{Error: kind, Message: msg})
}
