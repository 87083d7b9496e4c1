package cameras

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/cameras", func(cr chi.Router) {
		cr.Post("/", upsertCameraHandler(svc))
		cr.Get("/", listCamerasHandler(svc))
		cr.Get("/{cameraID}", getCameraHandler(svc))
	})
}

type upsertCameraRequest struct {
	CameraID    string   `json:"camera_id"`
	Name        string   `json:"name"`
	Enabled     *bool    `json:"enabled"`       // omitido => true
	FrameRateHz *float64 `json:"frame_rate_hz"` // omitido => 3
}

type cameraResponse struct {
	CameraID         string    `json:"camera_id"`
	Name             string    `json:"name"`
	Enabled          bool      `json:"enabled"`
	FrameRateHz      float64   `json:"frame_rate_hz"`
	LastConfiguredAt time.Time `json:"last_configured_at"`
}

// upsertCameraHandler godoc
// @Summary Configurar cámara
// @Description Alta o reemplazo completo de la config de una cámara, keyed por camera_id. Campos omitidos toman defaults (enabled=true, frame_rate_hz=3).
// @Tags cameras
// @Accept json
// @Produce json
// @Param payload body upsertCameraRequest true "Config de la cámara"
// @Success 200 {object} cameraResponse
// @Failure 400 {object} errorResponse
// @Router /cameras [post]
func upsertCameraHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req upsertCameraRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "input", "invalid json")
			return
		}

		c, err := svc.Upsert(r.Context(), UpsertInput{
			CameraID:    req.CameraID,
			Name:        req.Name,
			Enabled:     req.Enabled,
			FrameRateHz: req.FrameRateHz,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, "input", "camera_id required, frame_rate_hz > 0")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}

		writeJSON(w, http.StatusOK, toCameraResponse(c))
	}
}

func listCamerasHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}

		out := make([]cameraResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCameraResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getCameraHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "cameraID"))

		c, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found", "camera not found")
			return
		}
		writeJSON(w, http.StatusOK, toCameraResponse(c))
	}
}

func toCameraResponse(c Config) cameraResponse {
	return cameraResponse{
		CameraID:         c.CameraID,
		Name:             c.Name,
		Enabled:          c.Enabled,
		FrameRateHz:      c.FrameRateHz,
		LastConfiguredAt: c.LastConfiguredAt,
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
