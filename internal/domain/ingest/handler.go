package ingest

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pawtrol-ai/internal/domain/behavior"
	"pawtrol-ai/internal/domain/cameras"
	"pawtrol-ai/internal/ports/vision"
)

// maxUploadBytes limita el multipart de /upload (10MB).
const maxUploadBytes = 10 << 20

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/upload", uploadHandler(svc))
	r.Post("/stream", streamHandler(svc))
}

// uploadResponse conserva la forma que ya consume el frontend.
type uploadResponse struct {
	Success    bool      `json:"success"`
	EventID    string    `json:"event_id"`
	Behavior   string    `json:"behavior"`
	Duration   string    `json:"duration"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
	Details    string    `json:"details"`
	AnimalIDs  []string  `json:"animal_ids"`
}

type streamRequest struct {
	CameraID string `json:"camera_id"`
	Frame    string `json:"frame"` // base64
}

type streamResponse struct {
	Success bool   `json:"success"`
	EventID string `json:"event_id"`
	Result  string `json:"result"`
}

// uploadHandler godoc
// @Summary Analizar imagen subida
// @Description Manda la imagen al backend de visión, normaliza el resultado en un evento y lo guarda. animal_id (repetible) asocia el evento a animales registrados.
// @Tags ingest
// @Accept mpfd
// @Produce json
// @Param file formData file true "Imagen (JPG/PNG)"
// @Param animal_id formData string false "ID de animal a asociar (repetible)"
// @Success 200 {object} uploadResponse
// @Failure 400 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /upload [post]
func uploadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "input", "invalid multipart form")
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "input", "no file uploaded")
			return
		}
		defer file.Close()

		image, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "input", "could not read file")
			return
		}

		var animalIDs []string
		for _, id := range r.MultipartForm.Value["animal_id"] {
			if id = strings.TrimSpace(id); id != "" {
				animalIDs = append(animalIDs, id)
			}
		}

		e, err := svc.Upload(r.Context(), image, animalIDs)
		if err != nil {
			writeIngestError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, uploadResponse{
			Success:    true,
			EventID:    e.ID,
			Behavior:   e.Label,
			Duration:   e.DurationLabel,
			Confidence: e.Confidence,
			Timestamp:  e.Timestamp,
			Details:    e.RawDetails,
			AnimalIDs:  e.AnimalIDs,
		})
	}
}

// streamHandler godoc
// @Summary Analizar frame de stream
// @Description Ingesta de un frame base64 de una cámara registrada. El throttle por cámara (1/frame_rate_hz) puede rechazarlo con kind "throttled"; el caller debería descartar el frame.
// @Tags ingest
// @Accept json
// @Produce json
// @Param payload body streamRequest true "camera_id + frame base64"
// @Success 200 {object} streamResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 429 {object} errorResponse
// @Router /stream [post]
func streamHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req streamRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "input", "invalid json")
			return
		}
		if strings.TrimSpace(req.Frame) == "" {
			writeError(w, http.StatusBadRequest, "input", "no frame data")
			return
		}

		frame, err := base64.StdEncoding.DecodeString(req.Frame)
		if err != nil {
			writeError(w, http.StatusBadRequest, "input", "frame must be base64")
			return
		}

		e, err := svc.StreamFrame(r.Context(), req.CameraID, frame)
		if err != nil {
			writeIngestError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, streamResponse{
			Success: true,
			EventID: e.ID,
			Result:  e.RawDetails,
		})
	}
}

// writeIngestError mapea la taxonomía de la ingesta a kinds estables.
func writeIngestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, vision.ErrInput):
		writeError(w, http.StatusBadRequest, "input", err.Error())
	case errors.Is(err, vision.ErrBackend):
		writeError(w, http.StatusBadGateway, "backend", err.Error())
	case errors.Is(err, vision.ErrNetwork):
		writeError(w, http.StatusBadGateway, "network", err.Error())
	case errors.Is(err, cameras.ErrThrottled):
		writeError(w, http.StatusTooManyRequests, "throttled", "frame rejected by camera throttle")
	case errors.Is(err, cameras.ErrDisabled):
		writeError(w, http.StatusTooManyRequests, "camera_disabled", "camera is disabled")
	case errors.Is(err, cameras.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "input", "camera_id required")
	case errors.Is(err, ErrBusy):
		writeError(w, http.StatusServiceUnavailable, "busy", "too many analyses in flight, retry later")
	case errors.Is(err, behavior.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "input", err.Error())
	default:
		// repos devuelven not-found sin sentinel compartido; ver router
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			writeError(w, http.StatusNotFound, "not_found", "camera not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
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
