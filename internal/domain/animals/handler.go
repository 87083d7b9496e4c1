package animals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Post("/", registerAnimalHandler(svc))
		ar.Get("/", listAnimalsHandler(svc))
		ar.Get("/{animalID}", getAnimalHandler(svc))
	})
}

type registerAnimalRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Age  int    `json:"age"`
}

// animalResponse usa las keys que espera el frontend (camelCase).
type animalResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Age          int    `json:"age"`
	LastActivity string `json:"lastActivity"`
}

// registerAnimalHandler godoc
// @Summary Registrar animal monitoreado
// @Description Da de alta un animal. LastActivity arranca en "not monitored yet" hasta que un evento lo referencie.
// @Tags animals
// @Accept json
// @Produce json
// @Param payload body registerAnimalRequest true "Datos del animal"
// @Success 201 {object} animalResponse
// @Failure 400 {object} errorResponse
// @Router /animals [post]
func registerAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "input", "invalid json")
			return
		}

		a, err := svc.Register(r.Context(), RegisterInput{
			Name: req.Name,
			Type: req.Type,
			Age:  req.Age,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, "input", "name and type are required, age >= 0")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "animalID"))

		a, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found", "animal not found")
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:           a.ID,
		Name:         a.Name,
		Type:         a.Type,
		Age:          a.Age,
		LastActivity: a.LastActivity,
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON/writeError se duplican a propósito en los handlers de cada
// módulo para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorResponse{Error: kind, Message: msg})
}
