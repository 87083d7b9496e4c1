package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"pawtrol-ai/internal/domain/animals"
	"pawtrol-ai/internal/domain/behavior"
	"pawtrol-ai/internal/domain/cameras"
	"pawtrol-ai/internal/platform/logger"
	"pawtrol-ai/internal/ports/vision"
)

const DefaultMaxConcurrent = 4

// ErrBusy es el error de back-pressure cuando ya hay demasiados
// análisis en vuelo: se descarta en vez de encolar indefinidamente.
var ErrBusy = errors.New("analysis capacity exhausted")

// Service orquesta la ingesta: throttle (solo stream) -> análisis de
// visión -> normalización -> append al store -> lastActivity del animal.
// La llamada de visión es el paso lento y nunca se hace con locks de
// store/registry tomados; el semáforo acota cuántas van en paralelo.
type Service struct {
	analyzer vision.Analyzer
	events   *behavior.Service
	animals  *animals.Service
	cameras  *cameras.Service
	sem      *semaphore.Weighted
	log      logger.Logger
}

func NewService(
	analyzer vision.Analyzer,
	events *behavior.Service,
	animalsSvc *animals.Service,
	camerasSvc *cameras.Service,
	maxConcurrent int,
	log logger.Logger,
) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Service{
		analyzer: analyzer,
		events:   events,
		animals:  animalsSvc,
		cameras:  camerasSvc,
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
		log:      log,
	}
}

// Upload procesa una imagen subida por el usuario. animalIDs es opcional:
// asocia el evento resultante a esos animales.
func (s *Service) Upload(ctx context.Context, image []byte, animalIDs []string) (behavior.Event, error) {
	if len(image) == 0 {
		return behavior.Event{}, fmt.Errorf("%w: empty image", vision.ErrInput)
	}

	raw, err := s.analyze(ctx, image, vision.VariantUpload)
	if err != nil {
		// sin evento fabricado: la falla se devuelve entera
		return behavior.Event{}, err
	}

	e := behavior.Normalize(raw, behavior.SourceUpload)
	e.AnimalIDs = animalIDs

	stored, err := s.events.Append(ctx, e)
	if err != nil {
		return behavior.Event{}, err
	}

	s.touchAnimals(ctx, stored)
	return stored, nil
}

// StreamFrame procesa un frame del stream de una cámara. El throttle de
// la cámara decide primero; un frame rechazado no llega al backend.
func (s *Service) StreamFrame(ctx context.Context, cameraID string, frame []byte) (behavior.Event, error) {
	if len(frame) == 0 {
		return behavior.Event{}, fmt.Errorf("%w: empty frame", vision.ErrInput)
	}

	if err := s.cameras.ShouldAcceptFrame(ctx, cameraID); err != nil {
		return behavior.Event{}, err
	}

	raw, err := s.analyze(ctx, frame, vision.VariantStream)
	if err != nil {
		return behavior.Event{}, err
	}

	e := behavior.Normalize(raw, behavior.SourceStream)

	stored, err := s.events.Append(ctx, e)
	if err != nil {
		return behavior.Event{}, err
	}

	s.touchAnimals(ctx, stored)
	return stored, nil
}

func (s *Service) analyze(ctx context.Context, image []byte, variant vision.PromptVariant) (string, error) {
	if !s.sem.TryAcquire(1) {
		return "", ErrBusy
	}
	defer s.sem.Release(1)

	start := time.Now()
	raw, err := s.analyzer.Analyze(ctx, image, variant)
	if err != nil {
		s.log.Warn("vision analysis failed", map[string]any{
			"variant": string(variant),
			"error":   err.Error(),
		})
		return "", err
	}

	s.log.Debug("vision analysis done", map[string]any{
		"variant":    string(variant),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return raw, nil
}

// touchAnimals actualiza lastActivity de los animales referenciados.
// Best-effort: un id desconocido no tumba la ingesta, solo se loguea.
func (s *Service) touchAnimals(ctx context.Context, e behavior.Event) {
	for _, id := range e.AnimalIDs {
		if err := s.animals.TouchActivity(ctx, id, e.Label); err != nil {
			s.log.Warn("last activity update failed", map[string]any{
				"animal_id": id,
				"event_id":  e.ID,
				"error":     err.Error(),
			})
		}
	}
}
