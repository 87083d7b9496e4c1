package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pawtrol-ai/internal/domain/cameras"
)

// camerasRepo serializa por cámara, no globalmente: cada entry tiene su
// propio lock para que el throttle de una cámara no frene a las demás.
type camerasRepo struct {
	mu   sync.RWMutex
	byID map[string]*cameraEntry
}

type cameraEntry struct {
	mu             sync.Mutex
	cfg            cameras.Config
	lastAcceptedAt time.Time
}

func NewCamerasRepo() cameras.Repository {
	return &camerasRepo{
		byID: make(map[string]*cameraEntry),
	}
}

func (r *camerasRepo) Upsert(ctx context.Context, c cameras.Config) error {
	if strings.TrimSpace(c.CameraID) == "" {
		return errors.New("camera id required")
	}

	r.mu.Lock()
	entry, exists := r.byID[c.CameraID]
	if !exists {
		entry = &cameraEntry{}
		r.byID[c.CameraID] = entry
	}
	r.mu.Unlock()

	// reemplazo completo de config; el estado de throttle se conserva
	entry.mu.Lock()
	entry.cfg = c
	entry.mu.Unlock()
	return nil
}

func (r *camerasRepo) GetByID(ctx context.Context, id string) (cameras.Config, error) {
	entry, err := r.entry(id)
	if err != nil {
		return cameras.Config{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.cfg, nil
}

func (r *camerasRepo) List(ctx context.Context) ([]cameras.Config, error) {
	r.mu.RLock()
	entries := make([]*cameraEntry, 0, len(r.byID))
	for _, e := range r.byID {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	out := make([]cameras.Config, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.cfg)
		e.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CameraID < out[j].CameraID
	})
	return out, nil
}

// TryAcceptFrame: check-and-set atómico por cámara. Dos frames
// concurrentes de la misma cámara no pueden pasar los dos.
func (r *camerasRepo) TryAcceptFrame(ctx context.Context, id string, now time.Time) error {
	entry, err := r.entry(id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !entry.cfg.Enabled {
		return cameras.ErrDisabled
	}

	if !entry.lastAcceptedAt.IsZero() && now.Sub(entry.lastAcceptedAt) < entry.cfg.MinInterval() {
		return cameras.ErrThrottled
	}

	entry.lastAcceptedAt = now
	return nil
}

func (r *camerasRepo) entry(id string) (*cameraEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return entry, nil
}
