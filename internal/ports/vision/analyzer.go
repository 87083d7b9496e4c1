package vision

import (
	"context"
	"errors"
)

// PromptVariant selecciona qué prompt se manda al backend y cuánta
// respuesta se le permite: el de upload pide análisis completo, el de
// stream solo una descripción breve de movimiento.
type PromptVariant string

const (
	VariantUpload PromptVariant = "upload"
	VariantStream PromptVariant = "stream"
)

// Errores estables que todo adapter de visión debe mapear.
// Los callers deciden con esto si reintentar o descartar.
var (
	ErrInput   = errors.New("vision: invalid input")
	ErrBackend = errors.New("vision: backend error")
	ErrNetwork = errors.New("vision: network error")
)

// Analyzer es la capacidad externa de interpretación visual.
// Se asume lenta y poco confiable; ver adapters/vision.
type Analyzer interface {
	// Analyze interpreta una imagen y devuelve texto libre.
	Analyze(ctx context.Context, image []byte, variant PromptVariant) (string, error)

	// Summarize reduce un conjunto de notas crudas a un resumen corto.
	// Lo usa el agregador diario; las notas ya vienen acotadas.
	Summarize(ctx context.Context, notes []string) (string, error)
}
