package behavior

// Source indica por qué camino entró el evento al sistema.
type Source string

const (
	SourceUpload Source = "upload"
	SourceStream Source = "stream"
	SourceManual Source = "manual"
)

func ParseSource(s string) (Source, bool) {
	switch Source(s) {
	case SourceUpload, SourceStream, SourceManual:
		return Source(s), true
	default:
		return "", false
	}
}

// Etiquetas de respaldo cuando el texto no trae comportamiento reconocible.
const (
	LabelUploadFallback = "AI analysis complete"
	LabelStreamFallback = "Live stream detection"
	LabelUnknown        = "unknown"
)

const (
	// DefaultConfidence se usa cuando el texto del backend no trae una
	// confianza parseable ("análisis completo" heurístico).
	DefaultConfidence = 0.9

	// SentinelConfidence marca confianza explícita pero no parseable.
	SentinelConfidence = 0.0

	// DurationNone es el valor del campo duración cuando no aplica.
	DurationNone = "N/A"
)
