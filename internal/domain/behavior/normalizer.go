package behavior

import (
	"regexp"
	"strconv"
	"strings"
)

// El backend de visión responde texto libre, así que la extracción es
// best-effort: si hay un patrón reconocible se usa, si no se cae a los
// defaults documentados. RawDetails siempre queda completo, así que no
// se pierde nada por extraer poco.

var (
	// "confidence: 0.85", "Confidence level - 85%", "confidence 0.9"
	reConfidenceAfter = regexp.MustCompile(`(?i)confidence[^0-9]{0,16}([0-9]+(?:\.[0-9]+)?)\s*(%?)`)

	// "85% confidence", "0.85 confidence"
	reConfidenceBefore = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*(%?)\s*confidence`)

	reLabel = regexp.MustCompile(`(?i)\b(sitting|walking|running|eating|sleeping|playing)\b`)
)

// Normalize convierte el texto crudo del backend en un Event canónico.
// No asigna id/seq/timestamp: eso es trabajo del store en Append.
func Normalize(raw string, source Source) Event {
	label, okLabel := extractLabel(raw)
	if !okLabel {
		if source == SourceStream {
			label = LabelStreamFallback
		} else {
			label = LabelUploadFallback
		}
	}

	conf, okConf := extractConfidence(raw)
	if !okConf {
		conf = DefaultConfidence
	}

	return Event{
		Label:         label,
		Confidence:    clamp01(conf),
		DurationLabel: DurationNone,
		Source:        source,
		RawDetails:    raw,
	}
}

// ParseConfidence interpreta una confianza explícita (camino manual).
// Texto no parseable degrada al sentinel 0.0, nunca falla.
func ParseConfidence(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return SentinelConfidence
	}

	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return SentinelConfidence
	}
	if percent || v > 1 {
		v = v / 100
	}
	return clamp01(v)
}

func extractConfidence(raw string) (float64, bool) {
	m := reConfidenceAfter.FindStringSubmatch(raw)
	if m == nil {
		m = reConfidenceBefore.FindStringSubmatch(raw)
	}
	if m == nil {
		return 0, false
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if m[2] == "%" || v > 1 {
		v = v / 100
	}
	return clamp01(v), true
}

func extractLabel(raw string) (string, bool) {
	m := reLabel.FindString(raw)
	if m == "" {
		return "", false
	}
	return strings.ToLower(m), true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
