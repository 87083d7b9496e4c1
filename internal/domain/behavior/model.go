package behavior

import "time"

// Event es un evento de comportamiento ya normalizado. Inmutable una vez
// insertado en el store: el repo entrega copias, nunca la representación
// interna.
type Event struct {
	ID string

	// Seq es el orden de inserción dentro del store; desempata eventos
	// con el mismo Timestamp. Lo asigna el repo en Append.
	Seq uint64

	// Timestamp lo asigna el repo en Append si viene en cero; es
	// monótono no-decreciente respecto al orden de inserción.
	Timestamp time.Time

	// AnimalIDs puede ser vacío si el análisis no identificó animales.
	AnimalIDs []string

	Label      string
	Confidence float64 // siempre en [0,1] después de Append

	DurationLabel string
	Source        Source

	// RawDetails conserva textual el resultado del backend. Es el
	// registro autoritativo: alerts/summaries pueden re-parsearlo con
	// mejor lógica sin perder información.
	RawDetails string
}
