package cameras

import "time"

const (
	DefaultFrameRateHz = 3.0
)

// Config es la configuración de una cámara. CameraID es la key estable:
// reconfigurar con el mismo id reemplaza el registro completo.
type Config struct {
	CameraID    string
	Name        string
	Enabled     bool
	FrameRateHz float64

	LastConfiguredAt time.Time
}

// MinInterval es el intervalo mínimo entre frames aceptados (1/frameRate).
func (c Config) MinInterval() time.Duration {
	rate := c.FrameRateHz
	if rate <= 0 {
		rate = DefaultFrameRateHz
	}
	return time.Duration(float64(time.Second) / rate)
}
