package media

import "context"

// Probe captures the media attributes read from an uploaded file.
type Probe struct {
	DurationSeconds float64
}

// Prober inspects an uploaded media file on local disk.
type Prober interface {
	Inspect(ctx context.Context, path string) (Probe, error)
}
