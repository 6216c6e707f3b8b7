package media

import "errors"

var (
	// ErrProberUnavailable indicates the media prober is not configured.
	ErrProberUnavailable = errors.New("media prober unavailable")
)
