package internal

import (
	"context"
	"time"
)

// Response is a completed HTTP exchange. StatusCode is 0 when no response
// was received.
type Response struct {
	StatusCode int
	Body       []byte
}

// ProgressFunc receives transfer progress. total is -1 when the server did
// not announce a length.
type ProgressFunc func(downloaded, total int64)

// Transport performs GET requests. A zero timeout selects the transport's
// default. GetAsync returns immediately and calls finished exactly once on a
// goroutine owned by the transport.
type Transport interface {
	Get(ctx context.Context, url string, timeout time.Duration, progress ProgressFunc) (*Response, error)
	GetAsync(ctx context.Context, url string, timeout time.Duration, finished func(*Response, error), progress ProgressFunc)
}

// Extractor unpacks a zip archive held in memory into dest. The returned
// status is 0 on success and negative on failure. onEntry is called for each
// entry before it is written; a non-nil return aborts extraction.
type Extractor interface {
	Extract(data []byte, dest string, onEntry func(name string) error) (int, error)
}

// LevelsPathProvider resolves the directory holding custom levels
type LevelsPathProvider interface {
	CustomLevelsPath() string
}

// NameSanitizer turns untrusted text into a valid file name
type NameSanitizer interface {
	SanitizeName(name string) string
}
