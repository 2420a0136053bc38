package httpapi

import "context"

// Options tunes the router built by NewMux.
type Options struct {
	// BaseContext is canceled on shutdown; runs started over HTTP stop with it.
	BaseContext context.Context
	// CORSOrigins enables CORS for the listed origins. Empty disables CORS.
	CORSOrigins []string
	// Swagger mounts the API docs under /swagger/.
	Swagger bool
}

var (
	corsAllowedMethods = []string{"GET", "POST", "OPTIONS"}
	corsAllowedHeaders = []string{"Accept", "Content-Type", "X-Request-Id"}
)

// DefaultRunsLimit is used by GET /runs when no limit is given.
const DefaultRunsLimit = 20

// maxRunsLimit caps the limit query parameter.
const maxRunsLimit = 500
