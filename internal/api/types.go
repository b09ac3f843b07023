package api

import (
	"intellicoach/internal/deps"
	"intellicoach/internal/preflight"
	"intellicoach/internal/services"
)

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Strategy string `json:"strategy"`
}

// ProviderState reports a lazily initialized provider.
type ProviderState struct {
	Name      string             `json:"name"`
	State     services.LazyState `json:"state"`
	LastError string             `json:"lastError,omitempty"`
}

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	Strategy     string             `json:"strategy"`
	InFlight     int                `json:"inFlight"`
	Capacity     int                `json:"capacity"`
	Dependencies []deps.Status      `json:"dependencies"`
	Checks       []preflight.Result `json:"checks"`
	Providers    []ProviderState    `json:"providers"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
