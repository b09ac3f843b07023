// Package api serves the HTTP boundary of the analysis pipeline.
//
// # Routes
//
// POST /api/analyze: multipart upload with the video in field "file". The
// response is always an analysis.Result with status success, invalid or
// error; transport problems map to 400 (no file), 401 (bad token), 413
// (upload too large) and 503 (server at capacity and caller gave up).
//
// GET /api/health: liveness plus the strategy in effect.
//
// GET /api/status: executable availability, preflight checks and the state
// of the lazily initialized providers.
//
// # Design Notes
//
// Each upload runs on a context detached from the request so a client that
// disconnects cannot interrupt workspace cleanup. A semaphore bounds the
// number of analyses running at once. CORS is open because the original web
// client is served from a different origin.
package api
