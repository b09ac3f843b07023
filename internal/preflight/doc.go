// Package preflight provides readiness checks for the executables, paths and
// hosted services the analysis pipeline depends on.
//
// The CLI "intellicoach status" command and the server's /api/status route
// both report CheckSystemDeps and RunAll; "serve" refuses to start when a
// required executable is missing.
package preflight
