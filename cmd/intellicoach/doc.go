// Package main hosts the intellicoach CLI.
//
// The Cobra command tree scores a local recording (analyze), runs the HTTP
// analysis backend (serve), reports dependency and credential health
// (status), and manages configuration and leftover staging workspaces. The
// heavy lifting lives in internal packages; commands here resolve
// configuration, build loggers, and render results.
package main
