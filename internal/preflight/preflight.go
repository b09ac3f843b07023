package preflight

import (
	"context"

	"intellicoach/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name" yaml:"name"`
	Passed bool   `json:"passed" yaml:"passed"`
	Detail string `json:"detail" yaml:"detail"`
}

// RunAll executes the filesystem and credential checks for cfg. Network
// checks are left to CheckLLM so status calls stay cheap.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir),
		CheckTranscriptionCredentials(cfg),
		CheckLLMCredentials(cfg),
	}
	return results
}
