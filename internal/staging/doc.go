// Package staging owns the per-invocation workspace directories that hold an
// uploaded video and its extracted audio.
//
// Each workspace lives under the configured staging root as a uuid-named
// directory and holds an exclusive flock on its .lock file until Release. The
// janitor (CleanStale) only removes directories whose lock it can take, so a
// long-running analysis is never pulled out from under itself.
package staging
