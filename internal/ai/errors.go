package ai

import "fmt"

// UpstreamError wraps a transport, auth or rate-limit failure from the
// completion model. It is never retried here; extraction callers see it
// directly, search callers swallow it into a degraded result.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream completion failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
