package chat

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

const maxErrorBody = 512

// providerError classifies a failed provider call. Rate limits, timeouts
// and server errors are retryable; everything else is not.
func providerError(provider string, status int, body string, cause error) *core.DomainError {
	msg := fmt.Sprintf("%s request failed", provider)
	if status != 0 {
		msg = fmt.Sprintf("%s returned %d %s", provider, status, http.StatusText(status))
	}
	if body = strings.TrimSpace(body); body != "" {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody] + "..."
		}
		msg += ": " + body
	}

	err := core.ErrCollaborator(core.CodeProviderError, msg, cause).
		WithDetail("provider", provider)
	if status != 0 {
		err.WithDetail("status", status)
	}
	err.Retryable = isTransientStatus(status)
	return err
}

func isTransientStatus(status int) bool {
	return status == 0 ||
		status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= http.StatusInternalServerError
}
