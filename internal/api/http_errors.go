package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error    string                 `json:"error"`
	Category string                 `json:"category,omitempty"`
	Code     string                 `json:"code,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

func httpStatusForDomainError(err error) (int, bool) {
	var domErr *core.DomainError
	if !errors.As(err, &domErr) || domErr == nil {
		return 0, false
	}

	switch domErr.Category {
	case core.ErrCatConfig, core.ErrCatValidation:
		return http.StatusUnprocessableEntity, true
	case core.ErrCatNotImplemented:
		return http.StatusNotImplemented, true
	case core.ErrCatCollaborator:
		return http.StatusBadGateway, true
	default:
		return http.StatusInternalServerError, true
	}
}

// contextStatus maps a deadline or cancellation anywhere in err's chain.
func contextStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, true
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, true
	}
	return 0, false
}

// respondDomainError writes err with the status its category maps to. A
// deadline or cancellation wins over the category.
func respondDomainError(w http.ResponseWriter, err error) {
	status, isDomain := httpStatusForDomainError(err)
	if s, ok := contextStatus(err); ok {
		status = s
	}

	if isDomain {
		var domErr *core.DomainError
		errors.As(err, &domErr)
		respondJSON(w, status, errorResponse{
			Error:    err.Error(),
			Category: string(domErr.Category),
			Code:     domErr.Code,
			Details:  domErr.Details,
		})
		return
	}
	if status == 0 {
		status = http.StatusInternalServerError
	}
	respondError(w, status, err.Error())
}
