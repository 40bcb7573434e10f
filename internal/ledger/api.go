package ledger

import (
	"errors"
	"net/http"

	"dotflow/internal/domain"
)

// Error codes carried in error bodies.
const (
	CodeIdentityNotFound = "IDENTITY_NOT_FOUND"
	CodeRecordNotFound   = "RECORD_NOT_FOUND"
	CodeBadRequest       = "BAD_REQUEST"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeInternal         = "INTERNAL"
)

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrRateLimited is returned by the client on HTTP 429.
var ErrRateLimited = errors.New("vault gateway rate limit exceeded")

// statusFor maps a domain error to an HTTP status and code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrIdentityNotFound):
		return http.StatusNotFound, CodeIdentityNotFound
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, CodeRecordNotFound
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// errorFor maps an error code back to a domain sentinel.
func errorFor(code string) error {
	switch code {
	case CodeIdentityNotFound:
		return domain.ErrIdentityNotFound
	case CodeRecordNotFound:
		return domain.ErrRecordNotFound
	case CodeRateLimited:
		return ErrRateLimited
	default:
		return nil
	}
}
