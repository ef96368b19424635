package response

import "net/http"

// Kind classifies a request failure. The wire keeps the legacy
// {status:false, errorMessage} body; the kind picks the HTTP status and
// lets callers tell causes apart without string matching.
type Kind int

const (
	KindValidation Kind = iota
	KindUnauthorized
	KindNotFound
	KindConflict
	KindInternal
)

func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindInternal:
		return http.StatusInternalServerError
	default:
		// validation and conflict both surfaced as 400 in the legacy API
		return http.StatusBadRequest
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}
