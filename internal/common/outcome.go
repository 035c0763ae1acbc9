package common

import (
	"errors"
	"net/http"
)

// Outcome is the client-visible classification of an operation result.
type Outcome int

const (
	OutcomeOk Outcome = iota
	OutcomeNotFound
	OutcomeConflict
	OutcomeUnauthorized
	OutcomeForbidden
	OutcomeUnprocessable
	OutcomeInternal
)

var outcomeNames = map[Outcome]string{
	OutcomeOk:            "ok",
	OutcomeNotFound:      "not found",
	OutcomeConflict:      "conflict",
	OutcomeUnauthorized:  "unauthorized",
	OutcomeForbidden:     "forbidden",
	OutcomeUnprocessable: "unprocessable",
	OutcomeInternal:      "internal error",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "unknown"
}

// OutcomeOf maps an error returned by a service or store onto an Outcome.
// Unknown errors are treated as server faults.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOk
	case errors.Is(err, ErrorNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrorDuplicateUsername), errors.Is(err, ErrorLastAdmin):
		return OutcomeConflict
	case errors.Is(err, ErrorUnauthorized), errors.Is(err, ErrInvalidToken):
		return OutcomeUnauthorized
	case errors.Is(err, ErrorForbidden):
		return OutcomeForbidden
	case errors.Is(err, ErrorInvalidPayloadType), errors.Is(err, ErrorValidation):
		return OutcomeUnprocessable
	default:
		return OutcomeInternal
	}
}

// HTTPStatus returns the status code used to report the outcome over HTTP.
func (o Outcome) HTTPStatus() int {
	switch o {
	case OutcomeOk:
		return http.StatusOK
	case OutcomeNotFound:
		return http.StatusNotFound
	case OutcomeConflict:
		return http.StatusConflict
	case OutcomeUnauthorized:
		return http.StatusUnauthorized
	case OutcomeForbidden:
		return http.StatusForbidden
	case OutcomeUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
