package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrNotLoggedIn = errors.New("not logged in")
	ErrConflict    = errors.New("conflict")
)

// StatusError is a non-2xx reply. It unwraps to the matching common error.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server replied %d", e.Status)
	}
	return fmt.Sprintf("server replied %d: %s", e.Status, e.Message)
}

func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusForbidden:
		return common.ErrorForbidden
	case http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return common.ErrorValidation
	default:
		return common.ErrorInternal
	}
}
