package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Outcome
	}{
		{"nil", nil, OutcomeOk},
		{"not found", ErrorNotFound, OutcomeNotFound},
		{"payload missing", ErrorPayloadMissing, OutcomeNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", ErrorNotFound), OutcomeNotFound},
		{"duplicate", ErrorDuplicateUsername, OutcomeConflict},
		{"last admin", ErrorLastAdmin, OutcomeConflict},
		{"unauthorized", ErrorUnauthorized, OutcomeUnauthorized},
		{"invalid token", ErrInvalidToken, OutcomeUnauthorized},
		{"expired token", ErrTokenExpired, OutcomeUnauthorized},
		{"forbidden", ErrorForbidden, OutcomeForbidden},
		{"payload type", ErrorInvalidPayloadType, OutcomeUnprocessable},
		{"validation", ErrorValidation, OutcomeUnprocessable},
		{"persistence", fmt.Errorf("%w: disk full", ErrorPersistence), OutcomeInternal},
		{"unknown", errors.New("boom"), OutcomeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutcomeOf(tt.err))
		})
	}
}

func TestOutcome_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, OutcomeOk.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, OutcomeNotFound.HTTPStatus())
	assert.Equal(t, http.StatusConflict, OutcomeConflict.HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, OutcomeUnauthorized.HTTPStatus())
	assert.Equal(t, http.StatusForbidden, OutcomeForbidden.HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, OutcomeUnprocessable.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, OutcomeInternal.HTTPStatus())
}

func TestExpiredTokenIsInvalidToken(t *testing.T) {
	assert.ErrorIs(t, ErrTokenExpired, ErrInvalidToken)
	assert.ErrorIs(t, ErrorPayloadMissing, ErrorNotFound)
}
