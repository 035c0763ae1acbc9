package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/go-chi/chi/v5"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(s))
}

// writeError renders err with the status of its outcome. Server faults are
// logged and reported without detail.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	outcome := common.OutcomeOf(err)
	msg := err.Error()
	if outcome == common.OutcomeInternal {
		s.logger.Error(r.Context(), "request failed", "request_id", requestIDFrom(r.Context()), "error", err)
		msg = outcome.String()
	}
	writeJSON(w, outcome.HTTPStatus(), errorBody{Error: msg})
}

var errBadID = errors.New("id must be a positive integer")

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Join(common.ErrorValidation, errBadID)
	}
	return id, nil
}

func urlID(r *http.Request) (uint64, error) {
	return parseID(chi.URLParam(r, "id"))
}

// parseForm accepts both urlencoded and multipart bodies.
func parseForm(r *http.Request, maxMemory int64) error {
	err := r.ParseMultipartForm(maxMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return errors.Join(common.ErrorValidation, err)
	}
	return nil
}

// formField returns a pointer to the submitted value, or nil when the field
// was not sent at all.
func formField(r *http.Request, key string) *string {
	vs, ok := r.PostForm[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	v := vs[0]
	return &v
}
