package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/server/models"
	"github.com/dmitrijs2005/mediakeeper/internal/server/services"
	"github.com/go-chi/chi/v5"
)

var errPayloadTooLarge = errors.New("payload too large")

func (s *HTTPServer) listMedia(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewMediaList(s.media.List(r.Context())))
}

func (s *HTTPServer) getMedia(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := s.media.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewMedia(m))
}

func (s *HTTPServer) listMediaByOwner(w http.ResponseWriter, r *http.Request) {
	owner, err := urlID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewMediaList(s.media.ListByOwner(r.Context(), owner)))
}

func (s *HTTPServer) createMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+formMemory)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: errPayloadTooLarge.Error()})
			return
		}
		s.writeError(w, r, errors.Join(common.ErrorValidation, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, errors.Join(common.ErrorValidation, fmt.Errorf("file: %w", err)))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes+1))
	if err != nil {
		s.writeError(w, r, errors.Join(common.ErrorValidation, err))
		return
	}
	if int64(len(data)) > s.maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: errPayloadTooLarge.Error()})
		return
	}

	m, err := s.media.Create(r.Context(), identityFrom(r.Context()), services.MediaUpload{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewMedia(m))
}

func (s *HTTPServer) updateMedia(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := parseForm(r, formMemory); err != nil {
		s.writeError(w, r, err)
		return
	}

	patch := models.MediaPatch{
		Name:        formField(r, "name"),
		Description: formField(r, "description"),
	}
	if author := formField(r, "author"); author != nil {
		owner, err := strconv.ParseUint(*author, 10, 64)
		if err != nil {
			s.writeError(w, r, errors.Join(common.ErrorValidation, errBadID))
			return
		}
		patch.Owner = &owner
	}

	m, err := s.media.Update(r.Context(), identityFrom(r.Context()), id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewMedia(m))
}

// deleteMedia takes the record id from the query string.
func (s *HTTPServer) deleteMedia(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.URL.Query().Get("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := s.media.Delete(r.Context(), identityFrom(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewMedia(m))
}

func (s *HTTPServer) verifyMedia(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok, err := s.media.Verify(r.Context(), identityFrom(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyView{ID: id, OK: ok})
}

func (s *HTTPServer) downloadPayload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rc, err := s.media.OpenPayload(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer rc.Close()

	ct := mime.TypeByExtension(path.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn(r.Context(), "payload copy interrupted", "name", name, "error", err)
	}
}
