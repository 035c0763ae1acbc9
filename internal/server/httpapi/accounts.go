package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/server/models"
	"github.com/dmitrijs2005/mediakeeper/internal/server/services"
)

const formMemory = 64 << 10

func (s *HTTPServer) listAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewAccounts(s.accounts.List(r.Context())))
}

func (s *HTTPServer) getAccount(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	acc, err := s.accounts.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewAccount(acc))
}

func (s *HTTPServer) registerAccount(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r, formMemory); err != nil {
		s.writeError(w, r, err)
		return
	}
	acc, err := s.accounts.Register(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewAccount(acc))
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r, formMemory); err != nil {
		s.writeError(w, r, err)
		return
	}
	token, err := s.accounts.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, token)
}

func (s *HTTPServer) updateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := parseForm(r, formMemory); err != nil {
		s.writeError(w, r, err)
		return
	}

	acc, err := s.accounts.Update(r.Context(), identityFrom(r.Context()), id, services.AccountUpdate{
		Username: formField(r, "username"),
		Password: formField(r, "password"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewAccount(acc))
}

func (s *HTTPServer) setRole(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := parseForm(r, formMemory); err != nil {
		s.writeError(w, r, err)
		return
	}

	admin, err := strconv.ParseBool(r.PostFormValue("admin"))
	if err != nil {
		s.writeError(w, r, errors.Join(common.ErrorValidation, errors.New("admin must be true or false")))
		return
	}
	role := models.RoleClient
	if admin {
		role = models.RoleAdmin
	}

	acc, err := s.accounts.SetRole(r.Context(), identityFrom(r.Context()), id, role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewAccount(acc))
}

func (s *HTTPServer) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	acc, err := s.accounts.Delete(r.Context(), identityFrom(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewAccount(acc))
}
