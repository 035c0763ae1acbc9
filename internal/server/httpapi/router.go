package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler builds the route table.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID, s.accessLog, middleware.Recoverer, s.authenticate)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusOK, "ok")
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", s.listAccounts)
		r.Put("/", s.registerAccount)
		r.Post("/auth", s.login)
		r.Put("/auths/{id}", s.setRole)
		r.Get("/{id}", s.getAccount)
		r.Put("/{id}", s.updateAccount)
		r.Delete("/{id}", s.deleteAccount)
	})

	r.Route("/api/media", func(r chi.Router) {
		r.Get("/", s.listMedia)
		r.Put("/", s.createMedia)
		r.Delete("/", s.deleteMedia)
		r.Get("/byAuthor/{id}", s.listMediaByOwner)
		r.Get("/{id}", s.getMedia)
		r.Put("/{id}", s.updateMedia)
		r.Get("/{id}/verify", s.verifyMedia)
	})

	r.Get("/Resources/Media/{name}", s.downloadPayload)

	return r
}
