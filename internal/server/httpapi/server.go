// Package httpapi exposes the account and media services over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mediakeeper/internal/logging"
	"github.com/dmitrijs2005/mediakeeper/internal/server/auth"
	"github.com/dmitrijs2005/mediakeeper/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address        string
	accounts       *services.AccountService
	media          *services.MediaService
	authenticator  *auth.Authenticator
	maxUploadBytes int64
	logger         logging.Logger
}

func NewHTTPServer(addr string, l logging.Logger, as *services.AccountService, ms *services.MediaService, authn *auth.Authenticator, maxUploadBytes int64) *HTTPServer {
	return &HTTPServer{
		address:        addr,
		accounts:       as,
		media:          ms,
		authenticator:  authn,
		maxUploadBytes: maxUploadBytes,
		logger:         l.With("module", "http_server"),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-stopped
	return nil
}
