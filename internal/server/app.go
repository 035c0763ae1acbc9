// Package server wires configuration, storage, services and the HTTP API
// together and runs them until the process is asked to stop.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/mediakeeper/internal/logging"
	"github.com/dmitrijs2005/mediakeeper/internal/server/auth"
	"github.com/dmitrijs2005/mediakeeper/internal/server/config"
	"github.com/dmitrijs2005/mediakeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/mediakeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mediakeeper/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	repomanager    repomanager.RepositoryManager
	accountService *services.AccountService
	mediaService   *services.MediaService
	authenticator  *auth.Authenticator
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	key := []byte(c.SigningKey)
	hasher := auth.NewCredentialHasher(key)

	rm, err := repomanager.Open(ctx, c, hasher, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	codec := auth.NewCodec(key, c.Issuer, c.Audience, c.TokenTTL)

	return &App{
		config:         c,
		logger:         logger,
		repomanager:    rm,
		accountService: services.NewAccountService(rm, hasher, codec, logger),
		mediaService:   services.NewMediaService(rm, logger),
		authenticator:  auth.NewAuthenticator(codec),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := httpapi.NewHTTPServer(app.config.ListenAddr, app.logger,
		app.accountService, app.mediaService, app.authenticator, app.config.MaxUploadBytes)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// flushes both stores.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.FlushAll(context.Background()); err != nil {
		app.logger.Error(ctx, "final flush failed", "error", err)
		if runErr == nil {
			runErr = err
		}
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
