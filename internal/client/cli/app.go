package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/mediakeeper/internal/client/api"
	"github.com/dmitrijs2005/mediakeeper/internal/client/config"
)

// apiClient is the part of api.Client the commands use.
type apiClient interface {
	Register(ctx context.Context, username, password string) (api.Account, error)
	Login(ctx context.Context, username, password string) error
	Logout()
	Token() string
	WhoAmI() (api.Identity, error)
	ListMedia(ctx context.Context) ([]api.Media, error)
	Upload(ctx context.Context, path, name, description string) (api.Media, error)
	DeleteMedia(ctx context.Context, id uint64) error
	Ping(ctx context.Context) error
}

type App struct {
	config   *config.Config
	api      apiClient
	reader   *bufio.Reader
	out      io.Writer
	userName string
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    api.New(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func (a *App) isLoggedIn() bool {
	return a.api.Token() != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.userName)
}

// Run checks the server and starts the REPL on stdin.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to mediakeeper CLI (type 'help' for commands)")
	if err := a.api.Ping(ctx); err != nil {
		fmt.Fprintf(a.out, "Warning: %s\n", err)
	}
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}
