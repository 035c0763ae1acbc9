// Package payloads stores the binary content behind media records, one
// object per record, on the local filesystem or in an S3-compatible bucket.
package payloads

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/server/config"
)

// Store is a flat namespace of payload objects keyed by file name.
// Delete and Open report common.ErrorPayloadMissing for unknown names.
type Store interface {
	Put(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// New returns the backend selected by cfg.PayloadBackend.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.PayloadBackend {
	case config.BackendFS:
		return NewFileStore(cfg.MediaDir)
	case config.BackendS3:
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown payload backend %q", cfg.PayloadBackend)
	}
}

// validName rejects anything that could escape the payload namespace.
func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: invalid payload name %q", common.ErrorNotFound, name)
	}
	return nil
}
