// Package media is the media record store. Every record owns exactly one
// payload object named after the record; the store keeps the two in step.
package media

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/logging"
	"github.com/dmitrijs2005/mediakeeper/internal/server/models"
	"github.com/dmitrijs2005/mediakeeper/internal/server/repositories/collection"
	"github.com/dmitrijs2005/mediakeeper/internal/server/repositories/payloads"
	"golang.org/x/crypto/blake2b"
)

type Store struct {
	records  *collection.Store[models.Media]
	payloads payloads.Store
	log      logging.Logger
}

// Open loads the media file at path. A malformed file is an error.
func Open(path string, p payloads.Store, logger logging.Logger) (*Store, error) {
	records, err := collection.Open[models.Media](path)
	if err != nil {
		return nil, err
	}
	return New(records, p, logger), nil
}

func New(records *collection.Store[models.Media], p payloads.Store, logger logging.Logger) *Store {
	return &Store{
		records:  records,
		payloads: p,
		log:      logger.With("module", "media"),
	}
}

// Checksum is the hex blake2b-256 digest recorded for a payload.
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// CreateWithPayload validates contentType, then appends record with the
// payload written under the record's file name. The payload is written while
// the record is being appended; if the write fails nothing is appended.
func (s *Store) CreateWithPayload(ctx context.Context, record models.Media, payload []byte, contentType string) (models.Media, error) {
	mediaType, err := ParseContentType(contentType)
	if err != nil {
		return models.Media{}, err
	}

	record.Extension = ExtensionFor(mediaType)
	record.Size = int64(len(payload))
	record.Checksum = Checksum(payload)

	created, err := s.records.Append(record, func(_ []models.Media, candidate models.Media) error {
		if err := s.payloads.Put(ctx, candidate.FileName(), payload); err != nil {
			s.log.Error(ctx, "payload write failed", "name", candidate.FileName(), "error", err)
			return fmt.Errorf("%w: %w", common.ErrorPersistence, err)
		}
		return nil
	})
	if err != nil {
		return models.Media{}, err
	}

	s.log.Debug(ctx, "media created", "id", created.ID, "owner", created.Owner, "type", mediaType, "size", created.Size)
	return created, nil
}

// Guard inspects the stored record under the store's write lock before it
// is changed or removed. An error aborts the operation.
type Guard func(stored models.Media) error

func checkGuards(guards []Guard, m models.Media) error {
	for _, g := range guards {
		if err := g(m); err != nil {
			return err
		}
	}
	return nil
}

// UpdateMetadata changes name, description or owner. The payload, extension
// and checksum are never touched.
func (s *Store) UpdateMetadata(id uint64, patch models.MediaPatch, guards ...Guard) (models.Media, error) {
	return s.records.ReplaceByID(id, func(m models.Media) (models.Media, error) {
		if err := checkGuards(guards, m); err != nil {
			return models.Media{}, err
		}
		return patch.Apply(m), nil
	})
}

// DeleteWithPayload removes the payload and then the record. When a guard
// refuses or the payload cannot be removed (including when it is already
// gone) the record stays.
func (s *Store) DeleteWithPayload(ctx context.Context, id uint64, guards ...Guard) (models.Media, error) {
	return s.records.RemoveByID(id, func(_ []models.Media, m models.Media) error {
		if err := checkGuards(guards, m); err != nil {
			return err
		}
		err := s.payloads.Delete(ctx, m.FileName())
		switch {
		case err == nil:
			return nil
		case errors.Is(err, common.ErrorPayloadMissing):
			s.log.Warn(ctx, "payload missing, record kept", "id", m.ID, "name", m.FileName())
			return err
		default:
			s.log.Error(ctx, "payload delete failed", "id", m.ID, "name", m.FileName(), "error", err)
			return fmt.Errorf("%w: %w", common.ErrorPersistence, err)
		}
	})
}

func (s *Store) FindByID(id uint64) (models.Media, bool) {
	return s.records.FindByID(id)
}

func (s *Store) FindByOwner(owner uint64) iter.Seq[models.Media] {
	return s.records.FindAllWhere(func(m models.Media) bool { return m.Owner == owner })
}

func (s *Store) All() []models.Media {
	return s.records.All()
}

// OpenPayload streams a stored payload by file name.
func (s *Store) OpenPayload(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.payloads.Open(ctx, name)
}

// VerifyPayload re-reads the payload of record id and reports whether its
// digest still matches the stored checksum.
func (s *Store) VerifyPayload(ctx context.Context, id uint64) (bool, error) {
	m, ok := s.records.FindByID(id)
	if !ok {
		return false, common.ErrorNotFound
	}

	rc, err := s.payloads.Open(ctx, m.FileName())
	if err != nil {
		return false, err
	}
	defer rc.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return false, err
	}
	n, err := io.Copy(h, rc)
	if err != nil {
		return false, fmt.Errorf("read payload %s: %w", m.FileName(), err)
	}

	ok = n == m.Size && hex.EncodeToString(h.Sum(nil)) == m.Checksum
	if !ok {
		s.log.Warn(ctx, "payload checksum mismatch", "id", m.ID, "name", m.FileName())
	}
	return ok, nil
}

// Reconcile lists records whose payload is missing. With prune set those
// records are removed and the store is flushed.
func (s *Store) Reconcile(ctx context.Context, prune bool) ([]uint64, error) {
	var orphans []uint64
	for _, m := range s.records.All() {
		ok, err := s.payloads.Exists(ctx, m.FileName())
		if err != nil {
			return nil, fmt.Errorf("check payload %s: %w", m.FileName(), err)
		}
		if !ok {
			s.log.Warn(ctx, "media record without payload", "id", m.ID, "name", m.FileName())
			orphans = append(orphans, m.ID)
		}
	}

	if !prune || len(orphans) == 0 {
		return orphans, nil
	}

	for _, id := range orphans {
		if _, err := s.records.RemoveByID(id); err != nil && !errors.Is(err, common.ErrorNotFound) {
			return orphans, err
		}
	}
	s.log.Info(ctx, "pruned media records without payload", "count", len(orphans))
	return orphans, s.Flush(ctx)
}

// Flush writes the record list to disk. Failures are logged and returned.
func (s *Store) Flush(ctx context.Context) error {
	if err := s.records.Flush(ctx); err != nil {
		s.log.Error(ctx, "media flush failed", "path", s.records.Path(), "error", err)
		return err
	}
	return nil
}
