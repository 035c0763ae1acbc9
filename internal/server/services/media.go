package services

import (
	"context"
	"io"
	"slices"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/logging"
	"github.com/dmitrijs2005/mediakeeper/internal/server/auth"
	"github.com/dmitrijs2005/mediakeeper/internal/server/models"
	"github.com/dmitrijs2005/mediakeeper/internal/server/repositories/media"
	"github.com/dmitrijs2005/mediakeeper/internal/server/repositories/repomanager"
)

// MediaUpload is a new media record plus its payload.
type MediaUpload struct {
	Name        string
	Description string
	ContentType string
	Data        []byte
}

// beforeMediaMutation is a test seam that runs after the caller is resolved
// and before the store applies an update or delete.
var beforeMediaMutation = func() {}

type MediaService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewMediaService(m repomanager.RepositoryManager, logger logging.Logger) *MediaService {
	return &MediaService{
		repomanager: m,
		log:         logger.With("module", "media_service"),
	}
}

func (s *MediaService) List(ctx context.Context) []models.Media {
	return s.repomanager.Media().All()
}

func (s *MediaService) Get(ctx context.Context, id uint64) (models.Media, error) {
	m, ok := s.repomanager.Media().FindByID(id)
	if !ok {
		return models.Media{}, common.ErrorNotFound
	}
	return m, nil
}

func (s *MediaService) ListByOwner(ctx context.Context, owner uint64) []models.Media {
	out := slices.Collect(s.repomanager.Media().FindByOwner(owner))
	if out == nil {
		out = []models.Media{}
	}
	return out
}

// Create stores an upload owned by the caller. The caller's account must
// still exist.
func (s *MediaService) Create(ctx context.Context, caller *auth.Identity, up MediaUpload) (models.Media, error) {
	caller, err := currentCaller(s.repomanager, caller)
	if err != nil {
		s.log.Warn(ctx, "upload from unknown account", "error", err)
		return models.Media{}, err
	}
	id, err := auth.RequireAuthenticated(caller)
	if err != nil {
		return models.Media{}, err
	}

	store := s.repomanager.Media()
	m, err := store.CreateWithPayload(ctx, models.Media{
		Owner:       id.ID,
		Name:        up.Name,
		Description: up.Description,
	}, up.Data, up.ContentType)
	if err != nil {
		return models.Media{}, err
	}
	if err := store.Flush(ctx); err != nil {
		return models.Media{}, err
	}

	s.log.Info(ctx, "media created", "id", m.ID, "owner", m.Owner, "size", m.Size)
	return m, nil
}

// ownerOrAdmin checks who against the owner of the record as stored when the
// store applies the change.
func ownerOrAdmin(who *auth.Identity) media.Guard {
	return func(stored models.Media) error {
		_, err := auth.RequireOwnerOrAdmin(who, stored.Owner)
		return err
	}
}

// Update edits metadata of record id. The owner check uses the stored owner.
// Moving a record to another owner is admin-only and the new owner must exist.
func (s *MediaService) Update(ctx context.Context, caller *auth.Identity, id uint64, patch models.MediaPatch) (models.Media, error) {
	who, err := currentCaller(s.repomanager, caller)
	if err != nil {
		return models.Media{}, err
	}

	beforeMediaMutation()

	store := s.repomanager.Media()
	m, err := store.UpdateMetadata(id, patch, ownerOrAdmin(who), func(stored models.Media) error {
		if patch.Owner == nil || *patch.Owner == stored.Owner {
			return nil
		}
		if !who.IsAdmin() {
			return common.ErrorForbidden
		}
		if _, ok := s.repomanager.Accounts().FindByID(*patch.Owner); !ok {
			return validationError("new owner does not exist")
		}
		return nil
	})
	if err != nil {
		return models.Media{}, err
	}
	if err := store.Flush(ctx); err != nil {
		return models.Media{}, err
	}
	return m, nil
}

// Delete removes record id and its payload. Owner or admin only.
func (s *MediaService) Delete(ctx context.Context, caller *auth.Identity, id uint64) (models.Media, error) {
	who, err := currentCaller(s.repomanager, caller)
	if err != nil {
		return models.Media{}, err
	}

	beforeMediaMutation()

	store := s.repomanager.Media()
	m, err := store.DeleteWithPayload(ctx, id, ownerOrAdmin(who))
	if err != nil {
		return models.Media{}, err
	}
	if err := store.Flush(ctx); err != nil {
		return models.Media{}, err
	}

	s.log.Info(ctx, "media deleted", "id", id, "by", who.ID)
	return m, nil
}

// Verify re-hashes the payload of record id. Admin only.
func (s *MediaService) Verify(ctx context.Context, caller *auth.Identity, id uint64) (bool, error) {
	who, err := currentCaller(s.repomanager, caller)
	if err != nil {
		return false, err
	}
	if _, err := auth.RequireRole(who, models.RoleAdmin); err != nil {
		return false, err
	}
	return s.repomanager.Media().VerifyPayload(ctx, id)
}

func (s *MediaService) OpenPayload(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.repomanager.Media().OpenPayload(ctx, name)
}
