package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/learnlingo/learnlingo-api/internal/models"
	"github.com/learnlingo/learnlingo-api/internal/repository"
	appErrors "github.com/learnlingo/learnlingo-api/pkg/errors"
)

// AnonymousScope is the shared favorites bucket for unauthenticated visitors.
const AnonymousScope = "anonymous"

type favoritesStore interface {
	IsFavorite(ctx context.Context, scope, teacherID string) (bool, error)
	Toggle(ctx context.Context, scope, teacherID string) (bool, error)
	List(ctx context.Context, scope string) ([]string, error)
	Subscribe(ctx context.Context, scope string) (<-chan repository.FavoriteChange, error)
}

type favoritesTeacherLookup interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// FavoritesService manages per-identity favorite teacher sets.
type FavoritesService struct {
	store    favoritesStore
	teachers favoritesTeacherLookup
	logger   *zap.Logger
}

// NewFavoritesService constructs a FavoritesService.
func NewFavoritesService(store favoritesStore, teachers favoritesTeacherLookup, logger *zap.Logger) *FavoritesService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FavoritesService{store: store, teachers: teachers, logger: logger}
}

// Toggle flips the favorite flag for a teacher and returns the new state.
// Toggling an id that does not resolve to a teacher is rejected so stale ids
// cannot accumulate in the set.
func (s *FavoritesService) Toggle(ctx context.Context, scope, teacherID string) (bool, error) {
	teacher, err := s.teachers.FindByID(ctx, teacherID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify teacher")
	}
	if teacher == nil {
		return false, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}

	favorite, err := s.store.Toggle(ctx, scope, teacherID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle favorite")
	}

	s.logger.Debug("favorite toggled",
		zap.String("scope", scope),
		zap.String("teacher_id", teacherID),
		zap.Bool("favorite", favorite))
	return favorite, nil
}

// IsFavorite reports whether the teacher is in the scope's favorites.
func (s *FavoritesService) IsFavorite(ctx context.Context, scope, teacherID string) (bool, error) {
	favorite, err := s.store.IsFavorite(ctx, scope, teacherID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check favorite")
	}
	return favorite, nil
}

// List resolves the scope's favorite ids into teacher records. Ids that no
// longer resolve are skipped rather than surfaced as errors.
func (s *FavoritesService) List(ctx context.Context, scope string) ([]models.Teacher, error) {
	ids, err := s.store.List(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list favorites")
	}

	teachers := make([]models.Teacher, 0, len(ids))
	for _, id := range ids {
		teacher, err := s.teachers.FindByID(ctx, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load favorite teacher")
		}
		if teacher == nil {
			s.logger.Debug("skipping stale favorite", zap.String("teacher_id", id))
			continue
		}
		teachers = append(teachers, *teacher)
	}
	return teachers, nil
}

// Watch streams favorite membership changes for the scope until ctx is done.
func (s *FavoritesService) Watch(ctx context.Context, scope string) (<-chan repository.FavoriteChange, error) {
	changes, err := s.store.Subscribe(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to subscribe to favorites")
	}
	return changes, nil
}
