package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/learnlingo/learnlingo-api/internal/models"
	appErrors "github.com/learnlingo/learnlingo-api/pkg/errors"
)

type teacherDirectory interface {
	FetchPage(ctx context.Context, cursor string, pageSize int) (models.TeacherPage, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	FetchAll(ctx context.Context) ([]models.Teacher, error)
}

// TeacherService orchestrates directory reads: cursor pages, point lookups
// and the full-scan filtered search.
type TeacherService struct {
	repo      teacherDirectory
	cache     *CacheService
	pageSize  int
	searchTTL time.Duration
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherDirectory, cache *CacheService, pageSize int, searchTTL time.Duration, logger *zap.Logger) *TeacherService {
	if pageSize <= 0 {
		pageSize = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, cache: cache, pageSize: pageSize, searchTTL: searchTTL, logger: logger}
}

// PageSize returns the configured page length.
func (s *TeacherService) PageSize() int {
	return s.pageSize
}

// MaxPageSize caps client-supplied page lengths so the paging endpoint
// cannot be turned into a full-table read.
const MaxPageSize = 100

// Page returns one key-ordered page of the directory.
func (s *TeacherService) Page(ctx context.Context, cursor string, pageSize int) (models.TeacherPage, error) {
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	page, err := s.repo.FetchPage(ctx, cursor, pageSize)
	if err != nil {
		return models.TeacherPage{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	return page, nil
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if teacher == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	return teacher, nil
}

// Search runs the full-scan filter path: the whole collection is read and the
// conjunctive predicate applied here, because the store offers no server-side
// filtering on nested array membership or numeric comparison. Results are
// cached briefly; cache trouble degrades to the direct path.
func (s *TeacherService) Search(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error) {
	key := searchCacheKey(filter)

	var cached []models.Teacher
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	teachers, err := s.repo.FetchAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search teachers")
	}

	matched := make([]models.Teacher, 0, len(teachers))
	for _, t := range teachers {
		if filter.Matches(t) {
			matched = append(matched, t)
		}
	}

	if err := s.cache.Set(ctx, key, matched, s.searchTTL); err != nil {
		s.logger.Warn("failed to cache search results", zap.Error(err))
	}
	return matched, nil
}

func searchCacheKey(filter models.TeacherFilter) string {
	maxPrice := ""
	if filter.MaxPrice != nil {
		maxPrice = fmt.Sprintf("%g", *filter.MaxPrice)
	}
	// Filter values are user input and may contain the delimiters, so each
	// component is escaped before joining.
	return fmt.Sprintf("teachers:search:lang=%s|level=%s|max=%s",
		url.QueryEscape(filter.Language), url.QueryEscape(filter.Level), maxPrice)
}
