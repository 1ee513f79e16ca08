package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/learnlingo/learnlingo-api/internal/models"
	appErrors "github.com/learnlingo/learnlingo-api/pkg/errors"
)

type fakeDirectory struct {
	teachers     []models.Teacher
	fetchCalls   int
	lastPageSize int
}

func (f *fakeDirectory) FetchPage(ctx context.Context, cursor string, pageSize int) (models.TeacherPage, error) {
	f.lastPageSize = pageSize
	end := pageSize
	if end > len(f.teachers) {
		end = len(f.teachers)
	}
	return models.TeacherPage{Teachers: f.teachers[:end], HasMore: end < len(f.teachers)}, nil
}

func (f *fakeDirectory) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	for i := range f.teachers {
		if f.teachers[i].ID == id {
			return &f.teachers[i], nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) FetchAll(ctx context.Context) ([]models.Teacher, error) {
	f.fetchCalls++
	return f.teachers, nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	return nil
}

func sampleTeachers() []models.Teacher {
	return []models.Teacher{
		{ID: "t1", Name: "Anna", Languages: []string{"English"}, Levels: []string{"A1 Beginner"}, PricePerHour: 20},
		{ID: "t2", Name: "Boris", Languages: []string{"German"}, Levels: []string{"B2 Upper-Intermediate"}, PricePerHour: 35},
		{ID: "t3", Name: "Clara", Languages: []string{"English", "French"}, Levels: []string{"A1 Beginner"}, PricePerHour: 40},
	}
}

func TestTeacherServiceGet(t *testing.T) {
	svc := NewTeacherService(&fakeDirectory{teachers: sampleTeachers()}, nil, 4, time.Minute, zap.NewNop())

	teacher, err := svc.Get(context.Background(), "t2")
	require.NoError(t, err)
	assert.Equal(t, "Boris", teacher.Name)

	_, err = svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestTeacherServiceSearchConjunctiveFilter(t *testing.T) {
	svc := NewTeacherService(&fakeDirectory{teachers: sampleTeachers()}, nil, 4, time.Minute, zap.NewNop())

	maxPrice := 25.0
	results, err := svc.Search(context.Background(), models.TeacherFilter{
		Language: "English",
		Level:    "A1 Beginner",
		MaxPrice: &maxPrice,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "t1", results[0].ID)

	// Loosening the price admits the second English A1 teacher.
	maxPrice = 45.0
	results, err = svc.Search(context.Background(), models.TeacherFilter{
		Language: "English",
		Level:    "A1 Beginner",
		MaxPrice: &maxPrice,
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestTeacherServiceSearchUsesCache(t *testing.T) {
	dir := &fakeDirectory{teachers: sampleTeachers()}
	cacheSvc := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, zap.NewNop(), true)
	svc := NewTeacherService(dir, cacheSvc, 4, time.Minute, zap.NewNop())

	filter := models.TeacherFilter{Language: "English"}

	first, err := svc.Search(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.Equal(t, 1, dir.fetchCalls)

	second, err := svc.Search(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	// Served from cache, no second full scan.
	assert.Equal(t, 1, dir.fetchCalls)

	// A different filter is a different cache key.
	_, err = svc.Search(context.Background(), models.TeacherFilter{Language: "German"})
	require.NoError(t, err)
	assert.Equal(t, 2, dir.fetchCalls)
}

func TestTeacherServicePageDefaultsSize(t *testing.T) {
	dir := &fakeDirectory{teachers: sampleTeachers()}
	svc := NewTeacherService(dir, nil, 2, time.Minute, zap.NewNop())

	page, err := svc.Page(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, page.Teachers, 2)
	assert.True(t, page.HasMore)
}

func TestTeacherServicePageClampsOversizedLimit(t *testing.T) {
	dir := &fakeDirectory{teachers: sampleTeachers()}
	svc := NewTeacherService(dir, nil, 4, time.Minute, zap.NewNop())

	_, err := svc.Page(context.Background(), "", 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, dir.lastPageSize)
}

func TestSearchCacheKeyEscapesDelimiters(t *testing.T) {
	// A language value carrying the joiner characters must not collide
	// with a genuinely separate language+level filter.
	crafted := searchCacheKey(models.TeacherFilter{Language: "a|level=b"})
	honest := searchCacheKey(models.TeacherFilter{Language: "a", Level: "b"})
	assert.NotEqual(t, crafted, honest)
}
