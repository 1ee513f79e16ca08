package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/learnlingo/learnlingo-api/internal/models"
	appErrors "github.com/learnlingo/learnlingo-api/pkg/errors"
)

// ListingStatus is the lifecycle state of a listing session.
type ListingStatus string

const (
	ListingIdle    ListingStatus = "idle"
	ListingLoading ListingStatus = "loading"
	ListingError   ListingStatus = "error"
)

type pageFetcher interface {
	FetchPage(ctx context.Context, cursor string, pageSize int) (models.TeacherPage, error)
}

type teacherSearcher interface {
	Search(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error)
}

// ListingSnapshot is the externally visible state of a session.
type ListingSnapshot struct {
	ID       string               `json:"id"`
	Teachers []models.Teacher     `json:"teachers"`
	Status   ListingStatus        `json:"status"`
	HasMore  bool                 `json:"has_more"`
	Cursor   string               `json:"cursor,omitempty"`
	Filter   models.TeacherFilter `json:"filter"`
	Error    string               `json:"error,omitempty"`
}

// ListingSession accumulates directory pages for one client. It is the
// server-side twin of the UI's listing state: an accumulated result list, a
// loading/error status, the continuation cursor and the active filter.
//
// Overlapping LoadMore calls collapse to a single fetch: the loading status
// is claimed under the mutex before the read is issued, so a second caller
// observes it and backs off. A generation counter invalidates in-flight reads
// whenever the filter changes, so a slow response can never leak records into
// state that was reset while it was on the wire.
type ListingSession struct {
	mu sync.Mutex

	id        string
	directory pageFetcher
	searcher  teacherSearcher
	pageSize  int

	teachers   []models.Teacher
	status     ListingStatus
	hasMore    bool
	cursor     string
	filter     models.TeacherFilter
	generation uint64
	lastErr    string
	touchedAt  time.Time
}

func newListingSession(directory pageFetcher, searcher teacherSearcher, pageSize int) *ListingSession {
	return &ListingSession{
		id:        uuid.NewString(),
		directory: directory,
		searcher:  searcher,
		pageSize:  pageSize,
		status:    ListingIdle,
		hasMore:   true,
		touchedAt: time.Now(),
	}
}

// ID returns the session identifier.
func (s *ListingSession) ID() string {
	return s.id
}

// Snapshot returns a copy of the current state.
func (s *ListingSession) Snapshot() ListingSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *ListingSession) snapshotLocked() ListingSnapshot {
	teachers := make([]models.Teacher, len(s.teachers))
	copy(teachers, s.teachers)
	return ListingSnapshot{
		ID:       s.id,
		Teachers: teachers,
		Status:   s.status,
		HasMore:  s.hasMore,
		Cursor:   s.cursor,
		Filter:   s.filter,
		Error:    s.lastErr,
	}
}

// LoadMore fetches the next page (or, with an active filter, re-runs the
// full-scan search). Calls while a fetch is in flight or after the directory
// is exhausted are no-ops returning the current state.
func (s *ListingSession) LoadMore(ctx context.Context) ListingSnapshot {
	s.mu.Lock()
	s.touchedAt = time.Now()
	if s.status == ListingLoading || !s.hasMore {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	// Claim the loading slot before the fetch goes out, not after it lands.
	s.status = ListingLoading
	gen := s.generation
	cursor := s.cursor
	filter := s.filter
	s.mu.Unlock()

	if filter.Empty() {
		page, err := s.directory.FetchPage(ctx, cursor, s.pageSize)
		return s.applyPage(gen, page, err)
	}

	teachers, err := s.searcher.Search(ctx, filter)
	return s.applySearch(gen, teachers, err)
}

// SetFilter replaces the active filter and resets accumulated state. A
// non-empty filter runs the full-scan path immediately; an empty one resumes
// normal paging from the first page.
func (s *ListingSession) SetFilter(ctx context.Context, filter models.TeacherFilter) ListingSnapshot {
	s.mu.Lock()
	s.touchedAt = time.Now()
	s.generation++
	s.filter = filter
	s.teachers = nil
	s.cursor = ""
	s.lastErr = ""
	s.hasMore = true
	if filter.Empty() {
		s.status = ListingIdle
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.status = ListingLoading
	gen := s.generation
	s.mu.Unlock()

	teachers, err := s.searcher.Search(ctx, filter)
	return s.applySearch(gen, teachers, err)
}

func (s *ListingSession) applyPage(gen uint64, page models.TeacherPage, err error) ListingSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		// The filter changed while this page was in flight; drop it.
		return s.snapshotLocked()
	}
	if err != nil {
		s.status = ListingError
		s.lastErr = "failed to load teachers"
		return s.snapshotLocked()
	}
	s.teachers = append(s.teachers, page.Teachers...)
	if page.NextCursor != "" {
		s.cursor = page.NextCursor
	}
	s.hasMore = page.HasMore
	s.status = ListingIdle
	s.lastErr = ""
	return s.snapshotLocked()
}

func (s *ListingSession) applySearch(gen uint64, teachers []models.Teacher, err error) ListingSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return s.snapshotLocked()
	}
	if err != nil {
		// Keep hasMore so a retry can re-run the scan.
		s.status = ListingError
		s.lastErr = "failed to search teachers"
		return s.snapshotLocked()
	}
	s.teachers = teachers
	s.hasMore = false
	s.status = ListingIdle
	s.lastErr = ""
	return s.snapshotLocked()
}

func (s *ListingSession) touched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

// ListingService owns the live listing sessions.
type ListingService struct {
	mu       sync.Mutex
	sessions map[string]*ListingSession

	directory pageFetcher
	searcher  teacherSearcher
	pageSize  int
	ttl       time.Duration
	logger    *zap.Logger
}

// NewListingService constructs a ListingService.
func NewListingService(directory pageFetcher, searcher teacherSearcher, pageSize int, ttl time.Duration, logger *zap.Logger) *ListingService {
	if pageSize <= 0 {
		pageSize = 4
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{
		sessions:  make(map[string]*ListingSession),
		directory: directory,
		searcher:  searcher,
		pageSize:  pageSize,
		ttl:       ttl,
		logger:    logger,
	}
}

// Create registers a fresh session and returns its initial snapshot.
func (s *ListingService) Create() ListingSnapshot {
	session := newListingSession(s.directory, s.searcher, s.pageSize)
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	return session.Snapshot()
}

// Get returns the snapshot for a session.
func (s *ListingService) Get(id string) (ListingSnapshot, error) {
	session, err := s.lookup(id)
	if err != nil {
		return ListingSnapshot{}, err
	}
	return session.Snapshot(), nil
}

// LoadMore advances a session by one page.
func (s *ListingService) LoadMore(ctx context.Context, id string) (ListingSnapshot, error) {
	session, err := s.lookup(id)
	if err != nil {
		return ListingSnapshot{}, err
	}
	return session.LoadMore(ctx), nil
}

// SetFilter replaces a session's filter.
func (s *ListingService) SetFilter(ctx context.Context, id string, filter models.TeacherFilter) (ListingSnapshot, error) {
	session, err := s.lookup(id)
	if err != nil {
		return ListingSnapshot{}, err
	}
	return session.SetFilter(ctx, filter), nil
}

// Drop removes a session.
func (s *ListingService) Drop(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// StartSweeper evicts idle sessions until ctx is cancelled.
func (s *ListingService) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *ListingService) sweep() {
	cutoff := time.Now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		if session.touched().Before(cutoff) {
			delete(s.sessions, id)
			s.logger.Debug("evicted idle listing session", zap.String("session_id", id))
		}
	}
}

func (s *ListingService) lookup(id string) (*ListingSession, error) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrSessionExpired, "")
	}
	return session, nil
}
