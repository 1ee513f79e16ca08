package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/learnlingo/learnlingo-api/internal/models"
)

// DefaultPageSize mirrors the page length the directory UI renders per batch.
const DefaultPageSize = 4

// TeacherRepository reads the teacher collection as a key-ordered document
// store: records live in a single JSONB column keyed by their identity, and
// pages are range reads over that key.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

type teacherRow struct {
	ID  string         `db:"id"`
	Doc types.JSONText `db:"doc"`
}

// FetchPage returns one key-ordered page. An empty cursor means the first
// page. A cursor read starts at the cursor key itself (the store's range
// semantics are inclusive), so the boundary record is dropped before the page
// is assembled. One extra row beyond the page is always requested so HasMore
// reflects actual remaining data instead of the page-was-full guess.
func (r *TeacherRepository) FetchPage(ctx context.Context, cursor string, pageSize int) (models.TeacherPage, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var (
		rows []teacherRow
		err  error
	)
	if cursor == "" {
		const query = `SELECT id, doc FROM teachers ORDER BY id LIMIT $1`
		err = r.db.SelectContext(ctx, &rows, query, pageSize+1)
	} else {
		// Boundary row + page + lookahead row.
		const query = `SELECT id, doc FROM teachers WHERE id >= $1 ORDER BY id LIMIT $2`
		err = r.db.SelectContext(ctx, &rows, query, cursor, pageSize+2)
	}
	if err != nil {
		return models.TeacherPage{}, fmt.Errorf("fetch teacher page: %w", err)
	}

	// Window arithmetic runs on the raw rows. Malformed documents are
	// dropped only after the trim, so a bad doc inside a full window still
	// counts toward the lookahead and cannot hide the records behind it.
	if cursor != "" && len(rows) > 0 && rows[0].ID == cursor {
		rows = rows[1:]
	}

	page := models.TeacherPage{}
	if len(rows) > pageSize {
		page.HasMore = true
		rows = rows[:pageSize]
	}
	if len(rows) > 0 {
		page.NextCursor = rows[len(rows)-1].ID
	}
	page.Teachers = decodeRows(rows)
	return page, nil
}

// FindByID looks up a single record by key. A missing key is not an error;
// both the teacher and the error are nil.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	const query = `SELECT id, doc FROM teachers WHERE id = $1`
	var row teacherRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find teacher by id: %w", err)
	}
	teacher := models.DecodeTeacher(row.ID, row.Doc)
	if teacher == nil {
		return nil, nil
	}
	return teacher, nil
}

// FetchAll reads the entire collection in key order. It exists for the
// client-side filter path and the directory export, never for paging.
func (r *TeacherRepository) FetchAll(ctx context.Context) ([]models.Teacher, error) {
	const query = `SELECT id, doc FROM teachers ORDER BY id`
	var rows []teacherRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("fetch all teachers: %w", err)
	}
	return decodeRows(rows), nil
}

// Upsert writes a record document under its key. Records are authored by the
// offline seed importer only; the serving path never mutates them.
func (r *TeacherRepository) Upsert(ctx context.Context, teacher *models.Teacher) error {
	doc, err := json.Marshal(teacher)
	if err != nil {
		return fmt.Errorf("marshal teacher doc: %w", err)
	}
	const query = `INSERT INTO teachers (id, doc, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, teacher.ID, types.JSONText(doc), time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert teacher: %w", err)
	}
	return nil
}

func decodeRows(rows []teacherRow) []models.Teacher {
	teachers := make([]models.Teacher, 0, len(rows))
	for _, row := range rows {
		// Malformed documents are dropped, not surfaced.
		if t := models.DecodeTeacher(row.ID, row.Doc); t != nil {
			teachers = append(teachers, *t)
		}
	}
	return teachers
}
