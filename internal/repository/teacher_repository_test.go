package repository

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnlingo/learnlingo-api/internal/models"
)

func newTeacherRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func teacherDoc(name string) []byte {
	return []byte(fmt.Sprintf(`{"name":%q,"surname":"Doe","languages":["English"],"levels":["A1 Beginner"],"rating":4.5,"price_per_hour":30,"lessons_done":100}`, name))
}

func TestTeacherRepositoryFetchFirstPage(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "doc"})
	for _, id := range []string{"key1", "key2", "key3", "key4", "key5"} {
		rows.AddRow(id, teacherDoc(id))
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, doc FROM teachers ORDER BY id LIMIT $1")).
		WithArgs(5).
		WillReturnRows(rows)

	page, err := repo.FetchPage(context.Background(), "", 4)
	require.NoError(t, err)
	assert.Len(t, page.Teachers, 4)
	assert.True(t, page.HasMore)
	assert.Equal(t, "key4", page.NextCursor)
	assert.Equal(t, "key1", page.Teachers[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFetchPageDropsBoundaryRecord(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "doc"})
	for _, id := range []string{"key4", "key5", "key6", "key7", "key8", "key9"} {
		rows.AddRow(id, teacherDoc(id))
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, doc FROM teachers WHERE id >= $1 ORDER BY id LIMIT $2")).
		WithArgs("key4", 6).
		WillReturnRows(rows)

	page, err := repo.FetchPage(context.Background(), "key4", 4)
	require.NoError(t, err)
	require.Len(t, page.Teachers, 4)
	// The cursor record itself is the inclusive range start; it must not
	// repeat in the next page.
	assert.Equal(t, "key5", page.Teachers[0].ID)
	assert.Equal(t, "key8", page.Teachers[3].ID)
	assert.True(t, page.HasMore)
	assert.Equal(t, "key8", page.NextCursor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFetchLastPartialPage(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "doc"})
	for _, id := range []string{"key8", "key9"} {
		rows.AddRow(id, teacherDoc(id))
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, doc FROM teachers WHERE id >= $1 ORDER BY id LIMIT $2")).
		WithArgs("key8", 6).
		WillReturnRows(rows)

	page, err := repo.FetchPage(context.Background(), "key8", 4)
	require.NoError(t, err)
	require.Len(t, page.Teachers, 1)
	assert.Equal(t, "key9", page.Teachers[0].ID)
	assert.False(t, page.HasMore)
	assert.Equal(t, "key9", page.NextCursor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFetchPageSkipsMalformedDocs(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "doc"}).
		AddRow("key1", teacherDoc("key1")).
		AddRow("key2", []byte(`"not an object"`)).
		AddRow("key3", teacherDoc("key3"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, doc FROM teachers ORDER BY id LIMIT $1")).
		WithArgs(5).
		WillReturnRows(rows)

	page, err := repo.FetchPage(context.Background(), "", 4)
	require.NoError(t, err)
	require.Len(t, page.Teachers, 2)
	assert.Equal(t, "key1", page.Teachers[0].ID)
	assert.Equal(t, "key3", page.Teachers[1].ID)
	assert.False(t, page.HasMore)
	assert.Equal(t, "key3", page.NextCursor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryMalformedDocInFullWindowKeepsPaging(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	// key02 is broken but still occupies its row. The lookahead row key04
	// fills the window, so the chain must keep going past it.
	rows := sqlmock.NewRows([]string{"id", "doc"}).
		AddRow("key00", teacherDoc("key00")).
		AddRow("key01", teacherDoc("key01")).
		AddRow("key02", []byte(`[1,2,3]`)).
		AddRow("key03", teacherDoc("key03")).
		AddRow("key04", teacherDoc("key04"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, doc FROM teachers ORDER BY id LIMIT $1")).
		WithArgs(5).
		WillReturnRows(rows)

	page, err := repo.FetchPage(context.Background(), "", 4)
	require.NoError(t, err)
	require.Len(t, page.Teachers, 3)
	assert.Equal(t, "key00", page.Teachers[0].ID)
	assert.Equal(t, "key03", page.Teachers[2].ID)
	assert.True(t, page.HasMore)
	assert.Equal(t, "key03", page.NextCursor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryMalformedRowAsWindowTail(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	// The last row of the trimmed window is malformed. Its key still
	// becomes the cursor; the next inclusive read drops it as the
	// boundary record, so resumption stays gap-free.
	rows := sqlmock.NewRows([]string{"id", "doc"}).
		AddRow("key00", teacherDoc("key00")).
		AddRow("key01", teacherDoc("key01")).
		AddRow("key02", teacherDoc("key02")).
		AddRow("key03", []byte(`"broken"`)).
		AddRow("key04", teacherDoc("key04"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, doc FROM teachers ORDER BY id LIMIT $1")).
		WithArgs(5).
		WillReturnRows(rows)

	page, err := repo.FetchPage(context.Background(), "", 4)
	require.NoError(t, err)
	require.Len(t, page.Teachers, 3)
	assert.True(t, page.HasMore)
	assert.Equal(t, "key03", page.NextCursor)

	next := sqlmock.NewRows([]string{"id", "doc"}).
		AddRow("key03", []byte(`"broken"`)).
		AddRow("key04", teacherDoc("key04"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, doc FROM teachers WHERE id >= $1 ORDER BY id LIMIT $2")).
		WithArgs("key03", 6).
		WillReturnRows(next)

	page, err = repo.FetchPage(context.Background(), "key03", 4)
	require.NoError(t, err)
	require.Len(t, page.Teachers, 1)
	assert.Equal(t, "key04", page.Teachers[0].ID)
	assert.False(t, page.HasMore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFindByIDAbsent(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, doc FROM teachers WHERE id = $1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}))

	teacher, err := repo.FindByID(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, teacher)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, doc FROM teachers WHERE id = $1")).
		WithArgs("key1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).AddRow("key1", teacherDoc("Jane")))

	teacher, err := repo.FindByID(context.Background(), "key1")
	require.NoError(t, err)
	require.NotNil(t, teacher)
	assert.Equal(t, "key1", teacher.ID)
	assert.Equal(t, "Jane", teacher.Name)
	assert.Equal(t, 30.0, teacher.PricePerHour)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFetchAll(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "doc"}).
		AddRow("key1", teacherDoc("key1")).
		AddRow("key2", teacherDoc("key2"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, doc FROM teachers ORDER BY id")).
		WillReturnRows(rows)

	teachers, err := repo.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, teachers, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec("INSERT INTO teachers").
		WithArgs("key1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	teacher := models.Teacher{ID: "key1", Name: "Jane", PricePerHour: 30}
	require.NoError(t, repo.Upsert(context.Background(), &teacher))
	assert.NoError(t, mock.ExpectationsWereMet())
}
