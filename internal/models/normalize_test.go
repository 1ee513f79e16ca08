package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTeacherTolerantFields(t *testing.T) {
	raw := []byte(`{
		"name": "Elena",
		"surname": "Petrova",
		"languages": ["French", "Spanish"],
		"levels": ["A1 Beginner", "A2 Elementary"],
		"rating": 4.8,
		"price_per_hour": "not a number",
		"lessons_done": 1500,
		"reviews": [
			{"reviewer_name": "Tom", "reviewer_rating": 5, "comment": "great"},
			"junk entry",
			{"reviewer_name": "Ana"}
		]
	}`)

	teacher := DecodeTeacher("t1", raw)
	require.NotNil(t, teacher)
	assert.Equal(t, "t1", teacher.ID)
	assert.Equal(t, "Elena", teacher.Name)
	assert.Equal(t, []string{"French", "Spanish"}, teacher.Languages)
	assert.Equal(t, 4.8, teacher.Rating)
	// A malformed numeric field degrades to zero instead of failing the record.
	assert.Zero(t, teacher.PricePerHour)
	assert.Equal(t, 1500, teacher.LessonsDone)
	// Missing fields come back as empty values.
	assert.Empty(t, teacher.AvatarURL)
	assert.Empty(t, teacher.Conditions)

	require.Len(t, teacher.Reviews, 2)
	assert.Equal(t, "Tom", teacher.Reviews[0].ReviewerName)
	assert.Equal(t, 5.0, teacher.Reviews[0].ReviewerRating)
	assert.Equal(t, "Ana", teacher.Reviews[1].ReviewerName)
	assert.Zero(t, teacher.Reviews[1].ReviewerRating)
}

func TestDecodeTeacherNonObject(t *testing.T) {
	assert.Nil(t, DecodeTeacher("t1", []byte(`"just a string"`)))
	assert.Nil(t, DecodeTeacher("t1", []byte(`[1, 2, 3]`)))
	assert.Nil(t, DecodeTeacher("t1", []byte(`not json`)))
}

func TestNormalizeTeachersObjectShape(t *testing.T) {
	raw := []byte(`{
		"b-key": {"name": "Second"},
		"a-key": {"name": "First"},
		"broken": "not an object"
	}`)

	teachers := NormalizeTeachers(raw)
	require.Len(t, teachers, 2)
	assert.Equal(t, "a-key", teachers[0].ID)
	assert.Equal(t, "First", teachers[0].Name)
	assert.Equal(t, "b-key", teachers[1].ID)
}

func TestNormalizeTeachersArrayShape(t *testing.T) {
	raw := []byte(`[
		{"name": "Zero"},
		{"name": "One"},
		null,
		{"name": "Three"}
	]`)

	teachers := NormalizeTeachers(raw)
	require.Len(t, teachers, 3)
	assert.Equal(t, "0", teachers[0].ID)
	assert.Equal(t, "1", teachers[1].ID)
	// The null slot is dropped but positional ids still reflect the slot.
	assert.Equal(t, "3", teachers[2].ID)
	assert.Equal(t, "Three", teachers[2].Name)
}

func TestNormalizeTeachersEmptyInputs(t *testing.T) {
	assert.Nil(t, NormalizeTeachers(nil))
	assert.Nil(t, NormalizeTeachers([]byte("  ")))
	assert.Nil(t, NormalizeTeachers([]byte("null")))
	assert.Nil(t, NormalizeTeachers([]byte(`"scalar"`)))
}

func TestTeacherFilterMatches(t *testing.T) {
	maxPrice := func(v float64) *float64 { return &v }

	teacher := Teacher{
		Languages:    []string{"English", "German"},
		Levels:       []string{"A1 Beginner", "B2 Upper-Intermediate"},
		PricePerHour: 30,
	}

	assert.True(t, TeacherFilter{}.Matches(teacher))
	assert.True(t, TeacherFilter{Language: "English"}.Matches(teacher))
	assert.False(t, TeacherFilter{Language: "French"}.Matches(teacher))
	assert.True(t, TeacherFilter{Level: "A1 Beginner", Language: "German"}.Matches(teacher))
	assert.False(t, TeacherFilter{Level: "C2 Proficient"}.Matches(teacher))
	assert.True(t, TeacherFilter{MaxPrice: maxPrice(30)}.Matches(teacher))
	assert.False(t, TeacherFilter{MaxPrice: maxPrice(25)}.Matches(teacher))
	assert.False(t, TeacherFilter{Language: "English", Level: "A1 Beginner", MaxPrice: maxPrice(25)}.Matches(teacher))

	// Records with missing collections fail membership checks but never panic.
	bare := Teacher{}
	assert.True(t, TeacherFilter{}.Matches(bare))
	assert.False(t, TeacherFilter{Language: "English"}.Matches(bare))
	assert.True(t, TeacherFilter{MaxPrice: maxPrice(10)}.Matches(bare))
}

func TestTeacherFilterEmpty(t *testing.T) {
	price := 10.0
	assert.True(t, TeacherFilter{}.Empty())
	assert.False(t, TeacherFilter{Language: "English"}.Empty())
	assert.False(t, TeacherFilter{MaxPrice: &price}.Empty())
}

func TestNormalizeTeachersArrayNonObjectEntriesDropped(t *testing.T) {
	raw := []byte(`[{"name": "Keep"}, 42, "noise"]`)
	teachers := NormalizeTeachers(raw)
	require.Len(t, teachers, 1)
	assert.Equal(t, "Keep", teachers[0].Name)
}
