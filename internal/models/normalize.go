package models

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// DecodeTeacher builds a Teacher from a raw store document. Decoding is
// field-by-field and tolerant: a missing or malformed field becomes its zero
// value or an empty collection, never an error. A payload that is not a JSON
// object at all yields nil.
func DecodeTeacher(id string, raw []byte) *Teacher {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	// A JSON null unmarshals into a nil map; treat it like any other
	// non-object entry.
	if fields == nil {
		return nil
	}

	t := &Teacher{ID: id}
	t.Name = decodeString(fields["name"])
	t.Surname = decodeString(fields["surname"])
	t.Languages = decodeStringList(fields["languages"])
	t.Levels = decodeStringList(fields["levels"])
	t.Rating = decodeNumber(fields["rating"])
	t.PricePerHour = decodeNumber(fields["price_per_hour"])
	t.LessonsDone = int(decodeNumber(fields["lessons_done"]))
	t.AvatarURL = decodeString(fields["avatar_url"])
	t.LessonInfo = decodeString(fields["lesson_info"])
	t.Conditions = decodeStringList(fields["conditions"])
	t.Experience = decodeString(fields["experience"])
	t.Reviews = decodeReviews(fields["reviews"])
	return t
}

// NormalizeTeachers converts a raw collection snapshot into teacher records.
// The store may hand back either an object keyed by id or a plain array; an
// array gets positional ids, object keys become record ids, and entries that
// are not well-formed objects are dropped.
func NormalizeTeachers(raw []byte) []Teacher {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil
		}
		teachers := make([]Teacher, 0, len(items))
		for idx, item := range items {
			if t := DecodeTeacher(strconv.Itoa(idx), item); t != nil {
				teachers = append(teachers, *t)
			}
		}
		return teachers
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil
	}
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	teachers := make([]Teacher, 0, len(entries))
	for _, key := range keys {
		if t := DecodeTeacher(key, entries[key]); t != nil {
			teachers = append(teachers, *t)
		}
	}
	return teachers
}

func decodeString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func decodeNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	return n
}

func decodeStringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	list := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			list = append(list, s)
		}
	}
	return list
}

func decodeReviews(raw json.RawMessage) []Review {
	if len(raw) == 0 {
		return []Review{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []Review{}
	}
	reviews := make([]Review, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			continue
		}
		reviews = append(reviews, Review{
			ReviewerName:   decodeString(fields["reviewer_name"]),
			ReviewerRating: decodeNumber(fields["reviewer_rating"]),
			Comment:        decodeString(fields["comment"]),
		})
	}
	return reviews
}
