package models

// Review is a nested review entry owned by its teacher record. It has no
// identity of its own and is never referenced outside the parent.
type Review struct {
	ReviewerName   string  `json:"reviewer_name"`
	ReviewerRating float64 `json:"reviewer_rating"`
	Comment        string  `json:"comment"`
}

// Teacher represents a tutor record in the directory. The ID doubles as the
// pagination cursor; it is assigned by the store and never changes.
type Teacher struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Surname      string   `json:"surname"`
	Languages    []string `json:"languages"`
	Levels       []string `json:"levels"`
	Rating       float64  `json:"rating"`
	Reviews      []Review `json:"reviews"`
	PricePerHour float64  `json:"price_per_hour"`
	LessonsDone  int      `json:"lessons_done"`
	AvatarURL    string   `json:"avatar_url"`
	LessonInfo   string   `json:"lesson_info"`
	Conditions   []string `json:"conditions"`
	Experience   string   `json:"experience"`
}

// TeacherFilter captures the optional listing constraints. The zero value
// means "no filtering".
type TeacherFilter struct {
	Language string   `json:"language,omitempty"`
	Level    string   `json:"level,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
}

// Empty reports whether no constraint is set.
func (f TeacherFilter) Empty() bool {
	return f.Language == "" && f.Level == "" && f.MaxPrice == nil
}

// Matches evaluates the conjunctive predicate: an absent constraint always
// passes, and missing record fields never panic (empty collections simply
// fail membership, a zero price compares normally).
func (f TeacherFilter) Matches(t Teacher) bool {
	if f.Language != "" && !contains(t.Languages, f.Language) {
		return false
	}
	if f.Level != "" && !contains(t.Levels, f.Level) {
		return false
	}
	if f.MaxPrice != nil && t.PricePerHour > *f.MaxPrice {
		return false
	}
	return true
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// TeacherPage is one page of a key-ordered directory read.
type TeacherPage struct {
	Teachers   []Teacher `json:"teachers"`
	HasMore    bool      `json:"has_more"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// PageInfo carries cursor pagination metadata in list responses.
type PageInfo struct {
	PageSize   int    `json:"page_size"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor,omitempty"`
}
