package catalog

import (
	"fmt"
	"strings"
)

// Record is one catalog entry. Name is the unique key within the
// collection and is immutable once created.
type Record struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Validate checks that all required fields are non-empty.
func (r Record) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidRecord)
	}
	if r.Category == "" {
		return fmt.Errorf("%w: category is empty", ErrInvalidRecord)
	}
	if r.Description == "" {
		return fmt.Errorf("%w: description is empty", ErrInvalidRecord)
	}
	return nil
}

// Update describes a partial update of a record. A nil field is left
// unchanged. The name of a record can never be changed.
type Update struct {
	Category    *string
	Description *string
}

// Validate rejects supplied-but-empty fields.
func (u Update) Validate() error {
	if u.Category != nil && *u.Category == "" {
		return fmt.Errorf("%w: category is empty", ErrInvalidRecord)
	}
	if u.Description != nil && *u.Description == "" {
		return fmt.Errorf("%w: description is empty", ErrInvalidRecord)
	}
	return nil
}

// ApplyTo merges the supplied fields into r and returns the result.
func (u Update) ApplyTo(r Record) Record {
	if u.Category != nil {
		r.Category = *u.Category
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	return r
}

// Filter narrows a List result. The zero value matches every record.
type Filter struct {
	// Category matches by case-insensitive equality.
	Category string
	// Search matches a case-insensitive substring of name or description.
	Search string
}

// Matches reports whether r passes the filter.
func (f Filter) Matches(r Record) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, r.Category) {
		return false
	}
	if f.Search != "" {
		s := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.Name), s) &&
			!strings.Contains(strings.ToLower(r.Description), s) {
			return false
		}
	}
	return true
}

// FilterRecords returns the records matching f, preserving order.
func FilterRecords(recs []Record, f Filter) []Record {
	res := make([]Record, 0, len(recs))
	for _, r := range recs {
		if f.Matches(r) {
			res = append(res, r)
		}
	}
	return res
}
