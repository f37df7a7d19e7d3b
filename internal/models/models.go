// Package models defines the data structures used throughout the application.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// There is no ORM or database layer here. Extraction fills these structs in
// memory and the export package writes them to disk, so the JSON tags are
// the only serialization contract we maintain.
package models

import (
	"fmt"
	"strings"
)

// Course identifies which AP Calculus curriculum a registry, classifier,
// or selection operates against.
// Go Pattern: We use string constants instead of enums (Go doesn't have
// enums). This is a common pattern: define a named type plus constants.
type Course string

const (
	CourseAB Course = "AB"
	CourseBC Course = "BC"
)

// Courses lists every supported course in a stable order.
func Courses() []Course {
	return []Course{CourseAB, CourseBC}
}

// ParseCourse normalizes user input ("ab", "Bc", " AB ") into a Course.
func ParseCourse(s string) (Course, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AB":
		return CourseAB, nil
	case "BC":
		return CourseBC, nil
	default:
		return "", fmt.Errorf("unknown course %q (expected AB or BC)", s)
	}
}

// Chapter is one curriculum unit together with the keywords used to
// recognize questions that belong to it. Keywords are stored lowercase
// and matched as substrings.
type Chapter struct {
	ID       int      `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// TestBank is one discovered PDF source file.
type TestBank struct {
	Name  string `json:"name"`  // e.g. "TB_3"
	Index int    `json:"index"` // numeric part of the name, used for ordering
	Path  string `json:"path"`
}

// Question is a single exam question pulled out of a test bank.
//
// Tags holds the classification for every course, computed once at
// extraction time. Selection is a pure in-memory filter over these tags,
// so repeated selections never go back to the PDFs.
type Question struct {
	SourceBank string           `json:"source_bank"`
	PageNumber int              `json:"page_number"` // 1-based page within the source PDF
	LocalIndex int              `json:"local_index"` // 1-based position within the page
	Text       string           `json:"text"`        // raw text, numbering marker included
	Tags       map[Course][]int `json:"tags"`        // course -> sorted chapter IDs
}

// TagsFor returns the chapter IDs this question matched for a course.
// The slice is shared, not copied; callers must not mutate it.
func (q Question) TagsFor(course Course) []int {
	return q.Tags[course]
}

// MatchesAny reports whether the question carries at least one of the
// given chapter tags for the course.
func (q Question) MatchesAny(course Course, chapters []int) bool {
	for _, want := range chapters {
		for _, got := range q.Tags[course] {
			if got == want {
				return true
			}
		}
	}
	return false
}

// Diagnostic records a source that failed, in whole or in part, during
// extraction. Page 0 means the problem affected the entire bank rather
// than a specific page.
type Diagnostic struct {
	Bank   string `json:"bank"`
	Page   int    `json:"page,omitempty"`
	Reason string `json:"reason"`
}

func (d Diagnostic) String() string {
	if d.Page > 0 {
		return fmt.Sprintf("%s page %d: %s", d.Bank, d.Page, d.Reason)
	}
	return fmt.Sprintf("%s: %s", d.Bank, d.Reason)
}

// --- Request DTOs (Data Transfer Objects) ---
// Go Pattern: Separate structs for user input vs core models. The
// `validate` tags are checked by the selector using go-playground/validator,
// the same declarative style web frameworks use for request binding.

// SelectionRequest describes one retrieval: which course, which chapters,
// and how many questions at most. Limit 0 means "all matches".
type SelectionRequest struct {
	Course   Course `json:"course" validate:"required,oneof=AB BC"`
	Chapters []int  `json:"chapters" validate:"required,min=1,dive,gte=1"`
	Limit    int    `json:"limit" validate:"gte=0"`
}
