// Package registry holds the chapter definitions for each course and the
// keyword lists the classifier matches against (ETC-3).
//
// The built-in tables cover AP Calculus AB (chapters 1-8) and BC, which
// extends AB with chapters 9-10. A YAML file with the same shape can
// replace them at startup, so keyword tuning doesn't require a rebuild.
package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Shimizu-Technology/exam-tools-cli/internal/models"
)

// Registry answers chapter lookups for each supported course. It is
// immutable after construction and safe for concurrent readers.
type Registry struct {
	courses map[models.Course][]models.Chapter
}

// registryFile mirrors the YAML layout: the AB chapter list plus the
// chapters BC adds on top. Deriving BC as "AB plus additions" keeps the
// superset relationship true by construction.
type registryFile struct {
	ABChapters   []models.Chapter `yaml:"ab_chapters"`
	BCAdditional []models.Chapter `yaml:"bc_additional"`
}

// Default returns the registry built from the embedded AP Calculus tables.
func Default() *Registry {
	reg, err := build(defaultABChapters, defaultBCAdditional)
	if err != nil {
		// The embedded tables are covered by tests; failing here is a
		// programming error, not a runtime condition.
		panic(fmt.Sprintf("registry: built-in chapter tables invalid: %v", err))
	}
	return reg
}

// LoadFile reads a YAML chapter file and builds a registry from it.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse registry file: %w", err)
	}
	reg, err := build(f.ABChapters, f.BCAdditional)
	if err != nil {
		return nil, fmt.Errorf("invalid registry file %s: %w", path, err)
	}
	return reg, nil
}

// build assembles and validates the course tables. AB gets the base
// chapters; BC gets the base chapters followed by the additions.
func build(ab, bcExtra []models.Chapter) (*Registry, error) {
	bc := make([]models.Chapter, 0, len(ab)+len(bcExtra))
	bc = append(bc, ab...)
	bc = append(bc, bcExtra...)

	courses := map[models.Course][]models.Chapter{
		models.CourseAB: normalize(ab),
		models.CourseBC: normalize(bc),
	}
	for course, chapters := range courses {
		if err := validateChapters(chapters); err != nil {
			return nil, fmt.Errorf("course %s: %w", course, err)
		}
	}
	return &Registry{courses: courses}, nil
}

// normalize deep-copies a chapter list, trimming titles and lowercasing
// keywords so matching downstream is always case-insensitive. Blank
// keywords are dropped.
func normalize(chapters []models.Chapter) []models.Chapter {
	out := make([]models.Chapter, len(chapters))
	for i, ch := range chapters {
		kw := make([]string, 0, len(ch.Keywords))
		for _, k := range ch.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				kw = append(kw, k)
			}
		}
		out[i] = models.Chapter{
			ID:       ch.ID,
			Title:    strings.TrimSpace(ch.Title),
			Keywords: kw,
		}
	}
	return out
}

// validateChapters enforces the registry invariants: IDs form the
// contiguous range 1..N in order, and every chapter has a title.
func validateChapters(chapters []models.Chapter) error {
	if len(chapters) == 0 {
		return fmt.Errorf("no chapters defined")
	}
	for i, ch := range chapters {
		if ch.ID != i+1 {
			return fmt.Errorf("chapter IDs must run 1..%d without gaps, got %d at position %d",
				len(chapters), ch.ID, i+1)
		}
		if ch.Title == "" {
			return fmt.Errorf("chapter %d has no title", ch.ID)
		}
	}
	return nil
}

// Chapters returns the chapter list for a course, ordered by ID. The
// slice is shared, not copied; callers must not mutate it.
func (r *Registry) Chapters(course models.Course) ([]models.Chapter, error) {
	chapters, ok := r.courses[course]
	if !ok {
		return nil, fmt.Errorf("unknown course %q", course)
	}
	return chapters, nil
}

// Chapter looks up a single chapter by ID.
func (r *Registry) Chapter(course models.Course, id int) (models.Chapter, error) {
	chapters, err := r.Chapters(course)
	if err != nil {
		return models.Chapter{}, err
	}
	if id < 1 || id > len(chapters) {
		return models.Chapter{}, fmt.Errorf("course %s has no chapter %d (valid: 1-%d)",
			course, id, len(chapters))
	}
	return chapters[id-1], nil
}

// Keywords returns the keyword list for one chapter of a course.
func (r *Registry) Keywords(course models.Course, id int) ([]string, error) {
	ch, err := r.Chapter(course, id)
	if err != nil {
		return nil, err
	}
	return ch.Keywords, nil
}

// Title returns the display title for a chapter, falling back to
// "Chapter N" when the lookup fails so rendering code stays simple.
func (r *Registry) Title(course models.Course, id int) string {
	ch, err := r.Chapter(course, id)
	if err != nil {
		return fmt.Sprintf("Chapter %d", id)
	}
	return ch.Title
}

// ValidIDs returns the chapter IDs for a course in ascending order.
func (r *Registry) ValidIDs(course models.Course) ([]int, error) {
	chapters, err := r.Chapters(course)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(chapters))
	for i := range chapters {
		ids[i] = chapters[i].ID
	}
	return ids, nil
}
