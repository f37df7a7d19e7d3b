// registry_test.go — Unit tests for the chapter registry.
//
// Go Pattern: Test files live alongside the code they test and end in _test.go.
// Go's testing package is built-in — no need for third-party frameworks.
// Run tests with: go test ./...
package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Shimizu-Technology/exam-tools-cli/internal/models"
)

// TestDefaultRegistry checks the shape of the built-in AP Calculus tables:
// AB runs 1-8, BC runs 1-10, and BC starts with exactly the AB chapters.
func TestDefaultRegistry(t *testing.T) {
	reg := Default()

	ab, err := reg.Chapters(models.CourseAB)
	if err != nil {
		t.Fatalf("Chapters(AB) unexpected error: %v", err)
	}
	bc, err := reg.Chapters(models.CourseBC)
	if err != nil {
		t.Fatalf("Chapters(BC) unexpected error: %v", err)
	}

	if len(ab) != 8 {
		t.Errorf("AB chapter count = %d, want 8", len(ab))
	}
	if len(bc) != 10 {
		t.Errorf("BC chapter count = %d, want 10", len(bc))
	}

	// IDs must be the contiguous range 1..N for both courses.
	for _, chapters := range [][]models.Chapter{ab, bc} {
		for i, ch := range chapters {
			if ch.ID != i+1 {
				t.Errorf("chapter at position %d has ID %d, want %d", i, ch.ID, i+1)
			}
			if ch.Title == "" {
				t.Errorf("chapter %d has an empty title", ch.ID)
			}
		}
	}

	// BC extends AB: the first 8 BC chapters are the AB chapters.
	for i, abCh := range ab {
		if bc[i].Title != abCh.Title {
			t.Errorf("BC chapter %d title = %q, want AB title %q", i+1, bc[i].Title, abCh.Title)
		}
	}

	// Keywords are stored lowercase so the classifier never has to fold case.
	for _, ch := range bc {
		for _, kw := range ch.Keywords {
			if kw != strings.ToLower(kw) {
				t.Errorf("chapter %d keyword %q is not lowercase", ch.ID, kw)
			}
		}
	}
}

// TestRegistryLookups covers the single-chapter accessors and their
// error behavior.
func TestRegistryLookups(t *testing.T) {
	reg := Default()

	ch, err := reg.Chapter(models.CourseAB, 1)
	if err != nil {
		t.Fatalf("Chapter(AB, 1) unexpected error: %v", err)
	}
	if ch.Title != "Limits and Continuity" {
		t.Errorf("Chapter(AB, 1) title = %q, want %q", ch.Title, "Limits and Continuity")
	}

	// Chapter 9 exists for BC but not for AB.
	if _, err := reg.Chapter(models.CourseAB, 9); err == nil {
		t.Error("Chapter(AB, 9) expected error, got nil")
	}
	if _, err := reg.Chapter(models.CourseBC, 9); err != nil {
		t.Errorf("Chapter(BC, 9) unexpected error: %v", err)
	}

	if _, err := reg.Chapters(models.Course("XY")); err == nil {
		t.Error("Chapters(XY) expected error for unknown course, got nil")
	}

	kws, err := reg.Keywords(models.CourseBC, 10)
	if err != nil {
		t.Fatalf("Keywords(BC, 10) unexpected error: %v", err)
	}
	if len(kws) == 0 || kws[0] != "series" {
		t.Errorf("Keywords(BC, 10) = %v, want list starting with %q", kws, "series")
	}
	if _, err := reg.Keywords(models.CourseAB, 10); err == nil {
		t.Error("Keywords(AB, 10) expected error, got nil")
	}

	if got := reg.Title(models.CourseBC, 10); got != "Infinite Sequences and Series" {
		t.Errorf("Title(BC, 10) = %q, want %q", got, "Infinite Sequences and Series")
	}
	// Title never fails; unknown chapters fall back to a generic label.
	if got := reg.Title(models.CourseAB, 99); got != "Chapter 99" {
		t.Errorf("Title(AB, 99) = %q, want %q", got, "Chapter 99")
	}

	ids, err := reg.ValidIDs(models.CourseAB)
	if err != nil {
		t.Fatalf("ValidIDs(AB) unexpected error: %v", err)
	}
	want := []int{1, 2, 3, 4, 5, 6, 7, 8}
	if len(ids) != len(want) {
		t.Fatalf("ValidIDs(AB) = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ValidIDs(AB)[%d] = %d, want %d", i, ids[i], want[i])
		}
	}
}

// TestLoadFile loads a custom YAML registry and checks that keywords are
// normalized and BC is derived from AB plus the additions.
func TestLoadFile(t *testing.T) {
	yaml := `
ab_chapters:
  - id: 1
    title: Basics
    keywords: ["Alpha", "  BETA  "]
  - id: 2
    title: Applications
    keywords: ["gamma"]
bc_additional:
  - id: 3
    title: Extensions
    keywords: ["Delta"]
`
	path := filepath.Join(t.TempDir(), "chapters.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() unexpected error: %v", err)
	}

	ab, _ := reg.Chapters(models.CourseAB)
	bc, _ := reg.Chapters(models.CourseBC)
	if len(ab) != 2 || len(bc) != 3 {
		t.Fatalf("chapter counts = AB %d, BC %d, want AB 2, BC 3", len(ab), len(bc))
	}

	// Mixed-case and padded keywords come back lowercase and trimmed.
	got := ab[0].Keywords
	if len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Errorf("chapter 1 keywords = %v, want [alpha beta]", got)
	}

	if bc[2].Title != "Extensions" {
		t.Errorf("BC chapter 3 title = %q, want %q", bc[2].Title, "Extensions")
	}
}

// TestLoadFile_Invalid rejects files that violate registry invariants.
func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "gap in chapter IDs",
			yaml: `
ab_chapters:
  - id: 1
    title: One
    keywords: ["a"]
  - id: 3
    title: Three
    keywords: ["c"]
`,
		},
		{
			name: "missing title",
			yaml: `
ab_chapters:
  - id: 1
    title: ""
    keywords: ["a"]
`,
		},
		{
			name: "bc additions break the sequence",
			yaml: `
ab_chapters:
  - id: 1
    title: One
    keywords: ["a"]
bc_additional:
  - id: 5
    title: Five
    keywords: ["e"]
`,
		},
		{
			name: "no chapters at all",
			yaml: `ab_chapters: []`,
		},
		{
			name: "not yaml",
			yaml: `{{{`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "chapters.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatalf("failed to write fixture: %v", err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Error("LoadFile() expected error, got nil")
			}
		})
	}
}

// TestLoadFile_Missing returns a wrapped error for unreadable paths.
func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadFile() expected error for missing file, got nil")
	}
}
