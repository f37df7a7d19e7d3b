// Package selector validates selection requests and projects questions
// out of an extraction result.
//
// Selection is pure: it filters and truncates the in-memory question set
// and never goes back to the PDFs. Struct-level rules are declared as
// `validate` tags on models.SelectionRequest and checked with
// go-playground/validator; chapter existence is checked against the
// registry. Bad input comes back as a *ValidationError so the CLI can
// re-prompt instead of bailing out.
package selector

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Shimizu-Technology/exam-tools-cli/internal/models"
	"github.com/Shimizu-Technology/exam-tools-cli/internal/registry"
	"github.com/Shimizu-Technology/exam-tools-cli/internal/services/extract"
)

// ValidationError marks user-correctable input problems. The CLI treats
// these as "ask again", not as failures.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a user-input problem.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Service validates requests against a registry and runs selections.
type Service struct {
	reg      *registry.Registry
	validate *validator.Validate
}

// New creates a selector bound to one registry.
func New(reg *registry.Registry) *Service {
	return &Service{reg: reg, validate: validator.New()}
}

// ParseChapters turns input like "1,3", "2-5", or "1,3-5" into a sorted,
// de-duplicated chapter list. Range and existence checks happen later in
// Validate; this only handles the grammar.
func ParseChapters(input string) ([]int, error) {
	seen := make(map[int]bool)
	var ids []int
	add := func(id int) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue // tolerate trailing or doubled commas
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err1 := strconv.Atoi(strings.TrimSpace(lo))
			end, err2 := strconv.Atoi(strings.TrimSpace(hi))
			if err1 != nil || err2 != nil {
				return nil, validationErrorf("invalid range %q (use start-end, e.g. 1-4)", part)
			}
			if start > end {
				return nil, validationErrorf("range %q runs backwards", part)
			}
			for id := start; id <= end; id++ {
				add(id)
			}
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, validationErrorf("invalid chapter %q (use numbers like 2 or ranges like 1-4)", part)
		}
		add(id)
	}

	if len(ids) == 0 {
		return nil, validationErrorf("no chapters given")
	}
	sort.Ints(ids)
	return ids, nil
}

// Validate checks a request against the struct rules, then against the
// registry's chapter range for the requested course.
func (s *Service) Validate(req models.SelectionRequest) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return validationErrorf("%s", formatFieldErrors(verrs))
		}
		return err
	}

	ids, err := s.reg.ValidIDs(req.Course)
	if err != nil {
		return validationErrorf("%v", err)
	}
	max := ids[len(ids)-1]
	for _, id := range req.Chapters {
		if id > max {
			return validationErrorf("chapter %d is not in course %s (valid: 1-%d)", id, req.Course, max)
		}
	}
	return nil
}

// formatFieldErrors flattens validator's diagnostics into one line a
// CLI user can act on.
func formatFieldErrors(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch {
		case fe.Field() == "Course":
			msgs = append(msgs, "course must be AB or BC")
		case strings.HasPrefix(fe.Field(), "Chapters"):
			if fe.Tag() == "min" || fe.Tag() == "required" {
				msgs = append(msgs, "pick at least one chapter")
			} else {
				msgs = append(msgs, "chapter numbers start at 1")
			}
		case fe.Field() == "Limit":
			msgs = append(msgs, "limit cannot be negative")
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(msgs, "; ")
}

// Select runs one selection against an extraction result: validate,
// filter by tag overlap, truncate to the limit. Limit 0 means every
// match. The result set is read, never modified, so selections can run
// back to back against the same extraction.
func (s *Service) Select(res *extract.Result, req models.SelectionRequest) ([]models.Question, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}
	matched := res.FilterByTopics(req.Course, req.Chapters)
	if req.Limit > 0 && len(matched) > req.Limit {
		matched = matched[:req.Limit]
	}
	return matched, nil
}
