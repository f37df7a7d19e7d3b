// Package classify tags question text with curriculum chapters by
// keyword matching.
//
// One Aho-Corasick matcher per course covers the union of every chapter's
// keywords, built once from the registry. Classification lowercases the
// text and maps each matched keyword back to the chapters that list it,
// so a question can carry several tags and the result is deterministic
// for a given registry.
package classify

import (
	"sort"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/Shimizu-Technology/exam-tools-cli/internal/models"
	"github.com/Shimizu-Technology/exam-tools-cli/internal/registry"
)

// Classifier maps question text to chapter IDs for a single course.
type Classifier struct {
	course   models.Course
	matcher  *ahocorasick.Matcher
	keywords []string // matcher dictionary, lowercase
	owners   [][]int  // owners[i] = chapter IDs that list keywords[i]
}

// New builds a classifier for one course from the registry's keyword
// lists. Keywords shared by several chapters (possible with a custom
// registry) enter the dictionary once and fan out to all their owners.
func New(reg *registry.Registry, course models.Course) (*Classifier, error) {
	chapters, err := reg.Chapters(course)
	if err != nil {
		return nil, err
	}

	c := &Classifier{course: course}
	index := make(map[string]int) // keyword -> position in c.keywords
	for _, ch := range chapters {
		for _, kw := range ch.Keywords {
			i, ok := index[kw]
			if !ok {
				i = len(c.keywords)
				index[kw] = i
				c.keywords = append(c.keywords, kw)
				c.owners = append(c.owners, nil)
			}
			c.owners[i] = append(c.owners[i], ch.ID)
		}
	}
	if len(c.keywords) > 0 {
		c.matcher = ahocorasick.NewStringMatcher(c.keywords)
	}
	return c, nil
}

// Course reports which course this classifier was built for.
func (c *Classifier) Course() models.Course { return c.course }

// Classify returns the sorted chapter IDs whose keywords appear in the
// text. Matching is case-insensitive and substring-based ("limitations"
// matches the keyword "limit"). A chapter is reported once no matter how
// many of its keywords hit; no matches returns an empty slice.
func (c *Classifier) Classify(text string) []int {
	ids := make([]int, 0, 4)
	seen := make(map[int]bool)
	for _, hit := range c.hits(text) {
		for _, id := range c.owners[hit] {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Ints(ids)
	return ids
}

// Explain reports which keywords produced each chapter tag. Useful when
// tuning a custom registry: it shows why a question landed where it did.
// The map keys match what Classify returns for the same text.
func (c *Classifier) Explain(text string) map[int][]string {
	out := make(map[int][]string)
	for _, hit := range c.hits(text) {
		kw := c.keywords[hit]
		for _, id := range c.owners[hit] {
			out[id] = append(out[id], kw)
		}
	}
	for _, kws := range out {
		sort.Strings(kws)
	}
	return out
}

// hits runs the matcher and returns dictionary indices found in the
// lowercased text. Each index appears at most once. Extraction workers
// share one classifier per course, so the thread-safe variant is the
// one to use here.
func (c *Classifier) hits(text string) []int {
	if c.matcher == nil || text == "" {
		return nil
	}
	return c.matcher.MatchThreadSafe([]byte(strings.ToLower(text)))
}
