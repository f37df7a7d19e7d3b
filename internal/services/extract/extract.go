// Package extract discovers test banks and turns them into classified
// questions.
//
// This is the one place that touches PDFs. Everything downstream
// (selection, export, stats) works off the Result produced here, so a
// session reads each bank exactly once no matter how many selections
// the user makes afterwards.
package extract

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Shimizu-Technology/exam-tools-cli/internal/models"
	"github.com/Shimizu-Technology/exam-tools-cli/internal/registry"
	"github.com/Shimizu-Technology/exam-tools-cli/internal/services/classify"
	"github.com/Shimizu-Technology/exam-tools-cli/internal/services/pdf"
	"github.com/Shimizu-Technology/exam-tools-cli/internal/services/segment"
	"github.com/Shimizu-Technology/exam-tools-cli/internal/services/worker"
)

// bankNameRe matches test bank file names like TB_1.pdf or TB_12.PDF.
var bankNameRe = regexp.MustCompile(`^TB_(\d+)\.(?i:pdf)$`)

// DiscoverBanks scans a directory for files named TB_<n>.pdf. Numbering
// gaps are fine (a missing TB_2 is a collection quirk, not an error).
// Banks come back sorted by number, so TB_10 follows TB_9 rather than
// TB_1.
func DiscoverBanks(dir string) ([]models.TestBank, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read bank directory: %w", err)
	}

	var banks []models.TestBank
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := bankNameRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue // regexp guarantees digits; Atoi only fails on overflow
		}
		banks = append(banks, models.TestBank{
			Name:  strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Index: idx,
			Path:  filepath.Join(dir, e.Name()),
		})
	}

	sort.Slice(banks, func(i, j int) bool { return banks[i].Index < banks[j].Index })
	return banks, nil
}

// Service runs the bank -> page -> question pipeline.
type Service struct {
	opener      pdf.BankOpener
	classifiers map[models.Course]*classify.Classifier
	pool        *worker.Pool
}

// New wires the extraction pipeline together. One classifier is built
// per course up front, so every bank shares the same matchers and every
// question gets tagged for both courses in a single pass.
func New(reg *registry.Registry, opener pdf.BankOpener, workers int) (*Service, error) {
	classifiers := make(map[models.Course]*classify.Classifier)
	for _, course := range models.Courses() {
		c, err := classify.New(reg, course)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s classifier: %w", course, err)
		}
		classifiers[course] = c
	}
	return &Service{
		opener:      opener,
		classifiers: classifiers,
		pool:        worker.NewPool(workers),
	}, nil
}

// ExtractAll reads every bank once and aggregates the outcome. A bank
// that cannot be read contributes a diagnostic instead of aborting the
// run; the surviving banks' questions are kept. Question order is
// canonical regardless of worker scheduling: banks by number, pages
// front to back, questions top to bottom.
func (s *Service) ExtractAll(banks []models.TestBank) *Result {
	res := &Result{Banks: banks}
	if len(banks) == 0 {
		return res
	}

	log.Printf("🚀 Extracting %d test banks with %d workers", len(banks), s.pool.WorkerCount())
	outcomes := s.pool.Run(banks, s.extractBank)

	for _, out := range outcomes {
		res.Questions = append(res.Questions, out.Questions...)
		res.Diagnostics = append(res.Diagnostics, out.Diagnostics...)
	}
	for _, d := range res.Diagnostics {
		log.Printf("⚠️  %s", d)
	}
	log.Printf("✅ Extraction complete: %d questions from %d banks (%d diagnostics)",
		len(res.Questions), len(banks), len(res.Diagnostics))
	return res
}

// extractBank pulls every question out of one bank. Page-level failures
// are recorded and skipped; the rest of the bank still counts.
func (s *Service) extractBank(bank models.TestBank) worker.BankResult {
	out := worker.BankResult{Bank: bank}

	src, err := s.opener.Open(bank.Path)
	if err != nil {
		out.Diagnostics = append(out.Diagnostics, models.Diagnostic{
			Bank:   bank.Name,
			Reason: err.Error(),
		})
		return out
	}
	defer src.Close()

	for page := 1; page <= src.PageCount(); page++ {
		text, err := src.PageText(page)
		if err != nil {
			out.Diagnostics = append(out.Diagnostics, models.Diagnostic{
				Bank:   bank.Name,
				Page:   page,
				Reason: err.Error(),
			})
			continue
		}
		for i, block := range segment.Split(text) {
			out.Questions = append(out.Questions, s.newQuestion(bank, page, i+1, block))
		}
	}
	return out
}

// newQuestion classifies a text block for every course and fills the model.
func (s *Service) newQuestion(bank models.TestBank, page, idx int, text string) models.Question {
	tags := make(map[models.Course][]int, len(s.classifiers))
	for course, c := range s.classifiers {
		tags[course] = c.Classify(text)
	}
	return models.Question{
		SourceBank: bank.Name,
		PageNumber: page,
		LocalIndex: idx,
		Text:       text,
		Tags:       tags,
	}
}

// Result is everything one extraction pass produced. It stays in memory
// for the life of the session; selections are filters over it.
type Result struct {
	Banks       []models.TestBank
	Questions   []models.Question
	Diagnostics []models.Diagnostic
}

// FilterByTopics returns the questions tagged with at least one of the
// chapters, in extraction order. The result is a fresh slice over the
// same Question values; the receiver is never modified.
func (r *Result) FilterByTopics(course models.Course, chapters []int) []models.Question {
	var matched []models.Question
	for _, q := range r.Questions {
		if q.MatchesAny(course, chapters) {
			matched = append(matched, q)
		}
	}
	return matched
}

// BankCount pairs a bank with how many questions it yielded (ETC-6).
type BankCount struct {
	Bank      string `json:"bank"`
	Questions int    `json:"questions"`
}

// BankCounts summarizes per-bank yield in bank order. Banks that yielded
// nothing (unreadable, or no recognizable questions) show up with zero.
func (r *Result) BankCounts() []BankCount {
	byBank := make(map[string]int)
	for _, q := range r.Questions {
		byBank[q.SourceBank]++
	}
	counts := make([]BankCount, len(r.Banks))
	for i, b := range r.Banks {
		counts[i] = BankCount{Bank: b.Name, Questions: byBank[b.Name]}
	}
	return counts
}

// ChapterDistribution counts questions per chapter tag for a course.
// A question tagged with three chapters contributes to all three.
func (r *Result) ChapterDistribution(course models.Course) map[int]int {
	dist := make(map[int]int)
	for _, q := range r.Questions {
		for _, id := range q.Tags[course] {
			dist[id]++
		}
	}
	return dist
}
