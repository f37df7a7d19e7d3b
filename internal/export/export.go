// Package export writes selection results to disk (ETC-9).
//
// Supported formats:
//   - txt  — The delimited text layout earlier versions of this tool
//     produced, kept byte-for-byte so downstream scripts and the
//     round-trip reader keep working
//   - json — Structured output with an export ID and selection metadata
//
// Go Pattern: Each export format is its own function behind a switch.
// Adding a format means one more case and one more formatter, nothing
// else changes.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Shimizu-Technology/exam-tools-cli/internal/models"
)

// DefaultFilename is used when the user accepts the save prompt without
// typing a name.
const DefaultFilename = "selected_questions.txt"

const (
	txtBanner = "AP CALCULUS SELECTED QUESTIONS"
	lineWidth = 80
)

// Formats lists the supported export formats.
func Formats() []string {
	return []string{"txt", "json"}
}

// ValidFormat reports whether name is a supported format.
func ValidFormat(name string) bool {
	switch name {
	case "txt", "json":
		return true
	}
	return false
}

// Save writes questions to path in the given format. The request that
// produced the questions rides along: txt needs the course to render
// tags, json records the whole selection as metadata.
func Save(path, format string, questions []models.Question, req models.SelectionRequest) error {
	if !ValidFormat(format) {
		return fmt.Errorf("invalid format %q (supported: %s)", format, strings.Join(Formats(), ", "))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	switch format {
	case "txt":
		err = WriteTXT(f, questions, req.Course)
	case "json":
		err = WriteJSON(f, questions, req)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteTXT renders the delimited text layout: a banner, then one block
// per question with its source, page, and chapter tags above the raw
// text.
func WriteTXT(w io.Writer, questions []models.Question, course models.Course) error {
	bw := bufio.NewWriter(w)
	rule := strings.Repeat("=", lineWidth)

	fmt.Fprintln(bw, rule)
	fmt.Fprintln(bw, txtBanner)
	fmt.Fprintln(bw, rule)
	fmt.Fprintln(bw)

	for i, q := range questions {
		fmt.Fprintf(bw, "\nQuestion %d:\n", i+1)
		fmt.Fprintf(bw, "Source: %s, Page %d\n", q.SourceBank, q.PageNumber)
		fmt.Fprintf(bw, "Topics: %s\n", TopicsLine(q.TagsFor(course)))
		fmt.Fprintln(bw, strings.Repeat("-", lineWidth))
		bw.WriteString(q.Text)
		fmt.Fprintf(bw, "\n%s\n", rule)
	}
	return bw.Flush()
}

// TopicsLine renders chapter IDs the way both the txt format and the
// terminal display show them: "Chapter 1, Chapter 4".
func TopicsLine(chapters []int) string {
	parts := make([]string, len(chapters))
	for i, id := range chapters {
		parts[i] = fmt.Sprintf("Chapter %d", id)
	}
	return strings.Join(parts, ", ")
}

// Document is the json export payload.
type Document struct {
	ExportID    string          `json:"export_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Course      models.Course   `json:"course"`
	Chapters    []int           `json:"chapters"`
	Limit       int             `json:"limit"`
	Count       int             `json:"count"`
	Questions   []DocumentEntry `json:"questions"`
}

// DocumentEntry flattens one question for the payload. Only the
// requested course's tags are included.
type DocumentEntry struct {
	Source   string `json:"source"`
	Page     int    `json:"page"`
	Position int    `json:"position"`
	Chapters []int  `json:"chapters"`
	Text     string `json:"text"`
}

// WriteJSON renders the structured export. Every export gets a fresh
// UUID so downstream consumers can tell two otherwise identical runs
// apart.
func WriteJSON(w io.Writer, questions []models.Question, req models.SelectionRequest) error {
	doc := Document{
		ExportID:    uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Course:      req.Course,
		Chapters:    req.Chapters,
		Limit:       req.Limit,
		Count:       len(questions),
	}
	for _, q := range questions {
		doc.Questions = append(doc.Questions, DocumentEntry{
			Source:   q.SourceBank,
			Page:     q.PageNumber,
			Position: q.LocalIndex,
			Chapters: q.TagsFor(req.Course),
			Text:     q.Text,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// Entry is one question parsed back out of a txt export.
type Entry struct {
	Number   int
	Source   string
	Page     int
	Chapters []int
	Text     string
}

var (
	questionRe = regexp.MustCompile(`^Question (\d+):$`)
	sourceRe   = regexp.MustCompile(`^Source: (.+), Page (\d+)$`)
	chapterRe  = regexp.MustCompile(`Chapter (\d+)`)
)

// ReadTXT parses a txt export back into entries. It understands exactly
// what WriteTXT produces, so the format stays testable round-trip and
// other tooling can consume old exports. Question text containing a
// full-width rule line would confuse it; exam text doesn't do that.
func ReadTXT(r io.Reader) ([]Entry, error) {
	var (
		entries []Entry
		cur     *Entry
		text    []string
		inText  bool
	)

	dashRule := strings.Repeat("-", lineWidth)
	eqRule := strings.Repeat("=", lineWidth)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if inText {
			if line == eqRule {
				cur.Text = strings.Join(text, "\n")
				entries = append(entries, *cur)
				cur, text, inText = nil, nil, false
				continue
			}
			text = append(text, line)
			continue
		}

		if m := questionRe.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			cur = &Entry{Number: n}
			continue
		}
		if cur == nil {
			continue // banner block and blank separators
		}
		if m := sourceRe.FindStringSubmatch(line); m != nil {
			cur.Source = m[1]
			cur.Page, _ = strconv.Atoi(m[2])
			continue
		}
		if strings.HasPrefix(line, "Topics:") {
			for _, m := range chapterRe.FindAllStringSubmatch(line, -1) {
				id, _ := strconv.Atoi(m[1])
				cur.Chapters = append(cur.Chapters, id)
			}
			continue
		}
		if line == dashRule {
			inText = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	if cur != nil {
		return nil, fmt.Errorf("truncated export: question %d has no closing rule", cur.Number)
	}
	return entries, nil
}
