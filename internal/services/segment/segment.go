// Package segment splits a page of extracted PDF text into individual
// exam questions.
//
// Test banks number their questions at the start of a line ("12." or
// "12)"), so a new question begins at every line matching that marker.
// Text before the first marker on a page (headers, instructions) is
// discarded, and a page with no markers yields no questions at all.
package segment

import (
	"regexp"
	"strings"
)

// markerRe matches the start of a numbered question: optional indentation,
// digits, a period or closing parenthesis, then at least one space. The
// trailing whitespace requirement keeps decimals like "1.5" from opening
// a new question.
var markerRe = regexp.MustCompile(`^\s*\d+[.)]\s+`)

// Split breaks one page of text into question blocks, in page order.
// Each block starts with its marker line and keeps interior line breaks;
// surrounding whitespace is trimmed.
func Split(pageText string) []string {
	var questions []string
	var current []string
	inQuestion := false

	for _, line := range strings.Split(pageText, "\n") {
		if markerRe.MatchString(line) {
			if inQuestion {
				questions = append(questions, flush(current))
			}
			current = []string{line}
			inQuestion = true
			continue
		}
		// Lines before the first marker are page furniture; drop them.
		if inQuestion {
			current = append(current, line)
		}
	}
	if inQuestion {
		questions = append(questions, flush(current))
	}
	return questions
}

func flush(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
