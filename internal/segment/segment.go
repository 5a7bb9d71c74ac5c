// Package segment splits a Markdown body into header-bounded sections and
// slices over-budget sections into overlapping token-bounded chunks.
package segment

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yhzhou/feedsum/internal/token"
)

// ErrOverlapTooLarge indicates a chunk overlap that is not strictly smaller
// than the chunk budget. Such a configuration would never make progress when
// slicing an oversized section.
var ErrOverlapTooLarge = errors.New("chunk overlap must be smaller than the chunk budget")

// headingRe matches an ATX heading line: 1-6 '#' markers followed by whitespace.
var headingRe = regexp.MustCompile(`^#{1,6}\s`)

// Sections splits body into heading-bounded sections. Every heading line
// starts a new section; the non-empty check only suppresses an empty section
// when the document opens with a heading. Sections are emitted in document
// order and concatenate back to body byte-for-byte.
func Sections(body string) []string {
	if body == "" {
		return nil
	}

	var sections []string
	var buf strings.Builder
	for _, line := range strings.SplitAfter(body, "\n") {
		if headingRe.MatchString(line) && buf.Len() > 0 {
			sections = append(sections, buf.String())
			buf.Reset()
		}
		buf.WriteString(line)
	}
	if buf.Len() > 0 {
		sections = append(sections, buf.String())
	}
	return sections
}

// Splitter produces token-bounded chunks from a Markdown body.
type Splitter struct {
	est     token.Estimator
	budget  int
	overlap int
}

// NewSplitter creates a Splitter with the given chunk token budget and
// adjacent-chunk overlap. Returns ErrOverlapTooLarge unless
// 0 <= overlap < budget.
func NewSplitter(est token.Estimator, budget, overlap int) (*Splitter, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("chunk budget must be positive, got %d", budget)
	}
	if overlap < 0 || overlap >= budget {
		return nil, fmt.Errorf("overlap %d with budget %d: %w", overlap, budget, ErrOverlapTooLarge)
	}
	return &Splitter{est: est, budget: budget, overlap: overlap}, nil
}

// Split segments body into sections and slices any section whose estimated
// token length exceeds the budget into overlapping windows. A section within
// budget is emitted unchanged as a single chunk, so a document whose sections
// all fit reassembles to the original body by plain concatenation.
func (s *Splitter) Split(body string) []string {
	var chunks []string
	for _, sec := range Sections(body) {
		if s.est.Count(sec) <= s.budget {
			chunks = append(chunks, sec)
			continue
		}
		chunks = append(chunks, s.est.Windows(sec, s.budget, s.budget-s.overlap)...)
	}
	return chunks
}
