// Package summarize reduces many translated chunks into one bounded summary
// plus a tag set and a one-sentence description.
//
// The reduction is hierarchical: one summary per chunk (level 1), then one
// combine-and-compress pass over the newline-joined level-1 summaries
// (level 0). A single pass over an arbitrarily long body would blow the
// generation context; two levels bound every call's input.
package summarize

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/yhzhou/feedsum/internal/generate"
)

const (
	partialPrompt = "请用不超过 %d 字总结以下段落，不要添加任何额外内容：\n\n%s"
	combinePrompt = "以下是多段摘要，请综合压缩为不超过 %d 字，不要添加任何额外内容：\n\n%s"
	tagsPrompt    = "请从以下摘要中提取 2-6 个用于检索的相关tags，保证清晰简洁明确。仅返回逗号、顿号或换行分隔的关键词列表，不要添加任何额外内容：\n\n%s"
	descPrompt    = "基于以下最终摘要，用一句话（不超过50字）写一个简介：\n\n%s"

	temperature = 1.0

	// DefaultSummaryChars is the requested character cap for the final summary.
	DefaultSummaryChars = 200
)

// Summary holds both reduction levels. Partials are kept because tag
// extraction reads them alongside the final summary.
type Summary struct {
	Final    string
	Partials []string
}

// Summarizer performs the two-level reduction.
type Summarizer struct {
	gen   generate.Generator
	limit int
}

// New creates a Summarizer with the given final-summary character cap.
// A non-positive cap falls back to DefaultSummaryChars.
func New(gen generate.Generator, summaryChars int) *Summarizer {
	if summaryChars <= 0 {
		summaryChars = DefaultSummaryChars
	}
	return &Summarizer{gen: gen, limit: summaryChars}
}

// Summarize reduces the translated chunks to a Summary. Level-1 summaries are
// requested at twice the final cap each; the combine pass is requested at the
// cap itself. The prompts only request those bounds, so every result is also
// hard-truncated at twice its requested bound as a guard against runaway
// output. No chunks yields an empty Summary without any generation calls.
func (s *Summarizer) Summarize(ctx context.Context, chunks []string) (Summary, error) {
	if len(chunks) == 0 {
		return Summary{}, nil
	}

	partials := make([]string, len(chunks))
	for i, chunk := range chunks {
		out, err := s.gen.Generate(ctx, fmt.Sprintf(partialPrompt, 2*s.limit, chunk), temperature)
		if err != nil {
			return Summary{}, fmt.Errorf("summarize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		partials[i] = truncateRunes(out, 4*s.limit)
	}

	combined, err := s.gen.Generate(ctx,
		fmt.Sprintf(combinePrompt, s.limit, strings.Join(partials, "\n")), temperature)
	if err != nil {
		return Summary{}, fmt.Errorf("combine summaries: %w", err)
	}

	return Summary{Final: truncateRunes(combined, 2*s.limit), Partials: partials}, nil
}

// tagSeparatorRe splits a tag response on comma, fullwidth comma, enumeration
// comma and newlines.
var tagSeparatorRe = regexp.MustCompile(`[,，、\n]+`)

// Tags derives an ordered, deduplicated tag set from the final summary and
// all level-1 summaries.
func (s *Summarizer) Tags(ctx context.Context, sum Summary) ([]string, error) {
	input := sum.Final
	if len(sum.Partials) > 0 {
		input += "\n" + strings.Join(sum.Partials, "\n")
	}
	resp, err := s.gen.Generate(ctx, fmt.Sprintf(tagsPrompt, input), temperature)
	if err != nil {
		return nil, fmt.Errorf("extract tags: %w", err)
	}
	return SplitTags(resp), nil
}

// SplitTags splits a raw tag response on the delimiter set, trims each token
// and drops empty and duplicate entries, keeping first-seen order.
func SplitTags(raw string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, t := range tagSeparatorRe.Split(raw, -1) {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

// Description derives a one-sentence description from the final summary.
func (s *Summarizer) Description(ctx context.Context, final string) (string, error) {
	desc, err := s.gen.Generate(ctx, fmt.Sprintf(descPrompt, final), temperature)
	if err != nil {
		return "", fmt.Errorf("write description: %w", err)
	}
	return desc, nil
}

// truncateRunes cuts s to at most n runes, never mid-codepoint.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
