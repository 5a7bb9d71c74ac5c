// Package translate drives the generation service to translate document
// chunks and titles into Simplified Chinese.
package translate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yhzhou/feedsum/internal/generate"
)

// Translation prompts. Each chunk prompt asks for Markdown fidelity: keep all
// hyperlinks in place, keep Markdown syntax, drop promotional filler, no code
// fences and no commentary around the output.
const (
	chunkPrompt = "请将以下 Markdown 内容翻译为简体中文，保留原文中所有的有效正文并去除不相干的商业广告部分，保留所有原始超链接位置，保留 Markdown 语法但不添加任何代码块前后缀，不要添加任何额外内容：\n\n%s\n"
	titlePrompt = "请将以下标题翻译为简体中文，不要添加任何注解或评述，只返回翻译后的标题：\n%s"

	// temperature matches the creative register wanted for translation.
	temperature = 1.3
)

// Translator translates chunks one generation request at a time.
type Translator struct {
	gen         generate.Generator
	concurrency int
}

// Option configures a Translator.
type Option func(*Translator)

// WithConcurrency sets how many chunks may be in flight at once. The default
// of 1 keeps the pipeline fully sequential; higher values still return
// results in input order.
func WithConcurrency(n int) Option {
	return func(t *Translator) {
		if n > 0 {
			t.concurrency = n
		}
	}
}

// New creates a Translator over the given generator.
func New(gen generate.Generator, opts ...Option) *Translator {
	t := &Translator{gen: gen, concurrency: 1}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Chunks translates every chunk and returns the results in input order.
// Later reassembly and summarization depend on that ordering, so concurrent
// execution writes results by input index, never by completion order.
// Any chunk failure aborts the whole document.
func (t *Translator) Chunks(ctx context.Context, chunks []string) ([]string, error) {
	out := make([]string, len(chunks))

	if t.concurrency <= 1 {
		for i, chunk := range chunks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			translated, err := t.gen.Generate(ctx, fmt.Sprintf(chunkPrompt, chunk), temperature)
			if err != nil {
				return nil, fmt.Errorf("translate chunk %d/%d: %w", i+1, len(chunks), err)
			}
			out[i] = translated
		}
		return out, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			translated, err := t.gen.Generate(ctx, fmt.Sprintf(chunkPrompt, chunk), temperature)
			if err != nil {
				return fmt.Errorf("translate chunk %d/%d: %w", i+1, len(chunks), err)
			}
			out[i] = translated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Title translates a front-matter title, returning only the translated text.
func (t *Translator) Title(ctx context.Context, title string) (string, error) {
	translated, err := t.gen.Generate(ctx, fmt.Sprintf(titlePrompt, title), temperature)
	if err != nil {
		return "", fmt.Errorf("translate title: %w", err)
	}
	return translated, nil
}
