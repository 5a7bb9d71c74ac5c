// Package pipeline wires segmentation, translation, summarization and
// assembly into the per-document control flow, and runs it over a source
// tree with per-document error containment.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yhzhou/feedsum/internal/document"
	"github.com/yhzhou/feedsum/internal/segment"
	"github.com/yhzhou/feedsum/internal/summarize"
	"github.com/yhzhou/feedsum/internal/translate"
)

// Pipeline processes one source tree into a mirrored, translated output tree.
// It owns each Document exclusively for the duration of its processing; no
// state is shared across documents beyond the Marker rename.
type Pipeline struct {
	splitter   *segment.Splitter
	translator *translate.Translator
	summarizer *summarize.Summarizer
	srcRoot    string
	dstRoot    string
	log        zerolog.Logger
}

// New creates a Pipeline reading sources under srcRoot and writing results
// to the same relative paths under dstRoot.
func New(splitter *segment.Splitter, translator *translate.Translator,
	summarizer *summarize.Summarizer, srcRoot, dstRoot string, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		splitter:   splitter,
		translator: translator,
		summarizer: summarizer,
		srcRoot:    srcRoot,
		dstRoot:    dstRoot,
		log:        log,
	}
}

// Stats tallies one run.
type Stats struct {
	Total     int
	Succeeded int
	Failed    int
}

// Run processes every unprocessed source document. A document failure is
// logged and counted, the file stays unmarked for the next run, and the loop
// moves on; only context cancellation or an unreadable source tree stops the
// run itself.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	paths, err := Sources(p.srcRoot)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Total: len(paths)}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := p.Process(ctx, path); err != nil {
			stats.Failed++
			p.log.Error().Err(err).Str("path", path).Msg("document failed")
			continue
		}
		if err := MarkDone(path); err != nil {
			stats.Failed++
			p.log.Error().Err(err).Str("path", path).Msg("document processed but not marked")
			continue
		}
		stats.Succeeded++
		p.log.Info().Str("path", path).Msg("document processed")
	}

	p.log.Info().
		Int("total", stats.Total).
		Int("succeeded", stats.Succeeded).
		Int("failed", stats.Failed).
		Msg("run complete")
	return stats, nil
}

// Process runs the full pipeline for one source file: parse front matter,
// transform it, segment, translate, summarize, synthesize metadata, assemble
// and write to the mirrored output path. It does not mark the source.
func (p *Pipeline) Process(ctx context.Context, srcPath string) error {
	rel, err := filepath.Rel(p.srcRoot, srcPath)
	if err != nil {
		return fmt.Errorf("relativize %s: %w", srcPath, err)
	}
	dstPath := filepath.Join(p.dstRoot, rel)
	if err := os.MkdirAll(filepath.Dir(dstPath), 0750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	doc := document.Parse(string(raw))

	// Front-matter transforms: translated title, normalized publication date.
	if title, ok := doc.Front.Get("title"); ok {
		translated, err := p.translator.Title(ctx, title)
		if err != nil {
			return err
		}
		if err := doc.Front.Set("title", translated); err != nil {
			return err
		}
	}
	doc.Front.NormalizeDate()

	// Segment and translate; chunks are reassembled in input order with no
	// inserted delimiters.
	chunks := p.splitter.Split(doc.Body)
	translated, err := p.translator.Chunks(ctx, chunks)
	if err != nil {
		return err
	}
	body := strings.Join(translated, "")

	sum, err := p.summarizer.Summarize(ctx, translated)
	if err != nil {
		return err
	}

	if len(translated) > 0 {
		tags, err := p.summarizer.Tags(ctx, sum)
		if err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := doc.Front.Set("tags", tags); err != nil {
				return err
			}
		}
		desc, err := p.summarizer.Description(ctx, sum.Final)
		if err != nil {
			return err
		}
		if err := doc.Front.Set("description", desc); err != nil {
			return err
		}
	}

	// The link leaves the front matter but feeds the attribution line.
	link, _ := doc.Front.Remove("link")

	out, err := document.Compose(&doc.Front, link, sum.Final, body)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dstPath, []byte(out), 0644); err != nil { // #nosec G306 -- published output file
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
