package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yhzhou/feedsum/internal/config"
	"github.com/yhzhou/feedsum/internal/pipeline"
	"github.com/yhzhou/feedsum/internal/segment"
	"github.com/yhzhou/feedsum/internal/summarize"
	"github.com/yhzhou/feedsum/internal/token"
	"github.com/yhzhou/feedsum/internal/translate"
)

// TranslateCmd creates the translate command: run the translation and
// summarization pipeline over the fetched source tree.
func TranslateCmd(env *Env) *cobra.Command {
	var (
		source      string
		dest        string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate, summarize and tag fetched Markdown documents",
		Long: `Translate every unprocessed Markdown document under the source
directory into Simplified Chinese, prepend a bounded summary, derive tags and
a one-sentence description, and write the result to the mirrored path under
the destination directory.

Successfully processed sources are renamed with a ` + pipeline.Marker + ` prefix
and skipped on later runs. A failed document is left unmarked and retried in
full next time.`,
		Example: `  feedsum translate
  feedsum translate -s raw_2025-08-31 -d translated_2025-08-31
  feedsum translate --concurrency 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.ConfigLoader.Load(env.Getenv, env.Now())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("source") {
				cfg.SourceDir = source
			}
			if cmd.Flags().Changed("dest") {
				cfg.DestDir = dest
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.Concurrency = concurrency
			}
			return runTranslate(cmd.Context(), env, cfg)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Source directory (default: dated raw_ directory)")
	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Destination directory (default: dated translated_ directory)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Chunk translations in flight per document (default 1)")

	return cmd
}

// runTranslate executes the pipeline with a validated configuration.
func runTranslate(ctx context.Context, env *Env, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	apiKey := env.Getenv(config.EnvAPIKey)
	if apiKey == "" {
		return fmt.Errorf("%s: %w", config.EnvAPIKey, ErrAPIKeyMissing)
	}
	gen, err := env.GeneratorFactory.NewGenerator(apiKey, cfg.BaseURL, cfg.Model)
	if err != nil {
		return err
	}

	splitter, err := segment.NewSplitter(token.NewEstimator(), cfg.ChunkTokens, cfg.ChunkOverlap)
	if err != nil {
		return err
	}

	p := pipeline.New(
		splitter,
		translate.New(gen, translate.WithConcurrency(cfg.Concurrency)),
		summarize.New(gen, cfg.SummaryChars),
		cfg.SourceDir,
		cfg.DestDir,
		env.Log,
	)

	stats, err := p.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Processed %d documents: %d succeeded, %d failed\n",
		stats.Total, stats.Succeeded, stats.Failed)
	return nil
}
