package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yhzhou/feedsum/internal/config"
	"github.com/yhzhou/feedsum/internal/feed"
)

// FetchCmd creates the fetch command: poll the configured RSS feeds and save
// new entries as Markdown sources.
func FetchCmd(env *Env) *cobra.Command {
	var (
		out   string
		feeds []string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch new RSS entries as Markdown sources",
		Long: `Poll every configured feed, download the full article for each entry
published since the previous run, convert it to Markdown and save it with
YAML front matter (title, date, link) under the source directory, one
subdirectory per feed. The per-feed high-water timestamps live in a small
JSON state file.`,
		Example: `  feedsum fetch
  feedsum fetch --feed https://export.arxiv.org/rss/cs.AI
  feedsum fetch -o raw_today`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.ConfigLoader.Load(env.Getenv, env.Now())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out") {
				cfg.SourceDir = out
			}
			if cmd.Flags().Changed("feed") {
				cfg.Feeds = feeds
			}
			return runFetch(cmd.Context(), env, cfg)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Directory to save fetched sources in (default: dated raw_ directory)")
	cmd.Flags().StringArrayVar(&feeds, "feed", nil, "Feed URL to poll (repeatable; overrides configured feeds)")

	return cmd
}

// runFetch polls the feeds with load-at-start/save-at-end store handling.
func runFetch(ctx context.Context, env *Env, cfg config.Config) error {
	if len(cfg.Feeds) == 0 {
		return fmt.Errorf("set %s or pass --feed: %w", config.KeyFeeds, ErrNoFeeds)
	}

	store, err := feed.LoadStore(cfg.StateFile)
	if err != nil {
		return err
	}

	fetcher := env.FetcherFactory.NewFetcher(env.Log)
	res, err := fetcher.FetchAll(ctx, cfg.Feeds, cfg.SourceDir, store)
	if err != nil {
		return err
	}
	if err := store.Save(); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Fetched %d feeds: %d entries saved, %d skipped\n",
		res.Feeds, res.Saved, res.Skipped)
	return nil
}
