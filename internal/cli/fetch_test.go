package cli_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yhzhou/feedsum/internal/cli"
	"github.com/yhzhou/feedsum/internal/feed"
)

func TestFetchCmd(t *testing.T) {
	t.Parallel()

	t.Run("no feeds configured is an error", func(t *testing.T) {
		t.Parallel()

		env := cli.NewEnv(cli.WithConfigLoader(fakeConfigLoader{cfg: testConfig(t)}))
		if err := execute(t, env, cli.FetchCmd); !errors.Is(err, cli.ErrNoFeeds) {
			t.Errorf("error = %v, want ErrNoFeeds", err)
		}
	})

	t.Run("polls configured feeds and saves the store", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		cfg.Feeds = []string{"https://a.example/rss", "https://b.example/rss"}
		cfg.StateFile = filepath.Join(t.TempDir(), "last_fetched.json")

		fetcher := &fakeFetcher{res: feed.Result{Feeds: 2, Saved: 3, Skipped: 1}}
		var stderr strings.Builder
		env := cli.NewEnv(
			cli.WithStderr(&stderr),
			cli.WithConfigLoader(fakeConfigLoader{cfg: cfg}),
			cli.WithFetcherFactory(fakeFetcherFactory{fetcher: fetcher}),
		)
		if err := execute(t, env, cli.FetchCmd); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}

		if len(fetcher.feeds) != 2 || fetcher.outDir != cfg.SourceDir {
			t.Errorf("fetcher got feeds %v into %q", fetcher.feeds, fetcher.outDir)
		}
		if !strings.Contains(stderr.String(), "Fetched 2 feeds: 3 entries saved, 1 skipped") {
			t.Errorf("stderr = %q, want the tally line", stderr.String())
		}
		if _, err := os.Stat(cfg.StateFile); err != nil {
			t.Errorf("state file not saved: %v", err)
		}
	})

	t.Run("feed flag overrides configured feeds", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		cfg.Feeds = []string{"https://configured.example/rss"}
		cfg.StateFile = filepath.Join(t.TempDir(), "state.json")

		fetcher := &fakeFetcher{}
		env := cli.NewEnv(
			cli.WithStderr(new(strings.Builder)),
			cli.WithConfigLoader(fakeConfigLoader{cfg: cfg}),
			cli.WithFetcherFactory(fakeFetcherFactory{fetcher: fetcher}),
		)
		err := execute(t, env, cli.FetchCmd, "--feed", "https://flag.example/rss")
		if err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
		if len(fetcher.feeds) != 1 || fetcher.feeds[0] != "https://flag.example/rss" {
			t.Errorf("fetcher got feeds %v, want the flag value only", fetcher.feeds)
		}
	})

	t.Run("fetch failure propagates", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		cfg.Feeds = []string{"https://a.example/rss"}
		cfg.StateFile = filepath.Join(t.TempDir(), "state.json")

		boom := errors.New("boom")
		env := cli.NewEnv(
			cli.WithConfigLoader(fakeConfigLoader{cfg: cfg}),
			cli.WithFetcherFactory(fakeFetcherFactory{fetcher: &fakeFetcher{err: boom}}),
		)
		if err := execute(t, env, cli.FetchCmd); !errors.Is(err, boom) {
			t.Errorf("error = %v, want boom", err)
		}
	})
}

func TestRunCmd(t *testing.T) {
	t.Parallel()

	t.Run("fetches then translates with one configuration", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		cfg.Feeds = []string{"https://a.example/rss"}
		cfg.StateFile = filepath.Join(t.TempDir(), "state.json")
		if err := os.WriteFile(filepath.Join(cfg.SourceDir, "a.md"), []byte("text\n"), 0644); err != nil {
			t.Fatal(err)
		}

		var stderr strings.Builder
		env := cli.NewEnv(
			cli.WithStderr(&stderr),
			cli.WithGetenv(envWith("sk-test")),
			cli.WithConfigLoader(fakeConfigLoader{cfg: cfg}),
			cli.WithGeneratorFactory(&fakeGeneratorFactory{}),
			cli.WithFetcherFactory(fakeFetcherFactory{fetcher: &fakeFetcher{res: feed.Result{Feeds: 1}}}),
		)
		if err := execute(t, env, cli.RunCmd); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
		out := stderr.String()
		if !strings.Contains(out, "Fetched 1 feeds") || !strings.Contains(out, "Processed 1 documents") {
			t.Errorf("stderr = %q, want both tallies", out)
		}
	})

	t.Run("fetch failure stops the run before translation", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		env := cli.NewEnv(cli.WithConfigLoader(fakeConfigLoader{cfg: cfg}))
		if err := execute(t, env, cli.RunCmd); !errors.Is(err, cli.ErrNoFeeds) {
			t.Errorf("error = %v, want ErrNoFeeds", err)
		}
	})
}
