package cli_test

// Shared fakes for command tests. Commands get their dependencies through
// Env, so tests never touch the network or the real user config.

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yhzhou/feedsum/internal/cli"
	"github.com/yhzhou/feedsum/internal/config"
	"github.com/yhzhou/feedsum/internal/feed"
	"github.com/yhzhou/feedsum/internal/generate"
)

var fixedNow = time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)

// fakeConfigLoader returns a fixed configuration.
type fakeConfigLoader struct {
	cfg config.Config
	err error
}

func (l fakeConfigLoader) Load(func(string) string, time.Time) (config.Config, error) {
	return l.cfg, l.err
}

// stubGenerator answers every pipeline stage with a canned response keyed on
// the prompt shape.
type stubGenerator struct{}

func (stubGenerator) Generate(_ context.Context, prompt string, _ float32) (string, error) {
	switch {
	case strings.Contains(prompt, "标题翻译"):
		return "译文标题", nil
	case strings.Contains(prompt, "翻译为简体中文"):
		return "[译文]", nil
	case strings.Contains(prompt, "总结以下段落"):
		return "部分摘要", nil
	case strings.Contains(prompt, "综合压缩"):
		return "最终摘要", nil
	case strings.Contains(prompt, "tags"):
		return "AI，测试", nil
	default:
		return "一句话简介", nil
	}
}

// fakeGeneratorFactory records the requested client parameters.
type fakeGeneratorFactory struct {
	apiKey  string
	baseURL string
	model   string
	err     error
}

func (f *fakeGeneratorFactory) NewGenerator(apiKey, baseURL, model string) (generate.Generator, error) {
	f.apiKey, f.baseURL, f.model = apiKey, baseURL, model
	if f.err != nil {
		return nil, f.err
	}
	return stubGenerator{}, nil
}

// fakeFetcher records its inputs and returns a fixed result.
type fakeFetcher struct {
	feeds  []string
	outDir string
	res    feed.Result
	err    error
}

func (f *fakeFetcher) FetchAll(_ context.Context, feeds []string, outDir string, _ *feed.Store) (feed.Result, error) {
	f.feeds, f.outDir = feeds, outDir
	return f.res, f.err
}

type fakeFetcherFactory struct {
	fetcher *fakeFetcher
}

func (f fakeFetcherFactory) NewFetcher(zerolog.Logger) cli.Fetcher {
	return f.fetcher
}

// Compile-time interface verification for the fakes.
var (
	_ cli.ConfigLoader     = fakeConfigLoader{}
	_ cli.GeneratorFactory = (*fakeGeneratorFactory)(nil)
	_ cli.Fetcher          = (*fakeFetcher)(nil)
	_ cli.FetcherFactory   = fakeFetcherFactory{}
)

func envWith(key string) func(string) string {
	return func(name string) string {
		if name == config.EnvAPIKey {
			return key
		}
		return ""
	}
}
