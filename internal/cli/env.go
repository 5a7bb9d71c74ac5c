// Package cli implements the feedsum subcommands. Commands receive their
// dependencies through Env so tests can run them against fakes.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/yhzhou/feedsum/internal/config"
	"github.com/yhzhou/feedsum/internal/feed"
	"github.com/yhzhou/feedsum/internal/generate"
)

// Env holds injectable dependencies for CLI commands. All fields have
// production defaults via DefaultEnv; tests override individual fields with
// the With* options.
type Env struct {
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time
	Log    zerolog.Logger

	ConfigLoader     ConfigLoader
	GeneratorFactory GeneratorFactory
	FetcherFactory   FetcherFactory
}

// ConfigLoader loads the layered configuration.
type ConfigLoader interface {
	Load(getenv func(string) string, now time.Time) (config.Config, error)
}

// GeneratorFactory creates generation clients.
type GeneratorFactory interface {
	NewGenerator(apiKey, baseURL, model string) (generate.Generator, error)
}

// Fetcher polls feeds into a source directory.
type Fetcher interface {
	FetchAll(ctx context.Context, feeds []string, outDir string, store *feed.Store) (feed.Result, error)
}

// FetcherFactory creates feed fetchers.
type FetcherFactory interface {
	NewFetcher(log zerolog.Logger) Fetcher
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) { e.Stderr = w }
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) { e.Getenv = fn }
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) { e.Now = fn }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) EnvOption {
	return func(e *Env) { e.Log = log }
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) { e.ConfigLoader = l }
}

// WithGeneratorFactory sets the generation client factory.
func WithGeneratorFactory(f GeneratorFactory) EnvOption {
	return func(e *Env) { e.GeneratorFactory = f }
}

// WithFetcherFactory sets the feed fetcher factory.
func WithFetcherFactory(f FetcherFactory) EnvOption {
	return func(e *Env) { e.FetcherFactory = f }
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stderr:           os.Stderr,
		Getenv:           os.Getenv,
		Now:              time.Now,
		Log:              zerolog.Nop(),
		ConfigLoader:     defaultConfigLoader{},
		GeneratorFactory: defaultGeneratorFactory{},
		FetcherFactory:   defaultFetcherFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

type defaultConfigLoader struct{}

func (defaultConfigLoader) Load(getenv func(string) string, now time.Time) (config.Config, error) {
	return config.Load(getenv, now)
}

type defaultGeneratorFactory struct{}

func (defaultGeneratorFactory) NewGenerator(apiKey, baseURL, model string) (generate.Generator, error) {
	return generate.NewClient(apiKey, baseURL, model)
}

type defaultFetcherFactory struct{}

func (defaultFetcherFactory) NewFetcher(log zerolog.Logger) Fetcher {
	return feed.NewFetcher(log)
}

// Compile-time interface verification.
var (
	_ ConfigLoader     = defaultConfigLoader{}
	_ GeneratorFactory = defaultGeneratorFactory{}
	_ FetcherFactory   = defaultFetcherFactory{}
)
