// Package config loads the pipeline knobs from a key=value file under the
// user config dir, with environment-variable fallbacks and built-in defaults.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrInvalid indicates a configuration that must be rejected before any
// document is processed.
var ErrInvalid = errors.New("invalid configuration")

// Config file keys.
const (
	KeySourceDir    = "source-dir"
	KeyDestDir      = "dest-dir"
	KeyModel        = "model"
	KeyBaseURL      = "base-url"
	KeySummaryChars = "summary-chars"
	KeyChunkTokens  = "chunk-tokens"
	KeyChunkOverlap = "chunk-overlap"
	KeyConcurrency  = "concurrency"
	KeyFeeds        = "feeds"
	KeyStateFile    = "state-file"
)

// Environment variable fallbacks, consulted when the config file does not
// set the key.
const (
	EnvSourceDir    = "FEEDSUM_SOURCE_DIR"
	EnvDestDir      = "FEEDSUM_DEST_DIR"
	EnvModel        = "FEEDSUM_MODEL"
	EnvBaseURL      = "FEEDSUM_BASE_URL"
	EnvSummaryChars = "FEEDSUM_SUMMARY_CHARS"
	EnvChunkTokens  = "FEEDSUM_CHUNK_TOKENS"
	EnvChunkOverlap = "FEEDSUM_CHUNK_OVERLAP"
	EnvConcurrency  = "FEEDSUM_CONCURRENCY"
	EnvFeeds        = "FEEDSUM_FEEDS"
	EnvStateFile    = "FEEDSUM_STATE_FILE"

	// EnvAPIKey is only ever read from the environment, never the file.
	EnvAPIKey = "DEEPSEEK_API_KEY"
)

// Defaults.
const (
	DefaultModel        = "deepseek-chat"
	DefaultBaseURL      = "https://api.deepseek.com/v1"
	DefaultSummaryChars = 200
	DefaultChunkTokens  = 8000
	DefaultChunkOverlap = 200
	DefaultStateFile    = "last_fetched.json"
)

// Config holds every knob of the fetch and translate pipelines.
type Config struct {
	SourceDir    string   // root of raw Markdown sources
	DestDir      string   // root of the mirrored translated tree
	Model        string   // generation model identifier
	BaseURL      string   // generation service base endpoint
	SummaryChars int      // final summary character cap
	ChunkTokens  int      // chunk token budget
	ChunkOverlap int      // adjacent chunk overlap in tokens
	Concurrency  int      // chunks in flight per document (1 = sequential)
	Feeds        []string // RSS feed URLs
	StateFile    string   // last-fetched timestamp store path
}

// Default returns the built-in configuration. Source and destination roots
// are dated so each day's fetch lands in a fresh pair of trees.
func Default(now time.Time) Config {
	day := now.Format("2006-01-02")
	return Config{
		SourceDir:    "raw_" + day,
		DestDir:      "translated_" + day,
		Model:        DefaultModel,
		BaseURL:      DefaultBaseURL,
		SummaryChars: DefaultSummaryChars,
		ChunkTokens:  DefaultChunkTokens,
		ChunkOverlap: DefaultChunkOverlap,
		Concurrency:  1,
		StateFile:    DefaultStateFile,
	}
}

// Load layers the config file over the environment over the defaults.
// Precedence per key: file, then environment, then default.
func Load(getenv func(string) string, now time.Time) (Config, error) {
	cfg := Default(now)

	p, err := path()
	if err != nil {
		return cfg, err
	}
	file, err := parseFile(p)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	pick := func(key, env string) string {
		if v, ok := file[key]; ok {
			return v
		}
		return getenv(env)
	}

	if v := pick(KeySourceDir, EnvSourceDir); v != "" {
		cfg.SourceDir = v
	}
	if v := pick(KeyDestDir, EnvDestDir); v != "" {
		cfg.DestDir = v
	}
	if v := pick(KeyModel, EnvModel); v != "" {
		cfg.Model = v
	}
	if v := pick(KeyBaseURL, EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := pick(KeyStateFile, EnvStateFile); v != "" {
		cfg.StateFile = v
	}
	if v := pick(KeyFeeds, EnvFeeds); v != "" {
		cfg.Feeds = splitFeeds(v)
	}

	for _, field := range []struct {
		key, env string
		dst      *int
	}{
		{KeySummaryChars, EnvSummaryChars, &cfg.SummaryChars},
		{KeyChunkTokens, EnvChunkTokens, &cfg.ChunkTokens},
		{KeyChunkOverlap, EnvChunkOverlap, &cfg.ChunkOverlap},
		{KeyConcurrency, EnvConcurrency, &cfg.Concurrency},
	} {
		v := pick(field.key, field.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s must be an integer, got %q: %w", field.key, v, ErrInvalid)
		}
		*field.dst = n
	}

	return cfg, nil
}

// Validate rejects configurations that would break segmentation or the
// summarizer. In particular the chunk overlap must be strictly smaller than
// the chunk budget, or window slicing would never make progress.
func (c Config) Validate() error {
	if c.SourceDir == "" {
		return fmt.Errorf("source-dir cannot be empty: %w", ErrInvalid)
	}
	if c.DestDir == "" {
		return fmt.Errorf("dest-dir cannot be empty: %w", ErrInvalid)
	}
	if c.ChunkTokens <= 0 {
		return fmt.Errorf("chunk-tokens must be positive, got %d: %w", c.ChunkTokens, ErrInvalid)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkTokens {
		return fmt.Errorf("chunk-overlap %d must be in [0, chunk-tokens %d): %w",
			c.ChunkOverlap, c.ChunkTokens, ErrInvalid)
	}
	if c.SummaryChars <= 0 {
		return fmt.Errorf("summary-chars must be positive, got %d: %w", c.SummaryChars, ErrInvalid)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d: %w", c.Concurrency, ErrInvalid)
	}
	return nil
}

// splitFeeds parses a comma-separated feed list.
func splitFeeds(raw string) []string {
	var feeds []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			feeds = append(feeds, f)
		}
	}
	return feeds
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/feedsum.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "feedsum"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "feedsum"), nil
}

func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config"), nil
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid syntax at line %d: %q", lineNum, line)
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return data, nil
}

// Save writes a single key=value to the config file, creating the directory
// and file as needed. Existing pairs are preserved, comments are not.
func Save(key, value string) error {
	p, err := path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	existing, _ := parseFile(p)
	if existing == nil {
		existing = make(map[string]string)
	}
	existing[key] = value

	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644) // #nosec G302 G304 -- user config file
	if err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	defer func() { _ = f.Close() }()
	for k, v := range existing {
		if _, err := fmt.Fprintf(f, "%s=%s\n", k, v); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

// List returns the raw config-file contents as a map, empty when no file
// exists yet.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}
	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	return data, nil
}
