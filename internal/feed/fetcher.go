// Package feed polls RSS feeds and saves new entries as front-mattered
// Markdown sources for the translation pipeline.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	md "github.com/JohannesKaufmann/html-to-markdown"
	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/yhzhou/feedsum/internal/apierr"
	"github.com/yhzhou/feedsum/internal/frontmatter"
)

const (
	defaultUserAgent   = "Mozilla/5.0 (compatible; feedsum/1.0)"
	defaultHTTPTimeout = 10 * time.Second

	// maxArticleSize bounds article downloads to keep a hostile page from
	// exhausting memory (5MB of HTML is already far beyond any article).
	maxArticleSize = 5 * 1024 * 1024
)

// Fetcher polls feeds and writes one Markdown file per new entry.
type Fetcher struct {
	parser    *gofeed.Parser
	client    *http.Client
	conv      *md.Converter
	log       zerolog.Logger
	userAgent string
	retry     apierr.RetryConfig
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets the HTTP client used for article downloads.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithRetry sets the retry parameters for article downloads.
func WithRetry(cfg apierr.RetryConfig) FetcherOption {
	return func(f *Fetcher) {
		f.retry = cfg
	}
}

// NewFetcher creates a Fetcher. Images are stripped during HTML-to-Markdown
// conversion; the pipeline translates text only.
func NewFetcher(log zerolog.Logger, opts ...FetcherOption) *Fetcher {
	conv := md.NewConverter("", true, nil)
	conv.Remove("img")

	f := &Fetcher{
		parser:    gofeed.NewParser(),
		client:    &http.Client{Timeout: defaultHTTPTimeout},
		conv:      conv,
		log:       log,
		userAgent: defaultUserAgent,
		retry: apierr.RetryConfig{
			MaxRetries: 3,
			BaseDelay:  500 * time.Millisecond,
			MaxDelay:   5 * time.Second,
		},
	}
	f.parser.UserAgent = f.userAgent
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Result tallies one fetch run.
type Result struct {
	Feeds   int // feeds fetched without error
	Saved   int // entries written as Markdown sources
	Skipped int // entries with no retrievable content
}

// FetchAll polls every feed and writes new entries under outDir, one
// subdirectory per feed. A failing feed is logged and skipped; the run
// continues. The store is advanced in memory only; the caller saves it.
func (f *Fetcher) FetchAll(ctx context.Context, feeds []string, outDir string, store *Store) (Result, error) {
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return Result{}, fmt.Errorf("create output directory: %w", err)
	}

	var res Result
	for _, feedURL := range feeds {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		saved, skipped, err := f.fetchFeed(ctx, feedURL, outDir, store)
		if err != nil {
			f.log.Error().Err(err).Str("feed", feedURL).Msg("feed failed")
			continue
		}
		res.Feeds++
		res.Saved += saved
		res.Skipped += skipped
	}
	return res, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, feedURL, outDir string, store *Store) (saved, skipped int, err error) {
	parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("parse feed: %w", err)
	}

	title := parsed.Title
	if title == "" {
		title = feedURL
	}
	dir := filepath.Join(outDir, "_"+SanitizeFilename(title))
	if err := os.MkdirAll(dir, 0750); err != nil {
		return 0, 0, fmt.Errorf("create feed directory: %w", err)
	}

	last := store.Last(feedURL)
	latest := last

	for _, item := range parsed.Items {
		if err := ctx.Err(); err != nil {
			return saved, skipped, err
		}

		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}
		if published == nil || !published.After(last) {
			continue
		}
		if published.After(latest) {
			latest = *published
		}
		if item.Link == "" {
			continue
		}

		body, err := f.articleMarkdown(ctx, item.Link)
		if err != nil || strings.TrimSpace(body) == "" {
			skipped++
			f.log.Warn().Err(err).Str("link", item.Link).Msg("entry skipped, no content")
			continue
		}

		content, err := composeSource(item.Title, *published, item.Link, body)
		if err != nil {
			skipped++
			f.log.Warn().Err(err).Str("link", item.Link).Msg("entry skipped")
			continue
		}

		name := published.Format("2006-01-02") + "_" + SanitizeFilename(item.Title) + ".md"
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil { // #nosec G306 -- source file
			return saved, skipped, fmt.Errorf("write %s: %w", path, err)
		}
		saved++
		f.log.Info().Str("path", path).Msg("entry saved")
	}

	store.Advance(feedURL, latest)
	return saved, skipped, nil
}

// articleMarkdown downloads the full article, extracts the readable content
// and converts it to Markdown. When extraction yields nothing, the raw page
// is converted instead.
func (f *Fetcher) articleMarkdown(ctx context.Context, link string) (string, error) {
	html, err := apierr.RetryWithBackoff(ctx, f.retry, func() (string, error) {
		return f.get(ctx, link)
	}, isRetryableFetch)
	if err != nil {
		return "", err
	}

	pageURL, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parse article URL: %w", err)
	}

	source := html
	if article, err := readability.FromReader(strings.NewReader(html), pageURL); err == nil &&
		strings.TrimSpace(article.Content) != "" {
		source = article.Content
	}

	markdown, err := f.conv.ConvertString(source)
	if err != nil {
		return "", fmt.Errorf("convert article to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}

func (f *Fetcher) get(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArticleSize))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &fetchError{status: resp.StatusCode, url: link}
	}
	return string(body), nil
}

// fetchError is a non-2xx article download.
type fetchError struct {
	status int
	url    string
}

func (e *fetchError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.url, e.status)
}

// isRetryableFetch retries the same status set the feed sources themselves
// tend to throttle with.
func isRetryableFetch(err error) bool {
	var fe *fetchError
	if errors.As(err, &fe) {
		switch fe.status {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	// Transport-level failures are retryable unless the context is done.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// composeSource builds the front-mattered Markdown source for one entry.
func composeSource(title string, published time.Time, link, body string) (string, error) {
	var front frontmatter.FrontMatter
	if err := front.Set("title", title); err != nil {
		return "", err
	}
	if err := front.Set("date", published.Format(time.RFC3339)); err != nil {
		return "", err
	}
	if err := front.Set("link", link); err != nil {
		return "", err
	}
	fmText, err := front.Marshal()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("---\n%s\n---\n\n%s\n", fmText, body), nil
}

// SanitizeFilename keeps letters, digits, spaces, dots and underscores,
// dropping everything else, with trailing spaces trimmed. Letters include
// CJK, so non-ASCII titles stay readable.
func SanitizeFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '.' || r == '_' {
			return r
		}
		return -1
	}, name)
	return strings.TrimRight(cleaned, " ")
}
