package translate_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/yhzhou/feedsum/internal/translate"
)

// fakeGenerator echoes a tagged version of the text embedded in the prompt.
// The prompt template puts the payload on its own lines, so the last
// non-empty line is the original text.
type fakeGenerator struct {
	mu    sync.Mutex
	calls int
	fail  error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, _ float32) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fail != nil {
		return "", f.fail
	}

	lines := strings.Split(strings.TrimSpace(prompt), "\n")
	payload := lines[len(lines)-1]
	return "译:" + payload, nil
}

func TestChunks(t *testing.T) {
	t.Parallel()

	t.Run("results come back in input order", func(t *testing.T) {
		t.Parallel()

		gen := &fakeGenerator{}
		tr := translate.New(gen)

		chunks := []string{"alpha", "beta", "gamma"}
		got, err := tr.Chunks(context.Background(), chunks)
		if err != nil {
			t.Fatalf("Chunks() error: %v", err)
		}
		want := []string{"译:alpha", "译:beta", "译:gamma"}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
			}
		}
		if gen.calls != 3 {
			t.Errorf("generator calls = %d, want 3", gen.calls)
		}
	})

	t.Run("empty input needs no generation", func(t *testing.T) {
		t.Parallel()

		gen := &fakeGenerator{}
		got, err := translate.New(gen).Chunks(context.Background(), nil)
		if err != nil {
			t.Fatalf("Chunks() error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d results, want 0", len(got))
		}
		if gen.calls != 0 {
			t.Errorf("generator calls = %d, want 0", gen.calls)
		}
	})

	t.Run("failure names the failing chunk", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		gen := &fakeGenerator{fail: boom}
		_, err := translate.New(gen).Chunks(context.Background(), []string{"a", "b"})
		if !errors.Is(err, boom) {
			t.Fatalf("error = %v, want wrapped boom", err)
		}
		if !strings.Contains(err.Error(), "chunk 1/2") {
			t.Errorf("error = %q, want chunk position in message", err)
		}
	})

	t.Run("concurrent execution preserves order", func(t *testing.T) {
		t.Parallel()

		gen := &fakeGenerator{}
		tr := translate.New(gen, translate.WithConcurrency(4))

		var chunks []string
		for i := range 20 {
			chunks = append(chunks, fmt.Sprintf("chunk-%02d", i))
		}
		got, err := tr.Chunks(context.Background(), chunks)
		if err != nil {
			t.Fatalf("Chunks() error: %v", err)
		}
		for i, chunk := range chunks {
			if got[i] != "译:"+chunk {
				t.Errorf("chunk %d = %q, want %q", i, got[i], "译:"+chunk)
			}
		}
	})

	t.Run("cancelled context stops sequential translation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		gen := &fakeGenerator{}
		_, err := translate.New(gen).Chunks(ctx, []string{"a"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
		if gen.calls != 0 {
			t.Errorf("generator calls = %d, want 0", gen.calls)
		}
	})
}

func TestTitle(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{}
	got, err := translate.New(gen).Title(context.Background(), "Hello World")
	if err != nil {
		t.Fatalf("Title() error: %v", err)
	}
	if got != "译:Hello World" {
		t.Errorf("Title() = %q, want %q", got, "译:Hello World")
	}

	boom := errors.New("boom")
	gen = &fakeGenerator{fail: boom}
	if _, err := translate.New(gen).Title(context.Background(), "t"); !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped boom", err)
	}
}
