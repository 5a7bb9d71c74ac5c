// Package token approximates generation-service token costs. The same
// estimator that measures a span is used to slice it, so chunk sizing and
// window slicing always agree with each other.
package token

import (
	"github.com/pkoukk/tiktoken-go"
)

// Estimator measures and slices text in estimated tokens.
type Estimator interface {
	// Count returns the estimated token length of text.
	// It is monotonic with text length.
	Count(text string) int

	// Windows slices text into overlapping windows of at most window tokens,
	// advancing stride tokens between window starts. The final window may be
	// shorter than window. Callers must ensure 0 < stride <= window.
	Windows(text string, window, stride int) []string
}

// NewEstimator returns the most precise estimator available: a cl100k_base
// tiktoken encoder when its vocabulary can be loaded, otherwise a rune-count
// heuristic. The fallback degrades chunk-size accuracy, never correctness.
func NewEstimator() Estimator {
	if enc, err := tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE); err == nil {
		return &tiktokenEstimator{enc: enc}
	}
	return HeuristicEstimator{}
}

// tiktokenEstimator counts exact cl100k_base tokens and slices over the
// encoded token array.
type tiktokenEstimator struct {
	enc *tiktoken.Tiktoken
}

func (e *tiktokenEstimator) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(e.enc.Encode(text, nil, nil))
}

func (e *tiktokenEstimator) Windows(text string, window, stride int) []string {
	toks := e.enc.Encode(text, nil, nil)
	var out []string
	for i := 0; i < len(toks); i += stride {
		end := min(i+window, len(toks))
		out = append(out, e.enc.Decode(toks[i:end]))
		if end == len(toks) {
			break
		}
	}
	return out
}

// runesPerToken is the usual ~4 characters per token approximation.
const runesPerToken = 4

// HeuristicEstimator approximates tokens from the rune count. It exists so
// the pipeline keeps working when the tiktoken vocabulary cannot be loaded
// (it is fetched over the network on first use).
type HeuristicEstimator struct{}

func (HeuristicEstimator) Count(text string) int {
	n := 0
	for range text {
		n++
	}
	return (n + runesPerToken - 1) / runesPerToken
}

// Windows slices over rune indices at runesPerToken runes per token, so CJK
// text is never cut mid-codepoint.
func (HeuristicEstimator) Windows(text string, window, stride int) []string {
	rs := []rune(text)
	w := window * runesPerToken
	s := stride * runesPerToken
	var out []string
	for i := 0; i < len(rs); i += s {
		end := min(i+w, len(rs))
		out = append(out, string(rs[i:end]))
		if end == len(rs) {
			break
		}
	}
	return out
}
