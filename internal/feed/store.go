package feed

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Store tracks the most recent published timestamp seen per feed URL, so
// each fetch only saves entries published since the previous run. It is an
// explicit object with a load-at-start / save-at-end lifecycle, persisted as
// a flat JSON file of RFC3339 strings.
type Store struct {
	path  string
	times map[string]time.Time
}

// LoadStore reads the store at path. A missing file yields an empty store.
func LoadStore(path string) (*Store, error) {
	s := &Store{path: path, times: make(map[string]time.Time)}

	data, err := os.ReadFile(path) // #nosec G304 -- state file path from config
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read timestamp store: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse timestamp store %s: %w", path, err)
	}
	for url, stamp := range raw {
		t, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp for %s: %w", url, err)
		}
		s.times[url] = t
	}
	return s, nil
}

// Save writes the store back to its file.
func (s *Store) Save() error {
	raw := make(map[string]string, len(s.times))
	for url, t := range s.times {
		raw[url] = t.Format(time.RFC3339)
	}
	data, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return fmt.Errorf("encode timestamp store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil { // #nosec G306 -- state file
		return fmt.Errorf("write timestamp store: %w", err)
	}
	return nil
}

// Last returns the last seen publish time for feedURL, zero when unknown.
func (s *Store) Last(feedURL string) time.Time {
	return s.times[feedURL]
}

// Advance records t for feedURL if it is later than the stored value.
func (s *Store) Advance(feedURL string, t time.Time) {
	if t.After(s.times[feedURL]) {
		s.times[feedURL] = t
	}
}
