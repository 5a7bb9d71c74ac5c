// Package frontmatter parses and serializes YAML front-matter blocks while
// preserving key order, value types and unicode. Values are kept as yaml
// nodes so passthrough keys survive a round trip untouched.
package frontmatter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type pair struct {
	key   string
	value *yaml.Node
}

// FrontMatter is an ordered mapping of front-matter keys to YAML values.
// The zero value is an empty, usable front matter.
type FrontMatter struct {
	pairs []pair
}

const fence = "---\n"

// Split separates an optional leading front-matter block from the body.
// Malformed YAML inside a recognized block degrades to an empty front matter
// rather than failing: a broken metadata block is not worth losing the
// document over. A missing or unterminated block means the whole text is body.
func Split(text string) (FrontMatter, string) {
	if !strings.HasPrefix(text, fence) {
		return FrontMatter{}, text
	}
	end := strings.Index(text[len(fence):], "\n---")
	if end < 0 {
		return FrontMatter{}, text
	}

	raw := text[len(fence) : len(fence)+end]
	body := strings.TrimLeft(text[len(fence)+end+4:], "\n")

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return FrontMatter{}, body
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return FrontMatter{}, body
	}

	var fm FrontMatter
	m := doc.Content[0]
	for i := 0; i+1 < len(m.Content); i += 2 {
		fm.pairs = append(fm.pairs, pair{key: m.Content[i].Value, value: m.Content[i+1]})
	}
	return fm, body
}

// Len returns the number of keys.
func (f *FrontMatter) Len() int {
	return len(f.pairs)
}

// Keys returns the keys in insertion order.
func (f *FrontMatter) Keys() []string {
	keys := make([]string, len(f.pairs))
	for i, p := range f.pairs {
		keys[i] = p.key
	}
	return keys
}

// Has reports whether key is present.
func (f *FrontMatter) Has(key string) bool {
	for _, p := range f.pairs {
		if p.key == key {
			return true
		}
	}
	return false
}

// Get returns the scalar value of key. The second result is false when the
// key is absent or its value is not a scalar.
func (f *FrontMatter) Get(key string) (string, bool) {
	for _, p := range f.pairs {
		if p.key == key {
			if p.value.Kind != yaml.ScalarNode {
				return "", false
			}
			return p.value.Value, true
		}
	}
	return "", false
}

// Set replaces the value of key in place, or appends the key at the end when
// it is new. The value may be any yaml-encodable Go value.
func (f *FrontMatter) Set(key string, value any) error {
	var n yaml.Node
	if err := n.Encode(value); err != nil {
		return fmt.Errorf("encode front-matter value for %q: %w", key, err)
	}
	for i, p := range f.pairs {
		if p.key == key {
			f.pairs[i].value = &n
			return nil
		}
	}
	f.pairs = append(f.pairs, pair{key: key, value: &n})
	return nil
}

// Remove deletes key and returns its scalar value. The returned string is
// empty when the key was absent or its value was not a scalar.
func (f *FrontMatter) Remove(key string) (string, bool) {
	for i, p := range f.pairs {
		if p.key == key {
			value := ""
			if p.value.Kind == yaml.ScalarNode {
				value = p.value.Value
			}
			f.pairs = append(f.pairs[:i], f.pairs[i+1:]...)
			return value, true
		}
	}
	return "", false
}

// Marshal serializes the front matter as YAML with insertion order preserved
// and without the surrounding fences. An empty front matter serializes as {}.
func (f *FrontMatter) Marshal() (string, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range f.pairs {
		k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.key}
		m.Content = append(m.Content, k, p.value)
	}
	out, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("serialize front matter: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
