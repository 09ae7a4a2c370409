// Package admission caps how many rows of high-frequency model families are
// let into the registry during one ingestion pass.
package admission

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Family describes one tracked model family.
type Family struct {
	// Name labels the family in logs, metrics and counters.
	Name string `koanf:"name" json:"name" yaml:"name"`
	// Pattern is a case-insensitive regular expression matched against the raw version.
	Pattern string `koanf:"pattern" json:"pattern" yaml:"pattern"`
	// Exclude, when set, vetoes a Pattern match. RE2 has no lookahead, so
	// "gpt-5 but not gpt-5.2" is written as Pattern gpt-5, Exclude gpt-5\.2.
	Exclude string `koanf:"exclude" json:"exclude,omitempty" yaml:"exclude,omitempty"`
	// Ceiling is the number of matching rows admitted per pass.
	Ceiling int `koanf:"ceiling" json:"ceiling" yaml:"ceiling"`
}

// DefaultFamilies returns the stock family table in priority order.
func DefaultFamilies() []Family {
	return []Family{
		{Name: "gpt-5.2", Pattern: `gpt-5\.2`, Ceiling: 2},
		{Name: "gpt-5", Pattern: `gpt-5`, Exclude: `gpt-5\.2`, Ceiling: 2},
		{Name: "gemini-3", Pattern: `gemini-3`, Ceiling: 1},
	}
}

// Counter is a point-in-time view of one family's state.
type Counter struct {
	Name     string   `json:"name" yaml:"name"`
	Ceiling  int      `json:"ceiling" yaml:"ceiling"`
	Count    int      `json:"count" yaml:"count"`
	Admitted []string `json:"admitted" yaml:"admitted"`
	Rejected []string `json:"rejected" yaml:"rejected"`
}

type tracked struct {
	Family
	match    *regexp.Regexp
	exclude  *regexp.Regexp
	count    int
	admitted []string
	rejected []string
}

func (t *tracked) matches(version string) bool {
	if !t.match.MatchString(version) {
		return false
	}
	return t.exclude == nil || !t.exclude.MatchString(version)
}

// Filter holds the admission counters of one ingestion pass. It is safe for
// concurrent use; the first Ceiling matching calls win regardless of caller.
type Filter struct {
	mu       sync.Mutex
	families []*tracked
}

// New compiles families into a Filter with all counters at zero.
func New(families []Family) (*Filter, error) {
	f := &Filter{families: make([]*tracked, 0, len(families))}
	for i, fam := range families {
		if strings.TrimSpace(fam.Pattern) == "" {
			return nil, fmt.Errorf("family %d (%s): empty pattern: %w", i, fam.Name, ErrInvalidFamily)
		}
		if fam.Ceiling < 0 {
			return nil, fmt.Errorf("family %d (%s): negative ceiling: %w", i, fam.Name, ErrInvalidFamily)
		}
		match, err := regexp.Compile("(?i)" + fam.Pattern)
		if err != nil {
			return nil, fmt.Errorf("family %d (%s): %w: %v", i, fam.Name, ErrInvalidFamily, err)
		}
		t := &tracked{Family: fam, match: match}
		if fam.Exclude != "" {
			if t.exclude, err = regexp.Compile("(?i)" + fam.Exclude); err != nil {
				return nil, fmt.Errorf("family %d (%s) exclude: %w: %v", i, fam.Name, ErrInvalidFamily, err)
			}
		}
		if t.Name == "" {
			t.Name = fam.Pattern
		}
		f.families = append(f.families, t)
	}
	return f, nil
}

// Admit decides whether a row with this raw version may enter the registry.
// The first matching family, in table order, counts the row; the row is
// rejected once that count passes the family's ceiling. Rows matching no
// family are always admitted and family is empty.
func (f *Filter) Admit(_ context.Context, version string) (admitted bool, family string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.families {
		if !t.matches(version) {
			continue
		}
		t.count++
		if t.count > t.Ceiling {
			t.rejected = append(t.rejected, version)
			return false, t.Name
		}
		t.admitted = append(t.admitted, version)
		return true, t.Name
	}
	return true, ""
}

// Reset zeroes every counter and clears the match logs.
func (f *Filter) Reset(_ context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.families {
		t.count = 0
		t.admitted = nil
		t.rejected = nil
	}
}

// Counters returns a copy of every family's state in table order.
func (f *Filter) Counters() []Counter {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Counter, len(f.families))
	for i, t := range f.families {
		out[i] = Counter{
			Name:     t.Name,
			Ceiling:  t.Ceiling,
			Count:    t.count,
			Admitted: append([]string(nil), t.admitted...),
			Rejected: append([]string(nil), t.rejected...),
		}
	}
	return out
}
