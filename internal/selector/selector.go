// Package selector decides which links carry the glitch effect, the way a
// CSS class selects elements on a page. Patterns are doublestar globs over
// link IDs such as "nav/*" or "footer/**".
package selector

import (
	"fmt"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// Selector matches link IDs against a set of glob patterns. The zero value
// matches every ID.
type Selector struct {
	patterns []string
}

// Parse builds a Selector from a comma-separated pattern list.
func Parse(s string) (Selector, error) {
	var sel Selector
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return Selector{}, fmt.Errorf("invalid glitch pattern %q", p)
		}
		sel.patterns = append(sel.patterns, p)
	}
	return sel, nil
}

// MustParse is Parse for patterns known at compile time.
func MustParse(s string) Selector {
	sel, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return sel
}

// Match reports whether id is selected.
func (s Selector) Match(id string) bool {
	if len(s.patterns) == 0 {
		return true
	}
	for _, p := range s.patterns {
		if ok, _ := doublestar.Match(p, id); ok {
			return true
		}
	}
	return false
}

// Patterns returns the parsed patterns.
func (s Selector) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

func (s Selector) String() string {
	return strings.Join(s.patterns, ",")
}
