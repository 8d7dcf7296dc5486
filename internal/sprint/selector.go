package sprint

import (
	"fmt"
	"strings"
	"time"

	"qareport/internal/stringutils"
)

// Window is a sprint's date range plus identifying metadata.
type Window struct {
	Start  time.Time
	Finish time.Time
	Name   string
	Path   string
	ID     string
}

// Selection is the outcome of picking the iteration(s) to report on. Windows
// holds zero or one entries; an empty selection is a "nothing to report"
// condition, not an error.
type Selection struct {
	Windows []Window
	Label   string
}

// Select picks the iteration to report on. With no query it prefers the
// window containing now (inclusive on both ends) and falls back to the
// chronologically last window. With a query it tries an exact match on any
// candidate key (name, path, path segment, id) before a substring match, and
// fails naming the query when neither matches.
func Select(windows []Window, now time.Time, query string) (Selection, error) {
	query = strings.TrimSpace(query)

	if len(windows) == 0 {
		return Selection{Label: query}, nil
	}

	if query == "" {
		w := currentOrLatest(windows, now)
		return Selection{Windows: []Window{w}, Label: w.Name}, nil
	}

	norm := stringutils.NormalizeKey(query)

	for _, w := range windows {
		if matches(w, norm, true) {
			return Selection{Windows: []Window{w}, Label: w.Name}, nil
		}
	}
	for _, w := range windows {
		if matches(w, norm, false) {
			return Selection{Windows: []Window{w}, Label: w.Name}, nil
		}
	}

	return Selection{}, fmt.Errorf("no matching iteration for sprint %q", query)
}

func currentOrLatest(windows []Window, now time.Time) Window {
	for _, w := range windows {
		if !now.Before(w.Start) && !now.After(w.Finish) {
			return w
		}
	}

	latest := windows[0]
	for _, w := range windows[1:] {
		if w.Start.After(latest.Start) {
			latest = w
		}
	}
	return latest
}

func matches(w Window, norm string, exact bool) bool {
	keys := []string{w.Name, w.Path, w.ID}
	for _, segment := range strings.Split(w.Path, `\`) {
		keys = append(keys, segment)
	}

	for _, key := range keys {
		k := stringutils.NormalizeKey(key)
		if k == "" {
			continue
		}
		if exact && k == norm {
			return true
		}
		if !exact && strings.Contains(k, norm) {
			return true
		}
	}
	return false
}
