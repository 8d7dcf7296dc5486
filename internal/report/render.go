package report

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Sentinel values substituted when real data is absent.
const (
	naSentinel      = "N/A"
	noItemsSentinel = "No work items found"
)

var (
	placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)
	tableRowRe    = regexp.MustCompile(`(?s)<tr\b[^>]*>.*?</tr>`)
)

// htmlEscaper covers the five reserved HTML characters and nothing else.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Render expands the template document into the final report. Every {sprint}
// placeholder is replaced with the escaped label, the single placeholder-
// bearing table row is located and stamped once per data row, and the rest
// of the template is preserved verbatim. With zero rows a single sentinel
// row is emitted instead.
func Render(templateHTML, sprintLabel string, rows []map[string]interface{}) (string, error) {
	out := strings.ReplaceAll(templateHTML, "{sprint}", htmlEscaper.Replace(strings.TrimSpace(sprintLabel)))

	candidates := tableRowRe.FindAllString(out, -1)
	if len(candidates) == 0 {
		return "", errors.New("template contains no table row")
	}

	rowTemplate := ""
	for _, candidate := range candidates {
		if placeholderRe.MatchString(candidate) {
			rowTemplate = candidate
			break
		}
	}
	if rowTemplate == "" {
		return "", errors.New("no table row in the template contains placeholders")
	}

	names := placeholderNames(rowTemplate)

	var rendered strings.Builder
	if len(rows) == 0 {
		rendered.WriteString(expandRow(rowTemplate, names, func(string) string {
			return noItemsSentinel
		}))
	} else {
		for _, row := range rows {
			values := row
			rendered.WriteString(expandRow(rowTemplate, names, func(name string) string {
				return displayValue(values[name])
			}))
		}
	}

	return strings.Replace(out, rowTemplate, rendered.String(), 1), nil
}

// placeholderNames returns the distinct placeholder names in the fragment, in
// order of first appearance.
func placeholderNames(fragment string) []string {
	var names []string
	seen := map[string]bool{}
	for _, match := range placeholderRe.FindAllStringSubmatch(fragment, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			names = append(names, match[1])
		}
	}
	return names
}

// expandRow stamps one output row. Placeholders inside an href attribute are
// special-cased: a sentinel value deletes the whole attribute instead of
// producing a dead link. Occurrences outside the attribute still receive the
// sentinel text.
func expandRow(rowTemplate string, names []string, valueFor func(string) string) string {
	row := rowTemplate
	for _, name := range names {
		value := valueFor(name)
		hrefAttr := fmt.Sprintf(`href="{%s}"`, name)
		if strings.Contains(row, hrefAttr) && isSentinel(value) {
			row = regexp.MustCompile(`\s*href="\{`+name+`\}"`).ReplaceAllString(row, "")
		}
		row = strings.ReplaceAll(row, "{"+name+"}", htmlEscaper.Replace(value))
	}
	return row
}

func isSentinel(value string) bool {
	return value == naSentinel || value == noItemsSentinel
}

// displayValue renders a raw field value for the report: numbers and dates
// are formatted, strings trimmed, and anything missing or invalid becomes
// the N/A sentinel.
func displayValue(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return naSentinel
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return naSentinel
		}
		return s
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return naSentinel
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		if v.IsZero() {
			return naSentinel
		}
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
