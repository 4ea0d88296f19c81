/**
 * Labeled-value scanner shared by the built-in extractors
 *
 * Scanned documents carry "Label: value" runs, sometimes one per line,
 * sometimes several on the same OCR line. The scanner finds every known
 * label occurrence in a line (longest label wins at a position) and takes
 * the value as the text between a label and the next label or end of line.
 * The first line yielding a non-empty value for a field wins.
 */

package fields

import (
	"regexp"
	"sort"
	"strings"
)

// labelSet describes the labels of one document type. fieldFor maps each
// label to the field it populates; labels present in the pattern but
// absent from fieldFor act only as value boundaries.
type labelSet struct {
	pattern  *regexp.Regexp
	fieldFor map[string]string
}

// newLabelSet compiles the combined label pattern. fieldLabels maps field
// name to its accepted labels; stopLabels are boundary-only.
func newLabelSet(fieldLabels map[string][]string, stopLabels []string) *labelSet {
	fieldFor := make(map[string]string)
	var all []string

	for field, labels := range fieldLabels {
		for _, label := range labels {
			l := strings.ToLower(label)
			fieldFor[l] = field
			all = append(all, l)
		}
	}
	all = append(all, stopLabels...)

	// longer labels first so "name of child" beats "name"
	sort.Slice(all, func(i, j int) bool {
		if len(all[i]) != len(all[j]) {
			return len(all[i]) > len(all[j])
		}
		return all[i] < all[j]
	})

	quoted := make([]string, len(all))
	for i, label := range all {
		quoted[i] = regexp.QuoteMeta(label)
	}

	// a label counts only at a word boundary, followed by a colon or
	// whitespace before its value
	pattern := regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)(?:\s*:\s*|\s+)`)

	return &labelSet{pattern: pattern, fieldFor: fieldFor}
}

// scan extracts labeled values from text, line by line. For every field
// only the first non-empty value found in document order is kept.
func (s *labelSet) scan(text string) map[string]string {
	out := make(map[string]string)

	for _, line := range strings.Split(text, "\n") {
		matches := s.pattern.FindAllStringSubmatchIndex(line, -1)
		for i, m := range matches {
			label := strings.ToLower(line[m[2]:m[3]])
			field, ok := s.fieldFor[label]
			if !ok {
				continue
			}
			if _, seen := out[field]; seen {
				continue
			}

			end := len(line)
			if i+1 < len(matches) {
				end = matches[i+1][0]
			}

			value := strings.TrimFunc(line[m[1]:end], func(r rune) bool {
				return r == ' ' || r == '\t' || r == ':' || r == '-' || r == ','
			})
			if value != "" {
				out[field] = value
			}
		}
	}

	return out
}
