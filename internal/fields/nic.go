/**
 * National Identity Card field extractor
 *
 * Recognizes both the legacy 9-digit-plus-letter NIC number and the newer
 * 12-digit form; the first match in document order wins. Name and address
 * come from labeled lookups, date of birth and gender from fixed patterns.
 * Every field is independently optional.
 */

package fields

import (
	"regexp"

	"github.com/opengovlk/docintel-worker/internal/job"
)

var (
	// legacy form first: 901234567V; then the 12-digit form
	nicNumberRe = regexp.MustCompile(`\b(\d{9}[VvXx]|\d{12})\b`)

	// YYYY-MM-DD with -, / or . separators
	dateRe = regexp.MustCompile(`\b\d{4}[-/.]\d{1,2}[-/.]\d{1,2}\b`)

	// whole-word match, original casing preserved from the document
	genderRe = regexp.MustCompile(`(?i)\b(male|female)\b`)
)

var nicLabels = newLabelSet(
	map[string][]string{
		"name":    {"name"},
		"address": {"address"},
	},
	[]string{"id number", "nic no", "date of birth", "sex", "national identity card"},
)

// ExtractNIC parses national identity card text into structured fields
func ExtractNIC(text string) job.FieldMap {
	fm := job.FieldMap{}

	if m := nicNumberRe.FindString(text); m != "" {
		fm["nic_number"] = m
	}

	for field, value := range nicLabels.scan(text) {
		fm[field] = value
	}

	if m := dateRe.FindString(text); m != "" {
		fm["date_of_birth"] = m
	}

	if m := genderRe.FindString(text); m != "" {
		fm["gender"] = m
	}

	return fm
}
