/**
 * Birth certificate field extractor
 *
 * Line-by-line labeled lookup for the child's name, place of birth and
 * parents' names, a registration number token, plus date of birth and sex
 * using the same patterns as the identity-card extractor. Best-effort:
 * a missing pattern simply omits that key.
 */

package fields

import (
	"regexp"

	"github.com/opengovlk/docintel-worker/internal/job"
)

// alphanumeric token, slashes and dashes allowed (e.g. 1234/2009-BC)
var registrationNumberRe = regexp.MustCompile(`(?i)registration number\s*:\s*([A-Za-z0-9/-]+)`)

var birthCertLabels = newLabelSet(
	map[string][]string{
		"child_name":     {"name of child", "child name", "name"},
		"place_of_birth": {"place of birth", "birth place"},
		"father_name":    {"father", "father's name", "name of father"},
		"mother_name":    {"mother", "mother's name", "name of mother"},
	},
	[]string{"date of birth", "date of registration", "registration number", "sex", "birth certificate"},
)

// ExtractBirthCertificate parses birth certificate text into structured fields
func ExtractBirthCertificate(text string) job.FieldMap {
	fm := job.FieldMap{}

	for field, value := range birthCertLabels.scan(text) {
		fm[field] = value
	}

	if m := registrationNumberRe.FindStringSubmatch(text); m != nil {
		fm["registration_number"] = m[1]
	}

	if m := dateRe.FindString(text); m != "" {
		fm["date_of_birth"] = m
	}

	if m := genderRe.FindString(text); m != "" {
		fm["sex"] = m
	}

	return fm
}
