/**
 * Document Classifier
 *
 * Guesses the document type by counting distinct keyword markers in the
 * lower-cased text. A type becomes a candidate once its hit count reaches
 * its threshold; the candidate with the strictly highest count wins, ties
 * keep the earliest-registered type. Total and deterministic: always
 * returns a result, never fails.
 */

package classify

import (
	"strings"

	"github.com/opengovlk/docintel-worker/internal/job"
)

// TypeUnknown is returned when no registered type reaches its threshold
const TypeUnknown = "unknown"

// DefaultThreshold is the minimum distinct marker hits for candidacy
const DefaultThreshold = 3

type typeEntry struct {
	name      string
	markers   []string
	threshold int
}

// Classifier scores raw text against per-type keyword marker sets
type Classifier struct {
	types []typeEntry
}

// NewClassifier creates an empty classifier. Use Register to add types;
// NewDefaultClassifier returns one preloaded with the built-in types.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// NewDefaultClassifier returns a classifier with the built-in document
// types registered: national identity card first, then birth certificate.
func NewDefaultClassifier() *Classifier {
	c := NewClassifier()
	c.Register("NIC", []string{
		"national identity card",
		"identity card",
		"nic",
		"department for registration of persons",
		"id number",
		"date of birth",
		"holder",
	}, DefaultThreshold)
	c.Register("BirthCertificate", []string{
		"birth certificate",
		"certificate of birth",
		"registration of births",
		"name of child",
		"place of birth",
		"father",
		"mother",
		"registration number",
	}, DefaultThreshold)
	return c
}

// Register adds a document type with its marker list. Markers are matched
// case-insensitively as substrings; threshold falls back to the default
// when not positive. Registration order decides tie-breaks.
func (c *Classifier) Register(name string, markers []string, threshold int) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	lowered := make([]string, len(markers))
	for i, m := range markers {
		lowered[i] = strings.ToLower(m)
	}
	c.types = append(c.types, typeEntry{name: name, markers: lowered, threshold: threshold})
}

// Classify scores text against every registered type. Each marker counts
// once regardless of how often it repeats.
func (c *Classifier) Classify(text string) job.ClassificationResult {
	lowered := strings.ToLower(text)

	result := job.ClassificationResult{
		DetectedType: TypeUnknown,
		Score:        0,
		HitCounts:    make(map[string]int, len(c.types)),
	}

	for _, entry := range c.types {
		hits := 0
		for _, marker := range entry.markers {
			if strings.Contains(lowered, marker) {
				hits++
			}
		}
		result.HitCounts[entry.name] = hits

		// strictly-higher wins; first registered keeps ties
		if hits >= entry.threshold && hits > result.Score {
			result.DetectedType = entry.name
			result.Score = hits
		}
	}

	return result
}
