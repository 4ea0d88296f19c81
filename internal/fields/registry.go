/**
 * Field Extractor Registry
 *
 * Holds one extractor per document type. Each extractor is a pure function
 * from raw text to a FieldMap; extraction is best-effort and never fails
 * on partial documents. Unregistered types (including "unknown") yield an
 * empty FieldMap.
 */

package fields

import (
	"github.com/opengovlk/docintel-worker/internal/job"
)

// Extractor parses raw document text into structured fields
type Extractor func(text string) job.FieldMap

// Registry maps document types to their extractors. Registration happens
// during startup wiring; lookups afterwards are read-only.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[string]Extractor)}
}

// NewDefaultRegistry returns a registry with the built-in extractors for
// national identity cards and birth certificates.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("NIC", ExtractNIC)
	r.Register("BirthCertificate", ExtractBirthCertificate)
	return r
}

// Register binds an extractor to a document type, replacing any previous one
func (r *Registry) Register(docType string, fn Extractor) {
	r.extractors[docType] = fn
}

// Extract runs the extractor registered for docType. Types without an
// extractor produce an empty FieldMap, never an error.
func (r *Registry) Extract(docType, text string) job.FieldMap {
	fn, ok := r.extractors[docType]
	if !ok {
		return job.FieldMap{}
	}
	return fn(text)
}

// RequiredFields returns the expected field schema per document type,
// consumed by suspicion evaluation. Unknown types expect nothing.
func RequiredFields(docType string) []string {
	switch docType {
	case "NIC":
		return []string{"nic_number", "name", "date_of_birth"}
	case "BirthCertificate":
		return []string{"child_name", "date_of_birth", "registration_number"}
	default:
		return nil
	}
}
