package models

import "github.com/rvasily/incident-capture-service/internal/document"

// Incident is one captured request snapshot. Headers carry lowercased keys;
// the fingerprint travels on the wire under the name "hash".
type Incident struct {
	ID          int64          `json:"id"`
	Headers     document.Value `json:"headers"`
	Body        document.Value `json:"body"`
	Fingerprint string         `json:"hash"`
}

// RecordResponse is returned by POST /problems.
type RecordResponse struct {
	Hash string `json:"hash"`
}

// SearchResponse wraps the incident lists returned by /find and /find2.
type SearchResponse struct {
	Results []Incident `json:"results"`
}
