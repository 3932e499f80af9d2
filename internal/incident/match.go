package incident

import "github.com/rvasily/incident-capture-service/internal/document"

// Matches reports whether a stored (headers, body) pair satisfies a set of
// search terms.
//
// Terms are OR-ed: one satisfied term is enough. A term (key, want) is
// satisfied when the key exists top-level in either document and the stored
// value equals the expected value after both sides are coerced to their
// canonical string form, so a stored numeric 300 matches a query "300".
// Nested structures are compared by their outer JSON form, never descended
// into. An empty term set matches nothing.
func Matches(headers, body document.Value, terms map[string]document.Value) bool {
	for key, want := range terms {
		wantStr := want.CoerceString()
		if got, ok := headers.Field(key); ok && got.CoerceString() == wantStr {
			return true
		}
		if got, ok := body.Field(key); ok && got.CoerceString() == wantStr {
			return true
		}
	}
	return false
}
