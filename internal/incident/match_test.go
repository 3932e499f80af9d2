package incident

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rvasily/incident-capture-service/internal/document"
)

func terms(t *testing.T, src string) map[string]document.Value {
	t.Helper()
	return doc(t, src).Fields()
}

func TestMatches_EmptyTermsMatchNothing(t *testing.T) {
	h := doc(t, `{"id":"abc"}`)
	b := doc(t, `{"value":100}`)

	assert.False(t, Matches(h, b, nil))
	assert.False(t, Matches(h, b, map[string]document.Value{}))
}

func TestMatches_KeyInHeaders(t *testing.T) {
	h := doc(t, `{"id":"def"}`)
	b := doc(t, `{"other_value":200}`)

	assert.True(t, Matches(h, b, terms(t, `{"id":"def"}`)))
}

func TestMatches_KeyInBody(t *testing.T) {
	h := doc(t, `{"x-find-test":"1"}`)
	b := doc(t, `{"id":"abc","value":100}`)

	assert.True(t, Matches(h, b, terms(t, `{"id":"abc"}`)))
}

func TestMatches_ValueMustAgree(t *testing.T) {
	h := doc(t, `{}`)
	b := doc(t, `{"id":"abc"}`)

	assert.False(t, Matches(h, b, terms(t, `{"id":"xyz"}`)))
}

func TestMatches_UnknownKey(t *testing.T) {
	h := doc(t, `{"id":"abc"}`)
	b := doc(t, `{"value":100}`)

	assert.False(t, Matches(h, b, terms(t, `{"non_existent_key":"value"}`)))
}

// One satisfied term is enough, regardless of the other terms.
func TestMatches_OrAcrossTerms(t *testing.T) {
	h := doc(t, `{}`)
	b := doc(t, `{"id":"abc","value":100}`)

	assert.True(t, Matches(h, b, terms(t, `{"id":"abc","other_value":200}`)))
	assert.True(t, Matches(h, b, terms(t, `{"nope":"x","value":100}`)))
	assert.False(t, Matches(h, b, terms(t, `{"nope":"x","value":999}`)))
}

// Numbers and their string forms compare equal in both directions.
func TestMatches_StringCoercion(t *testing.T) {
	h := doc(t, `{}`)
	b := doc(t, `{"value":300,"code":"404"}`)

	assert.True(t, Matches(h, b, terms(t, `{"value":"300"}`)))
	assert.True(t, Matches(h, b, terms(t, `{"value":300}`)))
	assert.True(t, Matches(h, b, terms(t, `{"code":404}`)))
}

func TestMatches_BoolAndNullCoercion(t *testing.T) {
	h := doc(t, `{}`)
	b := doc(t, `{"active":true,"gone":null}`)

	assert.True(t, Matches(h, b, terms(t, `{"active":"true"}`)))
	assert.True(t, Matches(h, b, terms(t, `{"gone":"null"}`)))
	assert.False(t, Matches(h, b, terms(t, `{"active":"True"}`)))
}

// Nested values compare by their outer canonical JSON form; there is no
// descent into nested keys.
func TestMatches_NestedByOuterForm(t *testing.T) {
	h := doc(t, `{}`)
	b := doc(t, `{"meta":{"b":2,"a":1}}`)

	assert.True(t, Matches(h, b, terms(t, `{"meta":{"a":1,"b":2}}`)))
	assert.False(t, Matches(h, b, terms(t, `{"a":1}`)))
}

func TestMatches_NonObjectBody(t *testing.T) {
	h := doc(t, `{"id":"abc"}`)
	b := document.StringValue("free-form payload")

	assert.True(t, Matches(h, b, terms(t, `{"id":"abc"}`)))
	assert.False(t, Matches(h, b, terms(t, `{"payload":"free-form payload"}`)))
}
