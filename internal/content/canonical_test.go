package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]string
		expected string
	}{
		{"empty", map[string]string{}, `{"entries":{},"version":1}`},
		{"nil", nil, `{"entries":{},"version":1}`},
		{"single", map[string]string{"hero-title": "Jane Doe"}, `{"entries":{"hero-title":"Jane Doe"},"version":1}`},
		{"sorted keys", map[string]string{"b": "2", "a": "1"}, `{"entries":{"a":"1","b":"2"},"version":1}`},
		{"no html escape", map[string]string{"x": "<b>&</b>"}, `{"entries":{"x":"<b>&</b>"},"version":1}`},
		{"control chars", map[string]string{"x": "a\nb\t\"c\"\\"}, `{"entries":{"x":"a\nb\t\"c\"\\"},"version":1}`},
		{"low control", map[string]string{"x": "\x01"}, `{"entries":{"x":"\u0001"},"version":1}`},
		{"line separator literal", map[string]string{"x": "a\u2028b"}, "{\"entries\":{\"x\":\"a\u2028b\"},\"version\":1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(MarshalEnvelope(tt.input)))
		})
	}
}

func TestMarshalEnvelope_NFC(t *testing.T) {
	// "e" + combining acute vs precomposed "é"
	decomposed := map[string]string{"name": "Re\u0301sume\u0301"}
	composed := map[string]string{"name": "R\u00e9sum\u00e9"}
	assert.Equal(t, MarshalEnvelope(composed), MarshalEnvelope(decomposed))
}

func TestMarshalEnvelope_UTF16KeyOrder(t *testing.T) {
	// U+FF61 sorts before U+1F600 in UTF-8 byte order but after it in
	// UTF-16 code units (0xFF61 > 0xD83D).
	m := map[string]string{"\uff61": "a", "\U0001F600": "b"}
	assert.Equal(t, "{\"\U0001F600\":\"b\",\"\uff61\":\"a\"}", string(MarshalCanonicalMap(m)))
}

func TestUnmarshalEnvelope(t *testing.T) {
	t.Run("current version", func(t *testing.T) {
		env, err := UnmarshalEnvelope([]byte(`{"version":1,"entries":{"hero-title":"Jane Doe"}}`))
		require.NoError(t, err)
		assert.Equal(t, 1, env.Version)
		assert.Equal(t, map[string]string{"hero-title": "Jane Doe"}, env.Entries)
	})

	t.Run("legacy bare object", func(t *testing.T) {
		env, err := UnmarshalEnvelope([]byte(`{"hero-title":"Jane Doe","hero-subtitle":"Designer"}`))
		require.NoError(t, err)
		assert.Equal(t, 0, env.Version)
		assert.Len(t, env.Entries, 2)
	})

	t.Run("null entries", func(t *testing.T) {
		env, err := UnmarshalEnvelope([]byte(`{"version":1,"entries":null}`))
		require.NoError(t, err)
		assert.NotNil(t, env.Entries)
		assert.Empty(t, env.Entries)
	})

	bad := map[string]string{
		"empty":          ``,
		"whitespace":     "  \n",
		"truncated":      `{"version":1,"entries":{"a":`,
		"not an object":  `["a","b"]`,
		"non-string val": `{"a":1}`,
		"future version": `{"version":2,"entries":{}}`,
		"zero version":   `{"version":0,"entries":{}}`,
		"garbage":        `not json at all`,
	}
	for name, payload := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := UnmarshalEnvelope([]byte(payload))
			assert.Error(t, err)
		})
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	in := map[string]string{
		"hero-title":       "Jane Doe",
		"hero-description": "Line one\nLine two",
		"quote":            `"Fashion" & <style>`,
	}
	env, err := UnmarshalEnvelope(MarshalEnvelope(in))
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, env.Version)
	assert.Equal(t, in, env.Entries)
}

func TestDerivedID(t *testing.T) {
	a := DerivedID("about/paragraph/1")
	b := DerivedID("about/paragraph/1")
	c := DerivedID("about/paragraph/2")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 18)
	assert.Equal(t, "c-", a[:2])
	assert.Equal(t, DerivedID("caf\u00e9"), DerivedID("cafe\u0301"))
}
