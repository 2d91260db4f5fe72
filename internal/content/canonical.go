package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MarshalEnvelope produces the canonical persisted form of a mapping.
//
// Output is RFC 8785 style canonical JSON: keys sorted by UTF-16 code
// units, strings NFC normalized, no HTML escaping. The same mapping always
// yields the same bytes.
func MarshalEnvelope(entries map[string]string) []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"entries":`)
	writeCanonicalObject(&buf, entries)
	buf.WriteString(`,"version":`)
	fmt.Fprintf(&buf, "%d", FormatVersion)
	buf.WriteByte('}')
	return buf.Bytes()
}

// MarshalCanonicalMap produces canonical JSON for a flat string mapping.
// Used by export and golden snapshots.
func MarshalCanonicalMap(m map[string]string) []byte {
	var buf bytes.Buffer
	writeCanonicalObject(&buf, m)
	return buf.Bytes()
}

// UnmarshalEnvelope decodes a persisted namespace value.
//
// Accepts the versioned envelope and the legacy bare object. Returns an
// error for anything else, including envelopes from a newer version.
func UnmarshalEnvelope(data []byte) (Envelope, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Envelope{}, fmt.Errorf("empty payload")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}

	_, hasVersion := fields["version"]
	_, hasEntries := fields["entries"]
	if !hasVersion || !hasEntries {
		// Legacy layout: the object itself is the mapping.
		var legacy map[string]string
		if err := json.Unmarshal(data, &legacy); err != nil {
			return Envelope{}, fmt.Errorf("decode legacy mapping: %w", err)
		}
		return Envelope{Version: 0, Entries: normalizeMap(legacy)}, nil
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Version < 1 || env.Version > FormatVersion {
		return Envelope{}, fmt.Errorf("unsupported envelope version %d", env.Version)
	}
	if env.Entries == nil {
		env.Entries = map[string]string{}
	}
	env.Entries = normalizeMap(env.Entries)
	return env, nil
}

// Normalize returns s in Unicode NFC form.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

func normalizeMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[Normalize(k)] = Normalize(v)
	}
	return out
}

func writeCanonicalObject(buf *bytes.Buffer, m map[string]string) {
	normalized := normalizeMap(m)
	keys := make([]string, 0, len(normalized))
	for k := range normalized {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeCanonicalString(buf, k)
		buf.WriteByte(':')
		writeCanonicalString(buf, normalized[k])
	}
	buf.WriteByte('}')
}

// writeCanonicalString escapes only quote, backslash and control
// characters. U+2028/U+2029 and <, >, & are written literally.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\b':
			buf.WriteString(`\b`)
		case r == '\f':
			buf.WriteString(`\f`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r < 0x20:
			fmt.Fprintf(buf, `\u%04x`, r)
		case r == utf8.RuneError && size == 1:
			buf.WriteString("\ufffd")
		default:
			buf.WriteString(s[i : i+size])
		}
		i += size
	}
	buf.WriteByte('"')
}

// compareUTF16 orders strings by UTF-16 code units.
// Go's native string comparison is by UTF-8 bytes, which differs for
// characters outside the BMP.
func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}
