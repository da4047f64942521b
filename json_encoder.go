package flexlog

import (
	"unicode/utf8"
)

// JSONEncoder emits one structured record per event, newline terminated,
// with the canonical field order from §4.2 kept stable to keep diffs sane.
type JSONEncoder struct{}

// Encode implements Encoder.
func (JSONEncoder) Encode(b *buffer, e *Event) {
	b.WriteByte('{')
	first := true
	field := func(key string) {
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteByte('"')
		writeJSONString(b, key)
		b.WriteString(`":`)
	}
	str := func(key, v string) {
		field(key)
		b.WriteByte('"')
		writeJSONString(b, v)
		b.WriteByte('"')
	}

	field("time")
	b.WriteByte('"')
	*b = e.Time.UTC().AppendFormat(*b, "2006-01-02T15:04:05.000Z07:00")
	b.WriteByte('"')

	str("level", e.Level.String())
	str("message", e.Message)
	str("module_path", e.Module)
	str("file", e.File)

	field("line")
	*b = appendInt(*b, e.Line)

	str("target", e.Target)
	str("thread", e.ThreadName)

	field("thread_id")
	*b = appendInt64(*b, e.ThreadID)

	if len(e.MDC) > 0 {
		field("mdc")
		b.WriteByte('{')
		mfirst := true
		for _, k := range sortedKeys(e.MDC) {
			if !mfirst {
				b.WriteByte(',')
			}
			mfirst = false
			b.WriteByte('"')
			writeJSONString(b, k)
			b.WriteString(`":"`)
			writeJSONString(b, e.MDC[k])
			b.WriteByte('"')
		}
		b.WriteByte('}')
	}

	if len(e.KeyValues) > 0 {
		field("key_value_pairs")
		b.WriteByte('{')
		for i, kv := range e.KeyValues {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			writeJSONString(b, kv.Key)
			b.WriteString(`":"`)
			writeJSONString(b, kv.Value)
			b.WriteByte('"')
		}
		b.WriteByte('}')
	}

	b.WriteByte('}')
	b.WriteByte('\n')
}

// sortedKeys gives the mdc object a stable, deterministic key order: map
// iteration order is not, and §4.2 asks for stable diffs.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Small insertion sort: MDC maps are tiny in practice, and this avoids
	// pulling in "sort" for what is almost always a handful of entries.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

// writeJSONString escapes s per RFC 8259 directly into b, the way the
// teacher's formatter_json.go does it to avoid round-tripping through
// encoding/json.Marshal for every string field.
func writeJSONString(b *buffer, s string) {
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if c >= 0x20 && c != '"' && c != '\\' {
				i++
				continue
			}
			b.WriteString(s[start:i])
			switch c {
			case '"':
				b.WriteString(`\"`)
			case '\\':
				b.WriteString(`\\`)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			default:
				b.WriteString(`\u00`)
				const hex = "0123456789abcdef"
				b.WriteByte(hex[c>>4])
				b.WriteByte(hex[c&0xF])
			}
			i++
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteString(s[start:i])
			b.WriteString(`�`)
			i++
			start = i
			continue
		}
		i += size
	}
	b.WriteString(s[start:])
}
