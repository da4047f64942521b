package flexlog

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"go.opentelemetry.io/otel/baggage"
)

// needEscape matches a string that needs to be escaped either into an ASCII
// or a percent-encoded representation, so it survives a round trip through
// W3C baggage's header grammar.
var needEscape = regexp.MustCompile(`%(?:$|([0-9a-fA-F]?[^0-9a-fA-F]))|[^\x21\x23-\x2B\x2D-\x3A\x3C-\x5B\x5D-\x7E]`)

var pctEncode = regexp.MustCompile(`%(?:$|([0-9a-fA-F][^0-9a-fA-F])|[^0-9a-fA-F])| |"|,|;|\\`)

func escapeValue(v string) string {
	v = pctEncode.ReplaceAllStringFunc(v, func(m string) (r string) {
		for _, c := range m {
			switch c {
			case '%':
				r += "%25"
			case ' ':
				r += "%20"
			case '"':
				r += "%22"
			case ',':
				r += "%2C"
			case ';':
				r += "%3B"
			case '\\':
				r += "%5C"
			default:
				r += string(c)
			}
		}
		if len(m) == len(r) {
			panic(fmt.Sprintf("programmer error: pulled odd string %q", m))
		}
		return r
	})
	v = strconv.QuoteToASCII(v)
	return v[1 : len(v)-1]
}

// decodeValue reverses escapeValue on a best-effort basis for baggage members
// built through ContextWithValues. It percent-decodes every value, so a value
// that ContextWithValues stored unescaped but that already contained a valid
// %XX sequence comes back decoded.
func decodeValue(v string) string {
	unquoted, err := strconv.Unquote(`"` + v + `"`)
	if err != nil {
		unquoted = v
	}
	decoded, err := url.PathUnescape(unquoted)
	if err != nil {
		return unquoted
	}
	return decoded
}

// ContextWithValues adds key/value pairs to ctx's OpenTelemetry baggage, to
// be read back later by MDCFromContext (which NewEvent calls) when an event
// is finally emitted. Any trailing unpaired value is silently dropped.
func ContextWithValues(ctx context.Context, pairs ...string) context.Context {
	b := baggage.FromContext(ctx)
	pairs = pairs[:len(pairs)-len(pairs)%2]
	for i := 0; i < len(pairs); i += 2 {
		k, v := pairs[i], pairs[i+1]
		if needEscape.MatchString(v) {
			v = escapeValue(v)
		}
		m, err := baggage.NewMember(k, v)
		if err != nil {
			internalLog.Warn().Err(err).Str("key", k).Msg("flexlog: failed to create baggage member")
			continue
		}
		n, err := b.SetMember(m)
		if err != nil {
			internalLog.Warn().Err(err).Msg("flexlog: failed to extend baggage")
			continue
		}
		b = n
	}
	return baggage.ContextWithBaggage(ctx, b)
}

// MDCFromContext reads back every key/value pair accumulated on ctx via
// ContextWithValues, ready to populate Event.MDC. This is the mirror image
// of the teacher facade's baggage injection: flexlog is a sink, so it
// extracts MDC from context at emission time instead of writing baggage
// into outgoing requests.
func MDCFromContext(ctx context.Context) map[string]string {
	members := baggage.FromContext(ctx).Members()
	if len(members) == 0 {
		return nil
	}
	mdc := make(map[string]string, len(members))
	for _, m := range members {
		mdc[m.Key()] = decodeValue(m.Value())
	}
	return mdc
}
