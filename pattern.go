package flexlog

import (
	"fmt"
	"strconv"
	"strings"
)

// Pattern is a compiled pattern encoder (§4.1). Compilation happens once at
// config build time; rendering never fails and never allocates beyond what
// key-value/MDC rendering inherently needs.
type Pattern struct {
	steps []patStep
	color colorDecision
}

// CompilePattern parses and compiles a pattern string. Compile failure is a
// configuration error (§4.7). CompilePattern itself accepts an empty pattern;
// rejecting one is the caller's job (buildPatternEncoder does so for
// configured appenders).
func CompilePattern(pattern string, color colorDecision) (*Pattern, error) {
	steps, err := compileSteps(pattern)
	if err != nil {
		return nil, fmt.Errorf("flexlog: compiling pattern %q: %w", pattern, err)
	}
	return &Pattern{steps: steps, color: color}, nil
}

// Encode implements Encoder.
func (p *Pattern) Encode(b *buffer, e *Event) {
	renderSteps(b, p.steps, e, p.color)
}

// patStep is either a literal run of bytes or a compiled directive.
type patStep struct {
	literal string // non-empty (or directive == "") for literal steps

	directive string // "", or one of the normalized directive codes below
	args      []string
	sub       []patStep // compiled sub-pattern, only for "h"

	hasAlign  bool
	leftAlign bool
	width     int
	hasPrec   bool
	prec      int
}

// Normalized directive codes (canonical single letters).
const (
	dirDate      = "d"
	dirLevel     = "l"
	dirLine      = "L"
	dirFile      = "f"
	dirMessage   = "m"
	dirModule    = "M"
	dirNewline   = "n"
	dirTarget    = "t"
	dirThread    = "T"
	dirThreadID  = "I"
	dirPID       = "P"
	dirMDC       = "X"
	dirHighlight = "h"
	dirKV        = "K"
)

var directiveAliases = map[string]string{
	"d": dirDate, "date": dirDate,
	"l": dirLevel, "level": dirLevel,
	"L": dirLine, "line": dirLine,
	"f": dirFile, "file": dirFile,
	"m": dirMessage, "message": dirMessage,
	"M": dirModule, "module": dirModule,
	"n": dirNewline,
	"t": dirTarget, "target": dirTarget,
	"T": dirThread, "thread": dirThread,
	"I": dirThreadID, "thread_id": dirThreadID,
	"P": dirPID, "pid": dirPID,
	"X": dirMDC, "mdc": dirMDC,
	"h": dirHighlight, "highlight": dirHighlight,
	"K": dirKV, "kv": dirKV,
}

func compileSteps(pattern string) ([]patStep, error) {
	var steps []patStep
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			steps = append(steps, patStep{literal: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(pattern) {
		c := pattern[i]
		if c != '{' {
			lit.WriteByte(c)
			i++
			continue
		}
		end, err := matchBrace(pattern, i)
		if err != nil {
			return nil, err
		}
		flush()
		step, err := compileDirective(pattern[i+1 : end])
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
		i = end + 1
	}
	flush()
	return steps, nil
}

// matchBrace finds the index of the '}' matching the '{' at s[open], honoring
// nested '{'...'}' and '('...')' pairs inside.
func matchBrace(s string, open int) (int, error) {
	stack := []byte{'}'}
	i := open + 1
	for i < len(s) {
		switch s[i] {
		case '{':
			stack = append(stack, '}')
		case '(':
			stack = append(stack, ')')
		case '}', ')':
			if len(stack) == 0 || stack[len(stack)-1] != s[i] {
				return 0, fmt.Errorf("flexlog: unbalanced %q at offset %d", string(s[i]), i)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, nil
			}
		}
		i++
	}
	return 0, fmt.Errorf("flexlog: unterminated directive starting at offset %d", open)
}

func compileDirective(body string) (patStep, error) {
	i := 0
	for i < len(body) && (isAlnum(body[i]) || body[i] == '_') {
		i++
	}
	name := body[:i]
	canon, ok := directiveAliases[name]
	if !ok {
		return patStep{}, fmt.Errorf("flexlog: unknown pattern directive %q", name)
	}

	var args []string
	for i < len(body) && body[i] == '(' {
		depth := 1
		j := i + 1
		for j < len(body) && depth > 0 {
			switch body[j] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth > 0 {
				j++
			}
		}
		if depth != 0 {
			return patStep{}, fmt.Errorf("flexlog: unbalanced '(' in directive %q", body)
		}
		args = append(args, body[i+1:j])
		i = j + 1
	}

	step := patStep{directive: canon, args: args}

	if canon == dirHighlight {
		sub := ""
		if len(args) > 0 {
			sub = args[0]
		}
		steps, err := compileSteps(sub)
		if err != nil {
			return patStep{}, err
		}
		step.sub = steps
	}

	if i < len(body) && body[i] == ':' {
		i++
		if i < len(body) && (body[i] == '<' || body[i] == '>') {
			step.hasAlign = true
			step.leftAlign = body[i] == '<'
			i++
		}
		wstart := i
		for i < len(body) && isDigit(body[i]) {
			i++
		}
		if i > wstart {
			w, _ := strconv.Atoi(body[wstart:i])
			step.width = w
		}
		if i < len(body) && body[i] == '.' {
			i++
			pstart := i
			for i < len(body) && isDigit(body[i]) {
				i++
			}
			p, _ := strconv.Atoi(body[pstart:i])
			step.hasPrec = true
			step.prec = p
		}
	}

	if i != len(body) {
		return patStep{}, fmt.Errorf("flexlog: trailing garbage in directive %q", body)
	}
	return step, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// renderSteps renders a compiled step list into b.
func renderSteps(b *buffer, steps []patStep, e *Event, color colorDecision) {
	for i := range steps {
		renderStep(b, &steps[i], e, color)
	}
}

func renderStep(b *buffer, s *patStep, e *Event, color colorDecision) {
	if s.directive == "" {
		b.WriteString(s.literal)
		return
	}
	if s.directive == dirNewline && !s.hasAlign && !s.hasPrec {
		b.WriteString("\n")
		return
	}

	if !s.hasAlign && !s.hasPrec {
		// Fast path: write straight into the destination buffer, no scratch
		// allocation or copy.
		renderValue(b, s, e, color)
		return
	}

	scratch := newBuffer()
	defer scratch.Release()
	renderValue(scratch, s, e, color)
	writeAligned(b, scratch.String(), s)
}

func writeAligned(b *buffer, v string, s *patStep) {
	if s.hasPrec && len(v) > s.prec {
		// Truncate on the left: keep the rightmost N characters.
		v = v[len(v)-s.prec:]
	}
	if len(v) >= s.width {
		b.WriteString(v)
		return
	}
	pad := s.width - len(v)
	if s.leftAlign {
		b.WriteString(v)
		for j := 0; j < pad; j++ {
			b.WriteByte(' ')
		}
	} else {
		for j := 0; j < pad; j++ {
			b.WriteByte(' ')
		}
		b.WriteString(v)
	}
}

func renderValue(b *buffer, s *patStep, e *Event, color colorDecision) {
	switch s.directive {
	case dirDate:
		layout := chronoToGo(argOr(s.args, 0, "%Y-%m-%d %H:%M:%S"))
		t := e.Time
		if argOr(s.args, 1, "local") == "utc" {
			t = t.UTC()
		} else {
			t = t.Local()
		}
		*b = t.AppendFormat(*b, layout)
	case dirLevel:
		b.WriteString(e.Level.String())
	case dirLine:
		*b = appendInt(*b, e.Line)
	case dirFile:
		b.WriteString(e.File)
	case dirMessage:
		b.WriteString(e.Message)
	case dirModule:
		b.WriteString(e.Module)
	case dirNewline:
		b.WriteString("\n")
	case dirTarget:
		b.WriteString(e.Target)
	case dirThread:
		b.WriteString(e.ThreadName)
	case dirThreadID:
		*b = appendInt64(*b, e.ThreadID)
	case dirPID:
		*b = appendInt(*b, e.PID)
	case dirMDC:
		key := argOr(s.args, 0, "")
		b.WriteString(e.mdcValue(key))
	case dirHighlight:
		if !color {
			renderSteps(b, s.sub, e, color)
			return
		}
		b.WriteString(string(levelSGR(e.Level)))
		renderSteps(b, s.sub, e, color)
		b.WriteString(string(sgrReset))
	case dirKV:
		for i, kv := range e.KeyValues {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(kv.Key)
			b.WriteByte('=')
			b.WriteString(kv.Value)
		}
	}
}

func argOr(args []string, idx int, def string) string {
	if idx < len(args) {
		return args[idx]
	}
	return def
}

func appendInt(b []byte, v int) []byte  { return appendInt64(b, int64(v)) }
func appendInt64(b []byte, v int64) []byte {
	return strconv.AppendInt(b, v, 10)
}

// chronoToGo translates a small, common subset of chrono/strftime-style
// format verbs into a Go reference-time layout. Unrecognized verbs pass
// through literally, which is harmless for rendering (§8 total rendering)
// even though an unrecognized verb at config-build time for $TIME{} paths
// is rejected (see path.go).
func chronoToGo(format string) string {
	var out strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			out.WriteByte(c)
			continue
		}
		i++
		switch format[i] {
		case 'Y':
			out.WriteString("2006")
		case 'y':
			out.WriteString("06")
		case 'm':
			out.WriteString("01")
		case 'd':
			out.WriteString("02")
		case 'e':
			out.WriteString("_2")
		case 'H':
			out.WriteString("15")
		case 'I':
			out.WriteString("03")
		case 'M':
			out.WriteString("04")
		case 'S':
			out.WriteString("05")
		case 'f':
			out.WriteString("000000000")
		case '3':
			// "%3f" (millisecond fraction); consume trailing 'f' if present.
			if i+1 < len(format) && format[i+1] == 'f' {
				i++
			}
			out.WriteString("000")
		case 'z':
			out.WriteString("-0700")
		case 'Z':
			out.WriteString("MST")
		case 'A':
			out.WriteString("Monday")
		case 'a':
			out.WriteString("Mon")
		case 'B':
			out.WriteString("January")
		case 'b':
			out.WriteString("Jan")
		case 'p':
			out.WriteString("PM")
		case '%':
			out.WriteByte('%')
		default:
			out.WriteByte('%')
			out.WriteByte(format[i])
		}
	}
	return out.String()
}
