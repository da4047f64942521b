package flexlog

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

var envSubst = regexp.MustCompile(`\$ENV\{([^}]*)\}`)
var timeSubst = regexp.MustCompile(`\$TIME\{([^}]*)\}`)

// interpolatePath expands $ENV{NAME} and up to 5 $TIME{fmt} substitutions in
// a configured path (§6). Extra $TIME{} occurrences beyond the fifth are
// left literal. now is passed in (rather than calling time.Now directly) so
// config build-time validation and tests can pin the clock.
func interpolatePath(path string, now time.Time) (string, error) {
	out := envSubst.ReplaceAllStringFunc(path, func(m string) string {
		name := envSubst.FindStringSubmatch(m)[1]
		return os.Getenv(name)
	})

	count := 0
	var substErr error
	out = timeSubst.ReplaceAllStringFunc(out, func(m string) string {
		if count >= 5 {
			return m
		}
		count++
		format := timeSubst.FindStringSubmatch(m)[1]
		layout := chronoToGo(format)
		if !validChronoFormat(format) {
			substErr = fmt.Errorf("flexlog: invalid $TIME{} format %q", format)
			return m
		}
		return now.Format(layout)
	})
	if substErr != nil {
		return "", substErr
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("flexlog: path resolves to an empty string")
	}
	return out, nil
}

// validChronoFormat rejects an empty or all-whitespace format, a format with
// no verb at all, a trailing lone '%', and any verb chronoToGo does not
// translate.
func validChronoFormat(format string) bool {
	if strings.TrimSpace(format) == "" || !strings.Contains(format, "%") {
		return false
	}
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		if i >= len(format) || !strings.ContainsRune("YymdeHIMSf3zZAaBbp%", rune(format[i])) {
			return false
		}
		if format[i] == '3' && i+1 < len(format) && format[i+1] == 'f' {
			i++
		}
	}
	return true
}
