package router

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type segKind uint8

const (
	segStatic segKind = iota
	segParam
)

// Specificity ranks. Static segments outrank typed placeholders, typed
// placeholders outrank plain ones, and path catch-alls sort last.
const (
	rankStatic = 100
	rankTyped  = 60
	rankStr    = 40
	rankPath   = 10
)

// converter validates a placeholder value. A failed match means the rule
// does not apply to the path, not that the request is malformed.
type converter struct {
	name     string
	rank     int
	wildcard bool // consumes the remainder of the path
	match    func(string) bool
}

var converters = map[string]converter{
	"str": {name: "str", rank: rankStr, match: func(s string) bool {
		return s != ""
	}},
	"int": {name: "int", rank: rankTyped, match: func(s string) bool {
		if s == "" {
			return false
		}
		for i := 0; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
		return true
	}},
	"float": {name: "float", rank: rankTyped, match: func(s string) bool {
		if s == "" {
			return false
		}
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	}},
	"uuid": {name: "uuid", rank: rankTyped, match: func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	}},
	"path": {name: "path", rank: rankPath, wildcard: true, match: func(s string) bool {
		return s != ""
	}},
}

type segment struct {
	kind  segKind
	value string // literal text for static segments
	key   string // placeholder name
	conv  converter
}

// parsePattern splits a pattern into matchable segments. Each path segment
// is either literal text or a single {name} / {name:converter} placeholder;
// a path converter must be the final segment.
func parsePattern(pattern string) ([]segment, error) {
	if len(pattern) == 0 || pattern[0] != '/' {
		return nil, fmt.Errorf("%w: %q must begin with '/'", ErrInvalidPattern, pattern)
	}

	parts := strings.Split(pattern[1:], "/")
	segments := make([]segment, 0, len(parts))
	seen := make(map[string]bool, len(parts))

	for i, part := range parts {
		if !strings.HasPrefix(part, "{") {
			if strings.ContainsAny(part, "{}") {
				return nil, fmt.Errorf("%w: %q mixes literal text and placeholders in one segment", ErrInvalidPattern, pattern)
			}
			segments = append(segments, segment{kind: segStatic, value: part})
			continue
		}

		if !strings.HasSuffix(part, "}") {
			return nil, fmt.Errorf("%w: %q is missing the closing '}'", ErrInvalidPattern, pattern)
		}

		key, convName, _ := strings.Cut(part[1:len(part)-1], ":")
		if convName == "" {
			convName = "str"
		}
		if !validParamKey(key) {
			return nil, fmt.Errorf("%w: invalid placeholder name %q", ErrInvalidPattern, key)
		}
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate placeholder %q", ErrInvalidPattern, key)
		}
		seen[key] = true

		conv, ok := converters[convName]
		if !ok {
			return nil, fmt.Errorf("%w: unknown converter %q", ErrInvalidPattern, convName)
		}
		if conv.wildcard && i != len(parts)-1 {
			return nil, fmt.Errorf("%w: path placeholder must be the last segment", ErrInvalidPattern)
		}

		segments = append(segments, segment{kind: segParam, key: key, conv: conv})
	}

	return segments, nil
}

func validParamKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}

// signature normalizes a pattern for conflict detection: literal segments
// verbatim, placeholders reduced to their converter.
func signature(segments []segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		if s.kind == segStatic {
			b.WriteString(s.value)
		} else {
			b.WriteByte('{')
			b.WriteString(s.conv.name)
			b.WriteByte('}')
		}
	}
	return b.String()
}

// score encodes per-segment specificity for match ordering.
func score(segments []segment) []int {
	out := make([]int, len(segments))
	for i, s := range segments {
		if s.kind == segStatic {
			out[i] = rankStatic
		} else {
			out[i] = s.conv.rank
		}
	}
	return out
}

// compareScore orders two routes: positive means a is more specific than b.
// Scores compare segment by segment; on a common prefix tie the route with
// more segments wins (a catch-all is always less specific than what it
// shadows).
func compareScore(a, b []int) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] - b[i]
		}
	}
	return len(a) - len(b)
}

// matchPath reports whether the segments cover the path, extracting
// placeholder values. Matching is exact: no trailing-slash redirects.
func matchPath(segments []segment, path string) (map[string]string, bool) {
	if len(path) == 0 || path[0] != '/' {
		return nil, false
	}
	parts := strings.Split(path[1:], "/")

	var params map[string]string
	for i, seg := range segments {
		if seg.kind == segParam && seg.conv.wildcard {
			rest := strings.Join(parts[i:], "/")
			if i >= len(parts) || !seg.conv.match(rest) {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg.key] = rest
			return params, true
		}

		if i >= len(parts) {
			return nil, false
		}
		part := parts[i]

		switch seg.kind {
		case segStatic:
			if part != seg.value {
				return nil, false
			}
		case segParam:
			if !seg.conv.match(part) {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg.key] = part
		}
	}

	if len(parts) != len(segments) {
		return nil, false
	}
	return params, true
}
