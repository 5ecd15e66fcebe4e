package router

import (
	"fmt"
	"strings"
)

// segment is one element of a parsed pattern.
type segment struct {
	literal  string
	param    string // non-empty for {name} segments
	wildcard bool   // trailing *
}

// pattern is a parsed path pattern. Trailing slashes are not significant:
// "/users/" and "/users" match the same requests.
type pattern struct {
	segments []segment
}

func parsePattern(raw string, caseInsensitive bool) (pattern, error) {
	if raw == "" || raw[0] != '/' {
		return pattern{}, fmt.Errorf("pattern %q must start with '/'", raw)
	}

	var p pattern
	parts := splitPath(raw)
	for i, part := range parts {
		switch {
		case part == "*":
			if i != len(parts)-1 {
				return pattern{}, fmt.Errorf("pattern %q: wildcard must be the last segment", raw)
			}
			p.segments = append(p.segments, segment{wildcard: true})
		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			name := part[1 : len(part)-1]
			if name == "" {
				return pattern{}, fmt.Errorf("pattern %q: empty parameter name", raw)
			}
			p.segments = append(p.segments, segment{param: name})
		case part == "":
			return pattern{}, fmt.Errorf("pattern %q: empty segment", raw)
		default:
			if caseInsensitive {
				part = strings.ToLower(part)
			}
			p.segments = append(p.segments, segment{literal: part})
		}
	}
	return p, nil
}

// match tests path against the pattern. On success it returns the
// captured parameters (nil when the pattern captures nothing).
func (p pattern) match(path string) (map[string]string, bool) {
	parts := splitPath(path)

	var params map[string]string
	for i, seg := range p.segments {
		if seg.wildcard {
			// Wildcard consumes the remainder, including an empty one:
			// "/a/*" matches "/a", and "/*" matches "/".
			return params, true
		}
		if i >= len(parts) {
			return nil, false
		}
		switch {
		case seg.param != "":
			if parts[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg.param] = parts[i]
		default:
			if parts[i] != seg.literal {
				return nil, false
			}
		}
	}

	if len(parts) != len(p.segments) {
		return nil, false
	}
	return params, true
}

// splitPath breaks a path into segments, ignoring leading and trailing
// slashes. The root path yields no segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
