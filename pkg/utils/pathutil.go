package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// ExpandPath substitutes "{name}" and ":name" segments of p with escaped values.
// Placeholders without a value are left untouched.
func ExpandPath(p string, values map[string]any) string {
	if len(values) == 0 || p == "" {
		return p
	}
	for name, v := range values {
		escaped := url.PathEscape(fmt.Sprint(v))
		p = strings.ReplaceAll(p, "{"+name+"}", escaped)
		p = replaceColonSegment(p, name, escaped)
	}
	return p
}

// replaceColonSegment replaces ":name" only when it spans a whole path segment.
func replaceColonSegment(p, name, value string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		if s == ":"+name {
			segments[i] = value
		}
	}
	return strings.Join(segments, "/")
}

// JoinURL appends p to base. An absolute URL in p is returned untouched.
func JoinURL(base, p string) (string, error) {
	if p == "" {
		return base, nil
	}
	if u, err := url.Parse(p); err == nil && u.IsAbs() {
		return p, nil
	}
	if base == "" {
		return "", fmt.Errorf("relative url %q without a base url", p)
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/"), nil
}
