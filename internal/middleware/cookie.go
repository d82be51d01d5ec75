package middleware

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedCookie is returned when a Cookie header cannot be parsed
var ErrMalformedCookie = errors.New("malformed cookie header")

// attributes that belong to the preceding cookie rather than starting a new one
var cookieAttributes = map[string]bool{
	"path":       true,
	"domain":     true,
	"max-age":    true,
	"expires":    true,
	"secure":     true,
	"httponly":   true,
	"samesite":   true,
	"version":    true,
	"comment":    true,
	"commenturl": true,
	"discard":    true,
	"port":       true,
}

// Cookie is a single cookie parsed from a request header
type Cookie struct {
	Name       string
	Value      string
	Quoted     bool
	Attributes map[string]string
}

// String serialises the cookie as name=value, keeping the quotes it arrived with
func (c *Cookie) String() string {
	if c.Quoted {
		return c.Name + `="` + c.Value + `"`
	}
	return c.Name + "=" + c.Value
}

// ParseCookies parses every cookie in a Cookie header. Cookies may be separated
// by ';' or ','. Known attributes such as Path attach to the cookie before them.
// An empty header yields no cookies.
func ParseCookies(header string) ([]*Cookie, error) {
	if strings.TrimSpace(header) == "" {
		return nil, nil
	}

	parts, err := splitCookieHeader(header)
	if err != nil {
		return nil, err
	}

	var cookies []*Cookie
	var current *Cookie
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, hasValue := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)

		attr := strings.ToLower(strings.TrimPrefix(name, "$"))
		if cookieAttributes[attr] {
			if current == nil {
				return nil, fmt.Errorf("%w: attribute %q before any cookie", ErrMalformedCookie, name)
			}
			v, _, err := unquote(value)
			if err != nil {
				return nil, err
			}
			current.Attributes[attr] = v
			continue
		}

		if !hasValue {
			return nil, fmt.Errorf("%w: invalid name-value pair %q", ErrMalformedCookie, part)
		}
		if !isToken(name) || strings.HasPrefix(name, "$") {
			return nil, fmt.Errorf("%w: illegal cookie name %q", ErrMalformedCookie, name)
		}
		v, quoted, err := unquote(value)
		if err != nil {
			return nil, err
		}
		current = &Cookie{
			Name:       name,
			Value:      v,
			Quoted:     quoted,
			Attributes: make(map[string]string),
		}
		cookies = append(cookies, current)
	}
	return cookies, nil
}

// splitCookieHeader splits on ';' and ',' outside double quotes. The comma
// inside an Expires date does not split.
func splitCookieHeader(header string) ([]string, error) {
	var parts []string
	inQuotes := false
	start := 0
	for i := 0; i < len(header); i++ {
		switch header[i] {
		case '"':
			inQuotes = !inQuotes
		case ';', ',':
			if inQuotes {
				continue
			}
			if header[i] == ',' && isExpiresDate(header[start:i]) {
				continue
			}
			parts = append(parts, header[start:i])
			start = i + 1
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("%w: unterminated quoted value", ErrMalformedCookie)
	}
	return append(parts, header[start:]), nil
}

// isExpiresDate reports whether segment is an Expires attribute cut right after
// its weekday, as in "Expires=Wed, 21 Oct 2015 07:28:00 GMT".
func isExpiresDate(segment string) bool {
	name, value, ok := strings.Cut(strings.TrimSpace(segment), "=")
	if !ok || !strings.EqualFold(strings.TrimPrefix(strings.TrimSpace(name), "$"), "expires") {
		return false
	}
	value = strings.TrimSpace(value)
	return len(value) == 3 && !strings.ContainsAny(value, " ,")
}

func unquote(value string) (string, bool, error) {
	if !strings.HasPrefix(value, `"`) {
		if strings.Contains(value, `"`) {
			return "", false, fmt.Errorf("%w: stray quote in %q", ErrMalformedCookie, value)
		}
		return value, false, nil
	}
	if len(value) < 2 || !strings.HasSuffix(value, `"`) {
		return "", false, fmt.Errorf("%w: unterminated quoted value %q", ErrMalformedCookie, value)
	}
	return value[1 : len(value)-1], true, nil
}

func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c >= 0x7f || strings.IndexByte("()<>@,;:\\\"/[]?={}", c) >= 0 {
			return false
		}
	}
	return true
}
