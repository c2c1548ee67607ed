package env

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// ParseString returns the input string as-is without validation.
func ParseString(s string) (string, error) {
	return s, nil
}

// ParseNonEmptyString validates that the input string is not empty.
func ParseNonEmptyString(s string) (string, error) {
	if s == "" {
		return "", errors.New("empty string not allowed")
	}
	return s, nil
}

// ParseHTTPURL validates that the input string is an absolute http(s) URL.
func ParseHTTPURL(s string) (string, error) {
	u, err := url.Parse(s)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("URL host is empty")
	}
	return s, nil
}

// ParseDuration parses a string as a time.Duration (e.g., "30s", "5m").
func ParseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}

// ParseBool parses a string as a boolean value.
func ParseBool(s string) (bool, error) {
	return strconv.ParseBool(s)
}
