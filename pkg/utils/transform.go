package utils

import (
	"strings"
)

// Default returns def when v is empty.
func Default(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// TrimURL strips surrounding whitespace and trailing slashes from a base URL.
func TrimURL(in string) string {
	return strings.TrimRight(strings.TrimSpace(in), "/")
}
