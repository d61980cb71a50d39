package util

import "strings"

// Indent returns the prefix followed by the indent repeated level times
func Indent(prefix, indent string, level int) string {
	if level <= 0 {
		return prefix
	}
	return prefix + strings.Repeat(indent, level)
}
