package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnum   = regexp.MustCompile(`[^A-Za-z0-9]+`)
	nonIdent   = regexp.MustCompile(`[^A-Za-z0-9_]+`)
	identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// RemoveAccents removes accents from a string, converting accented characters to their base forms
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// Capitalize upper-cases the first rune and keeps the rest untouched
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// IsIdentifier reports whether s is a valid ASCII identifier in both Go and TypeScript
func IsIdentifier(s string) bool {
	return identifier.MatchString(s)
}

// ToIdentifier turns an arbitrary literal into an identifier fragment.
// Accents are dropped and every other invalid run becomes one underscore.
func ToIdentifier(s string) string {
	s = nonIdent.ReplaceAllString(RemoveAccents(s), "_")
	if s == "" || s == "_" {
		return "Empty"
	}
	return s
}

// ExportedName returns a Go exported identifier for a wire name. Names that
// are already identifiers are only capitalized so that "createdAt" stays
// recognisable as "CreatedAt".
func ExportedName(s string) string {
	if IsIdentifier(s) {
		return Capitalize(s)
	}
	name := ToPascalCase(s)
	if name == "" {
		return "X"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "X" + name
	}
	return name
}

// SplitCamelCase splits a camelCase or PascalCase string into words
func SplitCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var parts []string
	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		// Check if this is the start of a new word
		isNewWord := false
		if i > 0 && isUppercase(r) {
			if !isUppercase(runes[i-1]) {
				isNewWord = true
			} else if i < len(runes)-1 && !isUppercase(runes[i+1]) {
				// "XMLHttp" -> "XML", "Http"
				isNewWord = true
			}
		}

		if isNewWord && current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

// isUppercase checks if a rune is uppercase
func isUppercase(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// ToPascalCase converts a string to PascalCase
func ToPascalCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	s = RemoveAccents(s)

	// First split by non-alphanumeric characters
	var allParts []string
	for _, part := range nonAlnum.Split(s, -1) {
		if part == "" {
			continue
		}
		allParts = append(allParts, SplitCamelCase(part)...)
	}

	var result strings.Builder
	for _, part := range allParts {
		if len(part) == 1 {
			result.WriteString(strings.ToUpper(part))
		} else {
			result.WriteString(strings.ToUpper(part[:1]) + strings.ToLower(part[1:]))
		}
	}
	return result.String()
}
