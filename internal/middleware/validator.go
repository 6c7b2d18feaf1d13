package middleware

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// ValidateEmail checks the minimal shape of an email address. The value is
// only used as a storage key, so this stays deliberately loose.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// SanitizeFileName strips any path components and control characters from an
// uploaded file name, keeping the base name the client sent.
func SanitizeFileName(name string) (string, error) {
	name = SanitizeString(filepath.Base(strings.TrimSpace(name)))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", fmt.Errorf("invalid file name")
	}
	return name, nil
}

// SanitizeString removes null bytes and control characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
