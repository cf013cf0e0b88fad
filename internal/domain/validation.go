package domain

import (
	"net/url"
	"strings"
)

const (
	minShortCodeLength = 3
	maxShortCodeLength = 32
	minUsernameLength  = 3
	maxUsernameLength  = 64
	minPasswordLength  = 8
	maxOriginalURLLen  = 2048
)

// ValidateOriginalURL accepts only absolute http and https URLs
func ValidateOriginalURL(raw string) error {
	if raw == "" {
		return NewValidationError("original_url", "URL is required")
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return NewValidationError("original_url", "only http and https URLs are allowed")
	}
	if len(raw) > maxOriginalURLLen {
		return NewValidationError("original_url", "URL is too long")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return NewValidationError("original_url", "URL could not be parsed")
	}
	if parsed.Host == "" {
		return NewValidationError("original_url", "URL must include a host")
	}

	return nil
}

// ValidateShortCode checks a caller-supplied short code
func ValidateShortCode(code string) error {
	if len(code) < minShortCodeLength || len(code) > maxShortCodeLength {
		return NewValidationError("custom_code", "must be between 3 and 32 characters")
	}
	for _, c := range code {
		if !isCodeRune(c) {
			return NewValidationError("custom_code", "may only contain letters, digits, '-' and '_'")
		}
	}
	return nil
}

// ValidateCredentials checks a username and password before signup
func ValidateCredentials(username, password string) error {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return NewValidationError("username", "must be between 3 and 64 characters")
	}
	for _, c := range username {
		if !isCodeRune(c) && c != '.' {
			return NewValidationError("username", "may only contain letters, digits, '.', '-' and '_'")
		}
	}
	if len(password) < minPasswordLength {
		return NewValidationError("password", "must be at least 8 characters")
	}
	return nil
}

func isCodeRune(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}
