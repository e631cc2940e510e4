package utils

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Size limits (in bytes)
const (
	MaxFileSize     = 1 * 1024 * 1024 // 1MB - largest file body accepted over the API
	MaxNoteSize     = 256 * 1024      // 256KB - single note body
	MaxPayloadSize  = 4 * 1024        // 4KB - drag payload
	MaxCommandSize  = 4 * 1024        // 4KB - one terminal command line
	MaxMessageSize  = 64 * 1024       // 64KB - one WebSocket frame from the browser
	MaxSearchLength = 256
)

// String length limits
const (
	MaxPathLength  = 1024
	MaxNameLength  = 255
	MaxTitleLength = 256
	MaxIDLength    = 128
)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil // Optional field, empty is OK
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	// Check for null bytes (security issue)
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateSize checks a byte length against a limit
func ValidateSize(size int, fieldName string, maxSize int) error {
	if size > maxSize {
		return fmt.Errorf("%s size %d bytes exceeds maximum %d bytes", fieldName, size, maxSize)
	}
	return nil
}

// ValidatePath validates a virtual file system path. Relative paths are
// accepted (they normalize under the root); "." and ".." segments and
// control characters are not.
func ValidatePath(path, fieldName string) error {
	if err := ValidateString(path, fieldName, 1, MaxPathLength, true); err != nil {
		return err
	}

	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg == "." || seg == ".." {
			return fmt.Errorf("%s must not contain relative segments", fieldName)
		}
		if utf8.RuneCountInString(seg) > MaxNameLength {
			return fmt.Errorf("%s has a segment longer than %d characters", fieldName, MaxNameLength)
		}
	}
	if strings.Contains(strings.Trim(path, "/"), "//") {
		return fmt.Errorf("%s contains an empty segment", fieldName)
	}
	if strings.IndexFunc(path, unicode.IsControl) >= 0 {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateName validates a single entry or folder name
func ValidateName(name, fieldName string) error {
	if err := ValidateString(name, fieldName, 1, MaxNameLength, true); err != nil {
		return err
	}
	if strings.ContainsRune(name, '/') {
		return fmt.Errorf("%s must not contain '/'", fieldName)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%s is reserved", fieldName)
	}
	return nil
}

// ValidateID validates an opaque identifier
func ValidateID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}
	if strings.IndexFunc(id, func(r rune) bool {
		return !(r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
	}) >= 0 {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", fieldName)
	}
	return nil
}

// ValidateCommand validates a terminal command line
func ValidateCommand(line string) error {
	if err := ValidateSize(len(line), "command", MaxCommandSize); err != nil {
		return err
	}
	if strings.Contains(line, "\x00") {
		return fmt.Errorf("command contains invalid characters")
	}
	return nil
}
