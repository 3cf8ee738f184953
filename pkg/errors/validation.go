package errors

import (
	"strings"
	"unicode"
)

// maxTaskIDLength bounds task identifiers so reports and DOT labels stay sane.
const maxTaskIDLength = 256

// ValidateTaskID validates a task identifier.
//
// The rules match what the line-based input format can express:
//   - No empty identifiers
//   - No whitespace or control characters
//   - Maximum length of 256 characters
func ValidateTaskID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTask, "task identifier cannot be empty")
	}

	if len(id) > maxTaskIDLength {
		return New(ErrCodeInvalidTask, "task identifier too long (max %d characters)", maxTaskIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidTask, "task identifier %q contains whitespace or control characters", id)
		}
	}

	return nil
}

// ValidatePath validates a task file path relative to a data directory.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
