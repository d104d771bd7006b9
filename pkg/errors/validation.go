package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxElementIDLength bounds element identifiers and types.
const MaxElementIDLength = 256

// ValidateElementID validates an element identifier before registration.
//
// The rules keep identifiers safe for every output encoding:
//   - No empty identifiers
//   - No null bytes (the delimiter of the text encodings)
//   - No other control characters
//   - Maximum length of [MaxElementIDLength] bytes
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidElement, "element id cannot be empty")
	}

	if len(id) > MaxElementIDLength {
		return New(ErrCodeInvalidElement, "element id too long (max %d characters)", MaxElementIDLength)
	}

	for _, r := range id {
		if r == '\x00' {
			return New(ErrCodeInvalidElement, "element id %q contains a null byte", id)
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidElement, "element id %q contains invalid control characters", id)
		}
	}

	return nil
}

// ValidateElementType validates an element type.
// An empty type is allowed: ungrouped sorts never look at it.
func ValidateElementType(typ string) error {
	if len(typ) > MaxElementIDLength {
		return New(ErrCodeInvalidType, "element type too long (max %d characters)", MaxElementIDLength)
	}
	for _, r := range typ {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidType, "element type %q contains invalid control characters", typ)
		}
	}
	return nil
}

// manifestExtensions lists the file extensions a manifest may carry.
var manifestExtensions = map[string]bool{
	".json": true,
	".toml": true,
	".yaml": true,
	".yml":  true,
}

// ValidateManifestPath validates a manifest path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Extension must be one of .json, .toml, .yaml or .yml
func ValidateManifestPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "manifest path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "manifest path contains invalid characters")
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !manifestExtensions[ext] {
		return New(ErrCodeInvalidManifest, "unsupported manifest extension %q (use .json, .toml or .yaml)", ext)
	}

	return nil
}
