package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

const maxFilenameLength = 200

// SanitizeFilename reduces a client-supplied file name to a safe base name
// for storage and Content-Disposition headers. Directory components are
// dropped and invalid characters removed.
func SanitizeFilename(filename string) string {
	// Keep only the last path element, whichever separator the client used
	filename = filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if filename == "." || filename == "/" {
		filename = ""
	}

	// Control characters become spaces, then invalid characters are removed
	filename = strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' || r == '\t' {
			return ' '
		}
		return r
	}, filename)
	filename = invalidFilenameChars.ReplaceAllString(filename, "")

	// Collapse multiple spaces
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)

	// Limit length (most filesystems support 255, but leave room for a prefix)
	if len(filename) > maxFilenameLength {
		filename = strings.TrimSpace(filename[:maxFilenameLength])
	}

	if filename == "" || filename == ".." {
		filename = "upload.csv"
	}

	return filename
}
