// Package identity derives canonical model IDs and display names from the
// free-text model-version strings found in benchmark CSVs.
package identity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Sentinel IDs.
const (
	// UnknownID is returned for a missing model-version string.
	UnknownID = "unknown_model"
	// EmptyIDPrefix starts the ID of a version string that normalizes to nothing.
	// A random token follows so that two such rows never share a record.
	EmptyIDPrefix = "empty_model_"
	// UnknownName is the display name of a missing model-version string.
	UnknownName = "Unknown Model"

	separator   = "_"
	emptyTokLen = 12
)

var (
	digitLetter = regexp.MustCompile(`(\d)([a-z])`)
	letterDigit = regexp.MustCompile(`([a-z])(\d)`)
	pathChars   = regexp.MustCompile(`[/\\:.,]`)
	disallowed  = regexp.MustCompile(`[^a-z0-9_]`)
	repeatedSep = regexp.MustCompile(`_+`)

	dateSuffix = regexp.MustCompile(`[-_]?\d{4}-\d{2}-\d{2}.*$`)
	qualifier  = regexp.MustCompile(`(?i)[-_](high|medium|low|pro|preview|turbo|flash)$`)
	nameSeps   = regexp.MustCompile(`[-_]+`)
)

// CanonicalID maps a raw model-version string to a key made only of
// lowercase letters, digits and underscores.
//
// An empty input yields UnknownID. An input that strips down to nothing
// yields EmptyIDPrefix plus a random token.
func CanonicalID(version string) string {
	if version == "" {
		return UnknownID
	}

	s := strings.ToLower(strings.TrimSpace(version))
	// "gemini3flash" -> "gemini_3_flash"
	s = digitLetter.ReplaceAllString(s, "${1}_${2}")
	s = letterDigit.ReplaceAllString(s, "${1}_${2}")

	s = pathChars.ReplaceAllString(s, separator)
	s = strings.Join(strings.Fields(s), separator)
	s = disallowed.ReplaceAllString(s, "")
	s = repeatedSep.ReplaceAllString(s, separator)
	s = strings.Trim(s, separator)

	if s == "" {
		return EmptyIDPrefix + randomToken()
	}
	return s
}

// IsSentinel reports whether id came from a missing or fully stripped input.
func IsSentinel(id string) bool {
	return id == UnknownID || strings.HasPrefix(id, EmptyIDPrefix)
}

// DisplayName derives a human-readable name from a model-version string:
// the last path segment without a trailing release date or qualifier,
// with separators turned into spaces.
//
//	"OpenAI/GPT-5.2-preview-2025-03-01" -> "GPT 5.2"
func DisplayName(version string) string {
	if version == "" {
		return UnknownName
	}

	name := version
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = dateSuffix.ReplaceAllString(name, "")
	name = qualifier.ReplaceAllString(name, "")
	name = nameSeps.ReplaceAllString(name, " ")
	name = strings.Join(strings.Fields(name), " ")

	return name
}

func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:emptyTokLen]
}
