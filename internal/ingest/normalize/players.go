package normalize

import (
	"regexp"
	"strings"
)

// Upstream player ids look like FIRSTNAME_LASTNAME_1_NFL. The trailing two
// segments are an ordinal and the league tag.
var playerIDPattern = regexp.MustCompile(`^[A-Z0-9_]+_\d+_[A-Z]+$`)

// IsPlayerID reports whether the raw id matches the upstream player id shape.
func IsPlayerID(raw string) bool {
	return playerIDPattern.MatchString(raw)
}

// PlayerID builds the canonical player id from a display name and league:
// upper-cased, whitespace and punctuation collapsed to underscores, suffixed
// with the league tag. "Josh Allen" + NFL yields JOSH_ALLEN_NFL.
func PlayerID(name, league string) string {
	slug := strings.ToUpper(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, slug)
	for strings.Contains(slug, "__") {
		slug = strings.ReplaceAll(slug, "__", "_")
	}
	slug = strings.Trim(slug, "_")
	return slug + "_" + strings.ToUpper(league)
}

// PlayerName recovers a display name from an upstream player id by dropping
// the ordinal and league segments and title-casing the rest. Best effort; the
// feed's own display name wins when present.
func PlayerName(playerID string) string {
	parts := strings.Split(playerID, "_")
	// Trim trailing league tag and ordinal when they look like one.
	for len(parts) > 1 {
		last := parts[len(parts)-1]
		if isAllDigits(last) || isLeagueTag(last) {
			parts = parts[:len(parts)-1]
			continue
		}
		break
	}
	for i, p := range parts {
		parts[i] = titleCase(strings.ToLower(p))
	}
	return strings.Join(parts, " ")
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isLeagueTag(s string) bool {
	switch s {
	case "NFL", "NBA", "MLB", "NHL":
		return true
	}
	return false
}
