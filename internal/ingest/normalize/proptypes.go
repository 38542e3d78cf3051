// Package normalize maps raw upstream vocabulary (market names, team names,
// bookmaker ids, player names) into the canonical form persisted by the
// pipeline. Every function here is pure and table-driven; the tables are the
// single source of truth shared by all ingestion entry points.
package normalize

import "strings"

// Canonical prop type names keyed by upstream stat id, per league.
var canonicalPropTypes = map[string]map[string]string{
	"NFL": {
		"passing_yards":         "Passing Yards",
		"passing_attempts":      "Passing Attempts",
		"passing_completions":   "Passing Completions",
		"passing_touchdowns":    "Passing TDs",
		"passing_interceptions": "Interceptions",
		"rushing_yards":         "Rushing Yards",
		"rushing_attempts":      "Rushing Attempts",
		"rushing_touchdowns":    "Rushing TDs",
		"receiving_yards":       "Receiving Yards",
		"receptions":            "Receptions",
		"receiving_touchdowns":  "Receiving TDs",
		"fieldgoals_made":       "Field Goals Made",
		"extrapoints_kicksmade": "Extra Points Made",
		"kicking_totalpoints":   "Kicking Total Points",
		"firsttouchdown":        "First Touchdown",
		"firsttoscore":          "First to Score",
	},
	"NBA": {
		"points":              "Points",
		"assists":             "Assists",
		"rebounds":            "Rebounds",
		"three_pointers_made": "3PM",
		"steals":              "Steals",
		"blocks":              "Blocks",
		"turnovers":           "Turnovers",
	},
	"MLB": {
		"hits":         "Hits",
		"runs":         "Runs",
		"rbis":         "RBIs",
		"home_runs":    "Home Runs",
		"total_bases":  "Total Bases",
		"stolen_bases": "Stolen Bases",
		"strikeouts":   "Pitcher Ks",
		"outs":         "Pitcher Outs",
		"earned_runs":  "ER Allowed",
	},
	"NHL": {
		"goals":             "Goals",
		"assists":           "Assists",
		"points":            "Points",
		"shots_on_goal":     "Shots",
		"power_play_points": "PPP",
		"saves":             "Saves",
	},
}

// Substrings that mark a stat id as a player stat even when the canonical
// table has no entry yet. Used by classification only; unmatched markets are
// logged as unmapped and excluded, never guessed.
var playerStatVocabulary = map[string][]string{
	"NFL": {"passing", "rushing", "receiving", "touchdown", "yards", "receptions", "field", "kicking", "tackles", "sacks"},
	"NBA": {"points", "rebounds", "assists", "steals", "blocks", "turnovers", "three"},
	"MLB": {"hits", "runs", "bases", "strikeouts", "outs", "home_runs", "rbis"},
	"NHL": {"goals", "assists", "points", "shots", "saves", "power_play"},
}

// PropType maps a raw market/stat id to its canonical display name.
// Unknown markets pass through title-cased so the row is still usable;
// callers that need strict classification use IsKnownMarket first.
func PropType(rawMarket, league string) string {
	key := strings.ToLower(strings.TrimSpace(rawMarket))
	if table, ok := canonicalPropTypes[strings.ToUpper(league)]; ok {
		if canonical, ok := table[key]; ok {
			return canonical
		}
	}
	return titleCase(strings.ReplaceAll(key, "_", " "))
}

// IsKnownMarket reports whether the stat id belongs to the per-league player
// stat vocabulary, either via the canonical table or a vocabulary substring.
func IsKnownMarket(rawMarket, league string) bool {
	key := strings.ToLower(strings.TrimSpace(rawMarket))
	lg := strings.ToUpper(league)
	if table, ok := canonicalPropTypes[lg]; ok {
		if _, ok := table[key]; ok {
			return true
		}
	}
	for _, frag := range playerStatVocabulary[lg] {
		if strings.Contains(key, frag) {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
