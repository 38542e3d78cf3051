package normalize

import "strings"

// BookmakerConsensus is the display name assigned when the upstream bookmaker
// id is missing or unrecognized. Unknown books are folded into one bucket so
// the conflict key space stays bounded.
const BookmakerConsensus = "Consensus"

var bookmakerNames = map[string]string{
	"fanduel":       "FanDuel",
	"draftkings":    "DraftKings",
	"betmgm":        "BetMGM",
	"caesars":       "Caesars",
	"pointsbet":     "PointsBet",
	"betrivers":     "BetRivers",
	"bet365":        "bet365",
	"williamhill":   "William Hill",
	"pinnacle":      "Pinnacle",
	"bovada":        "Bovada",
	"prizepicks":    "PrizePicks",
	"underdog":      "Underdog",
	"espnbet":       "ESPN BET",
	"fanatics":      "Fanatics",
	"hardrock":      "Hard Rock",
	"fliff":         "Fliff",
	"unibet":        "Unibet",
	"betonline":     "BetOnline",
	"mybookie":      "MyBookie",
	"sportsgameodds": BookmakerConsensus,
}

// Bookmaker maps an upstream bookmaker id to its display name. Anything not
// in the table normalizes to Consensus rather than passing through raw ids.
func Bookmaker(rawID string) string {
	key := strings.ToLower(strings.TrimSpace(rawID))
	if key == "" {
		return BookmakerConsensus
	}
	if name, ok := bookmakerNames[key]; ok {
		return name
	}
	return BookmakerConsensus
}
