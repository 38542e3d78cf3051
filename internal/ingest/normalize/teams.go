package normalize

import "strings"

// Full team name to abbreviation, per league. Nickname tables cover the short
// forms the upstream feed sometimes emits instead of the full name.
var teamAbbrevs = map[string]map[string]string{
	"NFL": {
		"Arizona Cardinals": "ARI", "Atlanta Falcons": "ATL", "Baltimore Ravens": "BAL",
		"Buffalo Bills": "BUF", "Carolina Panthers": "CAR", "Chicago Bears": "CHI",
		"Cincinnati Bengals": "CIN", "Cleveland Browns": "CLE", "Dallas Cowboys": "DAL",
		"Denver Broncos": "DEN", "Detroit Lions": "DET", "Green Bay Packers": "GB",
		"Houston Texans": "HOU", "Indianapolis Colts": "IND", "Jacksonville Jaguars": "JAX",
		"Kansas City Chiefs": "KC", "Las Vegas Raiders": "LV", "Los Angeles Chargers": "LAC",
		"Los Angeles Rams": "LAR", "Miami Dolphins": "MIA", "Minnesota Vikings": "MIN",
		"New England Patriots": "NE", "New Orleans Saints": "NO", "New York Giants": "NYG",
		"New York Jets": "NYJ", "Philadelphia Eagles": "PHI", "Pittsburgh Steelers": "PIT",
		"San Francisco 49ers": "SF", "Seattle Seahawks": "SEA", "Tampa Bay Buccaneers": "TB",
		"Tennessee Titans": "TEN", "Washington Commanders": "WAS",
	},
	"NBA": {
		"Atlanta Hawks": "ATL", "Boston Celtics": "BOS", "Brooklyn Nets": "BKN",
		"Charlotte Hornets": "CHA", "Chicago Bulls": "CHI", "Cleveland Cavaliers": "CLE",
		"Dallas Mavericks": "DAL", "Denver Nuggets": "DEN", "Detroit Pistons": "DET",
		"Golden State Warriors": "GSW", "Houston Rockets": "HOU", "Indiana Pacers": "IND",
		"Los Angeles Clippers": "LAC", "Los Angeles Lakers": "LAL", "Memphis Grizzlies": "MEM",
		"Miami Heat": "MIA", "Milwaukee Bucks": "MIL", "Minnesota Timberwolves": "MIN",
		"New Orleans Pelicans": "NOP", "New York Knicks": "NYK", "Oklahoma City Thunder": "OKC",
		"Orlando Magic": "ORL", "Philadelphia 76ers": "PHI", "Phoenix Suns": "PHX",
		"Portland Trail Blazers": "POR", "Sacramento Kings": "SAC", "San Antonio Spurs": "SAS",
		"Toronto Raptors": "TOR", "Utah Jazz": "UTA", "Washington Wizards": "WAS",
	},
	"MLB": {
		"Arizona Diamondbacks": "ARI", "Atlanta Braves": "ATL", "Baltimore Orioles": "BAL",
		"Boston Red Sox": "BOS", "Chicago Cubs": "CHC", "Chicago White Sox": "CWS",
		"Cincinnati Reds": "CIN", "Cleveland Guardians": "CLE", "Colorado Rockies": "COL",
		"Detroit Tigers": "DET", "Houston Astros": "HOU", "Kansas City Royals": "KC",
		"Los Angeles Angels": "LAA", "Los Angeles Dodgers": "LAD", "Miami Marlins": "MIA",
		"Milwaukee Brewers": "MIL", "Minnesota Twins": "MIN", "New York Mets": "NYM",
		"New York Yankees": "NYY", "Oakland Athletics": "OAK", "Philadelphia Phillies": "PHI",
		"Pittsburgh Pirates": "PIT", "San Diego Padres": "SD", "San Francisco Giants": "SF",
		"Seattle Mariners": "SEA", "St. Louis Cardinals": "STL", "Tampa Bay Rays": "TB",
		"Texas Rangers": "TEX", "Toronto Blue Jays": "TOR", "Washington Nationals": "WSH",
	},
	"NHL": {
		"Anaheim Ducks": "ANA", "Boston Bruins": "BOS", "Buffalo Sabres": "BUF",
		"Calgary Flames": "CGY", "Carolina Hurricanes": "CAR", "Chicago Blackhawks": "CHI",
		"Colorado Avalanche": "COL", "Columbus Blue Jackets": "CBJ", "Dallas Stars": "DAL",
		"Detroit Red Wings": "DET", "Edmonton Oilers": "EDM", "Florida Panthers": "FLA",
		"Los Angeles Kings": "LAK", "Minnesota Wild": "MIN", "Montreal Canadiens": "MTL",
		"Nashville Predators": "NSH", "New Jersey Devils": "NJD", "New York Islanders": "NYI",
		"New York Rangers": "NYR", "Ottawa Senators": "OTT", "Philadelphia Flyers": "PHI",
		"Pittsburgh Penguins": "PIT", "San Jose Sharks": "SJS", "Seattle Kraken": "SEA",
		"St. Louis Blues": "STL", "Tampa Bay Lightning": "TBL", "Toronto Maple Leafs": "TOR",
		"Utah Mammoth": "UTA", "Vancouver Canucks": "VAN", "Vegas Golden Knights": "VGK",
		"Washington Capitals": "WSH", "Winnipeg Jets": "WPG",
	},
}

var teamNicknames = map[string]map[string]string{
	"NFL": {
		"Cardinals": "ARI", "Falcons": "ATL", "Ravens": "BAL", "Bills": "BUF",
		"Panthers": "CAR", "Bears": "CHI", "Bengals": "CIN", "Browns": "CLE",
		"Cowboys": "DAL", "Broncos": "DEN", "Lions": "DET", "Packers": "GB",
		"Texans": "HOU", "Colts": "IND", "Jaguars": "JAX", "Chiefs": "KC",
		"Raiders": "LV", "Chargers": "LAC", "Rams": "LAR", "Dolphins": "MIA",
		"Vikings": "MIN", "Patriots": "NE", "Saints": "NO", "Giants": "NYG",
		"Jets": "NYJ", "Eagles": "PHI", "Steelers": "PIT", "49ers": "SF",
		"Seahawks": "SEA", "Buccaneers": "TB", "Titans": "TEN", "Commanders": "WAS",
	},
	"NBA": {
		"Hawks": "ATL", "Celtics": "BOS", "Nets": "BKN", "Hornets": "CHA",
		"Bulls": "CHI", "Cavaliers": "CLE", "Mavericks": "DAL", "Nuggets": "DEN",
		"Pistons": "DET", "Warriors": "GSW", "Rockets": "HOU", "Pacers": "IND",
		"Clippers": "LAC", "Lakers": "LAL", "Grizzlies": "MEM", "Heat": "MIA",
		"Bucks": "MIL", "Timberwolves": "MIN", "Pelicans": "NOP", "Knicks": "NYK",
		"Thunder": "OKC", "Magic": "ORL", "76ers": "PHI", "Suns": "PHX",
		"Trail Blazers": "POR", "Kings": "SAC", "Spurs": "SAS", "Raptors": "TOR",
		"Jazz": "UTA", "Wizards": "WAS",
	},
	"MLB": {
		"Diamondbacks": "ARI", "Braves": "ATL", "Orioles": "BAL", "Red Sox": "BOS",
		"Cubs": "CHC", "White Sox": "CWS", "Reds": "CIN", "Guardians": "CLE",
		"Rockies": "COL", "Tigers": "DET", "Astros": "HOU", "Royals": "KC",
		"Angels": "LAA", "Dodgers": "LAD", "Marlins": "MIA", "Brewers": "MIL",
		"Twins": "MIN", "Mets": "NYM", "Yankees": "NYY", "Athletics": "OAK",
		"Phillies": "PHI", "Pirates": "PIT", "Padres": "SD", "Giants": "SF",
		"Mariners": "SEA", "Cardinals": "STL", "Rays": "TB", "Rangers": "TEX",
		"Blue Jays": "TOR", "Nationals": "WSH",
	},
	"NHL": {
		"Ducks": "ANA", "Bruins": "BOS", "Sabres": "BUF", "Flames": "CGY",
		"Hurricanes": "CAR", "Blackhawks": "CHI", "Avalanche": "COL",
		"Blue Jackets": "CBJ", "Stars": "DAL", "Red Wings": "DET", "Oilers": "EDM",
		"Panthers": "FLA", "Kings": "LAK", "Wild": "MIN", "Canadiens": "MTL",
		"Predators": "NSH", "Devils": "NJD", "Islanders": "NYI", "Rangers": "NYR",
		"Senators": "OTT", "Flyers": "PHI", "Penguins": "PIT", "Sharks": "SJS",
		"Kraken": "SEA", "Blues": "STL", "Lightning": "TBL", "Maple Leafs": "TOR",
		"Mammoth": "UTA", "Canucks": "VAN", "Golden Knights": "VGK",
		"Capitals": "WSH", "Jets": "WPG",
	},
}

// Team resolves a raw team string to its canonical abbreviation. Resolution
// order: exact full name, case-insensitive full name, already-an-abbreviation,
// nickname, substring containment in either direction. A string that resolves
// nowhere is returned upper-cased so the row stays attributable.
func Team(raw, league string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lg := strings.ToUpper(league)
	full := teamAbbrevs[lg]
	nick := teamNicknames[lg]

	if abbr, ok := full[raw]; ok {
		return abbr
	}
	for name, abbr := range full {
		if strings.EqualFold(name, raw) {
			return abbr
		}
	}
	upper := strings.ToUpper(raw)
	for _, abbr := range full {
		if abbr == upper {
			return abbr
		}
	}
	if abbr, ok := nick[raw]; ok {
		return abbr
	}
	for name, abbr := range nick {
		if strings.EqualFold(name, raw) {
			return abbr
		}
	}
	lower := strings.ToLower(raw)
	for name, abbr := range full {
		ln := strings.ToLower(name)
		if strings.Contains(ln, lower) || strings.Contains(lower, ln) {
			return abbr
		}
	}
	return upper
}
