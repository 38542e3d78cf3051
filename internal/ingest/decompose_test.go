package ingest

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propsight/propsight/internal/models"
	"github.com/propsight/propsight/internal/providers"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func testEvent() providers.RawEvent {
	ev := providers.RawEvent{
		EventID:  "evt-1",
		LeagueID: "NFL",
	}
	ev.Status.StartsAt = "2025-10-12T17:00:00Z"
	ev.Teams.Home.TeamID = "BUF"
	ev.Teams.Home.Names.Long = "Buffalo Bills"
	ev.Teams.Away.TeamID = "MIA"
	ev.Teams.Away.Names.Long = "Miami Dolphins"
	ev.Players = map[string]providers.RawPlayer{
		"JOSH_ALLEN_1_NFL": {PlayerID: "JOSH_ALLEN_1_NFL", Name: "Josh Allen", TeamID: "BUF", Position: "QB"},
	}
	ev.Odds = map[string]providers.OddEntry{
		"passing_yards-JOSH_ALLEN_1_NFL-game-ou-over": {
			OddID:         "passing_yards-JOSH_ALLEN_1_NFL-game-ou-over",
			BookOverUnder: floatPtr(249.5),
			BookOdds:      intPtr(-110),
			ByBookmaker: map[string]providers.BookmakerOdd{
				"fanduel":    {Odds: intPtr(-112), OverUnder: floatPtr(249.5), Available: true},
				"draftkings": {Odds: intPtr(-108), OverUnder: floatPtr(250.5), Available: true},
				"newbook":    {Odds: intPtr(-105), OverUnder: floatPtr(248.5), Available: true},
			},
		},
		"passing_yards-JOSH_ALLEN_1_NFL-game-ou-under": {
			OddID:         "passing_yards-JOSH_ALLEN_1_NFL-game-ou-under",
			BookOverUnder: floatPtr(249.5),
			BookOdds:      intPtr(-110),
			ByBookmaker: map[string]providers.BookmakerOdd{
				"fanduel": {Odds: intPtr(-108), OverUnder: floatPtr(249.5), Available: true},
				// Draftkings pulled its under: the pair is incomplete there.
				"draftkings": {Odds: intPtr(-112), OverUnder: floatPtr(250.5), Available: false},
				"newbook":    {Odds: intPtr(-115), OverUnder: floatPtr(248.5), Available: true},
			},
		},
	}
	return ev
}

func TestDecomposeEvent(t *testing.T) {
	d := NewDecomposer(logrus.New())
	rows := d.DecomposeEvent(testEvent(), "NFL")

	require.Len(t, rows, 2)
	bySportsbook := map[string]*models.PlayerProp{}
	for _, row := range rows {
		bySportsbook[row.Sportsbook] = row
	}

	fd, ok := bySportsbook["FanDuel"]
	require.True(t, ok, "fanduel pair should be emitted")
	assert.Equal(t, "JOSH_ALLEN_1_NFL", fd.PlayerID)
	assert.Equal(t, "Josh Allen", fd.PlayerName)
	assert.Equal(t, "Passing Yards", fd.PropType)
	assert.Equal(t, 249.5, fd.Line)
	assert.Equal(t, -112, *fd.OverOdds)
	assert.Equal(t, -108, *fd.UnderOdds)
	assert.Equal(t, "BUF", fd.Team)
	assert.Equal(t, "MIA", fd.Opponent)
	assert.Equal(t, "2025-10-12", fd.Date)
	assert.Equal(t, 2025, fd.Season)
	assert.True(t, fd.IsActive)
	assert.Equal(t, models.BuildConflictKey("JOSH_ALLEN_1_NFL", "Passing Yards", 249.5, "FanDuel", "2025-10-12"), fd.ConflictKey)

	// An unrecognized bookmaker id folds into Consensus rather than leaking
	// a raw id into the conflict key space.
	cons, ok := bySportsbook["Consensus"]
	require.True(t, ok)
	assert.Equal(t, 248.5, cons.Line)

	// Draftkings only has the over side available, so no row.
	_, ok = bySportsbook["DraftKings"]
	assert.False(t, ok)
}

func TestDecomposeEventUnmappedWarnsOncePerMarket(t *testing.T) {
	logger, hook := test.NewNullLogger()
	d := NewDecomposer(logger)

	ev := testEvent()
	ev.Odds["corner_kicks-JOSH_ALLEN_1_NFL-game-ou-over"] = providers.OddEntry{
		OddID:         "corner_kicks-JOSH_ALLEN_1_NFL-game-ou-over",
		BookOverUnder: floatPtr(3.5),
	}
	ev.Odds["corner_kicks-STEFON_DIGGS_1_NFL-game-ou-over"] = providers.OddEntry{
		OddID:         "corner_kicks-STEFON_DIGGS_1_NFL-game-ou-over",
		BookOverUnder: floatPtr(2.5),
	}

	rows := d.DecomposeEvent(ev, "NFL")
	assert.Len(t, rows, 2) // unmapped markets contribute nothing

	warnings := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings, "one warning per unmapped market, not per odd")
}

func TestDecomposeEventClassificationPrecision(t *testing.T) {
	logger, hook := test.NewNullLogger()
	d := NewDecomposer(logger)

	ev := providers.RawEvent{EventID: "evt-2", LeagueID: "NFL"}
	ev.Status.StartsAt = "2025-10-12T17:00:00Z"
	ev.Teams.Home.Names.Long = "Buffalo Bills"
	ev.Teams.Away.Names.Long = "Miami Dolphins"
	ev.Odds = map[string]providers.OddEntry{}

	known := []string{"passing_yards", "rushing_yards", "receptions", "receiving_yards", "passing_touchdowns", "rushing_attempts"}
	unmapped := []string{"team_corners", "coach_challenges", "anthem_length", "coin_toss"}

	addPair := func(stat string) {
		overID := stat + "-JOSH_ALLEN_1_NFL-game-ou-over"
		underID := stat + "-JOSH_ALLEN_1_NFL-game-ou-under"
		ev.Odds[overID] = providers.OddEntry{OddID: overID, BookOverUnder: floatPtr(10.5), BookOdds: intPtr(-110)}
		ev.Odds[underID] = providers.OddEntry{OddID: underID, BookOverUnder: floatPtr(10.5), BookOdds: intPtr(-110)}
	}
	for _, stat := range known {
		addPair(stat)
	}
	for _, stat := range unmapped {
		addPair(stat)
	}

	rows := d.DecomposeEvent(ev, "NFL")
	assert.Len(t, rows, 6, "one consensus row per accepted market")

	warnings := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 4, warnings, "one warning per unmapped market")
}

func TestDecomposeEventConsensusFallbackWithoutBookQuotes(t *testing.T) {
	ev := testEvent()
	over := ev.Odds["passing_yards-JOSH_ALLEN_1_NFL-game-ou-over"]
	under := ev.Odds["passing_yards-JOSH_ALLEN_1_NFL-game-ou-under"]
	over.ByBookmaker = nil
	under.ByBookmaker = nil
	ev.Odds["passing_yards-JOSH_ALLEN_1_NFL-game-ou-over"] = over
	ev.Odds["passing_yards-JOSH_ALLEN_1_NFL-game-ou-under"] = under

	d := NewDecomposer(logrus.New())
	rows := d.DecomposeEvent(ev, "NFL")

	require.Len(t, rows, 1)
	assert.Equal(t, "Consensus", rows[0].Sportsbook)
	assert.Equal(t, 249.5, rows[0].Line)
	assert.Equal(t, -110, *rows[0].OverOdds)
	assert.Equal(t, -110, *rows[0].UnderOdds)
}
