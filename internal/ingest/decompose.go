package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/propsight/propsight/internal/ingest/normalize"
	"github.com/propsight/propsight/internal/models"
	"github.com/propsight/propsight/internal/providers"
)

// Decomposer flattens raw events into persistable prop rows. Stateless apart
// from the logger; one instance serves the whole pipeline.
type Decomposer struct {
	logger *logrus.Logger
}

func NewDecomposer(logger *logrus.Logger) *Decomposer {
	return &Decomposer{logger: logger}
}

// DecomposeEvent emits one row per (player, market, line, bookmaker) where
// both the over and under side are quoted. Unmapped markets are logged once
// per market per event and skipped; they are data gaps, not errors.
func (d *Decomposer) DecomposeEvent(ev providers.RawEvent, league string) []*models.PlayerProp {
	var rows []*models.PlayerProp
	warned := map[string]bool{}

	date := eventDate(ev)
	season := seasonFromDate(date)
	homeAbbr := normalize.Team(ev.Teams.Home.Names.Long, league)
	awayAbbr := normalize.Team(ev.Teams.Away.Names.Long, league)

	for _, odd := range ev.Odds {
		switch ClassifyOdd(odd, ev.Odds, league) {
		case Accepted:
		case RejectedUnmapped:
			parts := strings.Split(odd.OddID, "-")
			if statID := parts[0]; !warned[statID] {
				warned[statID] = true
				d.logger.Warnf("Unmapped market %q for league %s, skipping", statID, league)
			}
			continue
		default:
			continue
		}

		under := ev.Odds[UnderOddID(odd.OddID)]
		parts := strings.Split(odd.OddID, "-")
		statID, playerID := parts[0], parts[1]

		name, team, opponent := d.playerContext(ev, playerID, homeAbbr, awayAbbr, league)
		propType := normalize.PropType(statID, league)

		emitted := false
		for bookID, overBook := range odd.ByBookmaker {
			underBook, ok := under.ByBookmaker[bookID]
			if !ok || !overBook.Available || !underBook.Available {
				continue
			}
			line := pickLine(overBook.OverUnder, odd.BookOverUnder, odd.FairOverUnder)
			if line == nil {
				continue
			}
			rows = append(rows, d.buildRow(
				playerID, name, team, opponent, season, date, propType, *line,
				overBook.Odds, underBook.Odds, normalize.Bookmaker(bookID), league, ev.EventID,
			))
			emitted = true
		}

		// No per-book quotes on either side: fall back to the top-level
		// consensus odds so the line is not lost entirely.
		if !emitted {
			line := pickLine(nil, odd.BookOverUnder, odd.FairOverUnder)
			if line == nil {
				continue
			}
			rows = append(rows, d.buildRow(
				playerID, name, team, opponent, season, date, propType, *line,
				odd.BookOdds, under.BookOdds, normalize.BookmakerConsensus, league, ev.EventID,
			))
		}
	}
	return rows
}

func (d *Decomposer) buildRow(playerID, name, team, opponent string, season int, date, propType string, line float64, overOdds, underOdds *int, sportsbook, league, gameID string) *models.PlayerProp {
	return &models.PlayerProp{
		PlayerID:    playerID,
		PlayerName:  name,
		Team:        team,
		Opponent:    opponent,
		Season:      season,
		Date:        date,
		PropType:    propType,
		Line:        line,
		OverOdds:    overOdds,
		UnderOdds:   underOdds,
		Sportsbook:  sportsbook,
		League:      strings.ToUpper(league),
		GameID:      gameID,
		ConflictKey: models.BuildConflictKey(playerID, propType, line, sportsbook, date),
		IsActive:    true,
		LastUpdated: time.Now().UTC(),
	}
}

// playerContext resolves display name, team and opponent for a player id.
// The event's player map wins when present; otherwise the name is recovered
// from the id and the team is left on the home side.
func (d *Decomposer) playerContext(ev providers.RawEvent, playerID, homeAbbr, awayAbbr, league string) (name, team, opponent string) {
	if p, ok := ev.Players[playerID]; ok {
		name = p.Name
		if p.TeamID == ev.Teams.Away.TeamID {
			return name, awayAbbr, homeAbbr
		}
		return name, homeAbbr, awayAbbr
	}
	return normalize.PlayerName(playerID), homeAbbr, awayAbbr
}

// pickLine prefers the bookmaker's own quoted line, then the book consensus,
// then the fair line.
func pickLine(bookLine, consensus, fair *float64) *float64 {
	switch {
	case bookLine != nil:
		return bookLine
	case consensus != nil:
		return consensus
	default:
		return fair
	}
}

func eventDate(ev providers.RawEvent) string {
	if t, err := time.Parse(time.RFC3339, ev.Status.StartsAt); err == nil {
		return t.UTC().Format("2006-01-02")
	}
	if len(ev.Status.StartsAt) >= 10 {
		return ev.Status.StartsAt[:10]
	}
	return ev.Status.StartsAt
}

func seasonFromDate(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
