package ingest

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/propsight/propsight/internal/ingest/normalize"
	"github.com/propsight/propsight/internal/models"
	"github.com/propsight/propsight/internal/providers"
	"github.com/propsight/propsight/pkg/config"
)

// EventSource is the slice of the upstream client the pipeline needs.
type EventSource interface {
	FetchEvents(ctx context.Context, league, season, week string) ([]providers.RawEvent, error)
	FetchEventResults(ctx context.Context, league, season, week string) ([]providers.RawEvent, error)
}

// RunStore persists audit rows and game logs for the pipeline.
type RunStore interface {
	CreateIngestionRun(ctx context.Context, run *models.IngestionRun) error
	UpsertGameLogs(ctx context.Context, rows []*models.GameLog) error
}

// Options selects what one ingestion run covers. Empty Leagues means every
// configured league; empty Season/Week means whatever the feed considers
// current.
type Options struct {
	Leagues     []string
	Season      string
	Week        string
	TriggeredBy string
}

// Summary is the outcome of one ingestion run across all leagues.
type Summary struct {
	TotalProps int                     `json:"total_props"`
	Inserted   int                     `json:"inserted"`
	Updated    int                     `json:"updated"`
	Unchanged  int                     `json:"unchanged"`
	Errors     int                     `json:"errors"`
	Leagues    map[string]UpsertResult `json:"leagues"`
	DurationMs int64                   `json:"duration_ms"`
}

// Pipeline orchestrates fetch, decompose and upsert for prop lines, plus the
// box score path that feeds analytics.
type Pipeline struct {
	source     EventSource
	decomposer *Decomposer
	engine     *UpsertEngine
	runs       RunStore
	logger     *logrus.Logger
	leagues    []string
}

func NewPipeline(source EventSource, engine *UpsertEngine, runs RunStore, cfg *config.Config, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		source:     source,
		decomposer: NewDecomposer(logger),
		engine:     engine,
		runs:       runs,
		logger:     logger,
		leagues:    cfg.ActiveLeagues,
	}
}

// Run executes one full ingestion pass. Per-league failures are recorded and
// the remaining leagues still run; the audit row is written even when every
// league fails.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Summary, error) {
	started := time.Now().UTC()
	leagues := opts.Leagues
	if len(leagues) == 0 {
		leagues = p.leagues
	}

	summary := &Summary{Leagues: make(map[string]UpsertResult, len(leagues))}
	for _, league := range leagues {
		league = strings.ToUpper(strings.TrimSpace(league))
		events, err := p.fetchWithFallback(ctx, league, opts.Season, opts.Week)
		if err != nil {
			p.logger.WithError(err).WithField("league", league).Error("League fetch failed")
			summary.Errors++
			continue
		}

		var rows []*models.PlayerProp
		for _, ev := range events {
			rows = append(rows, p.decomposer.DecomposeEvent(ev, league)...)
		}

		result := p.engine.Upsert(ctx, rows)
		summary.Leagues[league] = result
		summary.TotalProps += len(rows)
		summary.Inserted += result.Inserted
		summary.Updated += result.Updated
		summary.Unchanged += result.Unchanged
		summary.Errors += result.Errors

		p.logger.WithFields(logrus.Fields{
			"league":   league,
			"props":    len(rows),
			"inserted": result.Inserted,
			"updated":  result.Updated,
			"errors":   result.Errors,
		}).Info("League ingestion complete")
	}

	summary.DurationMs = time.Since(started).Milliseconds()
	p.recordRun(ctx, leagues, opts, summary, started)
	return summary, nil
}

// fetchWithFallback applies the two-step relaxation when a query comes back
// empty: first retry with the prior season, then retry without the week
// filter. Each relaxation happens at most once.
func (p *Pipeline) fetchWithFallback(ctx context.Context, league, season, week string) ([]providers.RawEvent, error) {
	events, err := p.source.FetchEvents(ctx, league, season, week)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 && season != "" {
		if prior := priorSeason(season); prior != "" {
			p.logger.WithFields(logrus.Fields{
				"league": league,
				"season": prior,
			}).Info("No events for requested season, retrying prior season")
			events, err = p.source.FetchEvents(ctx, league, prior, week)
			if err != nil {
				return nil, err
			}
			season = prior
		}
	}
	if len(events) == 0 && week != "" {
		p.logger.WithField("league", league).Info("No events for requested week, retrying without week filter")
		events, err = p.source.FetchEvents(ctx, league, season, "")
		if err != nil {
			return nil, err
		}
	}
	return events, nil
}

// RunPerformance ingests box score results from completed events into game
// logs. Zero-valued stats are skipped, matching how analytics later filters.
func (p *Pipeline) RunPerformance(ctx context.Context, opts Options) (int, error) {
	leagues := opts.Leagues
	if len(leagues) == 0 {
		leagues = p.leagues
	}

	total := 0
	for _, league := range leagues {
		league = strings.ToUpper(strings.TrimSpace(league))
		events, err := p.source.FetchEventResults(ctx, league, opts.Season, opts.Week)
		if err != nil {
			p.logger.WithError(err).WithField("league", league).Error("Results fetch failed")
			continue
		}

		var logs []*models.GameLog
		for _, ev := range events {
			logs = append(logs, p.decomposeResults(ev, league)...)
		}
		if err := p.runs.UpsertGameLogs(ctx, logs); err != nil {
			p.logger.WithError(err).WithField("league", league).Error("Game log upsert failed")
			continue
		}
		total += len(logs)
	}
	return total, nil
}

func (p *Pipeline) decomposeResults(ev providers.RawEvent, league string) []*models.GameLog {
	date := eventDate(ev)
	season := seasonFromDate(date)
	homeAbbr := normalize.Team(ev.Teams.Home.Names.Long, league)
	awayAbbr := normalize.Team(ev.Teams.Away.Names.Long, league)

	var logs []*models.GameLog
	for playerID, stats := range ev.Results {
		if !normalize.IsPlayerID(playerID) {
			continue
		}
		name, team, opponent := p.decomposer.playerContext(ev, playerID, homeAbbr, awayAbbr, league)
		position := ""
		if pl, ok := ev.Players[playerID]; ok {
			position = pl.Position
		}
		for statID, value := range stats {
			if value == 0 || !normalize.IsKnownMarket(statID, league) {
				continue
			}
			logs = append(logs, &models.GameLog{
				PlayerID:   playerID,
				PlayerName: name,
				Date:       date,
				PropType:   normalize.PropType(statID, league),
				Value:      value,
				Season:     season,
				Team:       team,
				Opponent:   opponent,
				Position:   position,
				League:     strings.ToUpper(league),
				GameID:     ev.EventID,
			})
		}
	}
	return logs
}

func (p *Pipeline) recordRun(ctx context.Context, leagues []string, opts Options, summary *Summary, started time.Time) {
	run := &models.IngestionRun{
		TriggeredBy: opts.TriggeredBy,
		Leagues:     leagues,
		Season:      opts.Season,
		Week:        opts.Week,
		TotalProps:  summary.TotalProps,
		Inserted:    summary.Inserted,
		Updated:     summary.Updated,
		Errors:      summary.Errors,
		DurationMs:  summary.DurationMs,
		StartedAt:   started,
	}
	if err := p.runs.CreateIngestionRun(ctx, run); err != nil {
		p.logger.WithError(err).Error("Failed to record ingestion run")
	}
}

func priorSeason(season string) string {
	year, err := strconv.Atoi(season)
	if err != nil {
		return ""
	}
	return strconv.Itoa(year - 1)
}
