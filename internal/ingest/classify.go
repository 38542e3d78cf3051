// Package ingest turns raw upstream events into persisted prop lines. The
// flow is classify -> decompose -> upsert; each stage is independently
// testable.
package ingest

import (
	"strings"

	"github.com/propsight/propsight/internal/ingest/normalize"
	"github.com/propsight/propsight/internal/providers"
)

// Classification outcomes. Only Accepted odds flow into decomposition;
// RejectedUnmapped is the one outcome worth logging because it means the
// vocabulary tables are missing a market the feed carries.
type ClassifyResult int

const (
	Accepted ClassifyResult = iota
	RejectedShape
	RejectedNotPlayer
	RejectedBetType
	RejectedSide
	RejectedUnmapped
	RejectedNoUnderSide
)

// ClassifyOdd decides whether a single odd entry is the over side of a
// player over/under market with both sides present. Classification works off
// the oddID, which encodes statID-playerID-periodID-betTypeID-sideID; the
// under side is located by substituting the side segment.
func ClassifyOdd(odd providers.OddEntry, allOdds map[string]providers.OddEntry, league string) ClassifyResult {
	parts := strings.Split(odd.OddID, "-")
	if len(parts) != 5 {
		return RejectedShape
	}
	statID, playerID, betTypeID, sideID := parts[0], parts[1], parts[3], parts[4]

	if !normalize.IsPlayerID(playerID) {
		return RejectedNotPlayer
	}
	if betTypeID != "ou" {
		return RejectedBetType
	}
	if sideID != "over" {
		return RejectedSide
	}
	if !normalize.IsKnownMarket(statID, league) {
		return RejectedUnmapped
	}
	if _, ok := allOdds[UnderOddID(odd.OddID)]; !ok {
		return RejectedNoUnderSide
	}
	return Accepted
}

// UnderOddID derives the under-side oddID from an over-side oddID.
func UnderOddID(overOddID string) string {
	if !strings.HasSuffix(overOddID, "-over") {
		return ""
	}
	return strings.TrimSuffix(overOddID, "-over") + "-under"
}
