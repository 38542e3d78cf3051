package analytics

import "github.com/propsight/propsight/internal/models"

// Streak summarizes run-length behavior for one direction. Current is the
// run the player is on right now; its Direction flips to the opposite side
// when the most recent game missed. Longest only counts runs in the
// evaluated direction.
type Streak struct {
	Current   int    `json:"current"`
	Longest   int    `json:"longest"`
	Direction string `json:"direction"`
}

// ComputeStreak walks games most recent first. With games hit,hit,miss,hit in
// chronological order evaluated as overs, the player is on a 1-game over
// streak and the longest over streak is 2.
func ComputeStreak(games []GamePoint, direction string) Streak {
	if len(games) == 0 {
		return Streak{Direction: direction}
	}

	leadingHit := games[0].Hit(direction)
	st := Streak{Direction: direction}
	if !leadingHit {
		st.Direction = opposite(direction)
	}
	for _, g := range games {
		if g.Hit(direction) != leadingHit {
			break
		}
		st.Current++
	}

	longest, cur := 0, 0
	for _, g := range games {
		if g.Hit(direction) {
			cur++
			if cur > longest {
				longest = cur
			}
		} else {
			cur = 0
		}
	}
	st.Longest = longest
	return st
}

func opposite(direction string) string {
	if direction == models.DirectionOver {
		return models.DirectionUnder
	}
	return models.DirectionOver
}
