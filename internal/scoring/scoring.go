// Package scoring tallies per-question answer votes into a quiz outcome and
// computes cross-player statistics from stored result rows. Everything here
// is pure: inputs in, values out.
package scoring

import (
	"errors"
	"math"

	"github.com/mrelokusa/PopQuiz/internal/models"
)

// ErrEmptyOutcomeSet is returned when a winner is requested for a quiz that
// has neither votes nor any declared outcome to fall back on.
var ErrEmptyOutcomeSet = errors.New("quiz declares no outcomes")

// UnknownOutcomeTitle is the sentinel title reported when no outcome has
// been recorded for a quiz yet.
const UnknownOutcomeTitle = "Unknown"

// Tally counts votes per outcome, remembering the order in which each
// outcome was first voted for. That order is what makes tie-breaking
// deterministic: ties resolve to the outcome voted for first chronologically.
type Tally struct {
	counts map[string]int
	order  []string
}

func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Vote increments the count for an outcome id.
func (t *Tally) Vote(outcomeID string) {
	if _, seen := t.counts[outcomeID]; !seen {
		t.order = append(t.order, outcomeID)
	}
	t.counts[outcomeID]++
}

// Count returns the votes recorded for an outcome id.
func (t *Tally) Count(outcomeID string) int {
	return t.counts[outcomeID]
}

// Total returns the number of votes recorded.
func (t *Tally) Total() int {
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}

// leader returns the first outcome to reach the eventual maximum, scanning
// outcomes in first-vote order. Empty tally returns "".
func (t *Tally) leader() string {
	top := ""
	max := -1
	for _, id := range t.order {
		if c := t.counts[id]; c > max {
			max = c
			top = id
		}
	}
	return top
}

// Winner resolves the winning outcome id for a play session. An empty tally
// falls back to the first declared outcome; with no declared outcomes either,
// ErrEmptyOutcomeSet is returned.
func (t *Tally) Winner(outcomes []models.Outcome) (string, error) {
	if top := t.leader(); top != "" {
		return top, nil
	}
	if len(outcomes) == 0 {
		return "", ErrEmptyOutcomeSet
	}
	return outcomes[0].ID, nil
}

// QuizStats summarizes how one player's outcome compares with everyone
// else's for the same quiz.
type QuizStats struct {
	TotalPlays      int    `json:"total_plays"`
	SharePercent    int    `json:"share_percent"`
	MostCommonID    string `json:"most_common_id,omitempty"`
	MostCommonTitle string `json:"most_common_title"`
	CrowdMatch      bool   `json:"crowd_match"`
}

// ComputeStats derives statistics from the full set of recorded results for
// a quiz. Rows must be in recorded order; the most-common outcome uses the
// same first-to-reach-max rule as Winner. With zero rows the player's share
// is defined as 100%, since they are conceptually the only data point.
func ComputeStats(rows []models.QuizResult, playerOutcomeID string, outcomes []models.Outcome) QuizStats {
	t := NewTally()
	for _, r := range rows {
		t.Vote(r.OutcomeID)
	}

	stats := QuizStats{
		TotalPlays:      t.Total(),
		SharePercent:    100,
		MostCommonTitle: UnknownOutcomeTitle,
	}
	if stats.TotalPlays > 0 {
		share := float64(t.Count(playerOutcomeID)) / float64(stats.TotalPlays) * 100
		stats.SharePercent = int(math.Round(share))
	}

	mostCommon := t.leader()
	stats.MostCommonID = mostCommon
	for _, o := range outcomes {
		if o.ID == mostCommon {
			stats.MostCommonTitle = o.Title
			break
		}
	}
	stats.CrowdMatch = mostCommon != "" && mostCommon == playerOutcomeID
	return stats
}
