// Package scoreboard derives leaderboard and statistics views from ledger
// snapshots.
package scoreboard

import (
	"sort"

	"github.com/autoagenix/aihem-labs/internal/catalog"
	"github.com/autoagenix/aihem-labs/internal/domain"
)

// Row is one ranked leaderboard entry.
type Row struct {
	Rank             int    `json:"rank"`
	UserID           string `json:"user_id"`
	Score            int    `json:"score"`
	ChallengesSolved int    `json:"challenges_solved"`
}

// Leaderboard ranks the snapshot by score descending, then solved count
// descending, then user identifier ascending, assigns dense 1-based ranks,
// and truncates to limit (0 = no limit). Ordering is fully deterministic.
func Leaderboard(records []domain.ScoreRecord, limit int) []Row {
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, Row{
			UserID:           record.UserID,
			Score:            record.Score,
			ChallengesSolved: len(record.Solved),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		if rows[i].ChallengesSolved != rows[j].ChallengesSolved {
			return rows[i].ChallengesSolved > rows[j].ChallengesSolved
		}
		return rows[i].UserID < rows[j].UserID
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// ChallengeStat summarizes completion of one challenge across all players.
type ChallengeStat struct {
	Name           string  `json:"name"`
	Completions    int     `json:"completions"`
	CompletionRate float64 `json:"completion_rate"` // percent of players
}

// Stats is the aggregate completion view over the whole ledger.
type Stats struct {
	TotalChallenges int                      `json:"total_challenges"`
	TotalPlayers    int                      `json:"total_players"`
	Challenges      map[string]ChallengeStat `json:"challenge_stats"`
	MostSolved      string                   `json:"most_solved,omitempty"`
	LeastSolved     string                   `json:"least_solved,omitempty"`
}

// Aggregate computes per-challenge completion statistics from a ledger
// snapshot. Completions count users with a live solved marker; rates are 0
// when there are no players. Most/least solved break ties by ascending
// challenge identifier.
func Aggregate(records []domain.ScoreRecord, cat *catalog.Catalog) Stats {
	completions := make(map[string]int)
	for _, record := range records {
		for _, marker := range record.Solved {
			completions[marker.ChallengeID]++
		}
	}

	stats := Stats{
		TotalChallenges: cat.Len(),
		TotalPlayers:    len(records),
		Challenges:      make(map[string]ChallengeStat, cat.Len()),
	}

	mostCount, leastCount := -1, -1
	for _, ch := range cat.List() {
		count := completions[ch.ID]

		rate := 0.0
		if stats.TotalPlayers > 0 {
			rate = float64(count) / float64(stats.TotalPlayers) * 100
		}
		stats.Challenges[ch.ID] = ChallengeStat{
			Name:           ch.Name,
			Completions:    count,
			CompletionRate: rate,
		}

		// List is id-ordered, so strict comparisons keep the smallest id on ties.
		if count > mostCount {
			mostCount = count
			stats.MostSolved = ch.ID
		}
		if leastCount == -1 || count < leastCount {
			leastCount = count
			stats.LeastSolved = ch.ID
		}
	}

	return stats
}
