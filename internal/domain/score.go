package domain

import "time"

// SolvedMarker records a live award for one (user, challenge) pair. After
// ExpiresAt the challenge becomes solvable again; the cumulative score is
// retained.
type SolvedMarker struct {
	ChallengeID string    `json:"challenge_id"`
	AwardedAt   time.Time `json:"awarded_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SolutionEntry is the logged detail of one award.
type SolutionEntry struct {
	Timestamp     time.Time      `json:"timestamp"`
	Evidence      map[string]any `json:"validation_result"`
	PointsAwarded int            `json:"points_awarded"`
}

// ScoreRecord is one user's view of the ledger.
type ScoreRecord struct {
	UserID string         `json:"user_id"`
	Score  int            `json:"score"`
	Solved []SolvedMarker `json:"solved"`
}

// AwardResult reports the effect of an award attempt. A replay while the
// solved marker is live sets AlreadySolved with a zero Points delta.
type AwardResult struct {
	AlreadySolved bool `json:"already_solved"`
	Points        int  `json:"points"`
	TotalScore    int  `json:"total_score"`
}

// SpendResult reports the effect of a hint spend.
type SpendResult struct {
	Cost      int `json:"cost"`
	Remaining int `json:"remaining"`
}
