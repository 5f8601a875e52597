// Package ledger provides the durable per-user score ledger.
//
// Two implementations exist: a Redis-backed ledger for deployments with a
// shared store, and an embedded SQLite ledger as the standalone fallback.
// Both apply award and spend as single atomic units per user key, so two
// concurrent submissions for the same unsolved challenge can never both
// award.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/autoagenix/aihem-labs/internal/domain"
)

// Entry describes one live solved challenge for a user.
type Entry struct {
	ChallengeID string         `json:"challenge_id"`
	AwardedAt   time.Time      `json:"awarded_at"`
	Points      int            `json:"points"`
	Evidence    map[string]any `json:"validation_result,omitempty"`
}

// Progress is one user's score and live solved set.
type Progress struct {
	UserID string  `json:"user_id"`
	Score  int     `json:"score"`
	Solved []Entry `json:"solved"`
}

// Ledger is the durable per-user record of score, solved challenges, and
// solution history.
type Ledger interface {
	// AwardFirst awards points for a challenge at most once while the solved
	// marker is live. A replay returns AlreadySolved with a zero delta and
	// the current total. After the marker's TTL lapses the challenge becomes
	// awardable again; the cumulative score is retained.
	AwardFirst(ctx context.Context, userID, challengeID string, points int, evidence map[string]any) (domain.AwardResult, error)

	// Spend deducts a hint cost from the user's balance. It fails with
	// domain.ErrInsufficientBalance when the balance is below the cost; the
	// balance never goes negative.
	Spend(ctx context.Context, userID string, cost int) (domain.SpendResult, error)

	// Progress returns the user's total score and live solved set. A user
	// with no ledger interactions yet has a zero score and empty set.
	Progress(ctx context.Context, userID string) (*Progress, error)

	// Snapshot returns all score records with their live solved markers.
	Snapshot(ctx context.Context) ([]domain.ScoreRecord, error)

	// Ping verifies store connectivity.
	Ping(ctx context.Context) error

	// Close releases store resources.
	Close() error
}

// storeErr wraps a backing-store failure so callers can detect it with
// errors.Is(err, domain.ErrStoreUnavailable) and degrade.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %s", op, domain.ErrStoreUnavailable, err)
}
