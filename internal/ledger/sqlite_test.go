package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/autoagenix/aihem-labs/internal/domain"
)

func newTestLedger(t *testing.T, ttl time.Duration) *SQLiteLedger {
	t.Helper()
	l, err := NewSQLite(filepath.Join(t.TempDir(), "scores.db"), ttl)
	if err != nil {
		t.Fatalf("Failed to create ledger: %v", err)
	}
	t.Cleanup(func() {
		if err := l.Close(); err != nil {
			t.Errorf("Failed to close ledger: %v", err)
		}
	})
	return l
}

func TestAwardFirstIsIdempotent(t *testing.T) {
	l := newTestLedger(t, time.Hour)
	ctx := context.Background()
	evidence := map[string]any{"type": "response_contains"}

	first, err := l.AwardFirst(ctx, "alice", "PE-001", 25, evidence)
	if err != nil {
		t.Fatalf("First award failed: %v", err)
	}
	if first.AlreadySolved || first.Points != 25 || first.TotalScore != 25 {
		t.Errorf("Expected fresh award of 25, got %+v", first)
	}

	second, err := l.AwardFirst(ctx, "alice", "PE-001", 25, evidence)
	if err != nil {
		t.Fatalf("Replay award failed: %v", err)
	}
	if !second.AlreadySolved {
		t.Error("Expected replay to report already solved")
	}
	if second.Points != 0 {
		t.Errorf("Expected zero delta on replay, got %d", second.Points)
	}
	if second.TotalScore != 25 {
		t.Errorf("Expected total unchanged at 25, got %d", second.TotalScore)
	}
}

func TestAwardAccumulatesAcrossChallenges(t *testing.T) {
	l := newTestLedger(t, time.Hour)
	ctx := context.Background()

	if _, err := l.AwardFirst(ctx, "alice", "PE-001", 25, nil); err != nil {
		t.Fatalf("Award failed: %v", err)
	}
	result, err := l.AwardFirst(ctx, "alice", "PE-002", 30, nil)
	if err != nil {
		t.Fatalf("Award failed: %v", err)
	}
	if result.TotalScore != 55 {
		t.Errorf("Expected total 55, got %d", result.TotalScore)
	}
}

func TestAwardAgainAfterMarkerLapses(t *testing.T) {
	// A zero-length retention window makes every marker lapse immediately.
	l := newTestLedger(t, 0)
	ctx := context.Background()

	if _, err := l.AwardFirst(ctx, "alice", "PE-001", 25, nil); err != nil {
		t.Fatalf("Award failed: %v", err)
	}

	result, err := l.AwardFirst(ctx, "alice", "PE-001", 25, nil)
	if err != nil {
		t.Fatalf("Re-award failed: %v", err)
	}
	if result.AlreadySolved {
		t.Error("Expected lapsed marker to allow a fresh award")
	}
	if result.TotalScore != 50 {
		t.Errorf("Expected cumulative score retained across re-award, got %d", result.TotalScore)
	}
}

func TestSpendFloor(t *testing.T) {
	l := newTestLedger(t, time.Hour)
	ctx := context.Background()

	if _, err := l.AwardFirst(ctx, "alice", "PE-001", 10, nil); err != nil {
		t.Fatalf("Award failed: %v", err)
	}

	result, err := l.Spend(ctx, "alice", 15)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("Expected ErrInsufficientBalance, got %v", err)
	}
	if result.Remaining != 10 {
		t.Errorf("Expected balance unchanged at 10, got %d", result.Remaining)
	}

	// The failed spend must not have touched the balance.
	progress, err := l.Progress(ctx, "alice")
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if progress.Score != 10 {
		t.Errorf("Expected score 10 after rejected spend, got %d", progress.Score)
	}
}

func TestSpendDeducts(t *testing.T) {
	l := newTestLedger(t, time.Hour)
	ctx := context.Background()

	if _, err := l.AwardFirst(ctx, "alice", "PE-001", 30, nil); err != nil {
		t.Fatalf("Award failed: %v", err)
	}

	result, err := l.Spend(ctx, "alice", 15)
	if err != nil {
		t.Fatalf("Spend failed: %v", err)
	}
	if result.Remaining != 15 {
		t.Errorf("Expected remaining 15, got %d", result.Remaining)
	}

	// Spending the exact balance leaves zero.
	result, err = l.Spend(ctx, "alice", 15)
	if err != nil {
		t.Fatalf("Spend failed: %v", err)
	}
	if result.Remaining != 0 {
		t.Errorf("Expected remaining 0, got %d", result.Remaining)
	}
}

func TestSpendUnknownUser(t *testing.T) {
	l := newTestLedger(t, time.Hour)

	result, err := l.Spend(context.Background(), "nobody", 5)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("Expected ErrInsufficientBalance, got %v", err)
	}
	if result.Remaining != 0 {
		t.Errorf("Expected zero balance, got %d", result.Remaining)
	}
}

func TestProgress(t *testing.T) {
	l := newTestLedger(t, time.Hour)
	ctx := context.Background()
	evidence := map[string]any{"type": "response_contains", "matches": []any{"FLAG"}}

	if _, err := l.AwardFirst(ctx, "alice", "PE-002", 30, nil); err != nil {
		t.Fatalf("Award failed: %v", err)
	}
	if _, err := l.AwardFirst(ctx, "alice", "PE-001", 25, evidence); err != nil {
		t.Fatalf("Award failed: %v", err)
	}

	progress, err := l.Progress(ctx, "alice")
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if progress.Score != 55 {
		t.Errorf("Expected score 55, got %d", progress.Score)
	}
	if len(progress.Solved) != 2 {
		t.Fatalf("Expected 2 solved entries, got %d", len(progress.Solved))
	}
	// Entries come back in identifier order.
	if progress.Solved[0].ChallengeID != "PE-001" || progress.Solved[1].ChallengeID != "PE-002" {
		t.Errorf("Expected identifier-ordered entries, got %s, %s",
			progress.Solved[0].ChallengeID, progress.Solved[1].ChallengeID)
	}
	if progress.Solved[0].Evidence["type"] != "response_contains" {
		t.Errorf("Expected evidence round-trip, got %+v", progress.Solved[0].Evidence)
	}
}

func TestProgressUnknownUser(t *testing.T) {
	l := newTestLedger(t, time.Hour)

	progress, err := l.Progress(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if progress.Score != 0 || len(progress.Solved) != 0 {
		t.Errorf("Expected empty progress, got %+v", progress)
	}
}

func TestSnapshot(t *testing.T) {
	l := newTestLedger(t, time.Hour)
	ctx := context.Background()

	if _, err := l.AwardFirst(ctx, "bob", "PE-001", 25, nil); err != nil {
		t.Fatalf("Award failed: %v", err)
	}
	if _, err := l.AwardFirst(ctx, "alice", "PE-001", 25, nil); err != nil {
		t.Fatalf("Award failed: %v", err)
	}
	if _, err := l.AwardFirst(ctx, "alice", "PE-002", 30, nil); err != nil {
		t.Fatalf("Award failed: %v", err)
	}

	records, err := l.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].UserID != "alice" || records[1].UserID != "bob" {
		t.Errorf("Expected user-ordered records, got %s, %s", records[0].UserID, records[1].UserID)
	}
	if records[0].Score != 55 || len(records[0].Solved) != 2 {
		t.Errorf("Expected alice at 55 with 2 solves, got %+v", records[0])
	}
}

func TestSweepExpired(t *testing.T) {
	l := newTestLedger(t, 0)
	ctx := context.Background()

	if _, err := l.AwardFirst(ctx, "alice", "PE-001", 25, nil); err != nil {
		t.Fatalf("Award failed: %v", err)
	}

	deleted, err := l.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 lapsed marker deleted, got %d", deleted)
	}

	// The score survives the sweep.
	progress, err := l.Progress(ctx, "alice")
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if progress.Score != 25 {
		t.Errorf("Expected score retained at 25, got %d", progress.Score)
	}
}

func TestConcurrentAwardsSingleWinner(t *testing.T) {
	l := newTestLedger(t, time.Hour)
	ctx := context.Background()

	const attempts = 10
	results := make([]domain.AwardResult, attempts)
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = l.AwardFirst(ctx, "alice", "PE-001", 25, nil)
		}(i)
	}
	wg.Wait()

	fresh := 0
	for i := 0; i < attempts; i++ {
		if errs[i] != nil {
			t.Fatalf("Award %d failed: %v", i, errs[i])
		}
		if !results[i].AlreadySolved {
			fresh++
		}
	}
	if fresh != 1 {
		t.Errorf("Expected exactly one fresh award, got %d", fresh)
	}

	progress, err := l.Progress(ctx, "alice")
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if progress.Score != 25 {
		t.Errorf("Expected score 25 after concurrent awards, got %d", progress.Score)
	}
}
