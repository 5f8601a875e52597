package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/autoagenix/aihem-labs/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteLedger implements Ledger on an embedded SQLite database. Award and
// spend run inside a transaction under a per-user mutex, which serializes the
// check-then-act sequence for each user key.
type SQLiteLedger struct {
	db        *sql.DB
	solvedTTL time.Duration
	userLocks sync.Map // userID -> *sync.Mutex
}

// NewSQLite creates a SQLite-backed ledger at dbPath. solvedTTL is the
// solved-marker retention window.
func NewSQLite(dbPath string, solvedTTL time.Duration) (*SQLiteLedger, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	ledger := &SQLiteLedger{db: db, solvedTTL: solvedTTL}
	if err := ledger.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return ledger, nil
}

func (l *SQLiteLedger) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS scores (
		user_id TEXT PRIMARY KEY,
		score INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS solved (
		user_id TEXT NOT NULL,
		challenge_id TEXT NOT NULL,
		awarded_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL,
		points INTEGER NOT NULL,
		evidence_json TEXT,
		PRIMARY KEY (user_id, challenge_id)
	);
	CREATE INDEX IF NOT EXISTS idx_solved_expires ON solved(expires_at);
	`
	if _, err := l.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (l *SQLiteLedger) lockUser(userID string) *sync.Mutex {
	lock, _ := l.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	return mu
}

// AwardFirst awards points at most once per live solved marker.
func (l *SQLiteLedger) AwardFirst(ctx context.Context, userID, challengeID string, points int, evidence map[string]any) (domain.AwardResult, error) {
	mu := l.lockUser(userID)
	defer mu.Unlock()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.AwardResult{}, storeErr("begin award", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	now := time.Now()

	var expiresAt int64
	err = tx.QueryRowContext(ctx,
		`SELECT expires_at FROM solved WHERE user_id = ? AND challenge_id = ?`,
		userID, challengeID,
	).Scan(&expiresAt)
	if err != nil && err != sql.ErrNoRows {
		return domain.AwardResult{}, storeErr("check solved", err)
	}
	if err == nil && expiresAt > now.Unix() {
		var total int
		if err := tx.QueryRowContext(ctx, `SELECT score FROM scores WHERE user_id = ?`, userID).Scan(&total); err != nil && err != sql.ErrNoRows {
			return domain.AwardResult{}, storeErr("read score", err)
		}
		return domain.AwardResult{AlreadySolved: true, TotalScore: total}, nil
	}

	evidenceJSON, err := json.Marshal(evidence)
	if err != nil {
		return domain.AwardResult{}, fmt.Errorf("marshal evidence: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO scores (user_id, score, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			score = scores.score + excluded.score,
			updated_at = excluded.updated_at`,
		userID, points, now.Unix(), now.Unix(),
	); err != nil {
		return domain.AwardResult{}, storeErr("increment score", err)
	}

	// A lapsed marker for the same pair is replaced, which re-awards the
	// challenge without touching the retained cumulative score.
	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO solved (user_id, challenge_id, awarded_at, expires_at, points, evidence_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, challengeID, now.Unix(), now.Add(l.solvedTTL).Unix(), points, string(evidenceJSON),
	); err != nil {
		return domain.AwardResult{}, storeErr("insert solved marker", err)
	}

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT score FROM scores WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return domain.AwardResult{}, storeErr("read score", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.AwardResult{}, storeErr("commit award", err)
	}
	return domain.AwardResult{Points: points, TotalScore: total}, nil
}

// Spend deducts a hint cost, never below zero.
func (l *SQLiteLedger) Spend(ctx context.Context, userID string, cost int) (domain.SpendResult, error) {
	mu := l.lockUser(userID)
	defer mu.Unlock()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.SpendResult{}, storeErr("begin spend", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var balance int
	err = tx.QueryRowContext(ctx, `SELECT score FROM scores WHERE user_id = ?`, userID).Scan(&balance)
	if err != nil && err != sql.ErrNoRows {
		return domain.SpendResult{}, storeErr("read score", err)
	}

	if balance < cost {
		return domain.SpendResult{Cost: cost, Remaining: balance},
			fmt.Errorf("spend %d with balance %d: %w", cost, balance, domain.ErrInsufficientBalance)
	}

	now := time.Now().Unix()
	if _, err := tx.ExecContext(ctx, `
		UPDATE scores SET score = score - ?, updated_at = ? WHERE user_id = ?`,
		cost, now, userID,
	); err != nil {
		return domain.SpendResult{}, storeErr("decrement score", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.SpendResult{}, storeErr("commit spend", err)
	}
	return domain.SpendResult{Cost: cost, Remaining: balance - cost}, nil
}

// Progress returns the user's score and live solved set.
func (l *SQLiteLedger) Progress(ctx context.Context, userID string) (*Progress, error) {
	progress := &Progress{UserID: userID, Solved: []Entry{}}

	err := l.db.QueryRowContext(ctx, `SELECT score FROM scores WHERE user_id = ?`, userID).Scan(&progress.Score)
	if err != nil && err != sql.ErrNoRows {
		return nil, storeErr("read score", err)
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT challenge_id, awarded_at, points, evidence_json
		FROM solved WHERE user_id = ? AND expires_at > ?
		ORDER BY challenge_id`,
		userID, time.Now().Unix(),
	)
	if err != nil {
		return nil, storeErr("query solved", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close solved rows", "error", closeErr)
		}
	}()

	for rows.Next() {
		var entry Entry
		var awardedAt int64
		var evidenceJSON sql.NullString

		if err := rows.Scan(&entry.ChallengeID, &awardedAt, &entry.Points, &evidenceJSON); err != nil {
			return nil, storeErr("scan solved row", err)
		}
		entry.AwardedAt = time.Unix(awardedAt, 0).UTC()
		if evidenceJSON.Valid && evidenceJSON.String != "" {
			_ = json.Unmarshal([]byte(evidenceJSON.String), &entry.Evidence)
		}
		progress.Solved = append(progress.Solved, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate solved rows", err)
	}

	return progress, nil
}

// Snapshot returns all score records with their live solved markers.
func (l *SQLiteLedger) Snapshot(ctx context.Context) ([]domain.ScoreRecord, error) {
	byUser := make(map[string]*domain.ScoreRecord)

	rows, err := l.db.QueryContext(ctx, `SELECT user_id, score FROM scores`)
	if err != nil {
		return nil, storeErr("query scores", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close score rows", "error", closeErr)
		}
	}()

	var order []string
	for rows.Next() {
		var record domain.ScoreRecord
		if err := rows.Scan(&record.UserID, &record.Score); err != nil {
			return nil, storeErr("scan score row", err)
		}
		byUser[record.UserID] = &record
		order = append(order, record.UserID)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate score rows", err)
	}

	solvedRows, err := l.db.QueryContext(ctx, `
		SELECT user_id, challenge_id, awarded_at, expires_at
		FROM solved WHERE expires_at > ?`,
		time.Now().Unix(),
	)
	if err != nil {
		return nil, storeErr("query solved", err)
	}
	defer func() {
		if closeErr := solvedRows.Close(); closeErr != nil {
			slog.Warn("failed to close solved rows", "error", closeErr)
		}
	}()

	for solvedRows.Next() {
		var userID string
		var marker domain.SolvedMarker
		var awardedAt, expiresAt int64

		if err := solvedRows.Scan(&userID, &marker.ChallengeID, &awardedAt, &expiresAt); err != nil {
			return nil, storeErr("scan solved row", err)
		}
		marker.AwardedAt = time.Unix(awardedAt, 0).UTC()
		marker.ExpiresAt = time.Unix(expiresAt, 0).UTC()

		if record, ok := byUser[userID]; ok {
			record.Solved = append(record.Solved, marker)
		}
	}
	if err := solvedRows.Err(); err != nil {
		return nil, storeErr("iterate solved rows", err)
	}

	sort.Strings(order)
	records := make([]domain.ScoreRecord, 0, len(order))
	for _, userID := range order {
		records = append(records, *byUser[userID])
	}
	return records, nil
}

// SweepExpired deletes lapsed solved markers. Reads already ignore them; the
// sweep only bounds table growth.
func (l *SQLiteLedger) SweepExpired(ctx context.Context) (int64, error) {
	result, err := l.db.ExecContext(ctx, `DELETE FROM solved WHERE expires_at <= ?`, time.Now().Unix())
	if err != nil {
		return 0, storeErr("sweep expired markers", err)
	}
	return result.RowsAffected()
}

// Ping verifies database connectivity.
func (l *SQLiteLedger) Ping(ctx context.Context) error {
	if err := l.db.PingContext(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

// Close closes the database connection.
func (l *SQLiteLedger) Close() error {
	if err := l.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
