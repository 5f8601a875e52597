package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/autoagenix/aihem-labs/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	scoreKeyPrefix    = "score:"
	solvedKeyPrefix   = "solved:"
	solutionKeyPrefix = "solution:"
)

// awardScript applies the full award as one server-side unit: check the
// solved marker, increment the score, set the marker and solution blob with
// the retention TTL.
// KEYS: 1=score, 2=solved marker, 3=solution blob.
// ARGV: 1=points, 2=ttl seconds, 3=solution JSON.
// Returns {already(0|1), total}.
var awardScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return {1, tonumber(redis.call("GET", KEYS[1]) or "0")}
end
local total = redis.call("INCRBY", KEYS[1], tonumber(ARGV[1]))
redis.call("SETEX", KEYS[2], tonumber(ARGV[2]), "1")
redis.call("SETEX", KEYS[3], tonumber(ARGV[2]), ARGV[3])
return {0, total}
`)

// spendScript rejects any spend that would drive the balance negative.
// KEYS: 1=score. ARGV: 1=cost. Returns {ok(0|1), balance}.
var spendScript = redis.NewScript(`
local balance = tonumber(redis.call("GET", KEYS[1]) or "0")
local cost = tonumber(ARGV[1])
if balance < cost then
	return {0, balance}
end
return {1, redis.call("DECRBY", KEYS[1], cost)}
`)

// RedisLedger implements Ledger on a Redis store. Atomicity of the
// check-then-act operations comes from server-side Lua scripts.
type RedisLedger struct {
	rdb       *redis.Client
	solvedTTL time.Duration
}

// NewRedis creates a Redis-backed ledger. solvedTTL is the solved-marker
// retention window.
func NewRedis(redisURL string, solvedTTL time.Duration) (*RedisLedger, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisLedger{rdb: redis.NewClient(opts), solvedTTL: solvedTTL}, nil
}

func scoreKey(userID string) string {
	return scoreKeyPrefix + userID
}

func solvedKey(userID, challengeID string) string {
	return solvedKeyPrefix + userID + ":" + challengeID
}

func solutionKey(userID, challengeID string) string {
	return solutionKeyPrefix + userID + ":" + challengeID
}

// AwardFirst awards points at most once per live solved marker.
func (l *RedisLedger) AwardFirst(ctx context.Context, userID, challengeID string, points int, evidence map[string]any) (domain.AwardResult, error) {
	entry := domain.SolutionEntry{
		Timestamp:     time.Now().UTC(),
		Evidence:      evidence,
		PointsAwarded: points,
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return domain.AwardResult{}, fmt.Errorf("marshal solution entry: %w", err)
	}

	keys := []string{scoreKey(userID), solvedKey(userID, challengeID), solutionKey(userID, challengeID)}
	res, err := awardScript.Run(ctx, l.rdb, keys, points, int(l.solvedTTL.Seconds()), string(payload)).Int64Slice()
	if err != nil {
		return domain.AwardResult{}, storeErr("award", err)
	}
	if len(res) != 2 {
		return domain.AwardResult{}, fmt.Errorf("award script returned %d values", len(res))
	}

	if res[0] == 1 {
		return domain.AwardResult{AlreadySolved: true, TotalScore: int(res[1])}, nil
	}
	return domain.AwardResult{Points: points, TotalScore: int(res[1])}, nil
}

// Spend deducts a hint cost, never below zero.
func (l *RedisLedger) Spend(ctx context.Context, userID string, cost int) (domain.SpendResult, error) {
	res, err := spendScript.Run(ctx, l.rdb, []string{scoreKey(userID)}, cost).Int64Slice()
	if err != nil {
		return domain.SpendResult{}, storeErr("spend", err)
	}
	if len(res) != 2 {
		return domain.SpendResult{}, fmt.Errorf("spend script returned %d values", len(res))
	}

	result := domain.SpendResult{Cost: cost, Remaining: int(res[1])}
	if res[0] == 0 {
		return result, fmt.Errorf("spend %d with balance %d: %w", cost, res[1], domain.ErrInsufficientBalance)
	}
	return result, nil
}

// Progress returns the user's score and live solved set.
func (l *RedisLedger) Progress(ctx context.Context, userID string) (*Progress, error) {
	score, err := l.rdb.Get(ctx, scoreKey(userID)).Int()
	if err != nil && err != redis.Nil {
		return nil, storeErr("get score", err)
	}

	progress := &Progress{UserID: userID, Score: score, Solved: []Entry{}}

	prefix := solvedKeyPrefix + userID + ":"
	iter := l.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		challengeID := strings.TrimPrefix(iter.Val(), prefix)
		entry := Entry{ChallengeID: challengeID}

		if raw, err := l.rdb.Get(ctx, solutionKey(userID, challengeID)).Result(); err == nil {
			var solution domain.SolutionEntry
			if json.Unmarshal([]byte(raw), &solution) == nil {
				entry.AwardedAt = solution.Timestamp
				entry.Points = solution.PointsAwarded
				entry.Evidence = solution.Evidence
			}
		}
		progress.Solved = append(progress.Solved, entry)
	}
	if err := iter.Err(); err != nil {
		return nil, storeErr("scan solved", err)
	}

	sort.Slice(progress.Solved, func(i, j int) bool {
		return progress.Solved[i].ChallengeID < progress.Solved[j].ChallengeID
	})
	return progress, nil
}

// Snapshot returns all score records with their live solved markers.
func (l *RedisLedger) Snapshot(ctx context.Context) ([]domain.ScoreRecord, error) {
	var records []domain.ScoreRecord

	iter := l.rdb.Scan(ctx, 0, scoreKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		userID := strings.TrimPrefix(iter.Val(), scoreKeyPrefix)

		score, err := l.rdb.Get(ctx, scoreKey(userID)).Int()
		if err != nil && err != redis.Nil {
			return nil, storeErr("get score", err)
		}

		record := domain.ScoreRecord{UserID: userID, Score: score}
		prefix := solvedKeyPrefix + userID + ":"
		solvedIter := l.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()
		for solvedIter.Next(ctx) {
			record.Solved = append(record.Solved, domain.SolvedMarker{
				ChallengeID: strings.TrimPrefix(solvedIter.Val(), prefix),
			})
		}
		if err := solvedIter.Err(); err != nil {
			return nil, storeErr("scan solved", err)
		}

		records = append(records, record)
	}
	if err := iter.Err(); err != nil {
		return nil, storeErr("scan scores", err)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].UserID < records[j].UserID })
	return records, nil
}

// Ping verifies Redis connectivity.
func (l *RedisLedger) Ping(ctx context.Context) error {
	if err := l.rdb.Ping(ctx).Err(); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

// Close closes the Redis client.
func (l *RedisLedger) Close() error {
	return l.rdb.Close()
}
