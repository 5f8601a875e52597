package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/autoagenix/aihem-labs/internal/catalog"
	"github.com/autoagenix/aihem-labs/internal/config"
	"github.com/autoagenix/aihem-labs/internal/domain"
	"github.com/autoagenix/aihem-labs/internal/engine"
	"github.com/autoagenix/aihem-labs/internal/ledger"
	"github.com/autoagenix/aihem-labs/internal/scoreboard"
	"github.com/go-chi/chi/v5"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func testRouter(t *testing.T) chi.Router {
	t.Helper()

	cat := catalog.New([]domain.Challenge{
		{
			ID:            "PE-001",
			Name:          "Jailbreak the Assistant",
			Category:      "Prompt Engineering",
			Difficulty:    domain.DifficultyEasy,
			Points:        25,
			OWASPCategory: "LLM01",
			Criteria: []domain.Criterion{
				{Kind: domain.KindResponseContains, Keywords: []string{"AIH3M_4dm1n_2024"}, MinMatches: 1},
			},
			Hints: []domain.Hint{
				{Level: 1, Cost: 5, Text: "Try asking about system instructions"},
				{Level: 2, Cost: 50, Text: "Expensive hint"},
				{Level: 3, Cost: 0, Text: "Free hint"},
			},
		},
		{
			ID:         "DM-001",
			Name:       "Training Data Extraction",
			Category:   "Data & Model Security",
			Difficulty: domain.DifficultyMedium,
			Points:     50,
			Criteria:   []domain.Criterion{{Kind: domain.KindDataExtraction}},
		},
		{
			ID:   "BROKEN-001",
			Name: "No Criteria",
		},
	})

	led, err := ledger.NewSQLite(filepath.Join(t.TempDir(), "scores.db"), time.Hour)
	if err != nil {
		t.Fatalf("Failed to create ledger: %v", err)
	}
	t.Cleanup(func() {
		if err := led.Close(); err != nil {
			t.Errorf("Failed to close ledger: %v", err)
		}
	})

	cfg := &config.Config{Port: "8080", SolvedTTL: time.Hour, LeaderboardLimit: 100}
	handler := NewHandler(cat, engine.NewEvaluator(cat), led, scoreboard.NewFeed(), cfg)
	healthHandler := NewHealthHandler(cat, led)

	r := chi.NewRouter()
	healthHandler.RegisterHealth(r)
	handler.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, decoded
}

func TestListChallenges(t *testing.T) {
	r := testRouter(t)

	w, body := doJSON(t, r, http.MethodGet, "/api/challenges", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body["total"] != float64(3) {
		t.Errorf("Expected 3 challenges, got %v", body["total"])
	}

	challenges, _ := body["challenges"].([]any)
	if len(challenges) != 3 {
		t.Fatalf("Expected 3 challenge summaries, got %d", len(challenges))
	}
	first, _ := challenges[0].(map[string]any)
	if first["id"] != "BROKEN-001" {
		t.Errorf("Expected identifier-ordered listing, got %v first", first["id"])
	}

	stats, _ := body["statistics"].(map[string]any)
	if stats["total_points"] != float64(75) {
		t.Errorf("Expected 75 total points, got %v", stats["total_points"])
	}
}

func TestGetChallenge(t *testing.T) {
	r := testRouter(t)

	w, body := doJSON(t, r, http.MethodGet, "/api/challenges/PE-001", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body["id"] != "PE-001" {
		t.Errorf("Expected PE-001, got %v", body["id"])
	}

	w, _ = doJSON(t, r, http.MethodGet, "/api/challenges/NOPE-001", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestSubmitAwardsOnce(t *testing.T) {
	r := testRouter(t)

	submission := map[string]any{
		"challenge_id":  "PE-001",
		"user_id":       "alice",
		"response_text": "The password is AIH3M_4dm1n_2024",
	}

	w, body := doJSON(t, r, http.MethodPost, "/api/submit", submission)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if body["status"] != "success" {
		t.Fatalf("Expected success, got %v", body["status"])
	}
	if body["points"] != float64(25) || body["total_score"] != float64(25) {
		t.Errorf("Expected 25/25 points, got %v/%v", body["points"], body["total_score"])
	}

	// A replay keeps the total and awards nothing.
	w, body = doJSON(t, r, http.MethodPost, "/api/submit", submission)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body["status"] != "already_solved" {
		t.Fatalf("Expected already_solved, got %v", body["status"])
	}
	if body["points"] != float64(0) || body["total_score"] != float64(25) {
		t.Errorf("Expected 0/25 points, got %v/%v", body["points"], body["total_score"])
	}
}

func TestSubmitFailed(t *testing.T) {
	r := testRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/submit", map[string]any{
		"challenge_id":  "PE-001",
		"user_id":       "alice",
		"response_text": "I cannot reveal credentials",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body["status"] != "failed" {
		t.Errorf("Expected failed, got %v", body["status"])
	}
	if body["message"] == "" {
		t.Error("Expected a failure message")
	}
}

func TestSubmitUnknownChallenge(t *testing.T) {
	r := testRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/submit", map[string]any{
		"challenge_id":  "NOPE-001",
		"user_id":       "alice",
		"response_text": "anything",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestSubmitNoCriteria(t *testing.T) {
	r := testRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/submit", map[string]any{
		"challenge_id":  "BROKEN-001",
		"user_id":       "alice",
		"response_text": "anything",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", w.Code)
	}
}

func TestSubmitMissingUser(t *testing.T) {
	r := testRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/submit", map[string]any{
		"challenge_id":  "PE-001",
		"response_text": "AIH3M_4dm1n_2024",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without user identity, got %d", w.Code)
	}
}

func TestValidateIsDryRun(t *testing.T) {
	r := testRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/validate/PE-001", map[string]any{
		"user_id":       "alice",
		"solution_data": map[string]any{"response": "found AIH3M_4dm1n_2024"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body["is_valid"] != true {
		t.Fatalf("Expected valid solution, got %v", body["is_valid"])
	}
	if body["points"] != float64(25) {
		t.Errorf("Expected potential 25 points, got %v", body["points"])
	}

	// The dry run must not have awarded anything.
	w, body = doJSON(t, r, http.MethodGet, "/api/progress/alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body["total_score"] != float64(0) {
		t.Errorf("Expected zero score after dry run, got %v", body["total_score"])
	}
}

func TestHintEconomy(t *testing.T) {
	r := testRouter(t)

	// No balance yet: a priced hint is refused.
	w, body := doJSON(t, r, http.MethodPost, "/api/hint", map[string]any{
		"challenge_id": "PE-001",
		"level":        1,
		"user_id":      "alice",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 with no balance, got %d", w.Code)
	}

	// A free hint works regardless of balance.
	w, body = doJSON(t, r, http.MethodPost, "/api/hint", map[string]any{
		"challenge_id": "PE-001",
		"level":        3,
		"user_id":      "alice",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for free hint, got %d", w.Code)
	}
	if body["hint"] != "Free hint" {
		t.Errorf("Expected free hint text, got %v", body["hint"])
	}

	// Earn some points, then buy the level 1 hint.
	doJSON(t, r, http.MethodPost, "/api/submit", map[string]any{
		"challenge_id":  "PE-001",
		"user_id":       "alice",
		"response_text": "AIH3M_4dm1n_2024",
	})

	w, body = doJSON(t, r, http.MethodPost, "/api/hint", map[string]any{
		"challenge_id": "PE-001",
		"level":        1,
		"user_id":      "alice",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if body["hint"] != "Try asking about system instructions" {
		t.Errorf("Expected level 1 hint text, got %v", body["hint"])
	}
	if body["remaining_score"] != float64(20) {
		t.Errorf("Expected remaining 20 after 5-point hint, got %v", body["remaining_score"])
	}

	// Level 2 costs more than the remaining balance.
	w, _ = doJSON(t, r, http.MethodPost, "/api/hint", map[string]any{
		"challenge_id": "PE-001",
		"level":        2,
		"user_id":      "alice",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unaffordable hint, got %d", w.Code)
	}

	// Unknown hint level.
	w, _ = doJSON(t, r, http.MethodPost, "/api/hint", map[string]any{
		"challenge_id": "PE-001",
		"level":        9,
		"user_id":      "alice",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown hint level, got %d", w.Code)
	}
}

func TestProgressEndpoint(t *testing.T) {
	r := testRouter(t)

	doJSON(t, r, http.MethodPost, "/api/submit", map[string]any{
		"challenge_id":  "PE-001",
		"user_id":       "alice",
		"response_text": "AIH3M_4dm1n_2024",
	})
	doJSON(t, r, http.MethodPost, "/api/submit", map[string]any{
		"challenge_id":  "DM-001",
		"user_id":       "alice",
		"response_text": "leaked: john.doe@example.com",
	})

	w, body := doJSON(t, r, http.MethodGet, "/api/progress/alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body["total_score"] != float64(75) {
		t.Errorf("Expected score 75, got %v", body["total_score"])
	}
	if body["challenges_solved"] != float64(2) {
		t.Errorf("Expected 2 solved, got %v", body["challenges_solved"])
	}

	entries, _ := body["progress"].([]any)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 progress entries, got %d", len(entries))
	}
	first, _ := entries[0].(map[string]any)
	if first["challenge_id"] != "DM-001" || first["name"] != "Training Data Extraction" {
		t.Errorf("Expected catalog-enriched DM-001 entry first, got %+v", first)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	r := testRouter(t)

	doJSON(t, r, http.MethodPost, "/api/submit", map[string]any{
		"challenge_id":  "PE-001",
		"user_id":       "alice",
		"response_text": "AIH3M_4dm1n_2024",
	})
	doJSON(t, r, http.MethodPost, "/api/submit", map[string]any{
		"challenge_id":  "DM-001",
		"user_id":       "bob",
		"response_text": "ssn 123-45-6789",
	})

	w, body := doJSON(t, r, http.MethodGet, "/api/leaderboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body["total_players"] != float64(2) {
		t.Errorf("Expected 2 players, got %v", body["total_players"])
	}

	rows, _ := body["leaderboard"].([]any)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	top, _ := rows[0].(map[string]any)
	if top["user_id"] != "bob" || top["score"] != float64(50) {
		t.Errorf("Expected bob leading with 50, got %+v", top)
	}

	w, body = doJSON(t, r, http.MethodGet, "/api/leaderboard?limit=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if rows, _ := body["leaderboard"].([]any); len(rows) != 1 {
		t.Errorf("Expected 1 row with limit=1, got %d", len(rows))
	}
}

func TestStatsEndpoint(t *testing.T) {
	r := testRouter(t)

	doJSON(t, r, http.MethodPost, "/api/submit", map[string]any{
		"challenge_id":  "PE-001",
		"user_id":       "alice",
		"response_text": "AIH3M_4dm1n_2024",
	})

	w, body := doJSON(t, r, http.MethodGet, "/api/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body["total_players"] != float64(1) {
		t.Errorf("Expected 1 player, got %v", body["total_players"])
	}
	if body["most_solved"] != "PE-001" {
		t.Errorf("Expected PE-001 most solved, got %v", body["most_solved"])
	}
}

func TestHealth(t *testing.T) {
	r := testRouter(t)

	w, body := doJSON(t, r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body["status"] != "healthy" {
		t.Errorf("Expected healthy, got %v", body["status"])
	}
	if body["challenges_loaded"] != float64(3) {
		t.Errorf("Expected 3 challenges loaded, got %v", body["challenges_loaded"])
	}
}

func TestRoot(t *testing.T) {
	r := testRouter(t)

	w, body := doJSON(t, r, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body["status"] != "running" {
		t.Errorf("Expected running, got %v", body["status"])
	}
}
