package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/autoagenix/aihem-labs/internal/catalog"
	"github.com/autoagenix/aihem-labs/internal/domain"
	"github.com/autoagenix/aihem-labs/internal/identity"
	"github.com/autoagenix/aihem-labs/internal/scoreboard"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the challenge API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)
	r.Route("/api", func(r chi.Router) {
		r.Get("/challenges", h.ListChallenges)
		r.Get("/challenges/{id}", h.GetChallenge)
		r.Post("/submit", h.Submit)
		r.Post("/validate/{id}", h.Validate)
		r.Post("/hint", h.Hint)
		r.Get("/progress/{userID}", h.Progress)
		r.Get("/leaderboard", h.Leaderboard)
		r.Get("/stats", h.Stats)
	})
}

// Root returns basic service information.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"service":          "AIHEM Labs Challenge Validator",
		"version":          "1.0.0",
		"total_challenges": h.catalog.Len(),
		"owasp_coverage":   "LLM Top 10",
		"status":           "running",
	})
}

// challengeSummary is the listing view of a challenge. Solution criteria are
// omitted here; the full definition endpoint exposes them.
type challengeSummary struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Category           string            `json:"category"`
	Difficulty         domain.Difficulty `json:"difficulty"`
	Points             int               `json:"points"`
	OWASPCategory      string            `json:"owasp_category"`
	Description        string            `json:"description"`
	LearningObjectives []string          `json:"learning_objectives"`
	AttackVectors      []string          `json:"attack_vectors"`
	HintsAvailable     int               `json:"hints_available"`
}

func summarize(ch *domain.Challenge) challengeSummary {
	return challengeSummary{
		ID:                 ch.ID,
		Name:               ch.Name,
		Category:           ch.Category,
		Difficulty:         ch.Difficulty,
		Points:             ch.Points,
		OWASPCategory:      ch.OWASPCategory,
		Description:        ch.Description,
		LearningObjectives: ch.LearningObjectives,
		AttackVectors:      ch.AttackVectors,
		HintsAvailable:     len(ch.Hints),
	}
}

// ListChallenges returns the catalog with derived histograms and totals.
func (h *Handler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	all := h.catalog.List()

	challenges := make([]challengeSummary, 0, len(all))
	for _, ch := range all {
		challenges = append(challenges, summarize(ch))
	}

	categories := make(map[string][]challengeSummary)
	for id, group := range h.catalog.ByCategory() {
		for _, ch := range group {
			categories[id] = append(categories[id], summarize(ch))
		}
	}

	totalPoints := h.catalog.TotalPoints()
	avgPoints := 0.0
	if len(all) > 0 {
		avgPoints = float64(totalPoints) / float64(len(all))
	}
	owaspHistogram := h.catalog.TaxonomyHistogram()

	JSON(w, http.StatusOK, map[string]interface{}{
		"challenges":              challenges,
		"categories":              categories,
		"total":                   len(all),
		"difficulty_distribution": h.catalog.DifficultyHistogram(),
		"owasp_distribution":      owaspHistogram,
		"owasp_mapping":           catalog.OWASPMapping(),
		"difficulty_levels":       catalog.DifficultyLevels(),
		"enhanced_categories":     catalog.Categories(),
		"statistics": map[string]interface{}{
			"total_points":     totalPoints,
			"avg_points":       avgPoints,
			"categories_count": len(categories),
			"owasp_coverage":   len(owaspHistogram),
		},
	})
}

// GetChallenge returns a single challenge definition.
func (h *Handler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ch, ok := h.catalog.ByID(id)
	if !ok {
		Error(w, http.StatusNotFound, "challenge not found")
		return
	}
	JSON(w, http.StatusOK, ch)
}

// Submit evaluates a submission and, on a pass, awards points at most once
// per live solved marker.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var sub domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if sub.UserID == "" {
		sub.UserID = identity.UserIDFromContext(r.Context())
	}
	if sub.UserID == "" {
		Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	ch, ok := h.catalog.ByID(sub.ChallengeID)
	if !ok {
		Error(w, http.StatusNotFound, "challenge not found")
		return
	}

	outcome, err := h.evaluator.Evaluate(sub.ChallengeID, &sub)
	if err != nil {
		h.evaluationError(w, err)
		return
	}

	if !outcome.Passed {
		submissionsTotal.WithLabelValues("failed").Inc()
		JSON(w, http.StatusOK, map[string]interface{}{
			"status":            "failed",
			"message":           outcome.Message,
			"hint":              "Check the challenge requirements and try different approaches.",
			"validation_result": outcome.Evidence,
		})
		return
	}

	result, err := h.ledger.AwardFirst(r.Context(), sub.UserID, ch.ID, ch.Points, outcome.Evidence)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			// Best-effort: acknowledge the solve even though it could not be
			// persisted.
			slog.Error("Award not persisted, score store unavailable", "error", err, "user_id", sub.UserID, "challenge_id", ch.ID)
			submissionsTotal.WithLabelValues("success").Inc()
			JSON(w, http.StatusOK, map[string]interface{}{
				"status":            "success",
				"message":           fmt.Sprintf("Challenge %s completed!", ch.ID),
				"points":            ch.Points,
				"total_score":       ch.Points,
				"validation_result": outcome.Evidence,
				"challenge_name":    ch.Name,
				"difficulty":        ch.Difficulty,
				"ledger":            "unavailable",
			})
			return
		}
		slog.Error("Award failed", "error", err, "user_id", sub.UserID, "challenge_id", ch.ID)
		Error(w, http.StatusInternalServerError, "failed to record award")
		return
	}

	if result.AlreadySolved {
		submissionsTotal.WithLabelValues("already_solved").Inc()
		JSON(w, http.StatusOK, map[string]interface{}{
			"status":      "already_solved",
			"message":     "Challenge already completed",
			"points":      0,
			"total_score": result.TotalScore,
		})
		return
	}

	submissionsTotal.WithLabelValues("success").Inc()
	pointsAwardedTotal.Add(float64(result.Points))
	h.feed.Broadcast(scoreboard.Event{
		UserID:        sub.UserID,
		ChallengeID:   ch.ID,
		ChallengeName: ch.Name,
		Points:        result.Points,
		TotalScore:    result.TotalScore,
	})

	slog.Info("Challenge solved", "user_id", sub.UserID, "challenge_id", ch.ID, "points", result.Points)
	JSON(w, http.StatusOK, map[string]interface{}{
		"status":            "success",
		"message":           fmt.Sprintf("Challenge %s completed!", ch.ID),
		"points":            result.Points,
		"total_score":       result.TotalScore,
		"validation_result": outcome.Evidence,
		"challenge_name":    ch.Name,
		"difficulty":        ch.Difficulty,
	})
}

// validateRequest is the dry-run payload.
type validateRequest struct {
	UserID       string         `json:"user_id"`
	SolutionData map[string]any `json:"solution_data"`
}

// Validate evaluates a solution without touching the ledger.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ch, ok := h.catalog.ByID(id)
	if !ok {
		Error(w, http.StatusNotFound, "challenge not found")
		return
	}

	responseText, _ := req.SolutionData["response"].(string)
	sub := domain.Submission{
		ChallengeID:  id,
		UserID:       req.UserID,
		Solution:     req.SolutionData,
		ResponseText: responseText,
	}

	outcome, err := h.evaluator.Evaluate(id, &sub)
	if err != nil {
		h.evaluationError(w, err)
		return
	}

	points := 0
	if outcome.Passed {
		points = ch.Points
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"challenge_id":      id,
		"is_valid":          outcome.Passed,
		"validation_result": outcome,
		"points":            points,
	})
}

// hintRequest asks for one hint level of a challenge.
type hintRequest struct {
	ChallengeID string `json:"challenge_id"`
	Level       int    `json:"level"`
	UserID      string `json:"user_id"`
}

// Hint returns a hint, deducting its cost from the user's balance. The
// balance never goes below zero.
func (h *Handler) Hint(w http.ResponseWriter, r *http.Request) {
	var req hintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		req.UserID = identity.UserIDFromContext(r.Context())
	}

	ch, ok := h.catalog.ByID(req.ChallengeID)
	if !ok {
		Error(w, http.StatusNotFound, "challenge not found")
		return
	}

	hint := ch.HintByLevel(req.Level)
	if hint == nil {
		Error(w, http.StatusNotFound, "hint level not found")
		return
	}

	remaining := 0
	if hint.Cost > 0 {
		result, err := h.ledger.Spend(r.Context(), req.UserID, hint.Cost)
		switch {
		case errors.Is(err, domain.ErrInsufficientBalance):
			Error(w, http.StatusBadRequest,
				fmt.Sprintf("Insufficient points. Need %d points, have %d", hint.Cost, result.Remaining))
			return
		case errors.Is(err, domain.ErrStoreUnavailable):
			slog.Error("Hint spend not persisted, score store unavailable", "error", err, "user_id", req.UserID)
		case err != nil:
			slog.Error("Hint spend failed", "error", err, "user_id", req.UserID)
			Error(w, http.StatusInternalServerError, "failed to spend hint cost")
			return
		default:
			remaining = result.Remaining
			hintSpendsTotal.Inc()
		}
	} else if progress, err := h.ledger.Progress(r.Context(), req.UserID); err == nil {
		remaining = progress.Score
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"challenge_id":    req.ChallengeID,
		"hint_level":      hint.Level,
		"hint":            hint.Text,
		"cost":            hint.Cost,
		"remaining_score": remaining,
	})
}

// progressEntry is one solved challenge in a user's progress view.
type progressEntry struct {
	ChallengeID string         `json:"challenge_id"`
	Name        string         `json:"name"`
	Points      int            `json:"points"`
	Difficulty  string         `json:"difficulty"`
	Category    string         `json:"category"`
	CompletedAt time.Time      `json:"completed_at"`
	Evidence    map[string]any `json:"validation_result,omitempty"`
}

// Progress returns a user's score, live solved set, and completion rate.
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	progress, err := h.ledger.Progress(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			slog.Error("Progress unavailable", "error", err, "user_id", userID)
			JSON(w, http.StatusOK, map[string]interface{}{
				"user_id":     userID,
				"total_score": 0,
				"progress":    []progressEntry{},
				"unavailable": true,
			})
			return
		}
		slog.Error("Progress lookup failed", "error", err, "user_id", userID)
		Error(w, http.StatusInternalServerError, "failed to load progress")
		return
	}

	entries := make([]progressEntry, 0, len(progress.Solved))
	for _, solved := range progress.Solved {
		ch, ok := h.catalog.ByID(solved.ChallengeID)
		if !ok {
			// Solved against a definition no longer in the catalog.
			continue
		}
		entries = append(entries, progressEntry{
			ChallengeID: solved.ChallengeID,
			Name:        ch.Name,
			Points:      ch.Points,
			Difficulty:  string(ch.Difficulty),
			Category:    ch.Category,
			CompletedAt: solved.AwardedAt,
			Evidence:    solved.Evidence,
		})
	}

	completionRate := 0.0
	if h.catalog.Len() > 0 {
		completionRate = float64(len(entries)) / float64(h.catalog.Len()) * 100
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"user_id":           userID,
		"total_score":       progress.Score,
		"challenges_solved": len(entries),
		"total_challenges":  h.catalog.Len(),
		"progress":          entries,
		"completion_rate":   completionRate,
	})
}

// Leaderboard returns the ranked score list.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := h.cfg.LeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n < limit {
			limit = n
		}
	}

	records, err := h.ledger.Snapshot(r.Context())
	if err != nil {
		slog.Error("Leaderboard unavailable", "error", err)
		JSON(w, http.StatusOK, map[string]interface{}{
			"leaderboard":   []scoreboard.Row{},
			"total_players": 0,
			"unavailable":   true,
		})
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"leaderboard":   scoreboard.Leaderboard(records, limit),
		"total_players": len(records),
		"last_updated":  time.Now().UTC(),
	})
}

// Stats returns aggregate completion statistics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	records, err := h.ledger.Snapshot(r.Context())
	if err != nil {
		slog.Error("Stats unavailable", "error", err)
		JSON(w, http.StatusOK, map[string]interface{}{
			"total_challenges": h.catalog.Len(),
			"total_players":    0,
			"unavailable":      true,
		})
		return
	}

	JSON(w, http.StatusOK, scoreboard.Aggregate(records, h.catalog))
}

func (h *Handler) evaluationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		Error(w, http.StatusNotFound, "challenge not found")
	case errors.Is(err, domain.ErrNoCriteria):
		// Malformed definition, a configuration error rather than a user one.
		slog.Error("Challenge declares no solution criteria", "error", err)
		Error(w, http.StatusUnprocessableEntity, "challenge has no validation criteria defined")
	default:
		slog.Error("Evaluation failed", "error", err)
		Error(w, http.StatusInternalServerError, "evaluation failed")
	}
}
