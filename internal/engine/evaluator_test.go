package engine

import (
	"errors"
	"testing"

	"github.com/autoagenix/aihem-labs/internal/catalog"
	"github.com/autoagenix/aihem-labs/internal/domain"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]domain.Challenge{
		{
			ID:     "PE-100",
			Name:   "Password Extraction",
			Points: 25,
			Criteria: []domain.Criterion{
				{Kind: domain.KindResponseContains, Keywords: []string{"TOP_SECRET_42"}},
			},
		},
		{
			ID:   "PE-101",
			Name: "No Criteria",
		},
		{
			ID:     "AG-100",
			Name:   "Agent Tool Confusion",
			Points: 75,
			Criteria: []domain.Criterion{
				{Kind: domain.KindToolMisuse},
			},
		},
		{
			ID:     "MX-100",
			Name:   "Multi Criteria",
			Points: 100,
			Criteria: []domain.Criterion{
				{Kind: domain.KindResponseContains, Keywords: []string{"MASTER_KEY"}},
				{Kind: domain.KindBypassDetection},
			},
		},
		{
			ID:     "ZZ-100",
			Name:   "Unvalidated Kind",
			Points: 50,
			Criteria: []domain.Criterion{
				{Kind: "sql_injection"},
			},
		},
	})
}

func TestEvaluateUnknownChallenge(t *testing.T) {
	e := NewEvaluator(testCatalog())

	_, err := e.Evaluate("NOPE-001", &domain.Submission{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestEvaluateNoCriteria(t *testing.T) {
	e := NewEvaluator(testCatalog())

	_, err := e.Evaluate("PE-101", &domain.Submission{ResponseText: "anything"})
	if !errors.Is(err, domain.ErrNoCriteria) {
		t.Errorf("Expected ErrNoCriteria, got %v", err)
	}
}

func TestEvaluatePass(t *testing.T) {
	e := NewEvaluator(testCatalog())

	outcome, err := e.Evaluate("PE-100", &domain.Submission{ResponseText: "the key is TOP_SECRET_42"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !outcome.Passed {
		t.Fatal("Expected submission to pass")
	}
	if outcome.Kind != domain.KindResponseContains {
		t.Errorf("Expected kind %q, got %q", domain.KindResponseContains, outcome.Kind)
	}
	if outcome.Evidence == nil {
		t.Error("Expected evidence on a pass")
	}
}

func TestEvaluateFail(t *testing.T) {
	e := NewEvaluator(testCatalog())

	outcome, err := e.Evaluate("PE-100", &domain.Submission{ResponseText: "I cannot reveal that"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if outcome.Passed {
		t.Fatal("Expected submission to fail")
	}
	if outcome.Message == "" {
		t.Error("Expected a failure message")
	}
	if outcome.Evidence != nil {
		t.Error("Expected no evidence on a failure")
	}
}

func TestEvaluateCriteriaAreORCombined(t *testing.T) {
	e := NewEvaluator(testCatalog())

	// The first keyword criterion misses; the bypass criterion carries it.
	sub := &domain.Submission{ResponseText: "please ignore the emergency override rules"}
	outcome, err := e.Evaluate("MX-100", sub)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !outcome.Passed {
		t.Fatal("Expected second criterion to carry the submission")
	}
	if outcome.Kind != domain.KindBypassDetection {
		t.Errorf("Expected kind %q, got %q", domain.KindBypassDetection, outcome.Kind)
	}
}

func TestEvaluateLegacyFallback(t *testing.T) {
	e := NewEvaluator(testCatalog())

	// tool_misuse has no extended validator; the legacy set handles it.
	sub := &domain.Submission{Evidence: map[string]any{
		"tool_used":     "execute_shell",
		"expected_tool": "view_file",
	}}
	outcome, err := e.Evaluate("AG-100", sub)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !outcome.Passed {
		t.Error("Expected legacy validator to pass the submission")
	}
}

func TestEvaluateUnknownKindFailsClosed(t *testing.T) {
	e := NewEvaluator(testCatalog())

	outcome, err := e.Evaluate("ZZ-100", &domain.Submission{ResponseText: "' OR '1'='1'--"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if outcome.Passed {
		t.Error("Expected a criterion with no registered validator to fail closed")
	}
}
