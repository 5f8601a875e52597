// Package engine evaluates submissions against challenge success criteria.
package engine

import (
	"fmt"

	"github.com/autoagenix/aihem-labs/internal/catalog"
	"github.com/autoagenix/aihem-labs/internal/domain"
	"github.com/autoagenix/aihem-labs/internal/validator"
)

// failedMessage is the generic negative outcome. It deliberately does not say
// which criterion came closest.
const failedMessage = "Solution did not meet validation criteria. Keep trying!"

// Evaluator judges submissions using the catalog and the validator
// registries. It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	catalog  *catalog.Catalog
	extended *validator.Registry
	legacy   *validator.Registry
}

// NewEvaluator creates an evaluator over the given catalog with the default
// validator registries.
func NewEvaluator(cat *catalog.Catalog) *Evaluator {
	return &Evaluator{
		catalog:  cat,
		extended: validator.Extended(),
		legacy:   validator.Legacy(),
	}
}

// Evaluate judges the submission against the challenge's criteria.
//
// Criteria are OR-combined and tried in declared order, first against the
// extended validator set and then, when none matched, against the legacy set.
// The first satisfied criterion short-circuits with its evidence. Returns
// domain.ErrNotFound for an unknown challenge and domain.ErrNoCriteria for a
// challenge that declares none.
func (e *Evaluator) Evaluate(challengeID string, sub *domain.Submission) (domain.Outcome, error) {
	ch, ok := e.catalog.ByID(challengeID)
	if !ok {
		return domain.Outcome{}, fmt.Errorf("challenge %q: %w", challengeID, domain.ErrNotFound)
	}
	if len(ch.Criteria) == 0 {
		return domain.Outcome{}, fmt.Errorf("challenge %q: %w", challengeID, domain.ErrNoCriteria)
	}

	for _, reg := range []*validator.Registry{e.extended, e.legacy} {
		for _, criterion := range ch.Criteria {
			if matched, evidence := reg.Validate(criterion, sub); matched {
				return domain.Outcome{Passed: true, Kind: criterion.Kind, Evidence: evidence}, nil
			}
		}
	}

	return domain.Outcome{Passed: false, Message: failedMessage}, nil
}
