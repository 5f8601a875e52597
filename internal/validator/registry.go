// Package validator decides pass/fail and evidence for individual solution
// criteria.
//
// Two registries exist: Extended covers the current challenge generation's
// criterion kinds, Legacy the vocabulary of earlier generations. The
// evaluator tries Extended first and falls back to Legacy, since multiple
// challenge generations reuse the same criterion tags.
package validator

import "github.com/autoagenix/aihem-labs/internal/domain"

// Func judges one criterion against a submission and returns whether it is
// satisfied, with explanatory evidence on a match.
type Func func(c domain.Criterion, sub *domain.Submission) (bool, map[string]any)

// Registry maps criterion kind tags to validator functions.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register adds or replaces the validator for a kind.
func (r *Registry) Register(kind string, fn Func) {
	r.funcs[kind] = fn
}

// Validate dispatches the criterion to the validator for its kind.
// Unrecognized kinds fail closed.
func (r *Registry) Validate(c domain.Criterion, sub *domain.Submission) (bool, map[string]any) {
	fn, ok := r.funcs[c.Kind]
	if !ok {
		return false, nil
	}
	return fn(c, sub)
}

// Extended returns the validator set for the current challenge generation.
func Extended() *Registry {
	r := NewRegistry()
	r.Register(domain.KindResponseContains, ResponseContains)
	r.Register(domain.KindBypassDetection, BypassDetection)
	r.Register(domain.KindRAGPoisoning, RAGPoisoning)
	r.Register(domain.KindCodeExecution, CodeExecution)
	r.Register(domain.KindMembershipInference, MembershipInference)
	r.Register(domain.KindModelExtraction, ModelExtraction)
	r.Register(domain.KindAdversarialSuccess, AdversarialSuccess)
	r.Register(domain.KindSideChannelExtraction, SideChannelExtraction)
	return r
}

// Legacy returns the validator set for earlier challenge generations.
func Legacy() *Registry {
	r := NewRegistry()
	r.Register(domain.KindResponseContains, ResponseContains)
	r.Register(domain.KindDataExtraction, DataExtraction)
	r.Register(domain.KindCodeExecution, LegacyCodeExecution)
	r.Register(domain.KindToolMisuse, ToolMisuse)
	return r
}
