// Package domain defines the core types for the challenge platform.
package domain

// Difficulty classifies how hard a challenge is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// Difficulties lists all valid difficulty levels in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}

// Valid reports whether d is a known difficulty level.
func (d Difficulty) Valid() bool {
	for _, known := range Difficulties {
		if d == known {
			return true
		}
	}
	return false
}

// Criterion kind tags understood by the validator registries.
const (
	KindResponseContains      = "response_contains"
	KindBypassDetection       = "bypass_detection"
	KindRAGPoisoning          = "rag_poisoning"
	KindCodeExecution         = "code_execution"
	KindMembershipInference   = "membership_inference"
	KindModelExtraction       = "model_extraction"
	KindAdversarialSuccess    = "adversarial_success"
	KindSideChannelExtraction = "side_channel_extraction"
	KindToolMisuse            = "tool_misuse"
	KindDataExtraction        = "data_extraction"
)

// Criterion is one declared success condition for a challenge. Kind selects
// the validator; the remaining fields are per-kind and zero for other kinds.
// Unknown kinds never match.
type Criterion struct {
	Kind                string   `yaml:"type" json:"type"`
	Keywords            []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	MinMatches          int      `yaml:"min_matches,omitempty" json:"min_matches,omitempty"`
	FormatValidation    bool     `yaml:"format_validation,omitempty" json:"format_validation,omitempty"`
	TriggerQuery        string   `yaml:"trigger_query,omitempty" json:"trigger_query,omitempty"`
	ExpectedResponse    string   `yaml:"expected_response,omitempty" json:"expected_response,omitempty"`
	TargetData          string   `yaml:"target_data,omitempty" json:"target_data,omitempty"`
	ConfidenceThreshold float64  `yaml:"confidence_threshold,omitempty" json:"confidence_threshold,omitempty"`
	ChannelType         string   `yaml:"channel_type,omitempty" json:"channel_type,omitempty"`
	FragmentsRequired   int      `yaml:"prompt_fragments_extracted,omitempty" json:"prompt_fragments_extracted,omitempty"`
}

// Hint is a priced piece of guidance. Levels are unique within a challenge
// but not required to be contiguous.
type Hint struct {
	Level int    `yaml:"level" json:"level"`
	Cost  int    `yaml:"cost" json:"cost"`
	Text  string `yaml:"hint" json:"hint"`
}

// Challenge is a named exploit scenario with success criteria and a point value.
// Criteria are OR-combined: satisfying any one solves the challenge.
type Challenge struct {
	ID                 string      `yaml:"id" json:"id"`
	Name               string      `yaml:"name" json:"name"`
	Category           string      `yaml:"category" json:"category"`
	Difficulty         Difficulty  `yaml:"difficulty" json:"difficulty"`
	Points             int         `yaml:"points" json:"points"`
	OWASPCategory      string      `yaml:"owasp_category" json:"owasp_category"`
	Description        string      `yaml:"description" json:"description"`
	LearningObjectives []string    `yaml:"learning_objectives,omitempty" json:"learning_objectives,omitempty"`
	AttackVectors      []string    `yaml:"attack_vectors,omitempty" json:"attack_vectors,omitempty"`
	Criteria           []Criterion `yaml:"solution_criteria" json:"solution_criteria"`
	Hints              []Hint      `yaml:"hints,omitempty" json:"hints,omitempty"`
}

// HintByLevel returns the hint with the given level, or nil if none exists.
func (c *Challenge) HintByLevel(level int) *Hint {
	for i := range c.Hints {
		if c.Hints[i].Level == level {
			return &c.Hints[i]
		}
	}
	return nil
}
