package domain

import (
	"encoding/json"
	"fmt"
)

// Submission carries one proof-of-exploit attempt for a challenge.
// Evidence holds side-channel facts attested by the calling demo service,
// such as "document_uploaded" or "tool_used".
type Submission struct {
	ChallengeID  string         `json:"challenge_id"`
	UserID       string         `json:"user_id"`
	Solution     map[string]any `json:"solution"`
	Evidence     map[string]any `json:"evidence"`
	ResponseText string         `json:"response_text"`
}

// Response returns the text to judge: the response text as submitted, or the
// stringified solution payload when the caller supplied none.
func (s *Submission) Response() string {
	if s.ResponseText != "" {
		return s.ResponseText
	}
	if len(s.Solution) == 0 {
		return ""
	}
	b, err := json.Marshal(s.Solution)
	if err != nil {
		return fmt.Sprintf("%v", s.Solution)
	}
	return string(b)
}

// Outcome is the result of evaluating a submission against a challenge.
// A negative outcome carries only a generic message so callers cannot learn
// which criterion came closest.
type Outcome struct {
	Passed   bool           `json:"passed"`
	Kind     string         `json:"type,omitempty"`
	Evidence map[string]any `json:"evidence,omitempty"`
	Message  string         `json:"message,omitempty"`
}
