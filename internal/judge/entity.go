package judge

import "encoding/json"

// Verdict values returned by the judgment service.
const (
	VerdictPass = "PASS"
	VerdictFail = "FAIL"
)

type GoalContext struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type Criteria struct {
	Config json.RawMessage `json:"config"`
}

type AuditRequest struct {
	RequestID        string      `json:"request_id"`
	UserID           string      `json:"user_id"`
	GoalID           string      `json:"goal_id"`
	GoalContext      GoalContext `json:"goal_context"`
	Criteria         Criteria    `json:"criteria"`
	ProofURL         string      `json:"proof_url"`
	Timezone         string      `json:"timezone"`
	CurrentTimeLocal string      `json:"current_time_local"`
}

type AuditResponse struct {
	Verdict          string          `json:"verdict"`
	Remarks          string          `json:"remarks"`
	ExtractedMetrics json.RawMessage `json:"extracted_metrics"`
	ScoreImpact      *float64        `json:"score_impact"`
	Confidence       *float64        `json:"confidence"`
	ProcessingTimeMs *int            `json:"processing_time_ms"`
}
