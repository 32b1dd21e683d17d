package audit

import "encoding/json"

// Proof is the raw submitted artifact: the payload plus the declared
// media type, exactly as received.
type Proof struct {
	Data        []byte
	ContentType string
}

type SubmitResponse struct {
	Verdict          string          `json:"verdict"`
	Remarks          *string         `json:"remarks"`
	ExtractedMetrics json.RawMessage `json:"extracted_metrics"`
	ScoreDelta       float64         `json:"score_delta"`
}
