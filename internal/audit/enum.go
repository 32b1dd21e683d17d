package audit

type AuditStatus string

const (
	StatusPending  AuditStatus = "PENDING"
	StatusVerified AuditStatus = "VERIFIED"
	StatusRejected AuditStatus = "REJECTED"
)

// Verdicts surfaced to the caller. TECHNICAL_DIFFICULTY is the
// penalty-free outcome when the judgment service gave no verdict.
const (
	VerdictPass                = "PASS"
	VerdictFail                = "FAIL"
	VerdictTechnicalDifficulty = "TECHNICAL_DIFFICULTY"
)
