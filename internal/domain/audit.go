package domain

import "time"

type AuditEventType string

type AuditResult string

const (
	AuditEventQuoteIssued   AuditEventType = "quote.issued"
	AuditEventPayoutChecked AuditEventType = "payout.checked"

	AuditResultSuccess AuditResult = "success"
	AuditResultFailure AuditResult = "failure"
)

// AuditEvent records that an operation happened, not the artifact it produced.
// Issued quotes themselves are never stored.
type AuditEvent struct {
	ID          string
	EventType   AuditEventType
	TargetID    string
	Payload     map[string]any
	PayloadHash string
	Result      AuditResult
	ErrorCode   string
	CreatedAt   time.Time
}
