package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"flarecover/internal/domain"
)

// AuditEmitter appends operation records to the audit store. Only event
// metadata is recorded; the signed quote itself never leaves the response.
type AuditEmitter struct {
	Repo  AuditEventRepository
	Clock Clock
}

func NewAuditEmitter(repo AuditEventRepository, clock Clock) *AuditEmitter {
	return &AuditEmitter{Repo: repo, Clock: clock}
}

func (e *AuditEmitter) Emit(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error) {
	if e == nil || e.Repo == nil {
		return domain.AuditEvent{}, errors.New("audit repository required")
	}
	if event.EventType == "" || event.Result == "" {
		return domain.AuditEvent{}, errors.New("audit event missing required fields")
	}
	if event.Payload == nil {
		event.Payload = map[string]any{}
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = e.now().UTC()
	} else {
		event.CreatedAt = event.CreatedAt.UTC()
	}
	return e.Repo.Append(ctx, event)
}

func (e *AuditEmitter) EmitQuoteIssued(ctx context.Context, flightID, holderAddress, premiumMinor string, result domain.AuditResult, errorCode string) error {
	payload := map[string]any{
		"flight_id":   flightID,
		"holder_hash": hashString(holderAddress),
	}
	if premiumMinor != "" {
		payload["premium_minor"] = premiumMinor
	}
	_, err := e.Emit(ctx, domain.AuditEvent{
		EventType: domain.AuditEventQuoteIssued,
		TargetID:  flightID,
		Payload:   payload,
		Result:    result,
		ErrorCode: errorCode,
	})
	return err
}

func (e *AuditEmitter) EmitPayoutChecked(ctx context.Context, flightNumber, flightDate string, conditionMet bool, delayMinutes int, result domain.AuditResult, errorCode string) error {
	payload := map[string]any{
		"flight_number": flightNumber,
		"flight_date":   flightDate,
		"condition_met": conditionMet,
		"delay_minutes": delayMinutes,
	}
	_, err := e.Emit(ctx, domain.AuditEvent{
		EventType: domain.AuditEventPayoutChecked,
		TargetID:  flightNumber + ":" + flightDate,
		Payload:   payload,
		Result:    result,
		ErrorCode: errorCode,
	})
	return err
}

func (e *AuditEmitter) now() time.Time {
	if e != nil && e.Clock != nil {
		return e.Clock()
	}
	return time.Now().UTC()
}

// hashString hides holder addresses in audit payloads.
func hashString(value string) string {
	if value == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
