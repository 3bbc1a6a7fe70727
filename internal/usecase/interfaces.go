package usecase

import (
	"context"
	"time"

	"flarecover/internal/domain"
)

type Clock func() time.Time

// StatusCache caches flight-status lookups between verification calls.
type StatusCache interface {
	Get(ctx context.Context, key string) (*domain.FlightStatus, bool, error)
	Put(ctx context.Context, key string, value domain.FlightStatus, ttl time.Duration) error
}

type AuditEventRepository interface {
	Append(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error)
}
