package domain

import (
	"context"
	"strings"
	"time"
)

type Tenant struct {
	ID        int64
	Name      string
	Domain    *string
	CreatedAt time.Time
}

// TenantRepository persists tenants. Create assigns ID and CreatedAt.
// GetByID reports absence through the found flag, not through an error.
type TenantRepository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id int64) (*Tenant, bool, error)
	List(ctx context.Context) ([]*Tenant, error)
}

// EventPublisher fans out serialized domain events.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// ValidateTenantName rejects empty and whitespace-only names. Valid names
// are stored exactly as sent.
func ValidateTenantName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return nil
}

// CreationTime converts now to the stored creation timestamp: UTC at
// microsecond precision, rounded up so it is never before now.
func CreationTime(now time.Time) time.Time {
	ts := now.UTC()
	tr := ts.Truncate(time.Microsecond)
	if tr.Before(ts) {
		tr = tr.Add(time.Microsecond)
	}
	return tr
}
