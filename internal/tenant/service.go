// Package tenant implements the tenant lifecycle: create, fetch and list.
package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/applicationmaker/tenant-service/internal/domain"
)

// EventsChannel is the pub/sub channel tenant events are published on.
const EventsChannel = "tenants:events"

// EventTenantCreated is the type of the event emitted after a create.
const EventTenantCreated = "tenant.created"

// View is the API-facing representation of a tenant.
type View struct {
	ID        int64     `json:"id" doc:"Server-assigned tenant identifier"`
	Name      string    `json:"name" doc:"Tenant name"`
	Domain    *string   `json:"domain" nullable:"true" doc:"Optional tenant domain"`
	CreatedAt time.Time `json:"createdAt" doc:"Creation time (RFC 3339 with offset)"`
}

// CreatedEvent is published on EventsChannel after a tenant is persisted.
type CreatedEvent struct {
	Type   string `json:"type"`
	Tenant View   `json:"tenant"`
}

// CreateParams carries the caller-supplied fields of a new tenant.
type CreateParams struct {
	Name   string
	Domain *string
}

type Service struct {
	repo      domain.TenantRepository
	publisher domain.EventPublisher
}

// NewService wires a service over repo. publisher may be nil, in which case
// no events are emitted.
func NewService(repo domain.TenantRepository, publisher domain.EventPublisher) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *Service) ListTenants(ctx context.Context) ([]View, error) {
	tenants, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("tenant.ListTenants: %w", err)
	}

	views := make([]View, 0, len(tenants))
	for _, t := range tenants {
		views = append(views, toView(t))
	}

	return views, nil
}

func (s *Service) GetTenant(ctx context.Context, id int64) (View, error) {
	t, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return View{}, fmt.Errorf("tenant.GetTenant: %w", err)
	}
	if !found {
		return View{}, &domain.NotFoundError{ID: id}
	}

	return toView(t), nil
}

// CreateTenant validates params and persists a new tenant. The store is never
// called with an empty name.
func (s *Service) CreateTenant(ctx context.Context, params CreateParams) (View, error) {
	if err := domain.ValidateTenantName(params.Name); err != nil {
		return View{}, fmt.Errorf("tenant.CreateTenant: %w", err)
	}

	t := &domain.Tenant{
		Name:   params.Name,
		Domain: params.Domain,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return View{}, fmt.Errorf("tenant.CreateTenant: %w", err)
	}

	view := toView(t)
	log.Info().Int64("tenant_id", view.ID).Str("name", view.Name).Msg("tenant created")

	s.publishCreated(ctx, view)

	return view, nil
}

// publishCreated is best effort; failures are logged and never fail the create.
func (s *Service) publishCreated(ctx context.Context, view View) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(CreatedEvent{Type: EventTenantCreated, Tenant: view})
	if err != nil {
		log.Warn().Err(err).Int64("tenant_id", view.ID).Msg("tenant: marshal created event")
		return
	}

	if err := s.publisher.Publish(ctx, EventsChannel, payload); err != nil {
		log.Warn().Err(err).Int64("tenant_id", view.ID).Msg("tenant: publish created event")
	}
}

func toView(t *domain.Tenant) View {
	return View{
		ID:        t.ID,
		Name:      t.Name,
		Domain:    t.Domain,
		CreatedAt: t.CreatedAt,
	}
}
