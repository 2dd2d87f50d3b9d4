package v1_test

import (
	"context"

	"github.com/applicationmaker/tenant-service/internal/tenant"
)

// ---------------------------------------------------------------------------
// Mock TenantService
// ---------------------------------------------------------------------------

type mockTenantService struct {
	listFunc   func(ctx context.Context) ([]tenant.View, error)
	getFunc    func(ctx context.Context, id int64) (tenant.View, error)
	createFunc func(ctx context.Context, params tenant.CreateParams) (tenant.View, error)
}

func (m *mockTenantService) ListTenants(ctx context.Context) ([]tenant.View, error) {
	return m.listFunc(ctx)
}

func (m *mockTenantService) GetTenant(ctx context.Context, id int64) (tenant.View, error) {
	return m.getFunc(ctx, id)
}

func (m *mockTenantService) CreateTenant(ctx context.Context, params tenant.CreateParams) (tenant.View, error) {
	return m.createFunc(ctx, params)
}

func strPtr(s string) *string { return &s }
