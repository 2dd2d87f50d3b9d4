package v1

import (
	"context"

	"github.com/applicationmaker/tenant-service/internal/tenant"
)

// TenantService abstracts tenant lifecycle operations for handler testing.
// *tenant.Service satisfies this interface.
type TenantService interface {
	ListTenants(ctx context.Context) ([]tenant.View, error)
	GetTenant(ctx context.Context, id int64) (tenant.View, error)
	CreateTenant(ctx context.Context, params tenant.CreateParams) (tenant.View, error)
}
