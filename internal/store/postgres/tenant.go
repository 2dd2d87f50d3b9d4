package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/applicationmaker/tenant-service/internal/domain"
)

type TenantRepo struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewTenantRepo(pool *pgxpool.Pool) *TenantRepo {
	return &TenantRepo{pool: pool, now: time.Now}
}

// Create inserts t and fills in the generated ID and CreatedAt.
// CreatedAt is rounded up to microsecond precision to match TIMESTAMPTZ.
func (r *TenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	createdAt := domain.CreationTime(r.now())

	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tenants (name, domain, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		t.Name, t.Domain, createdAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("tenantRepo.Create: %w", err)
	}

	t.ID = id
	t.CreatedAt = createdAt

	return nil
}

func (r *TenantRepo) GetByID(ctx context.Context, id int64) (*domain.Tenant, bool, error) {
	var t domain.Tenant

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, domain, created_at
		 FROM tenants WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Name, &t.Domain, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("tenantRepo.GetByID: %w", err)
	}

	t.CreatedAt = t.CreatedAt.UTC()

	return &t, true, nil
}

func (r *TenantRepo) List(ctx context.Context) ([]*domain.Tenant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, domain, created_at
		 FROM tenants ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("tenantRepo.List: %w", err)
	}
	defer rows.Close()

	tenants := make([]*domain.Tenant, 0)
	for rows.Next() {
		var t domain.Tenant

		err = rows.Scan(&t.ID, &t.Name, &t.Domain, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("tenantRepo.List: scan: %w", err)
		}

		t.CreatedAt = t.CreatedAt.UTC()
		tenants = append(tenants, &t)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("tenantRepo.List: rows: %w", err)
	}

	return tenants, nil
}
