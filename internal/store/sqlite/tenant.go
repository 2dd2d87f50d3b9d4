package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/applicationmaker/tenant-service/internal/domain"
)

type tenantRow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"not null;check:name <> ''"`
	Domain    *string
	CreatedAt time.Time `gorm:"not null"`
}

func (tenantRow) TableName() string { return "tenants" }

func (row *tenantRow) toDomain() *domain.Tenant {
	return &domain.Tenant{
		ID:        row.ID,
		Name:      row.Name,
		Domain:    row.Domain,
		CreatedAt: row.CreatedAt.UTC(),
	}
}

type TenantRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTenantRepo(db *gorm.DB) *TenantRepo {
	return &TenantRepo{db: db, now: time.Now}
}

func (r *TenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	row := tenantRow{
		Name:      t.Name,
		Domain:    t.Domain,
		CreatedAt: domain.CreationTime(r.now()),
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("tenantRepo.Create: %w", err)
	}

	t.ID = row.ID
	t.CreatedAt = row.CreatedAt

	return nil
}

func (r *TenantRepo) GetByID(ctx context.Context, id int64) (*domain.Tenant, bool, error) {
	var row tenantRow

	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("tenantRepo.GetByID: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TenantRepo) List(ctx context.Context) ([]*domain.Tenant, error) {
	var rows []tenantRow

	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("tenantRepo.List: %w", err)
	}

	tenants := make([]*domain.Tenant, 0, len(rows))
	for i := range rows {
		tenants = append(tenants, rows[i].toDomain())
	}

	return tenants, nil
}
