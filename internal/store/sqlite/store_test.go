package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applicationmaker/tenant-service/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "tenants.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func strPtr(s string) *string { return &s }

func TestTenantRepo_Create(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	fixed := time.Date(2026, 3, 1, 12, 30, 0, 123456789, time.FixedZone("CET", 3600))
	s.tenants.now = func() time.Time { return fixed }

	tenant := &domain.Tenant{Name: "Acme", Domain: strPtr("acme.com")}
	require.NoError(t, s.Tenants().Create(context.Background(), tenant))

	assert.Equal(t, int64(1), tenant.ID)
	assert.Equal(t, time.Date(2026, 3, 1, 11, 30, 0, 123457000, time.UTC), tenant.CreatedAt)
	assert.Equal(t, time.UTC, tenant.CreatedAt.Location())

	second := &domain.Tenant{Name: "Globex"}
	require.NoError(t, s.Tenants().Create(context.Background(), second))
	assert.Equal(t, int64(2), second.ID)
	assert.Nil(t, second.Domain)
}

func TestTenantRepo_GetByID(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	created := &domain.Tenant{Name: "Acme", Domain: strPtr("acme.com")}
	require.NoError(t, s.Tenants().Create(ctx, created))

	t.Run("found", func(t *testing.T) {
		got, found, err := s.Tenants().GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Acme", got.Name)
		require.NotNil(t, got.Domain)
		assert.Equal(t, "acme.com", *got.Domain)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt), "created_at round trip: %s vs %s", created.CreatedAt, got.CreatedAt)
	})

	t.Run("absent", func(t *testing.T) {
		got, found, err := s.Tenants().GetByID(ctx, 999)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, got)
	})

	t.Run("null domain", func(t *testing.T) {
		bare := &domain.Tenant{Name: "Initech"}
		require.NoError(t, s.Tenants().Create(ctx, bare))

		got, found, err := s.Tenants().GetByID(ctx, bare.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Nil(t, got.Domain)
	})
}

func TestTenantRepo_List(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Tenants().List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		require.NoError(t, s.Tenants().Create(ctx, &domain.Tenant{Name: name}))
	}

	tenants, err := s.Tenants().List(ctx)
	require.NoError(t, err)
	require.Len(t, tenants, 3)

	names := make([]string, 0, len(tenants))
	for _, tn := range tenants {
		names = append(names, tn.Name)
	}
	assert.ElementsMatch(t, []string{"Alpha", "Beta", "Gamma"}, names)
}

func TestTenantRepo_ConcurrentCreateAssignsUniqueIDs(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	const n = 20
	ids := make(chan int64, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tenant := &domain.Tenant{Name: "Concurrent"}
			if err := s.Tenants().Create(ctx, tenant); err != nil {
				t.Errorf("create: %v", err)
				return
			}
			ids <- tenant.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		assert.Positive(t, id)
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestStore_MigrateIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Ping(context.Background()))
}

func TestTenantRepo_CreatedAtNotBeforeCallStart(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		start := time.Now()
		tenant := &domain.Tenant{Name: "Clock"}
		require.NoError(t, s.Tenants().Create(ctx, tenant))
		require.False(t, tenant.CreatedAt.Before(start), "createdAt %s precedes start %s", tenant.CreatedAt, start)

		got, found, err := s.Tenants().GetByID(ctx, tenant.ID)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, tenant.CreatedAt, got.CreatedAt)
	}
}

func TestTenantRepo_StoresFieldsVerbatim(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	tenant := &domain.Tenant{Name: "  Acme  ", Domain: strPtr("")}
	require.NoError(t, s.Tenants().Create(ctx, tenant))

	got, found, err := s.Tenants().GetByID(ctx, tenant.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "  Acme  ", got.Name)
	require.NotNil(t, got.Domain, "empty domain must not become null")
	assert.Equal(t, "", *got.Domain)
}
