package orders

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/florale-backend/pkg/db/models"
	"github.com/angelmondragon/florale-backend/pkg/enums"
	"github.com/angelmondragon/florale-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestRepositorySaveAndList(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	fixtures := Fixtures(now)
	for _, o := range fixtures {
		require.NoError(t, repo.Save(ctx, o))
	}

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, len(fixtures))

	assert.Equal(t, "FL-001234", listed[0].OrderNumber)
	assert.Equal(t, "FL-001236", listed[2].OrderNumber)

	first := listed[0]
	require.Len(t, first.Items, 1)
	assert.Equal(t, int64(4500), first.Items[0].Size.Price)
	assert.Equal(t, "Anna Ivanova", first.Recipient.Name)
	assert.Equal(t, enums.PaymentMethodOnline, first.Payment.Method)
	assert.True(t, first.CreatedAt.Equal(now))
	assert.Empty(t, first.FloristID)
}

func TestRepositorySaveUpserts(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	order := Fixtures(now)[0]
	require.NoError(t, repo.Save(ctx, order))

	store := NewStore("", func() time.Time { return now.Add(time.Hour) })
	store.AddOrder(order)
	updated, ok := store.UpdateOrderStatus(order.ID, enums.OrderStatusReady)
	require.True(t, ok)
	updated, ok = store.AssignFlorist(order.ID, "florist-7")
	require.True(t, ok)
	require.NoError(t, repo.Save(ctx, updated))

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	got := listed[0]
	assert.Equal(t, enums.OrderStatusReady, got.Status)
	assert.Equal(t, "florist-7", got.FloristID)
	assert.Len(t, got.Timeline, 2)
	assert.True(t, got.UpdatedAt.Equal(now.Add(time.Hour)), "updated_at %s", got.UpdatedAt)
}

type gormTx struct {
	db *gorm.DB
}

func (g gormTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func TestRepositoryWithTxRollsBack(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := gormTx{db: db}.WithTx(ctx, func(tx *gorm.DB) error {
		for _, o := range Fixtures(time.Now().UTC()) {
			if err := repo.WithTx(tx).Save(ctx, o); err != nil {
				return err
			}
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestBootstrapSeedsInsideTransaction(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	store := NewStore("", func() time.Time { return testNow })
	svc, err := NewService(ServiceParams{
		Store:        store,
		Repo:         repo,
		Tx:           gormTx{db: db},
		Carts:        &stubCarts{},
		Logger:       logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		SeedFixtures: true,
		Now:          func() time.Time { return testNow },
	})
	require.NoError(t, err)
	require.NoError(t, svc.Bootstrap(ctx))

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 3)
	assert.Len(t, store.Orders(), 3)
}
