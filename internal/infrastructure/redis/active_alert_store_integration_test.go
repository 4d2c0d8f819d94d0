//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/infrastructure/redis"
)

func newStore(t *testing.T) *redis.ActiveAlertStore {
	t.Helper()
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	store := redis.NewActiveAlertStoreWithClient(client, "test:alerts:")
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func alert(company, id string, p entity.AlertPriority, at time.Time) entity.ActiveAlert {
	return entity.ActiveAlert{ID: id, CompanyID: company, ConfigID: "cfg", Type: entity.AlertPayment,
		Kind: "overdue", Priority: p, Title: "Pagos vencidos", Count: 2, Amount: decimal.NewFromInt(500), CreatedAt: at}
}

func TestActiveAlertStore_Redis(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, store.Save(ctx, []entity.ActiveAlert{
		alert("A", "low", entity.PriorityLow, now),
		alert("A", "high", entity.PriorityHigh, now.Add(-time.Hour)),
		alert("B", "other", entity.PriorityHigh, now),
	}, time.Hour))

	list, err := store.List(ctx, "A")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "high", list[0].ID)
	assert.True(t, decimal.NewFromInt(500).Equal(list[0].Amount))

	ok, err := store.Acknowledge(ctx, "A", "low")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Acknowledge(ctx, "B", "low")
	require.NoError(t, err)
	assert.False(t, ok, "la alerta de otra empresa no existe bajo B")

	ok, err = store.Dismiss(ctx, "A", "high")
	require.NoError(t, err)
	assert.True(t, ok)

	list, err = store.List(ctx, "A")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Acknowledged)
}

func TestActiveAlertStore_Redis_Expira(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []entity.ActiveAlert{alert("A", "x", entity.PriorityMedium, time.Now())}, time.Second))
	require.Eventually(t, func() bool {
		list, err := store.List(ctx, "A")
		return err == nil && len(list) == 0
	}, 5*time.Second, 100*time.Millisecond)
}
