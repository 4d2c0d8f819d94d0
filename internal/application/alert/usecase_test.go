package alert

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Finanzas-api/internal/application/dto"
	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/infrastructure/memory"
)

func newUseCase(s *memory.Store) *UseCase {
	ev, active := newEvaluator(s, nil)
	return NewUseCase(s.AlertConfigs(), active, ev)
}

func TestConfigCRUD(t *testing.T) {
	s := memory.New()
	uc := newUseCase(s)
	ctx := context.Background()

	created, err := uc.CreateConfig(ctx, "A", dto.AlertConfigRequest{Name: "Meta", Type: "goal", Threshold: decimal.NewFromInt(10000)})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, "daily", created.Frequency)
	assert.Equal(t, "lt", created.Operator)

	off := false
	updated, err := uc.UpdateConfig(ctx, "A", created.ID, dto.AlertConfigRequest{Name: "Meta", Type: "goal", Frequency: "monthly", IsActive: &off, Threshold: decimal.NewFromInt(8000)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "monthly", updated.Frequency)

	_, err = uc.UpdateConfig(ctx, "B", created.ID, dto.AlertConfigRequest{Name: "x", Type: "goal"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.ListConfigs(ctx, "A")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, uc.DeleteConfig(ctx, "B", created.ID), domain.ErrNotFound)
	require.NoError(t, uc.DeleteConfig(ctx, "A", created.ID))
	assert.ErrorIs(t, uc.DeleteConfig(ctx, "A", created.ID), domain.ErrNotFound)
}

func TestCreateConfig_Invalida(t *testing.T) {
	uc := newUseCase(memory.New())
	_, err := uc.CreateConfig(context.Background(), "A", dto.AlertConfigRequest{Name: "x", Type: "weather"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.CreateConfig(context.Background(), "A", dto.AlertConfigRequest{Name: "x", Type: "expense", Threshold: decimal.NewFromInt(-5)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAcknowledgeYDismiss(t *testing.T) {
	s := memory.New()
	seedOverdue(s, "A", 5)
	s.PutAlertConfig(paymentRule("cfg1", "A"))
	uc := newUseCase(s)
	ctx := context.Background()

	alerts, err := uc.Evaluate(ctx, "A")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	id := alerts[0].ID

	assert.ErrorIs(t, uc.Acknowledge(ctx, "B", id), domain.ErrNotFound)
	require.NoError(t, uc.Acknowledge(ctx, "A", id))

	active, err := uc.ListActive(ctx, "A")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.True(t, active[0].Acknowledged)

	require.NoError(t, uc.Dismiss(ctx, "A", id))
	active, err = uc.ListActive(ctx, "A")
	require.NoError(t, err)
	assert.Empty(t, active)
}
