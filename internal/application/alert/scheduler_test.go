package alert

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/infrastructure/memory"
)

func TestScheduler_RunOnceEvaluaCadaTenant(t *testing.T) {
	s := memory.New()
	s.PutCompany(entity.Company{ID: "A", Status: "active"})
	s.PutCompany(entity.Company{ID: "B", Status: "active"})
	s.PutCompany(entity.Company{ID: "C", Status: "suspended"})
	for _, c := range []string{"A", "B", "C"} {
		seedOverdue(s, c, 4)
		s.PutAlertConfig(paymentRule("cfg-"+c, c))
	}
	ev, active := newEvaluator(s, nil)
	sch := NewScheduler(ev, s.Companies(), time.Hour, nil)
	sch.now = func() time.Time { return now }

	assert.Equal(t, 2, sch.RunOnce(context.Background()))
	assert.Equal(t, 0, sch.RunOnce(context.Background()), "misma ventana")

	listC, err := active.List(context.Background(), "C")
	require.NoError(t, err)
	assert.Empty(t, listC)
}

func TestScheduler_StartStop(t *testing.T) {
	s := memory.New()
	s.PutCompany(entity.Company{ID: "A"})
	seedOverdue(s, "A", 5)
	s.PutAlertConfig(paymentRule("cfg1", "A"))
	ev, active := newEvaluator(s, nil)
	sch := NewScheduler(ev, s.Companies(), 10*time.Millisecond, nil)

	sch.Start(context.Background())
	sch.Start(context.Background())

	require.Eventually(t, func() bool {
		list, err := active.List(context.Background(), "A")
		return err == nil && len(list) == 1
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sch.Stop(ctx))
	require.NoError(t, sch.Stop(ctx))
}
