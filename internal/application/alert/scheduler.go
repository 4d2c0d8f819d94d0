package alert

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
	"github.com/jhoicas/Finanzas-api/pkg/logger"
)

// TenantLister empresas activas a evaluar en cada pasada.
type TenantLister interface {
	ListActiveIDs(ctx context.Context) ([]string, error)
}

// Scheduler ejecuta el evaluador de alertas para todos los tenants cada Interval.
type Scheduler struct {
	evaluator *Evaluator
	tenants   TenantLister
	interval  time.Duration
	log       *logger.Logger
	now       func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewScheduler construye el scheduler; interval <= 0 usa 5 minutos.
func NewScheduler(evaluator *Evaluator, tenants TenantLister, interval time.Duration, log *logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{evaluator: evaluator, tenants: tenants, interval: interval, log: log.Component("alert_scheduler"), now: time.Now}
}

// Start lanza el loop en segundo plano. Llamarlo dos veces no crea un segundo loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.loop(ctx)
	s.log.Info().Dur("interval", s.interval).Msg("scheduler de alertas iniciado")
}

// Stop cancela el loop y espera a que termine la pasada en curso, o a que venza ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.log.Info().Msg("scheduler de alertas detenido")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce evalúa todos los tenants activos una vez. Un tenant con error no frena a los demás.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	ids, err := s.tenants.ListActiveIDs(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("no se pudieron listar empresas activas")
		return 0
	}
	emitted := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		alerts, err := s.evaluator.Evaluate(ctx, tenant.ID(id), s.now())
		if err != nil {
			s.log.Tenant(id).Error().Err(err).Msg("evaluación de alertas fallida")
			continue
		}
		emitted += len(alerts)
	}
	return emitted
}
