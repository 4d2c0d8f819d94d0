package alert

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Finanzas-api/internal/application/dto"
	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
)

// UseCase CRUD de reglas y gestión de alertas activas del tenant.
type UseCase struct {
	configs   repository.AlertConfigRepository
	alerts    repository.ActiveAlertStore
	evaluator *Evaluator
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(configs repository.AlertConfigRepository, alerts repository.ActiveAlertStore, evaluator *Evaluator) *UseCase {
	return &UseCase{configs: configs, alerts: alerts, evaluator: evaluator, now: time.Now}
}

// CreateConfig crea una regla activa salvo que el request diga lo contrario.
func (uc *UseCase) CreateConfig(ctx context.Context, id tenant.ID, in dto.AlertConfigRequest) (*dto.AlertConfigResponse, error) {
	if id.IsZero() {
		return nil, domain.ErrForbidden
	}
	cfg, err := configFromRequest(in)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	cfg.ID = uuid.New().String()
	cfg.CreatedAt, cfg.UpdatedAt = now, now
	cfg = tenant.EnsureStamped(cfg, id)
	if err := uc.configs.Create(ctx, &cfg); err != nil {
		return nil, err
	}
	return configResponse(&cfg), nil
}

// UpdateConfig reemplaza los campos editables; conserva last_triggered.
func (uc *UseCase) UpdateConfig(ctx context.Context, id tenant.ID, configID string, in dto.AlertConfigRequest) (*dto.AlertConfigResponse, error) {
	if id.IsZero() {
		return nil, domain.ErrForbidden
	}
	current, err := uc.configs.GetByIDForCompany(ctx, id.String(), configID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	cfg, err := configFromRequest(in)
	if err != nil {
		return nil, err
	}
	cfg.ID = current.ID
	cfg.LastTriggered = current.LastTriggered
	cfg.CreatedAt = current.CreatedAt
	cfg.UpdatedAt = uc.now()
	cfg = tenant.EnsureStamped(cfg, id)
	if err := uc.configs.Update(ctx, &cfg); err != nil {
		return nil, err
	}
	return configResponse(&cfg), nil
}

// DeleteConfig elimina una regla del tenant.
func (uc *UseCase) DeleteConfig(ctx context.Context, id tenant.ID, configID string) error {
	if id.IsZero() {
		return domain.ErrForbidden
	}
	ok, err := uc.configs.Delete(ctx, id.String(), configID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// ListConfigs reglas del tenant.
func (uc *UseCase) ListConfigs(ctx context.Context, id tenant.ID) ([]*dto.AlertConfigResponse, error) {
	if id.IsZero() {
		return nil, domain.ErrForbidden
	}
	list, err := uc.configs.ListByCompany(ctx, id.String())
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AlertConfigResponse, 0, len(list))
	for _, c := range list {
		out = append(out, configResponse(c))
	}
	return out, nil
}

// Evaluate evaluación a demanda.
func (uc *UseCase) Evaluate(ctx context.Context, id tenant.ID) ([]*dto.ActiveAlertResponse, error) {
	alerts, err := uc.evaluator.Evaluate(ctx, id, uc.now())
	if err != nil {
		return nil, err
	}
	return alertResponses(alerts), nil
}

// ListActive alertas activas (no vencidas) del tenant.
func (uc *UseCase) ListActive(ctx context.Context, id tenant.ID) ([]*dto.ActiveAlertResponse, error) {
	if id.IsZero() {
		return nil, domain.ErrForbidden
	}
	alerts, err := uc.alerts.List(ctx, id.String())
	if err != nil {
		return nil, err
	}
	return alertResponses(alerts), nil
}

// Acknowledge marca la alerta como vista.
func (uc *UseCase) Acknowledge(ctx context.Context, id tenant.ID, alertID string) error {
	if id.IsZero() {
		return domain.ErrForbidden
	}
	ok, err := uc.alerts.Acknowledge(ctx, id.String(), alertID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// Dismiss descarta la alerta.
func (uc *UseCase) Dismiss(ctx context.Context, id tenant.ID, alertID string) error {
	if id.IsZero() {
		return domain.ErrForbidden
	}
	ok, err := uc.alerts.Dismiss(ctx, id.String(), alertID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func configFromRequest(in dto.AlertConfigRequest) (entity.AlertConfig, error) {
	if err := dto.Validate(in); err != nil {
		return entity.AlertConfig{}, err
	}
	cfg := entity.AlertConfig{
		Name:        in.Name,
		Type:        entity.AlertType(in.Type),
		IsActive:    true,
		Frequency:   entity.AlertFrequency(in.Frequency),
		Operator:    entity.ConditionOperator(in.Operator),
		Threshold:   in.Threshold,
		DaysAdvance: in.DaysAdvance,
	}
	if in.IsActive != nil {
		cfg.IsActive = *in.IsActive
	}
	if cfg.Frequency == "" {
		cfg.Frequency = entity.FrequencyDaily
	}
	if cfg.Operator == "" {
		cfg.Operator = cfg.Type.DefaultOperator()
	}
	if !cfg.Type.IsValid() || !cfg.Frequency.IsValid() || !cfg.Operator.IsValid() {
		return entity.AlertConfig{}, domain.ErrInvalidInput
	}
	if cfg.Threshold.IsNegative() {
		return entity.AlertConfig{}, domain.Invalid("threshold", "no puede ser negativo")
	}
	if cfg.Type != entity.AlertPayment {
		cfg.DaysAdvance = 0
	}
	return cfg, nil
}

func configResponse(c *entity.AlertConfig) *dto.AlertConfigResponse {
	return &dto.AlertConfigResponse{
		ID:            c.ID,
		Name:          c.Name,
		Type:          string(c.Type),
		IsActive:      c.IsActive,
		Frequency:     string(c.Frequency),
		Operator:      string(c.EffectiveOperator()),
		Threshold:     c.Threshold,
		DaysAdvance:   c.DaysAdvance,
		LastTriggered: c.LastTriggered,
	}
}

func alertResponses(alerts []entity.ActiveAlert) []*dto.ActiveAlertResponse {
	out := make([]*dto.ActiveAlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, &dto.ActiveAlertResponse{
			ID:           a.ID,
			ConfigID:     a.ConfigID,
			Type:         string(a.Type),
			Kind:         a.Kind,
			Priority:     string(a.Priority),
			Title:        a.Title,
			Message:      a.Message,
			Count:        a.Count,
			Amount:       a.Amount,
			CreatedAt:    a.CreatedAt,
			Acknowledged: a.Acknowledged,
		})
	}
	return out
}
