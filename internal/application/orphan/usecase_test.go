package orphan

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/infrastructure/memory"
)

func setup() (*memory.Store, *UseCase) {
	s := memory.New()
	s.PutCompany(entity.Company{ID: "A"})
	s.PutCompany(entity.Company{ID: "B"})
	s.PutProvider(entity.ServiceProvider{ID: "P", CompanyID: "A", Name: "José Pérez", Email: "jose@example.com"})
	s.PutProvider(entity.ServiceProvider{ID: "R", CompanyID: "A", Name: "Ana Gómez"})
	s.PutProvider(entity.ServiceProvider{ID: "Q", CompanyID: "B", Name: "Carlos Ruiz"})
	return s, New(s.Payments(), s.Providers(), nil, nil)
}

func orphanPayment(id, providerID, description string) entity.Payment {
	return entity.Payment{ID: id, CompanyID: "A", ProviderID: providerID, Amount: decimal.NewFromInt(100),
		Type: entity.PaymentFull, Status: entity.PaymentPending, Description: description}
}

func TestDetect_VacioInexistenteYDeOtroTenant(t *testing.T) {
	s, uc := setup()
	s.PutPayment(orphanPayment("empty", "", "x"))
	s.PutPayment(orphanPayment("ghost", "no-existe", "x"))
	s.PutPayment(orphanPayment("cross", "Q", "x"))
	s.PutPayment(orphanPayment("ok", "P", "x"))

	list, err := uc.Detect(context.Background(), "A")
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"empty", "ghost", "cross"}, ids)
}

func TestRepair_ResuelvePorNombreSinAcentos(t *testing.T) {
	s, uc := setup()
	s.PutPayment(orphanPayment("o1", "", "Pago quincena JOSE PEREZ - evento"))

	res, err := uc.Repair(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 1, res.FixedCount)
	assert.Empty(t, res.Unresolved)

	p, err := s.Payments().GetByIDForCompany(context.Background(), "A", "o1")
	require.NoError(t, err)
	assert.Equal(t, "P", p.ProviderID)

	again, err := uc.Repair(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 0, again.FixedCount, "idempotente")
}

func TestRepair_SinCoincidenciaNoBorra(t *testing.T) {
	s, uc := setup()
	s.PutPayment(orphanPayment("o1", "", "pago varios"))

	res, err := uc.Repair(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 0, res.FixedCount)
	require.Len(t, res.Unresolved, 1)

	p, err := s.Payments().GetByIDForCompany(context.Background(), "A", "o1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Empty(t, p.ProviderID)
}

func TestRepair_NuncaAsignaProveedorDeOtroTenant(t *testing.T) {
	s, uc := setup()
	s.PutPayment(orphanPayment("o1", "", "Pago a Carlos Ruiz"))

	res, err := uc.Repair(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 0, res.FixedCount)
	assert.Len(t, res.Unresolved, 1)
}

func TestRepair_AmbiguoQuedaSinResolver(t *testing.T) {
	s, uc := setup()
	s.PutPayment(orphanPayment("o1", "", "José Pérez y Ana Gómez"))

	res, err := uc.Repair(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 0, res.FixedCount)
}

func TestRepair_PorEmail(t *testing.T) {
	s, uc := setup()
	s.PutPayment(orphanPayment("o1", "ghost", "transferencia a JOSE@example.com"))

	res, err := uc.Repair(context.Background(), "A")
	require.NoError(t, err)
	require.Len(t, res.Fixed, 1)
	assert.Equal(t, Fix{PaymentID: "o1", ProviderID: "P"}, res.Fixed[0])
}

func TestRepair_SinTenant(t *testing.T) {
	_, uc := setup()
	_, err := uc.Repair(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "jose perez", normalize("  José   PÉREZ!! "))
	assert.Equal(t, "", normalize(""))
}

func TestNameInDescription_PalabraCompleta(t *testing.T) {
	providers := []*entity.ServiceProvider{{ID: "x", Name: "Ana"}}
	_, ok := NameInDescription().Match(&entity.Payment{Description: "pago a Anabel"}, providers)
	assert.False(t, ok)
	id, ok := NameInDescription().Match(&entity.Payment{Description: "pago a Ana."}, providers)
	assert.True(t, ok)
	assert.Equal(t, "x", id)
}
