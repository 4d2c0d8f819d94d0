package repository

import (
	"context"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// ListActiveIDs ids de empresas activas (lo usa el scheduler de alertas).
	ListActiveIDs(ctx context.Context) ([]string, error)
}

// ProfileRepository puerto de lectura de perfiles; la emisión de sesiones queda fuera del núcleo.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
}
