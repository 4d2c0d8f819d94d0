package entity

import "time"

// ServiceProvider prestador de servicios (contratista) al que la empresa le paga.
type ServiceProvider struct {
	ID            string
	CompanyID     string
	Name          string
	Email         string
	Phone         string
	PaymentMethod string // pix, transferencia, efectivo...
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// WithCompanyID devuelve una copia con la empresa indicada.
func (p ServiceProvider) WithCompanyID(companyID string) ServiceProvider {
	p.CompanyID = companyID
	return p
}
