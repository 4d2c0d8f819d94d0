package dto

import (
	"strings"
	"time"

	"github.com/jhoicas/Finanzas-api/internal/domain"
)

// DateLayout formato de fechas en requests y respuestas.
const DateLayout = "2006-01-02"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ParseDate interpreta s como fecha (YYYY-MM-DD) o RFC3339; vacío devuelve def.
func ParseDate(field, s string, def time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, domain.Invalid(field, "fecha inválida, use YYYY-MM-DD")
	}
	return t, nil
}

// ParseOptionalDate como ParseDate pero devuelve nil si s está vacío.
func ParseOptionalDate(field, s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, s, time.Time{})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate fecha opcional como string ("" si nil).
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
