package orphan

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
)

// MatchStrategy propone el proveedor de un pago huérfano entre los proveedores del tenant.
// ok=false si no hay candidato o hay más de uno.
type MatchStrategy interface {
	Match(payment *entity.Payment, providers []*entity.ServiceProvider) (providerID string, ok bool)
}

// MatchFunc adapta una función a MatchStrategy.
type MatchFunc func(*entity.Payment, []*entity.ServiceProvider) (string, bool)

func (f MatchFunc) Match(p *entity.Payment, providers []*entity.ServiceProvider) (string, bool) {
	return f(p, providers)
}

// Chain prueba las estrategias en orden y se queda con la primera que resuelve.
func Chain(strategies ...MatchStrategy) MatchStrategy {
	return MatchFunc(func(p *entity.Payment, providers []*entity.ServiceProvider) (string, bool) {
		for _, s := range strategies {
			if id, ok := s.Match(p, providers); ok {
				return id, true
			}
		}
		return "", false
	})
}

// DefaultStrategy email del proveedor en la descripción y, si no, su nombre.
func DefaultStrategy() MatchStrategy {
	return Chain(EmailInDescription(), NameInDescription())
}

// NameInDescription busca el nombre del proveedor como palabra completa en la descripción,
// sin distinguir mayúsculas ni acentos ("Pago a José Pérez" encuentra "jose perez").
func NameInDescription() MatchStrategy {
	return MatchFunc(func(p *entity.Payment, providers []*entity.ServiceProvider) (string, bool) {
		desc := " " + normalize(p.Description) + " "
		if strings.TrimSpace(desc) == "" {
			return "", false
		}
		return unique(providers, func(sp *entity.ServiceProvider) bool {
			name := normalize(sp.Name)
			return name != "" && strings.Contains(desc, " "+name+" ")
		})
	})
}

// EmailInDescription busca el email del proveedor en la descripción.
func EmailInDescription() MatchStrategy {
	return MatchFunc(func(p *entity.Payment, providers []*entity.ServiceProvider) (string, bool) {
		desc := strings.ToLower(p.Description)
		if desc == "" {
			return "", false
		}
		return unique(providers, func(sp *entity.ServiceProvider) bool {
			email := strings.ToLower(strings.TrimSpace(sp.Email))
			return email != "" && strings.Contains(desc, email)
		})
	})
}

func unique(providers []*entity.ServiceProvider, matches func(*entity.ServiceProvider) bool) (string, bool) {
	found := ""
	for _, sp := range providers {
		if sp == nil || !matches(sp) {
			continue
		}
		if found != "" && found != sp.ID {
			return "", false
		}
		found = sp.ID
	}
	return found, found != ""
}

// normalize minúsculas, sin diacríticos y con todo lo que no es letra o dígito como espacio simple.
func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	fields := strings.FieldsFunc(strings.ToLower(folded), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}
