package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/Finanzas-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// errores con el nombre del campo JSON
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate aplica los tags `validate` del request. El primer campo inválido se devuelve
// como domain.ValidationError.
func Validate(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return domain.Invalid(fe.Field(), validationMessage(fe))
	}
	return domain.Invalid("", err.Error())
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo requerido"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "min":
		return "debe ser mayor o igual a " + fe.Param()
	case "max":
		return "debe ser menor o igual a " + fe.Param()
	case "uuid", "uuid4":
		return "debe ser un UUID"
	}
	return "valor inválido (" + fe.Tag() + ")"
}
