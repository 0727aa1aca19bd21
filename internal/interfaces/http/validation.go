package http

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/gestion-almacen/internal/application/dto"
)

// requestValidator valida los DTO de entrada con las reglas de sus tags `validate`.
// Los nombres de campo en los errores son los del JSON.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: v}
}

// Struct devuelve nil si in es válido, o el primer error como ErrorResponse.
func (rv *requestValidator) Struct(in any) *dto.ErrorResponse {
	err := rv.validate.Struct(in)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return &dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	}
	fe := errs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	return &dto.ErrorResponse{Code: "VALIDATION", Field: field, Message: field + " " + describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "max":
		return fmt.Sprintf("admite máximo %s caracteres", fe.Param())
	case "min":
		return fmt.Sprintf("requiere al menos %s elemento(s)", fe.Param())
	case "hexcolor":
		return "debe ser un color hexadecimal (#RRGGBB)"
	default:
		return "no cumple la regla " + fe.Tag()
	}
}
