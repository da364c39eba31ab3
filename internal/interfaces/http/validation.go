package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/urbano-pos-api/internal/domain"
)

// Validator valida los DTOs con tags `validate`. Los decimal.Decimal se comparan como float64.
type Validator struct {
	v *validator.Validate
}

// NewValidator construye el validador con el tipo decimal registrado.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return &Validator{v: v}
}

// Struct devuelve un *domain.ValidationError con todos los campos inválidos.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.NewValidationError("%s", err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return domain.NewValidationError("%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s es requerido", field)
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de [%s]", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s debe ser >= %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s debe ser <= %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s debe ser > %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s no cumple %s", field, fe.Tag())
	}
}

// bindBody parsea el JSON y valida. El error ya está escrito en la respuesta cuando ok=false.
func (val *Validator) bindBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(errorBody(CodeInvalidBody, "cuerpo inválido: "+err.Error()))
	}
	if err := val.Struct(out); err != nil {
		return false, respondError(c, err)
	}
	return true, nil
}

// bindQuery parsea y valida los parámetros de la query string.
func (val *Validator) bindQuery(c *fiber.Ctx, out any) (bool, error) {
	if err := c.QueryParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(errorBody(CodeValidation, "query inválida: "+err.Error()))
	}
	if err := val.Struct(out); err != nil {
		return false, respondError(c, err)
	}
	return true, nil
}
