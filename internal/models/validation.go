package models

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// NewValidator crea un validator que entiende decimal.Decimal en tags numéricos (gte, gt...)
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return v
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}
