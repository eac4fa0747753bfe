package handlers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/school_ledger/internal/core/domain"
)

var registerValidatorsOnce sync.Once

// callerScope is the authenticated caller plus the school addressed by the request.
type callerScope struct {
	caller   domain.Caller
	schoolID string
}

// RegisterValidators installs the custom binding validations. Safe to call more than once.
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("decimal_gte0", decimalGTE0)
		}
	})
}

// decimalGTE0 rejects negative decimal.Decimal amounts.
func decimalGTE0(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return !v.IsNegative()
	case *decimal.Decimal:
		return v == nil || !v.IsNegative()
	}
	return false
}
