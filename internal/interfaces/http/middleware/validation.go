package middleware

import (
	"reflect"
	"strings"

	"github.com/condoledger/backend/internal/domain/ledger"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator configures the binding validator: error messages carry the
// JSON field names, and the ledger enums get their own validation tags.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation("expense_category", func(fl validator.FieldLevel) bool {
		return ledger.ExpenseCategory(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("distribution_strategy", func(fl validator.FieldLevel) bool {
		return ledger.DistributionStrategy(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return ledger.PaymentMethod(fl.Field().String()).IsValid()
	})
}
