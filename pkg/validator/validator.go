// README: Custom coordinate validators shared by the HTTP layer.
package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = Register(validate)
}

// Register adds the lat/lng range tags to a validator engine. Used both
// for the package-level engine and for gin's binding engine.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("lat", func(fl validator.FieldLevel) bool {
		lat := fl.Field().Float()
		return lat >= -90 && lat <= 90
	}); err != nil {
		return err
	}
	return v.RegisterValidation("lng", func(fl validator.FieldLevel) bool {
		lng := fl.Field().Float()
		return lng >= -180 && lng <= 180
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
