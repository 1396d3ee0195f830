package validators

import (
	"github.com/go-playground/validator/v10"

	"gotours/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterStructValidation(validateTour, models.Tour{})
}

// ValidateStruct runs tag validation. The returned error, when non-nil, is a
// validator.ValidationErrors value the error middleware knows how to render.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// validateTour enforces cross-field rules that tags cannot express: a price
// discount must stay below the regular price.
func validateTour(sl validator.StructLevel) {
	tour := sl.Current().Interface().(models.Tour)
	if tour.PriceDiscount != 0 && tour.PriceDiscount >= tour.Price {
		sl.ReportError(tour.PriceDiscount, "PriceDiscount", "price_discount", "ltfield", "Price")
	}
}
