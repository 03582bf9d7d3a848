package validators

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/availability"
)

// Register installs the custom tags on gin's binding validator.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation("clock", Clock); err != nil {
		return err
	}
	return v.RegisterValidation("isodate", ISODate)
}

// Clock accepts "HH:MM" and "24:00".
func Clock(fl validator.FieldLevel) bool {
	_, err := availability.ParseClock(fl.Field().String())
	return err == nil
}

// ISODate accepts "YYYY-MM-DD".
func ISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}
