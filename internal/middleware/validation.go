package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/booker-api/internal/scheduling"
)

// RegisterValidators installs the domain validation tags on gin's
// binding engine. Must run before the first request is bound.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// "bookdate" accepts calendar dates in YYYY-MM-DD form.
	_ = v.RegisterValidation("bookdate", func(fl validator.FieldLevel) bool {
		_, err := scheduling.ParseDate(fl.Field().String(), scheduling.Zone(0))
		return err == nil
	})

	// "clock" accepts 24-hour HH:MM strings.
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := scheduling.ParseClock(fl.Field().String())
		return err == nil
	})

	// Report errors against the JSON field name, not the Go one.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
}
