package bookingutils

import (
	"reflect"
	"regexp"
	"scmsapi/pkg/config"
	"scmsapi/pkg/schemas"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rivo/uniseg"
)

var couponCodeRe = regexp.MustCompile(`^[A-Za-z0-9_-]{2,32}$`)

func MaxGraphemesValidator(fl validator.FieldLevel) bool {

	maxLength, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}

	gr := uniseg.NewGraphemes(fl.Field().String())
	count := 0
	for gr.Next() {
		count++
		if count > maxLength {
			return false
		}
	}

	return true

}

func BookingStatusValidator(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case schemas.BookingApproved, schemas.BookingRejected:
		return true
	}
	return false
}

func CouponCodeValidator(fl validator.FieldLevel) bool {
	return couponCodeRe.MatchString(fl.Field().String())
}

func RoleValidator(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case config.ROLE_USER, config.ROLE_MEMBER, config.ROLE_ADMIN:
		return true
	}
	return false
}

func NewValidator() *validator.Validate {
	v := validator.New()
	// report fields by their json name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("maxgraphemes", MaxGraphemesValidator)
	v.RegisterValidation("bookingstatus", BookingStatusValidator)
	v.RegisterValidation("couponcode", CouponCodeValidator)
	v.RegisterValidation("role", RoleValidator)
	return v
}
