package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("isodate", isISODate)
	_ = v.RegisterValidation("hhmm", isTimeOfDay)
	_ = v.RegisterValidation("staffref", isStaffRef)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate проверяет DTO по тегам validate и возвращает понятное сообщение
func Validate(dto interface{}) error {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("поле %s обязательно", field)
	case "isodate":
		return fmt.Sprintf("поле %s: ожидается дата YYYY-MM-DD", field)
	case "hhmm":
		return fmt.Sprintf("поле %s: ожидается время HH:MM", field)
	case "staffref":
		return fmt.Sprintf("поле %s: ожидается ID мастера или %s", field, domain.NoPreference)
	case "max":
		return fmt.Sprintf("поле %s: не более %s", field, fe.Param())
	case "min", "gt", "gte":
		return fmt.Sprintf("поле %s: значение слишком мало", field)
	case "email":
		return fmt.Sprintf("поле %s: некорректный email", field)
	case "oneof":
		return fmt.Sprintf("поле %s: допустимые значения %s", field, fe.Param())
	}
	return fmt.Sprintf("поле %s некорректно", field)
}

func isISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(domain.DateFormat, fl.Field().String())
	return err == nil
}

// isTimeOfDay принимает только HH:MM, секунды в API не передаются
func isTimeOfDay(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if strings.Count(v, ":") != 1 {
		return false
	}
	_, err := types.ParseTimeOfDay(v)
	return err == nil
}

func isStaffRef(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if v == domain.NoPreference {
		return true
	}
	id, err := strconv.ParseInt(v, 10, 64)
	return err == nil && id > 0
}
