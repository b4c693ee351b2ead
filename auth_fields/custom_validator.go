package auth_fields

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var validatorOnce sync.Once
var validate *validator.Validate

func Validator() *validator.Validate {
	validatorOnce.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")

		err := validate.RegisterValidation("nospace", noSpace)
		if err != nil {
			log.Fatalf("Unexpected err %v", err)
		}

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

			if name == "-" {
				return ""
			}

			return name
		})
	})
	return validate
}

func ValidateStruct(obj interface{}) error {
	if kindOfData(obj) == reflect.Struct {
		if err := Validator().Struct(obj); err != nil {
			return err
		}
	}
	return nil
}

// ValidationFields flattens validator errors into field -> message.
func ValidationFields(err error) map[string]any {
	out := map[string]any{}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return out
	}
	for _, e := range errs {
		switch e.Tag() {
		case "required":
			out[e.Field()] = "this field is required"
		case "url":
			out[e.Field()] = "must be a valid url"
		case "nospace":
			out[e.Field()] = "must not contain spaces"
		default:
			out[e.Field()] = e.Field() + " is not valid"
		}
	}
	return out
}

func noSpace(fl validator.FieldLevel) bool {
	return !strings.ContainsAny(fl.Field().String(), " \t\n")
}

func kindOfData(data interface{}) reflect.Kind {

	value := reflect.ValueOf(data)
	valueType := value.Kind()

	if valueType == reflect.Ptr {
		valueType = value.Elem().Kind()
	}
	return valueType
}
