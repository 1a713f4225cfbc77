package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/saeid-a/FitProBack/internal/i18n"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}
	return v
}

func notBlank(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(fl.Field().String()) != ""
}

// bindJSON parses and validates the body into out. When ok is false the 400
// response has been written and err is what the handler should return.
func bindJSON(c *fiber.Ctx, out any) (ok bool, err error) {
	if err := c.BodyParser(out); err != nil {
		return false, errorResponse(c, fiber.StatusBadRequest, i18n.InvalidBody)
	}
	if err := validate.Struct(out); err != nil {
		return false, validationResponse(c, err)
	}
	return true, nil
}

func validationResponse(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errorResponse(c, fiber.StatusBadRequest, i18n.ValidationFailed)
	}
	persian := i18n.Index(c.Get(fiber.HeaderAcceptLanguage)) == 0
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe, persian)
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  message(c, i18n.ValidationFailed),
		"fields": fields,
	})
}

func fieldMessage(fe validator.FieldError, persian bool) string {
	switch fe.Tag() {
	case "required", "notblank":
		if persian {
			return "این فیلد الزامی است"
		}
		return "This field is required"
	case "email":
		if persian {
			return "ایمیل معتبر نیست"
		}
		return "Must be a valid email address"
	case "min", "gte", "gt":
		if persian {
			return fmt.Sprintf("حداقل مقدار مجاز %s است", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max", "lte":
		if persian {
			return fmt.Sprintf("حداکثر مقدار مجاز %s است", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "oneof":
		values := strings.ReplaceAll(fe.Param(), " ", ", ")
		if persian {
			return "یکی از این مقادیر: " + values
		}
		return "Must be one of: " + values
	case "uuid":
		if persian {
			return "شناسه معتبر نیست"
		}
		return "Must be a valid id"
	case "datetime":
		if persian {
			return "تاریخ باید به شکل " + fe.Param() + " باشد"
		}
		return "Must be a date formatted as " + fe.Param()
	case "url":
		if persian {
			return "آدرس معتبر نیست"
		}
		return "Must be a valid URL"
	default:
		if persian {
			return "مقدار نامعتبر است"
		}
		return fmt.Sprintf("Invalid value (failed on '%s' tag)", fe.Tag())
	}
}
