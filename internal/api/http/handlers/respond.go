package handlers

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ventaplus/commerce-service/pkg/util"
)

var validate = validator.New()

// success wraps a payload in the standard response envelope.
func success(c *fiber.Ctx, status int, payload fiber.Map) error {
	body := fiber.Map{"success": true}
	for key, value := range payload {
		body[key] = value
	}
	return c.Status(status).JSON(body)
}

// bindAndValidate parses the JSON body and runs struct validation.
func bindAndValidate(c *fiber.Ctx, target any) error {
	if err := c.BodyParser(target); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(target); err != nil {
		details := map[string]any{}
		var fieldErrs validator.ValidationErrors
		if ok := isValidationErrors(err, &fieldErrs); ok {
			for _, fe := range fieldErrs {
				details[strings.ToLower(fe.Field())] = fe.Tag()
			}
		}
		return util.NewValidationError("validation failed", details)
	}
	return nil
}

func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = fieldErrs
	}
	return ok
}

// paramID parses a numeric path parameter.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, util.NewValidationError("invalid "+name, nil)
	}
	return id, nil
}

// queryInt reads an optional integer query parameter.
func queryInt(c *fiber.Ctx, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
