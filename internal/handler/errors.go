package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/coachbook/internal/domain"
	"github.com/mansoorceksport/coachbook/internal/middleware"
	log "github.com/sirupsen/logrus"
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
	return v
}

// validateBody runs the struct validator on a decoded request body and
// reports failures keyed by JSON field path.
func validateBody(req interface{}) *domain.ValidationError {
	verr := domain.NewValidationError(domain.LocationJSON)

	err := validate.Struct(req)
	if err == nil {
		return verr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return verr.Add("_schema", err.Error())
	}
	for _, fe := range fieldErrs {
		verr.Add(fieldPath(fe), fieldMessage(fe))
	}
	return verr
}

// fieldPath drops the struct name from a namespace such as
// "trainingRequest.stages[0].exercises[1]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Missing data for required field."
	case "min":
		return fmt.Sprintf("Must be greater than or equal to %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be less than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s.", fe.Param())
	case "url":
		return "Not a valid URL."
	default:
		return "Invalid value."
	}
}

// writeError maps domain errors to HTTP responses. Unknown errors are logged
// here and reported as 500 without detail.
func writeError(c *fiber.Ctx, err error) error {
	if verr, ok := domain.IsValidationError(err); ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"code":   fiber.StatusUnprocessableEntity,
			"status": "Unprocessable Entity",
			"errors": fiber.Map{verr.Location: verr.Fields},
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidID):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"code":    fiber.StatusNotFound,
			"status":  "Not Found",
			"message": err.Error(),
		})
	}

	log.WithFields(log.Fields{
		"path":       c.Path(),
		"request_id": middleware.RequestIDFrom(c),
	}).WithError(err).Error("request failed")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"code":    fiber.StatusInternalServerError,
		"status":  "Internal Server Error",
		"message": "internal error",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"code":    fiber.StatusBadRequest,
		"status":  "Bad Request",
		"message": message,
	})
}
