package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

func CreateError(status int, message string, ctx iris.Context) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"message": message})
}

func CreateNotFound(what string, ctx iris.Context) {
	CreateError(iris.StatusNotFound, what+" not found", ctx)
}

func CreateInternalServerError(err error, ctx iris.Context) {
	message := "Internal server error"
	if err != nil {
		message = err.Error()
	}
	CreateError(iris.StatusInternalServerError, message, ctx)
}

// HandleValidationErrors maps ReadJSON failures to the API error shape:
// {message, errors: [{field, message}]} for validator errors, a plain
// {message} for malformed bodies.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fieldErrors := make([]iris.Map, 0, len(errs))
		for _, fieldErr := range errs {
			fieldErrors = append(fieldErrors, iris.Map{
				"field":   lowerFirst(fieldErr.Field()),
				"message": validationMessage(fieldErr),
			})
		}

		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Validation errors", "errors": fieldErrors})
		return
	}

	CreateError(iris.StatusBadRequest, "Invalid request body", ctx)
}

func validationMessage(fieldErr validator.FieldError) string {
	field := lowerFirst(fieldErr.Field())
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "valid email is required"
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fieldErr.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s", field, fieldErr.Param())
	case "gte":
		return fmt.Sprintf("%s cannot be negative", field)
	case "lte":
		return fmt.Sprintf("%s cannot exceed %s", field, fieldErr.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
