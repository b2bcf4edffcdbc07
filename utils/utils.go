package utils

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/paycrest/bridge-wallet/types"
)

// APIResponse writes the standard response envelope
func APIResponse(ctx *gin.Context, code int, status string, message string, data interface{}) {
	ctx.JSON(code, types.Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// GetErrorData turns a binding error into per-field error data
func GetErrorData(err error) []types.ErrorData {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []types.ErrorData{{
			Field:   "body",
			Message: err.Error(),
		}}
	}

	errorData := make([]types.ErrorData, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		errorData = append(errorData, types.ErrorData{
			Field:   fieldErr.Field(),
			Message: GetErrorMsg(fieldErr),
		})
	}
	return errorData
}

// GetErrorMsg returns a human message for a failed validation tag
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email address"
	case "len":
		return fmt.Sprintf("Must be %s characters long", fe.Param())
	case "numeric":
		return "Must contain only digits"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "min":
		return fmt.Sprintf("Should be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("Should be at most %s", fe.Param())
	}
	return "Invalid value"
}

// FieldErrorData converts a field -> message map into sorted error data
func FieldErrorData(fields map[string]string) []types.ErrorData {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	errorData := make([]types.ErrorData, 0, len(keys))
	for _, k := range keys {
		errorData = append(errorData, types.ErrorData{Field: k, Message: fields[k]})
	}
	return errorData
}

// ContainsString reports whether slice holds item, ignoring case
func ContainsString(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
