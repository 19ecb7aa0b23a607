package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/doseplan/internal/catalog/domain"
	medicationdomain "github.com/smallbiznis/doseplan/internal/medication/domain"
	pharmacydomain "github.com/smallbiznis/doseplan/internal/pharmacy/domain"
	quotedomain "github.com/smallbiznis/doseplan/internal/quote/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isMedicationValidationError(err),
		isPharmacyValidationError(err),
		isProductValidationError(err),
		isQuoteValidationError(err):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, medicationdomain.ErrDuplicateCode),
		errors.Is(err, pharmacydomain.ErrDuplicateSlug):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, medicationdomain.ErrNotFound),
		errors.Is(err, pharmacydomain.ErrNotFound),
		errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isMedicationValidationError(err error) bool {
	switch {
	case errors.Is(err, medicationdomain.ErrInvalidCode),
		errors.Is(err, medicationdomain.ErrInvalidName),
		errors.Is(err, medicationdomain.ErrInvalidForm),
		errors.Is(err, medicationdomain.ErrInvalidUnit),
		errors.Is(err, medicationdomain.ErrInvalidPreset):
		return true
	default:
		return false
	}
}

func isPharmacyValidationError(err error) bool {
	switch {
	case errors.Is(err, pharmacydomain.ErrInvalidName),
		errors.Is(err, pharmacydomain.ErrInvalidSlug),
		errors.Is(err, pharmacydomain.ErrInvalidPharmacy),
		errors.Is(err, pharmacydomain.ErrInvalidState),
		errors.Is(err, pharmacydomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isProductValidationError(err error) bool {
	switch {
	case errors.Is(err, catalogdomain.ErrInvalidPharmacy),
		errors.Is(err, catalogdomain.ErrInvalidMedication),
		errors.Is(err, catalogdomain.ErrInvalidName),
		errors.Is(err, catalogdomain.ErrInvalidConcentration),
		errors.Is(err, catalogdomain.ErrInvalidFillVolume),
		errors.Is(err, catalogdomain.ErrInvalidUnitCost),
		errors.Is(err, catalogdomain.ErrInvalidRetailPrice),
		errors.Is(err, catalogdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isQuoteValidationError(err error) bool {
	switch {
	case errors.Is(err, quotedomain.ErrInvalidMedication),
		errors.Is(err, quotedomain.ErrInvalidDuration),
		errors.Is(err, quotedomain.ErrInvalidMode),
		errors.Is(err, quotedomain.ErrInvalidState),
		errors.Is(err, quotedomain.ErrInvalidConcentration):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog maps an error to (type, code) fields for request logs.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	if vErr := asValidationErrors(err); vErr != nil {
		code := ""
		if len(vErr.Errors) > 0 {
			code = vErr.Errors[0].Code
		}
		return "validation_error", code
	}
	if isValidationError(err) {
		return "validation_error", validationErrorCode(err)
	}
	if isConflictError(err) {
		return "conflict", err.Error()
	}
	if isNotFoundError(err) {
		return "not_found", "not_found"
	}
	return "internal_error", err.Error()
}
