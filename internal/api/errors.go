package api

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "outfit-workers/internal/common/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

var statusByCode = map[apperrors.ErrorCode]int{
	apperrors.ErrCodeInputValidationFailed: http.StatusBadRequest,
	apperrors.ErrCodeUnknownCategoryValue:  http.StatusUnprocessableEntity,
	apperrors.ErrCodeWeatherLookupFailed:   http.StatusBadGateway,
	apperrors.ErrCodeBundleNotFound:        http.StatusServiceUnavailable,
	apperrors.ErrCodeBundleLoadFailed:      http.StatusServiceUnavailable,
	apperrors.ErrCodeInvalidBundle:         http.StatusServiceUnavailable,
	"TIMEOUT_ERROR":                        http.StatusGatewayTimeout,
}

// handleError renders every failure as {code, message}.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request error", map[string]interface{}{
			"path":  c.Request().URL.Path,
			"code":  body.Code,
			"error": err.Error(),
		})
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		s.logger.Error("failed to send error response", map[string]interface{}{"error": err.Error()})
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	var httpErr *echo.HTTPError
	if stderrors.As(err, &httpErr) {
		return httpErr.Code, ErrorResponse{
			Code:    strings.ToUpper(strings.ReplaceAll(http.StatusText(httpErr.Code), " ", "_")),
			Message: fmt.Sprintf("%v", httpErr.Message),
		}
	}

	var validationErrs validator.ValidationErrors
	if stderrors.As(err, &validationErrs) {
		fields := make(map[string]string, len(validationErrs))
		for _, fe := range validationErrs {
			fields[fe.Field()] = formatValidationError(fe)
		}
		return http.StatusBadRequest, ErrorResponse{
			Code:    string(apperrors.ErrCodeInputValidationFailed),
			Message: "request validation failed",
			Fields:  fields,
		}
	}

	stdErr := apperrors.FromError(err)
	status, ok := statusByCode[stdErr.Code]
	if !ok {
		return http.StatusInternalServerError, ErrorResponse{
			Code:    string(apperrors.ErrCodeInternal),
			Message: "internal error",
		}
	}
	msg := stdErr.Message
	if stdErr.Details != "" {
		msg += ": " + stdErr.Details
	}
	return status, ErrorResponse{Code: string(stdErr.Code), Message: msg}
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation for '%s'", fe.Tag())
	}
}
