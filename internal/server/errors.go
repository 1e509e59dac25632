package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/tenantctl/internal/auth/domain"
	"github.com/smallbiznis/tenantctl/internal/entitlement"
	featuredomain "github.com/smallbiznis/tenantctl/internal/feature/domain"
	plandomain "github.com/smallbiznis/tenantctl/internal/plan/domain"
	tenantdomain "github.com/smallbiznis/tenantctl/internal/tenant/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
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

func invalidRequestError() error { return ErrInvalidRequest }

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Code:    err.Error(),
			Message: validationMessage(err),
		}
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidToken),
		errors.Is(err, authdomain.ErrTokenExpired),
		errors.Is(err, authdomain.ErrUserDisabled):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Code:    err.Error(),
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, entitlement.ErrInvalidKeyFormat),
		errors.Is(err, entitlement.ErrTypeMismatch),
		errors.Is(err, featuredomain.ErrInvalidKey),
		errors.Is(err, featuredomain.ErrInvalidName),
		errors.Is(err, featuredomain.ErrInvalidType),
		errors.Is(err, featuredomain.ErrInvalidID),
		errors.Is(err, plandomain.ErrInvalidName),
		errors.Is(err, plandomain.ErrInvalidPrice),
		errors.Is(err, plandomain.ErrInvalidBillingCycle),
		errors.Is(err, plandomain.ErrInvalidID),
		errors.Is(err, tenantdomain.ErrInvalidName),
		errors.Is(err, tenantdomain.ErrInvalidSubdomain),
		errors.Is(err, tenantdomain.ErrInvalidID),
		errors.Is(err, tenantdomain.ErrInvalidPlan):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, entitlement.ErrDuplicateKey),
		errors.Is(err, featuredomain.ErrDuplicateKey),
		errors.Is(err, featuredomain.ErrInUse),
		errors.Is(err, plandomain.ErrDuplicateName),
		errors.Is(err, plandomain.ErrInUse),
		errors.Is(err, tenantdomain.ErrDuplicateSub):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, entitlement.ErrUnknownFeature),
		errors.Is(err, featuredomain.ErrNotFound),
		errors.Is(err, plandomain.ErrNotFound),
		errors.Is(err, tenantdomain.ErrNotFound),
		errors.Is(err, tenantdomain.ErrOverrideNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// validationMessage surfaces type-mismatch details; they are never silently
// coerced into a generic message.
func validationMessage(err error) string {
	var mismatch *entitlement.TypeMismatchError
	if errors.As(err, &mismatch) {
		return mismatch.Error()
	}
	var keyErr *entitlement.KeyError
	if errors.As(err, &keyErr) {
		return keyErr.Error()
	}
	return "invalid request"
}
