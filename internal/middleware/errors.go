package middleware

import (
	"net/http"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
)

var (
	ErrTokenNotFound = apperror.New(apperror.CodeUnauthorized, "token not found", http.StatusUnauthorized)
	ErrInvalidToken  = apperror.New(apperror.CodeUnauthorized, "invalid token", http.StatusUnauthorized)
	ErrTokenExpired  = apperror.New(apperror.CodeUnauthorized, "token expired", http.StatusUnauthorized)
	ErrAdminRequired = apperror.New(apperror.CodeForbidden, "admin capability required", http.StatusForbidden)
	ErrRateLimited   = apperror.New(apperror.CodeRateLimited, "too many requests", http.StatusTooManyRequests)
	ErrInProgress    = apperror.New(apperror.CodeConflict, "a request with this Idempotency-Key is still being processed", http.StatusConflict)
)

func abortWith(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
	c.Abort()
}
