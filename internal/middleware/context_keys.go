package middleware

import (
	"context"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// callerKey is the key used to store the authenticated caller in the request context.
const callerKey = contextKey("caller")

// WithCaller returns a copy of ctx carrying the authenticated caller.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// GetCallerFromContext retrieves the authenticated caller from the request context.
// It returns the caller and a boolean indicating if it was found.
func GetCallerFromContext(c *gin.Context) (domain.Caller, bool) {
	caller, ok := c.Request.Context().Value(callerKey).(domain.Caller)
	return caller, ok
}
