package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sellerdesk/backoffice/internal/types"
)

// RequestIDMiddleware propagates or generates the request id
func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUID()
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}

// TenantMiddleware copies the tenant and actor headers into the request
// context. Tenant-scoped handlers rely on these being present.
func TenantMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	if tenantID := c.GetHeader(types.HeaderTenantID); tenantID != "" {
		ctx = types.SetTenantID(ctx, tenantID)
	}
	if actorID := c.GetHeader(types.HeaderActorID); actorID != "" {
		ctx = types.SetActorID(ctx, actorID)
	}

	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
