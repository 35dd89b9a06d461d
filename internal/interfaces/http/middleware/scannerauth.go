package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nrjbutsecond/tessera/internal/infrastructure/auth"
	"github.com/nrjbutsecond/tessera/internal/shared/logger"
	"github.com/nrjbutsecond/tessera/internal/shared/utils"
)

// ScannerAuth authenticates gate scanner devices on the scan endpoint.
// Verified requests carry scanner_id in the gin context; the scan use case
// records it in the audit log.
type ScannerAuth struct {
	tokenService *auth.ScannerTokenService
	logger       logger.Interface
}

func NewScannerAuth(tokenService *auth.ScannerTokenService, log logger.Interface) *ScannerAuth {
	return &ScannerAuth{
		tokenService: tokenService,
		logger:       log,
	}
}

func (m *ScannerAuth) RequireScanner() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.tokenService.Verify(parts[1])
		if err != nil {
			m.logger.Warnw("failed to verify scanner token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired scanner token")
			c.Abort()
			return
		}

		c.Set("scanner_id", claims.ScannerID)
		if claims.Venue != "" {
			c.Set("scanner_venue", claims.Venue)
		}

		c.Next()
	}
}
