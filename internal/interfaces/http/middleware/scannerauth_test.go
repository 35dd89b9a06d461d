package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nrjbutsecond/tessera/internal/infrastructure/auth"
	"github.com/nrjbutsecond/tessera/internal/shared/logger"
)

func setupScannerAuthRouter(t *testing.T, svc *auth.ScannerTokenService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	scannerAuth := NewScannerAuth(svc, logger.NewLogger())

	engine.POST("/scan", scannerAuth.RequireScanner(), func(c *gin.Context) {
		scannerID, _ := c.Get("scanner_id")
		c.JSON(http.StatusOK, gin.H{"scanner_id": scannerID})
	})

	return engine
}

func TestScannerAuth_RequireScanner(t *testing.T) {
	svc := auth.NewScannerTokenService("test-secret", 1)
	engine := setupScannerAuthRouter(t, svc)

	t.Run("valid token passes and sets scanner id", func(t *testing.T) {
		token, err := svc.Generate("gate-3", "")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/scan", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "gate-3")
	})

	t.Run("missing header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/scan", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/scan", nil)
		req.Header.Set("Authorization", "Basic abc123")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with another secret rejected", func(t *testing.T) {
		other := auth.NewScannerTokenService("other-secret", 1)
		token, err := other.Generate("gate-3", "")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/scan", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
