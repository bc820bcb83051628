package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/PratikDhanave/fuel-command-center/internal/auth"
)

func TestAPIKeyMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(auth.APIKeyMiddleware(map[string]string{"k1": "alice"}))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, auth.Operator(c))
	})

	tests := []struct {
		name   string
		key    string
		status int
		body   string
	}{
		{"valid key", "k1", http.StatusOK, "alice"},
		{"padded key", "  k1 ", http.StatusOK, "alice"},
		{"unknown key", "k2", http.StatusUnauthorized, `{"error":"unauthorized"}`},
		{"missing key", "", http.StatusUnauthorized, `{"error":"unauthorized"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}
