package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NomadCrew/feedback-board/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name           string
		allowed        []string
		requestOrigin  string
		isOptions      bool
		expectedStatus int
		expectedOrigin string
	}{
		{
			name:           "allowed origin simple request",
			allowed:        []string{"http://localhost:3000", "https://board.example.com"},
			requestOrigin:  "http://localhost:3000",
			expectedStatus: http.StatusOK,
			expectedOrigin: "http://localhost:3000",
		},
		{
			name:           "allowed origin preflight",
			allowed:        []string{"http://localhost:3000", "https://board.example.com"},
			requestOrigin:  "https://board.example.com",
			isOptions:      true,
			expectedStatus: http.StatusNoContent,
			expectedOrigin: "https://board.example.com",
		},
		{
			name:           "disallowed origin",
			allowed:        []string{"http://localhost:3000"},
			requestOrigin:  "http://evil.com",
			expectedStatus: http.StatusForbidden,
			expectedOrigin: "",
		},
		{
			name:           "wildcard subdomain",
			allowed:        []string{"https://*.example.com"},
			requestOrigin:  "https://staging.example.com",
			expectedStatus: http.StatusOK,
			expectedOrigin: "https://staging.example.com",
		},
		{
			name:           "allow all",
			allowed:        []string{"*"},
			requestOrigin:  "http://anything.test",
			expectedStatus: http.StatusOK,
			expectedOrigin: "*",
		},
		{
			name:           "no origin header",
			allowed:        []string{"http://localhost:3000"},
			expectedStatus: http.StatusOK,
			expectedOrigin: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware(&config.ServerConfig{AllowedOrigins: tc.allowed}))
			router.GET("/api/feedback", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			method := http.MethodGet
			if tc.isOptions {
				method = http.MethodOptions
			}
			req := httptest.NewRequest(method, "/api/feedback", nil)
			if tc.requestOrigin != "" {
				req.Header.Set("Origin", tc.requestOrigin)
			}
			if tc.isOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Equal(t, tc.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			if tc.isOptions {
				assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
			}
		})
	}
}
