package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/teamtodo/server/internal/rpc"
	apperrors "github.com/teamtodo/server/internal/utils/errors"
)

type fakeValidator struct {
	claims *rpc.TokenClaims
	err    error
}

func (v *fakeValidator) ValidateToken(ctx context.Context, token string) (*rpc.TokenClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func newAuthRouter(validator TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(validator))
	r.Use(ActiveStatus())
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   GetUserID(c),
			"user_type": GetUserType(c),
		})
	})
	return r
}

func TestAuth(t *testing.T) {
	activeClaims := &rpc.TokenClaims{
		UserID:     "u1",
		Email:      "alice@example.com",
		UserType:   "USER",
		UserStatus: "ACTIVE",
	}

	tests := []struct {
		name       string
		header     string
		validator  *fakeValidator
		wantStatus int
	}{
		{
			name:       "valid token",
			header:     "Bearer good-token",
			validator:  &fakeValidator{claims: activeClaims},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			header:     "",
			validator:  &fakeValidator{claims: activeClaims},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			header:     "Token abc",
			validator:  &fakeValidator{claims: activeClaims},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "rejected token",
			header:     "Bearer bad-token",
			validator:  &fakeValidator{err: apperrors.Unauthorized("invalid token")},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "banned account",
			header: "Bearer good-token",
			validator: &fakeValidator{claims: &rpc.TokenClaims{
				UserID:     "u2",
				UserStatus: "BANNED",
			}},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(tt.validator)

			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
			}
		})
	}
}
