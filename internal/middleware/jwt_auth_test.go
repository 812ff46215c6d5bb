package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mansoorceksport/coachbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, roles []string, expires time.Time) string {
	t.Helper()
	claims := domain.CoachClaims{
		Name:  "Coach",
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "coach-1",
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerifyToken(t *testing.T) {
	app := fiber.New()
	app.Use(VerifyToken(testSecret))
	app.Put("/exercises/create", AuthorizeRole("coach"), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(SubjectKey).(string))
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing token", "", fiber.StatusUnauthorized},
		{"garbage token", "Bearer nope", fiber.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", []string{"coach"}, time.Now().Add(time.Hour)), fiber.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testSecret, []string{"coach"}, time.Now().Add(-time.Hour)), fiber.StatusUnauthorized},
		{"missing role", "Bearer " + signToken(t, testSecret, []string{"viewer"}, time.Now().Add(time.Hour)), fiber.StatusForbidden},
		{"valid", "Bearer " + signToken(t, testSecret, []string{"coach"}, time.Now().Add(time.Hour)), fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("PUT", "/exercises/create", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
