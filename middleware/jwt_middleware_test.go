package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/carelink_backend/models"
)

func TestGenerateJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	access, refresh, err := GenerateJWT("60f1b2c3d4e5f6a7b8c9d0e1", "senior@example.com", models.UserTypeSenior)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	parsed, err := jwt.ParseWithClaims(access, &JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(*JwtCustomClaims)
	assert.Equal(t, "60f1b2c3d4e5f6a7b8c9d0e1", claims.UserID)
	assert.Equal(t, models.UserTypeSenior, claims.UserType)
	assert.Equal(t, "senior@example.com", claims.Email)
}

func TestGenerateJWTRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, _, err := GenerateJWT("id", "a@b.c", models.UserTypeSenior)
	assert.Error(t, err)
}

func TestJWTMiddlewareRejectsMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings/senior", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := JWTMiddleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestExtractUserID(t *testing.T) {
	e := echo.New()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set("user", &jwt.Token{Claims: &JwtCustomClaims{UserID: "60f1b2c3d4e5f6a7b8c9d0e1"}})
	id, err := ExtractUserID(c)
	require.NoError(t, err)
	assert.Equal(t, "60f1b2c3d4e5f6a7b8c9d0e1", id)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, err = ExtractUserID(c)
	assert.Error(t, err)
}

func TestJWTMiddlewarePopulatesContext(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	access, _, err := GenerateJWT("60f1b2c3d4e5f6a7b8c9d0e2", "cg@example.com", models.UserTypeCaregiver)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/availability/x", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := JWTMiddleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.Equal(t, "60f1b2c3d4e5f6a7b8c9d0e2", c.Get("userId"))
	assert.Equal(t, models.UserTypeCaregiver, c.Get("userType"))
	assert.Equal(t, models.UserTypeCaregiver, ExtractUserType(c))
}
