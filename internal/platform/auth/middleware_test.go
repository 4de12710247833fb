package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mwSecret = []byte("mw-secret")

func signMapClaims(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "7",
		"email": "m@example.com",
		"role":  RoleMember,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func middlewareRouter(extra ...gin.HandlerFunc) (*gin.Engine, *Principal) {
	gin.SetMode(gin.TestMode)
	var seen Principal
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequireAuth(mwSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		seen, _ = PrincipalFrom(c)
		c.Status(http.StatusNoContent)
	})
	r.GET("/x", handlers...)
	return r, &seen
}

func get(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_ValidToken(t *testing.T) {
	r, seen := middlewareRouter()

	token := signMapClaims(t, jwt.SigningMethodHS256, mwSecret, validClaims())
	w := get(r, "Bearer "+token)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, Principal{UserID: 7, Email: "m@example.com", Role: RoleMember}, *seen)
}

func TestRequireAuth_Rejections(t *testing.T) {
	r, _ := middlewareRouter()

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	badSub := validClaims()
	badSub["sub"] = "not-a-number"

	noRole := validClaims()
	delete(noRole, "role")

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not.a.token"},
		{"wrong secret", "Bearer " + signMapClaims(t, jwt.SigningMethodHS256, []byte("other"), validClaims())},
		{"expired", "Bearer " + signMapClaims(t, jwt.SigningMethodHS256, mwSecret, expired)},
		{"invalid sub", "Bearer " + signMapClaims(t, jwt.SigningMethodHS256, mwSecret, badSub)},
		{"missing role", "Bearer " + signMapClaims(t, jwt.SigningMethodHS256, mwSecret, noRole)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := get(r, tc.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireAuth_RejectsUnsignedAlg(t *testing.T) {
	r, _ := middlewareRouter()

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims()).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	r, _ := middlewareRouter(RequireRole(RoleAdmin, RoleLibrarian))

	memberToken := signMapClaims(t, jwt.SigningMethodHS256, mwSecret, validClaims())
	w := get(r, "Bearer "+memberToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminClaims := validClaims()
	adminClaims["role"] = RoleAdmin
	adminToken := signMapClaims(t, jwt.SigningMethodHS256, mwSecret, adminClaims)
	w = get(r, "Bearer "+adminToken)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
