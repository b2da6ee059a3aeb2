package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-management/pkg/auth"
	md "github.com/Astemirdum/library-management/pkg/middleware"
)

func TestGuards(t *testing.T) {
	t.Parallel()
	tokens := auth.NewTokens(auth.Config{Secret: "secret", TTL: time.Hour})
	librarianToken, _, err := tokens.Issue(auth.Principal{ID: 1, Username: "librarian", Role: auth.RoleLibrarian})
	require.NoError(t, err)
	borrowerToken, _, err := tokens.Issue(auth.Principal{ID: 2, Username: "bob", Role: auth.RoleBorrower})
	require.NoError(t, err)

	e := echo.New()
	ok := func(c echo.Context) error {
		p, _ := auth.FromContext(c.Request().Context())
		return c.String(http.StatusOK, p.Username)
	}
	authn := md.JwtAuthentication(tokens)
	e.GET("/me", ok, authn, md.Require(auth.Authenticated))
	e.GET("/admin", ok, authn, md.Require(auth.Librarian))

	tests := []struct {
		name   string
		path   string
		header string
		code   int
	}{
		{name: "no header", path: "/me", code: http.StatusUnauthorized},
		{name: "not bearer", path: "/me", header: "Basic abc", code: http.StatusUnauthorized},
		{name: "bad token", path: "/me", header: "Bearer abc", code: http.StatusUnauthorized},
		{name: "borrower me", path: "/me", header: "Bearer " + borrowerToken, code: http.StatusOK},
		{name: "borrower admin", path: "/admin", header: "Bearer " + borrowerToken, code: http.StatusForbidden},
		{name: "librarian admin", path: "/admin", header: "Bearer " + librarianToken, code: http.StatusOK},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			if tt.header != "" {
				r.Header.Set(md.AuthorizationHeader, tt.header)
			}
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)
			require.Equal(t, tt.code, w.Code)
		})
	}
}
