package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-management/pkg/auth"
)

func TestTokens_IssueParse(t *testing.T) {
	t.Parallel()
	tokens := auth.NewTokens(auth.Config{Secret: "secret", TTL: 24 * time.Hour})

	p := auth.Principal{ID: 7, Username: "alice", Role: auth.RoleBorrower}
	token, expiresAt, err := tokens.Issue(p)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	got, err := tokens.Parse(token)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestTokens_Parse(t *testing.T) {
	t.Parallel()
	tokens := auth.NewTokens(auth.Config{Secret: "secret"})

	sign := func(key string, method jwt.SigningMethod, claims auth.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
		require.NoError(t, err)
		return s
	}
	valid := auth.Claims{
		UserID:   1,
		Username: "librarian",
		Role:     auth.RoleLibrarian,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	badRole := valid
	badRole.Role = "admin"

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "ok", token: sign("secret", jwt.SigningMethodHS256, valid)},
		{name: "expired", token: sign("secret", jwt.SigningMethodHS256, expired), wantErr: auth.ErrTokenExpired},
		{name: "wrong key", token: sign("other", jwt.SigningMethodHS256, valid), wantErr: auth.ErrInvalidToken},
		{name: "wrong alg", token: sign("secret", jwt.SigningMethodHS512, valid), wantErr: auth.ErrInvalidToken},
		{name: "unknown role", token: sign("secret", jwt.SigningMethodHS256, badRole), wantErr: auth.ErrInvalidToken},
		{name: "garbage", token: "not.a.token", wantErr: auth.ErrInvalidToken},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tokens.Parse(tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()
	borrower := auth.SetAuthContext(context.Background(), auth.Principal{ID: 2, Username: "bob", Role: auth.RoleBorrower})
	librarian := auth.SetAuthContext(context.Background(), auth.Principal{ID: 1, Username: "librarian", Role: auth.RoleLibrarian})

	_, err := auth.Authorize(context.Background(), auth.Authenticated)
	require.ErrorIs(t, err, auth.ErrUnauthenticated)

	p, err := auth.Authorize(borrower, auth.Authenticated)
	require.NoError(t, err)
	require.Equal(t, int64(2), p.ID)

	_, err = auth.Authorize(borrower, auth.Librarian)
	require.ErrorIs(t, err, auth.ErrForbidden)

	_, err = auth.Authorize(librarian, auth.Librarian)
	require.NoError(t, err)
}
