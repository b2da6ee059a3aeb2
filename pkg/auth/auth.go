package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

type Role string

const (
	RoleLibrarian Role = "librarian"
	RoleBorrower  Role = "borrower"
)

var (
	ErrUnauthenticated = errors.New("access token required")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrForbidden       = errors.New("librarian access required")
)

type Config struct {
	Secret string        `yaml:"secret" envconfig:"JWT_SECRET" required:"true"`
	TTL    time.Duration `yaml:"ttl" envconfig:"JWT_TTL" default:"24h"`
}

// Principal is the identity carried by a bearer token.
type Principal struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (p Principal) IsLibrarian() bool {
	return p.Role == RoleLibrarian
}

type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

type Tokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokens(cfg Config) *Tokens {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{
		key: []byte(cfg.Secret),
		ttl: ttl,
		now: time.Now,
	}
}

// Issue signs an HS256 token for p valid for the configured TTL.
func (t *Tokens) Issue(p Principal) (string, time.Time, error) {
	issuedAt := t.now()
	expiresAt := issuedAt.Add(t.ttl)
	claims := &Claims{
		UserID:   p.ID,
		Username: p.Username,
		Role:     p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "token.SignedString")
	}
	return signed, expiresAt, nil
}

func (t *Tokens) Parse(tokenStr string) (Principal, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorExpired != 0 {
			return Principal{}, ErrTokenExpired
		}
		return Principal{}, ErrInvalidToken
	}
	if !token.Valid || claims.ExpiresAt == nil {
		return Principal{}, ErrInvalidToken
	}
	if t.now().After(claims.ExpiresAt.Time) {
		return Principal{}, ErrTokenExpired
	}
	if claims.Role != RoleLibrarian && claims.Role != RoleBorrower {
		return Principal{}, ErrInvalidToken
	}
	return Principal{ID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}
