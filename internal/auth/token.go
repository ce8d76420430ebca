package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/treadbook/treadbook/internal/users"
)

// ErrInvalidToken indicates the token failed signature or claims validation.
var ErrInvalidToken = errors.New("invalid token")

// Claims extends the registered JWT claims with the user's row index and
// login id.
type Claims struct {
	jwt.RegisteredClaims
	UserIdx int64  `json:"uidx"`
	LoginID string `json:"login"`
}

// IssueToken signs an HS256 access token for the given user.
func IssueToken(user users.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserIdx: user.Idx,
		LoginID: user.ID,
	})

	return token.SignedString(secret)
}

// ParseToken verifies the token signature and expiry and returns its claims.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.LoginID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
