package userservice

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sushihentaime/bloglist/internal/common"
)

// Claims is the payload of a bearer token: the user's id and username.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"id"`
	Username string `json:"username"`
}

func newToken(u *User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   u.ID,
		Username: u.Username,
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// parseToken verifies the signature and expiry of tokenString. Every failure
// is reported as common.ErrInvalidToken.
func parseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.Username == "" {
		return nil, common.ErrInvalidToken
	}

	if _, err := common.ParseID(claims.UserID); err != nil {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
