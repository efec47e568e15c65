// Package auth implements the two pure building blocks of the session
// subsystem: password hashing/verification and signed token
// issuance/verification. Access and refresh tokens share the same shape but
// are signed with independent secrets, so neither secret alone can forge
// the other kind.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/videotube/internal/common"
)

// Claims carries the registered claims plus the subject account id.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string
}

// GenerateToken creates a compact HS256-signed token for accountID,
// valid for validityDuration from now. The jti claim makes every issued
// token unique even when two are minted within the same second.
func GenerateToken(accountID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		AccountID: accountID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetAccountIDFromToken verifies the token's signature and expiry under
// secretKey and returns the embedded account id. Expired tokens yield
// common.ErrTokenExpired; any other failure (malformed bytes, wrong secret,
// unexpected signing method) yields common.ErrInvalidToken. The function
// fails closed: no claim is ever extracted from a token that did not verify.
func GetAccountIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.AccountID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.AccountID, nil
}
