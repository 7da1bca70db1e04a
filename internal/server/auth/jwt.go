// Package auth mints and verifies the two token kinds the server issues:
// bearer access tokens (subject: user id) and password-reset tokens
// (subject: email), both HS256.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/opsdeck/opsdeck/internal/common"
)

// GenerateAccessToken mints a bearer token for the given user.
func GenerateAccessToken(userID int64, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	return token.SignedString(secretKey)
}

// ParseAccessToken returns the user id carried by a valid bearer token.
// Expired tokens map to common.ErrTokenExpired, anything else invalid to
// common.ErrInvalidToken.
func ParseAccessToken(tokenString string, secretKey []byte) (int64, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, common.ErrInvalidToken
	}
	if !token.Valid {
		return 0, common.ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, common.ErrInvalidToken
	}
	return id, nil
}

const resetAudience = "password-reset"

// GeneratePasswordResetToken mints a short-lived token that authorizes a
// password reset for the given email. It is delivered to the user via the
// reset link's token query parameter.
func GeneratePasswordResetToken(email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   email,
		Audience:  jwt.ClaimStrings{resetAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	return token.SignedString(secretKey)
}

// VerifyPasswordResetToken returns the email a valid reset token was issued
// for. Access tokens are rejected: the audience claim keeps the two token
// kinds from being interchangeable.
func VerifyPasswordResetToken(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	}, jwt.WithAudience(resetAudience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Subject, nil
}
