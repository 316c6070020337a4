package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shashiranjanraj/eatn/config"
)

// RememberCookie is the name of the long-lived login cookie.
const RememberCookie = "eatn_remember"

const rememberIssuer = "eatn"

// ErrInvalidToken matches every remember-token verification failure.
var ErrInvalidToken = errors.New("auth: invalid remember token")

// RememberClaims is the payload of a remember-me token.
type RememberClaims struct {
	Username    string `json:"username"`
	AccountType string `json:"account_type"`
	jwt.RegisteredClaims
}

// ErrNoAppKey means remember-me is off because APP_KEY is not configured.
var ErrNoAppKey = errors.New("auth: remember me needs APP_KEY")

func secret() ([]byte, error) {
	if !config.AppKeyConfigured() {
		return nil, ErrNoAppKey
	}
	return []byte(config.AppKey()), nil
}

// IssueRememberToken signs id for ttl.
func IssueRememberToken(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := RememberClaims{
		Username:    id.Username,
		AccountType: id.AccountType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id.UserID), 10),
			Issuer:    rememberIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	key, err := secret()
	if err != nil {
		return "", err
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ParseRememberToken verifies a token and returns the identity it names.
func ParseRememberToken(raw string) (Identity, error) {
	key, err := secret()
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	token, err := jwt.ParseWithClaims(raw, &RememberClaims{}, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(rememberIssuer))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*RememberClaims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, jwt.ErrTokenInvalidClaims)
	}
	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uid == 0 {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, jwt.ErrTokenInvalidClaims)
	}
	return Identity{UserID: uint(uid), Username: claims.Username, AccountType: claims.AccountType}, nil
}
