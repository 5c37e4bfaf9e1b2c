package devapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "salon-devapi"

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type tokenIssuerKey struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (k tokenIssuerKey) issue(u *user) (string, error) {
	now := k.now()
	c := claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(k.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(k.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (k tokenIssuerKey) parse(raw string) (*claims, error) {
	c := &claims{}
	tok, err := jwt.ParseWithClaims(raw, c, func(t *jwt.Token) (any, error) {
		return k.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(k.now),
	)
	if err != nil {
		return nil, err
	}
	if !tok.Valid || c.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return c, nil
}
