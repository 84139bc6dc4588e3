package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims identify an admin API caller.
type Claims struct {
	UID  string `json:"uid"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func NewJWTer(secret, issuer string, ttl time.Duration) (*JWTer, error) {
	if len(secret) < 16 {
		return nil, errors.New("jwt secret must be at least 16 bytes")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTer{Secret: []byte(secret), Issuer: issuer, TTL: ttl}, nil
}

func (j *JWTer) Issue(uid, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:  uid,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   uid,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Secret)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.UID == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}
