package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identifies the candidate a bearer token was issued to. Auth
// mechanics are out of scope for the interview core (spec §1); this is a
// thin pass-through adapted from the teacher's user-session claims to the
// domain's string UUID candidate ids.
type Claims struct {
	CandidateID string `json:"candidateId"`
	jwt.RegisteredClaims
}

func GenerateJWT(secret string, candidateID string, duration time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		CandidateID: candidateID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
