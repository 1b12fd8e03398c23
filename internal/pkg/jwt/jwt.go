package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies bearer tokens on the API surface. Token issuance
// belongs to the identity collaborator; only a service-token generator
// is kept for operational tooling and tests.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateServiceToken(subject string, ttl time.Duration) (string, error)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateServiceToken(subject string, ttl time.Duration) (string, error) {
	claims := map[string]interface{}{
		"sub":  subject,
		"type": "access",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(ttl).Unix(),
	}
	_, token, err := j.tokenAuth.Encode(claims)
	return token, err
}
