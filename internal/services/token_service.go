package services

import (
	"crypto/rsa"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/saiyam0211/smart-urban-backend/internal/middleware"
	"github.com/saiyam0211/smart-urban-backend/internal/models"
)

// TokenService mints the signed session credential returned after a
// successful OTP verification.
type TokenService interface {
	GenerateAccessToken(identityID uuid.UUID, role models.RoleType, expiry time.Duration) (string, error)
}

type tokenService struct {
	privateKey *rsa.PrivateKey
}

func NewTokenService(privateKey *rsa.PrivateKey) TokenService {
	return &tokenService{privateKey: privateKey}
}

func (t *tokenService) GenerateAccessToken(
	identityID uuid.UUID,
	role models.RoleType,
	expiry time.Duration,
) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  middleware.TokenIssuer,
		"sub":  identityID.String(),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(expiry).Unix(),
		"jti":  uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(t.privateKey)
}
