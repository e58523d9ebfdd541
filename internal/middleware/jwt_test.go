package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return priv
}

func signToken(t *testing.T, priv *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(priv)
	require.NoError(t, err)
	return signed
}

func baseClaims(sub string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":  TokenIssuer,
		"sub":  sub,
		"role": "volunteer",
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
		"jti":  uuid.NewString(),
	}
}

func TestValidateTokenRoundTrip(t *testing.T) {
	priv := testKey(t)
	sub := uuid.NewString()

	claims, err := ValidateToken(signToken(t, priv, baseClaims(sub)), &priv.PublicKey)
	require.NoError(t, err)
	require.Equal(t, sub, claims.IdentityID)
	require.Equal(t, "volunteer", claims.Role)
}

func TestValidateTokenExpired(t *testing.T) {
	priv := testKey(t)
	claims := baseClaims(uuid.NewString())
	claims["exp"] = time.Now().Add(-time.Minute).Unix()

	_, err := ValidateToken(signToken(t, priv, claims), &priv.PublicKey)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	priv := testKey(t)
	claims := baseClaims(uuid.NewString())
	claims["iss"] = "someone-else"

	_, err := ValidateToken(signToken(t, priv, claims), &priv.PublicKey)
	require.Error(t, err)
}

func TestValidateTokenWrongKey(t *testing.T) {
	priv := testKey(t)
	other := testKey(t)

	_, err := ValidateToken(signToken(t, priv, baseClaims(uuid.NewString())), &other.PublicKey)
	require.Error(t, err)
}

func TestValidateTokenMissingRole(t *testing.T) {
	priv := testKey(t)
	claims := baseClaims(uuid.NewString())
	delete(claims, "role")

	_, err := ValidateToken(signToken(t, priv, claims), &priv.PublicKey)
	require.Error(t, err)
}
