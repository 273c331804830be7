package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWT verifies admin bearer tokens. The server only needs the public key;
// tokens are minted offline with the private key (cmd/tenner-token).
type JWT struct {
	publicKey     *rsa.PublicKey
	signingMethod jwt.SigningMethod
}

// AdminClaims identify an operator allowed to run batch generation.
type AdminClaims struct {
	Subject string `json:"sub_name,omitempty"`
	jwt.RegisteredClaims
}

func loadPublicKey() (*rsa.PublicKey, error) {
	publicKeyStr, ok := os.LookupEnv("JWT_PUBLIC_KEY")
	if ok {
		return jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyStr))
	}
	publicKeyPath, ok := os.LookupEnv("JWT_PUBLIC_KEY_FILE")
	if !ok {
		return nil, fmt.Errorf("no JWT_PUBLIC_KEY or JWT_PUBLIC_KEY_FILE env variable set")
	}
	publicKeyBytes, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read JWT public key: %w", err)
	}
	return jwt.ParseRSAPublicKeyFromPEM(publicKeyBytes)
}

func NewJWT() (*JWT, error) {
	publicKey, err := loadPublicKey()
	if err != nil {
		return nil, err
	}
	return &JWT{
		publicKey:     publicKey,
		signingMethod: jwt.GetSigningMethod("RS256"),
	}, nil
}

func (j *JWT) ParseAdminClaims(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.publicKey, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// SignAdminToken is used by the token tool, not the server.
func SignAdminToken(privateKey *rsa.PrivateKey, subject string, lifetime time.Duration) (string, error) {
	claims := &AdminClaims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.GetSigningMethod("RS256"), claims).
		SignedString(privateKey)
}
