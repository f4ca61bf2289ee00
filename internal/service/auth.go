package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = time.Hour

// Domain errors for auth flows.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService checks credentials against the static user table. Plaintext
// passwords from the config are hashed at construction and discarded; every
// later comparison goes through bcrypt.
type AuthService struct {
	hashes     map[string][]byte
	signingKey []byte
	tokenTTL   time.Duration
}

func NewAuthService(users map[string]string, signingKey string, tokenTTL time.Duration) (*AuthService, error) {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	hashes := make(map[string][]byte, len(users))
	for username, password := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", username, err)
		}
		hashes[username] = hash
	}
	return &AuthService{
		hashes:     hashes,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
	}, nil
}

// Login validates a username/password pair. The table is never mutated and
// there is no lockout: a failure leaves everything unchanged.
func (s *AuthService) Login(username, password string) error {
	hash, ok := s.hashes[username]
	if !ok {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Claims carries the authenticated username in the token.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// GenerateToken validates credentials and returns a signed bearer token for
// the HTTP facade.
func (s *AuthService) GenerateToken(username, password string) (string, error) {
	if err := s.Login(username, password); err != nil {
		return "", err
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: username,
	})
	return token.SignedString(s.signingKey)
}

// ParseToken verifies a bearer token and returns the username it carries.
func (s *AuthService) ParseToken(accessToken string) (string, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	return claims.Username, nil
}
