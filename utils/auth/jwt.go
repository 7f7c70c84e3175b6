package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	Expiry        time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// Claims represents JWT claims
type Claims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenType    string `json:"token_type"`    // "access" or "refresh"
	TokenVersion int    `json:"token_version"` // For invalidating all tokens
	jwt.RegisteredClaims
}

// JWTManager handles JWT token operations
type JWTManager struct {
	config JWTConfig
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(config JWTConfig) *JWTManager {
	return &JWTManager{
		config: config,
	}
}

func (j *JWTManager) generate(userID uint, email, tokenType string, tokenVersion int, ttl time.Duration) (string, string, error) {
	now := time.Now()
	jti := uuid.New().String()

	claims := Claims{
		UserID:       userID,
		Email:        email,
		TokenType:    tokenType,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.config.Issuer,
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(j.config.Secret))
	return signedToken, jti, err
}

// GenerateAccessToken generates a new access token, returning the token and
// its JTI.
func (j *JWTManager) GenerateAccessToken(userID uint, email string, tokenVersion int) (string, string, error) {
	return j.generate(userID, email, "access", tokenVersion, j.config.Expiry)
}

// GenerateRefreshToken generates a new refresh token, returning the token
// and its JTI.
func (j *JWTManager) GenerateRefreshToken(userID uint, email string, tokenVersion int) (string, string, error) {
	return j.generate(userID, email, "refresh", tokenVersion, j.config.RefreshExpiry)
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(j.config.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}

// RefreshAccessToken generates a new access token from a valid refresh token
func (j *JWTManager) RefreshAccessToken(refreshToken string, tokenVersion int) (string, string, error) {
	claims, err := j.ValidateToken(refreshToken)
	if err != nil {
		return "", "", err
	}

	if claims.TokenType != "refresh" {
		return "", "", ErrInvalidToken
	}

	return j.GenerateAccessToken(claims.UserID, claims.Email, tokenVersion)
}
