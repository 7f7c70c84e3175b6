package auth

import (
	"time"

	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/model"
	authutil "github.com/learnsphere/academy-api/utils/auth"
	"github.com/learnsphere/academy-api/utils/middleware"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	store                database.Storage
	jwtManager           *authutil.JWTManager
	bruteForceProtection *middleware.BruteForceProtection

	// Google sign-in. When verifyGoogleToken is false (placeholder or
	// missing client id) the handler runs the demo account-picker flow and
	// trusts the caller-supplied profile.
	googleClientID    string
	verifyGoogleToken bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(store database.Storage, jwtManager *authutil.JWTManager, bruteForceProtection *middleware.BruteForceProtection, googleClientID string, verifyGoogleToken bool) *AuthHandler {
	return &AuthHandler{
		store:                store,
		jwtManager:           jwtManager,
		bruteForceProtection: bruteForceProtection,
		googleClientID:       googleClientID,
		verifyGoogleToken:    verifyGoogleToken,
	}
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	MiddleName string    `json:"middle_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TokenResponse carries a fresh session token pair
type TokenResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		MiddleName: user.MiddleName,
		LastName:   user.LastName,
		Phone:      user.Phone,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

// issueTokens builds the standard token response for a signed-in user.
func (h *AuthHandler) issueTokens(user *model.User) (*TokenResponse, error) {
	accessToken, _, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email, user.TokenVersion)
	if err != nil {
		return nil, err
	}

	refreshToken, _, err := h.jwtManager.GenerateRefreshToken(user.ID, user.Email, user.TokenVersion)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		User:         toUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    24 * 60 * 60, // 24 hours in seconds
	}, nil
}
