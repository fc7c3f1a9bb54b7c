package auth

import (
	"errors"

	"gorm.io/gorm"

	"github.com/hasibdev/blog-api/internal/apperror"
	"github.com/hasibdev/blog-api/internal/models"
	"github.com/hasibdev/blog-api/internal/utils"
)

// Service orchestrates the session lifecycle over the user table. The user
// row's refresh_token column is the whole revocation story: login overwrites
// it, logout clears it, refresh rejects any token that no longer matches it.
type Service struct {
	db     *gorm.DB
	tokens *TokenService
}

func NewService(db *gorm.DB, tokens *TokenService) *Service {
	return &Service{db: db, tokens: tokens}
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

const minPasswordLength = 6

// Register validates the input, rejects duplicate names or emails, and in one
// transaction creates the user with its refresh token already stored, so the
// issued pair is never observable without the persisted slot.
func (s *Service) Register(name, email, password, passwordConfirmation string) (*models.User, TokenPair, error) {
	if name == "" || email == "" || password == "" || passwordConfirmation == "" {
		return nil, TokenPair{}, apperror.Validation("All fields are required",
			"Name, email, password, and password confirmation are required")
	}
	if len(password) < minPasswordLength {
		return nil, TokenPair{}, apperror.Validation("Password must be at least 6 characters")
	}
	if password != passwordConfirmation {
		return nil, TokenPair{}, apperror.Validation("Passwords do not match")
	}

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("email = ? OR name = ?", email, name).
		Count(&count).Error; err != nil {
		return nil, TokenPair{}, apperror.Internal("Internal server error.")
	}
	if count > 0 {
		return nil, TokenPair{}, apperror.Validation("User already exists")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, TokenPair{}, apperror.Internal("Internal server error.")
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
	}

	var pair TokenPair
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if pair, err = s.issuePair(user.ID); err != nil {
			return err
		}
		user.RefreshToken = pair.RefreshToken
		return tx.Model(user).Update("refresh_token", pair.RefreshToken).Error
	})
	if err != nil {
		return nil, TokenPair{}, apperror.Internal("Internal server error.")
	}

	return user, pair, nil
}

// Login never reveals whether the email or the password was wrong. A fresh
// pair overwrites the stored refresh token, silently invalidating any other
// live session for this user — single-session-per-user is intended behavior.
func (s *Service) Login(email, password string) (*models.User, TokenPair, error) {
	if email == "" || password == "" {
		return nil, TokenPair{}, apperror.Validation("All fields are required",
			"Email and password are required")
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, TokenPair{}, apperror.Validation("Invalid email or password")
		}
		return nil, TokenPair{}, apperror.Internal("Internal server error.")
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, TokenPair{}, apperror.Validation("Invalid email or password")
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, TokenPair{}, apperror.Internal("Internal server error.")
	}
	if err := s.db.Model(&user).Update("refresh_token", pair.RefreshToken).Error; err != nil {
		return nil, TokenPair{}, apperror.Internal("Internal server error.")
	}
	user.RefreshToken = pair.RefreshToken

	return &user, pair, nil
}

// Refresh exchanges a live refresh token for a new access token. The stored
// slot must match the incoming token by exact value: a token rotated out by a
// later login, or cleared by logout, is rejected even before it expires. The
// refresh token itself is not rotated here.
func (s *Service) Refresh(incomingRefreshToken string) (string, error) {
	if incomingRefreshToken == "" {
		return "", apperror.Unauthorized("Unauthorized")
	}

	userID, err := s.tokens.VerifyRefreshToken(incomingRefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired):
			return "", apperror.Unauthorized("Token has expired.")
		case errors.Is(err, ErrTokenInvalid):
			return "", apperror.Unauthorized("Invalid token.")
		default:
			return "", apperror.Internal("Internal server error.")
		}
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperror.NotFound("User")
		}
		return "", apperror.Internal("Internal server error.")
	}

	if user.RefreshToken != incomingRefreshToken {
		return "", apperror.Unauthorized("Unauthorized")
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return "", apperror.Internal("Internal server error.")
	}
	return accessToken, nil
}

// Logout clears the stored refresh token. A user with an empty slot is
// already logged out and gets 401 rather than a silent success.
func (s *Service) Logout(userID string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("User")
		}
		return apperror.Internal("Internal server error.")
	}

	if user.RefreshToken == "" {
		return apperror.Unauthorized("Unauthorized, no refresh token found")
	}

	if err := s.db.Model(&user).Update("refresh_token", "").Error; err != nil {
		return apperror.Internal("Internal server error.")
	}
	return nil
}

// CurrentUser loads the caller's record for the /auth/me projection.
func (s *Service) CurrentUser(userID string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User")
		}
		return nil, apperror.Internal("Internal server error.")
	}
	return &user, nil
}

func (s *Service) issuePair(userID string) (TokenPair, error) {
	accessToken, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
