// Package auth issues and rotates the token pair: a short-lived HS256 access
// token carried as a bearer header, and a long-lived refresh token stored
// server-side so it can be rotated and revoked.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/hnclone/backend/internal/models"
	"github.com/hnclone/backend/internal/services"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

type Pair struct {
	AccessToken  string
	RefreshToken string
}

type TokenService struct {
	db     *gorm.DB
	secret []byte
}

func NewTokenService(db *gorm.DB, secret []byte) *TokenService {
	return &TokenService{db: db, secret: secret}
}

// GeneratePair issues a fresh access/refresh pair and persists the refresh
// token with its expiry.
func (s *TokenService) GeneratePair(user *models.User) (*Pair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      now.Add(AccessTokenTTL).Unix(),
	})
	accessToken, err := access.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     now.Add(RefreshTokenTTL).Unix(),
	})
	refreshToken, err := refresh.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	record := models.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: now.Add(RefreshTokenTTL),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, err
	}

	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh rotates a pair: the old refresh token must exist and be unexpired,
// and is deleted before the new pair is issued so it cannot be replayed.
func (s *TokenService) Refresh(oldToken string) (*Pair, *models.User, error) {
	var record models.RefreshToken
	if err := s.db.Where("token = ?", oldToken).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, &services.AuthError{Message: "Refresh token not found"}
		}
		return nil, nil, err
	}

	if record.ExpiresAt.Before(time.Now()) {
		s.db.Delete(&record)
		return nil, nil, &services.AuthError{Message: "Refresh token expired"}
	}

	var user models.User
	if err := s.db.First(&user, record.UserID).Error; err != nil {
		return nil, nil, &services.AuthError{Message: "Refresh token not found"}
	}

	if err := s.db.Delete(&record).Error; err != nil {
		return nil, nil, err
	}

	pair, err := s.GeneratePair(&user)
	if err != nil {
		return nil, nil, err
	}
	return pair, &user, nil
}

// Revoke deletes a refresh token. Revoking an unknown token is a no-op,
// matching what logout needs.
func (s *TokenService) Revoke(token string) error {
	return s.db.Where("token = ?", token).Delete(&models.RefreshToken{}).Error
}
