package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Pland4r/qcm-creator-hub/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuthService struct {
	db     *gorm.DB
	tokens *TokenService
	logger *slog.Logger
	cost   int
}

func NewAuthService(db *gorm.DB, tokens *TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		db:     db,
		tokens: tokens,
		logger: logger.With("component", "auth_service"),
		cost:   bcrypt.DefaultCost,
	}
}

// EnsureDefaultRoles seeds the role table with the built-in role names.
func (s *AuthService) EnsureDefaultRoles(ctx context.Context) error {
	for _, name := range models.DefaultRoles {
		role := models.Role{Name: name}
		err := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(&role).Error
		if err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
	}

	err = inTx(ctx, s.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUsernameTaken
		}
		if err := tx.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}

		var role models.Role
		if err := tx.Where("name = ?", models.RoleUser).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("default role %s: %w", models.RoleUser, ErrRoleNotFound)
			}
			return err
		}
		user.Roles = []models.Role{role}

		return tx.Create(&user).Error
	})
	if isUniqueViolation(err) {
		// Lost a race with a concurrent registration.
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return &user, nil
}

// Login checks the credentials and issues a token. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Roles").Where("username = ?", req.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(&user)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:    token,
		Type:     "Bearer",
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    user.RoleNames(),
	}, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*UserResponse, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Roles").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    user.RoleNames(),
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info("user logged out", "user_id", claims.UserID)
	return nil
}
