// Package services contains server-side business logic. This file implements
// UserService, which handles registration, email verification, login, password
// resets, and issuing/refreshing JWTs plus server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/dmitrijs2005/contacthub/internal/common"
	"github.com/dmitrijs2005/contacthub/internal/dbx"
	"github.com/dmitrijs2005/contacthub/internal/logging"
	"github.com/dmitrijs2005/contacthub/internal/server/auth"
	"github.com/dmitrijs2005/contacthub/internal/server/avatars"
	"github.com/dmitrijs2005/contacthub/internal/server/config"
	"github.com/dmitrijs2005/contacthub/internal/server/email"
	"github.com/dmitrijs2005/contacthub/internal/server/models"
	"github.com/dmitrijs2005/contacthub/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication-related operations:
// - Register: create users and send them a verification email
// - VerifyEmail: activate accounts from the emailed token
// - Login: verify credentials and mint tokens
// - RefreshToken: rotate refresh tokens and mint new access tokens
// - RequestPasswordReset / ResetPassword: the email-driven reset flow
type UserService struct {
	db                                *sql.DB
	repomanager                       repomanager.RepositoryManager
	mailer                            email.Mailer
	avatarStorage                     avatars.Storage
	logger                            logging.Logger
	jwtSecret                         []byte
	publicBaseURL                     string
	accessTokenValidityDuration       time.Duration
	refreshTokenValidityDuration      time.Duration
	verificationTokenValidityDuration time.Duration
	resetTokenValidityDuration        time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, mailer email.Mailer,
	avatarStorage avatars.Storage, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                                db,
		repomanager:                       m,
		mailer:                            mailer,
		avatarStorage:                     avatarStorage,
		logger:                            logger,
		jwtSecret:                         []byte(cfg.SecretKey),
		publicBaseURL:                     cfg.PublicBaseURL,
		accessTokenValidityDuration:       cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration:      cfg.RefreshTokenValidityDuration,
		verificationTokenValidityDuration: cfg.VerificationTokenValidityDuration,
		resetTokenValidityDuration:        cfg.ResetTokenValidityDuration,
	}
}

// Register creates a new inactive user and sends a verification email in the
// background. A duplicate email yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, emailAddr, password string) (*models.User, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{Email: emailAddr, HashedPassword: hashed}, models.RoleUser)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %v", err)
	}

	s.sendVerificationEmail(user)
	return user, nil
}

// ResendVerificationEmail sends a fresh verification link to an existing
// account. Already active accounts get nothing.
func (s *UserService) ResendVerificationEmail(ctx context.Context, emailAddr string) error {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Do not reveal whether the address is registered.
			return nil
		}
		return common.ErrorInternal
	}
	if user.IsActive {
		return nil
	}
	s.sendVerificationEmail(user)
	return nil
}

// VerifyEmail activates the account referenced by a verification token.
// A valid token whose account has since been deleted yields ErrorNotFound.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := auth.GetUserIDFromToken(token, auth.PurposeVerifyEmail, s.jwtSecret)
	if err != nil {
		return err
	}
	repo := s.repomanager.Users(s.db)
	if err := repo.Activate(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}

// Login verifies the provided credentials and, on success, returns a new
// TokenPair. Accounts that never verified their email get ErrUserNotActive.
func (s *UserService) Login(ctx context.Context, emailAddr, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !auth.VerifyPassword(user.HashedPassword, password) {
		return nil, common.ErrorUnauthorized
	}
	if !user.IsActive {
		return nil, common.ErrUserNotActive
	}
	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %v", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %v", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// RequestPasswordReset emails a reset link when the address is registered.
// It succeeds either way so callers cannot probe for accounts.
func (s *UserService) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID, auth.PurposePasswordReset, s.jwtSecret, s.resetTokenValidityDuration)
	if err != nil {
		return common.ErrorInternal
	}
	link := fmt.Sprintf("%s/auth/reset-password?token=%s", s.publicBaseURL, url.QueryEscape(token))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
			s.logger.Error(ctx, "error sending password reset email", "email", user.Email, "error", err)
		}
	}()
	return nil
}

// ResetPassword sets a new password from the emailed reset token and revokes
// every refresh token the user holds.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := auth.GetUserIDFromToken(token, auth.PurposePasswordReset, s.jwtSecret)
	if err != nil {
		return err
	}
	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, userID, hashed); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return common.ErrorInternal
		}
		if err := s.repomanager.RefreshTokens(tx).DeleteForUser(ctx, userID); err != nil {
			return common.ErrorInternal
		}
		return nil
	})
}

// Authenticate resolves an access token to the account it was issued to.
// Tokens minted for other purposes (verification, reset) are rejected.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(accessToken, auth.PurposeAccess, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// GetUser returns the user with the given id, role included.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// UpdateAvatar uploads the image to object storage and stores its public URL
// on the user. Returns the updated user.
func (s *UserService) UpdateAvatar(ctx context.Context, userID, contentType string, body io.Reader) (*models.User, error) {
	url, err := s.avatarStorage.Upload(ctx, userID, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("error uploading avatar: %v", err)
	}
	repo := s.repomanager.Users(s.db)
	if err := repo.UpdateAvatar(ctx, userID, url); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, userID)
}

// --- helpers below ---

func (s *UserService) sendVerificationEmail(user *models.User) {
	token, err := auth.GenerateToken(user.ID, auth.PurposeVerifyEmail, s.jwtSecret, s.verificationTokenValidityDuration)
	if err != nil {
		s.logger.Error(context.Background(), "error generating verification token", "user_id", user.ID, "error", err)
		return
	}
	link := fmt.Sprintf("%s/auth/verify-email?token=%s", s.publicBaseURL, url.QueryEscape(token))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.SendVerification(ctx, user.Email, link); err != nil {
			s.logger.Error(ctx, "error sending verification email", "email", user.Email, "error", err)
		}
	}()
}

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, auth.PurposeAccess, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
