// Package services contains server-side business logic. This file implements
// UserService: credential checks, access token minting, account CRUD, and the
// password recovery flow.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/opsdeck/opsdeck/internal/common"
	"github.com/opsdeck/opsdeck/internal/dbx"
	"github.com/opsdeck/opsdeck/internal/server/auth"
	"github.com/opsdeck/opsdeck/internal/server/config"
	"github.com/opsdeck/opsdeck/internal/server/mailer"
	"github.com/opsdeck/opsdeck/internal/server/models"
	"github.com/opsdeck/opsdeck/internal/server/passhash"
	"github.com/opsdeck/opsdeck/internal/server/repositories/repomanager"
)

// CreateUserInput carries the fields an administrator sets when creating an
// account directly.
type CreateUserInput struct {
	Email       string
	Password    string
	FullName    string
	IsActive    bool
	IsSuperuser bool
}

// UpdateUserInput is a partial update. Nil fields are left unchanged.
type UpdateUserInput struct {
	Email       *string
	Password    *string
	FullName    *string
	IsActive    *bool
	IsSuperuser *bool
}

// UserService provides account and authentication operations:
//   - Authenticate / Login: verify credentials and mint bearer tokens
//   - SignUp: open registration
//   - Create / List / GetByID / Update / Delete: administration
//   - UpdateMe / ChangePassword / DeleteMe: self-service
//   - RecoverPassword / ResetPassword: the email reset flow
type UserService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	mailer         mailer.Mailer
	jwtSecret      []byte
	accessTokenTTL time.Duration
	resetTokenTTL  time.Duration
	serverHost     string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, ml mailer.Mailer, cfg *config.Config) *UserService {
	return &UserService{
		db:             db,
		repomanager:    m,
		mailer:         ml,
		jwtSecret:      []byte(cfg.SecretKey),
		accessTokenTTL: cfg.AccessTokenTTL,
		resetTokenTTL:  cfg.ResetTokenTTL,
		serverHost:     cfg.ServerHost,
	}
}

// Authenticate verifies an email/password pair. Unknown emails and wrong
// passwords both yield ErrInvalidCredentials; disabled accounts yield
// ErrInactiveUser after the password check so the two cases are not
// distinguishable without valid credentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}
	if !passhash.Verify(password, user.HashedPassword) {
		return nil, common.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, common.ErrInactiveUser
	}
	return user, nil
}

// Login verifies credentials and returns a bearer access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	token, err := auth.GenerateAccessToken(user.ID, s.jwtSecret, s.accessTokenTTL)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// GetByID loads a single user.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// SignUp registers a new active, non-privileged account.
func (s *UserService) SignUp(ctx context.Context, email, password, fullName string) (*models.User, error) {
	hashed, err := passhash.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}
	user := &models.User{
		Email:          email,
		FullName:       fullName,
		HashedPassword: hashed,
		IsActive:       true,
	}
	return s.repomanager.Users(s.db).Create(ctx, user)
}

// Create adds an account with administrator-chosen flags.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	hashed, err := passhash.Hash(in.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}
	user := &models.User{
		Email:          in.Email,
		FullName:       in.FullName,
		HashedPassword: hashed,
		IsActive:       in.IsActive,
		IsSuperuser:    in.IsSuperuser,
	}
	return s.repomanager.Users(s.db).Create(ctx, user)
}

// List returns a page of users plus the total account count.
func (s *UserService) List(ctx context.Context, skip, limit int64) ([]*models.User, int64, error) {
	repo := s.repomanager.Users(s.db)
	list, err := repo.List(ctx, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	count, err := repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return list, count, nil
}

// Update applies a partial update to the given account.
func (s *UserService) Update(ctx context.Context, id int64, in UpdateUserInput) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.IsSuperuser != nil {
		user.IsSuperuser = *in.IsSuperuser
	}
	if in.Password != nil {
		hashed, err := passhash.Hash(*in.Password)
		if err != nil {
			return nil, common.ErrorInternal
		}
		user.HashedPassword = hashed
	}

	return repo.Update(ctx, user)
}

// Delete removes an account and all its items in one transaction.
// Superusers cannot delete their own account this way.
func (s *UserService) Delete(ctx context.Context, actor *models.User, id int64) error {
	if actor.ID == id && actor.IsSuperuser {
		return common.ErrorForbidden
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Items(tx).DeleteByOwner(ctx, id); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, id)
	})
}

// UpdateMe lets an account change its own email and full name.
func (s *UserService) UpdateMe(ctx context.Context, userID int64, email, fullName *string) (*models.User, error) {
	return s.Update(ctx, userID, UpdateUserInput{Email: email, FullName: fullName})
}

// ChangePassword verifies the current password and stores a new one.
// Reusing the current password is rejected.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !passhash.Verify(currentPassword, user.HashedPassword) {
		return common.ErrInvalidCredentials
	}
	if currentPassword == newPassword {
		return common.ErrSamePassword
	}

	hashed, err := passhash.Hash(newPassword)
	if err != nil {
		return common.ErrorInternal
	}
	user.HashedPassword = hashed
	_, err = repo.Update(ctx, user)
	return err
}

// DeleteMe removes the calling account and its items. Superuser accounts
// must be deleted by another administrator.
func (s *UserService) DeleteMe(ctx context.Context, actor *models.User) error {
	if actor.IsSuperuser {
		return common.ErrorForbidden
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Items(tx).DeleteByOwner(ctx, actor.ID); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, actor.ID)
	})
}

// RecoverPassword mints a reset token for the account with the given email
// and hands the reset link to the mailer.
func (s *UserService) RecoverPassword(ctx context.Context, email string) error {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := auth.GeneratePasswordResetToken(user.Email, s.jwtSecret, s.resetTokenTTL)
	if err != nil {
		return common.ErrorInternal
	}

	link := mailer.ResetLink(s.serverHost, token)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		return fmt.Errorf("sending recovery email: %w", err)
	}
	return nil
}

// ResetPassword validates a reset token and stores the new password for the
// account the token was issued to.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, err := auth.VerifyPasswordResetToken(token, s.jwtSecret)
	if err != nil {
		return err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return common.ErrInactiveUser
	}

	hashed, err := passhash.Hash(newPassword)
	if err != nil {
		return common.ErrorInternal
	}
	user.HashedPassword = hashed
	_, err = repo.Update(ctx, user)
	return err
}

// EnsureFirstSuperuser creates the bootstrap superuser if no account with
// the configured email exists. Called once at startup.
func (s *UserService) EnsureFirstSuperuser(ctx context.Context, email, password string) error {
	_, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	_, err = s.Create(ctx, CreateUserInput{
		Email:       email,
		Password:    password,
		IsActive:    true,
		IsSuperuser: true,
	})
	return err
}
