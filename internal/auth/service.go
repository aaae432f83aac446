package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/lumenpress/albumforge-backend/pkg/auth"
	"github.com/lumenpress/albumforge-backend/pkg/config"
	"github.com/lumenpress/albumforge-backend/pkg/db/models"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
	"github.com/lumenpress/albumforge-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// LoginRequest carries the studio login form.
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse is returned on successful studio authentication.
type LoginResponse struct {
	AccessToken string
	User        UserSummary
}

// UserSummary is the public shape of a studio user.
type UserSummary struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
}

// Service defines the behavior needed by the studio auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type service struct {
	users  Repository
	jwtCfg config.JWTConfig
}

// ServiceParams bundles the dependencies required to build the auth service.
type ServiceParams struct {
	UserRepo  Repository
	JWTConfig config.JWTConfig
}

// NewService constructs a studio login service.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository required")
	}
	return &service{users: params.UserRepo, jwtCfg: params.JWTConfig}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record login")
	}

	token, err := pkgauth.MintStudioToken(s.jwtCfg, now, pkgauth.StudioTokenPayload{
		StudioUserID: user.ID,
		Email:        user.Email,
		JTI:          uuid.NewString(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{
		AccessToken: token,
		User: UserSummary{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
		},
	}, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.StudioUser, error) {
	input := strings.ToLower(strings.TrimSpace(email))
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.users.FindByEmail(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}
