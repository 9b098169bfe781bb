package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/pkg/auth"
	"storefront/pkg/auth/session"
	"storefront/pkg/config"
	pkgerrors "storefront/pkg/errors"
	"storefront/pkg/mongodb/documents"
	"storefront/pkg/security"
)

var (
	ErrUserNotFound       = pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	ErrEmailTaken         = pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	ErrInvalidCredentials = pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
)

// Repository is the identity storage surface.
type Repository interface {
	Insert(ctx context.Context, user *documents.User) error
	FindByEmail(ctx context.Context, email string) (*documents.User, error)
	FindByID(ctx context.Context, id string) (*documents.User, error)
}

// SessionManager is the refresh-session surface the service depends on.
type SessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// RegisterInput holds the validated signup payload.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

// UserDTO is the API shape of a user. IsAdmin is derived from the
// configured allow-list, not stored on the record.
type UserDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsAdmin   bool   `json:"is_admin"`
}

// AuthResult bundles the tokens issued on register/login/refresh.
type AuthResult struct {
	User         UserDTO `json:"user"`
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
}

// Service exposes registration, login, token refresh, and principal
// lookup.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, accessID string) error
	Me(ctx context.Context, userID string) (*UserDTO, error)
	IsAdmin(email string) bool
}

type service struct {
	repo        Repository
	sessions    SessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	adminSet    map[string]struct{}
	now         func() time.Time
}

// NewService constructs an identity service instance.
func NewService(repo Repository, sessions SessionManager, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig, adminCfg config.AdminConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("identity repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{
		repo:        repo,
		sessions:    sessions,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		adminSet:    adminCfg.EmailSet(),
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// IsAdmin reports allow-list membership for the normalized email.
func (s *service) IsAdmin(email string) bool {
	_, ok := s.adminSet[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, storeFailure(err, "check email")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	now := s.now()
	user := &documents.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        input.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, storeFailure(err, "insert user")
	}

	return s.issueTokens(ctx, user)
}

func (s *service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeFailure(err, "load user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates the refresh session bound to the expired access
// token's jti and issues a fresh token pair.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*AuthResult, error) {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "parse access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	user, err := s.repo.FindByID(ctx, claims.UserID.String())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeFailure(err, "load user")
	}

	access, err := s.mintAccess(user, newAccessID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		User:         s.toDTO(user),
		AccessToken:  access,
		RefreshToken: newRefresh,
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) Me(ctx context.Context, userID string) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, storeFailure(err, "load user")
	}
	dto := s.toDTO(user)
	return &dto, nil
}

func (s *service) issueTokens(ctx context.Context, user *documents.User) (*AuthResult, error) {
	accessID := session.NewAccessID()

	access, err := s.mintAccess(user, accessID)
	if err != nil {
		return nil, err
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	return &AuthResult{
		User:         s.toDTO(user),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *service) mintAccess(user *documents.User, accessID string) (string, error) {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse user id")
	}
	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID: userID,
		Email:  user.Email,
		JTI:    accessID,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return token, nil
}

func (s *service) toDTO(user *documents.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsAdmin:   s.IsAdmin(user.Email),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func storeFailure(err error, action string) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "identity store: "+action)
}
