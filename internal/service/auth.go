package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Skotchmaster/wine_catalog/internal/events"
	"github.com/Skotchmaster/wine_catalog/internal/models"
	"github.com/Skotchmaster/wine_catalog/internal/repo"
	"github.com/Skotchmaster/wine_catalog/internal/transport"
	"github.com/Skotchmaster/wine_catalog/internal/validation"
	"github.com/Skotchmaster/wine_catalog/pkg/logging"
	"github.com/Skotchmaster/wine_catalog/pkg/tokens"
)

const (
	msgDuplicateEmail     = "user already exists with this email"
	msgInvalidCredentials = "invalid email or password"
	msgUserNotFound       = "user not found"

	// fallbackDigest is a valid cost-10 bcrypt digest of a random string.
	fallbackDigest = "$2b$10$P6zLLxpIu5KGAcpLVetKy.MD4/U5vxCxNHcad.3R9y/d1jkiGsWBu"
)

// AuthService never hands a password or its digest back to a caller.
type AuthService struct {
	users  repo.Store[models.User]
	hasher PasswordHasher
	issuer TokenIssuer
	events events.Publisher

	dummyOnce   sync.Once
	dummyDigest string
}

func NewAuthService(users repo.Store[models.User], hasher PasswordHasher, issuer TokenIssuer, pub events.Publisher) *AuthService {
	if pub == nil {
		pub = events.Noop{}
	}
	return &AuthService{users: users, hasher: hasher, issuer: issuer, events: pub}
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*transport.AuthResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Check(req).Err(); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid input", "error", err)
		return nil, err
	}

	if _, err := s.users.FindOne(ctx, map[string]any{"email": req.Email}); err == nil {
		l.Warn("register_failed", "status", 400, "reason", "email taken")
		return nil, NewError(ErrDuplicateEmail, msgDuplicateEmail)
	} else if !errors.Is(err, repo.ErrNotFound) {
		l.Error("register_failed", "status", 500, "reason", "cannot look up user", "error", err)
		return nil, err
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: digest,
		Name:         req.Name,
		Role:         models.RoleUser,
	}
	if err := s.users.Insert(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_failed", "status", 400, "reason", "email taken on insert")
			return nil, NewError(ErrDuplicateEmail, msgDuplicateEmail)
		}
		l.Error("register_failed", "status", 500, "reason", "cannot insert user", "error", err)
		return nil, err
	}

	res, err := s.authResponse(&user)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, err
	}

	publish(ctx, s.events, events.Event{Type: events.UserRegistered, EntityID: user.ID.String(), Name: user.Name})
	l.Info("register_success", "user_id", user.ID)
	return res, nil
}

// Login answers an unknown email and a wrong password identically.
func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*transport.AuthResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Check(req).Err(); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid input", "error", err)
		return nil, err
	}

	user, err := s.users.FindOne(ctx, map[string]any{"email": req.Email})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.hasher.Verify(req.Password, s.dummy())
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
			return nil, NewError(ErrInvalidCredentials, msgInvalidCredentials)
		}
		l.Error("login_failed", "status", 500, "reason", "cannot look up user", "error", err)
		return nil, err
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
		return nil, NewError(ErrInvalidCredentials, msgInvalidCredentials)
	}

	res, err := s.authResponse(user)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, err
	}

	l.Info("login_success", "user_id", user.ID)
	return res, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (models.PublicUser, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.PublicUser{}, NewError(ErrNotFound, msgUserNotFound)
		}
		return models.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *AuthService) authResponse(user *models.User) (*transport.AuthResponse, error) {
	token, _, err := s.issuer.Issue(tokens.Identity{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	})
	if err != nil {
		return nil, err
	}
	return &transport.AuthResponse{User: user.Public(), Token: token}, nil
}

// dummy is a digest to verify against when the email is unknown, so both
// failure paths pay for one hash comparison. It falls back to a fixed digest
// when the hasher fails.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		d, err := s.hasher.Hash(uuid.NewString())
		if err != nil || d == "" {
			d = fallbackDigest
		}
		s.dummyDigest = d
	})
	return s.dummyDigest
}
