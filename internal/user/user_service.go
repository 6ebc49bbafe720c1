package user

import (
	"context"
	"errors"
	"strings"

	"go-leave/internal/domain"
	usererrors "go-leave/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CapabilityChecker decides whether a role carries the admin capability.
type CapabilityChecker interface {
	IsAdmin(role string) bool
}

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	// ResolveActor turns an authenticated user id into the engine's Actor.
	ResolveActor(ctx context.Context, userID string) (domain.Actor, error)
	GetMe(ctx context.Context, userID string) (UserResponse, error)
	ListCountries(ctx context.Context) ([]string, error)
}

type service struct {
	repo         Repository
	capabilities CapabilityChecker
	logger       *zap.Logger
}

func NewService(repo Repository, capabilities CapabilityChecker, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, capabilities: capabilities, logger: l}
}

func (s *service) load(ctx context.Context, userID string) (*User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("resolve actor unknown user", zap.String("user_id", userID))
			return nil, usererrors.ErrUserNotFound
		}
		s.logger.Error("resolve actor lookup failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return u, nil
}

func (s *service) ResolveActor(ctx context.Context, userID string) (domain.Actor, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return domain.Actor{}, err
	}
	return toActor(*u, s.capabilities.IsAdmin(u.Role)), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (UserResponse, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}

	return UserResponse{
		ID:      u.ID.String(),
		Name:    u.Name,
		Email:   u.Email,
		Country: normalizeCountry(u.Country),
		Role:    u.Role,
		IsAdmin: s.capabilities.IsAdmin(u.Role),
	}, nil
}

func (s *service) ListCountries(ctx context.Context) ([]string, error) {
	countries, err := s.repo.ListCountries(ctx)
	if err != nil {
		s.logger.Error("list user countries failed", zap.Error(err))
		return nil, err
	}

	seen := make(map[string]struct{}, len(countries))
	out := make([]string, 0, len(countries))
	for _, c := range countries {
		code := strings.ToUpper(strings.TrimSpace(c))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out, nil
}

func toActor(u User, isAdmin bool) domain.Actor {
	return domain.Actor{
		ID:      u.ID,
		Name:    u.Name,
		Country: normalizeCountry(u.Country),
		IsAdmin: isAdmin,
	}
}

func normalizeCountry(c *string) *string {
	if c == nil {
		return nil
	}
	code := strings.ToUpper(strings.TrimSpace(*c))
	if code == "" {
		return nil
	}
	return &code
}
