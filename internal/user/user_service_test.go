package user

import (
	"context"
	"errors"
	"testing"

	usererrors "go-leave/internal/user/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	findByIDFn      func(ctx context.Context, id string) (*User, error)
	listCountriesFn func(ctx context.Context) ([]string, error)
}

func (f *fakeUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) ListCountries(ctx context.Context) ([]string, error) {
	if f.listCountriesFn != nil {
		return f.listCountriesFn(ctx)
	}
	return nil, nil
}

type roleChecker struct{}

func (roleChecker) IsAdmin(role string) bool { return role == "admin" }

func strPtr(s string) *string { return &s }

func TestService_ResolveActor(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("admin with country", func(t *testing.T) {
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, got string) (*User, error) {
				assert.Equal(t, id.String(), got)
				return &User{ID: id, Name: "Ana", Country: strPtr(" pt "), Role: "admin"}, nil
			},
		}
		svc := NewService(repo, roleChecker{})

		actor, err := svc.ResolveActor(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id, actor.ID)
		assert.True(t, actor.IsAdmin)
		assert.Equal(t, "PT", actor.CountryCode())
	})

	t.Run("member without country", func(t *testing.T) {
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, got string) (*User, error) {
				return &User{ID: id, Name: "Rui", Country: strPtr(""), Role: "member"}, nil
			},
		}
		svc := NewService(repo, roleChecker{})

		actor, err := svc.ResolveActor(ctx, id.String())

		assert.NoError(t, err)
		assert.False(t, actor.IsAdmin)
		assert.Nil(t, actor.Country)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		svc := NewService(&fakeUserRepository{}, roleChecker{})

		_, err := svc.ResolveActor(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})

	t.Run("negative unknown user", func(t *testing.T) {
		svc := NewService(&fakeUserRepository{}, roleChecker{})

		_, err := svc.ResolveActor(ctx, id.String())

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})

	t.Run("negative repo failure is passed through", func(t *testing.T) {
		boom := errors.New("db down")
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, got string) (*User, error) { return nil, boom },
		}
		svc := NewService(repo, roleChecker{})

		_, err := svc.ResolveActor(ctx, id.String())

		assert.ErrorIs(t, err, boom)
	})
}

func TestService_ListCountries(t *testing.T) {
	repo := &fakeUserRepository{
		listCountriesFn: func(ctx context.Context) ([]string, error) {
			return []string{"PT", "pt", " ", "ES"}, nil
		},
	}
	svc := NewService(repo, roleChecker{})

	got, err := svc.ListCountries(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []string{"PT", "ES"}, got)
}
