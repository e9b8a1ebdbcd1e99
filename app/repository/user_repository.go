package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/FelixBrandt/StackDroid/app/models"
	"github.com/FelixBrandt/StackDroid/internal/pkg/keyvalue"
)

type userRepository struct{}

// NewUserRepository creates a Redis-backed user repository.
func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	email := normalizeEmail(user.Email)

	// Claim the email index first so duplicate signups lose the race.
	created, err := keyvalue.SetNX(ctx, userEmailKey(email), user.ID, 0)
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("%w: email already registered", ErrExists)
	}

	if err := keyvalue.SetJSON(ctx, userKey(user.ID), user, 0); err != nil {
		r.releaseEmailClaim(ctx, email)
		return err
	}
	if err := keyvalue.SAdd(ctx, usersAllKey, user.ID); err != nil {
		r.releaseEmailClaim(ctx, email)
		return err
	}
	return nil
}

// releaseEmailClaim undoes the email index claim when the user record could
// not be written. Without it the address would stay bound to a user that
// does not exist and could never sign up again.
func (r *userRepository) releaseEmailClaim(ctx context.Context, email string) {
	if err := keyvalue.Delete(ctx, userEmailKey(email)); err != nil {
		log.Errorf("could not release email claim for %s: %v", email, err)
	}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := keyvalue.GetJSON(ctx, userKey(id), &user); err != nil {
		if errors.Is(err, keyvalue.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	id, err := keyvalue.Get(ctx, userEmailKey(normalizeEmail(email)))
	if err != nil {
		if errors.Is(err, keyvalue.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	return keyvalue.SetJSON(ctx, userKey(user.ID), user, 0)
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	return keyvalue.SCard(ctx, usersAllKey)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
