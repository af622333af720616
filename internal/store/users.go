package store

import (
	"context"

	"github.com/crewforge/backoffice/internal/model"
	"github.com/crewforge/backoffice/internal/provision"
)

// CreateUser persists a new user. When the user has no linked employee one
// is provisioned in the same transaction, together with its draft contract.
// Users are not tenant-aware; the provisioned employee is left team-less,
// team assignment is an explicit onboarding step.
func (s *Store) CreateUser(ctx context.Context, user *model.User) (provision.Result, error) {
	var result provision.Result
	err := s.transaction(ctx, func(ctx context.Context) error {
		tx := s.conn(ctx)
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		var err error
		result, err = s.prov.EnsureEmployeeForUser(tx, user)
		return err
	})
	return result, err
}

// GetUserByID fetches a user by primary key.
func (s *Store) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.conn(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserByEmail fetches a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
