package store

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mj36/internal/common"
	"github.com/dmitrijs2005/mj36/internal/models"
)

// NewUser is the input of AddUser. Password is plain text; AddUser stores
// only its hash.
type NewUser struct {
	Username string
	Password string
	Avatar   string
	IsAdmin  bool
}

func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Users, nil
}

// UserByID returns common.ErrorNotFound when no user has the id.
func (s *Store) UserByID(ctx context.Context, id models.ID) (*models.User, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	u, ok := doc.UserByID(id)
	if !ok {
		return nil, fmt.Errorf("user %q: %w", id, common.ErrorNotFound)
	}
	return u, nil
}

// UserByUsername returns common.ErrorNotFound when no user has the name.
func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	u, ok := doc.UserByUsername(username)
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, common.ErrorNotFound)
	}
	return u, nil
}

// AddUser appends a user with a fresh id. The username must not be taken.
func (s *Store) AddUser(ctx context.Context, in NewUser) (*models.User, error) {
	avatar := in.Avatar
	if avatar == "" {
		avatar = models.DefaultAvatar
	}

	now := s.now()
	u := models.User{
		ID:           s.newID(),
		Username:     in.Username,
		PasswordHash: hashSecret(in.Password),
		Avatar:       avatar,
		IsAdmin:      in.IsAdmin,
		CreatedAt:    now,
		LastActive:   now,
	}

	_, err := s.mutate(ctx, func(doc *models.Document) error {
		if _, taken := doc.UserByUsername(u.Username); taken {
			return common.ErrUsernameTaken
		}
		doc.Users = append(doc.Users, u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser applies fn to the stored user and saves. A rename onto an
// existing username fails with common.ErrUsernameTaken and nothing is saved.
func (s *Store) UpdateUser(ctx context.Context, id models.ID, fn func(u *models.User) error) (*models.User, error) {
	var updated models.User

	_, err := s.mutate(ctx, func(doc *models.Document) error {
		u, ok := doc.UserByID(id)
		if !ok {
			return fmt.Errorf("user %q: %w", id, common.ErrorNotFound)
		}
		if err := fn(u); err != nil {
			return err
		}
		for _, other := range doc.Users {
			if other.ID != u.ID && other.Username == u.Username {
				return common.ErrUsernameTaken
			}
		}
		updated = *u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteUser removes the user. Content referencing it is left in place.
func (s *Store) DeleteUser(ctx context.Context, id models.ID) error {
	_, err := s.mutate(ctx, func(doc *models.Document) error {
		doc.Users = models.Filter(doc.Users, func(u models.User) bool { return u.ID != id })
		return nil
	})
	return err
}

// TouchUser sets the user's lastActive to now. Unknown ids are ignored and
// nothing is saved.
func (s *Store) TouchUser(ctx context.Context, id models.ID) error {
	_, err := s.UpdateUser(ctx, id, func(u *models.User) error {
		u.LastActive = s.now()
		return nil
	})
	if err != nil && isNotFound(err) {
		return nil
	}
	return err
}
