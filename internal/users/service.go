package users

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	store UserStore
}

// NewUserService creates a new user service instance. A nil store means the
// document store was unreachable at startup, and every call fails fast with
// an unavailable error.
func NewUserService(store UserStore) *UserServiceImpl {
	return &UserServiceImpl{
		store: store,
	}
}

// Available reports whether the service has a store to talk to
func (s *UserServiceImpl) Available() bool {
	return s.store != nil
}

// CreateUser validates and inserts a new user
func (s *UserServiceImpl) CreateUser(ctx context.Context, in *UserInput) (*User, error) {
	if s.store == nil {
		return nil, NewUnavailableError()
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user, err := s.store.Insert(ctx, in)
	if err != nil {
		return nil, classify("create user", err)
	}
	return user, nil
}

// ListUsers returns every user. The result is never nil.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*User, error) {
	if s.store == nil {
		return nil, NewUnavailableError()
	}

	result, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, classify("list users", err)
	}
	if result == nil {
		result = []*User{}
	}
	return result, nil
}

// GetUser loads a user by its hex identifier
func (s *UserServiceImpl) GetUser(ctx context.Context, userID string) (*User, error) {
	if s.store == nil {
		return nil, NewUnavailableError()
	}
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, classify("get user", err)
	}
	return user, nil
}

// UpdateUser fully replaces a user's fields and returns the re-read document
func (s *UserServiceImpl) UpdateUser(ctx context.Context, userID string, in *UserInput) (*User, error) {
	if s.store == nil {
		return nil, NewUnavailableError()
	}
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Replace(ctx, id, in); err != nil {
		return nil, classify("update user", err)
	}

	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, classify("update user", err)
	}
	return user, nil
}

// DeleteUser removes a user
func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID string) error {
	if s.store == nil {
		return NewUnavailableError()
	}
	id, err := parseID(userID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return classify("delete user", err)
	}
	return nil
}

// parseID maps malformed identifiers to not-found, never to a fault
func parseID(userID string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return bson.NilObjectID, NewUserNotFoundError(userID)
	}
	return id, nil
}

func classify(operation string, err error) error {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue
	}
	return NewStoreFaultError(operation, err)
}
