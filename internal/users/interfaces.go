package users

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserStore defines the document store operations for users. A miss on
// FindByID, Replace or Delete is reported as a not-found UserError.
type UserStore interface {
	Insert(ctx context.Context, in *UserInput) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*User, error)
	Replace(ctx context.Context, id bson.ObjectID, in *UserInput) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

// UserService defines the interface for user service operations
type UserService interface {
	Available() bool
	CreateUser(ctx context.Context, in *UserInput) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	GetUser(ctx context.Context, userID string) (*User, error)
	UpdateUser(ctx context.Context, userID string, in *UserInput) (*User, error)
	DeleteUser(ctx context.Context, userID string) error
}
