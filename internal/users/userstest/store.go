// Package userstest provides an in-memory users.UserStore for tests.
package userstest

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/userdocs/userdocs/internal/users"
)

// Store keeps documents in a map keyed by ObjectID. Err, when set, is
// returned by every operation to simulate a driver fault.
type Store struct {
	mu    sync.Mutex
	docs  map[bson.ObjectID]users.UserSchema
	order []bson.ObjectID
	Calls int
	Err   error
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{docs: make(map[bson.ObjectID]users.UserSchema)}
}

// Put stores a raw document, bypassing input conversion. Useful for
// documents that are missing fields.
func (s *Store) Put(schema users.UserSchema) bson.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if schema.ID.IsZero() {
		schema.ID = bson.NewObjectID()
	}
	if _, ok := s.docs[schema.ID]; !ok {
		s.order = append(s.order, schema.ID)
	}
	s.docs[schema.ID] = schema
	return schema.ID
}

func (s *Store) Insert(_ context.Context, in *users.UserInput) (*users.User, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	schema := users.UserInputToUserSchema(in)
	schema.ID = s.Put(schema)
	return users.UserSchemaToUser(schema), nil
}

func (s *Store) FindAll(_ context.Context) ([]*users.User, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*users.User
	for _, id := range s.order {
		if schema, ok := s.docs[id]; ok {
			result = append(result, users.UserSchemaToUser(schema))
		}
	}
	return result, nil
}

func (s *Store) FindByID(_ context.Context, id bson.ObjectID) (*users.User, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	schema, ok := s.docs[id]
	if !ok {
		return nil, users.NewUserNotFoundError(id.Hex())
	}
	return users.UserSchemaToUser(schema), nil
}

func (s *Store) Replace(_ context.Context, id bson.ObjectID, in *users.UserInput) error {
	if err := s.begin(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return users.NewUserNotFoundError(id.Hex())
	}
	schema := users.UserInputToUserSchema(in)
	schema.ID = id
	s.docs[id] = schema
	return nil
}

func (s *Store) Delete(_ context.Context, id bson.ObjectID) error {
	if err := s.begin(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return users.NewUserNotFoundError(id.Hex())
	}
	delete(s.docs, id)
	return nil
}

func (s *Store) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	return s.Err
}
