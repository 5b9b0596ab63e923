package users

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// UserSchema is the stored document. Every write carries all four fields so
// the document's field set stays {name, email, age, city}.
type UserSchema struct {
	ID    bson.ObjectID `bson:"_id,omitempty"`
	Name  *string       `bson:"name"`
	Email *string       `bson:"email"`
	Age   *int          `bson:"age"`
	City  *string       `bson:"city"`
}

// MongoUserStore implements UserStore on a MongoDB collection
type MongoUserStore struct {
	coll *mongo.Collection
}

// NewMongoUserStore creates a new user store instance
func NewMongoUserStore(coll *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{
		coll: coll,
	}
}

// Insert stores a new document and lets the driver assign its _id
func (s *MongoUserStore) Insert(ctx context.Context, in *UserInput) (*User, error) {
	schema := UserInputToUserSchema(in)

	res, err := s.coll.InsertOne(ctx, schema)
	if err != nil {
		return nil, err
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	schema.ID = id

	return UserSchemaToUser(schema), nil
}

// listedUser decodes _id loosely so documents written by other tools,
// with non-ObjectID ids, still list.
type listedUser struct {
	ID    bson.RawValue `bson:"_id"`
	Name  *string       `bson:"name"`
	Email *string       `bson:"email"`
	Age   *int          `bson:"age"`
	City  *string       `bson:"city"`
}

// FindAll returns every document in store iteration order
func (s *MongoUserStore) FindAll(ctx context.Context) ([]*User, error) {
	cursor, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	var docs []listedUser
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	result := make([]*User, 0, len(docs))
	for _, doc := range docs {
		result = append(result, &User{
			ID:    RenderID(doc.ID),
			Name:  doc.Name,
			Email: doc.Email,
			Age:   doc.Age,
			City:  doc.City,
		})
	}
	return result, nil
}

// RenderID turns any stored _id into its client string form
func RenderID(id bson.RawValue) string {
	if oid, ok := id.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if str, ok := id.StringValueOK(); ok {
		return str
	}
	return id.String()
}

// FindByID loads a single document
func (s *MongoUserStore) FindByID(ctx context.Context, id bson.ObjectID) (*User, error) {
	var schema UserSchema
	err := s.coll.FindOne(ctx, byID(id)).Decode(&schema)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewUserNotFoundError(id.Hex())
		}
		return nil, err
	}

	return UserSchemaToUser(schema), nil
}

// Replace overwrites all four fields of the matched document
func (s *MongoUserStore) Replace(ctx context.Context, id bson.ObjectID, in *UserInput) error {
	res, err := s.coll.ReplaceOne(ctx, byID(id), UserInputToUserSchema(in))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return NewUserNotFoundError(id.Hex())
	}
	return nil
}

// Delete removes the matched document
func (s *MongoUserStore) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return NewUserNotFoundError(id.Hex())
	}
	return nil
}

func byID(id bson.ObjectID) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

// Helper conversion functions
func UserSchemaToUser(schema UserSchema) *User {
	return &User{
		ID:    schema.ID.Hex(),
		Name:  schema.Name,
		Email: schema.Email,
		Age:   schema.Age,
		City:  schema.City,
	}
}

func UserInputToUserSchema(in *UserInput) UserSchema {
	name := in.Name
	email := in.Email

	schema := UserSchema{
		Name:  &name,
		Email: &email,
		City:  in.City,
	}
	if in.Age != nil {
		age := *in.Age
		schema.Age = &age
	}
	return schema
}
