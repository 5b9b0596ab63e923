package users_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userdocs/userdocs/internal/users"
	"github.com/userdocs/userdocs/internal/users/userstest"
)

func ptr[T any](v T) *T { return &v }

func newService() (*users.UserServiceImpl, *userstest.Store) {
	store := userstest.NewStore()
	return users.NewUserService(store), store
}

func TestCreateThenGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	created, err := svc.CreateUser(ctx, &users.UserInput{Name: "Ana", Email: "ana@x.com", Age: ptr(30)})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Nil(t, created.City)

	got, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "Ana", *got.Name)
	assert.Equal(t, "ana@x.com", *got.Email)
	assert.Equal(t, 30, *got.Age)
}

func TestCreateRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()

	cases := map[string]*users.UserInput{
		"nil":         nil,
		"empty name":  {Email: "a@x.com", Age: ptr(1)},
		"empty email": {Name: "A", Age: ptr(1)},
		"no age":      {Name: "A", Email: "a@x.com"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateUser(ctx, in)
			assert.Equal(t, users.ErrorTypeBadInput, users.ErrorType(err))
		})
	}
	assert.Zero(t, store.Calls)
}

func TestCreateAcceptsZeroAge(t *testing.T) {
	svc, _ := newService()

	created, err := svc.CreateUser(context.Background(), &users.UserInput{Name: "Baby", Email: "b@x.com", Age: ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, *created.Age)
}

func TestDeleteThenGetIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	created, err := svc.CreateUser(ctx, &users.UserInput{Name: "Ana", Email: "ana@x.com", Age: ptr(30)})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, created.ID))

	_, err = svc.GetUser(ctx, created.ID)
	assert.True(t, users.IsNotFound(err))

	err = svc.DeleteUser(ctx, created.ID)
	assert.True(t, users.IsNotFound(err))
}

func TestUpdateOverwritesAllFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	created, err := svc.CreateUser(ctx, &users.UserInput{Name: "Ana", Email: "ana@x.com", Age: ptr(30), City: ptr("Lisbon")})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, created.ID, &users.UserInput{Name: "Ana Maria", Email: "am@x.com", Age: ptr(31)})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Nil(t, updated.City)

	got, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", *got.Name)
	assert.Equal(t, "am@x.com", *got.Email)
	assert.Equal(t, 31, *got.Age)
	assert.Nil(t, got.City)
}

func TestUpdateMissingIsNotFound(t *testing.T) {
	svc, _ := newService()

	_, err := svc.UpdateUser(context.Background(), "65a1f0c2e4b0a1b2c3d4e5f6", &users.UserInput{Name: "A", Email: "a@x.com", Age: ptr(1)})
	assert.True(t, users.IsNotFound(err))
}

func TestInvalidIdentifierIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()
	in := &users.UserInput{Name: "A", Email: "a@x.com", Age: ptr(1)}

	_, err := svc.GetUser(ctx, "not-an-id")
	assert.Equal(t, users.ErrorTypeNotFound, users.ErrorType(err))

	_, err = svc.UpdateUser(ctx, "not-an-id", in)
	assert.Equal(t, users.ErrorTypeNotFound, users.ErrorType(err))

	err = svc.DeleteUser(ctx, "not-an-id")
	assert.Equal(t, users.ErrorTypeNotFound, users.ErrorType(err))

	assert.Zero(t, store.Calls)
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()

	list, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = svc.CreateUser(ctx, &users.UserInput{Name: "Ana", Email: "ana@x.com", Age: ptr(30)})
	require.NoError(t, err)
	store.Put(users.UserSchema{Name: ptr("Partial")})

	list, err = svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Partial", *list[1].Name)
	assert.Nil(t, list[1].Email)
	assert.Nil(t, list[1].Age)
	assert.Nil(t, list[1].City)
}

func TestUnavailableShortCircuits(t *testing.T) {
	ctx := context.Background()
	svc := users.NewUserService(nil)
	in := &users.UserInput{Name: "A", Email: "a@x.com", Age: ptr(1)}
	id := "65a1f0c2e4b0a1b2c3d4e5f6"

	assert.False(t, svc.Available())

	_, err := svc.CreateUser(ctx, in)
	assert.Equal(t, users.ErrorTypeUnavailable, users.ErrorType(err))
	_, err = svc.ListUsers(ctx)
	assert.Equal(t, users.ErrorTypeUnavailable, users.ErrorType(err))
	_, err = svc.GetUser(ctx, id)
	assert.Equal(t, users.ErrorTypeUnavailable, users.ErrorType(err))
	_, err = svc.UpdateUser(ctx, id, in)
	assert.Equal(t, users.ErrorTypeUnavailable, users.ErrorType(err))
	err = svc.DeleteUser(ctx, id)
	assert.Equal(t, users.ErrorTypeUnavailable, users.ErrorType(err))
}

func TestStoreFaultCarriesRawText(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()
	store.Err = errors.New("connection reset by peer")

	_, err := svc.ListUsers(ctx)
	require.Error(t, err)
	assert.Equal(t, users.ErrorTypeStoreFault, users.ErrorType(err))

	var ue *users.UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "connection reset by peer", ue.Detail())
	assert.ErrorIs(t, err, store.Err)
}
