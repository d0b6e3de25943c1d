package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/urbanhive/internal/models"
)

func testUser() models.User {
	return models.User{
		ID:         "user001",
		Name:       "John Doe",
		Email:      "john@example.com",
		Location:   models.Location{Latitude: 37.7749, Longitude: -122.4194},
		AreaRadius: 5,
	}
}

func TestMongoUserCollection_InsertAndFind(t *testing.T) {
	store := testStore(t)
	users := store.Users()
	ctx := context.Background()

	err := users.InsertUser(ctx, testUser())
	require.NoError(t, err)

	found, err := users.FindUserByID(ctx, "user001")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", found.Name)
	assert.Equal(t, 37.7749, found.Location.Latitude)
	assert.NotNil(t, found.Communities)
	assert.NotZero(t, found.CreatedAt)

	found, err = users.FindUserByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user001", found.ID)

	_, err = users.FindUserByID(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoUserCollection_UpdateRadius(t *testing.T) {
	store := testStore(t)
	users := store.Users()
	ctx := context.Background()

	require.NoError(t, users.InsertUser(ctx, testUser()))

	updated, err := users.UpdateRadius(ctx, "user001", 12.5)
	require.NoError(t, err)
	assert.Equal(t, 12.5, updated.AreaRadius)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	_, err = users.UpdateRadius(ctx, "nonexistent", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoUserCollection_AddCommunity(t *testing.T) {
	store := testStore(t)
	users := store.Users()
	ctx := context.Background()

	require.NoError(t, users.InsertUser(ctx, testUser()))

	require.NoError(t, users.AddCommunity(ctx, "user001", "TestArea"))
	require.NoError(t, users.AddCommunity(ctx, "user001", "TestArea"))

	found, err := users.FindUserByID(ctx, "user001")
	require.NoError(t, err)
	assert.Equal(t, []string{"TestArea"}, found.Communities)

	assert.ErrorIs(t, users.AddCommunity(ctx, "nonexistent", "TestArea"), ErrNotFound)
}

func TestMongoUserCollection_KeepsGivenTimestamps(t *testing.T) {
	store := testStore(t)
	users := store.Users()
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	user := testUser()
	user.CreatedAt = created
	user.UpdatedAt = created
	require.NoError(t, users.InsertUser(ctx, user))

	found, err := users.FindUserByID(ctx, "user001")
	require.NoError(t, err)
	assert.True(t, found.CreatedAt.Equal(created))
	assert.True(t, found.UpdatedAt.Equal(created))
}

func TestMongoUserCollection_ListUpdateDelete(t *testing.T) {
	store := testStore(t)
	users := store.Users()
	ctx := context.Background()

	second := testUser()
	second.ID = "user002"
	second.Email = "jane@example.com"
	require.NoError(t, users.InsertUser(ctx, second))
	require.NoError(t, users.InsertUser(ctx, testUser()))

	list, err := users.FindUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "user001", list[0].ID)
	assert.Equal(t, "user002", list[1].ID)

	updated, err := users.UpdateUser(ctx, "user001", map[string]interface{}{
		"name":     "Johnny Doe",
		"location": models.Location{Latitude: 40.7128, Longitude: -74.006},
	})
	require.NoError(t, err)
	assert.Equal(t, "Johnny Doe", updated.Name)
	assert.Equal(t, 40.7128, updated.Location.Latitude)
	assert.Equal(t, "john@example.com", updated.Email)

	_, err = users.UpdateUser(ctx, "nonexistent", map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, users.DeleteUser(ctx, "user001"))
	assert.ErrorIs(t, users.DeleteUser(ctx, "user001"), ErrNotFound)

	list, err = users.FindUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
