package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/urbanhive/internal/models"
)

func TestMongoEventCollection_Integration(t *testing.T) {
	store := testStore(t)
	events := store.Events()
	ctx := context.Background()

	for _, e := range []models.Event{
		{EventID: "e2", CommunityName: "TestArea", EventName: "Picnic", StartTime: "2024-06-02T10:00:00Z"},
		{EventID: "e1", CommunityName: "TestArea", EventName: "Cleanup", StartTime: "2024-06-01T09:00:00Z"},
		{EventID: "e3", CommunityName: "Harbor", EventName: "Cleanup", StartTime: "2024-06-03T09:00:00Z"},
	} {
		require.NoError(t, events.InsertEvent(ctx, e))
	}

	all, err := events.FindEvents(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "e1", all[0].EventID)
	assert.NotNil(t, all[0].Attending)
	assert.NotZero(t, all[0].CreatedAt)

	local, err := events.FindEvents(ctx, "TestArea")
	require.NoError(t, err)
	assert.Len(t, local, 2)

	require.NoError(t, events.DeleteEvent(ctx, "e1"))
	assert.ErrorIs(t, events.DeleteEvent(ctx, "e1"), ErrNotFound)
}
