package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/urbanhive/internal/geo"
	"github.com/ukydev/urbanhive/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// MockUserCollection is a mock implementation of UserCollection
type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateRadius(ctx context.Context, id string, radius float64) (*models.User, error) {
	args := m.Called(ctx, id, radius)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) AddCommunity(ctx context.Context, id, area string) error {
	args := m.Called(ctx, id, area)
	return args.Error(0)
}

func (m *MockUserCollection) FindUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCommunityCollection is a mock implementation of CommunityCollection
type MockCommunityCollection struct {
	mock.Mock
}

func (m *MockCommunityCollection) InsertCommunity(ctx context.Context, community models.Community) error {
	args := m.Called(ctx, community)
	return args.Error(0)
}

func (m *MockCommunityCollection) FindCommunities(ctx context.Context) ([]models.Community, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Community), args.Error(1)
}

func (m *MockCommunityCollection) FindCommunityByArea(ctx context.Context, area string) (*models.Community, error) {
	args := m.Called(ctx, area)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Community), args.Error(1)
}

func (m *MockCommunityCollection) FindCommunityByLocation(ctx context.Context, location models.Location) (*models.Community, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Community), args.Error(1)
}

// MockNightWatchCollection is a mock implementation of NightWatchCollection
type MockNightWatchCollection struct {
	mock.Mock
}

func (m *MockNightWatchCollection) InsertWatch(ctx context.Context, watch models.NightWatch) error {
	args := m.Called(ctx, watch)
	return args.Error(0)
}

func (m *MockNightWatchCollection) FindWatchByID(ctx context.Context, watchID string) (*models.NightWatch, error) {
	args := m.Called(ctx, watchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NightWatch), args.Error(1)
}

func (m *MockNightWatchCollection) FindWatchByAreaAndDate(ctx context.Context, area, date string) (*models.NightWatch, error) {
	args := m.Called(ctx, area, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NightWatch), args.Error(1)
}

func (m *MockNightWatchCollection) FindWatchesByArea(ctx context.Context, area string) ([]models.NightWatch, error) {
	args := m.Called(ctx, area)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NightWatch), args.Error(1)
}

func (m *MockNightWatchCollection) AddMember(ctx context.Context, watchID string, member geo.Participant) error {
	args := m.Called(ctx, watchID, member)
	return args.Error(0)
}

func (m *MockNightWatchCollection) SetAssignments(ctx context.Context, watchID string, assignments []geo.Assignment) error {
	args := m.Called(ctx, watchID, assignments)
	return args.Error(0)
}

func (m *MockNightWatchCollection) DeleteWatch(ctx context.Context, watchID string) error {
	args := m.Called(ctx, watchID)
	return args.Error(0)
}

// MockEventCollection is a mock implementation of EventCollection
type MockEventCollection struct {
	mock.Mock
}

func (m *MockEventCollection) InsertEvent(ctx context.Context, event models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventCollection) FindEvents(ctx context.Context, community string) ([]models.Event, error) {
	args := m.Called(ctx, community)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventCollection) DeleteEvent(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

// MockPostCollection is a mock implementation of PostCollection
type MockPostCollection struct {
	mock.Mock
}

func (m *MockPostCollection) InsertPost(ctx context.Context, post models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostCollection) FindPostsByArea(ctx context.Context, area string) ([]models.Post, error) {
	args := m.Called(ctx, area)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostCollection) DeletePost(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

// MockPublisher is a mock implementation of events.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	args := m.Called(ctx, eventType, payload)
	return args.Error(0)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	return httptest.NewRequest(method, target, &buf)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func floatPtr(v float64) *float64 { return &v }

func duplicateKeyError() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}
}
