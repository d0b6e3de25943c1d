package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/urbanhive/internal/db"
	"github.com/ukydev/urbanhive/internal/metrics"
	"github.com/ukydev/urbanhive/internal/models"
)

func TestCommunityHandler_AddCommunity(t *testing.T) {
	loc := models.Location{Latitude: 32.0853, Longitude: 34.7818}
	reqBody := map[string]interface{}{
		"manager_id": "user001",
		"area":       "Florentin",
		"location":   loc,
	}
	manager := &models.User{ID: "user001", Name: "John Doe", Location: loc}

	t.Run("successful creation", func(t *testing.T) {
		communities := new(MockCommunityCollection)
		users := new(MockUserCollection)
		handler := NewCommunityHandler(communities, users, nil, quietLogger())

		communities.On("FindCommunityByArea", mock.Anything, "Florentin").Return(nil, db.ErrNotFound)
		communities.On("FindCommunityByLocation", mock.Anything, loc).Return(nil, db.ErrNotFound)
		users.On("FindUserByID", mock.Anything, "user001").Return(manager, nil)
		communities.On("InsertCommunity", mock.Anything, mock.MatchedBy(func(c models.Community) bool {
			return c.Area == "Florentin" &&
				c.CommunityID != "" &&
				len(c.Members) == 1 && c.Members[0].ID == "user001" &&
				len(c.Managers) == 1 && c.Managers[0].ID == "user001"
		})).Return(nil)
		users.On("AddCommunity", mock.Anything, "user001", "Florentin").Return(nil)

		w := httptest.NewRecorder()
		handler.AddCommunity(w, jsonRequest(t, http.MethodPost, "/communities/add_community", reqBody))

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Community added", body["message"])
		assert.NotEmpty(t, body["id"])
		communities.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("manager bookkeeping failure still succeeds", func(t *testing.T) {
		communities := new(MockCommunityCollection)
		users := new(MockUserCollection)
		handler := NewCommunityHandler(communities, users, nil, quietLogger())

		communities.On("FindCommunityByArea", mock.Anything, "Florentin").Return(nil, db.ErrNotFound)
		communities.On("FindCommunityByLocation", mock.Anything, loc).Return(nil, db.ErrNotFound)
		users.On("FindUserByID", mock.Anything, "user001").Return(manager, nil)
		communities.On("InsertCommunity", mock.Anything, mock.Anything).Return(nil)
		users.On("AddCommunity", mock.Anything, "user001", "Florentin").Return(errors.New("write conflict"))

		w := httptest.NewRecorder()
		handler.AddCommunity(w, jsonRequest(t, http.MethodPost, "/communities/add_community", reqBody))

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		handler := NewCommunityHandler(new(MockCommunityCollection), new(MockUserCollection), nil, quietLogger())
		w := httptest.NewRecorder()

		handler.AddCommunity(w, jsonRequest(t, http.MethodPost, "/communities/add_community", map[string]string{"area": "Florentin"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Missing required fields", decodeBody(t, w)["error"])
	})

	t.Run("area taken", func(t *testing.T) {
		communities := new(MockCommunityCollection)
		handler := NewCommunityHandler(communities, new(MockUserCollection), nil, quietLogger())
		communities.On("FindCommunityByArea", mock.Anything, "Florentin").Return(&models.Community{Area: "Florentin"}, nil)

		w := httptest.NewRecorder()
		handler.AddCommunity(w, jsonRequest(t, http.MethodPost, "/communities/add_community", reqBody))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "the community with this name already exists", decodeBody(t, w)["error"])
	})

	t.Run("location taken", func(t *testing.T) {
		communities := new(MockCommunityCollection)
		handler := NewCommunityHandler(communities, new(MockUserCollection), nil, quietLogger())
		communities.On("FindCommunityByArea", mock.Anything, "Florentin").Return(nil, db.ErrNotFound)
		communities.On("FindCommunityByLocation", mock.Anything, loc).Return(&models.Community{Area: "Other"}, nil)

		w := httptest.NewRecorder()
		handler.AddCommunity(w, jsonRequest(t, http.MethodPost, "/communities/add_community", reqBody))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "the community with this location already exists", decodeBody(t, w)["error"])
	})

	t.Run("unknown manager", func(t *testing.T) {
		communities := new(MockCommunityCollection)
		users := new(MockUserCollection)
		handler := NewCommunityHandler(communities, users, nil, quietLogger())
		communities.On("FindCommunityByArea", mock.Anything, "Florentin").Return(nil, db.ErrNotFound)
		communities.On("FindCommunityByLocation", mock.Anything, loc).Return(nil, db.ErrNotFound)
		users.On("FindUserByID", mock.Anything, "user001").Return(nil, db.ErrNotFound)

		w := httptest.NewRecorder()
		handler.AddCommunity(w, jsonRequest(t, http.MethodPost, "/communities/add_community", reqBody))

		assert.Equal(t, http.StatusNotFound, w.Code)
		communities.AssertNotCalled(t, "InsertCommunity", mock.Anything, mock.Anything)
	})
}

func TestCommunityHandler_NearbyCommunities(t *testing.T) {
	telAviv := models.Community{Area: "Florentin", Location: models.Location{Latitude: 32.0569, Longitude: 34.7685}}
	ramatGan := models.Community{Area: "Ramat Gan", Location: models.Location{Latitude: 32.0684, Longitude: 34.8248}}
	haifa := models.Community{Area: "Haifa", Location: models.Location{Latitude: 32.7940, Longitude: 34.9896}}
	all := []models.Community{telAviv, haifa, ramatGan}

	t.Run("filters by radius keeping store order", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m, err := metrics.NewCollector(reg)
		require.NoError(t, err)

		communities := new(MockCommunityCollection)
		communities.On("FindCommunities", mock.Anything).Return(all, nil)
		handler := NewCommunityHandler(communities, new(MockUserCollection), m, quietLogger())

		w := httptest.NewRecorder()
		handler.NearbyCommunities(w, jsonRequest(t, http.MethodPost, "/communities/get_communities_by_radius_and_location", models.RadiusSearchRequest{
			Radius:   floatPtr(10),
			Location: &models.Location{Latitude: 32.0853, Longitude: 34.7818},
		}))

		require.Equal(t, http.StatusOK, w.Code)
		local := decodeBody(t, w)["local_communities"].([]interface{})
		require.Len(t, local, 2)
		assert.Equal(t, "Florentin", local[0].(map[string]interface{})["area"])
		assert.Equal(t, "Ramat Gan", local[1].(map[string]interface{})["area"])
		assert.Equal(t, 1, testutil.CollectAndCount(m.RadiusMatches))
	})

	t.Run("nothing in range returns empty list", func(t *testing.T) {
		communities := new(MockCommunityCollection)
		communities.On("FindCommunities", mock.Anything).Return(all, nil)
		handler := NewCommunityHandler(communities, new(MockUserCollection), nil, quietLogger())

		w := httptest.NewRecorder()
		handler.NearbyCommunities(w, jsonRequest(t, http.MethodPost, "/communities/get_communities_by_radius_and_location", models.RadiusSearchRequest{
			Radius:   floatPtr(1),
			Location: &models.Location{Latitude: 40.7128, Longitude: -74.0060},
		}))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"local_communities":[]}`, w.Body.String())
	})

	tests := []struct {
		name string
		body models.RadiusSearchRequest
	}{
		{"missing radius", models.RadiusSearchRequest{Location: &models.Location{}}},
		{"missing location", models.RadiusSearchRequest{Radius: floatPtr(5)}},
		{"negative radius", models.RadiusSearchRequest{Radius: floatPtr(-1), Location: &models.Location{}}},
		{"out of range location", models.RadiusSearchRequest{Radius: floatPtr(5), Location: &models.Location{Latitude: 0, Longitude: 200}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			communities := new(MockCommunityCollection)
			handler := NewCommunityHandler(communities, new(MockUserCollection), nil, quietLogger())

			w := httptest.NewRecorder()
			handler.NearbyCommunities(w, jsonRequest(t, http.MethodPost, "/communities/get_communities_by_radius_and_location", tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			communities.AssertNotCalled(t, "FindCommunities", mock.Anything)
		})
	}
}

func TestCommunityHandler_DetailsByArea(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		communities := new(MockCommunityCollection)
		communities.On("FindCommunityByArea", mock.Anything, "Florentin").Return(&models.Community{Area: "Florentin", CommunityID: "c-1"}, nil)
		handler := NewCommunityHandler(communities, new(MockUserCollection), nil, quietLogger())

		w := httptest.NewRecorder()
		handler.DetailsByArea(w, httptest.NewRequest(http.MethodGet, "/communities/details_by_area?area=Florentin", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "c-1", decodeBody(t, w)["community_id"])
	})

	t.Run("missing area", func(t *testing.T) {
		handler := NewCommunityHandler(new(MockCommunityCollection), new(MockUserCollection), nil, quietLogger())
		w := httptest.NewRecorder()
		handler.DetailsByArea(w, httptest.NewRequest(http.MethodGet, "/communities/details_by_area", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		communities := new(MockCommunityCollection)
		communities.On("FindCommunityByArea", mock.Anything, "Nowhere").Return(nil, db.ErrNotFound)
		handler := NewCommunityHandler(communities, new(MockUserCollection), nil, quietLogger())

		w := httptest.NewRecorder()
		handler.DetailsByArea(w, httptest.NewRequest(http.MethodGet, "/communities/details_by_area?area=Nowhere", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCommunityHandler_GetAll(t *testing.T) {
	t.Run("lists communities", func(t *testing.T) {
		communities := new(MockCommunityCollection)
		communities.On("FindCommunities", mock.Anything).Return([]models.Community{{Area: "A"}, {Area: "B"}}, nil)
		handler := NewCommunityHandler(communities, new(MockUserCollection), nil, quietLogger())

		w := httptest.NewRecorder()
		handler.GetAll(w, httptest.NewRequest(http.MethodGet, "/communities/get_all", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeBody(t, w)["communities"], 2)
	})

	t.Run("database error", func(t *testing.T) {
		communities := new(MockCommunityCollection)
		communities.On("FindCommunities", mock.Anything).Return(nil, errors.New("timeout"))
		handler := NewCommunityHandler(communities, new(MockUserCollection), nil, quietLogger())

		w := httptest.NewRecorder()
		handler.GetAll(w, httptest.NewRequest(http.MethodGet, "/communities/get_all", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
