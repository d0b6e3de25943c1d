package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/urbanhive/internal/db"
	"github.com/ukydev/urbanhive/internal/geo"
	"github.com/ukydev/urbanhive/internal/metrics"
	"github.com/ukydev/urbanhive/internal/models"
)

// CommunityHandler handles community requests
type CommunityHandler struct {
	communities db.CommunityCollection
	users       db.UserCollection
	metrics     *metrics.Collector
	log         *logrus.Logger
}

// NewCommunityHandler creates a new community handler
func NewCommunityHandler(communities db.CommunityCollection, users db.UserCollection, m *metrics.Collector, log *logrus.Logger) *CommunityHandler {
	return &CommunityHandler{communities: communities, users: users, metrics: m, log: log}
}

// AddCommunity creates a community managed by an existing user
func (h *CommunityHandler) AddCommunity(w http.ResponseWriter, r *http.Request) {
	var req models.AddCommunityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ManagerID == "" || req.Area == "" || req.Location == nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if err := req.Location.Validate(); err != nil {
		writeGeoError(w, err)
		return
	}

	ctx := r.Context()
	if _, err := h.communities.FindCommunityByArea(ctx, req.Area); err == nil {
		h.log.WithField("area", req.Area).Warn("Community name already exists")
		writeError(w, http.StatusBadRequest, "the community with this name already exists")
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		h.dbError(w, err, "Failed to look up community by area")
		return
	}
	if _, err := h.communities.FindCommunityByLocation(ctx, *req.Location); err == nil {
		h.log.WithField("location", *req.Location).Warn("Community location already exists")
		writeError(w, http.StatusBadRequest, "the community with this location already exists")
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		h.dbError(w, err, "Failed to look up community by location")
		return
	}

	manager, err := h.users.FindUserByID(ctx, req.ManagerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Manager not found")
			return
		}
		h.dbError(w, err, "Failed to look up manager")
		return
	}

	member := manager.AsMember()
	community := models.Community{
		CommunityID: uuid.NewString(),
		Area:        req.Area,
		Location:    *req.Location,
		Rules:       []string{},
		Members:     []models.Member{member},
		Managers:    []models.Member{member},
	}
	if err := h.communities.InsertCommunity(ctx, community); err != nil {
		if db.IsDuplicateKey(err) {
			writeError(w, http.StatusBadRequest, "Community already exists")
			return
		}
		h.dbError(w, err, "Failed to insert community")
		return
	}

	if err := h.users.AddCommunity(ctx, manager.ID, community.Area); err != nil {
		// The community exists at this point; the manager's list can be repaired later.
		h.log.WithError(err).WithField("user_id", manager.ID).Error("Failed to record community on manager")
	}

	h.log.WithFields(logrus.Fields{"community_id": community.CommunityID, "area": community.Area}).Info("Community added")
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Community added",
		"id":      community.CommunityID,
	})
}

// NearbyCommunities returns the communities within a radius of a location
func (h *CommunityHandler) NearbyCommunities(w http.ResponseWriter, r *http.Request) {
	var req models.RadiusSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Radius == nil || req.Location == nil {
		writeError(w, http.StatusBadRequest, "radius and location are required")
		return
	}
	if *req.Radius < 0 {
		writeError(w, http.StatusBadRequest, "radius must not be negative")
		return
	}
	if err := req.Location.Validate(); err != nil {
		writeGeoError(w, err)
		return
	}

	all, err := h.communities.FindCommunities(r.Context())
	if err != nil {
		h.dbError(w, err, "Failed to load communities")
		return
	}

	local := geo.FilterWithinRadius(req.Location.Point(), *req.Radius, all)
	h.metrics.ObserveRadiusSearch(len(all), len(local))

	h.log.WithFields(logrus.Fields{
		"radius":     *req.Radius,
		"candidates": len(all),
		"matches":    len(local),
	}).Info("Radius search")
	writeJSON(w, http.StatusOK, map[string]interface{}{"local_communities": local})
}

// DetailsByArea returns a single community by its area name
func (h *CommunityHandler) DetailsByArea(w http.ResponseWriter, r *http.Request) {
	area := r.URL.Query().Get("area")
	if area == "" {
		writeError(w, http.StatusBadRequest, "Area name is required")
		return
	}

	community, err := h.communities.FindCommunityByArea(r.Context(), area)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Community not found "+area)
			return
		}
		h.dbError(w, err, "Failed to look up community by area")
		return
	}
	writeJSON(w, http.StatusOK, community)
}

// GetAll lists every community
func (h *CommunityHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	all, err := h.communities.FindCommunities(r.Context())
	if err != nil {
		h.dbError(w, err, "Failed to load communities")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"communities": all})
}

func (h *CommunityHandler) dbError(w http.ResponseWriter, err error, msg string) {
	h.log.WithError(err).Error(msg)
	writeError(w, http.StatusInternalServerError, "Database error")
}
