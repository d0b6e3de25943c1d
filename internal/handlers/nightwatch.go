package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/urbanhive/internal/db"
	"github.com/ukydev/urbanhive/internal/events"
	"github.com/ukydev/urbanhive/internal/geo"
	"github.com/ukydev/urbanhive/internal/metrics"
	"github.com/ukydev/urbanhive/internal/models"
)

var positionsLimitMsg = fmt.Sprintf("positions_amount must not exceed %d", models.MaxPositionsAmount)

// NightWatchHandler handles night watch scheduling and patrol planning
type NightWatchHandler struct {
	watches     db.NightWatchCollection
	communities db.CommunityCollection
	users       db.UserCollection
	publisher   events.Publisher
	metrics     *metrics.Collector
	log         *logrus.Logger
}

// NewNightWatchHandler creates a new night watch handler
func NewNightWatchHandler(
	watches db.NightWatchCollection,
	communities db.CommunityCollection,
	users db.UserCollection,
	publisher events.Publisher,
	m *metrics.Collector,
	log *logrus.Logger,
) *NightWatchHandler {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &NightWatchHandler{
		watches:     watches,
		communities: communities,
		users:       users,
		publisher:   publisher,
		metrics:     m,
		log:         log,
	}
}

// AddNightWatch schedules a night watch for a community
func (h *NightWatchHandler) AddNightWatch(w http.ResponseWriter, r *http.Request) {
	var req models.AddNightWatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if missing := req.MissingFields(); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "))
		return
	}
	if req.WatchRadius < 0 || req.PositionsAmount < 0 {
		writeError(w, http.StatusBadRequest, "watch_radius and positions_amount must be positive")
		return
	}
	if req.PositionsAmount > models.MaxPositionsAmount {
		writeError(w, http.StatusBadRequest, positionsLimitMsg)
		return
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		writeError(w, http.StatusBadRequest, "latitude and longitude must be provided together")
		return
	}

	ctx := r.Context()
	if _, err := h.watches.FindWatchByAreaAndDate(ctx, req.CommunityArea, req.WatchDate); err == nil {
		writeError(w, http.StatusConflict, "A night watch is already scheduled for this community area and date")
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		h.dbError(w, err, "Failed to look up night watch")
		return
	}

	community, err := h.communities.FindCommunityByArea(ctx, req.CommunityArea)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		h.dbError(w, err, "Failed to look up community")
		return
	}
	if community == nil {
		writeError(w, http.StatusNotFound, "Initiator is not a member of the community")
		return
	}

	initiator, err := h.users.FindUserByID(ctx, req.InitiatorID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Initiator not found")
			return
		}
		h.dbError(w, err, "Failed to look up initiator")
		return
	}
	if !community.HasMember(initiator.ID) && !initiator.IsMemberOf(community.Area) {
		writeError(w, http.StatusNotFound, "Initiator is not a member of the community")
		return
	}

	center := community.Location
	if req.Latitude != nil {
		center = models.Location{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}
	if err := center.Validate(); err != nil {
		writeGeoError(w, err)
		return
	}

	watch := models.NightWatch{
		WatchID:         uuid.NewString(),
		InitiatorID:     initiator.ID,
		InitiatorName:   initiator.Name,
		CommunityArea:   req.CommunityArea,
		WatchDate:       req.WatchDate,
		WatchRadius:     req.WatchRadius,
		PositionsAmount: req.PositionsAmount,
		Location:        center,
		Members:         []geo.Participant{},
	}
	if err := h.watches.InsertWatch(ctx, watch); err != nil {
		if db.IsDuplicateKey(err) {
			writeError(w, http.StatusConflict, "Night watch with this ID already exists")
			return
		}
		h.dbError(w, err, "Failed to insert night watch")
		return
	}

	h.publish(ctx, events.WatchCreated, watch)
	h.log.WithFields(logrus.Fields{
		"watch_id":  watch.WatchID,
		"area":      watch.CommunityArea,
		"date":      watch.WatchDate,
		"positions": watch.PositionsAmount,
	}).Info("Night watch added")
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Night watch added successfully",
		"watch_id": watch.WatchID,
	})
}

// JoinWatch adds a volunteer to a night watch
func (h *NightWatchHandler) JoinWatch(w http.ResponseWriter, r *http.Request) {
	var req models.JoinWatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CandidateID == "" || req.NightWatchID == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	ctx := r.Context()
	watch, err := h.watches.FindWatchByID(ctx, req.NightWatchID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Night watch not found")
			return
		}
		h.dbError(w, err, "Failed to look up night watch")
		return
	}
	if watch.HasMember(req.CandidateID) {
		writeError(w, http.StatusConflict, "Candidate already joined this night watch")
		return
	}

	candidate, err := h.users.FindUserByID(ctx, req.CandidateID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Candidate not found")
			return
		}
		h.dbError(w, err, "Failed to look up candidate")
		return
	}

	member := geo.Participant{ID: candidate.ID, Name: candidate.Name}
	if err := h.watches.AddMember(ctx, watch.WatchID, member); err != nil {
		if errors.Is(err, db.ErrAlreadyMember) {
			writeError(w, http.StatusConflict, "Candidate already joined this night watch")
			return
		}
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Night watch not found")
			return
		}
		h.dbError(w, err, "Failed to add member to night watch")
		return
	}

	h.publish(ctx, events.WatchJoined, map[string]string{
		"watch_id":     watch.WatchID,
		"candidate_id": member.ID,
		"name":         member.Name,
	})
	h.log.WithFields(logrus.Fields{"watch_id": watch.WatchID, "candidate_id": member.ID}).Info("Candidate joined night watch")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Candidate successfully joined night watch"})
}

// Positions plans the patrol posts of a night watch and assigns its members
func (h *NightWatchHandler) Positions(w http.ResponseWriter, r *http.Request) {
	watchID := r.URL.Query().Get("watch_id")
	if watchID == "" {
		writeError(w, http.StatusBadRequest, "watch_id is required")
		return
	}

	ctx := r.Context()
	watch, err := h.watches.FindWatchByID(ctx, watchID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Night watch not found")
			return
		}
		h.dbError(w, err, "Failed to look up night watch")
		return
	}
	if err := watch.Location.Validate(); err != nil {
		writeGeoError(w, err)
		return
	}
	if watch.PositionsAmount > models.MaxPositionsAmount {
		h.log.WithFields(logrus.Fields{"watch_id": watch.WatchID, "positions": watch.PositionsAmount}).Warn("Stored night watch exceeds the positions limit")
		writeError(w, http.StatusBadRequest, positionsLimitMsg)
		return
	}

	plan := watch.Plan()
	if err := h.watches.SetAssignments(ctx, watch.WatchID, plan.Assignments); err != nil {
		h.dbError(w, err, "Failed to store assignments")
		return
	}
	h.metrics.ObservePatrolPlan(len(plan.Assignments), plan.Understaffed)
	h.publish(ctx, events.WatchAssigned, plan)

	entry := h.log.WithFields(logrus.Fields{
		"watch_id":    plan.WatchID,
		"positions":   len(plan.Positions),
		"assignments": len(plan.Assignments),
	})
	if plan.Understaffed {
		entry.WithField("open_positions", plan.OpenPositions).Warn("Night watch is understaffed")
	} else {
		entry.Info("Night watch planned")
	}
	writeJSON(w, http.StatusOK, plan)
}

// CloseNightWatch removes a night watch
func (h *NightWatchHandler) CloseNightWatch(w http.ResponseWriter, r *http.Request) {
	var req models.CloseWatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.WatchID == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if err := h.watches.DeleteWatch(r.Context(), req.WatchID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Night watch not found")
			return
		}
		h.dbError(w, err, "Failed to delete night watch")
		return
	}

	h.publish(r.Context(), events.WatchClosed, map[string]string{"watch_id": req.WatchID})
	h.log.WithField("watch_id", req.WatchID).Info("Night watch closed")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Night watch closed successfully"})
}

// ByCommunity lists the night watches of a community
func (h *NightWatchHandler) ByCommunity(w http.ResponseWriter, r *http.Request) {
	area := r.URL.Query().Get("community_area")
	if area == "" {
		writeError(w, http.StatusBadRequest, "community_area is required")
		return
	}

	watches, err := h.watches.FindWatchesByArea(r.Context(), area)
	if err != nil {
		h.dbError(w, err, "Failed to load night watches")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"night_watches": watches})
}

func (h *NightWatchHandler) publish(ctx context.Context, eventType string, payload interface{}) {
	publish(ctx, h.publisher, h.log, eventType, payload)
}

// publish emits an event; delivery failures never fail the request.
func publish(ctx context.Context, p events.Publisher, log *logrus.Logger, eventType string, payload interface{}) {
	if err := p.Publish(ctx, eventType, payload); err != nil {
		log.WithError(err).WithField("event", eventType).Warn("Failed to publish event")
	}
}

func (h *NightWatchHandler) dbError(w http.ResponseWriter, err error, msg string) {
	h.log.WithError(err).Error(msg)
	writeError(w, http.StatusInternalServerError, "Database error")
}
