package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/urbanhive/internal/db"
	"github.com/ukydev/urbanhive/internal/events"
	"github.com/ukydev/urbanhive/internal/models"
)

// EventHandler handles community event requests
type EventHandler struct {
	events      db.EventCollection
	communities db.CommunityCollection
	users       db.UserCollection
	publisher   events.Publisher
	log         *logrus.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(
	evts db.EventCollection,
	communities db.CommunityCollection,
	users db.UserCollection,
	publisher events.Publisher,
	log *logrus.Logger,
) *EventHandler {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &EventHandler{events: evts, communities: communities, users: users, publisher: publisher, log: log}
}

// AddEvent organizes an event in a community
func (h *EventHandler) AddEvent(w http.ResponseWriter, r *http.Request) {
	var req models.AddEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if missing := req.MissingFields(); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "))
		return
	}
	if err := req.Location.Validate(); err != nil {
		writeGeoError(w, err)
		return
	}
	if req.EndsBeforeStart() {
		writeError(w, http.StatusBadRequest, "end_time must not precede start_time")
		return
	}

	ctx := r.Context()
	if _, err := h.communities.FindCommunityByArea(ctx, req.CommunityName); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Community not found")
			return
		}
		h.dbError(w, err, "Failed to look up community")
		return
	}
	if _, err := h.users.FindUserByID(ctx, req.InitiatorID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Initiator not found")
			return
		}
		h.dbError(w, err, "Failed to look up initiator")
		return
	}

	guests := req.GuestList
	if guests == nil {
		guests = []string{}
	}
	event := models.Event{
		EventID:       uuid.NewString(),
		InitiatorID:   req.InitiatorID,
		CommunityName: req.CommunityName,
		Location:      *req.Location,
		EventName:     req.EventName,
		EventType:     req.EventType,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Guests:        guests,
		Attending:     []string{},
	}
	if err := h.events.InsertEvent(ctx, event); err != nil {
		if db.IsDuplicateKey(err) {
			writeError(w, http.StatusConflict, "An event with this name already exists in the community")
			return
		}
		h.dbError(w, err, "Failed to insert event")
		return
	}

	publish(ctx, h.publisher, h.log, events.EventCreated, event)
	h.log.WithFields(logrus.Fields{
		"event_id":  event.EventID,
		"community": event.CommunityName,
		"guests":    len(event.Guests),
	}).Info("Event created")
	writeJSON(w, http.StatusCreated, map[string]string{
		"message":  "Event created successfully",
		"event_id": event.EventID,
	})
}

// GetAllEvents lists events, optionally filtered by community_name
func (h *EventHandler) GetAllEvents(w http.ResponseWriter, r *http.Request) {
	list, err := h.events.FindEvents(r.Context(), r.URL.Query().Get("community_name"))
	if err != nil {
		h.dbError(w, err, "Failed to load events")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// DeleteEvent cancels an event
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.EventID == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: event_id")
		return
	}

	if err := h.events.DeleteEvent(r.Context(), req.EventID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		h.dbError(w, err, "Failed to delete event")
		return
	}

	publish(r.Context(), h.publisher, h.log, events.EventDeleted, map[string]string{"event_id": req.EventID})
	h.log.WithField("event_id", req.EventID).Info("Event deleted")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully!"})
}

func (h *EventHandler) dbError(w http.ResponseWriter, err error, msg string) {
	h.log.WithError(err).Error(msg)
	writeError(w, http.StatusInternalServerError, "Database error")
}
