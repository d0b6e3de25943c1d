package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/urbanhive/internal/db"
	"github.com/ukydev/urbanhive/internal/models"
)

// UserHandler handles user requests
type UserHandler struct {
	users db.UserCollection
	log   *logrus.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users db.UserCollection, log *logrus.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// AddUser handles user creation
func (h *UserHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req models.AddUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		h.log.WithField("fields", missing).Warn("Missing required field(s)")
		writeError(w, http.StatusBadRequest, "Missing required field(s): "+strings.Join(missing, ", "))
		return
	}
	user := req.User()
	if err := user.Location.Validate(); err != nil {
		writeGeoError(w, err)
		return
	}
	if user.AreaRadius < 0 {
		writeError(w, http.StatusBadRequest, "area_radius must not be negative")
		return
	}

	if _, err := h.users.FindUserByID(r.Context(), user.ID); err == nil {
		writeError(w, http.StatusConflict, "User with this ID or email already exists")
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		h.dbError(w, err, "Failed to look up user")
		return
	}
	if _, err := h.users.FindUserByEmail(r.Context(), user.Email); err == nil {
		writeError(w, http.StatusConflict, "User with this ID or email already exists")
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		h.dbError(w, err, "Failed to look up user")
		return
	}

	// stored timestamps have millisecond precision
	now := time.Now().UTC().Truncate(time.Millisecond)
	user.CreatedAt = now
	user.UpdatedAt = now
	if err := h.users.InsertUser(r.Context(), user); err != nil {
		if db.IsDuplicateKey(err) {
			writeError(w, http.StatusConflict, "User with this ID or email already exists")
			return
		}
		h.dbError(w, err, "Failed to insert user")
		return
	}

	h.log.WithField("user_id", user.ID).Info("User added")
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User added successfully",
		"user":    user,
	})
}

// ListUsers returns every user
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.FindUsers(r.Context())
	if err != nil {
		h.dbError(w, err, "Failed to fetch users")
		return
	}
	h.log.WithField("count", len(users)).Debug("Users fetched")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Users fetched successfully",
		"users":   users,
	})
}

// GetUser returns a user by ID
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	user, err := h.users.FindUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found!")
			return
		}
		h.dbError(w, err, "Failed to fetch user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateRadius changes the search radius of a user
func (h *UserHandler) UpdateRadius(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req models.RadiusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Radius == nil || *req.Radius <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid or missing 'radius'. A positive number is required.")
		return
	}

	user, err := h.users.UpdateRadius(r.Context(), id, *req.Radius)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.dbError(w, err, "Failed to update radius")
		return
	}

	h.log.WithFields(logrus.Fields{"user_id": id, "radius": *req.Radius}).Info("Radius updated")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Radius updated successfully",
		"user":    user,
	})
}

// UpdateUser changes the profile fields of a user
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req models.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	fields := req.Fields()
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "No updatable fields provided")
		return
	}
	if (req.Name != nil && strings.TrimSpace(*req.Name) == "") || (req.Email != nil && strings.TrimSpace(*req.Email) == "") {
		writeError(w, http.StatusBadRequest, "name and email must not be empty")
		return
	}
	if req.Location != nil {
		if err := req.Location.Validate(); err != nil {
			writeGeoError(w, err)
			return
		}
	}
	if req.AreaRadius != nil && *req.AreaRadius < 0 {
		writeError(w, http.StatusBadRequest, "area_radius must not be negative")
		return
	}

	user, err := h.users.UpdateUser(r.Context(), id, fields)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		case db.IsDuplicateKey(err):
			writeError(w, http.StatusConflict, "User with this email already exists")
		default:
			h.dbError(w, err, "Failed to update user")
		}
		return
	}

	h.log.WithFields(logrus.Fields{"user_id": id, "fields": len(fields)}).Info("User updated")
	writeJSON(w, http.StatusOK, user)
}

// DeleteUser removes a user
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.dbError(w, err, "Failed to delete user")
		return
	}

	h.log.WithField("user_id", id).Info("User deleted")
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

func (h *UserHandler) dbError(w http.ResponseWriter, err error, msg string) {
	h.log.WithError(err).Error(msg)
	writeError(w, http.StatusInternalServerError, "Database error")
}
