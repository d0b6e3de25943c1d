package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/urbanhive/internal/db"
	"github.com/ukydev/urbanhive/internal/events"
	"github.com/ukydev/urbanhive/internal/models"
)

// PostHandler handles community post requests
type PostHandler struct {
	posts       db.PostCollection
	communities db.CommunityCollection
	users       db.UserCollection
	publisher   events.Publisher
	log         *logrus.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(
	posts db.PostCollection,
	communities db.CommunityCollection,
	users db.UserCollection,
	publisher events.Publisher,
	log *logrus.Logger,
) *PostHandler {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &PostHandler{posts: posts, communities: communities, users: users, publisher: publisher, log: log}
}

// AddPost publishes a member's post to their community
func (h *PostHandler) AddPost(w http.ResponseWriter, r *http.Request) {
	var req models.AddPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !req.Complete() {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	ctx := r.Context()
	community, err := h.communities.FindCommunityByArea(ctx, req.CommunityArea)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		h.dbError(w, err, "Failed to look up community")
		return
	}
	if community == nil {
		writeError(w, http.StatusNotFound, "User is not a member of the community")
		return
	}

	user, err := h.users.FindUserByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.dbError(w, err, "Failed to look up user")
		return
	}
	if !community.HasMember(user.ID) && !user.IsMemberOf(community.Area) {
		writeError(w, http.StatusNotFound, "User is not a member of the community")
		return
	}

	post := models.Post{
		PostID:        uuid.NewString(),
		UserID:        user.ID,
		UserName:      user.Name,
		CommunityArea: community.Area,
		PostContent:   *req.PostContent,
		PostDate:      req.PostDate,
	}
	if err := h.posts.InsertPost(ctx, post); err != nil {
		if db.IsDuplicateKey(err) {
			writeError(w, http.StatusConflict, "Post with this data already exists")
			return
		}
		h.dbError(w, err, "Failed to insert post")
		return
	}

	publish(ctx, h.publisher, h.log, events.PostAdded, post)
	h.log.WithFields(logrus.Fields{"post_id": post.PostID, "community": post.CommunityArea}).Info("Post added")
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Post added successfully",
		"post_id": post.PostID,
	})
}

// ByCommunity lists the posts of a community
func (h *PostHandler) ByCommunity(w http.ResponseWriter, r *http.Request) {
	area := r.URL.Query().Get("community_area")
	if area == "" {
		writeError(w, http.StatusBadRequest, "community_area is required")
		return
	}
	posts, err := h.posts.FindPostsByArea(r.Context(), area)
	if err != nil {
		h.dbError(w, err, "Failed to load posts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// DeletePost removes a post
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	var req models.DeletePostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.PostID == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: post_id")
		return
	}

	if err := h.posts.DeletePost(r.Context(), req.PostID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Post not found or already deleted")
			return
		}
		h.dbError(w, err, "Failed to delete post")
		return
	}

	publish(r.Context(), h.publisher, h.log, events.PostDeleted, map[string]string{"post_id": req.PostID})
	h.log.WithField("post_id", req.PostID).Info("Post deleted")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

func (h *PostHandler) dbError(w http.ResponseWriter, err error, msg string) {
	h.log.WithError(err).Error(msg)
	writeError(w, http.StatusInternalServerError, "Database error")
}
